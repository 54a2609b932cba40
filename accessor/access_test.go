package accessor_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nirav-go/lazywire/accessor"
)

func TestScalarRoundTripsByType(t *testing.T) {
	a := accessor.CreateEmpty()

	require.NoError(t, a.SetInt32(1, -7))
	v1, err := a.GetInt32(1)
	require.NoError(t, err)
	require.Equal(t, int32(-7), v1)

	require.NoError(t, a.SetUint32(2, 42))
	v2, err := a.GetUint32(2)
	require.NoError(t, err)
	require.Equal(t, uint32(42), v2)

	require.NoError(t, a.SetSint32(3, -1000))
	v3, err := a.GetSint32(3)
	require.NoError(t, err)
	require.Equal(t, int32(-1000), v3)

	require.NoError(t, a.SetInt64(4, -1))
	v4, err := a.GetInt64(4)
	require.NoError(t, err)
	require.Equal(t, int64(-1), v4)

	require.NoError(t, a.SetUint64(5, math.MaxUint64))
	v5, err := a.GetUint64(5)
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64), v5)

	require.NoError(t, a.SetSint64(6, -123456789))
	v6, err := a.GetSint64(6)
	require.NoError(t, err)
	require.Equal(t, int64(-123456789), v6)

	require.NoError(t, a.SetFixed32(7, 0xdeadbeef))
	v7, err := a.GetFixed32(7)
	require.NoError(t, err)
	require.Equal(t, uint32(0xdeadbeef), v7)

	require.NoError(t, a.SetSfixed32(8, -5))
	v8, err := a.GetSfixed32(8)
	require.NoError(t, err)
	require.Equal(t, int32(-5), v8)

	require.NoError(t, a.SetFixed64(9, 0x0123456789abcdef))
	v9, err := a.GetFixed64(9)
	require.NoError(t, err)
	require.Equal(t, uint64(0x0123456789abcdef), v9)

	require.NoError(t, a.SetSfixed64(10, -9))
	v10, err := a.GetSfixed64(10)
	require.NoError(t, err)
	require.Equal(t, int64(-9), v10)

	require.NoError(t, a.SetDouble(11, 3.14159265358979))
	v11, err := a.GetDouble(11)
	require.NoError(t, err)
	require.Equal(t, 3.14159265358979, v11)

	require.NoError(t, a.SetString(12, "hello, world"))
	v12, err := a.GetString(12)
	require.NoError(t, err)
	require.Equal(t, "hello, world", v12)

	require.NoError(t, a.SetBytes(13, []byte{0, 1, 2, 3}))
	v13, err := a.GetBytes(13)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 1, 2, 3}, v13)
}

// Scenario S6: float canonicalizes through single precision.
func TestScenarioS6FloatCanonicalization(t *testing.T) {
	a := accessor.CreateEmpty()
	require.NoError(t, a.SetFloat(1, 1.6))
	v, err := a.GetFloat(1)
	require.NoError(t, err)
	require.Equal(t, float32(1.6), v)
}

func TestGetWithDefaultOnAbsentField(t *testing.T) {
	a := accessor.CreateEmpty()
	v, err := a.GetInt32WithDefault(1, 99)
	require.NoError(t, err)
	require.Equal(t, int32(99), v)
}

func TestGetWithoutDefaultReturnsTypeZero(t *testing.T) {
	a := accessor.CreateEmpty()
	v, err := a.GetString(1)
	require.NoError(t, err)
	require.Equal(t, "", v)
}

func TestSetOverwritesPriorRawRanges(t *testing.T) {
	a := accessor.FromBuffer(hexBytes(t, "08 01 08 00"))
	require.NoError(t, a.SetBool(1, false))
	v, err := a.GetBool(1)
	require.NoError(t, err)
	require.False(t, v)
	out, err := a.Serialize()
	require.NoError(t, err)
	require.Equal(t, hexBytes(t, "08 00"), out)
}
