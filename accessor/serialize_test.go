package accessor_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nirav-go/lazywire/accessor"
)

func TestSerializeEmptyAccessorIsZeroLength(t *testing.T) {
	a := accessor.CreateEmpty()
	out, err := a.Serialize()
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestSerializeSkipsClearedFields(t *testing.T) {
	a := accessor.FromBuffer(hexBytes(t, "08 01 10 02"))
	require.NoError(t, a.ClearField(1))
	out, err := a.Serialize()
	require.NoError(t, err)
	require.Equal(t, hexBytes(t, "10 02"), out)
}

func TestSerializeIsReadOnly(t *testing.T) {
	in := hexBytes(t, "08 01")
	a := accessor.FromBuffer(in)
	_, err := a.Serialize()
	require.NoError(t, err)
	has, err := a.HasFieldNumber(1)
	require.NoError(t, err)
	require.True(t, has)
	// Calling Serialize twice must be idempotent.
	out1, err := a.Serialize()
	require.NoError(t, err)
	out2, err := a.Serialize()
	require.NoError(t, err)
	require.Equal(t, out1, out2)
}

func TestSerializeMultipleScalarTypesAscendingOrder(t *testing.T) {
	a := accessor.CreateEmpty()
	require.NoError(t, a.SetInt32(3, 9))
	require.NoError(t, a.SetBool(1, true))
	require.NoError(t, a.SetFixed32(2, 0x01020304))

	out, err := a.Serialize()
	require.NoError(t, err)
	require.Equal(t, hexBytes(t, "08 01 15 04 03 02 01 18 09"), out)
}

func TestSerializeUntouchedMultiFieldBufferRoundTrips(t *testing.T) {
	in := hexBytes(t, "08 01 10 02 18 03 22 01 61")
	a := accessor.FromBuffer(in)
	out, err := a.Serialize()
	require.NoError(t, err)
	require.Equal(t, in, out)
}
