package accessor_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nirav-go/lazywire/accessor"
)

func TestCreateEmptyHasNoFields(t *testing.T) {
	a := accessor.CreateEmpty()
	has, err := a.HasFieldNumber(1)
	require.NoError(t, err)
	require.False(t, has)
}

func TestClearFieldMakesAbsentFieldsStayAbsent(t *testing.T) {
	a := accessor.CreateEmpty()
	require.NoError(t, a.ClearField(1))
	has, err := a.HasFieldNumber(1)
	require.NoError(t, err)
	require.False(t, has)
}

func TestClearFieldTombstonesAPresentField(t *testing.T) {
	a := accessor.FromBuffer(hexBytes(t, "08 01"))
	require.NoError(t, a.ClearField(1))
	has, err := a.HasFieldNumber(1)
	require.NoError(t, err)
	require.False(t, has)
	v, err := a.GetBoolWithDefault(1, false)
	require.NoError(t, err)
	require.False(t, v)
}

func TestRoundTripSetBool(t *testing.T) {
	a := accessor.CreateEmpty()
	require.NoError(t, a.SetBool(5, true))
	v, err := a.GetBool(5)
	require.NoError(t, err)
	require.True(t, v)
}

// Invariant 3 / scenario S2: an untouched buffer serializes byte-identical
// to its input.
func TestRoundTripWireUntouchedBuffer(t *testing.T) {
	in := hexBytes(t, "08 01 08 00")
	a := accessor.FromBuffer(in)
	out, err := a.Serialize()
	require.NoError(t, err)
	require.Equal(t, in, out)
}

// Invariant 4: mutating the source buffer's bytes after a get must not
// change the value that get already froze into the entry.
func TestCacheFreeze(t *testing.T) {
	buf := hexBytes(t, "08 01")
	a := accessor.FromBuffer(buf)
	v, err := a.GetBool(1)
	require.NoError(t, err)
	require.True(t, v)

	buf[1] = 0x00 // corrupt the payload byte in place
	v, err = a.GetBool(1)
	require.NoError(t, err)
	require.True(t, v, "cached decode must not observe the later mutation")
}

// Invariant 5: shallow-copy isolation for scalar clears.
func TestShallowCopyIsolation(t *testing.T) {
	a := accessor.CreateEmpty()
	require.NoError(t, a.SetBool(1, true))

	cp, err := a.ShallowCopy()
	require.NoError(t, err)
	require.NoError(t, cp.ClearField(1))

	hasOrig, err := a.HasFieldNumber(1)
	require.NoError(t, err)
	hasCopy, err := cp.HasFieldNumber(1)
	require.NoError(t, err)
	require.True(t, hasOrig)
	require.False(t, hasCopy)
}

// Scenario S9, the precise wording: set then copy then clear the copy.
func TestScenarioS9ShallowCopyWithClear(t *testing.T) {
	a := accessor.CreateEmpty()
	require.NoError(t, a.SetBool(1, true))
	cp, err := a.ShallowCopy()
	require.NoError(t, err)
	require.NoError(t, cp.ClearField(1))

	hasA, err := a.HasFieldNumber(1)
	require.NoError(t, err)
	hasCopy, err := cp.HasFieldNumber(1)
	require.NoError(t, err)
	require.True(t, hasA && !hasCopy)
}

// Invariant 8: out-of-range field numbers fail under CHECK_BOUNDS.
func TestBoundsChecking(t *testing.T) {
	a := accessor.CreateEmpty()
	_, err := a.GetBool(0)
	require.Error(t, err)
	_, err = a.GetBool(accessor.MaxFieldNumber + 1)
	require.Error(t, err)
	require.Error(t, a.SetBool(0, true))
}

func TestBoundsCheckDisabledSkipsValidation(t *testing.T) {
	checks := accessor.DefaultCheckLevels()
	checks.Bounds = false
	checks.Type = false
	a := accessor.CreateEmptyWithChecks(checks)
	require.NoError(t, a.SetBool(0, true))
}

// Scenario S1.
func TestScenarioS1BoolRead(t *testing.T) {
	a := accessor.FromBuffer(hexBytes(t, "08 01"))
	v, err := a.GetBoolWithDefault(1, false)
	require.NoError(t, err)
	require.True(t, v)
	out, err := a.Serialize()
	require.NoError(t, err)
	require.Equal(t, hexBytes(t, "08 01"), out)
}

// Scenario S2 / invariant 6: last-wins for singular scalars, no write.
func TestScenarioS2LastWins(t *testing.T) {
	in := hexBytes(t, "08 01 08 00")
	a := accessor.FromBuffer(in)
	v, err := a.GetBool(1)
	require.NoError(t, err)
	require.False(t, v)
	out, err := a.Serialize()
	require.NoError(t, err)
	require.Equal(t, in, out)
}

// Scenario S3: a set overwrites and collapses prior raw ranges.
func TestScenarioS3SetOverwrites(t *testing.T) {
	a := accessor.FromBuffer(hexBytes(t, "08 01 08 00"))
	require.NoError(t, a.SetBool(1, true))
	out, err := a.Serialize()
	require.NoError(t, err)
	require.Equal(t, hexBytes(t, "08 01"), out)
}

// Scenario S7.
func TestScenarioS7Fixed32(t *testing.T) {
	a := accessor.FromBuffer(hexBytes(t, "0D 01 00 00 00"))
	v, err := a.GetFixed32(1)
	require.NoError(t, err)
	require.Equal(t, uint32(1), v)
}

// Scenario S8.
func TestScenarioS8String(t *testing.T) {
	a := accessor.FromBuffer(hexBytes(t, "0A 01 61"))
	v, err := a.GetString(1)
	require.NoError(t, err)
	require.Equal(t, "a", v)
}

func TestFieldNumbersAscending(t *testing.T) {
	a := accessor.FromBuffer(hexBytes(t, "08 01 10 02 18 03"))
	nums, err := a.FieldNumbers()
	require.NoError(t, err)
	require.Equal(t, []int32{1, 2, 3}, nums)
}

func TestGetPivotIsAdvisoryOnly(t *testing.T) {
	a1 := accessor.FromBuffer(hexBytes(t, "08 01"), 1)
	a2 := accessor.FromBuffer(hexBytes(t, "08 01"), 1000)
	require.Equal(t, int32(1), a1.GetPivot())
	require.Equal(t, int32(1000), a2.GetPivot())

	v1, err := a1.GetBool(1)
	require.NoError(t, err)
	v2, err := a2.GetBool(1)
	require.NoError(t, err)
	require.Equal(t, v1, v2, "pivot must not change observable behavior")
}

func TestDefaultPivot(t *testing.T) {
	a := accessor.CreateEmpty()
	require.Equal(t, int32(accessor.DefaultPivot), a.GetPivot())
}

func TestWireTypeMismatchStrict(t *testing.T) {
	// Field 1 encoded as a varint; reading it as a length-delimited string
	// must fail under critical-type checks.
	a := accessor.FromBuffer(hexBytes(t, "08 01"))
	_, err := a.GetString(1)
	require.Error(t, err)
}

func TestWireTypeMismatchLenient(t *testing.T) {
	checks := accessor.DefaultCheckLevels()
	checks.CriticalType = false
	// Field 1 is a varint whose 4-byte encoding can also be read, byte for
	// byte, as a Fixed32 payload — lenient mode reinterprets it as such
	// instead of failing on the wire-type mismatch.
	a := accessor.FromBufferWithChecks(hexBytes(t, "08 FF FF FF 7F"), checks)
	_, err := a.GetFixed32(1)
	require.NoError(t, err)
}

func TestParseErrorOnTruncatedBuffer(t *testing.T) {
	a := accessor.FromBuffer(hexBytes(t, "08")) // tag with no varint payload
	_, err := a.HasFieldNumber(1)
	require.Error(t, err)
}

// CHECK_CRITICAL_STATE guards the lenient mismatched-wire-type fallback:
// field 1's varint payload is only 1 byte, so reinterpreting it as a
// Fixed32 would read 3 bytes past its recorded extent and into field 2's
// bytes. With CriticalState on (and CriticalType off), that must fail
// instead of silently returning a value built from the wrong bytes.
func TestCriticalStateCatchesOverrunOnLenientReinterpret(t *testing.T) {
	checks := accessor.DefaultCheckLevels()
	checks.CriticalType = false
	a := accessor.FromBufferWithChecks(hexBytes(t, "08 01 10 FF FF FF 7F"), checks)
	_, err := a.GetFixed32(1)
	require.Error(t, err)
}

// With CriticalState also off, the same overrunning reinterpretation is
// allowed through exactly as it was before CriticalState was wired up.
func TestCriticalStateDisabledAllowsOverrunOnLenientReinterpret(t *testing.T) {
	checks := accessor.DefaultCheckLevels()
	checks.CriticalType = false
	checks.CriticalState = false
	a := accessor.FromBufferWithChecks(hexBytes(t, "08 01 10 FF FF FF 7F"), checks)
	_, err := a.GetFixed32(1)
	require.NoError(t, err)
}
