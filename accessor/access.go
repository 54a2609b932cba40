package accessor

// scalarConv bundles the two directions of the ScalarType <-> Go value
// conversions from scalars.go so the generic get/set engine below can stay
// free of a 15-way type switch.
type scalarConv[T any] struct {
	typ  ScalarType
	to   func(T) scalarValue
	from func(scalarValue) T
}

var (
	boolConv     = scalarConv[bool]{TBool, boolToScalar, scalarToBool}
	int32Conv    = scalarConv[int32]{TInt32, int32ToScalar, scalarToInt32}
	uint32Conv   = scalarConv[uint32]{TUint32, uint32ToScalar, scalarToUint32}
	sint32Conv   = scalarConv[int32]{TSint32, sint32ToScalar, scalarToSint32}
	int64Conv    = scalarConv[int64]{TInt64, int64ToScalar, scalarToInt64}
	uint64Conv   = scalarConv[uint64]{TUint64, uint64ToScalar, scalarToUint64}
	sint64Conv   = scalarConv[int64]{TSint64, sint64ToScalar, scalarToSint64}
	fixed32Conv  = scalarConv[uint32]{TFixed32, fixed32ToScalar, scalarToFixed32}
	sfixed32Conv = scalarConv[int32]{TSfixed32, sfixed32ToScalar, scalarToSfixed32}
	fixed64Conv  = scalarConv[uint64]{TFixed64, fixed64ToScalar, scalarToFixed64}
	sfixed64Conv = scalarConv[int64]{TSfixed64, sfixed64ToScalar, scalarToSfixed64}
	floatConv    = scalarConv[float32]{TFloat, floatToScalar, scalarToFloat}
	doubleConv   = scalarConv[float64]{TDouble, doubleToScalar, scalarToDouble}
	stringConv   = scalarConv[string]{TString, stringToScalar, scalarToString}
	bytesConv    = scalarConv[[]byte]{TBytes, bytesToScalar, scalarToBytes}
)

// getScalar implements spec §4.3's Get semantics for singular scalar T.
func getScalar[T any](a *Accessor, fieldNumber int32, conv scalarConv[T], def T) (T, error) {
	if err := a.checkBounds(fieldNumber); err != nil {
		return def, err
	}
	if err := a.ensureIndexed(); err != nil {
		return def, err
	}
	e := a.entryFor(fieldNumber)
	if e == nil || !e.hasValue() {
		return def, nil
	}

	wanted := canonicalWireType(conv.typ)

	switch e.kind {
	case entryDecoded:
		if e.decoded.wireType != wanted && a.checks.CriticalType {
			return def, wireTypeMismatchErr(wanted, e.decoded.wireType)
		}
		return conv.from(e.decoded), nil

	case entryRaw:
		last := e.ranges[len(e.ranges)-1]
		if last.wireType != wanted && a.checks.CriticalType {
			return def, wireTypeMismatchErr(wanted, last.wireType)
		}
		// Decode at the requested type's wire format: when the recorded
		// wire type matches this is just "the" decode; when it doesn't
		// and critical-type checks are off, this is the "decode anyway"
		// fallback from spec §4.3 step 5, bounds-guarded by
		// CHECK_CRITICAL_STATE.
		v, err := decodeAtBounded(a.sourceBuf(), last, wanted, a.checks.CriticalState)
		if err != nil {
			return def, err
		}
		a.setEntry(fieldNumber, &entry{kind: entryDecoded, decoded: v})
		return conv.from(v), nil

	case entryMessage, entryRepeated:
		if a.checks.CriticalType {
			return def, wireTypeMismatchErr(wanted, e.recordedWireType())
		}
		return def, nil

	default: // entryCleared, already excluded by hasValue, kept for completeness
		return def, nil
	}
}

// setScalar implements spec §4.3's Set semantics.
func setScalar[T any](a *Accessor, fieldNumber int32, conv scalarConv[T], v T) error {
	if (a.checks.Bounds || a.checks.Type) && !validFieldNumber(fieldNumber) {
		return outOfRangeErr(fieldNumber)
	}
	if err := a.ensureIndexed(); err != nil {
		return err
	}
	a.setEntry(fieldNumber, &entry{kind: entryDecoded, decoded: conv.to(v)})
	return nil
}

// --- Bool ---

func (a *Accessor) GetBoolWithDefault(fieldNumber int32, def bool) (bool, error) {
	return getScalar(a, fieldNumber, boolConv, def)
}
func (a *Accessor) GetBool(fieldNumber int32) (bool, error) {
	return getScalar(a, fieldNumber, boolConv, false)
}
func (a *Accessor) SetBool(fieldNumber int32, v bool) error {
	return setScalar(a, fieldNumber, boolConv, v)
}

// --- Int32 ---

func (a *Accessor) GetInt32WithDefault(fieldNumber int32, def int32) (int32, error) {
	return getScalar(a, fieldNumber, int32Conv, def)
}
func (a *Accessor) GetInt32(fieldNumber int32) (int32, error) {
	return getScalar(a, fieldNumber, int32Conv, 0)
}
func (a *Accessor) SetInt32(fieldNumber int32, v int32) error {
	return setScalar(a, fieldNumber, int32Conv, v)
}

// --- Uint32 ---

func (a *Accessor) GetUint32WithDefault(fieldNumber int32, def uint32) (uint32, error) {
	return getScalar(a, fieldNumber, uint32Conv, def)
}
func (a *Accessor) GetUint32(fieldNumber int32) (uint32, error) {
	return getScalar(a, fieldNumber, uint32Conv, 0)
}
func (a *Accessor) SetUint32(fieldNumber int32, v uint32) error {
	return setScalar(a, fieldNumber, uint32Conv, v)
}

// --- Sint32 ---

func (a *Accessor) GetSint32WithDefault(fieldNumber int32, def int32) (int32, error) {
	return getScalar(a, fieldNumber, sint32Conv, def)
}
func (a *Accessor) GetSint32(fieldNumber int32) (int32, error) {
	return getScalar(a, fieldNumber, sint32Conv, 0)
}
func (a *Accessor) SetSint32(fieldNumber int32, v int32) error {
	return setScalar(a, fieldNumber, sint32Conv, v)
}

// --- Int64 ---

func (a *Accessor) GetInt64WithDefault(fieldNumber int32, def int64) (int64, error) {
	return getScalar(a, fieldNumber, int64Conv, def)
}
func (a *Accessor) GetInt64(fieldNumber int32) (int64, error) {
	return getScalar(a, fieldNumber, int64Conv, 0)
}
func (a *Accessor) SetInt64(fieldNumber int32, v int64) error {
	return setScalar(a, fieldNumber, int64Conv, v)
}

// --- Uint64 ---

func (a *Accessor) GetUint64WithDefault(fieldNumber int32, def uint64) (uint64, error) {
	return getScalar(a, fieldNumber, uint64Conv, def)
}
func (a *Accessor) GetUint64(fieldNumber int32) (uint64, error) {
	return getScalar(a, fieldNumber, uint64Conv, 0)
}
func (a *Accessor) SetUint64(fieldNumber int32, v uint64) error {
	return setScalar(a, fieldNumber, uint64Conv, v)
}

// --- Sint64 ---

func (a *Accessor) GetSint64WithDefault(fieldNumber int32, def int64) (int64, error) {
	return getScalar(a, fieldNumber, sint64Conv, def)
}
func (a *Accessor) GetSint64(fieldNumber int32) (int64, error) {
	return getScalar(a, fieldNumber, sint64Conv, 0)
}
func (a *Accessor) SetSint64(fieldNumber int32, v int64) error {
	return setScalar(a, fieldNumber, sint64Conv, v)
}

// --- Fixed32 ---

func (a *Accessor) GetFixed32WithDefault(fieldNumber int32, def uint32) (uint32, error) {
	return getScalar(a, fieldNumber, fixed32Conv, def)
}
func (a *Accessor) GetFixed32(fieldNumber int32) (uint32, error) {
	return getScalar(a, fieldNumber, fixed32Conv, 0)
}
func (a *Accessor) SetFixed32(fieldNumber int32, v uint32) error {
	return setScalar(a, fieldNumber, fixed32Conv, v)
}

// --- Sfixed32 ---

func (a *Accessor) GetSfixed32WithDefault(fieldNumber int32, def int32) (int32, error) {
	return getScalar(a, fieldNumber, sfixed32Conv, def)
}
func (a *Accessor) GetSfixed32(fieldNumber int32) (int32, error) {
	return getScalar(a, fieldNumber, sfixed32Conv, 0)
}
func (a *Accessor) SetSfixed32(fieldNumber int32, v int32) error {
	return setScalar(a, fieldNumber, sfixed32Conv, v)
}

// --- Fixed64 ---

func (a *Accessor) GetFixed64WithDefault(fieldNumber int32, def uint64) (uint64, error) {
	return getScalar(a, fieldNumber, fixed64Conv, def)
}
func (a *Accessor) GetFixed64(fieldNumber int32) (uint64, error) {
	return getScalar(a, fieldNumber, fixed64Conv, 0)
}
func (a *Accessor) SetFixed64(fieldNumber int32, v uint64) error {
	return setScalar(a, fieldNumber, fixed64Conv, v)
}

// --- Sfixed64 ---

func (a *Accessor) GetSfixed64WithDefault(fieldNumber int32, def int64) (int64, error) {
	return getScalar(a, fieldNumber, sfixed64Conv, def)
}
func (a *Accessor) GetSfixed64(fieldNumber int32) (int64, error) {
	return getScalar(a, fieldNumber, sfixed64Conv, 0)
}
func (a *Accessor) SetSfixed64(fieldNumber int32, v int64) error {
	return setScalar(a, fieldNumber, sfixed64Conv, v)
}

// --- Float ---

func (a *Accessor) GetFloatWithDefault(fieldNumber int32, def float32) (float32, error) {
	return getScalar(a, fieldNumber, floatConv, def)
}
func (a *Accessor) GetFloat(fieldNumber int32) (float32, error) {
	return getScalar(a, fieldNumber, floatConv, 0)
}

// SetFloat stores v, an already-single-precision value, as a float field.
// Unlike languages without a native float32 type, Go's float32 parameter
// type itself rules out the "does this truncate losslessly" question the
// original check existed for.
func (a *Accessor) SetFloat(fieldNumber int32, v float32) error {
	return setScalar(a, fieldNumber, floatConv, v)
}

// --- Double ---

func (a *Accessor) GetDoubleWithDefault(fieldNumber int32, def float64) (float64, error) {
	return getScalar(a, fieldNumber, doubleConv, def)
}
func (a *Accessor) GetDouble(fieldNumber int32) (float64, error) {
	return getScalar(a, fieldNumber, doubleConv, 0)
}
func (a *Accessor) SetDouble(fieldNumber int32, v float64) error {
	return setScalar(a, fieldNumber, doubleConv, v)
}

// --- String ---

func (a *Accessor) GetStringWithDefault(fieldNumber int32, def string) (string, error) {
	return getScalar(a, fieldNumber, stringConv, def)
}
func (a *Accessor) GetString(fieldNumber int32) (string, error) {
	return getScalar(a, fieldNumber, stringConv, "")
}
func (a *Accessor) SetString(fieldNumber int32, v string) error {
	return setScalar(a, fieldNumber, stringConv, v)
}

// --- Bytes ---

// GetBytesWithDefault returns the field's bytes, or def if absent. The
// returned slice aliases the source buffer when the field was decoded from
// it (the cached value is that same subslice), or the slice given to
// SetBytes otherwise; callers must treat it as read-only, matching the "opaque
// immutable byte-string" external type spec.md assumes (§1).
func (a *Accessor) GetBytesWithDefault(fieldNumber int32, def []byte) ([]byte, error) {
	return getScalar(a, fieldNumber, bytesConv, def)
}
func (a *Accessor) GetBytes(fieldNumber int32) ([]byte, error) {
	return getScalar(a, fieldNumber, bytesConv, nil)
}
func (a *Accessor) SetBytes(fieldNumber int32, v []byte) error {
	return setScalar(a, fieldNumber, bytesConv, v)
}
