package accessor

import "github.com/nirav-go/lazywire/wire"

// ensureRepeated returns the entryRepeated entry for fieldNumber, lazily
// materializing one from a Raw entry the first time a repeated-typed
// operation touches the field (spec §4.4). wanted is the canonical wire
// type of the scalar type the caller is accessing the field as.
func (a *Accessor) ensureRepeated(fieldNumber int32, wanted wire.Type) (*entry, error) {
	if err := a.ensureIndexed(); err != nil {
		return nil, err
	}
	e := a.entryFor(fieldNumber)
	if e == nil || e.kind == entryCleared {
		e = &entry{kind: entryRepeated, wireType: wanted}
		a.setEntry(fieldNumber, e)
		return e, nil
	}
	if e.kind == entryRepeated {
		if e.wireType != wanted && a.checks.CriticalType {
			return nil, wireTypeMismatchErr(wanted, e.wireType)
		}
		return e, nil
	}
	if e.kind != entryRaw {
		if a.checks.CriticalType {
			return nil, wireTypeMismatchErr(wanted, e.recordedWireType())
		}
		e = &entry{kind: entryRepeated, wireType: wanted}
		a.setEntry(fieldNumber, e)
		return e, nil
	}

	elems, packed, err := decodeRepeatedRanges(a.sourceBuf(), e.ranges, wanted, a.checks.CriticalType, a.checks.CriticalState)
	if err != nil {
		return nil, err
	}
	re := &entry{kind: entryRepeated, wireType: wanted, elems: elems, packed: packed}
	a.setEntry(fieldNumber, re)
	return re, nil
}

// decodeRepeatedRanges concatenates every occurrence of a repeated field in
// encounter order, transparently handling a mix of packed (one
// length-delimited payload holding several concatenated values) and
// unpacked (one tag per element) ranges, per spec §4.4.
func decodeRepeatedRanges(src []byte, ranges []byteRange, wanted wire.Type, strict, checkState bool) ([]scalarValue, bool, error) {
	var elems []scalarValue
	packed := false
	for _, rng := range ranges {
		switch {
		case rng.wireType == wanted:
			packed = false
			v, _, err := decodeAt(src, rng.payloadStart, wanted)
			if err != nil {
				return nil, false, err
			}
			elems = append(elems, v)

		case rng.wireType == wire.BytesType && wanted != wire.BytesType:
			// A packed payload: subdivide it into consecutive wanted-type
			// values until the payload is exhausted.
			packed = true
			off := rng.payloadStart
			for off < rng.payloadEnd {
				v, n, err := decodeOneAdvancing(src, off, wanted)
				if err != nil {
					return nil, false, err
				}
				elems = append(elems, v)
				off += n
			}

		default:
			if strict {
				return nil, false, wireTypeMismatchErr(wanted, rng.wireType)
			}
			packed = false
			// Checks disabled: best-effort, attempt to decode as wanted
			// anyway (spec §4.3 step 5, applied per-element here), bounds-
			// guarded by CHECK_CRITICAL_STATE the same way the singular
			// scalar path is.
			v, err := decodeAtBounded(src, rng, wanted, checkState)
			if err != nil {
				return nil, false, err
			}
			elems = append(elems, v)
		}
	}
	return elems, packed, nil
}

// decodeOneAdvancing decodes a single wanted-type value at offset off in
// src and also reports how many bytes it consumed, for iterating a packed
// payload.
func decodeOneAdvancing(src []byte, off int, wanted wire.Type) (scalarValue, int, error) {
	r := wire.NewReader(src[off:])
	var v scalarValue
	var err error
	switch wanted {
	case wire.VarintType:
		var x uint64
		x, err = r.DecodeVarint()
		v = scalarValue{wireType: wanted, bits: x}
	case wire.Fixed32Type:
		var x uint32
		x, err = r.DecodeFixed32()
		v = scalarValue{wireType: wanted, bits: uint64(x)}
	case wire.Fixed64Type:
		var x uint64
		x, err = r.DecodeFixed64()
		v = scalarValue{wireType: wanted, bits: x}
	default:
		return scalarValue{}, 0, parseErr("wire type %s cannot appear in a packed payload", wire.TypeName(wanted))
	}
	if err != nil {
		return scalarValue{}, 0, err
	}
	return v, r.Pos(), nil
}

// Generic engines behind the exported per-scalar-type repeated API below.

func getRepeated[T any](a *Accessor, fieldNumber int32, conv scalarConv[T]) ([]T, error) {
	if err := a.checkBounds(fieldNumber); err != nil {
		return nil, err
	}
	e, err := a.ensureRepeated(fieldNumber, canonicalWireType(conv.typ))
	if err != nil {
		return nil, err
	}
	out := make([]T, len(e.elems))
	for i, v := range e.elems {
		out[i] = conv.from(v)
	}
	return out, nil
}

func addRepeatedElement[T any](a *Accessor, fieldNumber int32, conv scalarConv[T], v T) error {
	if err := a.checkBounds(fieldNumber); err != nil {
		return err
	}
	e, err := a.ensureRepeated(fieldNumber, canonicalWireType(conv.typ))
	if err != nil {
		return err
	}
	e.elems = append(e.elems, conv.to(v))
	return nil
}

func addRepeatedIterable[T any](a *Accessor, fieldNumber int32, conv scalarConv[T], vs []T) error {
	if err := a.checkBounds(fieldNumber); err != nil {
		return err
	}
	e, err := a.ensureRepeated(fieldNumber, canonicalWireType(conv.typ))
	if err != nil {
		return err
	}
	for _, v := range vs {
		e.elems = append(e.elems, conv.to(v))
	}
	return nil
}

func setPackedIterable[T any](a *Accessor, fieldNumber int32, conv scalarConv[T], vs []T) error {
	if (a.checks.Bounds || a.checks.Type) && !validFieldNumber(fieldNumber) {
		return outOfRangeErr(fieldNumber)
	}
	if err := a.ensureIndexed(); err != nil {
		return err
	}
	elems := make([]scalarValue, len(vs))
	for i, v := range vs {
		elems[i] = conv.to(v)
	}
	a.setEntry(fieldNumber, &entry{
		kind:     entryRepeated,
		wireType: canonicalWireType(conv.typ),
		elems:    elems,
		packed:   conv.typ != TString && conv.typ != TBytes,
	})
	return nil
}

// --- exported per-type repeated API ---

func (a *Accessor) GetRepeatedBoolIterable(fieldNumber int32) ([]bool, error) {
	return getRepeated(a, fieldNumber, boolConv)
}
func (a *Accessor) AddUnpackedBoolElement(fieldNumber int32, v bool) error {
	return addRepeatedElement(a, fieldNumber, boolConv, v)
}
func (a *Accessor) AddUnpackedBoolIterable(fieldNumber int32, vs []bool) error {
	return addRepeatedIterable(a, fieldNumber, boolConv, vs)
}
func (a *Accessor) SetPackedBoolIterable(fieldNumber int32, vs []bool) error {
	return setPackedIterable(a, fieldNumber, boolConv, vs)
}

func (a *Accessor) GetRepeatedInt32Iterable(fieldNumber int32) ([]int32, error) {
	return getRepeated(a, fieldNumber, int32Conv)
}
func (a *Accessor) AddUnpackedInt32Element(fieldNumber int32, v int32) error {
	return addRepeatedElement(a, fieldNumber, int32Conv, v)
}
func (a *Accessor) AddUnpackedInt32Iterable(fieldNumber int32, vs []int32) error {
	return addRepeatedIterable(a, fieldNumber, int32Conv, vs)
}
func (a *Accessor) SetPackedInt32Iterable(fieldNumber int32, vs []int32) error {
	return setPackedIterable(a, fieldNumber, int32Conv, vs)
}

func (a *Accessor) GetRepeatedUint32Iterable(fieldNumber int32) ([]uint32, error) {
	return getRepeated(a, fieldNumber, uint32Conv)
}
func (a *Accessor) AddUnpackedUint32Element(fieldNumber int32, v uint32) error {
	return addRepeatedElement(a, fieldNumber, uint32Conv, v)
}
func (a *Accessor) AddUnpackedUint32Iterable(fieldNumber int32, vs []uint32) error {
	return addRepeatedIterable(a, fieldNumber, uint32Conv, vs)
}
func (a *Accessor) SetPackedUint32Iterable(fieldNumber int32, vs []uint32) error {
	return setPackedIterable(a, fieldNumber, uint32Conv, vs)
}

func (a *Accessor) GetRepeatedSint32Iterable(fieldNumber int32) ([]int32, error) {
	return getRepeated(a, fieldNumber, sint32Conv)
}
func (a *Accessor) AddUnpackedSint32Element(fieldNumber int32, v int32) error {
	return addRepeatedElement(a, fieldNumber, sint32Conv, v)
}
func (a *Accessor) AddUnpackedSint32Iterable(fieldNumber int32, vs []int32) error {
	return addRepeatedIterable(a, fieldNumber, sint32Conv, vs)
}
func (a *Accessor) SetPackedSint32Iterable(fieldNumber int32, vs []int32) error {
	return setPackedIterable(a, fieldNumber, sint32Conv, vs)
}

func (a *Accessor) GetRepeatedInt64Iterable(fieldNumber int32) ([]int64, error) {
	return getRepeated(a, fieldNumber, int64Conv)
}
func (a *Accessor) AddUnpackedInt64Element(fieldNumber int32, v int64) error {
	return addRepeatedElement(a, fieldNumber, int64Conv, v)
}
func (a *Accessor) AddUnpackedInt64Iterable(fieldNumber int32, vs []int64) error {
	return addRepeatedIterable(a, fieldNumber, int64Conv, vs)
}
func (a *Accessor) SetPackedInt64Iterable(fieldNumber int32, vs []int64) error {
	return setPackedIterable(a, fieldNumber, int64Conv, vs)
}

func (a *Accessor) GetRepeatedUint64Iterable(fieldNumber int32) ([]uint64, error) {
	return getRepeated(a, fieldNumber, uint64Conv)
}
func (a *Accessor) AddUnpackedUint64Element(fieldNumber int32, v uint64) error {
	return addRepeatedElement(a, fieldNumber, uint64Conv, v)
}
func (a *Accessor) AddUnpackedUint64Iterable(fieldNumber int32, vs []uint64) error {
	return addRepeatedIterable(a, fieldNumber, uint64Conv, vs)
}
func (a *Accessor) SetPackedUint64Iterable(fieldNumber int32, vs []uint64) error {
	return setPackedIterable(a, fieldNumber, uint64Conv, vs)
}

func (a *Accessor) GetRepeatedSint64Iterable(fieldNumber int32) ([]int64, error) {
	return getRepeated(a, fieldNumber, sint64Conv)
}
func (a *Accessor) AddUnpackedSint64Element(fieldNumber int32, v int64) error {
	return addRepeatedElement(a, fieldNumber, sint64Conv, v)
}
func (a *Accessor) AddUnpackedSint64Iterable(fieldNumber int32, vs []int64) error {
	return addRepeatedIterable(a, fieldNumber, sint64Conv, vs)
}
func (a *Accessor) SetPackedSint64Iterable(fieldNumber int32, vs []int64) error {
	return setPackedIterable(a, fieldNumber, sint64Conv, vs)
}

func (a *Accessor) GetRepeatedFixed32Iterable(fieldNumber int32) ([]uint32, error) {
	return getRepeated(a, fieldNumber, fixed32Conv)
}
func (a *Accessor) AddUnpackedFixed32Element(fieldNumber int32, v uint32) error {
	return addRepeatedElement(a, fieldNumber, fixed32Conv, v)
}
func (a *Accessor) AddUnpackedFixed32Iterable(fieldNumber int32, vs []uint32) error {
	return addRepeatedIterable(a, fieldNumber, fixed32Conv, vs)
}
func (a *Accessor) SetPackedFixed32Iterable(fieldNumber int32, vs []uint32) error {
	return setPackedIterable(a, fieldNumber, fixed32Conv, vs)
}

func (a *Accessor) GetRepeatedSfixed32Iterable(fieldNumber int32) ([]int32, error) {
	return getRepeated(a, fieldNumber, sfixed32Conv)
}
func (a *Accessor) AddUnpackedSfixed32Element(fieldNumber int32, v int32) error {
	return addRepeatedElement(a, fieldNumber, sfixed32Conv, v)
}
func (a *Accessor) AddUnpackedSfixed32Iterable(fieldNumber int32, vs []int32) error {
	return addRepeatedIterable(a, fieldNumber, sfixed32Conv, vs)
}
func (a *Accessor) SetPackedSfixed32Iterable(fieldNumber int32, vs []int32) error {
	return setPackedIterable(a, fieldNumber, sfixed32Conv, vs)
}

func (a *Accessor) GetRepeatedFixed64Iterable(fieldNumber int32) ([]uint64, error) {
	return getRepeated(a, fieldNumber, fixed64Conv)
}
func (a *Accessor) AddUnpackedFixed64Element(fieldNumber int32, v uint64) error {
	return addRepeatedElement(a, fieldNumber, fixed64Conv, v)
}
func (a *Accessor) AddUnpackedFixed64Iterable(fieldNumber int32, vs []uint64) error {
	return addRepeatedIterable(a, fieldNumber, fixed64Conv, vs)
}
func (a *Accessor) SetPackedFixed64Iterable(fieldNumber int32, vs []uint64) error {
	return setPackedIterable(a, fieldNumber, fixed64Conv, vs)
}

func (a *Accessor) GetRepeatedSfixed64Iterable(fieldNumber int32) ([]int64, error) {
	return getRepeated(a, fieldNumber, sfixed64Conv)
}
func (a *Accessor) AddUnpackedSfixed64Element(fieldNumber int32, v int64) error {
	return addRepeatedElement(a, fieldNumber, sfixed64Conv, v)
}
func (a *Accessor) AddUnpackedSfixed64Iterable(fieldNumber int32, vs []int64) error {
	return addRepeatedIterable(a, fieldNumber, sfixed64Conv, vs)
}
func (a *Accessor) SetPackedSfixed64Iterable(fieldNumber int32, vs []int64) error {
	return setPackedIterable(a, fieldNumber, sfixed64Conv, vs)
}

func (a *Accessor) GetRepeatedFloatIterable(fieldNumber int32) ([]float32, error) {
	return getRepeated(a, fieldNumber, floatConv)
}
func (a *Accessor) AddUnpackedFloatElement(fieldNumber int32, v float32) error {
	return addRepeatedElement(a, fieldNumber, floatConv, v)
}
func (a *Accessor) AddUnpackedFloatIterable(fieldNumber int32, vs []float32) error {
	return addRepeatedIterable(a, fieldNumber, floatConv, vs)
}
func (a *Accessor) SetPackedFloatIterable(fieldNumber int32, vs []float32) error {
	return setPackedIterable(a, fieldNumber, floatConv, vs)
}

func (a *Accessor) GetRepeatedDoubleIterable(fieldNumber int32) ([]float64, error) {
	return getRepeated(a, fieldNumber, doubleConv)
}
func (a *Accessor) AddUnpackedDoubleElement(fieldNumber int32, v float64) error {
	return addRepeatedElement(a, fieldNumber, doubleConv, v)
}
func (a *Accessor) AddUnpackedDoubleIterable(fieldNumber int32, vs []float64) error {
	return addRepeatedIterable(a, fieldNumber, doubleConv, vs)
}
func (a *Accessor) SetPackedDoubleIterable(fieldNumber int32, vs []float64) error {
	return setPackedIterable(a, fieldNumber, doubleConv, vs)
}

func (a *Accessor) GetRepeatedStringIterable(fieldNumber int32) ([]string, error) {
	return getRepeated(a, fieldNumber, stringConv)
}
func (a *Accessor) AddUnpackedStringElement(fieldNumber int32, v string) error {
	return addRepeatedElement(a, fieldNumber, stringConv, v)
}
func (a *Accessor) AddUnpackedStringIterable(fieldNumber int32, vs []string) error {
	return addRepeatedIterable(a, fieldNumber, stringConv, vs)
}

func (a *Accessor) GetRepeatedBytesIterable(fieldNumber int32) ([][]byte, error) {
	return getRepeated(a, fieldNumber, bytesConv)
}
func (a *Accessor) AddUnpackedBytesElement(fieldNumber int32, v []byte) error {
	return addRepeatedElement(a, fieldNumber, bytesConv, v)
}
func (a *Accessor) AddUnpackedBytesIterable(fieldNumber int32, vs [][]byte) error {
	return addRepeatedIterable(a, fieldNumber, bytesConv, vs)
}
