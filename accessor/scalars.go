package accessor

import (
	"math"

	"github.com/nirav-go/lazywire/wire"
)

// ScalarType enumerates the fifteen scalar field kinds spec §4.3 names.
// Several share a wire type (e.g. Int32/Uint32/Sint32 are all varint); that
// sharing is exactly what the wire-type-mismatch check is built on.
type ScalarType int8

const (
	TBool ScalarType = iota
	TInt32
	TUint32
	TSint32
	TInt64
	TUint64
	TSint64
	TFixed32
	TSfixed32
	TFixed64
	TSfixed64
	TFloat
	TDouble
	TString
	TBytes
)

func (t ScalarType) String() string {
	switch t {
	case TBool:
		return "bool"
	case TInt32:
		return "int32"
	case TUint32:
		return "uint32"
	case TSint32:
		return "sint32"
	case TInt64:
		return "int64"
	case TUint64:
		return "uint64"
	case TSint64:
		return "sint64"
	case TFixed32:
		return "fixed32"
	case TSfixed32:
		return "sfixed32"
	case TFixed64:
		return "fixed64"
	case TSfixed64:
		return "sfixed64"
	case TFloat:
		return "float"
	case TDouble:
		return "double"
	case TString:
		return "string"
	case TBytes:
		return "bytes"
	default:
		return "unknown scalar type"
	}
}

// canonicalWireType is the table from spec §4.3: the one wire type a write
// of T always produces, and the one a read of T expects.
func canonicalWireType(t ScalarType) wire.Type {
	switch t {
	case TBool, TInt32, TUint32, TSint32, TInt64, TUint64, TSint64:
		return wire.VarintType
	case TFixed64, TSfixed64, TDouble:
		return wire.Fixed64Type
	case TString, TBytes:
		return wire.BytesType
	case TFixed32, TSfixed32, TFloat:
		return wire.Fixed32Type
	default:
		panic("accessor: unreachable scalar type")
	}
}

// decodeAt decodes one value of wireType starting at payload offset off in
// src, regardless of what type the caller actually wants; the caller picks
// the scalar-value-to-T conversion separately. Used both for the "normal"
// path (decoding a Raw range at its own recorded wire type) and for the
// checks-disabled mismatched-type path (decoding at the requested type's
// wire format anyway, per spec §4.3 step 5).
// decodeAt also reports how many bytes of src[off:] the decode consumed, so
// a caller reinterpreting a range at a wire type other than the one it was
// recorded at can tell whether the reinterpretation stayed inside that
// range or read into whatever follows it in src (see decodeAtBounded).
func decodeAt(src []byte, off int, wireType wire.Type) (scalarValue, int, error) {
	r := wire.NewReader(src[off:])
	switch wireType {
	case wire.VarintType:
		v, err := r.DecodeVarint()
		if err != nil {
			return scalarValue{}, 0, err
		}
		return scalarValue{wireType: wireType, bits: v}, r.Pos(), nil
	case wire.Fixed32Type:
		v, err := r.DecodeFixed32()
		if err != nil {
			return scalarValue{}, 0, err
		}
		return scalarValue{wireType: wireType, bits: uint64(v)}, r.Pos(), nil
	case wire.Fixed64Type:
		v, err := r.DecodeFixed64()
		if err != nil {
			return scalarValue{}, 0, err
		}
		return scalarValue{wireType: wireType, bits: v}, r.Pos(), nil
	case wire.BytesType:
		v, err := r.DecodeBytes()
		if err != nil {
			return scalarValue{}, 0, err
		}
		return scalarValue{wireType: wireType, buf: v}, r.Pos(), nil
	default:
		return scalarValue{}, 0, parseErr("unsupported wire type %s", wire.TypeName(wireType))
	}
}

// decodeAtBounded wraps decodeAt for the lenient mismatched-wire-type
// fallback path (spec §4.3 step 5): decoding a range at a wire type other
// than the one it was recorded at can consume more bytes than that range
// actually held, silently reading into the next field's bytes in src. When
// checkState is on (CHECK_CRITICAL_STATE), that's treated as the
// state-corrupting condition the check level exists to catch; when it's
// off, the reinterpretation is allowed through exactly as before.
func decodeAtBounded(src []byte, r byteRange, wireType wire.Type, checkState bool) (scalarValue, error) {
	v, n, err := decodeAt(src, r.payloadStart, wireType)
	if err != nil {
		return scalarValue{}, err
	}
	if checkState && r.payloadStart+n > r.payloadEnd {
		return scalarValue{}, parseErr(
			"reinterpreting a %s-encoded field as wire type %s would read %d byte(s) past its recorded extent",
			wire.TypeName(r.wireType), wire.TypeName(wireType), r.payloadStart+n-r.payloadEnd)
	}
	return v, nil
}

// encodePayload appends v's payload (not its tag) to w.
func encodePayload(w *wire.Writer, v scalarValue) {
	switch v.wireType {
	case wire.VarintType:
		w.EncodeVarint(v.bits)
	case wire.Fixed32Type:
		w.EncodeFixed32(uint32(v.bits))
	case wire.Fixed64Type:
		w.EncodeFixed64(v.bits)
	case wire.BytesType:
		w.EncodeBytes(v.buf)
	}
}

// --- ScalarType <-> Go value conversions ---
//
// toScalar stores a Go value in its canonical wire-native scalarValue form.
// fromScalar reads a scalarValue back out as a particular Go type; it is
// called both on freshly-decoded values and on mismatched-wire-type
// reinterpretation, so it must not assume v.wireType == canonicalWireType(t).

func zeroValueFor(t ScalarType) interface{} {
	switch t {
	case TBool:
		return false
	case TInt32, TSint32, TSfixed32:
		return int32(0)
	case TUint32, TFixed32:
		return uint32(0)
	case TInt64, TSint64, TSfixed64:
		return int64(0)
	case TUint64, TFixed64:
		return uint64(0)
	case TFloat:
		return float32(0)
	case TDouble:
		return float64(0)
	case TString:
		return ""
	case TBytes:
		return []byte(nil)
	default:
		return nil
	}
}

func boolToScalar(v bool) scalarValue {
	var b uint64
	if v {
		b = 1
	}
	return scalarValue{wireType: wire.VarintType, bits: b}
}
func scalarToBool(v scalarValue) bool { return v.bits != 0 }

func int32ToScalar(v int32) scalarValue {
	return scalarValue{wireType: wire.VarintType, bits: uint64(int64(v))}
}
func scalarToInt32(v scalarValue) int32 { return int32(uint32(v.bits)) }

func uint32ToScalar(v uint32) scalarValue {
	return scalarValue{wireType: wire.VarintType, bits: uint64(v)}
}
func scalarToUint32(v scalarValue) uint32 { return uint32(v.bits) }

func sint32ToScalar(v int32) scalarValue {
	return scalarValue{wireType: wire.VarintType, bits: wire.EncodeZigZag32(v)}
}
func scalarToSint32(v scalarValue) int32 { return wire.DecodeZigZag32(v.bits) }

func int64ToScalar(v int64) scalarValue {
	return scalarValue{wireType: wire.VarintType, bits: uint64(v)}
}
func scalarToInt64(v scalarValue) int64 { return int64(v.bits) }

func uint64ToScalar(v uint64) scalarValue {
	return scalarValue{wireType: wire.VarintType, bits: v}
}
func scalarToUint64(v scalarValue) uint64 { return v.bits }

func sint64ToScalar(v int64) scalarValue {
	return scalarValue{wireType: wire.VarintType, bits: wire.EncodeZigZag64(v)}
}
func scalarToSint64(v scalarValue) int64 { return wire.DecodeZigZag64(v.bits) }

func fixed32ToScalar(v uint32) scalarValue {
	return scalarValue{wireType: wire.Fixed32Type, bits: uint64(v)}
}
func scalarToFixed32(v scalarValue) uint32 { return uint32(v.bits) }

func sfixed32ToScalar(v int32) scalarValue {
	return scalarValue{wireType: wire.Fixed32Type, bits: uint64(uint32(v))}
}
func scalarToSfixed32(v scalarValue) int32 { return int32(uint32(v.bits)) }

func fixed64ToScalar(v uint64) scalarValue {
	return scalarValue{wireType: wire.Fixed64Type, bits: v}
}
func scalarToFixed64(v scalarValue) uint64 { return v.bits }

func sfixed64ToScalar(v int64) scalarValue {
	return scalarValue{wireType: wire.Fixed64Type, bits: uint64(v)}
}
func scalarToSfixed64(v scalarValue) int64 { return int64(v.bits) }

func floatToScalar(v float32) scalarValue {
	return scalarValue{wireType: wire.Fixed32Type, bits: uint64(math.Float32bits(v))}
}
func scalarToFloat(v scalarValue) float32 { return math.Float32frombits(uint32(v.bits)) }

func doubleToScalar(v float64) scalarValue {
	return scalarValue{wireType: wire.Fixed64Type, bits: math.Float64bits(v)}
}
func scalarToDouble(v scalarValue) float64 { return math.Float64frombits(v.bits) }

func stringToScalar(v string) scalarValue {
	return scalarValue{wireType: wire.BytesType, buf: []byte(v)}
}
func scalarToString(v scalarValue) string { return string(v.buf) }

func bytesToScalar(v []byte) scalarValue {
	return scalarValue{wireType: wire.BytesType, buf: v}
}
func scalarToBytes(v scalarValue) []byte { return v.buf }
