package accessor

import "github.com/nirav-go/lazywire/wire"

// MaxFieldNumber is the largest legal field number (2^29 - 1).
const MaxFieldNumber = wire.MaxFieldNumber

// entryKind discriminates the tagged union described in spec §3. Go has no
// native sum type, so entry carries every variant's fields and kind says
// which ones are live. newRawEntry below builds Raw entries; the other
// kinds are built as struct literals where they are created.
type entryKind int8

const (
	entryRaw entryKind = iota
	entryDecoded
	entryMessage
	entryRepeated
	entryCleared
)

// byteRange is one length-delimited-or-not occurrence of a field in the
// source buffer: the tag's starting offset (for verbatim raw re-emission)
// and the payload's [start,end) span (for decoding).
type byteRange struct {
	tagStart     int
	payloadStart int
	payloadEnd   int
	wireType     wire.Type
}

func (r byteRange) recordEnd() int { return r.payloadEnd }

// scalarValue is a decoded scalar, stored in the wire-native representation
// rather than as a fixed declared type: a varint's raw 64-bit value, a
// fixed-width field's raw bits, or a length-delimited field's bytes. This
// is what lets a field decoded once be cheaply reinterpreted across every
// declared type that shares its wire type (e.g. int32 vs uint32 vs sint32
// are all VarintType), matching the wire-type-mismatch rule in spec §4.3:
// the mismatch that matters is of wire type, not of declared scalar kind.
type scalarValue struct {
	wireType wire.Type
	bits     uint64
	buf      []byte // only for wire.BytesType
}

// entry is the storage map's value type: one Entry per field number.
type entry struct {
	kind entryKind

	// entryRaw: one or more undecoded occurrences in encounter order.
	ranges []byteRange

	// entryDecoded: a materialized singular scalar.
	decoded scalarValue

	// entryMessage: a child accessor and the wrapper last obtained for it.
	child   *Accessor
	wrapper Wrapper
	// immutableSnapshot marks that this Raw entry has been read through the
	// non-attaching getMessage path; a later getMessageOrNull/
	// getMessageAttach on the same field number must fail (spec §4.5).
	immutableSnapshot bool

	// entryRepeated: an ordered list of decoded scalars.
	elems []scalarValue

	// wireType is the recorded wire type for entryMessage and entryRepeated
	// entries (entryDecoded uses decoded.wireType, entryRaw uses its last
	// range's wireType; see recordedWireType).
	wireType wire.Type

	// packed records whether an entryRepeated entry should re-serialize in
	// packed form (single length-delimited payload) rather than unpacked
	// (one tag per element). Only meaningful for numeric/bool element
	// types; string/bytes/message repeats are always unpacked on the wire.
	packed bool
}

// recordedWireType is the wire type this entry would report for a
// wire-type-mismatch check: the last range's type for Raw, the decoded
// value's type for Decoded, and the explicit wireType field otherwise.
func (e *entry) recordedWireType() wire.Type {
	switch e.kind {
	case entryRaw:
		if len(e.ranges) == 0 {
			return 0
		}
		return e.ranges[len(e.ranges)-1].wireType
	case entryDecoded:
		return e.decoded.wireType
	default:
		return e.wireType
	}
}

func newRawEntry(r byteRange) *entry {
	return &entry{kind: entryRaw, ranges: []byteRange{r}}
}

func (e *entry) appendRange(r byteRange) {
	e.ranges = append(e.ranges, r)
}

// hasValue implements the hasFieldNumber predicate from spec §3 for a
// single entry (nil entry is handled by the caller).
func (e *entry) hasValue() bool {
	switch e.kind {
	case entryCleared:
		return false
	case entryRaw:
		return len(e.ranges) > 0
	case entryRepeated:
		return len(e.elems) > 0
	default:
		return true
	}
}

// shallowCopy implements the copy semantics of spec §4.7 for one entry:
// source bytes, scalars and child-accessor references are shared, but a Raw
// entry's ranges slice and a Repeated entry's list are duplicated so that
// appending on one side is invisible to the other.
func (e *entry) shallowCopy() *entry {
	cp := *e
	if e.kind == entryRepeated {
		cp.elems = append([]scalarValue(nil), e.elems...)
	}
	if e.kind == entryRaw {
		cp.ranges = append([]byteRange(nil), e.ranges...)
	}
	return &cp
}
