// Package wire provides a small reader/writer pair for protobuf's binary
// wire format. It is deliberately thin: the varint, fixed-width and
// length-delimited byte math is all delegated to protowire, the low-level
// codec package from the canonical Go protobuf runtime. Reader and Writer
// only add a cursor, boundary checks, and the small amount of bookkeeping
// (tag splitting, zig-zag helpers) that a caller building a higher-level
// lazy accessor on top actually wants.
package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Type is a wire type, the 3-bit suffix of an encoded tag.
type Type = protowire.Type

// The four wire types this package understands. Group start/end (3/4) are
// intentionally not exported here: callers that see them should treat the
// tag as malformed, per proto3's removal of groups.
const (
	VarintType Type = protowire.VarintType
	Fixed64Type Type = protowire.Fixed64Type
	BytesType Type = protowire.BytesType
	Fixed32Type Type = protowire.Fixed32Type
)

const (
	groupStartType = protowire.StartGroupType
	groupEndType   = protowire.EndGroupType
)

// MaxFieldNumber is the largest field number the wire format can encode in
// a tag (29 bits worth, leaving 3 bits for the wire type in the varint).
const MaxFieldNumber = 1<<29 - 1

// TypeName renders a wire type the way error messages want it; protowire's
// Type has no Stringer of its own.
func TypeName(t Type) string {
	switch t {
	case VarintType:
		return "varint"
	case Fixed64Type:
		return "64-bit"
	case BytesType:
		return "length-delimited"
	case Fixed32Type:
		return "32-bit"
	default:
		return fmt.Sprintf("wire type %d", int8(t))
	}
}

// ParseError is returned whenever a Reader encounters bytes that cannot be
// interpreted as well-formed protobuf wire format: a truncated varint, a
// length-delimited payload that runs past the end of the buffer, a tag with
// an out-of-range field number, or a group wire type.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "wire: parse error: " + e.Reason
}

func parseErrorf(format string, args ...interface{}) error {
	return &ParseError{Reason: fmt.Sprintf(format, args...)}
}

// consumeErr turns protowire's "n < 0 means error" convention into a
// *ParseError, or nil if n was not an error.
func consumeErr(n int, what string) error {
	if n >= 0 {
		return nil
	}
	return parseErrorf("%s: %v", what, protowire.ParseError(n))
}

// Reader is a read-only cursor over an encoded protobuf message. It never
// copies the underlying buffer; DecodeBytes returns a subslice of it.
type Reader struct {
	buf []byte
	pos int
}

// NewReader creates a Reader over buf starting at offset 0.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Len reports the number of unread bytes.
func (r *Reader) Len() int { return len(r.buf) - r.pos }

// EOF reports whether the reader has consumed the whole buffer.
func (r *Reader) EOF() bool { return r.pos >= len(r.buf) }

// Pos returns the current byte offset into the original buffer.
func (r *Reader) Pos() int { return r.pos }

// Buf returns the full underlying buffer the reader was constructed with
// (not just the unread tail). Used to carve out zero-copy byte ranges.
func (r *Reader) Buf() []byte { return r.buf }

// DecodeTag reads a tag and splits it into field number and wire type. It
// rejects field number 0, field numbers beyond MaxFieldNumber, and group
// wire types: all three are structurally invalid wire format, independent
// of any caller-configured check level.
func (r *Reader) DecodeTag() (fieldNumber int32, wireType Type, err error) {
	num, typ, n := protowire.ConsumeTag(r.buf[r.pos:])
	if err := consumeErr(n, "tag"); err != nil {
		return 0, 0, err
	}
	if num < 1 || int64(num) > MaxFieldNumber {
		return 0, 0, parseErrorf("field number %d out of range", num)
	}
	if typ == groupStartType || typ == groupEndType {
		return 0, 0, parseErrorf("group wire type is not supported (field %d)", num)
	}
	r.pos += n
	return int32(num), typ, nil
}

// DecodeVarint reads a varint-encoded integer (the format backing bool,
// int32, int64, uint32, uint64, sint32, sint64).
func (r *Reader) DecodeVarint() (uint64, error) {
	v, n := protowire.ConsumeVarint(r.buf[r.pos:])
	if err := consumeErr(n, "varint"); err != nil {
		return 0, err
	}
	r.pos += n
	return v, nil
}

// DecodeFixed32 reads a 4-byte little-endian integer (fixed32, sfixed32,
// float).
func (r *Reader) DecodeFixed32() (uint32, error) {
	v, n := protowire.ConsumeFixed32(r.buf[r.pos:])
	if err := consumeErr(n, "fixed32"); err != nil {
		return 0, err
	}
	r.pos += n
	return v, nil
}

// DecodeFixed64 reads an 8-byte little-endian integer (fixed64, sfixed64,
// double).
func (r *Reader) DecodeFixed64() (uint64, error) {
	v, n := protowire.ConsumeFixed64(r.buf[r.pos:])
	if err := consumeErr(n, "fixed64"); err != nil {
		return 0, err
	}
	r.pos += n
	return v, nil
}

// DecodeBytes reads a length-delimited payload (bytes, string, embedded
// message, packed repeated field) and returns it as a subslice of the
// reader's buffer — no copy is made, so callers that retain it beyond the
// lifetime of a mutable source buffer must copy it themselves.
func (r *Reader) DecodeBytes() ([]byte, error) {
	v, n := protowire.ConsumeBytes(r.buf[r.pos:])
	if err := consumeErr(n, "length-delimited payload"); err != nil {
		return nil, err
	}
	r.pos += n
	return v, nil
}

// SkipValue advances past a value of the given wire type without
// interpreting it, used while indexing fields this reader doesn't need the
// payload of.
func (r *Reader) SkipValue(wireType Type) error {
	n := protowire.ConsumeFieldValue(0, wireType, r.buf[r.pos:])
	if err := consumeErr(n, "field value"); err != nil {
		return err
	}
	r.pos += n
	return nil
}

// DecodeZigZag32 decodes a zig-zag encoded sint32.
func DecodeZigZag32(v uint64) int32 { return int32(protowire.DecodeZigZag(v & 0xffffffff)) }

// DecodeZigZag64 decodes a zig-zag encoded sint64.
func DecodeZigZag64(v uint64) int64 { return protowire.DecodeZigZag(v) }

// EncodeZigZag32 zig-zag encodes a sint32.
func EncodeZigZag32(v int32) uint64 { return protowire.EncodeZigZag(int64(v)) & 0xffffffff }

// EncodeZigZag64 zig-zag encodes a sint64.
func EncodeZigZag64(v int64) uint64 { return protowire.EncodeZigZag(v) }

// Writer accumulates an encoded protobuf message. The zero Writer is ready
// to use.
type Writer struct {
	buf []byte
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// NewWriterWithCapacity creates an empty Writer whose backing slice is
// pre-sized, to avoid reallocation when the final size is known in advance
// (e.g. when re-emitting a known number of bytes from Raw entries).
func NewWriterWithCapacity(n int) *Writer { return &Writer{buf: make([]byte, 0, n)} }

// Bytes returns the bytes written so far. The caller must not retain a
// mutable alias across further writes.
func (w *Writer) Bytes() []byte { return w.buf }

// Len reports the number of bytes written so far.
func (w *Writer) Len() int { return len(w.buf) }

// EncodeTag appends a tag for the given field number and wire type.
func (w *Writer) EncodeTag(fieldNumber int32, wireType Type) {
	w.buf = protowire.AppendTag(w.buf, protowire.Number(fieldNumber), wireType)
}

// EncodeVarint appends a varint-encoded integer.
func (w *Writer) EncodeVarint(v uint64) {
	w.buf = protowire.AppendVarint(w.buf, v)
}

// EncodeFixed32 appends a 4-byte little-endian integer.
func (w *Writer) EncodeFixed32(v uint32) {
	w.buf = protowire.AppendFixed32(w.buf, v)
}

// EncodeFixed64 appends an 8-byte little-endian integer.
func (w *Writer) EncodeFixed64(v uint64) {
	w.buf = protowire.AppendFixed64(w.buf, v)
}

// EncodeBytes appends a length prefix followed by b.
func (w *Writer) EncodeBytes(b []byte) {
	w.buf = protowire.AppendBytes(w.buf, b)
}

// EncodeRaw appends b verbatim, with no length prefix. Used to re-emit
// already-encoded (tag+payload) byte ranges from a Raw entry.
func (w *Writer) EncodeRaw(b []byte) {
	w.buf = append(w.buf, b...)
}
