package accessor

import (
	"sort"

	"github.com/nirav-go/lazywire/wire"
)

// Serialize implements spec §4.8: every live field is re-emitted in
// ascending field-number order, regardless of the order fields were
// originally encountered in. A Raw entry that was never touched is copied
// back out byte-for-byte (tag included, all occurrences in encounter
// order); everything else is re-encoded from its decoded form. An
// untouched buffer therefore round-trips identically only when its fields
// already appear in ascending field-number order with each field's
// occurrences adjacent; otherwise it comes back in sorted order.
func (a *Accessor) Serialize() ([]byte, error) {
	if err := a.ensureIndexed(); err != nil {
		return nil, err
	}
	nums := make([]int32, 0, len(a.entries))
	for n, e := range a.entries {
		if e.hasValue() {
			nums = append(nums, n)
		}
	}
	sort.Slice(nums, func(i, j int) bool { return nums[i] < nums[j] })

	w := wire.NewWriterWithCapacity(len(a.source))
	for _, n := range nums {
		if err := a.writeEntry(w, n, a.entries[n]); err != nil {
			return nil, err
		}
	}
	return w.Bytes(), nil
}

func (a *Accessor) writeEntry(w *wire.Writer, fieldNumber int32, e *entry) error {
	switch e.kind {
	case entryRaw:
		src := a.sourceBuf()
		for _, r := range e.ranges {
			w.EncodeRaw(src[r.tagStart:r.payloadEnd])
		}
		return nil

	case entryDecoded:
		w.EncodeTag(fieldNumber, e.decoded.wireType)
		encodePayload(w, e.decoded)
		return nil

	case entryRepeated:
		return writeRepeated(w, fieldNumber, e)

	case entryMessage:
		child, err := e.child.Serialize()
		if err != nil {
			return err
		}
		w.EncodeTag(fieldNumber, wire.BytesType)
		w.EncodeBytes(child)
		return nil
	}
	return nil
}

// writeRepeated re-emits a repeated scalar entry, preserving the packed or
// unpacked form it was last recorded as (spec §4.4's re-serialization
// rule): packed is one length-delimited payload holding every element's
// payload concatenated; unpacked is one tag-plus-payload per element.
// String and bytes elements are always unpacked, since the wire format has
// no packed form for them.
func writeRepeated(w *wire.Writer, fieldNumber int32, e *entry) error {
	if len(e.elems) == 0 {
		return nil
	}
	if !e.packed {
		for _, v := range e.elems {
			w.EncodeTag(fieldNumber, v.wireType)
			encodePayload(w, v)
		}
		return nil
	}
	payload := wire.NewWriterWithCapacity(len(e.elems) * 4)
	for _, v := range e.elems {
		encodePayload(payload, v)
	}
	w.EncodeTag(fieldNumber, wire.BytesType)
	w.EncodeBytes(payload.Bytes())
	return nil
}
