package accessor

import "github.com/nirav-go/lazywire/wire"

// ensureIndexed performs the one-shot lazy scan described in spec §4.1 the
// first time any operation needs to know what fields are present. It is
// memoized: once run (successfully or not) it never runs again.
func (a *Accessor) ensureIndexed() error {
	if a.indexed {
		return a.indexErr
	}
	a.indexed = true
	a.indexErr = a.buildIndex()
	return a.indexErr
}

// buildIndex scans the source buffer from offset 0 to its end, recording a
// byteRange per occurrence of each field without decoding any payload.
// Wire-format violations (a malformed tag, a group wire type, a payload
// that runs past the end of the buffer) fail unconditionally: there is no
// safe way to keep scanning a buffer whose framing cannot be trusted, so
// this does not honor CHECK_CRITICAL_STATE the way a already-indexed
// field's decode does (see DESIGN.md).
func (a *Accessor) buildIndex() error {
	if a.entries == nil {
		a.entries = make(map[int32]*entry)
	}
	if len(a.source) == 0 {
		return nil
	}
	r := wire.NewReader(a.source)
	for !r.EOF() {
		tagStart := r.Pos()
		fieldNumber, wireType, err := r.DecodeTag()
		if err != nil {
			return parseErr("indexing: %v", err)
		}
		payloadStart := r.Pos()
		if err := r.SkipValue(wireType); err != nil {
			return parseErr("indexing field %d: %v", fieldNumber, err)
		}
		rng := byteRange{
			tagStart:     tagStart,
			payloadStart: payloadStart,
			payloadEnd:   r.Pos(),
			wireType:     wireType,
		}
		if e := a.entries[fieldNumber]; e != nil && e.kind == entryRaw {
			e.appendRange(rng)
		} else {
			a.entries[fieldNumber] = newRawEntry(rng)
		}
	}
	return nil
}
