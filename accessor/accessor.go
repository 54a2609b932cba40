// Package accessor implements the lazy, schema-unaware protobuf wire
// accessor described by this repository: a field-number-keyed overlay that
// sits between a raw encoded buffer and a generated message wrapper,
// decoding fields on demand and supporting read-modify-write without
// forcing a full decode up front.
//
// The package never looks at a descriptor or a .proto file: every
// operation is keyed by bare field number and a caller-declared scalar
// type or sub-message creator. Schema awareness, if any, lives one layer
// up, in generated wrapper types.
package accessor

import (
	"sort"

	"github.com/nirav-go/lazywire/wire"
)

// DefaultPivot is the pivot used when none is supplied, matching the
// teacher ecosystem's convention of a small default storage-hint constant.
const DefaultPivot = 24

// Accessor is the core described in spec §3: a source buffer (optional), a
// pivot hint, and a field-number-keyed map of entries.
type Accessor struct {
	source []byte
	pivot  int32
	checks CheckLevels

	entries map[int32]*entry

	indexed   bool
	indexErr  error
}

// FromBuffer constructs an accessor over buf. No parsing happens yet;
// indexing is deferred to the first operation that needs it. pivot, if
// given, overrides DefaultPivot; it has no observable effect on behavior
// (spec §4.2).
func FromBuffer(buf []byte, pivot ...int32) *Accessor {
	return newAccessor(buf, DefaultCheckLevels(), pivot...)
}

// FromBufferWithChecks is FromBuffer with an explicit check-level
// configuration, for callers that want to relax checks (e.g. generated
// code that has already validated field numbers against a schema).
func FromBufferWithChecks(buf []byte, checks CheckLevels, pivot ...int32) *Accessor {
	return newAccessor(buf, checks, pivot...)
}

// CreateEmpty constructs an accessor with no source buffer.
func CreateEmpty(pivot ...int32) *Accessor {
	return newAccessor(nil, DefaultCheckLevels(), pivot...)
}

// CreateEmptyWithChecks is CreateEmpty with an explicit check-level
// configuration.
func CreateEmptyWithChecks(checks CheckLevels, pivot ...int32) *Accessor {
	return newAccessor(nil, checks, pivot...)
}

func newAccessor(buf []byte, checks CheckLevels, pivot ...int32) *Accessor {
	p := int32(DefaultPivot)
	if len(pivot) > 0 {
		p = pivot[0]
	}
	a := &Accessor{source: buf, pivot: p, checks: checks}
	if buf == nil {
		// An empty accessor has nothing to index.
		a.indexed = true
	}
	return a
}

// GetPivot returns the storage-representation hint this accessor was
// constructed with. It is advisory only; see spec §4.2.
func (a *Accessor) GetPivot() int32 { return a.pivot }

// checkBounds applies the CHECK_BOUNDS level to a field number.
func (a *Accessor) checkBounds(fieldNumber int32) error {
	if a.checks.Bounds && !validFieldNumber(fieldNumber) {
		return outOfRangeErr(fieldNumber)
	}
	return nil
}

// HasFieldNumber implements spec §3's hasFieldNumber predicate.
func (a *Accessor) HasFieldNumber(fieldNumber int32) (bool, error) {
	if err := a.checkBounds(fieldNumber); err != nil {
		return false, err
	}
	if err := a.ensureIndexed(); err != nil {
		return false, err
	}
	e := a.entries[fieldNumber]
	return e != nil && e.hasValue(), nil
}

// FieldNumbers returns every field number with a live entry, in ascending
// order. It is read-only introspection; schema-aware callers use it the way
// a dynamic message's GetUnknownFields/knownFieldTags works, but without any
// notion of which fields a schema declares known.
func (a *Accessor) FieldNumbers() ([]int32, error) {
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
	return nums, nil
}

// ClearField implements spec §4.6: replaces the entry with a tombstone.
// Clearing an absent or already-cleared field is a no-op.
func (a *Accessor) ClearField(fieldNumber int32) error {
	if err := a.checkBounds(fieldNumber); err != nil {
		return err
	}
	if err := a.ensureIndexed(); err != nil {
		return err
	}
	a.setEntry(fieldNumber, &entry{kind: entryCleared})
	return nil
}

// ShallowCopy implements spec §4.7.
func (a *Accessor) ShallowCopy() (*Accessor, error) {
	if err := a.ensureIndexed(); err != nil {
		return nil, err
	}
	cp := &Accessor{
		source:  a.source,
		pivot:   a.pivot,
		checks:  a.checks,
		indexed: true,
		entries: make(map[int32]*entry, len(a.entries)),
	}
	for n, e := range a.entries {
		cp.entries[n] = e.shallowCopy()
	}
	return cp, nil
}

// Occurrence describes one raw, not-yet-decoded appearance of a field in
// the source buffer: its wire type and the offsets of its tag and payload.
// It is introspection only (spec-adjacent, for tools like
// cmd/wireaccessor-dump); nothing in this package consumes it.
type Occurrence struct {
	WireType     wire.Type
	TagStart     int
	PayloadStart int
	PayloadEnd   int
}

// RawOccurrences reports fieldNumber's occurrences as they were indexed,
// without decoding or materializing anything. It only sees entries still
// in their raw, un-accessed form; a field already read or written through
// one of the typed accessors reports no occurrences here even though
// HasFieldNumber still reports it present.
func (a *Accessor) RawOccurrences(fieldNumber int32) ([]Occurrence, error) {
	if err := a.ensureIndexed(); err != nil {
		return nil, err
	}
	e := a.entryFor(fieldNumber)
	if e == nil || e.kind != entryRaw {
		return nil, nil
	}
	out := make([]Occurrence, len(e.ranges))
	for i, r := range e.ranges {
		out[i] = Occurrence{
			WireType:     r.wireType,
			TagStart:     r.tagStart,
			PayloadStart: r.payloadStart,
			PayloadEnd:   r.payloadEnd,
		}
	}
	return out, nil
}

func (a *Accessor) entryFor(fieldNumber int32) *entry {
	if a.entries == nil {
		return nil
	}
	return a.entries[fieldNumber]
}

func (a *Accessor) setEntry(fieldNumber int32, e *entry) {
	if a.entries == nil {
		a.entries = make(map[int32]*entry)
	}
	a.entries[fieldNumber] = e
}

// sourceBuf returns the accessor's source buffer, or nil if it was created
// empty.
func (a *Accessor) sourceBuf() []byte { return a.source }
