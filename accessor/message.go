package accessor

import "github.com/nirav-go/lazywire/wire"

// Wrapper is the seam a generated concrete message type implements: a way
// to get back to the accessor backing it. Generated code is out of scope
// for this package (spec §1); Wrapper is the only contract it must honor
// for sub-message access to work.
type Wrapper interface {
	Accessor() *Accessor
}

// Creator builds a fresh wrapper around a brand-new child accessor.
// Generated code supplies one of these per message type; the core never
// constructs a wrapper any other way.
type Creator[W Wrapper] func(child *Accessor) W

// Because Go does not allow a method to introduce its own type parameter,
// the three sub-message read operations and SetMessage are free functions
// parameterized by the wrapper type, rather than methods on *Accessor.

// GetMessage implements the immutable read path of spec §4.5: if the field
// is absent, returns a brand-new, unattached default message that is
// neither cached nor shared with the parent. If the field is present and
// has already been attached (by a prior GetMessageOrNull/GetMessageAttach
// on the same field), returns that same cached wrapper (invariant 10).
// Otherwise decodes (and, if there are multiple length-delimited ranges,
// merges) the field into a fresh child accessor, marks the field as having
// been read immutably, and returns a new, uncached wrapper around it.
func GetMessage[W Wrapper](a *Accessor, fieldNumber int32, creator Creator[W]) (W, error) {
	var zero W
	if err := a.checkBounds(fieldNumber); err != nil {
		return zero, err
	}
	if err := a.ensureIndexed(); err != nil {
		return zero, err
	}
	e := a.entryFor(fieldNumber)
	if e == nil || !e.hasValue() {
		return creator(CreateEmptyWithChecks(a.checks, a.pivot)), nil
	}
	if e.kind == entryMessage {
		if w, ok := e.wrapper.(W); ok {
			return w, nil
		}
		w := creator(e.child)
		e.wrapper = w
		return w, nil
	}
	if e.kind != entryRaw {
		if a.checks.CriticalType {
			return zero, wireTypeMismatchErr(wire.BytesType, e.recordedWireType())
		}
		return creator(CreateEmptyWithChecks(a.checks, a.pivot)), nil
	}
	if e.ranges[0].wireType != wire.BytesType && a.checks.CriticalType {
		return zero, wireTypeMismatchErr(wire.BytesType, e.ranges[0].wireType)
	}
	child := FromBufferWithChecks(concatPayloads(a.sourceBuf(), e.ranges), a.checks, a.pivot)
	e.immutableSnapshot = true
	return creator(child), nil
}

// GetMessageOrNull implements the attaching-if-present read path of spec
// §4.5: absent returns the zero value of W (callers use a pointer wrapper
// type so this reads as nil); present attaches (merging multiple raw
// ranges if needed) and caches the wrapper so later calls — of any of the
// three read operations — return the identical instance.
func GetMessageOrNull[W Wrapper](a *Accessor, fieldNumber int32, creator Creator[W], pivot ...int32) (W, error) {
	var zero W
	if err := a.checkBounds(fieldNumber); err != nil {
		return zero, err
	}
	if err := a.ensureIndexed(); err != nil {
		return zero, err
	}
	ent, absent, err := a.attachOrGetCached(fieldNumber, false, pivot)
	if err != nil {
		return zero, err
	}
	if absent {
		return zero, nil
	}
	return cachedOrNewWrapper(ent, creator), nil
}

// GetMessageAttach implements the always-attaching read path of spec §4.5:
// if absent, creates and attaches an empty child accessor rather than
// returning null.
func GetMessageAttach[W Wrapper](a *Accessor, fieldNumber int32, creator Creator[W], pivot ...int32) (W, error) {
	var zero W
	if err := a.checkBounds(fieldNumber); err != nil {
		return zero, err
	}
	if err := a.ensureIndexed(); err != nil {
		return zero, err
	}
	ent, _, err := a.attachOrGetCached(fieldNumber, true, pivot)
	if err != nil {
		return zero, err
	}
	return cachedOrNewWrapper(ent, creator), nil
}

func cachedOrNewWrapper[W Wrapper](ent *entry, creator Creator[W]) W {
	if w, ok := ent.wrapper.(W); ok {
		return w
	}
	w := creator(ent.child)
	ent.wrapper = w
	return w
}

// GetMessageAccessorOrNull returns the child accessor for fieldNumber, or
// nil if absent. If the field has been attached, this is the authoritative
// accessor (mutating it is visible in the parent's serialization). If it
// is present but not yet attached, a fresh transient accessor is
// constructed and returned — deliberately uncached, so each call allocates
// a new instance, per spec §4.5.
func (a *Accessor) GetMessageAccessorOrNull(fieldNumber int32, pivot ...int32) (*Accessor, error) {
	if err := a.checkBounds(fieldNumber); err != nil {
		return nil, err
	}
	if err := a.ensureIndexed(); err != nil {
		return nil, err
	}
	e := a.entryFor(fieldNumber)
	if e == nil || !e.hasValue() {
		return nil, nil
	}
	if e.kind == entryMessage {
		return e.child, nil
	}
	if e.kind != entryRaw {
		if a.checks.CriticalType {
			return nil, wireTypeMismatchErr(wire.BytesType, e.recordedWireType())
		}
		return nil, nil
	}
	if e.ranges[0].wireType != wire.BytesType && a.checks.CriticalType {
		return nil, wireTypeMismatchErr(wire.BytesType, e.ranges[0].wireType)
	}
	merged := concatPayloads(a.sourceBuf(), e.ranges)
	return FromBufferWithChecks(merged, a.checks, pivotOrDefault(pivot, a.pivot)...), nil
}

// SetMessage implements spec §4.5's setMessage: the entry becomes a
// Message entry sharing w's accessor (not a copy of it).
func SetMessage[W Wrapper](a *Accessor, fieldNumber int32, w W) error {
	if (a.checks.Bounds || a.checks.Type) && !validFieldNumber(fieldNumber) {
		return outOfRangeErr(fieldNumber)
	}
	if err := a.ensureIndexed(); err != nil {
		return err
	}
	child := w.Accessor()
	if child == nil {
		return valueTypeErr("Given value is not a message instance: %v", w)
	}
	a.setEntry(fieldNumber, &entry{kind: entryMessage, wireType: wire.BytesType, child: child, wrapper: w})
	return nil
}

// attachOrGetCached is the shared core of GetMessageOrNull/GetMessageAttach:
// it returns the (now-Message-kind) entry for fieldNumber, attaching a
// freshly merged or freshly created child as needed, or reports the field
// as absent when createIfAbsent is false.
func (a *Accessor) attachOrGetCached(fieldNumber int32, createIfAbsent bool, pivot []int32) (ent *entry, absent bool, err error) {
	e := a.entryFor(fieldNumber)
	if e == nil || !e.hasValue() {
		if !createIfAbsent {
			return nil, true, nil
		}
		child := CreateEmptyWithChecks(a.checks, pivotOrDefault(pivot, a.pivot)...)
		ne := &entry{kind: entryMessage, wireType: wire.BytesType, child: child}
		a.setEntry(fieldNumber, ne)
		return ne, false, nil
	}
	if e.immutableSnapshot && e.kind != entryMessage && a.checks.Type {
		return nil, false, invalidStateErr(
			"field %d was already read as an immutable message snapshot; cannot obtain a mutable view", fieldNumber)
	}
	if e.kind == entryMessage {
		return e, false, nil
	}
	if e.kind != entryRaw {
		if a.checks.CriticalType {
			return nil, false, wireTypeMismatchErr(wire.BytesType, e.recordedWireType())
		}
		child := CreateEmptyWithChecks(a.checks, pivotOrDefault(pivot, a.pivot)...)
		ne := &entry{kind: entryMessage, wireType: wire.BytesType, child: child}
		a.setEntry(fieldNumber, ne)
		return ne, false, nil
	}
	if e.ranges[0].wireType != wire.BytesType && a.checks.CriticalType {
		return nil, false, wireTypeMismatchErr(wire.BytesType, e.ranges[0].wireType)
	}
	child := FromBufferWithChecks(concatPayloads(a.sourceBuf(), e.ranges), a.checks, pivotOrDefault(pivot, a.pivot)...)
	ne := &entry{kind: entryMessage, wireType: wire.BytesType, child: child}
	a.setEntry(fieldNumber, ne)
	return ne, false, nil
}

// concatPayloads implements the sub-message merge rule of spec §4.5: a
// single range is aliased with no copy; two or more are concatenated into
// a freshly allocated buffer, in encounter order.
func concatPayloads(src []byte, ranges []byteRange) []byte {
	if len(ranges) == 1 {
		r := ranges[0]
		return src[r.payloadStart:r.payloadEnd]
	}
	total := 0
	for _, r := range ranges {
		total += r.payloadEnd - r.payloadStart
	}
	buf := make([]byte, 0, total)
	for _, r := range ranges {
		buf = append(buf, src[r.payloadStart:r.payloadEnd]...)
	}
	return buf
}

func pivotOrDefault(pivot []int32, def int32) []int32 {
	if len(pivot) > 0 {
		return pivot
	}
	return []int32{def}
}
