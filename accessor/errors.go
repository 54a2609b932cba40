package accessor

import (
	"fmt"

	"github.com/nirav-go/lazywire/wire"
)

// Kind classifies the errors this package can report. Most operations wrap
// one of these into an *Error; callers that want to branch on the failure
// mode should use errors.As and inspect Kind rather than compare message
// strings.
type Kind int

const (
	// KindOutOfRange means a field number fell outside 1..MaxFieldNumber.
	KindOutOfRange Kind = iota
	// KindWireTypeMismatch means a field's recorded wire type is not the
	// one the requested operation expects.
	KindWireTypeMismatch
	// KindValueTypeInvalid means Set was called with a value of the wrong
	// kind, or a value outside the representable range for its type.
	KindValueTypeInvalid
	// KindParse means the source buffer contains malformed or truncated
	// wire format bytes.
	KindParse
	// KindInvalidState means an operation was attempted that the
	// accessor's current state does not permit (e.g. obtaining a mutable
	// sub-message view after an immutable one was already returned).
	KindInvalidState
)

func (k Kind) String() string {
	switch k {
	case KindOutOfRange:
		return "OUT_OF_RANGE"
	case KindWireTypeMismatch:
		return "WIRE_TYPE_MISMATCH"
	case KindValueTypeInvalid:
		return "VALUE_TYPE_INVALID"
	case KindParse:
		return "PARSE_ERROR"
	case KindInvalidState:
		return "INVALID_STATE"
	default:
		return "UNKNOWN"
	}
}

// Error is the error type returned by this package's own checks. A lazy
// decode that runs into malformed bytes (for example a truncated value
// inside a packed payload) returns the *wire.ParseError from the wire
// package as is, not wrapped in an *Error.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func outOfRangeErr(fieldNumber int32) error {
	return &Error{Kind: KindOutOfRange, Message: fmt.Sprintf("field number out of range: %d", fieldNumber)}
}

func wireTypeMismatchErr(expected, found wire.Type) error {
	return &Error{
		Kind:    KindWireTypeMismatch,
		Message: fmt.Sprintf("Expected wire type: %s but found: %s", wire.TypeName(expected), wire.TypeName(found)),
	}
}

func valueTypeErr(format string, args ...interface{}) error {
	return &Error{Kind: KindValueTypeInvalid, Message: fmt.Sprintf(format, args...)}
}

func parseErr(format string, args ...interface{}) error {
	return &Error{Kind: KindParse, Message: fmt.Sprintf(format, args...)}
}

func invalidStateErr(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

// CheckLevels controls which classes of runtime check this package
// enforces. Production code that has already validated its field numbers
// and value types against a schema can turn checks off for speed; tests and
// anything handling untrusted input should leave them on.
//
// The zero value is all-checks-disabled; use DefaultCheckLevels for the
// safe, fully-checked configuration (an explicit "with defaults"
// constructor alongside the bare struct, the way a message factory offers
// both a zero-value and a defaulted constructor).
type CheckLevels struct {
	// Bounds enables field-number range checks (1..MaxFieldNumber).
	Bounds bool
	// Type enables non-critical type/state checks, including the
	// mutable-after-immutable sub-message guard.
	Type bool
	// CriticalType enables value-type checks on setters and wire-type
	// checks on getters.
	CriticalType bool
	// CriticalState enables parse/state checks that would otherwise
	// silently produce corrupted output: specifically, it bounds-checks
	// the lenient mismatched-wire-type decode fallback (used when
	// CriticalType is off) against the byte range the field was actually
	// indexed at, so reinterpreting e.g. a varint as a fixed64 can't
	// silently read into the next field's bytes. See decodeAtBounded.
	CriticalState bool
}

// DefaultCheckLevels returns every check level turned on.
func DefaultCheckLevels() CheckLevels {
	return CheckLevels{Bounds: true, Type: true, CriticalType: true, CriticalState: true}
}

func validFieldNumber(n int32) bool {
	return n >= 1 && n <= MaxFieldNumber
}
