package osc

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Error kinds reported by the codec. Decode failures are always wrapped in a
// *ParseError, so match them with errors.Is.
var (
	ErrTruncatedInput        = errors.New("truncated input")
	ErrInvalidLength         = errors.New("invalid length")
	ErrInvalidAddress        = errors.New("invalid address")
	ErrUnknownArgumentType   = errors.New("unknown argument type")
	ErrMalformedBundleMarker = errors.New("malformed bundle marker")

	// ErrNestingTooDeep is reported for bundles or arrays nested deeper than
	// MaxNestingDepth. It also matches ErrTruncatedInput.
	ErrNestingTooDeep error = &subKindError{msg: "nesting too deep", parent: ErrTruncatedInput}

	// ErrUnbalancedArray is reported for a type tag string whose '[' and ']'
	// don't pair up. It also matches ErrUnknownArgumentType.
	ErrUnbalancedArray error = &subKindError{msg: "unbalanced array type tags", parent: ErrUnknownArgumentType}

	// ErrInvalidArgument is returned when encoding a value that can't be
	// represented on the wire, like a string with an embedded NUL.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupportedType is returned when encoding a Go value that has no
	// registered type tag.
	ErrUnsupportedType = errors.New("unsupported type")
)

// subKindError is a narrower error kind that errors.Is also reports as its
// parent. The reverse does not hold.
type subKindError struct {
	msg    string
	parent error
}

func (e *subKindError) Error() string { return e.msg }

func (e *subKindError) Is(target error) bool { return target == e.parent }

// ParseError describes where decoding a packet failed.
type ParseError struct {
	// Err is one of the Err* kinds above.
	Err error
	// Offset is the byte offset from the start of the top level buffer.
	Offset int
	// Tag and TagIndex are set when the failure belongs to a type tag.
	// TagIndex counts from the leading ',' of the type tag string.
	Tag      TypeTag
	TagIndex int
}

func (e *ParseError) Error() string {
	if e.Tag != TypeInvalid {
		return fmt.Sprintf("osc: %v: tag %q at index %d (offset %d)", e.Err, rune(e.Tag), e.TagIndex, e.Offset)
	}
	return fmt.Sprintf("osc: %v at offset %d", e.Err, e.Offset)
}

func (e *ParseError) Unwrap() error { return e.Err }

func newParseError(err error, offset int) error {
	return &ParseError{Err: err, Offset: offset}
}

func newTagError(err error, offset int, tag TypeTag, index int) error {
	return &ParseError{Err: err, Offset: offset, Tag: tag, TagIndex: index}
}

// ErrorKind returns a short, stable name for the kind of a codec error,
// suitable for log fields and metric labels.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNestingTooDeep):
		return "nesting_too_deep"
	case errors.Is(err, ErrTruncatedInput):
		return "truncated_input"
	case errors.Is(err, ErrInvalidLength):
		return "invalid_length"
	case errors.Is(err, ErrInvalidAddress):
		return "invalid_address"
	case errors.Is(err, ErrUnbalancedArray):
		return "unbalanced_array"
	case errors.Is(err, ErrUnknownArgumentType):
		return "unknown_argument_type"
	case errors.Is(err, ErrMalformedBundleMarker):
		return "malformed_bundle_marker"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrUnsupportedType):
		return "unsupported_type"
	default:
		return "other"
	}
}
