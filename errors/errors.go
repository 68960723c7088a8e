package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode   Phase = "decode"   // bytes to code points
	PhaseEncode   Phase = "encode"   // code points to bytes
	PhaseParse    Phase = "parse"    // numeric text parsing
	PhaseClassify Phase = "classify" // class name lookup
	PhaseHost     Phase = "host"     // guest ABI calls and registration
	PhaseLoad     Phase = "load"     // module loading
)

// Kind categorizes the error
type Kind string

const (
	KindIncomplete       Kind = "incomplete"
	KindInvalidSequence  Kind = "invalid_sequence"
	KindInvalidCodePoint Kind = "invalid_code_point"
	KindInvalidState     Kind = "invalid_state"
	KindOverflow         Kind = "overflow"
	KindUnderflow        Kind = "underflow"
	KindOutOfBounds      Kind = "out_of_bounds"
	KindInvalidInput     Kind = "invalid_input"
	KindNotFound         Kind = "not_found"
	KindRegistration     Kind = "registration"
	KindInstantiation    Kind = "instantiation"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value     any
	Cause     error
	Phase     Phase
	Kind      Kind
	Op        string
	Detail    string
	Offset    int
	HasOffset bool
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}

	if e.HasOffset {
		b.WriteString(" at offset ")
		b.WriteString(strconv.Itoa(e.Offset))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Op sets the operation name
func (b *Builder) Op(op string) *Builder {
	b.err.Op = op
	return b
}

// At sets the offset into the input where the error was detected
func (b *Builder) At(offset int) *Builder {
	b.err.Offset = offset
	b.err.HasOffset = true
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidSequence creates an error for a malformed multibyte sequence.
// data is the sequence as seen so far, including the offending byte.
func InvalidSequence(phase Phase, offset int, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:     phase,
		Kind:      KindInvalidSequence,
		Offset:    offset,
		HasOffset: true,
		Detail:    fmt.Sprintf("invalid multibyte sequence: % x", preview),
	}
}

// Incomplete creates an error for a sequence cut short by the end of input
func Incomplete(phase Phase, offset, pending int) *Error {
	return &Error{
		Phase:     phase,
		Kind:      KindIncomplete,
		Offset:    offset,
		HasOffset: true,
		Detail:    fmt.Sprintf("%d byte(s) of an unfinished sequence pending", pending),
	}
}

// InvalidCodePoint creates an error for a value outside the encodable range
func InvalidCodePoint(phase Phase, r rune) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidCodePoint,
		Detail: fmt.Sprintf("code point %#x is not encodable", uint32(r)),
		Value:  r,
	}
}

// InvalidState creates an error for a conversion state that cannot be restored
func InvalidState(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidState,
		Detail: detail,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, value any, targetType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Detail: fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:  value,
	}
}

// Underflow creates an underflow error
func Underflow(phase Phase, value any, targetType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnderflow,
		Detail: fmt.Sprintf("value %v underflows %s", value, targetType),
		Value:  value,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Registration creates a registration error
func Registration(phase Phase, namespace, name string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindRegistration,
		Detail: fmt.Sprintf("register %s#%s", namespace, name),
		Cause:  cause,
	}
}

// Instantiation creates an instantiation error
func Instantiation(cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInstantiation,
		Detail: "instantiate module",
		Cause:  cause,
	}
}

// Load creates a module loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidInput,
		Detail: detail,
		Cause:  cause,
	}
}
