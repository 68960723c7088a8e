// Package errors provides structured error types for the wchar module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the operation name, the input offset where the problem was
// detected, the offending value, and a cause chain.
//
// Conversion functions report their per-call status by value (see mbconv.Outcome);
// these errors are what callers get when they ask for a Go error, or when an
// operation has no status channel of its own.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidSequence).
//		Op("mbsnrtowcs").
//		At(17).
//		Detail("unexpected continuation byte %#x", 0x41).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidCodePoint(errors.PhaseEncode, 0xD800)
//	err := errors.OutOfBounds(errors.PhaseHost, 70000, 65536)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
