package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:     PhaseDecode,
				Kind:      KindInvalidSequence,
				Op:        "mbrtowc",
				Offset:    3,
				HasOffset: true,
				Detail:    "bad continuation",
			},
			contains: []string{"[decode]", "invalid_sequence", "in mbrtowc", "at offset 3", "bad continuation"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseEncode,
				Kind:  KindInvalidCodePoint,
			},
			contains: []string{"[encode]", "invalid_code_point"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseHost,
				Kind:   KindOutOfBounds,
				Detail: "memory read",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[host]", "out_of_bounds", "memory read", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_NoOffset(t *testing.T) {
	err := &Error{Phase: PhaseParse, Kind: KindOverflow, Offset: 0}
	if strings.Contains(err.Error(), "offset") {
		t.Errorf("message %q should not mention an offset", err.Error())
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseLoad,
		Kind:  KindInvalidInput,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidSequence,
		Detail: "whatever",
	}

	if !err.Is(&Error{Phase: PhaseDecode, Kind: KindInvalidSequence}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseEncode, Kind: KindInvalidSequence}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseDecode, Kind: KindIncomplete}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseDecode, Kind: KindInvalidSequence}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseDecode, KindInvalidSequence).
		Op("mbsnrtowcs").
		At(17).
		Value(0x41).
		Cause(cause).
		Detail("unexpected byte %#x", 0x41).
		Build()

	if err.Phase != PhaseDecode {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseDecode)
	}
	if err.Kind != KindInvalidSequence {
		t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidSequence)
	}
	if err.Op != "mbsnrtowcs" {
		t.Errorf("Op = %q, want mbsnrtowcs", err.Op)
	}
	if !err.HasOffset || err.Offset != 17 {
		t.Errorf("Offset = %d (set %v), want 17", err.Offset, err.HasOffset)
	}
	if err.Value != 0x41 {
		t.Errorf("Value = %v, want 0x41", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "unexpected byte 0x41" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("InvalidSequence", func(t *testing.T) {
		err := InvalidSequence(PhaseDecode, 4, []byte{0xc3, 0x41})
		if err.Kind != KindInvalidSequence {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidSequence)
		}
		if !err.HasOffset || err.Offset != 4 {
			t.Errorf("Offset = %d, want 4", err.Offset)
		}
		if !strings.Contains(err.Detail, "c3 41") {
			t.Errorf("Detail = %q, should contain the bytes", err.Detail)
		}
	})

	t.Run("InvalidSequence preview is capped", func(t *testing.T) {
		err := InvalidSequence(PhaseDecode, 0, make([]byte, 100))
		if got := strings.Count(err.Detail, "00"); got != 32 {
			t.Errorf("preview has %d bytes, want 32", got)
		}
	})

	t.Run("Incomplete", func(t *testing.T) {
		err := Incomplete(PhaseDecode, 10, 2)
		if err.Kind != KindIncomplete {
			t.Errorf("Kind = %v, want %v", err.Kind, KindIncomplete)
		}
	})

	t.Run("InvalidCodePoint", func(t *testing.T) {
		err := InvalidCodePoint(PhaseEncode, 0xD800)
		if err.Kind != KindInvalidCodePoint {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidCodePoint)
		}
		if err.Value != rune(0xD800) {
			t.Errorf("Value = %v, want 0xD800", err.Value)
		}
		if !strings.Contains(err.Detail, "0xd800") {
			t.Errorf("Detail = %q", err.Detail)
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseHost, 10, 5)
		if err.Kind != KindOutOfBounds {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfBounds)
		}
		if err.Value != 10 {
			t.Errorf("Value = %v, want 10", err.Value)
		}
	})

	t.Run("Overflow", func(t *testing.T) {
		err := Overflow(PhaseParse, "1e309", "f64")
		if err.Kind != KindOverflow {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOverflow)
		}
	})

	t.Run("Underflow", func(t *testing.T) {
		err := Underflow(PhaseParse, "1e-400", "f64")
		if err.Kind != KindUnderflow {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnderflow)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseClassify, "class", "alphanum")
		if !strings.Contains(err.Error(), `class "alphanum" not found`) {
			t.Errorf("message = %q", err.Error())
		}
	})

	t.Run("Registration", func(t *testing.T) {
		err := Registration(PhaseHost, "wchar", "mbrtowc", errors.New("boom"))
		if err.Kind != KindRegistration || !strings.Contains(err.Error(), "wchar#mbrtowc") {
			t.Errorf("unexpected error %v", err)
		}
	})
}
