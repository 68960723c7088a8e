package numparse

import (
	"errors"
	"math"
	"strings"
	"testing"

	werrors "github.com/wippyai/wchar/errors"
)

func TestParseFloat_Overflow(t *testing.T) {
	res := ParseFloat([]rune("1e309"))
	if !res.Overflow {
		t.Fatal("1e309 should overflow")
	}
	if !math.IsInf(res.Value, 1) {
		t.Errorf("value = %v, want +Inf", res.Value)
	}
	if res.Consumed != 5 {
		t.Errorf("consumed = %d, want 5", res.Consumed)
	}
	if !errors.Is(res.Err(), &werrors.Error{Phase: werrors.PhaseParse, Kind: werrors.KindOverflow}) {
		t.Errorf("Err() = %v, want overflow", res.Err())
	}

	neg := ParseFloat([]rune("-1e309"))
	if !neg.Overflow || !math.IsInf(neg.Value, -1) || neg.Consumed != 6 {
		t.Errorf("-1e309 = %+v", neg)
	}
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		want      float64
		consumed  int
		overflow  bool
		underflow bool
	}{
		{"integer", "42", 42, 2, false, false},
		{"fraction", "3.25", 3.25, 4, false, false},
		{"trailing text", "3.25xyz", 3.25, 4, false, false},
		{"leading point", "-.5", -0.5, 3, false, false},
		{"trailing point", "5.", 5, 2, false, false},
		{"exponent", "1.5e3", 1500, 5, false, false},
		{"signed exponent", "25E-1", 2.5, 5, false, false},
		{"exponent without digits", "1e+", 1, 1, false, false},
		{"exponent letter only", "7e", 7, 1, false, false},
		{"leading whitespace", "  \t\n12", 12, 6, false, false},
		{"ideographic space", "　8", 8, 2, false, false},
		{"plus sign", "+0.125", 0.125, 6, false, false},
		{"tenth", "0.1", 0.1, 3, false, false},
		{"stops at nul", "1.5\x002", 1.5, 3, false, false},
		{"max float", "1.7976931348623157e308", math.MaxFloat64, 22, false, false},
		{"zero with huge exponent", "0e-400", 0, 6, false, false},
		{"underflow to zero", "1e-400", 0, 6, false, true},
		{"subnormal", "5e-324", 5e-324, 6, false, true},
		{"smallest normal", "2.2250738585072014e-308", 0x1p-1022, 23, false, false},
		{"hex", "0x1p4", 16, 5, false, false},
		{"hex fraction no exponent", "0X1.8", 1.5, 5, false, false},
		{"hex leading point", "0x.8p1", 1, 6, false, false},
		{"hex negative exponent", "-0xAp-2", -2.5, 7, false, false},
		{"hex without digits", "0x", 0, 1, false, false},
		{"hex then junk", "0xg", 0, 1, false, false},
		{"hex overflow", "0x1p2000", math.Inf(1), 8, true, false},
		{"hex subnormal", "0x1p-1070", 0x1p-1070, 9, false, true},
		{"hex underflow to zero", "0x1p-1200", 0, 9, false, true},
		{"huge mantissa", "1" + strings.Repeat("0", 50) + "e300", math.Inf(1), 55, true, false},

		{"empty", "", 0, 0, false, false},
		{"spaces only", "   ", 0, 0, false, false},
		{"letters", "abc", 0, 0, false, false},
		{"sign only", "-", 0, 0, false, false},
		{"point only", ".", 0, 0, false, false},
		{"sign point", "+.e5", 0, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseFloat([]rune(tt.in))
			if res.Consumed != tt.consumed {
				t.Errorf("consumed = %d, want %d", res.Consumed, tt.consumed)
			}
			if res.Value != tt.want {
				t.Errorf("value = %v, want %v", res.Value, tt.want)
			}
			if res.Overflow != tt.overflow || res.Underflow != tt.underflow {
				t.Errorf("overflow=%v underflow=%v, want %v/%v", res.Overflow, res.Underflow, tt.overflow, tt.underflow)
			}
		})
	}
}

func TestParseFloat_Special(t *testing.T) {
	tests := []struct {
		in       string
		inf      int
		nan      bool
		consumed int
	}{
		{"inf", 1, false, 3},
		{"INF", 1, false, 3},
		{"-Infinity", -1, false, 9},
		{"infinit", 1, false, 3},
		{" +iNfInItYx", 1, false, 10},
		{"nan", 0, true, 3},
		{"NaN(0x7f_a)", 0, true, 11},
		{"nan(", 0, true, 3},
		{"nan(a-b)", 0, true, 3},
		{"-nan", 0, true, 4},
	}
	for _, tt := range tests {
		res := ParseFloat([]rune(tt.in))
		if res.Consumed != tt.consumed {
			t.Errorf("%q: consumed = %d, want %d", tt.in, res.Consumed, tt.consumed)
		}
		if tt.nan && !math.IsNaN(res.Value) {
			t.Errorf("%q: value = %v, want NaN", tt.in, res.Value)
		}
		if !tt.nan && !math.IsInf(res.Value, tt.inf) {
			t.Errorf("%q: value = %v, want Inf(%d)", tt.in, res.Value, tt.inf)
		}
		if res.Overflow || res.Underflow {
			t.Errorf("%q: range flags set: %+v", tt.in, res)
		}
	}
}

func TestParseFloat_NegativeZero(t *testing.T) {
	res := ParseFloat([]rune("-0.0"))
	if res.Value != 0 || !math.Signbit(res.Value) {
		t.Errorf("-0.0 = %v, want negative zero", res.Value)
	}
	if res.Underflow {
		t.Error("zero literal must not underflow")
	}

	res = ParseFloat([]rune("-1e-400"))
	if !res.Underflow || !math.Signbit(res.Value) {
		t.Errorf("-1e-400 = %+v, want signed zero with underflow", res)
	}
	if !errors.Is(res.Err(), &werrors.Error{Phase: werrors.PhaseParse, Kind: werrors.KindUnderflow}) {
		t.Errorf("Err() = %v, want underflow", res.Err())
	}
}

func TestParseFloat_TiesToEven(t *testing.T) {
	// 2^53 + 1 sits exactly between two float64 values.
	res := ParseFloat([]rune("9007199254740993"))
	if res.Value != 9007199254740992 {
		t.Errorf("value = %v, want 9007199254740992", res.Value)
	}
	res = ParseFloat([]rune("9007199254740995"))
	if res.Value != 9007199254740996 {
		t.Errorf("value = %v, want 9007199254740996", res.Value)
	}
}
