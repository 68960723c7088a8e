package numparse

import (
	"math"
	"strconv"

	"github.com/wippyai/wchar/errors"
)

const minNormal = 0x1p-1022

// FloatResult is the outcome of ParseFloat.
type FloatResult struct {
	Value     float64
	Consumed  int
	Overflow  bool
	Underflow bool
}

// Err reports a range condition as an error, or nil.
func (r FloatResult) Err() error {
	switch {
	case r.Overflow:
		return errors.Overflow(errors.PhaseParse, r.Value, "float64")
	case r.Underflow:
		return errors.Underflow(errors.PhaseParse, r.Value, "float64")
	}
	return nil
}

// ParseFloat parses the longest floating-point literal at the start of s,
// after optional white space. Parsing stops at the end of s or at a zero
// code unit. When no literal is found the result is zero with nothing
// consumed.
//
// Accepted forms, case-insensitively and with an optional sign:
//
//	digits[.digits][e[+-]digits]
//	0x hexdigits[.hexdigits][p[+-]digits]
//	inf, infinity
//	nan, nan(chars)
//
// A result too large for float64 is ±Inf with Overflow set. A non-zero
// literal that rounds to zero or to a subnormal sets Underflow.
func ParseFloat(s []rune) FloatResult {
	start := skipSpace(s)
	i, neg := scanSign(s, start)
	sign := 1.0
	if neg {
		sign = -1
	}

	switch {
	case hasPrefixFold(s[i:], "infinity"):
		return FloatResult{Value: math.Inf(int(sign)), Consumed: i + len("infinity")}
	case hasPrefixFold(s[i:], "inf"):
		return FloatResult{Value: math.Inf(int(sign)), Consumed: i + len("inf")}
	case hasPrefixFold(s[i:], "nan"):
		return FloatResult{Value: math.Copysign(math.NaN(), sign), Consumed: scanNaNPayload(s, i+len("nan"))}
	}

	var (
		end     int
		nonzero bool
		text    string
	)
	if hexPrefix(s, i, true) {
		end, nonzero = scanMantissa(s, i+2, isHexDigit)
		exp := scanExponent(s, end, 'p')
		text = string(s[start:exp])
		if exp == end {
			text += "p0"
		}
		end = exp
	} else {
		end, nonzero = scanMantissa(s, i, isDigit)
		if end == i {
			return FloatResult{}
		}
		end = scanExponent(s, end, 'e')
		text = string(s[start:end])
	}

	v, err := strconv.ParseFloat(text, 64)
	res := FloatResult{Value: v, Consumed: end}
	if err != nil {
		// The scanners only pass well-formed text, so the one error left
		// is a range error.
		if !math.IsInf(v, 0) {
			return FloatResult{}
		}
		res.Overflow = true
		return res
	}
	if nonzero && math.Abs(v) < minNormal {
		res.Underflow = true
	}
	return res
}

// scanNaNPayload consumes an optional "(chars)" after nan, where chars are
// ASCII alphanumerics and underscores. An unterminated payload is not
// consumed.
func scanNaNPayload(s []rune, i int) int {
	if i >= len(s) || s[i] != '(' {
		return i
	}
	for j := i + 1; j < len(s); j++ {
		r := s[j]
		switch {
		case r == ')':
			return j + 1
		case r == '_' || digitVal(r) < 36:
		default:
			return i
		}
	}
	return i
}
