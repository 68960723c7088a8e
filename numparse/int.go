package numparse

import (
	"math"

	"github.com/wippyai/wchar/errors"
)

// IntResult is the outcome of ParseInt.
type IntResult struct {
	Value    int64
	Consumed int
	Overflow bool
}

// Err reports overflow as an error, or nil.
func (r IntResult) Err() error {
	if r.Overflow {
		return errors.Overflow(errors.PhaseParse, r.Value, "int64")
	}
	return nil
}

// UintResult is the outcome of ParseUint.
type UintResult struct {
	Value    uint64
	Consumed int
	Overflow bool
}

// Err reports overflow as an error, or nil.
func (r UintResult) Err() error {
	if r.Overflow {
		return errors.Overflow(errors.PhaseParse, r.Value, "uint64")
	}
	return nil
}

// ParseInt parses a signed integer at the start of s, after optional white
// space, in the given base. Base 0 selects 16 for a 0x prefix, 8 for a
// leading 0 and 10 otherwise; base 16 also accepts the 0x prefix. Values
// outside int64 clamp to math.MaxInt64 or math.MinInt64 with Overflow set.
func ParseInt(s []rune, base int) (IntResult, error) {
	m, err := scanInt(s, base)
	if err != nil {
		return IntResult{}, err
	}
	res := IntResult{Consumed: m.end}
	switch {
	case !m.neg && (m.overflow || m.mag > math.MaxInt64):
		res.Value, res.Overflow = math.MaxInt64, true
	case m.neg && (m.overflow || m.mag > 1<<63):
		res.Value, res.Overflow = math.MinInt64, true
	case m.neg:
		res.Value = int64(-m.mag)
	default:
		res.Value = int64(m.mag)
	}
	return res, nil
}

// ParseUint is ParseInt for unsigned values. A leading minus sign negates
// the parsed magnitude modulo 2^64. Magnitudes beyond uint64 clamp to
// math.MaxUint64 with Overflow set, regardless of sign.
func ParseUint(s []rune, base int) (UintResult, error) {
	m, err := scanInt(s, base)
	if err != nil {
		return UintResult{}, err
	}
	res := UintResult{Consumed: m.end}
	switch {
	case m.overflow:
		res.Value, res.Overflow = math.MaxUint64, true
	case m.neg:
		res.Value = -m.mag
	default:
		res.Value = m.mag
	}
	return res, nil
}

type magnitude struct {
	mag      uint64
	end      int
	neg      bool
	overflow bool
}

func scanInt(s []rune, base int) (magnitude, error) {
	if base < 0 || base == 1 || base > 36 {
		return magnitude{}, errors.New(errors.PhaseParse, errors.KindInvalidInput).
			Value(base).
			Detail("base %d is not 0 or in [2, 36]", base).
			Build()
	}

	i, neg := scanSign(s, skipSpace(s))
	switch {
	case (base == 0 || base == 16) && hexPrefix(s, i, false):
		base = 16
		i += 2
	case base == 0 && i < len(s) && s[i] == '0':
		base = 8
	case base == 0:
		base = 10
	}

	m := magnitude{neg: neg}
	b := uint64(base)
	start := i
	for ; i < len(s); i++ {
		d := digitVal(s[i])
		if d >= base {
			break
		}
		if m.overflow {
			continue
		}
		if m.mag > (math.MaxUint64-uint64(d))/b {
			m.overflow = true
			continue
		}
		m.mag = m.mag*b + uint64(d)
	}
	if i == start {
		return magnitude{}, nil
	}
	m.end = i
	return m, nil
}
