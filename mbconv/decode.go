package mbconv

import (
	"github.com/wippyai/wchar/errors"
)

// Status is the result class of a single conversion step.
type Status uint8

const (
	// EndOfInput: no bytes were supplied and nothing is pending.
	EndOfInput Status = iota
	// Produced: a complete code point was produced.
	Produced
	// Incomplete: the input ended inside a sequence; the state holds the prefix.
	Incomplete
	// Invalid: the input is malformed; the state was reset.
	Invalid
)

var statusNames = [...]string{
	EndOfInput: "end-of-input",
	Produced:   "produced",
	Incomplete: "incomplete",
	Invalid:    "invalid",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// Outcome is the result of one decode step.
type Outcome struct {
	Rune     rune
	Consumed int
	Status   Status
}

// Err converts a fault outcome into an error. Produced and EndOfInput yield nil.
func (o Outcome) Err() error {
	switch o.Status {
	case Invalid:
		return &errors.Error{
			Phase:  errors.PhaseDecode,
			Kind:   errors.KindInvalidSequence,
			Detail: "invalid multibyte sequence",
		}
	case Incomplete:
		return &errors.Error{
			Phase:  errors.PhaseDecode,
			Kind:   errors.KindIncomplete,
			Detail: "multibyte sequence is incomplete",
		}
	}
	return nil
}

const (
	runeSelf = 0x80
	maskx    = 0x3F
	mask2    = 0x1F
	mask3    = 0x0F
	mask4    = 0x07

	rune1Max = 1<<7 - 1
	rune2Max = 1<<11 - 1
	rune3Max = 1<<16 - 1

	// MaxRune is the largest valid code point.
	MaxRune = '\U0010FFFF'

	surrogateMin = 0xD800
	surrogateMax = 0xDFFF
)

// leadLen returns the sequence length announced by a lead byte, or 0 if b
// cannot start a sequence. C0 and C1 only start overlong forms and F5..FF
// only start values beyond MaxRune.
func leadLen(b byte) int {
	switch {
	case b < runeSelf:
		return 1
	case b < 0xC2:
		return 0
	case b < 0xE0:
		return 2
	case b < 0xF0:
		return 3
	case b < 0xF5:
		return 4
	}
	return 0
}

func isCont(b byte) bool {
	return b&0xC0 == 0x80
}

// DecodeRune performs one restartable decode step over src.
//
// An idle state with empty src yields EndOfInput. Bytes of an unfinished
// sequence are moved into st and reported as Incomplete; the next call
// continues from st with only the new bytes. Consumed always counts bytes
// taken from this call's src.
func DecodeRune(src []byte, st *State) Outcome {
	buf := st.buf
	n := int(st.n)
	i := 0

	if n == 0 {
		if len(src) == 0 {
			return Outcome{Status: EndOfInput}
		}
		b := src[0]
		if b < runeSelf {
			return Outcome{Rune: rune(b), Consumed: 1, Status: Produced}
		}
		if leadLen(b) == 0 {
			return Outcome{Consumed: 1, Status: Invalid}
		}
		buf[0] = b
		n, i = 1, 1
	}

	width := leadLen(buf[0])
	for n < width && i < len(src) {
		c := src[i]
		i++
		if !isCont(c) {
			st.Reset()
			return Outcome{Consumed: i, Status: Invalid}
		}
		buf[n] = c
		n++
	}

	if n < width {
		st.buf = buf
		st.n = uint8(n)
		return Outcome{Consumed: i, Status: Incomplete}
	}

	st.Reset()
	r, ok := assemble(buf[:width])
	if !ok {
		return Outcome{Consumed: i, Status: Invalid}
	}
	return Outcome{Rune: r, Consumed: i, Status: Produced}
}

// SequenceLen reports how many bytes of src complete the next sequence
// without returning the code point. It advances st exactly as DecodeRune does.
func SequenceLen(src []byte, st *State) Outcome {
	o := DecodeRune(src, st)
	o.Rune = 0
	return o
}

// assemble combines a complete multi-byte sequence, rejecting overlong
// forms, surrogates and values beyond MaxRune.
func assemble(p []byte) (rune, bool) {
	var r, lo rune
	switch len(p) {
	case 2:
		r = rune(p[0]&mask2)<<6 | rune(p[1]&maskx)
		lo = rune1Max + 1
	case 3:
		r = rune(p[0]&mask3)<<12 | rune(p[1]&maskx)<<6 | rune(p[2]&maskx)
		lo = rune2Max + 1
	case 4:
		r = rune(p[0]&mask4)<<18 | rune(p[1]&maskx)<<12 | rune(p[2]&maskx)<<6 | rune(p[3]&maskx)
		lo = rune3Max + 1
	default:
		return 0, false
	}
	if r < lo || r > MaxRune || (surrogateMin <= r && r <= surrogateMax) {
		return 0, false
	}
	return r, true
}
