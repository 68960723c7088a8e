package mbconv

import (
	"github.com/wippyai/wchar/errors"
)

const (
	t2 = 0xC0
	t3 = 0xE0
	t4 = 0xF0
	tx = 0x80
)

// ValidRune reports whether r is a code point the encoding can represent.
func ValidRune(r rune) bool {
	switch {
	case 0 <= r && r < surrogateMin:
		return true
	case surrogateMax < r && r <= MaxRune:
		return true
	}
	return false
}

// RuneLen returns the number of bytes needed to encode r, or -1 if r is not
// encodable.
func RuneLen(r rune) int {
	switch {
	case r < 0:
		return -1
	case r <= rune1Max:
		return 1
	case r <= rune2Max:
		return 2
	case surrogateMin <= r && r <= surrogateMax:
		return -1
	case r <= rune3Max:
		return 3
	case r <= MaxRune:
		return 4
	}
	return -1
}

// EncodeRune writes the byte sequence for r into dst and returns its length.
// Nothing is written on error. st exists for symmetry with DecodeRune: the
// encoding has no shift states, so it is never read or modified and may be nil.
func EncodeRune(dst []byte, r rune, st *State) (int, error) {
	n := RuneLen(r)
	if n < 0 {
		return 0, errors.InvalidCodePoint(errors.PhaseEncode, r)
	}
	if len(dst) < n {
		return 0, errors.New(errors.PhaseEncode, errors.KindOutOfBounds).
			Value(r).
			Detail("need %d bytes, have %d", n, len(dst)).
			Build()
	}
	put(dst, r, n)
	return n, nil
}

// AppendRune appends the encoding of r to dst.
func AppendRune(dst []byte, r rune) ([]byte, error) {
	var tmp [MaxSeqLen]byte
	n, err := EncodeRune(tmp[:], r, nil)
	if err != nil {
		return dst, err
	}
	return append(dst, tmp[:n]...), nil
}

// put writes the n-byte form of an already validated r.
func put(p []byte, r rune, n int) {
	switch n {
	case 1:
		p[0] = byte(r)
	case 2:
		_ = p[1]
		p[0] = t2 | byte(r>>6)
		p[1] = tx | byte(r)&maskx
	case 3:
		_ = p[2]
		p[0] = t3 | byte(r>>12)
		p[1] = tx | byte(r>>6)&maskx
		p[2] = tx | byte(r)&maskx
	default:
		_ = p[3]
		p[0] = t4 | byte(r>>18)
		p[1] = tx | byte(r>>12)&maskx
		p[2] = tx | byte(r>>6)&maskx
		p[3] = tx | byte(r)&maskx
	}
}
