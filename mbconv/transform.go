package mbconv

import (
	"encoding/binary"

	"golang.org/x/text/transform"

	"github.com/wippyai/wchar/errors"
)

// transformChunk bounds the stack scratch used per span call.
const transformChunk = 64

// Decoder is a transform.Transformer from the multibyte encoding to
// little-endian 32-bit code units. Partial sequences at the end of a src
// chunk are consumed into the carried State. Error offsets count bytes from
// the start of the stream, or from the last Reset.
type Decoder struct {
	st  State
	pos int
}

var _ transform.Transformer = (*Decoder)(nil)

// NewDecoder returns a Decoder in the idle state.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Reset implements transform.Transformer.
func (d *Decoder) Reset() {
	d.st.Reset()
	d.pos = 0
}

// Transform implements transform.Transformer.
func (d *Decoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	defer func() { d.pos += nSrc }()

	var buf [transformChunk]rune
	for nSrc < len(src) {
		room := (len(dst) - nDst) / 4
		if room == 0 {
			return nDst, nSrc, transform.ErrShortDst
		}
		if room > len(buf) {
			room = len(buf)
		}

		res := DecodeSpan(buf[:room], src[nSrc:], &d.st)
		for _, r := range buf[:res.Produced] {
			binary.LittleEndian.PutUint32(dst[nDst:], uint32(r))
			nDst += 4
		}
		if res.Status == Invalid {
			start := nSrc + res.Consumed - res.Rejected
			return nDst, start, errors.InvalidSequence(errors.PhaseDecode, d.pos+start, src[start:nSrc+res.Consumed])
		}
		nSrc += res.Consumed
	}

	if atEOF && !d.st.IsIdle() {
		return nDst, nSrc, errors.Incomplete(errors.PhaseDecode, d.pos+nSrc-d.st.Pending(), d.st.Pending())
	}
	return nDst, nSrc, nil
}

// Encoder is a transform.Transformer from little-endian 32-bit code units
// to the multibyte encoding. Error offsets count bytes from the start of the
// stream, or from the last Reset.
type Encoder struct {
	pos int
}

var _ transform.Transformer = (*Encoder)(nil)

// NewEncoder returns an Encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Reset implements transform.Transformer.
func (e *Encoder) Reset() {
	e.pos = 0
}

// Transform implements transform.Transformer.
func (e *Encoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	defer func() { e.pos += nSrc }()

	var buf [transformChunk]rune
	for len(src)-nSrc >= 4 {
		k := (len(src) - nSrc) / 4
		if k > len(buf) {
			k = len(buf)
		}
		for i := range buf[:k] {
			buf[i] = rune(binary.LittleEndian.Uint32(src[nSrc+4*i:]))
		}

		res := EncodeSpan(dst[nDst:], buf[:k], nil)
		nDst += res.Produced
		nSrc += 4 * res.Consumed
		switch res.Status {
		case Invalid:
			err := errors.InvalidCodePoint(errors.PhaseEncode, buf[res.Consumed])
			err.Offset, err.HasOffset = e.pos+nSrc, true
			return nDst, nSrc, err
		case Produced:
			return nDst, nSrc, transform.ErrShortDst
		}
	}

	if nSrc < len(src) {
		if !atEOF {
			return nDst, nSrc, transform.ErrShortSrc
		}
		return nDst, nSrc, errors.New(errors.PhaseEncode, errors.KindIncomplete).
			At(e.pos+nSrc).
			Detail("%d trailing byte(s) do not form a code unit", len(src)-nSrc).
			Build()
	}
	return nDst, nSrc, nil
}
