package mbconv

// SpanResult reports how far a sequence conversion got.
//
// Status is the terminal condition:
//
//	Produced    output capacity ran out; unconverted input remains
//	EndOfInput  all input consumed (or the terminator reached), state idle
//	Incomplete  all input consumed, a partial sequence is held in the state
//	Invalid     conversion stopped at malformed input
//
// Produced never counts a terminator; Terminated reports whether one was
// converted and written.
type SpanResult struct {
	Consumed   int
	Produced   int
	Rejected   int
	Status     Status
	Terminated bool
}

// DecodeSpan decodes src into dst until dst is full, src is exhausted, or
// the first invalid sequence. On Invalid, Consumed includes the rejected
// bytes of this call and Rejected counts them.
func DecodeSpan(dst []rune, src []byte, st *State) SpanResult {
	return decodeSpan(dst, src, st, false)
}

// DecodeSpanNul is DecodeSpan for terminated input: it stops after
// converting U+0000 and never consumes bytes past the terminator. When the
// input runs out without a terminator and dst has room, a zero code point is
// stored after the produced prefix.
func DecodeSpanNul(dst []rune, src []byte, st *State) SpanResult {
	return decodeSpan(dst, src, st, true)
}

func decodeSpan(dst []rune, src []byte, st *State, nul bool) SpanResult {
	var res SpanResult
	for res.Produced < len(dst) {
		o := DecodeRune(src[res.Consumed:], st)
		res.Consumed += o.Consumed
		switch o.Status {
		case Produced:
			dst[res.Produced] = o.Rune
			if nul && o.Rune == 0 {
				res.Terminated = true
				res.Status = EndOfInput
				return res
			}
			res.Produced++
		case Invalid:
			res.Rejected = o.Consumed
			res.Status = Invalid
			return res
		default:
			res.Status = o.Status
			if nul && o.Status == EndOfInput && res.Produced < len(dst) {
				dst[res.Produced] = 0
			}
			return res
		}
	}

	// Output is full. Look at what follows without committing to it, so a
	// malformed sequence or the end of input is still reported.
	next := *st
	o := DecodeRune(src[res.Consumed:], &next)
	switch o.Status {
	case Invalid:
		*st = next
		res.Consumed += o.Consumed
		res.Rejected = o.Consumed
		res.Status = Invalid
	case EndOfInput:
		res.Status = EndOfInput
	default:
		res.Status = Produced
	}
	return res
}

// EncodeSpan encodes src into dst until dst cannot hold the next complete
// sequence, src is exhausted, or the first code point that cannot be
// encoded. Consumed counts code points, Produced counts bytes. st is never
// modified and may be nil.
func EncodeSpan(dst []byte, src []rune, st *State) SpanResult {
	return encodeSpan(dst, src, false)
}

// EncodeSpanNul is EncodeSpan for terminated input: it stops after
// encoding U+0000. When the input runs out without a terminator and dst has
// room, a zero byte is stored after the produced prefix.
func EncodeSpanNul(dst []byte, src []rune, st *State) SpanResult {
	return encodeSpan(dst, src, true)
}

func encodeSpan(dst []byte, src []rune, nul bool) SpanResult {
	var res SpanResult
	for res.Consumed < len(src) {
		r := src[res.Consumed]
		n := RuneLen(r)
		if n < 0 {
			res.Status = Invalid
			return res
		}
		if res.Produced+n > len(dst) {
			res.Status = Produced
			return res
		}
		put(dst[res.Produced:], r, n)
		res.Consumed++
		if nul && r == 0 {
			res.Terminated = true
			res.Status = EndOfInput
			return res
		}
		res.Produced += n
	}
	res.Status = EndOfInput
	if nul && res.Produced < len(dst) {
		dst[res.Produced] = 0
	}
	return res
}

// CountDecoded walks terminated input as DecodeSpanNul would with unlimited
// output, without writing anything. st is taken by value and left untouched.
func CountDecoded(src []byte, st State) SpanResult {
	var res SpanResult
	for {
		o := DecodeRune(src[res.Consumed:], &st)
		res.Consumed += o.Consumed
		switch o.Status {
		case Produced:
			if o.Rune == 0 {
				res.Terminated = true
				res.Status = EndOfInput
				return res
			}
			res.Produced++
		case Invalid:
			res.Rejected = o.Consumed
			res.Status = Invalid
			return res
		default:
			res.Status = o.Status
			return res
		}
	}
}

// CountEncoded reports the bytes EncodeSpanNul would produce with unlimited
// output, without writing anything.
func CountEncoded(src []rune) SpanResult {
	var res SpanResult
	for _, r := range src {
		n := RuneLen(r)
		if n < 0 {
			res.Status = Invalid
			return res
		}
		res.Consumed++
		if r == 0 {
			res.Terminated = true
			res.Status = EndOfInput
			return res
		}
		res.Produced += n
	}
	res.Status = EndOfInput
	return res
}
