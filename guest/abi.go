package guest

import (
	"go.uber.org/zap"

	"github.com/wippyai/wchar"
	"github.com/wippyai/wchar/mbconv"
	"github.com/wippyai/wchar/numparse"
	"github.com/wippyai/wchar/wctype"
)

// Return values of the size_t functions.
const (
	SizeInvalid    = ^uint32(0)     // (size_t)-1
	SizeIncomplete = ^uint32(0) - 1 // (size_t)-2
)

// errno values. The last one set is kept per Host (see Host.Errno) and
// also stored through an error pointer where the call takes one.
const (
	EINVAL = 22
	ERANGE = 34
	EILSEQ = 84
)

// WEOF as a guest wint_t.
const WEOF = ^uint32(0)

// Memory faults trap the calling guest; wazero turns the panic into an error
// returned from the guest's entry point.
func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func check(err error) {
	if err != nil {
		panic(err)
	}
}

var nul = []byte{0}

// readClamped reads up to n units at ptr, stopping at the end of memory.
// A non-empty request that starts outside memory faults.
func readClamped(mem wchar.Memory, ptr, n, unit uint32) []byte {
	k := limit(mem, ptr, n, unit)
	if k == 0 && n > 0 {
		must(mem.ReadU8(ptr))
	}
	return must(mem.Read(ptr, k*unit))
}

// withState runs fn on the state at ps, or on internal when ps is null, and
// stores the result back to guest memory.
func (h *Host) withState(mem wchar.Memory, ps uint32, internal *mbconv.State, fn func(*mbconv.State) uint32) uint32 {
	if ps == 0 {
		h.mu.Lock()
		defer h.mu.Unlock()
		return fn(internal)
	}

	var st mbconv.State
	if err := st.UnmarshalBinary(must(mem.Read(ps, mbconv.StateSize))); err != nil {
		h.log.Debug("rejected conversion state", zap.Uint32("ps", ps), zap.Error(err))
		h.SetErrno(EINVAL)
		return SizeInvalid
	}
	ret := fn(&st)
	var raw [mbconv.StateSize]byte
	st.Put(raw[:])
	check(mem.Write(ps, raw[:]))
	return ret
}

// Mbrtowc decodes the next character of the n bytes at s into *pwc.
// It returns the bytes consumed by this call, 0 for the null character,
// SizeIncomplete when more input is needed, or SizeInvalid.
func (h *Host) Mbrtowc(mem wchar.Memory, pwc, s, n, ps uint32) uint32 {
	return h.withState(mem, ps, &h.mbrtowc, func(st *mbconv.State) uint32 {
		return h.decodeOne(mem, pwc, s, n, st)
	})
}

// Mbrlen is Mbrtowc without storing the character, using its own internal
// state.
func (h *Host) Mbrlen(mem wchar.Memory, s, n, ps uint32) uint32 {
	return h.withState(mem, ps, &h.mbrlen, func(st *mbconv.State) uint32 {
		return h.decodeOne(mem, 0, s, n, st)
	})
}

func (h *Host) decodeOne(mem wchar.Memory, pwc, s, n uint32, st *mbconv.State) uint32 {
	src := nul
	if s == 0 {
		pwc = 0
	} else {
		src = readClamped(mem, s, min(n, mbconv.MaxSeqLen), 1)
	}

	o := mbconv.DecodeRune(src, st)
	switch o.Status {
	case mbconv.Produced:
		if pwc != 0 {
			check(mem.WriteU32(pwc, uint32(o.Rune)))
		}
		if o.Rune == 0 {
			return 0
		}
		return uint32(o.Consumed)
	case mbconv.Invalid:
		h.log.Debug("invalid multibyte sequence", zap.Uint32("s", s), zap.Int("consumed", o.Consumed))
		h.SetErrno(EILSEQ)
		return SizeInvalid
	}
	return SizeIncomplete
}

// Mbsinit returns 1 if ps is null or describes the initial state.
func (h *Host) Mbsinit(mem wchar.Memory, ps uint32) uint32 {
	if ps == 0 {
		return 1
	}
	var st mbconv.State
	if err := st.UnmarshalBinary(must(mem.Read(ps, mbconv.StateSize))); err != nil || !st.IsIdle() {
		return 0
	}
	return 1
}

// Wcrtomb encodes wc at s and returns the byte count, or SizeInvalid. A null
// s returns 1, the length of the reset sequence.
func (h *Host) Wcrtomb(mem wchar.Memory, s, wc, ps uint32) uint32 {
	if s == 0 {
		return 1
	}
	var buf [mbconv.MaxSeqLen]byte
	n, err := mbconv.EncodeRune(buf[:], rune(int32(wc)), nil)
	if err != nil {
		h.log.Debug("unencodable code point", zap.Uint32("wc", wc))
		h.SetErrno(EILSEQ)
		return SizeInvalid
	}
	check(mem.Write(s, buf[:n]))
	return uint32(n)
}

// Mbsnrtowcs converts at most nms bytes of the string *src into at most
// len wide characters at dst. *src is advanced past the converted input,
// set to null when the terminator was converted, or left at the malformed
// sequence on SizeInvalid. With a null dst only the count is returned.
func (h *Host) Mbsnrtowcs(mem wchar.Memory, dst, srcp, nms, length, ps uint32) uint32 {
	return h.withState(mem, ps, &h.mbsnrtow, func(st *mbconv.State) uint32 {
		src := must(mem.ReadU32(srcp))
		in := readClamped(mem, src, nms, 1)

		if dst == 0 {
			res := mbconv.CountDecoded(in, *st)
			if res.Status == mbconv.Invalid {
				h.SetErrno(EILSEQ)
				return SizeInvalid
			}
			return uint32(res.Produced)
		}

		capacity := min(int(length), len(in)+1)
		buf := getRunes(capacity)
		defer putRunes(buf)

		res := mbconv.DecodeSpanNul(*buf, in, st)
		out := res.Produced
		if res.Terminated {
			out++
		}
		check(writeRunes(mem, dst, (*buf)[:out]))

		next := src + uint32(res.Consumed)
		switch res.Status {
		case mbconv.Invalid:
			check(mem.WriteU32(srcp, next-uint32(res.Rejected)))
			if res.Produced == int(length) {
				// dst filled before the malformed sequence.
				return uint32(res.Produced)
			}
			h.SetErrno(EILSEQ)
			return SizeInvalid
		case mbconv.EndOfInput:
			if res.Terminated {
				next = 0
			}
		}
		check(mem.WriteU32(srcp, next))
		return uint32(res.Produced)
	})
}

// Wcsnrtombs converts at most nwc wide characters of the string *src into
// at most len bytes at dst, never splitting a sequence. *src is updated as
// in Mbsnrtowcs. The conversion needs no state, so ps is not read.
func (h *Host) Wcsnrtombs(mem wchar.Memory, dst, srcp, nwc, length, ps uint32) uint32 {
	src := must(mem.ReadU32(srcp))
	in := must(ReadWideString(mem, src, nwc))

	if dst == 0 {
		res := mbconv.CountEncoded(in)
		if res.Status == mbconv.Invalid {
			h.SetErrno(EILSEQ)
			return SizeInvalid
		}
		return uint32(res.Produced)
	}

	capacity := min(int(length), len(in)*mbconv.MaxSeqLen)
	buf := getBytes(capacity)
	defer putBytes(buf)
	*buf = (*buf)[:capacity]

	res := mbconv.EncodeSpanNul(*buf, in, nil)
	out := res.Produced
	if res.Terminated {
		out++
	}
	check(mem.Write(dst, (*buf)[:out]))

	next := src + uint32(res.Consumed)*WcharSize
	switch res.Status {
	case mbconv.Invalid:
		check(mem.WriteU32(srcp, next))
		h.log.Debug("unencodable code point", zap.Uint32("at", next))
		h.SetErrno(EILSEQ)
		return SizeInvalid
	case mbconv.EndOfInput:
		if res.Terminated {
			next = 0
		}
	}
	check(mem.WriteU32(srcp, next))
	return uint32(res.Produced)
}

// Btowc maps a single byte to a wide character, or WEOF.
func Btowc(c uint32) uint32 {
	return uint32(mbconv.FromByte(int(int32(c))))
}

// Wctob maps a wide character to a single byte, or EOF (-1).
func Wctob(wc uint32) uint32 {
	return uint32(int32(mbconv.ToByte(rune(int32(wc)))))
}

func (h *Host) wideArg(mem wchar.Memory, nptr uint32) []rune {
	return must(ReadWideString(mem, nptr, ^uint32(0)))
}

func setEnd(mem wchar.Memory, endptr, nptr uint32, consumed int) {
	if endptr != 0 {
		check(mem.WriteU32(endptr, nptr+uint32(consumed)*WcharSize))
	}
}

// raise records errno on the host and stores it at errp when non-null.
func (h *Host) raise(mem wchar.Memory, errp, errno uint32) {
	h.SetErrno(errno)
	if errp != 0 {
		check(mem.WriteU32(errp, errno))
	}
}

// Errno returns the last error code set by a host function, or 0.
func (h *Host) Errno() uint32 {
	return h.errno.Load()
}

// SetErrno replaces the recorded error code. Guests clear it with 0 before
// a call whose failure they need to tell apart.
func (h *Host) SetErrno(errno uint32) {
	h.errno.Store(errno)
}

// Wcstod parses a floating-point number from the wide string at nptr.
// *endptr receives the address after the number, or nptr when none was
// found. Overflow and underflow store ERANGE in *errp.
func (h *Host) Wcstod(mem wchar.Memory, nptr, endptr, errp uint32) float64 {
	res := numparse.ParseFloat(h.wideArg(mem, nptr))
	setEnd(mem, endptr, nptr, res.Consumed)
	if res.Overflow || res.Underflow {
		h.raise(mem, errp, ERANGE)
	}
	return res.Value
}

// Wcstol parses a signed integer. An invalid base stores EINVAL, overflow
// stores ERANGE.
func (h *Host) Wcstol(mem wchar.Memory, nptr, endptr uint32, base int32, errp uint32) int64 {
	res, err := numparse.ParseInt(h.wideArg(mem, nptr), int(base))
	if err != nil {
		setEnd(mem, endptr, nptr, 0)
		h.raise(mem, errp, EINVAL)
		return 0
	}
	setEnd(mem, endptr, nptr, res.Consumed)
	if res.Overflow {
		h.raise(mem, errp, ERANGE)
	}
	return res.Value
}

// Wcstoul is Wcstol for unsigned values.
func (h *Host) Wcstoul(mem wchar.Memory, nptr, endptr uint32, base int32, errp uint32) uint64 {
	res, err := numparse.ParseUint(h.wideArg(mem, nptr), int(base))
	if err != nil {
		setEnd(mem, endptr, nptr, 0)
		h.raise(mem, errp, EINVAL)
		return 0
	}
	setEnd(mem, endptr, nptr, res.Consumed)
	if res.Overflow {
		h.raise(mem, errp, ERANGE)
	}
	return res.Value
}

// Wctype returns the class descriptor for the C string at name, or 0.
func (h *Host) Wctype(mem wchar.Memory, name uint32) uint32 {
	raw := must(ReadBytes(mem, name, 16))
	if n := len(raw); n > 0 && raw[n-1] == 0 {
		raw = raw[:n-1]
	}
	c, ok := wctype.Lookup(string(raw))
	if !ok {
		return 0
	}
	return uint32(c)
}

// Iswctype reports whether wc belongs to the class descriptor desc.
func Iswctype(wc, desc uint32) uint32 {
	if desc > 0xFF || !wctype.Is(rune(int32(wc)), wctype.Class(desc)) {
		return 0
	}
	return 1
}

// Towlower maps wc to lowercase.
func Towlower(wc uint32) uint32 {
	return uint32(wctype.ToLower(rune(int32(wc))))
}

// Towupper maps wc to uppercase.
func Towupper(wc uint32) uint32 {
	return uint32(wctype.ToUpper(rune(int32(wc))))
}

// Wcwidth returns the column width of wc, or -1.
func Wcwidth(wc uint32) uint32 {
	return uint32(int32(wctype.Width(rune(int32(wc)))))
}
