package guest

import (
	"encoding/binary"

	"github.com/wippyai/wchar"
	"github.com/wippyai/wchar/errors"
)

// WcharSize is the size of wchar_t in guest memory.
const WcharSize = 4

// limit clamps n so that [ptr, ptr+n*unit) stays inside mem when its size is
// known.
func limit(mem wchar.Memory, ptr, n, unit uint32) uint32 {
	sizer, ok := mem.(wchar.MemorySizer)
	if !ok {
		return n
	}
	size := sizer.Size()
	if ptr >= size {
		return 0
	}
	if avail := (size - ptr) / unit; n > avail {
		return avail
	}
	return n
}

// ReadWideString reads at most max code units starting at ptr, stopping
// after a zero unit. The terminator is included in the result when found.
func ReadWideString(mem wchar.Memory, ptr, max uint32) ([]rune, error) {
	n := limit(mem, ptr, max, WcharSize)
	if n == 0 && max > 0 {
		if _, err := mem.ReadU32(ptr); err != nil {
			return nil, err
		}
	}
	data, err := mem.Read(ptr, n*WcharSize)
	if err != nil {
		return nil, err
	}
	out := make([]rune, 0, min(n, 64))
	for i := uint32(0); i < n; i++ {
		r := rune(binary.LittleEndian.Uint32(data[i*WcharSize:]))
		out = append(out, r)
		if r == 0 {
			break
		}
	}
	return out, nil
}

// ReadBytes reads at most max bytes starting at ptr, stopping after a zero
// byte. The terminator is included in the result when found.
func ReadBytes(mem wchar.Memory, ptr, max uint32) ([]byte, error) {
	n := limit(mem, ptr, max, 1)
	if n == 0 && max > 0 {
		if _, err := mem.ReadU8(ptr); err != nil {
			return nil, err
		}
	}
	data, err := mem.Read(ptr, n)
	if err != nil {
		return nil, err
	}
	for i, b := range data {
		if b == 0 {
			return data[:i+1], nil
		}
	}
	return data, nil
}

// WriteWideString allocates room for s and a terminator in guest memory,
// stores them, and returns the address.
func WriteWideString(mem wchar.Memory, alloc wchar.Allocator, s []rune) (uint32, error) {
	size := uint32(len(s)+1) * WcharSize
	ptr, err := alloc.Alloc(size, WcharSize)
	if err != nil {
		return 0, err
	}
	if err := writeRunes(mem, ptr, append(s[:len(s):len(s)], 0)); err != nil {
		alloc.Free(ptr, size, WcharSize)
		return 0, err
	}
	return ptr, nil
}

// WriteString allocates room for s and a terminator in guest memory and
// stores them.
func WriteString(mem wchar.Memory, alloc wchar.Allocator, s []byte) (uint32, error) {
	size := uint32(len(s) + 1)
	ptr, err := alloc.Alloc(size, 1)
	if err != nil {
		return 0, err
	}
	if err := mem.Write(ptr, append(s[:len(s):len(s)], 0)); err != nil {
		alloc.Free(ptr, size, 1)
		return 0, err
	}
	return ptr, nil
}

func writeRunes(mem wchar.Memory, ptr uint32, rs []rune) error {
	buf := getBytes(len(rs) * WcharSize)
	defer putBytes(buf)
	for _, r := range rs {
		*buf = binary.LittleEndian.AppendUint32(*buf, uint32(r))
	}
	if err := mem.Write(ptr, *buf); err != nil {
		return errors.New(errors.PhaseHost, errors.KindOutOfBounds).
			At(int(ptr)).
			Cause(err).
			Detail("store %d wide character(s)", len(rs)).
			Build()
	}
	return nil
}
