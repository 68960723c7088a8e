package mbconv

// WEOF is the code point returned for a byte that does not form a
// character on its own.
const WEOF rune = -1

// EOF is the byte value returned for a code point without a single-byte form.
const EOF = -1

// FromByte converts a single byte to a code point if the byte is a complete
// sequence by itself. Any other value, including EOF, yields WEOF.
func FromByte(c int) rune {
	if c >= 0 && c < runeSelf {
		return rune(c)
	}
	return WEOF
}

// ToByte converts a code point to its single-byte form, or EOF if it needs
// more than one byte.
func ToByte(r rune) int {
	if r >= 0 && r < runeSelf {
		return int(r)
	}
	return EOF
}
