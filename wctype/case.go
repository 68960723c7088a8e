package wctype

import "unicode"

// ToUpper maps r to its simple uppercase form, or returns r unchanged.
func ToUpper(r rune) rune {
	if r < 0 || r > unicode.MaxRune {
		return r
	}
	return unicode.ToUpper(r)
}

// ToLower maps r to its simple lowercase form, or returns r unchanged.
func ToLower(r rune) rune {
	if r < 0 || r > unicode.MaxRune {
		return r
	}
	return unicode.ToLower(r)
}
