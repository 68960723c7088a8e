package numparse

import "github.com/wippyai/wchar/wctype"

func skipSpace(s []rune) int {
	i := 0
	for i < len(s) && wctype.IsSpace(s[i]) {
		i++
	}
	return i
}

func scanSign(s []rune, i int) (int, bool) {
	if i < len(s) {
		switch s[i] {
		case '-':
			return i + 1, true
		case '+':
			return i + 1, false
		}
	}
	return i, false
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// digitVal returns the value of r as a digit in bases up to 36, or 36 if r
// is not a digit in any of them.
func digitVal(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'z':
		return int(r-'a') + 10
	case r >= 'A' && r <= 'Z':
		return int(r-'A') + 10
	}
	return 36
}

func isHexDigit(r rune) bool {
	return digitVal(r) < 16
}

// hasPrefixFold reports whether s starts with the ASCII word, ignoring case.
func hasPrefixFold(s []rune, word string) bool {
	if len(s) < len(word) {
		return false
	}
	for i := 0; i < len(word); i++ {
		if s[i]|0x20 != rune(word[i]) {
			return false
		}
	}
	return true
}

// hexPrefix reports whether s[i:] is "0x" or "0X" followed by something a
// hex literal can start with.
func hexPrefix(s []rune, i int, allowPoint bool) bool {
	if i+2 >= len(s) || s[i] != '0' || s[i+1]|0x20 != 'x' {
		return false
	}
	next := s[i+2]
	if isHexDigit(next) {
		return true
	}
	return allowPoint && next == '.' && i+3 < len(s) && isHexDigit(s[i+3])
}

// scanMantissa consumes digits[.digits] where at least one digit is
// required. It returns i unchanged when nothing matched.
func scanMantissa(s []rune, i int, digit func(rune) bool) (end int, nonzero bool) {
	j := i
	digits := 0
	for ; j < len(s) && digit(s[j]); j++ {
		digits++
		nonzero = nonzero || s[j] != '0'
	}
	if j < len(s) && s[j] == '.' {
		k := j + 1
		for ; k < len(s) && digit(s[k]); k++ {
			digits++
			nonzero = nonzero || s[k] != '0'
		}
		if digits > 0 {
			j = k
		}
	}
	if digits == 0 {
		return i, false
	}
	return j, nonzero
}

// scanExponent consumes mark[+-]digits. Without digits nothing is consumed.
func scanExponent(s []rune, i int, mark rune) int {
	if i >= len(s) || s[i]|0x20 != mark {
		return i
	}
	j, _ := scanSign(s, i+1)
	if j >= len(s) || !isDigit(s[j]) {
		return i
	}
	for j < len(s) && isDigit(s[j]) {
		j++
	}
	return j
}
