package wstr

import "github.com/wippyai/wchar/wctype"

// Len returns the number of code points before the terminator.
func Len(s []rune) int {
	for i, r := range s {
		if r == 0 {
			return i
		}
	}
	return len(s)
}

// NLen is Len limited to n.
func NLen(s []rune, n int) int {
	if n < len(s) {
		s = s[:n]
	}
	return Len(s)
}

func at(s []rune, i int) rune {
	if i < len(s) {
		return s[i]
	}
	return 0
}

// Cmp compares a and b by code point value and returns -1, 0 or 1.
func Cmp(a, b []rune) int {
	return compare(a, b, -1, identity)
}

// NCmp is Cmp over at most n code points.
func NCmp(a, b []rune, n int) int {
	return compare(a, b, n, identity)
}

// CaseCmp is Cmp after mapping both sides with wctype.ToLower.
func CaseCmp(a, b []rune) int {
	return compare(a, b, -1, wctype.ToLower)
}

// NCaseCmp is CaseCmp over at most n code points.
func NCaseCmp(a, b []rune, n int) int {
	return compare(a, b, n, wctype.ToLower)
}

func identity(r rune) rune { return r }

func compare(a, b []rune, n int, fold func(rune) rune) int {
	for i := 0; n < 0 || i < n; i++ {
		ca, cb := fold(at(a, i)), fold(at(b, i))
		switch {
		case ca < cb:
			return -1
		case ca > cb:
			return 1
		case ca == 0:
			return 0
		}
	}
	return 0
}

// Chr returns the index of the first c in s. Searching for 0 finds the
// terminator if s has one.
func Chr(s []rune, c rune) int {
	for i, r := range s {
		if r == c {
			return i
		}
		if r == 0 {
			break
		}
	}
	return -1
}

// RChr returns the index of the last c in s.
func RChr(s []rune, c rune) int {
	last := -1
	for i, r := range s {
		if r == c {
			last = i
		}
		if r == 0 {
			break
		}
	}
	return last
}

// Spn returns the length of the prefix of s made only of code points in
// accept.
func Spn(s, accept []rune) int {
	n := Len(s)
	for i := 0; i < n; i++ {
		if Chr(accept, s[i]) < 0 {
			return i
		}
	}
	return n
}

// CSpn returns the length of the prefix of s containing no code point from
// reject.
func CSpn(s, reject []rune) int {
	n := Len(s)
	for i := 0; i < n; i++ {
		if Chr(reject, s[i]) >= 0 {
			return i
		}
	}
	return n
}

// PBrk returns the index of the first code point of s that is in accept.
func PBrk(s, accept []rune) int {
	if i := CSpn(s, accept); i < Len(s) {
		return i
	}
	return -1
}

// Str returns the index of the first occurrence of needle in s. An empty
// needle matches at 0.
func Str(s, needle []rune) int {
	n, m := Len(s), Len(needle)
	for i := 0; i+m <= n; i++ {
		if NCmp(s[i:], needle, m) == 0 {
			return i
		}
	}
	return -1
}

// Tok splits the next token off s. Leading delimiters are skipped; the token
// ends before the next delimiter, which is dropped from rest. ok is false
// when s holds no further token.
func Tok(s, delim []rune) (token, rest []rune, ok bool) {
	s = s[:Len(s)]
	start := Spn(s, delim)
	if start == len(s) {
		return nil, s[len(s):], false
	}
	s = s[start:]
	end := CSpn(s, delim)
	if end == len(s) {
		return s, s[end:], true
	}
	return s[:end], s[end+1:], true
}
