// Package wctype classifies code points and maps their case.
//
// Classes follow wctype(3) names. Digit and XDigit are ASCII-only; the other
// classes are defined over the Unicode tables shipped with the Go toolchain.
// Case mapping is the simple one-to-one mapping: a code point without a
// counterpart maps to itself.
//
// Width reports terminal columns as wcwidth(3) does, using
// github.com/mattn/go-runewidth with East Asian ambiguous characters
// counted as narrow.
package wctype
