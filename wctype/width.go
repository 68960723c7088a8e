package wctype

import "github.com/mattn/go-runewidth"

// The ambiguous-width setting of the process locale is not consulted, so
// widths do not depend on the environment.
var widths = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// Width returns the number of terminal columns r occupies: 0 for NUL and
// combining marks, 2 for wide characters, -1 for characters that are not
// printable.
func Width(r rune) int {
	if r == 0 {
		return 0
	}
	if !Is(r, Print) {
		if zeroWidthFormat(r) {
			return 0
		}
		return -1
	}
	return widths.RuneWidth(r)
}

// StringWidth sums Width over s up to the first NUL, returning -1 if any
// code point is not printable.
func StringWidth(s []rune) int {
	total := 0
	for _, r := range s {
		if r == 0 {
			break
		}
		w := Width(r)
		if w < 0 {
			return -1
		}
		total += w
	}
	return total
}

// zeroWidthFormat covers format characters such as ZERO WIDTH JOINER, which
// are not graphic but occupy no column.
func zeroWidthFormat(r rune) bool {
	return r == 0x200B || r == 0x200C || r == 0x200D || r == 0x2060 || r == 0xFEFF
}
