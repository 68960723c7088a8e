// Package numparse parses numbers from wide text.
//
// The parsers work on []rune, read the longest valid prefix, and report how
// many code units they consumed so a caller can continue after the number.
// Range conditions are reported in the result instead of a global error
// indicator:
//
//	res := numparse.ParseFloat([]rune("1e309"))
//	// res.Value == +Inf, res.Overflow == true, res.Consumed == 5
//
// Rounding is to nearest, ties to even.
package numparse
