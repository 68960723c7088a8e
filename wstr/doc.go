// Package wstr provides wide-string routines over []rune.
//
// Strings end at the first U+0000 or at the end of the slice, whichever
// comes first. Functions that return a position return -1 when there is
// none. The Mem functions ignore terminators and work on whole slices.
package wstr
