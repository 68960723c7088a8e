package wstr

// MemSet fills dst with c and returns it.
func MemSet(dst []rune, c rune) []rune {
	for i := range dst {
		dst[i] = c
	}
	return dst
}

// MemChr returns the index of the first c in s, terminators included.
func MemChr(s []rune, c rune) int {
	for i, r := range s {
		if r == c {
			return i
		}
	}
	return -1
}

// MemCmp compares the first n code points of a and b and returns -1, 0 or
// 1. Both slices must hold at least n code points.
func MemCmp(a, b []rune, n int) int {
	for i := 0; i < n; i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// MemCpy copies src into dst and returns the number of code points copied.
func MemCpy(dst, src []rune) int {
	return copy(dst, src)
}

// MemMove is MemCpy; overlapping slices are handled.
func MemMove(dst, src []rune) int {
	return copy(dst, src)
}
