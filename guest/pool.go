package guest

import "sync"

const (
	// Pool limits to prevent memory bloat
	poolMaxCap  = 64 * 1024
	poolInitCap = 256
)

var runePool = sync.Pool{
	New: func() any {
		buf := make([]rune, 0, poolInitCap)
		return &buf
	},
}

var bytePool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, poolInitCap)
		return &buf
	},
}

// getRunes returns a pooled buffer of length n.
func getRunes(n int) *[]rune {
	buf := runePool.Get().(*[]rune)
	if cap(*buf) < n {
		*buf = make([]rune, n)
	}
	*buf = (*buf)[:n]
	return buf
}

func putRunes(buf *[]rune) {
	if buf == nil || cap(*buf) > poolMaxCap {
		return // reject oversized
	}
	*buf = (*buf)[:0]
	runePool.Put(buf)
}

// getBytes returns an empty pooled buffer with capacity for at least n bytes.
func getBytes(n int) *[]byte {
	buf := bytePool.Get().(*[]byte)
	if cap(*buf) < n {
		*buf = make([]byte, 0, n)
	}
	*buf = (*buf)[:0]
	return buf
}

func putBytes(buf *[]byte) {
	if buf == nil || cap(*buf) > poolMaxCap {
		return // reject oversized
	}
	*buf = (*buf)[:0]
	bytePool.Put(buf)
}
