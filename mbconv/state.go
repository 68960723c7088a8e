package mbconv

import (
	"encoding/binary"

	"github.com/wippyai/wchar/errors"
)

const (
	// MaxSeqLen is the longest byte sequence of the supported encoding.
	MaxSeqLen = 4

	// StateSize is the size of a serialized State: {int32 count; int32 value}.
	StateSize = 8
)

// State carries a partially decoded sequence between calls.
// The zero value is idle and ready for use. States are plain values: copy
// them freely, but do not share one between concurrent calls.
type State struct {
	n   uint8
	buf [MaxSeqLen]byte
}

// Reset abandons any partial sequence.
func (s *State) Reset() {
	*s = State{}
}

// IsIdle reports whether a new independent sequence may start.
func (s State) IsIdle() bool {
	return s.n == 0
}

// Pending returns the number of bytes held from an unfinished sequence.
func (s State) Pending() int {
	return int(s.n)
}

// MarshalBinary encodes the state in the 8-byte mbstate_t layout:
// a little-endian int32 byte count followed by the pending bytes packed
// little-endian into an int32.
func (s State) MarshalBinary() ([]byte, error) {
	b := make([]byte, StateSize)
	s.Put(b)
	return b, nil
}

// Put writes the 8-byte encoding of s into b, which must be at least StateSize long.
func (s State) Put(b []byte) {
	_ = b[StateSize-1]
	binary.LittleEndian.PutUint32(b[0:4], uint32(s.n))
	copy(b[4:8], s.buf[:])
}

// UnmarshalBinary restores a state written by MarshalBinary or by a C
// runtime sharing the same layout. A zero count yields the idle state
// regardless of the value word.
func (s *State) UnmarshalBinary(b []byte) error {
	if len(b) < StateSize {
		return errors.InvalidState(errors.PhaseDecode, "short mbstate buffer")
	}
	count := binary.LittleEndian.Uint32(b[0:4])
	if count == 0 {
		s.Reset()
		return nil
	}
	if count >= MaxSeqLen {
		return errors.New(errors.PhaseDecode, errors.KindInvalidState).
			Value(count).
			Detail("pending count %d exceeds %d", count, MaxSeqLen-1).
			Build()
	}

	var restored State
	copy(restored.buf[:], b[4:8])
	if w := leadLen(restored.buf[0]); w < 2 || int(count) >= w {
		return errors.New(errors.PhaseDecode, errors.KindInvalidState).
			Value(restored.buf[0]).
			Detail("pending lead byte %#x cannot start a %d+ byte sequence", restored.buf[0], count+1).
			Build()
	}
	for i := 1; i < int(count); i++ {
		if !isCont(restored.buf[i]) {
			return errors.InvalidState(errors.PhaseDecode, "pending bytes are not continuation bytes")
		}
	}
	for i := int(count); i < MaxSeqLen; i++ {
		restored.buf[i] = 0
	}
	restored.n = uint8(count)
	*s = restored
	return nil
}
