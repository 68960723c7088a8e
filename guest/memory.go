package guest

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/wchar"
	"github.com/wippyai/wchar/errors"
)

// WrapMemory wraps a wazero api.Memory to implement wchar.Memory.
func WrapMemory(mem api.Memory) *Memory {
	if mem == nil {
		return nil
	}
	return &Memory{Mem: mem}
}

// WrapAllocator wraps a guest allocation export with the cabi_realloc
// signature (ptr, old_size, align, new_size) -> ptr.
func WrapAllocator(ctx context.Context, fn api.Function) *Allocator {
	if fn == nil {
		return nil
	}
	return &Allocator{Ctx: ctx, Fn: fn}
}

var (
	_ wchar.Memory      = (*Memory)(nil)
	_ wchar.MemorySizer = (*Memory)(nil)
	_ wchar.Allocator   = (*Allocator)(nil)
)

// Memory adapts wazero api.Memory to wchar.Memory.
type Memory struct {
	Mem api.Memory
}

func fault(offset uint32, length int, size uint32) *errors.Error {
	return errors.New(errors.PhaseHost, errors.KindOutOfBounds).
		At(int(offset)).
		Value(offset).
		Detail("guest memory access of %d byte(s) outside %d", length, size).
		Build()
}

// Read reads bytes from memory. The result aliases guest memory.
func (m *Memory) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.Mem.Read(offset, length)
	if !ok {
		return nil, fault(offset, int(length), m.Mem.Size())
	}
	return data, nil
}

// Write writes bytes to memory.
func (m *Memory) Write(offset uint32, data []byte) error {
	if !m.Mem.Write(offset, data) {
		return fault(offset, len(data), m.Mem.Size())
	}
	return nil
}

// ReadU8 reads an unsigned 8-bit value.
func (m *Memory) ReadU8(offset uint32) (uint8, error) {
	v, ok := m.Mem.ReadByte(offset)
	if !ok {
		return 0, fault(offset, 1, m.Mem.Size())
	}
	return v, nil
}

// ReadU32 reads an unsigned 32-bit little-endian value.
func (m *Memory) ReadU32(offset uint32) (uint32, error) {
	v, ok := m.Mem.ReadUint32Le(offset)
	if !ok {
		return 0, fault(offset, 4, m.Mem.Size())
	}
	return v, nil
}

// WriteU32 writes an unsigned 32-bit little-endian value.
func (m *Memory) WriteU32(offset uint32, value uint32) error {
	if !m.Mem.WriteUint32Le(offset, value) {
		return fault(offset, 4, m.Mem.Size())
	}
	return nil
}

// Size returns the current size of memory in bytes.
func (m *Memory) Size() uint32 {
	return m.Mem.Size()
}

// Allocator adapts a guest allocation export to wchar.Allocator.
type Allocator struct {
	Ctx context.Context
	Fn  api.Function
}

// Alloc allocates memory in the guest.
func (a *Allocator) Alloc(size, align uint32) (uint32, error) {
	results, err := a.Fn.Call(a.Ctx, 0, 0, uint64(align), uint64(size))
	if err != nil {
		return 0, errors.Wrap(errors.PhaseHost, errors.KindInvalidInput, err, "guest allocation failed")
	}
	if len(results) == 0 {
		return 0, errors.InvalidInput(errors.PhaseHost, "guest allocation returned no result")
	}
	ptr := api.DecodeU32(results[0])
	if ptr == 0 && size > 0 {
		return 0, errors.InvalidInput(errors.PhaseHost, "guest allocation returned null")
	}
	return ptr, nil
}

// Free releases memory obtained from Alloc.
func (a *Allocator) Free(ptr, size, align uint32) {
	_, _ = a.Fn.Call(a.Ctx, uint64(ptr), uint64(size), uint64(align), 0)
}
