package wchar

// Memory is a flat, little-endian address space owned by a caller of the
// engine, typically the linear memory of a WebAssembly guest.
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	ReadU8(offset uint32) (uint8, error)
	ReadU32(offset uint32) (uint32, error)
	WriteU32(offset uint32, value uint32) error
}

// MemorySizer provides the current size of a Memory in bytes.
type MemorySizer interface {
	Size() uint32
}

// Allocator allocates memory inside a Memory
type Allocator interface {
	Alloc(size, align uint32) (uint32, error)
	Free(ptr, size, align uint32)
}
