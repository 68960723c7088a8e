package guest

import (
	"context"
	"testing"

	"github.com/tetratelabs/wazero"
)

// Minimal module assembler for test guests.

func uleb(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v == 0 {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func sleb(v int32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func vec(items ...[]byte) []byte {
	return cat(uleb(uint32(len(items))), cat(items...))
}

func section(id byte, content []byte) []byte {
	return cat([]byte{id}, uleb(uint32(len(content))), content)
}

func wasmName(s string) []byte {
	return cat(uleb(uint32(len(s))), []byte(s))
}

func i32Const(v int32) []byte {
	return cat([]byte{0x41}, sleb(v))
}

func funcBody(code ...[]byte) []byte {
	body := cat([]byte{0x00}, cat(code...), []byte{0x0b})
	return cat(uleb(uint32(len(body))), body)
}

var (
	wasmHeader = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	typeI32x4  = []byte{0x60, 0x04, 0x7f, 0x7f, 0x7f, 0x7f, 0x01, 0x7f}
	typeToI32  = []byte{0x60, 0x00, 0x01, 0x7f}
	memOnePage = section(5, vec([]byte{0x00, 0x01}))
	exportMem  = cat(wasmName("memory"), []byte{0x02, 0x00})
)

// memoryWASM exports one page of memory as "memory".
var memoryWASM = cat(wasmHeader, memOnePage, section(7, vec(exportMem)))

// allocWASM also exports cabi_realloc, which always returns 1024.
var allocWASM = cat(
	wasmHeader,
	section(1, vec(typeI32x4)),
	section(3, vec([]byte{0x00})),
	memOnePage,
	section(7, vec(exportMem, cat(wasmName("cabi_realloc"), []byte{0x00, 0x00}))),
	section(10, vec(funcBody(i32Const(1024)))),
)

// callerWASM imports wchar.mbrtowc and exports run, which calls it with
// the given pwc, s, n and ps.
func callerWASM(pwc, s, n, ps int32) []byte {
	return cat(
		wasmHeader,
		section(1, vec(typeI32x4, typeToI32)),
		section(2, vec(cat(wasmName("wchar"), wasmName("mbrtowc"), []byte{0x00, 0x00}))),
		section(3, vec([]byte{0x01})),
		memOnePage,
		section(7, vec(exportMem, cat(wasmName("run"), []byte{0x00, 0x01}))),
		section(10, vec(funcBody(i32Const(pwc), i32Const(s), i32Const(n), i32Const(ps), []byte{0x10, 0x00}))),
	)
}

// errnoWASM is callerWASM plus wchar.errno and wchar.set_errno imports,
// re-exported as errno and clear (which passes 0).
func errnoWASM(pwc, s, n, ps int32) []byte {
	typeI32ToVoid := []byte{0x60, 0x01, 0x7f, 0x00}
	typeVoid := []byte{0x60, 0x00, 0x00}
	return cat(
		wasmHeader,
		section(1, vec(typeI32x4, typeToI32, typeI32ToVoid, typeVoid)),
		section(2, vec(
			cat(wasmName("wchar"), wasmName("mbrtowc"), []byte{0x00, 0x00}),
			cat(wasmName("wchar"), wasmName("errno"), []byte{0x00, 0x01}),
			cat(wasmName("wchar"), wasmName("set_errno"), []byte{0x00, 0x02}),
		)),
		section(3, vec([]byte{0x01}, []byte{0x01}, []byte{0x03})),
		memOnePage,
		section(7, vec(
			exportMem,
			cat(wasmName("run"), []byte{0x00, 0x03}),
			cat(wasmName("errno"), []byte{0x00, 0x04}),
			cat(wasmName("clear"), []byte{0x00, 0x05}),
		)),
		section(10, vec(
			funcBody(i32Const(pwc), i32Const(s), i32Const(n), i32Const(ps), []byte{0x10, 0x00}),
			funcBody([]byte{0x10, 0x01}),
			funcBody(i32Const(0), []byte{0x10, 0x02}),
		)),
	)
}

// newGuest instantiates wasm in a fresh runtime and returns its memory
// and, when exported, its allocator.
func newGuest(t *testing.T, wasm []byte) (*Memory, *Allocator) {
	t.Helper()
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	t.Cleanup(func() { rt.Close(ctx) })

	mod, err := rt.Instantiate(ctx, wasm)
	if err != nil {
		t.Fatalf("failed to instantiate: %v", err)
	}
	return WrapMemory(mod.ExportedMemory("memory")), WrapAllocator(ctx, mod.ExportedFunction("cabi_realloc"))
}

func newMemory(t *testing.T) *Memory {
	t.Helper()
	mem, _ := newGuest(t, memoryWASM)
	return mem
}
