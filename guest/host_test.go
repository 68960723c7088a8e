package guest

import (
	"context"
	"errors"
	"testing"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	werrors "github.com/wippyai/wchar/errors"
)

func TestNewHost_Options(t *testing.T) {
	h := NewHost()
	if h.Name() != DefaultModuleName {
		t.Errorf("default name = %q", h.Name())
	}

	core, logs := observer.New(zap.DebugLevel)
	h = NewHost(WithModuleName("env"), WithLogger(zap.New(core)))
	if h.Name() != "env" {
		t.Errorf("name = %q, want env", h.Name())
	}

	mem := newMemory(t)
	write(t, mem, 8, []byte{'A'})
	write(t, mem, 16, []byte{0xFF})
	h.Mbrtowc(mem, 0, 8, 1, 0)
	if logs.FilterMessage("invalid multibyte sequence").Len() != 0 {
		t.Fatal("unexpected log for valid input")
	}
	h.Mbrlen(mem, 16, 1, 0)
	entries := logs.FilterMessage("invalid multibyte sequence").All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	if entries[0].ContextMap()["module"] != "env" {
		t.Errorf("log context = %v", entries[0].ContextMap())
	}
}

func TestHost_Exports(t *testing.T) {
	want := map[string]bool{
		"mbrtowc": true, "mbrlen": true, "mbsinit": true, "wcrtomb": true,
		"mbsnrtowcs": true, "wcsnrtombs": true, "btowc": true, "wctob": true,
		"wcstod": true, "wcstol": true, "wcstoul": true, "wctype": true,
		"iswctype": true, "towlower": true, "towupper": true, "wcwidth": true,
		"errno": true, "set_errno": true,
	}
	got := NewHost().Exports()
	if len(got) != len(want) {
		t.Fatalf("exports = %v", got)
	}
	for _, name := range got {
		if !want[name] {
			t.Errorf("unexpected export %q", name)
		}
	}
}

func TestHost_InstantiateAndCall(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	h := NewHost()
	if _, err := h.Instantiate(ctx, rt); err != nil {
		t.Fatalf("Instantiate: %v", err)
	}

	mod, err := rt.Instantiate(ctx, callerWASM(8, 16, 2, 32))
	if err != nil {
		t.Fatalf("instantiate guest: %v", err)
	}
	mem := WrapMemory(mod.ExportedMemory("memory"))
	run := mod.ExportedFunction("run")

	write(t, mem, 16, []byte{0xF0, 0x9F})
	results, err := run.Call(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if uint32(results[0]) != SizeIncomplete {
		t.Fatalf("first call = %#x, want SizeIncomplete", results[0])
	}

	write(t, mem, 16, []byte{0x8D, 0x8C})
	results, err = run.Call(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if uint32(results[0]) != 2 {
		t.Fatalf("second call = %#x, want 2", results[0])
	}
	if wc := readU32(t, mem, 8); wc != 0x1F34C {
		t.Errorf("*pwc = %#x", wc)
	}
}

func TestHost_DuplicateInstantiate(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	if _, err := NewHost().Instantiate(ctx, rt); err != nil {
		t.Fatal(err)
	}
	_, err := NewHost().Instantiate(ctx, rt)
	if !errors.Is(err, &werrors.Error{Phase: werrors.PhaseHost, Kind: werrors.KindRegistration}) {
		t.Errorf("err = %v, want registration error", err)
	}
}

func TestHost_ErrnoImport(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	h := NewHost()
	if _, err := h.Instantiate(ctx, rt); err != nil {
		t.Fatal(err)
	}
	mod, err := rt.Instantiate(ctx, errnoWASM(8, 16, 1, 0))
	if err != nil {
		t.Fatalf("instantiate guest: %v", err)
	}
	write(t, WrapMemory(mod.ExportedMemory("memory")), 16, []byte{0xFF})

	results, err := mod.ExportedFunction("run").Call(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if uint32(results[0]) != SizeInvalid {
		t.Fatalf("run = %#x, want SizeInvalid", results[0])
	}

	results, err = mod.ExportedFunction("errno").Call(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if uint32(results[0]) != EILSEQ {
		t.Errorf("guest errno = %d, want %d", results[0], EILSEQ)
	}

	if _, err := mod.ExportedFunction("clear").Call(ctx); err != nil {
		t.Fatal(err)
	}
	if h.Errno() != 0 {
		t.Errorf("errno after set_errno(0) = %d", h.Errno())
	}
}

func TestHost_OutOfBoundsTraps(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	if _, err := NewHost().Instantiate(ctx, rt); err != nil {
		t.Fatal(err)
	}
	mod, err := rt.Instantiate(ctx, callerWASM(8, -256, 4, 0))
	if err != nil {
		t.Fatal(err)
	}

	_, err = mod.ExportedFunction("run").Call(ctx)
	if !errors.Is(err, &werrors.Error{Phase: werrors.PhaseHost, Kind: werrors.KindOutOfBounds}) {
		t.Fatalf("err = %v, want out_of_bounds trap", err)
	}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	m, err := Load(ctx, callerWASM(8, 16, 1, 0))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer m.Close(ctx)

	if m.Host().Name() != DefaultModuleName {
		t.Errorf("host name = %q", m.Host().Name())
	}
	write(t, m.Memory(), 16, []byte{'Z'})
	results, err := m.Call(ctx, "run")
	if err != nil {
		t.Fatal(err)
	}
	if results[0] != 1 {
		t.Errorf("run = %d, want 1", results[0])
	}
	if wc := readU32(t, m.Memory(), 8); wc != 'Z' {
		t.Errorf("*pwc = %#x, want 'Z'", wc)
	}

	notFound := &werrors.Error{Phase: werrors.PhaseHost, Kind: werrors.KindNotFound}
	if _, err := m.Call(ctx, "missing"); !errors.Is(err, notFound) {
		t.Errorf("missing export: %v", err)
	}
	if _, err := m.Allocator(ctx); !errors.Is(err, notFound) {
		t.Errorf("allocator: %v", err)
	}
}

func TestLoad_AllocatorExport(t *testing.T) {
	ctx := context.Background()
	m, err := Load(ctx, allocWASM)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close(ctx)

	alloc, err := m.Allocator(ctx)
	if err != nil {
		t.Fatal(err)
	}
	ptr, err := WriteWideString(m.Memory(), alloc, []rune("ok"))
	if err != nil || ptr != 1024 {
		t.Fatalf("WriteWideString = %d, %v", ptr, err)
	}
}

func TestLoad_InvalidModule(t *testing.T) {
	_, err := Load(context.Background(), []byte("not wasm"))
	if !errors.Is(err, &werrors.Error{Phase: werrors.PhaseLoad, Kind: werrors.KindInvalidInput}) {
		t.Errorf("err = %v, want load error", err)
	}
}
