package guest

import (
	"context"
	"os"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	"github.com/wippyai/wchar/errors"
)

// allocatorExports are tried in order when looking for a guest allocator.
var allocatorExports = []string{"cabi_realloc", "realloc"}

// Module is a core WebAssembly module instantiated with the wchar host
// module and WASI preview1 available for import.
type Module struct {
	runtime wazero.Runtime
	host    *Host
	mod     api.Module
}

// Load compiles and instantiates wasm. Options configure the host module.
func Load(ctx context.Context, wasm []byte, opts ...Option) (*Module, error) {
	rt := wazero.NewRuntime(ctx)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Load("instantiate wasi", err)
	}

	host := NewHost(opts...)
	if _, err := host.Instantiate(ctx, rt); err != nil {
		_ = rt.Close(ctx)
		return nil, err
	}

	compiled, err := rt.CompileModule(ctx, wasm)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Load("compile module", err)
	}

	// Start functions are not run so that reactor-style modules can be
	// driven export by export. Standard streams are inherited.
	cfg := wazero.NewModuleConfig().
		WithStartFunctions().
		WithStdin(os.Stdin).
		WithStdout(os.Stdout).
		WithStderr(os.Stderr)
	mod, err := rt.InstantiateModule(ctx, compiled, cfg)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Instantiation(err)
	}

	host.log.Debug("guest loaded", zap.Int("exports", len(compiled.ExportedFunctions())))
	return &Module{runtime: rt, host: host, mod: mod}, nil
}

// Close releases the module and its runtime.
func (m *Module) Close(ctx context.Context) error {
	return m.runtime.Close(ctx)
}

// Host returns the host module the guest is linked against.
func (m *Module) Host() *Host {
	return m.host
}

// Memory returns the guest's exported memory, or nil.
func (m *Module) Memory() *Memory {
	return WrapMemory(m.mod.Memory())
}

// Allocator returns an allocator backed by the guest's cabi_realloc or
// realloc export.
func (m *Module) Allocator(ctx context.Context) (*Allocator, error) {
	for _, name := range allocatorExports {
		if fn := m.mod.ExportedFunction(name); fn != nil {
			return WrapAllocator(ctx, fn), nil
		}
	}
	return nil, errors.NotFound(errors.PhaseHost, "allocator export", allocatorExports[0])
}

// Func returns the exported function name.
func (m *Module) Func(name string) (api.Function, error) {
	fn := m.mod.ExportedFunction(name)
	if fn == nil {
		return nil, errors.NotFound(errors.PhaseHost, "export", name)
	}
	return fn, nil
}

// Call invokes the exported function name with raw wasm values.
func (m *Module) Call(ctx context.Context, name string, args ...uint64) ([]uint64, error) {
	fn, err := m.Func(name)
	if err != nil {
		return nil, err
	}
	results, err := fn.Call(ctx, args...)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseHost, errors.KindInvalidInput, err, "call "+name)
	}
	return results, nil
}
