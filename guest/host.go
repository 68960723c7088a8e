package guest

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/wchar/errors"
	"github.com/wippyai/wchar/mbconv"
)

// DefaultModuleName is the import module name guests link against.
const DefaultModuleName = "wchar"

// Host exposes the conversion engine to WebAssembly guests with the C
// calling convention of <wchar.h> and <wctype.h>.
//
// Calls that pass a null mbstate_t pointer share one internal state per
// function, as C requires. Those states are guarded by a mutex; a state in
// guest memory is owned by the guest. Failing calls record a C errno value
// on the Host, readable by guests through the errno import.
type Host struct {
	name  string
	log   *zap.Logger
	errno atomic.Uint32

	mu       sync.Mutex
	mbrtowc  mbconv.State
	mbrlen   mbconv.State
	mbsnrtow mbconv.State
}

// Option configures a Host.
type Option func(*Host)

// WithModuleName sets the import module name. Defaults to "wchar".
func WithModuleName(name string) Option {
	return func(h *Host) {
		h.name = name
	}
}

// WithLogger sets the logger used for rejected calls.
func WithLogger(l *zap.Logger) Option {
	return func(h *Host) {
		h.log = l
	}
}

// NewHost creates a Host.
func NewHost(opts ...Option) *Host {
	h := &Host{name: DefaultModuleName}
	for _, opt := range opts {
		opt(h)
	}
	if h.log == nil {
		h.log = Logger()
	}
	h.log = h.log.With(zap.String("module", h.name))
	return h
}

// Name returns the import module name.
func (h *Host) Name() string {
	return h.name
}

// Reset returns the internal conversion states to idle and clears errno.
func (h *Host) Reset() {
	h.errno.Store(0)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.mbrtowc.Reset()
	h.mbrlen.Reset()
	h.mbsnrtow.Reset()
}

// Exports lists the function names the host module provides.
func (h *Host) Exports() []string {
	funcs := h.functions()
	names := make([]string, len(funcs))
	for i, f := range funcs {
		names[i] = f.name
	}
	return names
}

// Instantiate registers the host module in r. It must be called before
// instantiating guests that import it.
func (h *Host) Instantiate(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	builder := r.NewHostModuleBuilder(h.name)
	for _, f := range h.functions() {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(f.fn, f.params, f.results).
			WithParameterNames(f.paramNames...).
			Export(f.name)
	}

	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, errors.Registration(errors.PhaseHost, h.name, "*", err)
	}
	h.log.Debug("host module instantiated", zap.Int("functions", len(h.functions())))
	return mod, nil
}

type hostFunc struct {
	name       string
	fn         api.GoModuleFunc
	paramNames []string
	params     []api.ValueType
	results    []api.ValueType
}

var (
	i32 = api.ValueTypeI32
	i64 = api.ValueTypeI64
	f64 = api.ValueTypeF64
)

func sig(params ...api.ValueType) []api.ValueType { return params }

func (h *Host) functions() []hostFunc {
	return []hostFunc{
		{"mbrtowc", h.mbrtowcFunc, []string{"pwc", "s", "n", "ps"}, sig(i32, i32, i32, i32), sig(i32)},
		{"mbrlen", h.mbrlenFunc, []string{"s", "n", "ps"}, sig(i32, i32, i32), sig(i32)},
		{"mbsinit", h.mbsinitFunc, []string{"ps"}, sig(i32), sig(i32)},
		{"wcrtomb", h.wcrtombFunc, []string{"s", "wc", "ps"}, sig(i32, i32, i32), sig(i32)},
		{"mbsnrtowcs", h.mbsnrtowcsFunc, []string{"dst", "src", "nms", "len", "ps"}, sig(i32, i32, i32, i32, i32), sig(i32)},
		{"wcsnrtombs", h.wcsnrtombsFunc, []string{"dst", "src", "nwc", "len", "ps"}, sig(i32, i32, i32, i32, i32), sig(i32)},
		{"btowc", h.btowcFunc, []string{"c"}, sig(i32), sig(i32)},
		{"wctob", h.wctobFunc, []string{"wc"}, sig(i32), sig(i32)},
		{"wcstod", h.wcstodFunc, []string{"nptr", "endptr", "errp"}, sig(i32, i32, i32), sig(f64)},
		{"wcstol", h.wcstolFunc, []string{"nptr", "endptr", "base", "errp"}, sig(i32, i32, i32, i32), sig(i64)},
		{"wcstoul", h.wcstoulFunc, []string{"nptr", "endptr", "base", "errp"}, sig(i32, i32, i32, i32), sig(i64)},
		{"wctype", h.wctypeFunc, []string{"name"}, sig(i32), sig(i32)},
		{"iswctype", h.iswctypeFunc, []string{"wc", "desc"}, sig(i32, i32), sig(i32)},
		{"towlower", h.towlowerFunc, []string{"wc"}, sig(i32), sig(i32)},
		{"towupper", h.towupperFunc, []string{"wc"}, sig(i32), sig(i32)},
		{"wcwidth", h.wcwidthFunc, []string{"wc"}, sig(i32), sig(i32)},
		{"errno", h.errnoFunc, nil, sig(), sig(i32)},
		{"set_errno", h.setErrnoFunc, []string{"errno"}, sig(i32), sig()},
	}
}

// memoryOf returns the calling module's memory. A guest without memory
// cannot pass pointers, so this traps.
func memoryOf(mod api.Module) *Memory {
	mem := mod.Memory()
	if mem == nil {
		panic(errors.New(errors.PhaseHost, errors.KindNotFound).
			Detail("module %q exports no memory", mod.Name()).
			Build())
	}
	return WrapMemory(mem)
}

func u32(v uint64) uint32 { return api.DecodeU32(v) }

func (h *Host) mbrtowcFunc(_ context.Context, mod api.Module, stack []uint64) {
	stack[0] = api.EncodeU32(h.Mbrtowc(memoryOf(mod), u32(stack[0]), u32(stack[1]), u32(stack[2]), u32(stack[3])))
}

func (h *Host) mbrlenFunc(_ context.Context, mod api.Module, stack []uint64) {
	stack[0] = api.EncodeU32(h.Mbrlen(memoryOf(mod), u32(stack[0]), u32(stack[1]), u32(stack[2])))
}

func (h *Host) mbsinitFunc(_ context.Context, mod api.Module, stack []uint64) {
	stack[0] = api.EncodeU32(h.Mbsinit(memoryOf(mod), u32(stack[0])))
}

func (h *Host) wcrtombFunc(_ context.Context, mod api.Module, stack []uint64) {
	stack[0] = api.EncodeU32(h.Wcrtomb(memoryOf(mod), u32(stack[0]), u32(stack[1]), u32(stack[2])))
}

func (h *Host) mbsnrtowcsFunc(_ context.Context, mod api.Module, stack []uint64) {
	stack[0] = api.EncodeU32(h.Mbsnrtowcs(memoryOf(mod), u32(stack[0]), u32(stack[1]), u32(stack[2]), u32(stack[3]), u32(stack[4])))
}

func (h *Host) wcsnrtombsFunc(_ context.Context, mod api.Module, stack []uint64) {
	stack[0] = api.EncodeU32(h.Wcsnrtombs(memoryOf(mod), u32(stack[0]), u32(stack[1]), u32(stack[2]), u32(stack[3]), u32(stack[4])))
}

func (h *Host) btowcFunc(_ context.Context, _ api.Module, stack []uint64) {
	stack[0] = api.EncodeU32(Btowc(u32(stack[0])))
}

func (h *Host) wctobFunc(_ context.Context, _ api.Module, stack []uint64) {
	stack[0] = api.EncodeU32(Wctob(u32(stack[0])))
}

func (h *Host) wcstodFunc(_ context.Context, mod api.Module, stack []uint64) {
	stack[0] = api.EncodeF64(h.Wcstod(memoryOf(mod), u32(stack[0]), u32(stack[1]), u32(stack[2])))
}

func (h *Host) wcstolFunc(_ context.Context, mod api.Module, stack []uint64) {
	v := h.Wcstol(memoryOf(mod), u32(stack[0]), u32(stack[1]), api.DecodeI32(stack[2]), u32(stack[3]))
	stack[0] = api.EncodeI64(v)
}

func (h *Host) wcstoulFunc(_ context.Context, mod api.Module, stack []uint64) {
	stack[0] = h.Wcstoul(memoryOf(mod), u32(stack[0]), u32(stack[1]), api.DecodeI32(stack[2]), u32(stack[3]))
}

func (h *Host) wctypeFunc(_ context.Context, mod api.Module, stack []uint64) {
	stack[0] = api.EncodeU32(h.Wctype(memoryOf(mod), u32(stack[0])))
}

func (h *Host) iswctypeFunc(_ context.Context, _ api.Module, stack []uint64) {
	stack[0] = api.EncodeU32(Iswctype(u32(stack[0]), u32(stack[1])))
}

func (h *Host) towlowerFunc(_ context.Context, _ api.Module, stack []uint64) {
	stack[0] = api.EncodeU32(Towlower(u32(stack[0])))
}

func (h *Host) towupperFunc(_ context.Context, _ api.Module, stack []uint64) {
	stack[0] = api.EncodeU32(Towupper(u32(stack[0])))
}

func (h *Host) wcwidthFunc(_ context.Context, _ api.Module, stack []uint64) {
	stack[0] = api.EncodeU32(Wcwidth(u32(stack[0])))
}

func (h *Host) errnoFunc(_ context.Context, _ api.Module, stack []uint64) {
	stack[0] = api.EncodeU32(h.Errno())
}

func (h *Host) setErrnoFunc(_ context.Context, _ api.Module, stack []uint64) {
	h.SetErrno(u32(stack[0]))
}
