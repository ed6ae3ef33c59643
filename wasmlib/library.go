package wasmlib

import (
	"context"
	"io"
	"strings"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	"github.com/wippyai/refprop"
	"github.com/wippyai/refprop/errors"
)

// Options configures module loading.
type Options struct {
	// MemoryLimitPages caps guest memory in 64KB pages. 0 keeps the wazero
	// default.
	MemoryLimitPages uint32

	// FluidRoot is the host directory mounted as the guest's root, so the
	// search path given to SETPATHdll resolves inside it. Empty mounts
	// nothing.
	FluidRoot string

	// Stdout and Stderr receive guest diagnostics. Nil discards them.
	Stdout, Stderr io.Writer
}

// Library implements refprop.Library on a WebAssembly build of the native
// library. Like the native library it is not safe for concurrent use.
type Library struct {
	ctx     context.Context
	runtime wazero.Runtime // nil when built over a foreign memory
	mem     Memory
	alloc   Allocator
	funcs   map[string]function
	scratch scratch
}

// Open compiles and instantiates wasm and binds every entry point.
func Open(ctx context.Context, wasm []byte, opts Options) (*Library, error) {
	rtCfg := wazero.NewRuntimeConfig()
	if opts.MemoryLimitPages > 0 {
		rtCfg = rtCfg.WithMemoryLimitPages(opts.MemoryLimitPages)
	}
	rt := wazero.NewRuntimeWithConfig(ctx, rtCfg)

	lib, err := instantiate(ctx, rt, wasm, opts)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, err
	}
	lib.runtime = rt
	return lib, nil
}

func instantiate(ctx context.Context, rt wazero.Runtime, wasm []byte, opts Options) (*Library, error) {
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInitialization, err, "instantiate WASI")
	}

	compiled, err := rt.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInitialization, err, "compile module")
	}

	modCfg := wazero.NewModuleConfig().
		WithName("refprop").
		WithStartFunctions("_initialize").
		WithStdout(orDiscard(opts.Stdout)).
		WithStderr(orDiscard(opts.Stderr))
	if opts.FluidRoot != "" {
		modCfg = modCfg.WithFSConfig(wazero.NewFSConfig().WithReadOnlyDirMount(opts.FluidRoot, "/"))
	}

	mod, err := rt.InstantiateModule(ctx, compiled, modCfg)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInitialization, err, "instantiate module")
	}
	if mod.Memory() == nil {
		return nil, errors.New(errors.PhaseLoad, errors.KindInitialization).
			Detail("module exports no memory").
			Build()
	}

	lookup := func(name string) function {
		if fn := mod.ExportedFunction(name); fn != nil {
			return fn
		}
		return nil
	}

	malloc, free := lookupAny(lookup, "malloc", "_malloc"), lookupAny(lookup, "free", "_free")
	if malloc == nil {
		return nil, errors.New(errors.PhaseLoad, errors.KindInitialization).
			Detail("module exports no malloc").
			Build()
	}

	callCtx := context.WithoutCancel(ctx)
	alloc := &mallocAllocator{ctx: callCtx, malloc: malloc, free: free}
	lib, err := bind(callCtx, &wazeroMemory{mem: mod.Memory()}, alloc, lookup)
	if err != nil {
		return nil, err
	}

	Logger().Info("native module loaded",
		zap.Int("exports", len(lib.funcs)),
		zap.Uint32("memory_bytes", lib.mem.Size()))
	return lib, nil
}

// bind resolves every entry point and reserves the scratch region.
func bind(ctx context.Context, mem Memory, alloc Allocator, lookup func(string) function) (*Library, error) {
	funcs := make(map[string]function)
	var missing []string
	for _, e := range refprop.Entries() {
		name := string(e)
		fn := lookupAny(lookup, e.ExportNames()...)
		if fn == nil {
			missing = append(missing, name)
			continue
		}
		funcs[name] = fn
	}
	if len(missing) > 0 {
		return nil, errors.New(errors.PhaseLoad, errors.KindInitialization).
			Value(missing).
			Detail("module is missing %d entry points: %s", len(missing), strings.Join(missing, ", ")).
			Build()
	}

	base, err := alloc.Alloc(scratchSize)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInitialization, err, "reserve parameter region")
	}

	return &Library{
		ctx:     ctx,
		mem:     mem,
		alloc:   alloc,
		funcs:   funcs,
		scratch: scratch{base: base, size: scratchSize},
	}, nil
}

func lookupAny(lookup func(string) function, names ...string) function {
	for _, n := range names {
		if fn := lookup(n); fn != nil {
			return fn
		}
	}
	return nil
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

// Close releases the parameter region and the runtime.
func (l *Library) Close(ctx context.Context) error {
	if l.alloc != nil {
		l.alloc.Free(l.scratch.base)
		l.alloc = nil
	}
	if l.runtime == nil {
		return nil
	}
	rt := l.runtime
	l.runtime = nil
	return rt.Close(ctx)
}

var _ refprop.Library = (*Library)(nil)
