package fluid

import (
	"context"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/wippyai/refprop"
	"github.com/wippyai/refprop/cgolib"
	"github.com/wippyai/refprop/config"
	"github.com/wippyai/refprop/engine"
	"github.com/wippyai/refprop/errors"
	"github.com/wippyai/refprop/gate"
	"github.com/wippyai/refprop/wasmlib"
)

// Options configures a Client.
type Options struct {
	// Gate serializes native calls. Nil selects gate.Default, which every
	// client in the process should share.
	Gate *gate.Gate

	// Stdout and Stderr receive diagnostics from a wasm backend.
	Stdout, Stderr io.Writer
}

// Client is safe for concurrent use. Every method holds the gate for its
// whole native exchange.
type Client struct {
	eng    *engine.Engine
	closer func(context.Context) error

	// units is the unit system code resolved by the last setup. It is only
	// read and written while the gate is held.
	units int32
}

// New wraps an already loaded library. The caller keeps ownership of lib;
// Close does not release it.
func New(lib refprop.Library, opts Options) *Client {
	return &Client{eng: engine.New(lib, opts.Gate)}
}

// Open loads the backend cfg selects and applies its session setup.
func Open(ctx context.Context, cfg *config.Config, opts Options) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	lib, closer, err := openBackend(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}

	c := New(lib, opts)
	c.closer = closer
	if err := c.Setup(cfg); err != nil {
		_ = closer(ctx)
		return nil, err
	}

	Logger().Info("refprop session ready",
		zap.String("backend", string(cfg.Backend)),
		zap.String("fluids", cfg.Fluids),
		zap.String("mixture", cfg.Mixture))
	return c, nil
}

func openBackend(ctx context.Context, cfg *config.Config, opts Options) (refprop.Library, func(context.Context) error, error) {
	switch cfg.Backend {
	case config.BackendWasm:
		wasm, err := os.ReadFile(cfg.Library)
		if err != nil {
			return nil, nil, errors.Wrap(errors.PhaseLoad, errors.KindInitialization, err, "read "+cfg.Library)
		}
		lib, err := wasmlib.Open(ctx, wasm, wasmlib.Options{
			MemoryLimitPages: cfg.MemoryLimitPages,
			FluidRoot:        cfg.FluidRoot,
			Stdout:           opts.Stdout,
			Stderr:           opts.Stderr,
		})
		if err != nil {
			return nil, nil, err
		}
		return lib, lib.Close, nil
	default:
		lib, err := cgolib.Open(cfg.Library)
		if err != nil {
			return nil, nil, err
		}
		return lib, lib.Close, nil
	}
}

// Close releases a backend loaded by Open. It is a no-op for clients built
// with New.
func (c *Client) Close(ctx context.Context) error {
	if c.closer == nil {
		return nil
	}
	closer := c.closer
	c.closer = nil
	return closer(ctx)
}

// Engine returns the engine behind the client, for callers composing their
// own critical sections.
func (c *Client) Engine() *engine.Engine {
	return c.eng
}

// Setup applies cfg's search path, fluid selection and unit system in one
// gate hold, so no calculation observes a partially applied session.
func (c *Client) Setup(cfg *config.Config) error {
	s, err := prepare(cfg)
	if err != nil {
		return err
	}
	return c.eng.Do("setup", func(tx *engine.Tx) error {
		return c.apply(tx, s)
	})
}

// Recover re-applies cfg on a poisoned gate and clears the poison only when
// every step succeeds. On a healthy gate it behaves like Setup.
func (c *Client) Recover(cfg *config.Config) error {
	s, err := prepare(cfg)
	if err != nil {
		return err
	}
	err = c.eng.Recover("recover", func(tx *engine.Tx) error {
		return c.apply(tx, s)
	})
	if err != nil {
		Logger().Warn("session recovery failed", zap.Error(err))
		return err
	}
	Logger().Info("session recovered")
	return nil
}
