// Package config loads backend selection and session setup from a TOML file
// and the environment.
//
// A minimal file:
//
//	backend = "wasm"
//	library = "/opt/refprop/refprop.wasm"
//	path    = "/"
//	fluids  = "NITROGEN;OXYGEN;ARGON"
//	units   = "MOLAR SI"
//
// RPPREFIX, REFPROP_BACKEND and REFPROP_LIBRARY override the file.
package config

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/wippyai/refprop/errors"
)

// Backend selects the refprop.Library implementation.
type Backend string

const (
	BackendCgo  Backend = "cgo"  // shared library through cgo
	BackendWasm Backend = "wasm" // WebAssembly build through wazero
)

// Environment variables read by ApplyEnv.
const (
	EnvPrefix  = "RPPREFIX"
	EnvBackend = "REFPROP_BACKEND"
	EnvLibrary = "REFPROP_LIBRARY"
	EnvPages   = "REFPROP_MEMORY_LIMIT_PAGES"
)

// Config describes how to load the native library and prepare its session.
type Config struct {
	Backend Backend `toml:"backend"`

	// Library is the .so/.dll for the cgo backend or the .wasm module for
	// the wasm backend.
	Library string `toml:"library"`

	// Path is the fluid file search path. Empty falls back to RPPREFIX.
	Path string `toml:"path"`

	// Fluids and Mixture are mutually exclusive.
	Fluids  string `toml:"fluids"`
	Mixture string `toml:"mixture"`

	// Units names a unit system resolved through GETENUMdll.
	Units string `toml:"units"`

	// FluidRoot is the host directory mounted into the wasm guest.
	FluidRoot string `toml:"fluid_root"`

	MemoryLimitPages uint32 `toml:"memory_limit_pages"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{Backend: BackendCgo}
}

// Load reads path, applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "open "+path)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode parses TOML from r over the defaults. Unknown keys are rejected.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Value(keys).
			Detail("unknown config keys: %s", strings.Join(keys, ", ")).
			Build()
	}
	return cfg, nil
}

// FromEnv returns the defaults overridden by the process environment.
func FromEnv() (*Config, error) {
	cfg := Default()
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment. lookup has the signature
// of os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPrefix); ok && v != "" {
		c.Path = v
	}
	if v, ok := lookup(EnvBackend); ok && v != "" {
		c.Backend = Backend(strings.ToLower(v))
	}
	if v, ok := lookup(EnvLibrary); ok && v != "" {
		c.Library = v
	}
	if v, ok := lookup(EnvPages); ok && v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, EnvPages)
		}
		c.MemoryLimitPages = uint32(n)
	}
	return nil
}

// Validate checks the combination of fields.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendCgo:
	case BackendWasm:
		if c.Library == "" {
			return errors.InvalidInput(errors.PhaseConfig, "wasm backend requires library")
		}
	default:
		return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
			Value(c.Backend).
			Detail("unknown backend %q, want %q or %q", c.Backend, BackendCgo, BackendWasm).
			Build()
	}
	if c.Fluids != "" && c.Mixture != "" {
		return errors.InvalidInput(errors.PhaseConfig, "fluids and mixture are mutually exclusive")
	}
	return nil
}
