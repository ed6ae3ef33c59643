package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/refprop"
	"github.com/wippyai/refprop/errors"
	"github.com/wippyai/refprop/gate"
)

// Engine binds a native library to the gate that protects it.
type Engine struct {
	lib  refprop.Library
	gate *gate.Gate
}

// New creates an engine for lib. A nil gate selects gate.Default.
func New(lib refprop.Library, g *gate.Gate) *Engine {
	if g == nil {
		g = gate.Default()
	}
	return &Engine{lib: lib, gate: g}
}

// Gate returns the gate guarding the engine's library.
func (e *Engine) Gate() *gate.Gate {
	return e.gate
}

// Do runs fn inside one critical section.
func (e *Engine) Do(op string, fn func(tx *Tx) error) error {
	return e.gate.Do(op, func() error {
		tx := &Tx{lib: e.lib}
		defer tx.close()
		return fn(tx)
	})
}

// Recover runs fn inside one critical section even when the gate is
// poisoned, clearing the poison if fn succeeds.
func (e *Engine) Recover(op string, fn func(tx *Tx) error) error {
	return e.gate.Recover(op, func() error {
		tx := &Tx{lib: e.lib}
		defer tx.close()
		return fn(tx)
	})
}

// Call runs a single entry point in its own critical section.
func (e *Engine) Call(entry refprop.Entry, call CallFunc, unpack func() error) error {
	return e.Do(string(entry), func(tx *Tx) error {
		return tx.Call(entry, call, unpack)
	})
}

// Status receives the error code and message buffer of a native call.
type Status struct {
	Code int32
	Msg  refprop.ErrBuf
}

// CallFunc performs one native invocation, writing its code into st when the
// entry point reports one.
type CallFunc func(lib refprop.Library, st *Status)

// Tx is the handle for native calls inside a critical section. It is only
// valid until the callback that received it returns.
type Tx struct {
	lib    refprop.Library
	closed bool
}

func (tx *Tx) close() {
	tx.closed = true
}

// Call invokes one entry point, translates a nonzero code and then runs
// unpack, which may be nil.
func (tx *Tx) Call(entry refprop.Entry, call CallFunc, unpack func() error) error {
	if tx.closed {
		panic("engine: Tx used after its critical section ended")
	}

	var st Status
	tx.invoke(entry, func(lib refprop.Library) { call(lib, &st) })

	if err := tx.translate(entry, &st); err != nil {
		return err
	}
	if unpack != nil {
		return unpack()
	}
	return nil
}

// Setup is Call for session setup entry points: native failures are
// reported as initialization errors.
func (tx *Tx) Setup(entry refprop.Entry, call CallFunc, unpack func() error) error {
	err := tx.Call(entry, call, unpack)
	if errors.KindOf(err) == errors.KindCalculation {
		return errors.Reclassify(err, errors.PhaseSetup, errors.KindInitialization)
	}
	return err
}

func (tx *Tx) invoke(entry refprop.Entry, fn func(lib refprop.Library)) {
	start := time.Now()
	fn(tx.lib)
	took := time.Since(start)

	label := string(entry)
	nativeCalls.WithLabelValues(label).Inc()
	callSeconds.WithLabelValues(label).Observe(took.Seconds())
	if ce := Logger().Check(zap.DebugLevel, "native call"); ce != nil {
		ce.Write(zap.String("entry", label), zap.Duration("took", took))
	}
}
