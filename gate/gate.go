package gate

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/refprop/errors"
)

// Gate serializes access to the native library.
type Gate struct {
	mu       sync.Mutex
	cause    error // set while poisoned; guarded by mu
	poisoned atomic.Bool
}

// New creates an independent gate.
func New() *Gate {
	return &Gate{}
}

var defaultGate = sync.OnceValue(New)

// Default returns the process-wide gate.
func Default() *Gate {
	return defaultGate()
}

// Poisoned reports whether the gate is poisoned. It does not block.
func (g *Gate) Poisoned() bool {
	return g.poisoned.Load()
}

// Guard is exclusive access obtained from Acquire.
type Guard struct {
	gate     *Gate
	op       string
	acquired time.Time
	released bool
}

// Acquire blocks until the gate is free. It fails with a poisoned-gate error
// if an earlier holder terminated abnormally.
func (g *Gate) Acquire(op string) (*Guard, error) {
	gd := g.lock(op)
	if g.cause != nil {
		cause := g.cause
		gd.Release()
		return nil, errors.PoisonedGate(op, cause)
	}
	return gd, nil
}

func (g *Gate) lock(op string) *Guard {
	start := time.Now()
	g.mu.Lock()
	now := time.Now()
	waitSeconds.Observe(now.Sub(start).Seconds())
	return &Guard{gate: g, op: op, acquired: now}
}

// Release gives up the gate. Releasing twice is a no-op.
func (gd *Guard) Release() {
	if gd == nil || gd.released {
		return
	}
	gd.released = true
	holdSeconds.Observe(time.Since(gd.acquired).Seconds())
	gd.gate.mu.Unlock()
}

// Poison marks the session as corrupt. The caller still holds the guard and
// must release it.
func (gd *Guard) Poison(cause error) {
	g := gd.gate
	if g.cause == nil {
		poisonedGates.Inc()
	}
	g.cause = cause
	g.poisoned.Store(true)
	Logger().Error("native call gate poisoned",
		zap.String("op", gd.op),
		zap.Error(cause))
}

// Do runs fn while holding the gate. A panic in fn poisons the gate and is
// returned as a poisoned-gate error instead of propagating.
func (g *Gate) Do(op string, fn func() error) error {
	gd, err := g.Acquire(op)
	if err != nil {
		return err
	}
	return gd.run(fn, false)
}

// Recover runs fn while holding the gate whether or not it is poisoned, and
// clears the poison when fn succeeds. fn is expected to re-run session setup.
func (g *Gate) Recover(op string, fn func() error) error {
	return g.lock(op).run(fn, true)
}

func (gd *Guard) run(fn func() error, clearOnSuccess bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			cause := panicCause(r)
			gd.Poison(cause)
			err = errors.PoisonedGate(gd.op, cause)
		}
		gd.Release()
	}()

	err = fn()
	if err == nil && clearOnSuccess {
		gd.clear()
	}
	return err
}

func (gd *Guard) clear() {
	g := gd.gate
	if g.cause == nil {
		return
	}
	g.cause = nil
	g.poisoned.Store(false)
	poisonedGates.Dec()
	Logger().Info("native call gate recovered", zap.String("op", gd.op))
}

func panicCause(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", r)
}
