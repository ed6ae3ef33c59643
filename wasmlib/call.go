package wasmlib

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/wippyai/refprop"
	"github.com/wippyai/refprop/errors"
)

// scratchSize is the guest region reserved for call parameters. The largest
// call, SETFLUIDSdll, needs a little over 10000 bytes.
const scratchSize = 32 << 10

// scratch bump-allocates parameter slots inside the reserved guest region.
// It is reset at the start of every call; calls are serialized by the gate.
type scratch struct {
	base, size, off uint32
}

func (s *scratch) reset() {
	s.off = 0
}

func (s *scratch) alloc(n, align uint32) (uint32, error) {
	off := (s.off + align - 1) &^ (align - 1)
	if off+n > s.size {
		return 0, fmt.Errorf("scratch exhausted: need %d bytes at %d of %d", n, off, s.size)
	}
	s.off = off + n
	return s.base + off, nil
}

// call lays out one entry point's positional parameters in guest memory.
// Every parameter is passed by reference. Text parameters contribute a
// trailing declared length, appended after all other parameters in order.
type call struct {
	lib    *Library
	entry  string
	params []uint64
	lens   []uint64
	backs  []func() error
	err    error
}

func (l *Library) newCall(entry refprop.Entry) *call {
	l.scratch.reset()
	return &call{lib: l, entry: string(entry)}
}

// reserve claims n bytes and records their address as the next parameter.
func (c *call) reserve(n, align uint32) (uint32, bool) {
	if c.err != nil {
		return 0, false
	}
	ptr, err := c.lib.scratch.alloc(n, align)
	if err != nil {
		c.err = err
		return 0, false
	}
	c.params = append(c.params, uint64(ptr))
	return ptr, true
}

// slot reserves n bytes, writes data into them and queues a read-back.
func (c *call) slot(data []byte, align uint32, back func([]byte)) {
	ptr, ok := c.reserve(uint32(len(data)), align)
	if !ok {
		return
	}
	if c.err = c.lib.mem.Write(ptr, data); c.err != nil {
		return
	}
	n := uint32(len(data))
	c.backs = append(c.backs, func() error {
		buf, err := c.lib.mem.Read(ptr, n)
		if err != nil {
			return err
		}
		back(buf)
		return nil
	})
}

func (c *call) f64(p *float64) {
	ptr, ok := c.reserve(8, 8)
	if !ok {
		return
	}
	if c.err = c.lib.mem.WriteU64(ptr, math.Float64bits(*p)); c.err != nil {
		return
	}
	c.backs = append(c.backs, func() error {
		v, err := c.lib.mem.ReadU64(ptr)
		if err != nil {
			return err
		}
		*p = math.Float64frombits(v)
		return nil
	})
}

func (c *call) i32(p *int32) {
	ptr, ok := c.reserve(4, 4)
	if !ok {
		return
	}
	if c.err = c.lib.mem.WriteU32(ptr, uint32(*p)); c.err != nil {
		return
	}
	c.backs = append(c.backs, func() error {
		v, err := c.lib.mem.ReadU32(ptr)
		if err != nil {
			return err
		}
		*p = int32(v)
		return nil
	})
}

func (c *call) f64s(p []float64) {
	b := make([]byte, 8*len(p))
	for i, v := range p {
		binary.LittleEndian.PutUint64(b[8*i:], math.Float64bits(v))
	}
	c.slot(b, 8, func(buf []byte) {
		for i := range p {
			p[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[8*i:]))
		}
	})
}

func (c *call) i32s(p []int32) {
	b := make([]byte, 4*len(p))
	for i, v := range p {
		binary.LittleEndian.PutUint32(b[4*i:], uint32(v))
	}
	c.slot(b, 4, func(buf []byte) {
		for i := range p {
			p[i] = int32(binary.LittleEndian.Uint32(buf[4*i:]))
		}
	})
}

func (c *call) text(p []byte) {
	c.slot(p, 1, func(buf []byte) { copy(p, buf) })
	c.lens = append(c.lens, uint64(len(p)))
}

// invoke calls the export and copies every parameter back. A failure at
// this level means the guest is in an unknown state, so it panics.
func (c *call) invoke() {
	if c.err != nil {
		panic(errors.Unknown(errors.PhaseMarshal, "lay out parameters for "+c.entry, c.err))
	}

	fn := c.lib.funcs[c.entry]
	if fn == nil {
		panic(errors.New(errors.PhaseCall, errors.KindInitialization).
			Entry(c.entry).
			Detail("module does not export %s", c.entry).
			Build())
	}

	params := append(c.params, c.lens...)
	if _, err := fn.Call(c.lib.ctx, params...); err != nil {
		panic(errors.Unknown(errors.PhaseCall, "guest trapped in "+c.entry, err))
	}

	for _, back := range c.backs {
		if err := back(); err != nil {
			panic(errors.Unknown(errors.PhaseMarshal, "read results of "+c.entry, err))
		}
	}
}
