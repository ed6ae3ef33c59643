package wasmlib

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"
)

// Memory is the guest's linear memory.
type Memory interface {
	Read(offset, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	ReadU32(offset uint32) (uint32, error)
	ReadU64(offset uint32) (uint64, error)
	WriteU32(offset uint32, value uint32) error
	WriteU64(offset uint32, value uint64) error
	Size() uint32
}

// Allocator allocates guest memory.
type Allocator interface {
	Alloc(size uint32) (uint32, error)
	Free(ptr uint32)
}

// function is a callable guest export. api.Function satisfies it.
type function interface {
	Call(ctx context.Context, params ...uint64) ([]uint64, error)
}

// wazeroMemory wraps wazero memory to implement Memory.
type wazeroMemory struct {
	mem api.Memory
}

func (m *wazeroMemory) Read(offset, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, fmt.Errorf("read out of bounds: offset=%d, length=%d", offset, length)
	}
	return data, nil
}

func (m *wazeroMemory) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return fmt.Errorf("write out of bounds: offset=%d, length=%d", offset, len(data))
	}
	return nil
}

func (m *wazeroMemory) ReadU32(offset uint32) (uint32, error) {
	val, ok := m.mem.ReadUint32Le(offset)
	if !ok {
		return 0, fmt.Errorf("read out of bounds: offset=%d", offset)
	}
	return val, nil
}

func (m *wazeroMemory) ReadU64(offset uint32) (uint64, error) {
	val, ok := m.mem.ReadUint64Le(offset)
	if !ok {
		return 0, fmt.Errorf("read out of bounds: offset=%d", offset)
	}
	return val, nil
}

func (m *wazeroMemory) WriteU32(offset uint32, value uint32) error {
	if !m.mem.WriteUint32Le(offset, value) {
		return fmt.Errorf("write out of bounds: offset=%d", offset)
	}
	return nil
}

func (m *wazeroMemory) WriteU64(offset uint32, value uint64) error {
	if !m.mem.WriteUint64Le(offset, value) {
		return fmt.Errorf("write out of bounds: offset=%d", offset)
	}
	return nil
}

func (m *wazeroMemory) Size() uint32 {
	if m.mem == nil {
		return 0
	}
	return m.mem.Size()
}

// mallocAllocator allocates through the guest's exported malloc and free.
type mallocAllocator struct {
	ctx    context.Context
	malloc function
	free   function
}

func (a *mallocAllocator) Alloc(size uint32) (uint32, error) {
	res, err := a.malloc.Call(a.ctx, uint64(size))
	if err != nil {
		return 0, fmt.Errorf("malloc(%d): %w", size, err)
	}
	if len(res) == 0 || uint32(res[0]) == 0 {
		return 0, fmt.Errorf("malloc(%d): out of guest memory", size)
	}
	return uint32(res[0]), nil
}

func (a *mallocAllocator) Free(ptr uint32) {
	if a.free == nil || ptr == 0 {
		return
	}
	if _, err := a.free.Call(a.ctx, uint64(ptr)); err != nil {
		Logger().Warn("free failed", zap.Uint32("ptr", ptr), zap.Error(err))
	}
}

var (
	_ Memory    = (*wazeroMemory)(nil)
	_ Allocator = (*mallocAllocator)(nil)
)
