package scene

import (
	"sync/atomic"
)

// Buffer is a float32 vertex attribute, laid out ItemSize floats per vertex.
type Buffer struct {
	Name        string
	ItemSize    int
	Data        []float32
	NeedsUpdate bool
}

// Count is the number of vertices in the buffer.
func (b *Buffer) Count() int {
	if b == nil || b.ItemSize == 0 {
		return 0
	}
	return len(b.Data) / b.ItemSize
}

func (b *Buffer) Set3(i int, x, y, z float32) {
	o := i * 3
	b.Data[o], b.Data[o+1], b.Data[o+2] = x, y, z
	b.NeedsUpdate = true
}

func (b *Buffer) Get3(i int) (x, y, z float32) {
	o := i * 3
	return b.Data[o], b.Data[o+1], b.Data[o+2]
}

// SetColor writes a colour into a 3-wide buffer.
func (b *Buffer) SetColor(i int, c Color) {
	b.Set3(i, c.R, c.G, c.B)
}

// Resources tracks what a scene allocates so teardown can release it.
type Resources struct {
	buffers  []*Buffer
	meshes   []*Mesh
	released atomic.Int64
	disposed atomic.Bool
}

// NewBuffer allocates and tracks a buffer.
func (r *Resources) NewBuffer(name string, itemSize int, data []float32) *Buffer {
	b := &Buffer{Name: name, ItemSize: itemSize, Data: data}
	r.buffers = append(r.buffers, b)
	return b
}

// Track registers a mesh for release.
func (r *Resources) Track(m *Mesh) *Mesh {
	r.meshes = append(r.meshes, m)
	return m
}

// Live counts tracked buffers and meshes not yet released.
func (r *Resources) Live() int {
	if r.disposed.Load() {
		return 0
	}
	return len(r.buffers) + len(r.meshes)
}

// Released reports how many objects Dispose freed.
func (r *Resources) Released() int64 { return r.released.Load() }

// Disposed reports whether Dispose has run.
func (r *Resources) Disposed() bool { return r.disposed.Load() }

// Dispose drops every tracked buffer and mesh. Later calls do nothing.
func (r *Resources) Dispose() {
	if !r.disposed.CompareAndSwap(false, true) {
		return
	}
	var n int64
	for _, b := range r.buffers {
		b.Data = nil
		n++
	}
	for _, m := range r.meshes {
		m.disposed = true
		n++
	}
	r.buffers = nil
	r.meshes = nil
	r.released.Store(n)
}
