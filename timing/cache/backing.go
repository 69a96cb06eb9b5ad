package cache

import (
	"github.com/sarchlab/miscsim/emu"
)

// MemoryBacking wraps emu.Memory as a BackingStore.
type MemoryBacking struct {
	memory *emu.Memory
}

// NewMemoryBacking creates a new MemoryBacking adapter.
func NewMemoryBacking(memory *emu.Memory) *MemoryBacking {
	return &MemoryBacking{memory: memory}
}

// Read fetches n words from the backing memory.
func (m *MemoryBacking) Read(addr uint32, n int) []int32 {
	data := make([]int32, n)
	for i := range data {
		data[i] = m.memory.Read(addr + uint32(i))
	}
	return data
}

// Write stores words to the backing memory.
func (m *MemoryBacking) Write(addr uint32, data []int32) {
	for i, w := range data {
		m.memory.Write(addr+uint32(i), w)
	}
}

// ViewBacking reads through an emu.View. Writes are dropped: the emulator
// has already updated its memory by the time the timing model sees an
// access.
type ViewBacking struct {
	view emu.View
}

// NewViewBacking creates a read-only backing over view.
func NewViewBacking(view emu.View) *ViewBacking {
	return &ViewBacking{view: view}
}

// SetView replaces the view reads go through.
func (b *ViewBacking) SetView(view emu.View) {
	b.view = view
}

// Read fetches n words through the view. It returns zeros when no view is
// set.
func (b *ViewBacking) Read(addr uint32, n int) []int32 {
	data := make([]int32, n)
	if b.view == nil {
		return data
	}
	for i := range data {
		data[i] = b.view.ReadMem(addr + uint32(i))
	}
	return data
}

// Write is a no-op.
func (b *ViewBacking) Write(uint32, []int32) {}
