package emu

import (
	"fmt"

	"github.com/sarchlab/miscsim/insts"
)

// Memory is a flat word-addressed store shared by code, data and stack.
// Addresses wrap modulo the depth.
type Memory struct {
	words []int32
	mask  uint32
}

// NewMemory creates a memory of 2^bits words, each holding insts.IllegalWord.
func NewMemory(bits uint) *Memory {
	m := &Memory{
		words: make([]int32, 1<<bits),
		mask:  uint32(1)<<bits - 1,
	}
	for i := range m.words {
		m.words[i] = insts.IllegalWord
	}
	return m
}

// Depth returns the number of words.
func (m *Memory) Depth() int {
	return len(m.words)
}

// Read reads the word at addr.
func (m *Memory) Read(addr uint32) int32 {
	return m.words[addr&m.mask]
}

// Write writes the word at addr.
func (m *Memory) Write(addr uint32, value int32) {
	m.words[addr&m.mask] = value
}

// Load copies words into memory starting at addr.
func (m *Memory) Load(addr uint32, words []int32) error {
	if uint64(addr&m.mask)+uint64(len(words)) > uint64(len(m.words)) {
		return fmt.Errorf("%w: %d words at %d exceed memory depth %d",
			ErrProgramSize, len(words), addr&m.mask, len(m.words))
	}
	copy(m.words[addr&m.mask:], words)
	return nil
}
