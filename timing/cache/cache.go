// Package cache provides word-addressed cache modeling using Akita cache
// components.
package cache

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// Config holds cache configuration parameters. Sizes are in words.
type Config struct {
	// Size in words
	Size int `json:"size"`
	// Associativity (number of ways)
	Associativity int `json:"associativity"`
	// BlockSize in words (cache line size)
	BlockSize int `json:"block_size"`
	// HitLatency in cycles
	HitLatency uint64 `json:"hit_latency"`
	// MissLatency in cycles (includes memory access time)
	MissLatency uint64 `json:"miss_latency"`
}

// DefaultICacheConfig returns the default instruction cache: 1K words,
// 2-way, 8-word lines.
func DefaultICacheConfig() Config {
	return Config{
		Size:          1024,
		Associativity: 2,
		BlockSize:     8,
		HitLatency:    1,
		MissLatency:   10,
	}
}

// DefaultDCacheConfig returns the default data cache: 1K words, 4-way,
// 8-word lines.
func DefaultDCacheConfig() Config {
	return Config{
		Size:          1024,
		Associativity: 4,
		BlockSize:     8,
		HitLatency:    1,
		MissLatency:   10,
	}
}

// AccessResult contains the result of a cache access.
type AccessResult struct {
	// Hit indicates whether the access was a cache hit.
	Hit bool
	// Latency is the number of cycles this access takes.
	Latency uint64
	// Data is the word read (for read accesses).
	Data int32
	// Evicted is true if a valid block was replaced.
	Evicted bool
	// EvictedAddr is the address of the evicted block (if Evicted is true).
	EvictedAddr uint32
}

// Statistics holds cache performance statistics.
type Statistics struct {
	Reads      uint64 `json:"reads"`
	Writes     uint64 `json:"writes"`
	Hits       uint64 `json:"hits"`
	Misses     uint64 `json:"misses"`
	Evictions  uint64 `json:"evictions"`
	Writebacks uint64 `json:"writebacks"`
}

// HitRate returns the fraction of accesses that hit, as a percentage.
func (s Statistics) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// BackingStore is the next level in the memory hierarchy.
type BackingStore interface {
	// Read fetches n words starting at addr.
	Read(addr uint32, n int) []int32
	// Write stores words starting at addr.
	Write(addr uint32, data []int32)
}

// Cache represents a write-back, write-allocate cache.
type Cache struct {
	config Config

	// Akita cache directory for tag/state management
	directory *akitacache.DirectoryImpl

	// Data storage - indexed by (setID * associativity + wayID)
	dataStore [][]int32

	stats Statistics

	// Backing store for fills and writebacks. A nil backing makes the cache
	// track tags only.
	backing BackingStore
}

// New creates a new cache with the given configuration.
func New(config Config, backing BackingStore) *Cache {
	numSets := config.Size / (config.Associativity * config.BlockSize)
	totalBlocks := numSets * config.Associativity

	dataStore := make([][]int32, totalBlocks)
	for i := range dataStore {
		dataStore[i] = make([]int32, config.BlockSize)
	}

	return &Cache{
		config: config,
		directory: akitacache.NewDirectory(
			numSets,
			config.Associativity,
			config.BlockSize,
			akitacache.NewLRUVictimFinder(),
		),
		dataStore: dataStore,
		backing:   backing,
	}
}

// Config returns the cache configuration.
func (c *Cache) Config() Config {
	return c.config
}

// Stats returns cache statistics.
func (c *Cache) Stats() Statistics {
	return c.stats
}

// ResetStats clears cache statistics.
func (c *Cache) ResetStats() {
	c.stats = Statistics{}
}

func (c *Cache) blockIndex(block *akitacache.Block) int {
	return block.SetID*c.config.Associativity + block.WayID
}

func (c *Cache) blockAddr(addr uint32) uint64 {
	bs := uint64(c.config.BlockSize)
	return uint64(addr) / bs * bs
}

func (c *Cache) offset(addr uint32) int {
	return int(addr % uint32(c.config.BlockSize))
}

// Read performs a cache read of the word at addr.
func (c *Cache) Read(addr uint32) AccessResult {
	c.stats.Reads++

	block := c.directory.Lookup(0, c.blockAddr(addr))
	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)

		return AccessResult{
			Hit:     true,
			Latency: c.config.HitLatency,
			Data:    c.dataStore[c.blockIndex(block)][c.offset(addr)],
		}
	}

	c.stats.Misses++
	return c.handleMiss(addr, false, 0)
}

// Write performs a cache write of the word at addr. On a miss the block is
// fetched first.
func (c *Cache) Write(addr uint32, data int32) AccessResult {
	c.stats.Writes++

	block := c.directory.Lookup(0, c.blockAddr(addr))
	if block != nil && block.IsValid {
		c.stats.Hits++
		c.directory.Visit(block)

		c.dataStore[c.blockIndex(block)][c.offset(addr)] = data
		block.IsDirty = true

		return AccessResult{
			Hit:     true,
			Latency: c.config.HitLatency,
		}
	}

	c.stats.Misses++
	return c.handleMiss(addr, true, data)
}

func (c *Cache) handleMiss(addr uint32, isWrite bool, writeData int32) AccessResult {
	result := AccessResult{
		Hit:     false,
		Latency: c.config.MissLatency,
	}

	blockAddr := c.blockAddr(addr)

	victim := c.directory.FindVictim(blockAddr)
	if victim == nil {
		return result
	}

	victimData := c.dataStore[c.blockIndex(victim)]

	if victim.IsValid {
		c.stats.Evictions++
		result.Evicted = true
		result.EvictedAddr = uint32(victim.Tag)

		if victim.IsDirty && c.backing != nil {
			c.stats.Writebacks++
			c.backing.Write(uint32(victim.Tag), victimData)
		}
	}

	if c.backing != nil {
		copy(victimData, c.backing.Read(uint32(blockAddr), c.config.BlockSize))
	} else {
		clear(victimData)
	}

	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = false

	if isWrite {
		victimData[c.offset(addr)] = writeData
		victim.IsDirty = true
	} else {
		result.Data = victimData[c.offset(addr)]
	}

	c.directory.Visit(victim)

	return result
}

// Invalidate marks the line holding addr as invalid.
func (c *Cache) Invalidate(addr uint32) {
	block := c.directory.Lookup(0, c.blockAddr(addr))
	if block != nil && block.IsValid {
		block.IsValid = false
		block.IsDirty = false
	}
}

// Flush writes back all dirty blocks and invalidates them.
func (c *Cache) Flush() {
	for _, set := range c.directory.GetSets() {
		for _, block := range set.Blocks {
			if block.IsValid && block.IsDirty && c.backing != nil {
				c.backing.Write(uint32(block.Tag), c.dataStore[c.blockIndex(block)])
				c.stats.Writebacks++
			}
			block.IsValid = false
			block.IsDirty = false
		}
	}
}

// Reset invalidates all cache lines without writeback.
func (c *Cache) Reset() {
	c.directory.Reset()
	c.stats = Statistics{}
}
