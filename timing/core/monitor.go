// Package core provides the MISC timing model. A Monitor attaches to an
// emulator as its PerfMon and charges cycles for every executed instruction
// from a latency table, instruction and data caches, and a branch
// predictor.
package core

import (
	"sync"

	"github.com/sarchlab/miscsim/emu"
	"github.com/sarchlab/miscsim/insts"
	"github.com/sarchlab/miscsim/timing/branch"
	"github.com/sarchlab/miscsim/timing/cache"
	"github.com/sarchlab/miscsim/timing/latency"
)

// Stats holds performance statistics of a timed run.
type Stats struct {
	// Instructions is the number of instructions retired.
	Instructions uint64 `json:"instructions"`
	// Cycles is the total number of cycles charged.
	Cycles uint64 `json:"cycles"`
	// FetchStalls is the number of cycles lost to instruction cache misses.
	FetchStalls uint64 `json:"fetch_stalls"`
	// MemoryStalls is the number of cycles lost to data cache misses.
	MemoryStalls uint64 `json:"memory_stalls"`
	// BranchStalls is the number of cycles lost to mispredictions.
	BranchStalls uint64 `json:"branch_stalls"`
	// Branches counts br, call and retn; Conditional counts those whose
	// outcome depends on the flags.
	Branches    uint64 `json:"branches"`
	Conditional uint64 `json:"conditional"`
	// Mispredictions counts branches whose direction or target was wrong.
	Mispredictions uint64 `json:"mispredictions"`

	ICache    cache.Statistics `json:"icache"`
	DCache    cache.Statistics `json:"dcache"`
	Predictor branch.Stats     `json:"predictor"`
}

// CPI returns cycles per instruction.
func (s Stats) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// Monitor is an emu.PerfMon that models timing. It is safe for concurrent
// use, though sharing one between emulators mixes their cache and predictor
// state.
type Monitor struct {
	mu sync.Mutex

	table     *latency.Table
	icache    *cache.Cache
	dcache    *cache.Cache
	predictor *branch.Predictor
	backing   *cache.ViewBacking

	icacheConfig    *cache.Config
	dcacheConfig    *cache.Config
	predictorConfig branch.Config

	stats Stats
}

// MonitorOption is a functional option for configuring the Monitor.
type MonitorOption func(*Monitor)

// WithLatencyTable sets the latency table.
func WithLatencyTable(table *latency.Table) MonitorOption {
	return func(m *Monitor) {
		m.table = table
	}
}

// WithICache sets the instruction cache geometry.
func WithICache(config cache.Config) MonitorOption {
	return func(m *Monitor) {
		m.icacheConfig = &config
	}
}

// WithDCache sets the data cache geometry.
func WithDCache(config cache.Config) MonitorOption {
	return func(m *Monitor) {
		m.dcacheConfig = &config
	}
}

// WithoutCaches models every fetch and data access as a hit.
func WithoutCaches() MonitorOption {
	return func(m *Monitor) {
		m.icacheConfig = nil
		m.dcacheConfig = nil
	}
}

// WithBranchPredictor sets the predictor geometry.
func WithBranchPredictor(config branch.Config) MonitorOption {
	return func(m *Monitor) {
		m.predictorConfig = config
	}
}

// NewMonitor creates a Monitor. By default it uses the default latency
// table, caches and predictor.
func NewMonitor(opts ...MonitorOption) *Monitor {
	icfg := cache.DefaultICacheConfig()
	dcfg := cache.DefaultDCacheConfig()
	m := &Monitor{
		table:           latency.NewTable(),
		icacheConfig:    &icfg,
		dcacheConfig:    &dcfg,
		predictorConfig: branch.DefaultConfig(),
		backing:         cache.NewViewBacking(nil),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.icacheConfig != nil {
		m.icache = cache.New(*m.icacheConfig, m.backing)
	}
	if m.dcacheConfig != nil {
		m.dcache = cache.New(*m.dcacheConfig, m.backing)
	}
	m.predictor = branch.NewPredictor(m.predictorConfig)

	return m
}

// Process charges the cycles of the instruction the view just executed.
func (m *Monitor) Process(v emu.View) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.backing.SetView(v)

	cur := v.Current()
	inst := cur.Inst

	m.stats.Instructions++
	cycles := m.table.GetLatency(&inst)

	if m.icache != nil {
		stall := missStall(m.icache, m.icache.Read(cur.PC))
		m.stats.FetchStalls += stall
		cycles += stall
	}

	if m.dcache != nil && cur.Access != emu.AccessNone {
		var res cache.AccessResult
		if cur.Access == emu.AccessRead {
			res = m.dcache.Read(cur.Addr)
		} else {
			res = m.dcache.Write(cur.Addr, v.ReadMem(cur.Addr))
		}
		stall := missStall(m.dcache, res)
		m.stats.MemoryStalls += stall
		cycles += stall
	}

	if m.table.IsBranchOp(&inst) {
		m.stats.Branches++
		if conditional(inst) {
			m.stats.Conditional++
		}
		cycles += m.predictBranch(cur, v.PC())
	}

	m.stats.Cycles += cycles
}

// predictBranch trains the predictor and returns the misprediction penalty
// the branch incurs, if any. next is the PC after the branch executed.
func (m *Monitor) predictBranch(cur emu.Working, next uint32) uint64 {
	pred := m.predictor.Predict(cur.PC)

	mispredicted := pred.Taken != cur.Taken
	if cur.Taken && pred.Taken && (!pred.TargetKnown || pred.Target != next) {
		mispredicted = true
	}

	target := next
	if !cur.Taken {
		target = 0
	}
	m.predictor.Update(cur.PC, cur.Taken, target)

	if !mispredicted {
		return 0
	}

	m.stats.Mispredictions++
	penalty := m.table.Config().BranchMispredictPenalty
	m.stats.BranchStalls += penalty
	return penalty
}

func missStall(c *cache.Cache, res cache.AccessResult) uint64 {
	if res.Hit || res.Latency <= c.Config().HitLatency {
		return 0
	}
	return res.Latency - c.Config().HitLatency
}

// InstructionCount returns the number of instructions processed.
func (m *Monitor) InstructionCount() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats.Instructions
}

// Stats returns the statistics collected so far.
func (m *Monitor) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.stats
	if m.icache != nil {
		s.ICache = m.icache.Stats()
	}
	if m.dcache != nil {
		s.DCache = m.dcache.Stats()
	}
	s.Predictor = m.predictor.Stats()
	return s
}

// Reset clears statistics, caches and predictor state.
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats = Stats{}
	if m.icache != nil {
		m.icache.Reset()
	}
	if m.dcache != nil {
		m.dcache.Reset()
	}
	m.predictor.Reset()
}

var _ emu.PerfMon = (*Monitor)(nil)

// conditional reports whether inst is a branch or call whose outcome
// depends on the flags.
func conditional(inst insts.Instruction) bool {
	return insts.IsBranchOrCall(inst.Op) && inst.Cond != insts.CondAlways
}
