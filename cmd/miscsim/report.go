package main

import (
	"io"

	"github.com/jeandeaual/go-locale"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sarchlab/miscsim/emu"
	"github.com/sarchlab/miscsim/timing/core"
)

// newPrinter returns a printer for tag, or for the system locales when tag
// is empty.
func newPrinter(tag string, logger *log.Logger) *message.Printer {
	if tag != "" {
		t, err := language.Parse(tag)
		if err == nil {
			return message.NewPrinter(t)
		}
		logger.Error("Invalid language tag", log.String("tag", tag), log.Err(err))
	}

	locales, err := locale.GetLocales()
	if err != nil {
		logger.Debug("Locale lookup failed", log.Err(err))
	}
	if len(locales) == 0 {
		locales = []string{"en-US"}
	}
	return message.NewPrinter(message.MatchLanguage(locales...))
}

func printReport(p *message.Printer, w io.Writer, e *emu.Emulator, monitor *core.Monitor) {
	_, _ = p.Fprintf(w, "cpu ran %d instructions\n", e.InstructionCount())

	switch {
	case e.Fault() != nil:
		_, _ = p.Fprintf(w, "stopped on fault: %v\n", e.Fault())
	case !e.Halted():
		_, _ = p.Fprintf(w, "stopped at pc %d before halt\n", e.PC())
	}

	if monitor == nil {
		return
	}

	stats := monitor.Stats()
	_, _ = p.Fprintf(w, "cycles: %d\n", stats.Cycles)
	_, _ = p.Fprintf(w, "CPI: %.3f\n", stats.CPI())
	_, _ = p.Fprintf(w, "stalls: fetch %d, memory %d, branch %d\n",
		stats.FetchStalls, stats.MemoryStalls, stats.BranchStalls)
	_, _ = p.Fprintf(w, "branches: %d (%d conditional), %d mispredicted\n",
		stats.Branches, stats.Conditional, stats.Mispredictions)
	_, _ = p.Fprintf(w, "icache hit rate: %.1f%%\n", stats.ICache.HitRate())
	_, _ = p.Fprintf(w, "dcache hit rate: %.1f%%\n", stats.DCache.HitRate())
}
