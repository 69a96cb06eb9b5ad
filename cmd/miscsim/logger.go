package main

import (
	"github.com/retroenv/retrogolib/log"
)

// createLogger creates a logger for the -v and -q flags.
func createLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
