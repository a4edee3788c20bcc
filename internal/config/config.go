// Package config handles application setup shared by the CLI entry point and tests.
package config

import (
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/z80disasm/internal/options"
)

// NewLogger creates the application logger from the program options. Debug wins over quiet when
// both are given: a debugging session needs the analysis trace even with the banner suppressed.
// Analysis warnings are logged at warn level, so quiet mode keeps them out of the listing output
// on stdout.
func NewLogger(opts options.Program) *log.Logger {
	cfg := log.DefaultConfig()
	switch {
	case opts.Debug:
		cfg.Level = log.DebugLevel
	case opts.Quiet:
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
