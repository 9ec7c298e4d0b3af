// Package config holds the runner's configuration and binds it to command
// line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"

	"github.com/oisee/z180emu/pkg/bus"
)

// Config is what z180run needs to set up and drive a machine.
type Config struct {
	ROM      string // binary image loaded at Load
	Load     uint32 // physical load address
	PC       uint16 // start address, logical
	Cycles   int    // total T-states to run
	Slice    int    // T-states per Execute call
	MemWaits int    // external wait states per memory access
	IOWaits  int    // external wait states per I/O access
	Script   string // Lua device script
	Restore  string // snapshot loaded before running
	Save     string // snapshot written after running
	Trace    bool
	LogLevel string
}

// Default returns the configuration used when no flags are given.
func Default() Config {
	return Config{
		Cycles:   1_000_000,
		Slice:    10_000,
		LogLevel: "info",
	}
}

// AddFlags binds c to fs.
func (c *Config) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.ROM, "rom", c.ROM, "Binary image to load")
	fs.Uint32Var(&c.Load, "load", c.Load, "Physical load address")
	fs.Uint16Var(&c.PC, "pc", c.PC, "Start PC")
	fs.IntVar(&c.Cycles, "cycles", c.Cycles, "T-states to execute")
	fs.IntVar(&c.Slice, "slice", c.Slice, "T-states per execution slice")
	fs.IntVar(&c.MemWaits, "mem-waits", c.MemWaits, "External memory wait states")
	fs.IntVar(&c.IOWaits, "io-waits", c.IOWaits, "External I/O wait states")
	fs.StringVar(&c.Script, "script", c.Script, "Lua script defining I/O devices")
	fs.StringVar(&c.Restore, "restore", c.Restore, "Snapshot to restore before running")
	fs.StringVar(&c.Save, "save", c.Save, "Snapshot file written after running")
	fs.BoolVar(&c.Trace, "trace", c.Trace, "Disassemble each instruction to stderr")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Log level: debug, info, warn, error")
}

// Validate reports every invalid field.
func (c *Config) Validate() error {
	var errs []error
	if c.Cycles < 0 {
		errs = append(errs, fmt.Errorf("cycles %d is negative", c.Cycles))
	}
	if c.Slice <= 0 {
		errs = append(errs, fmt.Errorf("slice %d must be positive", c.Slice))
	}
	if c.MemWaits < 0 || c.IOWaits < 0 {
		errs = append(errs, errors.New("wait states must not be negative"))
	}
	if c.Load >= bus.PhysSize {
		errs = append(errs, fmt.Errorf("load address %X is past 1 MiB", c.Load))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return l, nil
}
