package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/oisee/z180emu/pkg/bus"
	"github.com/oisee/z180emu/pkg/config"
	"github.com/oisee/z180emu/pkg/cpu"
	"github.com/oisee/z180emu/pkg/inst"
	"github.com/oisee/z180emu/pkg/script"
	"github.com/oisee/z180emu/pkg/snapshot"
)

// machine is a Z180 on flat RAM with an optional scripted I/O device.
type machine struct {
	cfg   config.Config
	log   *slog.Logger
	ram   *bus.RAM
	ports *bus.Ports
	dev   *script.Device
	cpu   *cpu.CPU
}

func newMachine(cfg config.Config, log *slog.Logger, serial io.Writer) (*machine, error) {
	m := &machine{cfg: cfg, log: log, ram: bus.NewRAM(), ports: bus.NewPorts()}
	m.ram.Waits = cfg.MemWaits
	m.ports.Waits = cfg.IOWaits

	var ioSpace bus.Space = m.ports
	if cfg.Script != "" {
		dev, err := script.Load(cfg.Script, m.ports, log)
		if err != nil {
			return nil, err
		}
		m.dev = dev
		ioSpace = dev
	}

	m.cpu = cpu.New(cpu.Config{
		Program: m.ram,
		IO:      ioSpace,
		Serial: func(ch int, b uint8) {
			if ch != 0 {
				return
			}
			if _, err := serial.Write([]byte{b}); err != nil {
				log.Debug("serial write failed", "channel", ch, "err", err)
			}
		},
		Logger: log,
	})
	if m.dev != nil {
		m.dev.Attach(m.cpu)
	}

	if cfg.ROM != "" {
		data, err := os.ReadFile(cfg.ROM)
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("load rom %s: %w", cfg.ROM, err)
		}
		if err := m.ram.Load(cfg.Load, data); err != nil {
			m.Close()
			return nil, fmt.Errorf("load rom %s: %w", cfg.ROM, err)
		}
		log.Info("rom loaded", "path", cfg.ROM, "bytes", len(data), "at", fmt.Sprintf("%05X", cfg.Load))
	}

	if cfg.Restore != "" {
		s, err := snapshot.Load(cfg.Restore)
		if err == nil {
			err = s.Restore(m.cpu, m.ram.Bytes())
		}
		if err != nil {
			m.Close()
			return nil, err
		}
		log.Info("snapshot restored", "path", cfg.Restore)
	} else {
		m.cpu.PC = cpu.Pair(cfg.PC)
	}

	if cfg.Trace {
		m.cpu.Trace = m.trace
	}
	return m, nil
}

func (m *machine) trace(pc uint16) {
	text, _ := inst.Disassemble(m.cpu.ReadLogical, pc)
	fmt.Fprintf(os.Stderr, "%05X %04X  %s\n", m.cpu.Translate(pc), pc, text)
}

// Run executes the configured number of T-states in slices and saves a
// snapshot if one was asked for.
func (m *machine) Run() error {
	for left := m.cfg.Cycles; left > 0; {
		left -= m.cpu.Execute(min(m.cfg.Slice, left))
		if m.dev != nil && m.dev.Err() != nil {
			return m.dev.Err()
		}
	}
	if m.cfg.Save != "" {
		if err := snapshot.Save(m.cfg.Save, snapshot.Capture(m.cpu, m.ram.Bytes())); err != nil {
			return err
		}
		m.log.Info("snapshot saved", "path", m.cfg.Save)
	}
	return nil
}

func (m *machine) Close() {
	if m.dev != nil {
		m.dev.Close()
	}
}
