// Package cpu implements a cycle-counted Zilog Z180: the Z80 compatible
// instruction set with the Z180 extensions, and the on-chip MMU, DMA
// controller, programmable reload timers, serial channel registers and
// interrupt controller, all advanced in lockstep with instruction execution.
package cpu

import (
	"fmt"
	"log/slog"

	"github.com/oisee/z180emu/pkg/bus"
	"github.com/oisee/z180emu/pkg/mmu"
)

// Config wires a CPU to its environment.
type Config struct {
	Program bus.Space // physical program memory, required
	Opcodes bus.Space // opcode fetch space, defaults to Program
	IO      bus.Space // I/O space, required

	// Daisy, if set, supplies the INT0 request level and vector.
	Daisy bus.Daisy
	// IRQVector supplies the INT0 data bus value when there is no Daisy.
	// The default returns 0xFF.
	IRQVector func() uint32
	// Serial receives bytes written to an enabled ASCI transmitter.
	Serial func(channel int, b uint8)

	Logger *slog.Logger
}

// CPU is one Z180. It is not safe for concurrent use.
type CPU struct {
	Registers

	program, opcodes, io bus.Space
	progWait, ioWait     bus.Waiter
	daisy                bus.Daisy
	irqVector            func() uint32
	serial               func(int, uint8)
	log                  *slog.Logger
	ft                   *FlagTables

	mmu  mmu.MMU
	regs ioRegs

	ea     uint16 // effective address of the current indexed/bit operation
	extra  int    // wait states and taken-branch cost of the current unit
	icount int
	total  uint64

	afterEI    bool
	nmiState   bool
	nmiPending bool
	irqState   [3]bool
	pending    [intCount]bool
	timerCnt   int
	iol        uint32

	// staging values for the composite state entries
	rtemp   uint8
	ioltemp uint32

	// Trace, if set, is called with PC before each instruction fetch.
	Trace func(pc uint16)
}

// New builds a CPU and resets it.
func New(cfg Config) *CPU {
	if cfg.Program == nil || cfg.IO == nil {
		panic("cpu: Program and IO spaces are required")
	}
	c := &CPU{
		program:   cfg.Program,
		opcodes:   cfg.Opcodes,
		io:        cfg.IO,
		daisy:     cfg.Daisy,
		irqVector: cfg.IRQVector,
		serial:    cfg.Serial,
		log:       cfg.Logger,
		ft:        Tables(),
	}
	if c.opcodes == nil {
		c.opcodes = c.program
	}
	if c.irqVector == nil {
		c.irqVector = func() uint32 { return 0xFF }
	}
	if c.log == nil {
		c.log = slog.New(slog.DiscardHandler)
	}
	c.progWait, _ = c.program.(bus.Waiter)
	c.ioWait, _ = c.io.(bus.Waiter)

	// power-on values that reset leaves alone
	c.regs.tmdrValue = [2]uint16{0xFFFF, 0xFFFF}
	c.regs.rldr = [2]uint16{0xFFFF, 0xFFFF}
	c.Reset()
	return c
}

// Reset puts the CPU and its internal peripherals in the reset state.
func (c *CPU) Reset() {
	c.Registers = Registers{IX: 0xFFFF, IY: 0xFFFF}
	c.SetF(FlagZ)

	c.ea = 0
	c.afterEI = false
	c.nmiState = false
	c.nmiPending = false
	c.irqState = [3]bool{}
	c.pending = [intCount]bool{}
	c.timerCnt = 0
	c.iol = 0
	c.total = 0

	c.regs.reset()
	c.mmu.Reset()
	c.log.Debug("z180 reset")
}

// Translate maps a logical program address to its physical address.
func (c *CPU) Translate(logical uint16) uint32 {
	return c.mmu.Translate(logical)
}

// Cycles returns the T-states consumed since reset.
func (c *CPU) Cycles() uint64 {
	return c.total
}

// Output reports the level of an I/O line.
func (c *CPU) Output(line IOLine) bool {
	return c.iol&uint32(line) != 0
}

// Pending reports whether interrupt source name is latched, for tooling.
func (c *CPU) Pending(name string) bool {
	for i, n := range intNames {
		if n == name {
			return c.pending[i]
		}
	}
	panic(fmt.Sprintf("cpu: unknown interrupt source %q", name))
}

// ReadPhys and WritePhys access program memory without translation or
// wait states.
func (c *CPU) ReadPhys(addr uint32) uint8 {
	return c.program.Read(addr & mmu.PhysMask)
}

func (c *CPU) WritePhys(addr uint32, v uint8) {
	c.program.Write(addr&mmu.PhysMask, v)
}

// ReadLogical reads a program byte through the MMU without side effects on
// the cycle count, for debuggers and disassemblers.
func (c *CPU) ReadLogical(addr uint16) uint8 {
	return c.opcodes.Read(c.mmu.Translate(addr))
}
