package cpu

import "github.com/oisee/z180emu/pkg/mmu"

// rm reads a byte of logical program memory.
func (c *CPU) rm(addr uint16) uint8 {
	p := c.mmu.Translate(addr)
	if c.progWait != nil {
		c.extra += c.progWait.WaitStates(p, false)
	}
	return c.program.Read(p)
}

// wm writes a byte of logical program memory.
func (c *CPU) wm(addr uint16, v uint8) {
	p := c.mmu.Translate(addr)
	if c.progWait != nil {
		c.extra += c.progWait.WaitStates(p, true)
	}
	c.program.Write(p, v)
}

func (c *CPU) rm16(addr uint16) uint16 {
	return uint16(c.rm(addr)) | uint16(c.rm(addr+1))<<8
}

func (c *CPU) wm16(addr uint16, v uint16) {
	c.wm(addr, uint8(v))
	c.wm(addr+1, uint8(v>>8))
}

// rop fetches an opcode byte at PC.
func (c *CPU) rop() uint8 {
	p := c.mmu.Translate(uint16(c.PC))
	c.PC++
	if c.progWait != nil {
		c.extra += c.progWait.WaitStates(p, false)
	}
	return c.opcodes.Read(p)
}

// arg fetches an operand byte at PC.
func (c *CPU) arg() uint8 {
	v := c.rm(uint16(c.PC))
	c.PC++
	return v
}

func (c *CPU) arg16() uint16 {
	lo := c.arg()
	return uint16(lo) | uint16(c.arg())<<8
}

// disp reads a displacement byte and sets ea relative to an index register.
func (c *CPU) disp(base Pair) {
	c.ea = uint16(base) + uint16(int8(c.arg()))
}

func (c *CPU) push(v uint16) {
	c.SP -= 2
	c.wm16(uint16(c.SP), v)
}

func (c *CPU) pop() uint16 {
	v := c.rm16(uint16(c.SP))
	c.SP += 2
	return v
}

// in reads an I/O port. Ports in the internal register window are served
// by ReadControl without wait states.
func (c *CPU) in(port uint16) uint8 {
	if _, ok := c.internalOffset(port); ok {
		return c.ReadControl(port)
	}
	return c.ioRead(port)
}

func (c *CPU) out(port uint16, v uint8) {
	if _, ok := c.internalOffset(port); ok {
		c.WriteControl(port, v)
		return
	}
	c.ioWrite(port, v)
}

// ioRead and ioWrite perform an external I/O cycle.
func (c *CPU) ioRead(port uint16) uint8 {
	c.extra += c.ioWaitStates()
	if c.ioWait != nil {
		c.extra += c.ioWait.WaitStates(uint32(port), false)
	}
	return c.io.Read(uint32(port))
}

func (c *CPU) ioWrite(port uint16, v uint8) {
	c.extra += c.ioWaitStates()
	if c.ioWait != nil {
		c.extra += c.ioWait.WaitStates(uint32(port), true)
	}
	c.io.Write(uint32(port), v)
}

// dmaRead and dmaWrite access physical memory for the DMA controller.
func (c *CPU) dmaRead(addr uint32) uint8 {
	addr &= mmu.PhysMask
	if c.progWait != nil {
		c.extra += c.progWait.WaitStates(addr, false)
	}
	return c.program.Read(addr)
}

func (c *CPU) dmaWrite(addr uint32, v uint8) {
	addr &= mmu.PhysMask
	if c.progWait != nil {
		c.extra += c.progWait.WaitStates(addr, true)
	}
	c.program.Write(addr, v)
}

// memWaitStates is the DCNTL MWI field.
func (c *CPU) memWaitStates() int {
	return int(c.regs.dcntl&dcntlMWI) >> 6
}

// ioWaitStates is the DCNTL IWI field plus the fixed I/O wait state.
func (c *CPU) ioWaitStates() int {
	if c.regs.dcntl == 0 {
		return 0
	}
	return int(c.regs.dcntl&dcntlIWI)>>4 + 1
}
