package cpu

import "github.com/oisee/z180emu/pkg/inst"

// maskable reports whether maskable interrupts may be accepted now. The
// instruction after EI always runs first.
func (c *CPU) maskable() bool {
	return c.IFF1 && !c.afterEI
}

// checkInterrupts latches newly requested sources and takes the highest
// priority pending one, returning the cycles spent.
func (c *CPU) checkInterrupts() int {
	if !c.maskable() {
		return 0
	}
	for i := 0; i < 3; i++ {
		if c.irqState[i] && c.regs.itc&(itcITE0<<i) != 0 {
			c.pending[intIRQ0+i] = true
		}
	}
	c.promoteSerial()

	for irq := intIRQ0; irq < intCount; irq++ {
		if c.pending[irq] {
			c.pending[irq] = false
			return c.takeInterrupt(irq)
		}
	}
	return 0
}

func (c *CPU) leaveHalt() {
	if c.Halt {
		c.Halt = false
		c.PC++
	}
}

func (c *CPU) enterHalt() {
	c.PC--
	c.Halt = true
}

func (c *CPU) takeInterrupt(irq int) int {
	c.extra = 0
	c.leaveHalt()
	c.IFF1, c.IFF2 = false, false
	c.log.Debug("z180 interrupt", "source", intNames[irq], "pc", uint16(c.PC))

	if irq != intIRQ0 {
		// internal sources and INT1/INT2 use the IL vector table
		vector := uint16(c.I)<<8 | uint16(c.regs.il&ilMask) | uint16(irq-intIRQ1)<<1
		c.push(uint16(c.PC))
		c.PC = Pair(c.rm16(vector))
		return inst.TStates(inst.Op, 0xCD) + c.extra
	}

	var vector uint32
	if c.daisy != nil {
		vector = c.daisy.Ack()
	} else {
		vector = c.irqVector()
	}
	switch c.IM {
	case 2:
		c.push(uint16(c.PC))
		c.PC = Pair(c.rm16(uint16(c.I)<<8 | uint16(vector&0xFF)))
		return inst.TStates(inst.Op, 0xCD) + c.extra
	case 1:
		c.push(uint16(c.PC))
		c.PC = 0x38
		return inst.TStates(inst.Op, 0xFF) + c.extra
	}
	// mode 0 executes the instruction on the data bus; only CALL, JP and
	// RST are recognised
	switch vector & 0xFF0000 {
	case 0xCD0000:
		c.push(uint16(c.PC))
		c.PC = Pair(vector)
		return inst.TStates(inst.Op, 0xCD) + c.extra
	case 0xC30000:
		c.PC = Pair(vector)
		return inst.TStates(inst.Op, 0xC3) + c.extra
	}
	c.push(uint16(c.PC))
	c.PC = Pair(vector & 0x38)
	return inst.TStates(inst.Op, 0xFF) + c.extra
}

// takeNMI services a latched NMI edge. DMA is stopped by clearing DME.
func (c *CPU) takeNMI() {
	c.nmiPending = false
	c.leaveHalt()
	c.regs.dstat &^= dstatDME
	c.IFF2 = c.IFF1
	c.IFF1 = false
	c.push(uint16(c.PC))
	c.PC = 0x66
	c.log.Debug("z180 nmi")
	c.consume(11)
}
