package cpu

// Execute runs the CPU for about cycles T-states and returns the number
// actually consumed. The count overshoots only by the remainder of the
// instruction or DMA unit in progress when the budget ran out.
func (c *CPU) Execute(cycles int) int {
	c.icount = cycles
	if c.nmiPending {
		c.takeNMI()
	}
	for c.icount > 0 {
		if c.regs.dstat&dstatDME == 0 {
			c.step()
			continue
		}
		if c.burstDMA() {
			c.consume(c.dma0(c.icount))
			continue
		}
		c.step()
		if c.burstDMA() {
			continue
		}
		c.consume(c.dma0(6))
		c.consume(c.dma1())
	}
	return cycles - c.icount
}

// burstDMA reports whether channel 0 is enabled in burst mode, which holds
// the bus until its count runs out.
func (c *CPU) burstDMA() bool {
	r := &c.regs
	return r.dstat&dstatDME != 0 && r.dstat&dstatDE0 != 0 && r.dmode&dmodeMMOD != 0
}

// step services interrupts and then executes one instruction, or idles
// three cycles while halted.
func (c *CPU) step() {
	c.consume(c.checkInterrupts())
	c.afterEI = false
	if c.Halt {
		c.consume(3)
		return
	}
	if c.Trace != nil {
		c.Trace(uint16(c.PC))
	}
	c.R++
	c.regs.frc++
	c.extra = 0
	op := c.rop()
	baseOps[op](c)
	c.consume(opCost(op) + c.extra)
}

func (c *CPU) consume(n int) {
	c.icount -= n
	c.total += uint64(n)
	c.clockTimers(n)
}

// Burn discards cycles T-states as memory refresh cycles, keeping the
// timers and R in step.
func (c *CPU) Burn(cycles int) {
	step := 3 + c.memWaitStates()
	for cycles > 0 {
		c.R++
		c.total += uint64(step)
		c.clockTimers(step)
		cycles -= step
	}
}
