package cpu

// SetInput drives an input line. NMI is edge triggered: only a rising edge
// latches a request. IRQ lines are level sensitive and are sampled between
// instructions.
func (c *CPU) SetInput(line Line, asserted bool) {
	switch line {
	case LineNMI:
		if asserted && !c.nmiState {
			c.nmiPending = true
		}
		c.nmiState = asserted
	case LineIRQ0, LineIRQ1, LineIRQ2:
		c.irqState[line] = asserted
		if c.daisy != nil {
			c.irqState[0] = c.daisy.UpdateIRQState()
		}
	case LineDREQ0:
		c.setIOLine(IODREQ0, asserted)
	case LineDREQ1:
		c.setIOLine(IODREQ1, asserted)
	default:
		panic("cpu: unknown input line " + line.String())
	}
}

func (c *CPU) setIOLine(l IOLine, on bool) {
	v := c.iol
	if on {
		v |= uint32(l)
	} else {
		v &^= uint32(l)
	}
	c.writeIOLines(v)
}

// writeIOLines stores the input bits of v; output bits are owned by the
// CPU and ignored.
func (c *CPU) writeIOLines(v uint32) {
	c.iol = c.iol&^uint32(ioInputs) | v&uint32(ioInputs)
}
