package cpu

// DMODE source and destination address modes.
const (
	dmaInc   = 0
	dmaDec   = 1
	dmaFixed = 2
	dmaIO    = 3
)

func dmaStep(mode uint8) uint32 {
	switch mode {
	case dmaInc:
		return 1
	case dmaDec:
		return 0xFFFFFFFF
	}
	return 0
}

// dma0 runs channel 0 for up to maxCycles T-states, one transfer in cycle
// steal mode or until the count or budget runs out in burst mode. It
// returns the cycles used; the unit in progress always completes.
func (c *CPU) dma0(maxCycles int) int {
	r := &c.regs
	if r.dstat&dstatDE0 == 0 {
		return 0
	}
	sar, dar := r.sar0, r.dar0
	bcr := int(r.bcr[0])
	if bcr == 0 {
		bcr = 0x10000
	}
	count := 1
	if r.dmode&dmodeMMOD != 0 {
		count = bcr
	}
	dm := (r.dmode & dmodeDM) >> 4
	sm := (r.dmode & dmodeSM) >> 2
	mw := c.memWaitStates()

	cycles := 0
	for count > 0 {
		c.extra = 0
		switch {
		case dm >= dmaFixed && sm >= dmaFixed:
			// reserved combination, no transfer
		case dm == dmaIO || sm == dmaIO:
			if c.iol&uint32(IODREQ0) == 0 {
				break
			}
			var v uint8
			if sm == dmaIO {
				v = c.in(uint16(sar))
			} else {
				v = c.dmaRead(sar)
			}
			if dm == dmaIO {
				c.out(uint16(dar), v)
			} else {
				c.dmaWrite(dar, v)
			}
			sar += dmaStep(sm)
			dar += dmaStep(dm)
			cycles += mw
			bcr--
			if r.dcntl&dcntlDMS0 != 0 {
				// edge sensitive: one transfer per request
				c.iol &^= uint32(IODREQ0)
				count = 0
			}
		default:
			c.dmaWrite(dar, c.dmaRead(sar))
			sar += dmaStep(sm)
			dar += dmaStep(dm)
			cycles += mw * 2
			bcr--
		}
		count--
		cycles += 6 + c.extra
		if cycles > maxCycles || bcr == 0 {
			break
		}
	}
	r.sar0 = sar & sar0Mask
	r.dar0 = dar & dar0Mask
	r.bcr[0] = uint16(bcr)
	if bcr == 0 {
		c.iol |= uint32(IOTEND0)
		r.dstat &^= dstatDE0
		if r.dstat&dstatDIE0 != 0 && c.IFF1 {
			c.pending[intDMA0] = true
		}
		c.log.Debug("z180 dma0 terminal count")
	}
	return cycles
}

// dma1 performs one memory/I-O transfer on channel 1 if DREQ1 is asserted.
func (c *CPU) dma1() int {
	r := &c.regs
	if c.iol&uint32(IODREQ1) == 0 || r.dstat&dstatDE1 == 0 {
		return 0
	}
	bcr := int(r.bcr[1])
	if bcr == 0 {
		bcr = 0x10000
	}
	c.extra = 0
	mar := r.mar1
	port := uint16(r.iar1)
	switch r.dcntl & dcntlDIM {
	case 0:
		c.ioWrite(port, c.dmaRead(mar))
		mar++
	case 1:
		c.ioWrite(port, c.dmaRead(mar))
		mar--
	case 2:
		c.dmaWrite(mar, c.ioRead(port))
		mar++
	default:
		c.dmaWrite(mar, c.ioRead(port))
		mar--
	}
	bcr--
	if r.dcntl&dcntlDMS1 != 0 {
		c.iol &^= uint32(IODREQ1)
	}
	r.mar1 = mar & mar1Mask
	r.bcr[1] = uint16(bcr)
	if bcr == 0 {
		c.iol |= uint32(IOTEND1)
		r.dstat &^= dstatDE1
		if r.dstat&dstatDIE1 != 0 && c.IFF1 {
			c.pending[intDMA1] = true
		}
		c.log.Debug("z180 dma1 terminal count")
	}
	return 6 + c.memWaitStates() + c.extra
}
