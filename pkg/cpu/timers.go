package cpu

var (
	tcrTDE = [2]uint8{tcrTDE0, tcrTDE1}
	tcrTIE = [2]uint8{tcrTIE0, tcrTIE1}
	tcrTIF = [2]uint8{tcrTIF0, tcrTIF1}
)

// ackTIF implements the two-read TIF clear: reading TCR and then either
// byte of TMDR (or the reverse) clears the channel's interrupt flag.
func (c *CPU) ackTIF(ch int) {
	r := &c.regs
	if r.readTCRTMDR[ch] {
		r.tcr &^= tcrTIF[ch]
		r.readTCRTMDR[ch] = false
	} else {
		r.readTCRTMDR[ch] = true
	}
}

func (c *CPU) readTMDR(ch int, hi bool) uint8 {
	r := &c.regs
	var data uint8
	if !hi {
		data = uint8(r.tmdrValue[ch])
		// freeze the high byte so a following high byte read matches
		if r.tcr&tcrTDE[ch] != 0 {
			r.tmdrLatch |= 1 << ch
			r.tmdrH[ch] = uint8(r.tmdrValue[ch] >> 8)
		}
	} else if r.tmdrLatch&(1<<ch) != 0 {
		r.tmdrLatch &^= 1 << ch
		data = r.tmdrH[ch]
	} else {
		data = uint8(r.tmdrValue[ch] >> 8)
	}
	c.ackTIF(ch)
	return data
}

func (c *CPU) writeTMDR(ch int, hi bool, v uint8) {
	r := &c.regs
	setWordByte(&r.tmdr[ch], hi, v)
	setWordByte(&r.tmdrValue[ch], hi, v)
}

func (c *CPU) readTCR() uint8 {
	data := c.regs.tcr
	c.ackTIF(0)
	c.ackTIF(1)
	return data
}

func (c *CPU) writeTCR(v uint8) {
	r := &c.regs
	old := r.tcr
	r.tcr = r.tcr&(tcrTIF1|tcrTIF0) | v&^(tcrTIF1|tcrTIF0)
	for ch := 0; ch < 2; ch++ {
		if old&tcrTDE[ch] == 0 && r.tcr&tcrTDE[ch] != 0 {
			r.tmdrValue[ch] = 0
		}
	}
}

// clockTimers advances the timer prescaler by cycles T-states, ticking the
// reload timers once per 20.
func (c *CPU) clockTimers(cycles int) {
	c.timerCnt += cycles
	for c.timerCnt >= timerDivider {
		c.timerCnt -= timerDivider
		c.timerTick()
	}
}

func (c *CPU) timerTick() {
	r := &c.regs
	for ch := 0; ch < 2; ch++ {
		if r.tcr&tcrTDE[ch] == 0 {
			continue
		}
		if r.tmdrValue[ch] == 0 {
			r.tmdrValue[ch] = r.rldr[ch]
			r.tcr |= tcrTIF[ch]
		} else {
			r.tmdrValue[ch]--
		}
	}
	// a flag left set by a stopped timer still requests service
	for ch := 0; ch < 2; ch++ {
		if r.tcr&tcrTIE[ch] != 0 && r.tcr&tcrTIF[ch] != 0 && c.IFF1 && !c.afterEI {
			c.pending[intPRT0+ch] = true
		}
	}
}
