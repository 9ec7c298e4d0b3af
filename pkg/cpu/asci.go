package cpu

// transmit loads TDR. With the transmitter enabled the byte leaves at once
// through the Serial callback and TDRE stays set.
func (c *CPU) transmit(ch int, v uint8) {
	r := &c.regs
	r.tdr[ch] = v
	if r.cntla[ch]&cntlaTE == 0 {
		return
	}
	if c.serial != nil {
		c.serial(ch, v)
	}
	r.stat[ch] |= statTDRE
}

// ReceiveSerial delivers a byte to ASCI channel ch. It is dropped unless
// the receiver is enabled; a byte arriving while RDR is still full sets
// the overrun flag and replaces the old byte.
func (c *CPU) ReceiveSerial(ch int, b uint8) {
	if ch < 0 || ch > 1 {
		panic("cpu: ASCI channel out of range")
	}
	r := &c.regs
	if r.cntla[ch]&cntlaRE == 0 {
		return
	}
	if r.stat[ch]&statRDRF != 0 {
		r.stat[ch] |= statOVRN
	}
	r.rdr[ch] = b
	r.stat[ch] |= statRDRF
}

// promoteSerial latches the serial interrupt sources whose enable and
// status bits are both set.
func (c *CPU) promoteSerial() {
	r := &c.regs
	for ch := 0; ch < 2; ch++ {
		st := r.stat[ch]
		if st&statRDRF != 0 && st&statRIE != 0 || st&statTDRE != 0 && st&statTIE != 0 {
			c.pending[intASCI0+ch] = true
		}
	}
	if r.cntr&cntrEF != 0 && r.cntr&cntrEIE != 0 {
		c.pending[intCSIO] = true
	}
}
