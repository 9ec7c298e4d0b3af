package cpu

import "fmt"

// ioRegs is the internal I/O register bank, minus the MMU registers which
// live in the mmu.MMU.
type ioRegs struct {
	cntla, cntlb [2]uint8
	stat         [2]uint8
	tdr, rdr     [2]uint8
	asext        [2]uint8
	astc         [2]uint16
	cntr, trdr   uint8

	tmdr        [2]uint16 // last value written
	tmdrValue   [2]uint16 // live down-counter
	tmdrH       [2]uint8  // high byte latched by a low byte read
	tmdrLatch   uint8     // bit n set while tmdrH[n] is valid
	readTCRTMDR [2]bool   // first half of a TIF clearing read pair seen
	rldr        [2]uint16
	tcr         uint8

	frc, cmr, ccr uint8

	sar0, dar0 uint32
	mar1, iar1 uint32
	bcr        [2]uint16
	dstat      uint8
	dmode      uint8
	dcntl      uint8

	il, itc, rcr uint8
	omcr, iocr   uint8
}

func (r *ioRegs) reset() {
	r.cntla[0] = r.cntla[0]&cntlaMPBREF | cntlaRTS0
	r.cntla[1] = r.cntla[1]&cntlaMPBREF | cntlaCKA1D
	r.cntlb[0] = r.cntlb[0]&(cntlbMPBT|cntlbCTSPS) | 0x07
	r.cntlb[1] = r.cntlb[1]&cntlbMPBT | 0x07
	// transmitters are idle, so their data registers are empty
	r.stat[0] = r.stat[0]&statDCD0 | statTDRE
	r.stat[1] = statTDRE
	r.cntr = 0x07
	r.tcr = 0
	r.asext = [2]uint8{}
	r.cmr = 0
	r.ccr = 0
	r.tmdrValue = [2]uint16{0xFFFF, 0xFFFF}
	r.tmdrH = [2]uint8{}
	r.tmdrLatch = 0
	r.readTCRTMDR = [2]bool{}
	r.iar1 &= 0x00FFFF
	r.dstat = dstatDWE1 | dstatDWE0
	r.dmode = 0
	r.dcntl = 0xF0 // maximum memory and I/O wait states
	r.il = 0
	r.itc = itcITE0
	r.rcr = 0xC0
	r.omcr = 0xE0
	r.iocr = 0
}

// ioPort describes one internal register. read returns the value seen by
// the CPU, write applies the register's mask and side effects.
type ioPort struct {
	name  string
	read  func(c *CPU) uint8
	write func(c *CPU, v uint8)
}

var ioPorts [64]ioPort

func absent(name string) ioPort {
	return ioPort{
		name:  name,
		read:  func(*CPU) uint8 { return 0xFF },
		write: func(*CPU, uint8) {},
	}
}

func byteOf(v uint32, shift uint) uint8 { return uint8(v >> shift) }

func setByte(v *uint32, shift uint, b uint8, mask uint32) {
	*v = (*v&^(0xFF<<shift) | uint32(b)<<shift) & mask
}

func setWordByte(v *uint16, hi bool, b uint8) {
	if hi {
		*v = *v&0x00FF | uint16(b)<<8
	} else {
		*v = *v&0xFF00 | uint16(b)
	}
}

func init() {
	for ch := 0; ch < 2; ch++ {
		ioPorts[0x00+ch] = ioPort{
			name: fmt.Sprintf("CNTLA%d", ch),
			read: func(c *CPU) uint8 { return c.regs.cntla[ch] },
			write: func(c *CPU, v uint8) {
				c.regs.cntla[ch] = v
				// writing MPBR/EFR as 0 clears the receive error flags
				if v&cntlaMPBREF == 0 {
					c.regs.stat[ch] &^= statOVRN | statPE | statFE
				}
			},
		}
		ioPorts[0x02+ch] = ioPort{
			name:  fmt.Sprintf("CNTLB%d", ch),
			read:  func(c *CPU) uint8 { return c.regs.cntlb[ch] },
			write: func(c *CPU, v uint8) { c.regs.cntlb[ch] = v },
		}
		writable := uint8(statRIE | statTIE)
		if ch == 1 {
			writable |= statCTS1E
		}
		ioPorts[0x04+ch] = ioPort{
			name: fmt.Sprintf("STAT%d", ch),
			read: func(c *CPU) uint8 { return c.regs.stat[ch] },
			write: func(c *CPU, v uint8) {
				c.regs.stat[ch] = c.regs.stat[ch]&^writable | v&writable
			},
		}
		ioPorts[0x06+ch] = ioPort{
			name:  fmt.Sprintf("TDR%d", ch),
			read:  func(c *CPU) uint8 { return c.regs.tdr[ch] },
			write: func(c *CPU, v uint8) { c.transmit(ch, v) },
		}
		ioPorts[0x08+ch] = ioPort{
			name: fmt.Sprintf("RDR%d", ch),
			read: func(c *CPU) uint8 {
				c.regs.stat[ch] &^= statRDRF
				return c.regs.rdr[ch]
			},
			write: func(c *CPU, v uint8) { c.regs.rdr[ch] = v },
		}
		asextMask := uint8(asext0Mask)
		if ch == 1 {
			asextMask = asext1Mask
		}
		ioPorts[0x12+ch] = ioPort{
			name: fmt.Sprintf("ASEXT%d", ch),
			read: func(c *CPU) uint8 { return c.regs.asext[ch] },
			write: func(c *CPU, v uint8) {
				c.regs.asext[ch] = c.regs.asext[ch]&asextBRKDET | v&asextMask&^asextBRKDET
			},
		}
		ioPorts[0x1A+2*ch] = ioPort{
			name:  fmt.Sprintf("ASTC%dL", ch),
			read:  func(c *CPU) uint8 { return uint8(c.regs.astc[ch]) },
			write: func(c *CPU, v uint8) { setWordByte(&c.regs.astc[ch], false, v) },
		}
		ioPorts[0x1B+2*ch] = ioPort{
			name:  fmt.Sprintf("ASTC%dH", ch),
			read:  func(c *CPU) uint8 { return uint8(c.regs.astc[ch] >> 8) },
			write: func(c *CPU, v uint8) { setWordByte(&c.regs.astc[ch], true, v) },
		}

		base := [2]int{0x0C, 0x14}[ch]
		ioPorts[base] = ioPort{
			name:  fmt.Sprintf("TMDR%dL", ch),
			read:  func(c *CPU) uint8 { return c.readTMDR(ch, false) },
			write: func(c *CPU, v uint8) { c.writeTMDR(ch, false, v) },
		}
		ioPorts[base+1] = ioPort{
			name:  fmt.Sprintf("TMDR%dH", ch),
			read:  func(c *CPU) uint8 { return c.readTMDR(ch, true) },
			write: func(c *CPU, v uint8) { c.writeTMDR(ch, true, v) },
		}
		ioPorts[base+2] = ioPort{
			name:  fmt.Sprintf("RLDR%dL", ch),
			read:  func(c *CPU) uint8 { return uint8(c.regs.rldr[ch]) },
			write: func(c *CPU, v uint8) { setWordByte(&c.regs.rldr[ch], false, v) },
		}
		ioPorts[base+3] = ioPort{
			name:  fmt.Sprintf("RLDR%dH", ch),
			read:  func(c *CPU) uint8 { return uint8(c.regs.rldr[ch] >> 8) },
			write: func(c *CPU, v uint8) { setWordByte(&c.regs.rldr[ch], true, v) },
		}

		ioPorts[0x26+8*ch] = ioPort{
			name:  fmt.Sprintf("BCR%dL", ch),
			read:  func(c *CPU) uint8 { return uint8(c.regs.bcr[ch]) },
			write: func(c *CPU, v uint8) { setWordByte(&c.regs.bcr[ch], false, v) },
		}
		ioPorts[0x27+8*ch] = ioPort{
			name:  fmt.Sprintf("BCR%dH", ch),
			read:  func(c *CPU) uint8 { return uint8(c.regs.bcr[ch] >> 8) },
			write: func(c *CPU, v uint8) { setWordByte(&c.regs.bcr[ch], true, v) },
		}
	}

	ioPorts[0x0A] = ioPort{
		name: "CNTR",
		read: func(c *CPU) uint8 { return c.regs.cntr | ^uint8(cntrMask) },
		write: func(c *CPU, v uint8) {
			// no CSI/O shifter: EF, RE and TE cannot be set by software
			const fixed = cntrEF | cntrRE | cntrTE
			c.regs.cntr = c.regs.cntr&fixed | v&^fixed
		},
	}
	ioPorts[0x0B] = ioPort{
		name:  "TRDR",
		read:  func(c *CPU) uint8 { return c.regs.trdr },
		write: func(c *CPU, v uint8) { c.regs.trdr = v },
	}
	ioPorts[0x10] = ioPort{
		name:  "TCR",
		read:  (*CPU).readTCR,
		write: (*CPU).writeTCR,
	}
	ioPorts[0x11] = absent("IO11")
	ioPorts[0x18] = ioPort{
		name:  "FRC",
		read:  func(c *CPU) uint8 { return c.regs.frc },
		write: func(*CPU, uint8) {},
	}
	ioPorts[0x19] = absent("IO19")
	ioPorts[0x1E] = ioPort{
		name:  "CMR",
		read:  func(c *CPU) uint8 { return c.regs.cmr | ^uint8(cmrMask) },
		write: func(c *CPU, v uint8) { c.regs.cmr = v & cmrMask },
	}
	ioPorts[0x1F] = ioPort{
		name:  "CCR",
		read:  func(c *CPU) uint8 { return c.regs.ccr },
		write: func(c *CPU, v uint8) { c.regs.ccr = v },
	}

	addr20 := func(port int, name string, reg func(c *CPU) *uint32, mask uint32) {
		for i, suffix := range []string{"L", "H", "B"} {
			shift := uint(8 * i)
			ioPorts[port+i] = ioPort{
				name:  name + suffix,
				read:  func(c *CPU) uint8 { return byteOf(*reg(c)&mask, shift) },
				write: func(c *CPU, v uint8) { setByte(reg(c), shift, v, mask) },
			}
		}
	}
	addr20(0x20, "SAR0", func(c *CPU) *uint32 { return &c.regs.sar0 }, sar0Mask)
	addr20(0x23, "DAR0", func(c *CPU) *uint32 { return &c.regs.dar0 }, dar0Mask)
	addr20(0x28, "MAR1", func(c *CPU) *uint32 { return &c.regs.mar1 }, mar1Mask)
	addr20(0x2B, "IAR1", func(c *CPU) *uint32 { return &c.regs.iar1 }, iar1Mask)

	ioPorts[0x30] = ioPort{
		name:  "DSTAT",
		read:  func(c *CPU) uint8 { return c.regs.dstat | ^uint8(dstatMask) },
		write: (*CPU).writeDSTAT,
	}
	ioPorts[0x31] = ioPort{
		name:  "DMODE",
		read:  func(c *CPU) uint8 { return c.regs.dmode | ^uint8(dmodeMask) },
		write: func(c *CPU, v uint8) { c.regs.dmode = v & dmodeMask },
	}
	ioPorts[0x32] = ioPort{
		name:  "DCNTL",
		read:  func(c *CPU) uint8 { return c.regs.dcntl },
		write: func(c *CPU, v uint8) { c.regs.dcntl = v },
	}
	ioPorts[0x33] = ioPort{
		name:  "IL",
		read:  func(c *CPU) uint8 { return c.regs.il & ilMask },
		write: func(c *CPU, v uint8) { c.regs.il = v & ilMask },
	}
	ioPorts[0x34] = ioPort{
		name: "ITC",
		read: func(c *CPU) uint8 { return c.regs.itc | ^uint8(itcMask) },
		write: func(c *CPU, v uint8) {
			c.regs.itc = c.regs.itc&itcUFO | v&itcMask&^itcUFO
		},
	}
	ioPorts[0x35] = absent("IO35")
	ioPorts[0x36] = ioPort{
		name:  "RCR",
		read:  func(c *CPU) uint8 { return c.regs.rcr | ^uint8(rcrMask) },
		write: func(c *CPU, v uint8) { c.regs.rcr = v & rcrMask },
	}
	ioPorts[0x37] = absent("IO37")
	ioPorts[0x38] = ioPort{
		name: "CBR",
		read: func(c *CPU) uint8 { return c.mmu.CBR },
		write: func(c *CPU, v uint8) {
			c.mmu.CBR = v
			c.mmu.Recompute()
		},
	}
	ioPorts[0x39] = ioPort{
		name: "BBR",
		read: func(c *CPU) uint8 { return c.mmu.BBR },
		write: func(c *CPU, v uint8) {
			c.mmu.BBR = v
			c.mmu.Recompute()
		},
	}
	ioPorts[0x3A] = ioPort{
		name: "CBAR",
		read: func(c *CPU) uint8 { return c.mmu.CBAR },
		write: func(c *CPU, v uint8) {
			c.mmu.CBAR = v
			c.mmu.Recompute()
		},
	}
	ioPorts[0x3B] = absent("IO3B")
	ioPorts[0x3C] = absent("IO3C")
	ioPorts[0x3D] = absent("IO3D")
	ioPorts[0x3E] = ioPort{
		name:  "OMCR",
		read:  func(c *CPU) uint8 { return c.regs.omcr | omcrM1TE | ^uint8(omcrMask) },
		write: func(c *CPU, v uint8) { c.regs.omcr = v & omcrMask },
	}
	ioPorts[0x3F] = ioPort{
		name:  "IOCR",
		read:  func(c *CPU) uint8 { return c.regs.iocr | ^uint8(iocrMask) },
		write: func(c *CPU, v uint8) { c.regs.iocr = v & iocrMask },
	}
}

// internalOffset maps an I/O port to its internal register index. ok is
// false when the port lies outside the relocatable 64 byte window.
func (c *CPU) internalOffset(port uint16) (int, bool) {
	base := uint16(c.regs.iocr & iocrBase)
	if port&0xFFC0 != base {
		return 0, false
	}
	return int(port - base), true
}

// ReadControl reads an I/O port the way the CPU does for internal register
// accesses: the external space sees the cycle, then an internal register in
// the window overrides the data.
func (c *CPU) ReadControl(port uint16) uint8 {
	data := c.io.Read(uint32(port))
	if off, ok := c.internalOffset(port); ok {
		p := &ioPorts[off]
		data = p.read(c)
		c.log.Debug("z180 internal read", "reg", p.name, "value", data)
	}
	return data
}

// WriteControl writes an I/O port; the external space sees the cycle and an
// internal register in the window stores the masked data.
func (c *CPU) WriteControl(port uint16, v uint8) {
	c.io.Write(uint32(port), v)
	if off, ok := c.internalOffset(port); ok {
		p := &ioPorts[off]
		c.log.Debug("z180 internal write", "reg", p.name, "value", v)
		p.write(c, v)
	}
}

// RegisterName returns the name of internal register off (0-63).
func RegisterName(off int) string {
	return ioPorts[off&63].name
}

func (c *CPU) writeDSTAT(v uint8) {
	r := &c.regs
	dstat := r.dstat&(dstatDE1|dstatDE0|dstatDME) | v&(dstatDIE1|dstatDIE0)
	// DEn only changes when its write-enable companion is written as 0
	if v&dstatDWE1 == 0 {
		dstat = dstat&^dstatDE1 | v&dstatDE1
	}
	if v&dstatDWE0 == 0 {
		dstat = dstat&^dstatDE0 | v&dstatDE0
	}
	if v&(dstatDE1|dstatDWE1) == dstatDE1 {
		dstat |= dstatDME
		c.iol &^= uint32(IOTEND1)
	}
	if v&(dstatDE0|dstatDWE0) == dstatDE0 {
		dstat |= dstatDME
		c.iol &^= uint32(IOTEND0)
	}
	r.dstat = dstat | dstatDWE1 | dstatDWE0
}
