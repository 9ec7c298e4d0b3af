package cpu

import "github.com/oisee/z180emu/pkg/inst"

// buildED builds the ED page. Codes the Z180 does not define execute as
// two-byte no-ops and are logged at debug level.
func buildED() (t [256]opFunc) {
	for i := range t {
		t[i] = func(*CPU) {}
	}
	for i := 0; i < 0x80; i++ {
		op := uint8(i)
		x, y, z := op>>6, (op>>3)&7, op&7
		p, q := y>>1, y&1
		if x == 0 {
			switch z {
			case 0:
				t[i] = func(c *CPU) {
					v := c.in(uint16(c.arg()))
					c.SetF(c.F()&FlagC | c.ft.SZP[v])
					if y != 6 {
						c.setReg8(y, v)
					}
				}
			case 1:
				if y != 6 {
					t[i] = func(c *CPU) { c.out(uint16(c.arg()), c.reg8(y)) }
				}
			case 4:
				get := get8(y, nil, true)
				t[i] = func(c *CPU) { c.tst(get(c)) }
			}
			continue
		}
		switch z {
		case 0:
			t[i] = func(c *CPU) {
				v := c.in(uint16(c.BC))
				c.SetF(c.F()&FlagC | c.ft.SZP[v])
				if y != 6 {
					c.setReg8(y, v)
				}
			}
		case 1:
			if y != 6 {
				t[i] = func(c *CPU) { c.out(uint16(c.BC), c.reg8(y)) }
			}
		case 2:
			if q == 0 {
				t[i] = func(c *CPU) { c.sbc16(uint16(*c.rp(p))) }
			} else {
				t[i] = func(c *CPU) { c.adc16(uint16(*c.rp(p))) }
			}
		case 3:
			if q == 0 {
				t[i] = func(c *CPU) { c.wm16(c.arg16(), uint16(*c.rp(p))) }
			} else {
				t[i] = func(c *CPU) { *c.rp(p) = Pair(c.rm16(c.arg16())) }
			}
		case 4:
			if q == 1 {
				// MLT rr
				t[i] = func(c *CPU) {
					r := c.rp(p)
					*r = Pair(uint16(r.Hi()) * uint16(r.Lo()))
				}
			}
		}
	}

	t[0x44] = (*CPU).neg
	t[0x45] = func(c *CPU) {
		c.PC = Pair(c.pop())
		c.IFF1 = c.IFF2
	}
	t[0x4D] = func(c *CPU) {
		c.PC = Pair(c.pop())
		c.IFF1 = c.IFF2
		if c.daisy != nil {
			c.daisy.RETI()
		}
	}
	t[0x46] = func(c *CPU) { c.IM = 0 }
	t[0x56] = func(c *CPU) { c.IM = 1 }
	t[0x5E] = func(c *CPU) { c.IM = 2 }
	t[0x47] = func(c *CPU) { c.I = c.A() }
	t[0x4F] = func(c *CPU) { c.SetRefresh(c.A()) }
	t[0x57] = func(c *CPU) { c.loadSpecial(c.I) }
	t[0x5F] = func(c *CPU) { c.loadSpecial(c.Refresh()) }
	t[0x67] = (*CPU).rrd
	t[0x6F] = (*CPU).rld
	t[0x64] = func(c *CPU) { c.tst(c.arg()) }
	t[0x74] = func(c *CPU) {
		n := c.arg()
		v := c.in(uint16(c.BC.Lo()))
		c.SetF(c.ft.SZP[v&n] | FlagH)
	}
	t[0x76] = (*CPU).enterHalt

	t[0x83] = func(c *CPU) { c.otm(1) }
	t[0x8B] = func(c *CPU) { c.otm(-1) }
	t[0x93] = repeatWhile(0x93, func(c *CPU) bool { c.otm(1); return c.BC.Hi() != 0 })
	t[0x9B] = repeatWhile(0x9B, func(c *CPU) bool { c.otm(-1); return c.BC.Hi() != 0 })

	t[0xA0] = func(c *CPU) { c.ldx(1) }
	t[0xA8] = func(c *CPU) { c.ldx(-1) }
	t[0xA1] = func(c *CPU) { c.cpx(1) }
	t[0xA9] = func(c *CPU) { c.cpx(-1) }
	t[0xA2] = func(c *CPU) { c.inx(1) }
	t[0xAA] = func(c *CPU) { c.inx(-1) }
	t[0xA3] = func(c *CPU) { c.outx(1) }
	t[0xAB] = func(c *CPU) { c.outx(-1) }

	t[0xB0] = repeatWhile(0xB0, func(c *CPU) bool { c.ldx(1); return c.BC != 0 })
	t[0xB8] = repeatWhile(0xB8, func(c *CPU) bool { c.ldx(-1); return c.BC != 0 })
	t[0xB1] = repeatWhile(0xB1, func(c *CPU) bool { c.cpx(1); return c.BC != 0 && c.F()&FlagZ == 0 })
	t[0xB9] = repeatWhile(0xB9, func(c *CPU) bool { c.cpx(-1); return c.BC != 0 && c.F()&FlagZ == 0 })
	t[0xB2] = repeatWhile(0xB2, func(c *CPU) bool { c.inx(1); return c.BC.Hi() != 0 })
	t[0xBA] = repeatWhile(0xBA, func(c *CPU) bool { c.inx(-1); return c.BC.Hi() != 0 })
	t[0xB3] = repeatWhile(0xB3, func(c *CPU) bool { c.outx(1); return c.BC.Hi() != 0 })
	t[0xBB] = repeatWhile(0xBB, func(c *CPU) bool { c.outx(-1); return c.BC.Hi() != 0 })

	for i := range t {
		if !inst.Catalog[inst.ED][i].Defined {
			op := uint8(i)
			t[i] = func(c *CPU) {
				c.log.Debug("z180 undefined opcode", "prefix", "ED", "op", op, "pc", uint16(c.PC))
			}
		}
	}
	return t
}

// repeatWhile wraps one iteration of a block instruction. While more
// remains the instruction re-executes itself by stepping PC back over
// its two opcode bytes, which lets interrupts in between iterations.
func repeatWhile(op uint8, once func(c *CPU) bool) opFunc {
	extra := inst.Extra(inst.ED, op)
	return func(c *CPU) {
		if once(c) {
			c.PC -= 2
			c.extra += extra
		}
	}
}

// loadSpecial is LD A,I and LD A,R: P/V reports IFF2.
func (c *CPU) loadSpecial(v uint8) {
	c.SetA(v)
	f := c.F()&FlagC | c.ft.SZ[v]
	if c.IFF2 {
		f |= FlagP
	}
	c.SetF(f)
}

func (c *CPU) rrd() {
	n := c.rm(uint16(c.HL))
	a := c.A()
	c.wm(uint16(c.HL), n>>4|a<<4)
	a = a&0xF0 | n&0x0F
	c.SetA(a)
	c.SetF(c.F()&FlagC | c.ft.SZP[a])
}

func (c *CPU) rld() {
	n := c.rm(uint16(c.HL))
	a := c.A()
	c.wm(uint16(c.HL), n<<4|a&0x0F)
	a = a&0xF0 | n>>4
	c.SetA(a)
	c.SetF(c.F()&FlagC | c.ft.SZP[a])
}

func (c *CPU) ldx(dir int) {
	v := c.rm(uint16(c.HL))
	c.wm(uint16(c.DE), v)
	c.HL += Pair(dir)
	c.DE += Pair(dir)
	c.BC--
	n := c.A() + v
	f := c.F() & (FlagS | FlagZ | FlagC)
	if n&0x02 != 0 {
		f |= Flag5
	}
	if n&0x08 != 0 {
		f |= Flag3
	}
	if c.BC != 0 {
		f |= FlagV
	}
	c.SetF(f)
}

func (c *CPU) cpx(dir int) {
	v := c.rm(uint16(c.HL))
	a := c.A()
	res := a - v
	c.HL += Pair(dir)
	c.BC--
	f := c.F()&FlagC | c.ft.SZ[res]&^(Flag5|Flag3) | (a^v^res)&FlagH | FlagN
	if f&FlagH != 0 {
		res--
	}
	if res&0x02 != 0 {
		f |= Flag5
	}
	if res&0x08 != 0 {
		f |= Flag3
	}
	if c.BC != 0 {
		f |= FlagV
	}
	c.SetF(f)
}

// blockIOFlags computes the flags shared by the block I/O instructions
// from the transferred byte and the adjusted counter t.
func (c *CPU) blockIOFlags(v uint8, t uint) {
	b := c.BC.Hi()
	f := c.ft.SZ[b]
	if v&FlagS != 0 {
		f |= FlagN
	}
	if t&0x100 != 0 {
		f |= FlagH | FlagC
	}
	f |= c.ft.SZP[uint8(t&0x07)^b] & FlagP
	c.SetF(f)
}

func (c *CPU) inx(dir int) {
	v := c.in(uint16(c.BC))
	c.BC.SetHi(c.BC.Hi() - 1)
	c.wm(uint16(c.HL), v)
	c.HL += Pair(dir)
	c.blockIOFlags(v, uint(uint8(int(c.BC.Lo())+dir))+uint(v))
}

func (c *CPU) outx(dir int) {
	v := c.rm(uint16(c.HL))
	c.BC.SetHi(c.BC.Hi() - 1)
	c.out(uint16(c.BC), v)
	c.HL += Pair(dir)
	c.blockIOFlags(v, uint(c.HL.Lo())+uint(v))
}

// otm is OTIM/OTDM: output (HL) to port C in page zero, then step HL
// and C together.
func (c *CPU) otm(dir int) {
	c.BC.SetHi(c.BC.Hi() - 1)
	c.out(uint16(c.BC.Lo()), c.rm(uint16(c.HL)))
	c.HL += Pair(dir)
	c.BC.SetLo(c.BC.Lo() + uint8(dir))
	if c.BC.Hi() != 0 {
		c.SetF(FlagN)
	} else {
		c.SetF(FlagN | FlagZ)
	}
}
