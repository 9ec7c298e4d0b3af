package cpu

func (c *CPU) add(v uint8) {
	a := c.A()
	res := a + v
	c.SetF(c.ft.Add[int(a)<<8|int(res)])
	c.SetA(res)
}

func (c *CPU) adc(v uint8) {
	a := c.A()
	carry := c.F() & FlagC
	res := a + v + carry
	c.SetF(c.ft.Add[int(carry)<<16|int(a)<<8|int(res)])
	c.SetA(res)
}

func (c *CPU) sub(v uint8) {
	a := c.A()
	res := a - v
	c.SetF(c.ft.Sub[int(a)<<8|int(res)])
	c.SetA(res)
}

func (c *CPU) sbc(v uint8) {
	a := c.A()
	carry := c.F() & FlagC
	res := a - v - carry
	c.SetF(c.ft.Sub[int(carry)<<16|int(a)<<8|int(res)])
	c.SetA(res)
}

func (c *CPU) and(v uint8) {
	a := c.A() & v
	c.SetA(a)
	c.SetF(c.ft.SZP[a] | FlagH)
}

func (c *CPU) or(v uint8) {
	a := c.A() | v
	c.SetA(a)
	c.SetF(c.ft.SZP[a])
}

func (c *CPU) xor(v uint8) {
	a := c.A() ^ v
	c.SetA(a)
	c.SetF(c.ft.SZP[a])
}

// cp takes bits 5 and 3 from the operand, not the result.
func (c *CPU) cp(v uint8) {
	a := c.A()
	res := a - v
	c.SetF(c.ft.Sub[int(a)<<8|int(res)]&^(Flag5|Flag3) | v&(Flag5|Flag3))
}

// alu dispatches on the y field of the 8-bit arithmetic opcodes.
func (c *CPU) alu(y uint8, v uint8) {
	switch y {
	case 0:
		c.add(v)
	case 1:
		c.adc(v)
	case 2:
		c.sub(v)
	case 3:
		c.sbc(v)
	case 4:
		c.and(v)
	case 5:
		c.xor(v)
	case 6:
		c.or(v)
	default:
		c.cp(v)
	}
}

func (c *CPU) inc(v uint8) uint8 {
	v++
	c.SetF(c.F()&FlagC | c.ft.SZHVInc[v])
	return v
}

func (c *CPU) dec(v uint8) uint8 {
	v--
	c.SetF(c.F()&FlagC | c.ft.SZHVDec[v])
	return v
}

func (c *CPU) neg() {
	v := c.A()
	c.SetA(0)
	c.sub(v)
}

func (c *CPU) daa() {
	a := c.A()
	f := c.F()
	res := a
	if f&FlagN != 0 {
		if f&FlagH != 0 || a&0x0F > 9 {
			res -= 6
		}
		if f&FlagC != 0 || a > 0x99 {
			res -= 0x60
		}
	} else {
		if f&FlagH != 0 || a&0x0F > 9 {
			res += 6
		}
		if f&FlagC != 0 || a > 0x99 {
			res += 0x60
		}
	}
	nf := f&(FlagC|FlagN) | (a^res)&FlagH | c.ft.SZP[res]
	if a > 0x99 {
		nf |= FlagC
	}
	c.SetF(nf)
	c.SetA(res)
}

// Accumulator rotates keep S, Z and P.
func (c *CPU) rlca() {
	a := c.A()
	a = a<<1 | a>>7
	c.SetA(a)
	c.SetF(c.F()&(FlagS|FlagZ|FlagP) | a&(Flag5|Flag3|FlagC))
}

func (c *CPU) rrca() {
	a := c.A()
	f := c.F()&(FlagS|FlagZ|FlagP) | a&FlagC
	a = a>>1 | a<<7
	c.SetA(a)
	c.SetF(f | a&(Flag5|Flag3))
}

func (c *CPU) rla() {
	a := c.A()
	res := a<<1 | c.F()&FlagC
	f := c.F()&(FlagS|FlagZ|FlagP) | res&(Flag5|Flag3)
	if a&0x80 != 0 {
		f |= FlagC
	}
	c.SetA(res)
	c.SetF(f)
}

func (c *CPU) rra() {
	a := c.A()
	res := a>>1 | c.F()<<7
	f := c.F()&(FlagS|FlagZ|FlagP) | res&(Flag5|Flag3) | a&FlagC
	c.SetA(res)
	c.SetF(f)
}

func (c *CPU) cpl() {
	a := c.A() ^ 0xFF
	c.SetA(a)
	c.SetF(c.F()&(FlagS|FlagZ|FlagP|FlagC) | FlagH | FlagN | a&(Flag5|Flag3))
}

func (c *CPU) scf() {
	c.SetF(c.F()&(FlagS|FlagZ|FlagP) | FlagC | c.A()&(Flag5|Flag3))
}

func (c *CPU) ccf() {
	f := c.F()
	c.SetF((f&(FlagS|FlagZ|FlagP|FlagC) | (f&FlagC)<<4 | c.A()&(Flag5|Flag3)) ^ FlagC)
}

// rot performs the CB rotate/shift selected by y and sets S Z P C.
func (c *CPU) rot(y uint8, v uint8) uint8 {
	var res, carry uint8
	switch y {
	case 0: // RLC
		res, carry = v<<1|v>>7, v>>7
	case 1: // RRC
		res, carry = v>>1|v<<7, v&1
	case 2: // RL
		res, carry = v<<1|c.F()&FlagC, v>>7
	case 3: // RR
		res, carry = v>>1|c.F()<<7, v&1
	case 4: // SLA
		res, carry = v<<1, v>>7
	case 5: // SRA
		res, carry = v>>1|v&0x80, v&1
	case 6: // SLL
		res, carry = v<<1|1, v>>7
	default: // SRL
		res, carry = v>>1, v&1
	}
	c.SetF(c.ft.SZP[res] | carry)
	return res
}

func (c *CPU) bit(b uint8, v uint8) {
	c.SetF(c.F()&FlagC | FlagH | c.ft.SZBit[v&(1<<b)])
}

// bitMem takes bits 5 and 3 from the high byte of the effective address.
func (c *CPU) bitMem(b uint8, v uint8) {
	c.SetF(c.F()&FlagC | FlagH | c.ft.SZBit[v&(1<<b)]&^(Flag5|Flag3) | uint8(c.ea>>8)&(Flag5|Flag3))
}

func (c *CPU) add16(dst, src uint16) uint16 {
	res := uint32(dst) + uint32(src)
	c.SetF(c.F()&(FlagS|FlagZ|FlagV) |
		uint8((uint32(dst)^res^uint32(src))>>8)&FlagH |
		uint8(res>>16)&FlagC |
		uint8(res>>8)&(Flag5|Flag3))
	return uint16(res)
}

func (c *CPU) adc16(v uint16) {
	hl := uint32(c.HL)
	res := hl + uint32(v) + uint32(c.F()&FlagC)
	f := uint8((hl^res^uint32(v))>>8)&FlagH |
		uint8(res>>16)&FlagC |
		uint8(res>>8)&(FlagS|Flag5|Flag3) |
		uint8(((uint32(v)^hl^0x8000)&(uint32(v)^res)&0x8000)>>13)
	if res&0xFFFF == 0 {
		f |= FlagZ
	}
	c.SetF(f)
	c.HL = Pair(res)
}

func (c *CPU) sbc16(v uint16) {
	hl := uint32(c.HL)
	res := hl - uint32(v) - uint32(c.F()&FlagC)
	f := uint8((hl^res^uint32(v))>>8)&FlagH | FlagN |
		uint8(res>>16)&FlagC |
		uint8(res>>8)&(FlagS|Flag5|Flag3) |
		uint8(((uint32(v)^hl)&(hl^res)&0x8000)>>13)
	if res&0xFFFF == 0 {
		f |= FlagZ
	}
	c.SetF(f)
	c.HL = Pair(res)
}

// tst is the Z180 non-destructive AND.
func (c *CPU) tst(v uint8) {
	c.SetF(c.ft.SZP[c.A()&v] | FlagH)
}

// cond evaluates condition code y: NZ Z NC C PO PE P M.
func (c *CPU) cond(y uint8) bool {
	f := c.F()
	switch y {
	case 0:
		return f&FlagZ == 0
	case 1:
		return f&FlagZ != 0
	case 2:
		return f&FlagC == 0
	case 3:
		return f&FlagC != 0
	case 4:
		return f&FlagP == 0
	case 5:
		return f&FlagP != 0
	case 6:
		return f&FlagS == 0
	}
	return f&FlagS != 0
}
