package cpu

import "github.com/oisee/z180emu/pkg/inst"

type opFunc func(c *CPU)

// index selects the register that stands in for HL: nil for the plain
// table, IX or IY for the DD and FD tables.
type index func(c *CPU) *Pair

// Dispatch tables, one per opcode page.
var baseOps, ddOps, fdOps, cbOps, xycbOps, edOps [256]opFunc

func init() {
	baseOps = buildMain(nil, inst.Op)
	ddOps = buildMain(func(c *CPU) *Pair { return &c.IX }, inst.DD)
	fdOps = buildMain(func(c *CPU) *Pair { return &c.IY }, inst.FD)
	cbOps = buildCB()
	xycbOps = buildXYCB()
	edOps = buildED()
}

func opCost(op uint8) int { return inst.TStates(inst.Op, op) }

// get8 returns a reader for register i (B C D E H L (HL) A). In an index
// table H and L become the index register halves unless the instruction
// also addresses memory, and (HL) becomes (IX+d) at c.ea.
func get8(i uint8, ix index, mem bool) func(*CPU) uint8 {
	switch {
	case i == 6 && ix == nil:
		return func(c *CPU) uint8 { return c.rm(uint16(c.HL)) }
	case i == 6:
		return func(c *CPU) uint8 { return c.rm(c.ea) }
	case ix != nil && !mem && i == 4:
		return func(c *CPU) uint8 { return ix(c).Hi() }
	case ix != nil && !mem && i == 5:
		return func(c *CPU) uint8 { return ix(c).Lo() }
	}
	return func(c *CPU) uint8 { return c.reg8(i) }
}

func set8(i uint8, ix index, mem bool) func(*CPU, uint8) {
	switch {
	case i == 6 && ix == nil:
		return func(c *CPU, v uint8) { c.wm(uint16(c.HL), v) }
	case i == 6:
		return func(c *CPU, v uint8) { c.wm(c.ea, v) }
	case ix != nil && !mem && i == 4:
		return func(c *CPU, v uint8) { ix(c).SetHi(v) }
	case ix != nil && !mem && i == 5:
		return func(c *CPU, v uint8) { ix(c).SetLo(v) }
	}
	return func(c *CPU, v uint8) { c.setReg8(i, v) }
}

// usesMem reports whether op addresses (HL), which becomes (IX+d) with a
// displacement byte under a DD or FD prefix.
func usesMem(op uint8) bool {
	x, y, z := op>>6, (op>>3)&7, op&7
	switch x {
	case 0:
		return op == 0x34 || op == 0x35 || op == 0x36
	case 1:
		return op != 0x76 && (y == 6 || z == 6)
	case 2:
		return z == 6
	}
	return false
}

func buildMain(ix index, prefix inst.Prefix) (t [256]opFunc) {
	for i := range t {
		op := uint8(i)
		f := mainOp(op, ix, prefix)
		if ix != nil && usesMem(op) {
			inner := f
			f = func(c *CPU) {
				c.disp(*ix(c))
				inner(c)
			}
		}
		t[i] = f
	}
	return t
}

// mainOp builds the handler for one unprefixed opcode, or its DD/FD form.
func mainOp(op uint8, ix index, prefix inst.Prefix) opFunc {
	x, y, z := op>>6, (op>>3)&7, op&7
	p, q := y>>1, y&1
	extra := inst.Extra(prefix, op)

	hl := ix
	if hl == nil {
		hl = func(c *CPU) *Pair { return &c.HL }
	}
	// rp with HL replaced by the index register
	rpx := func(c *CPU, p uint8) *Pair {
		if p == 2 {
			return hl(c)
		}
		return c.rp(p)
	}
	mem := usesMem(op)

	switch x {
	case 0:
		switch z {
		case 0:
			switch y {
			case 0:
				return func(*CPU) {}
			case 1:
				return func(c *CPU) { c.AF, c.AF2 = c.AF2, c.AF }
			case 2:
				return func(c *CPU) {
					e := int8(c.arg())
					c.BC.SetHi(c.BC.Hi() - 1)
					if c.BC.Hi() != 0 {
						c.PC += Pair(e)
						c.extra += extra
					}
				}
			case 3:
				return func(c *CPU) {
					e := int8(c.arg())
					c.PC += Pair(e)
				}
			}
			cc := y - 4
			return func(c *CPU) {
				e := int8(c.arg())
				if c.cond(cc) {
					c.PC += Pair(e)
					c.extra += extra
				}
			}
		case 1:
			if q == 0 {
				return func(c *CPU) { *rpx(c, p) = Pair(c.arg16()) }
			}
			return func(c *CPU) {
				r := hl(c)
				*r = Pair(c.add16(uint16(*r), uint16(*rpx(c, p))))
			}
		case 2:
			switch op {
			case 0x02:
				return func(c *CPU) { c.wm(uint16(c.BC), c.A()) }
			case 0x12:
				return func(c *CPU) { c.wm(uint16(c.DE), c.A()) }
			case 0x22:
				return func(c *CPU) { c.wm16(c.arg16(), uint16(*hl(c))) }
			case 0x32:
				return func(c *CPU) { c.wm(c.arg16(), c.A()) }
			case 0x0A:
				return func(c *CPU) { c.SetA(c.rm(uint16(c.BC))) }
			case 0x1A:
				return func(c *CPU) { c.SetA(c.rm(uint16(c.DE))) }
			case 0x2A:
				return func(c *CPU) { *hl(c) = Pair(c.rm16(c.arg16())) }
			}
			return func(c *CPU) { c.SetA(c.rm(c.arg16())) }
		case 3:
			if q == 0 {
				return func(c *CPU) { *rpx(c, p)++ }
			}
			return func(c *CPU) { *rpx(c, p)-- }
		case 4:
			get, set := get8(y, ix, mem), set8(y, ix, mem)
			return func(c *CPU) { set(c, c.inc(get(c))) }
		case 5:
			get, set := get8(y, ix, mem), set8(y, ix, mem)
			return func(c *CPU) { set(c, c.dec(get(c))) }
		case 6:
			set := set8(y, ix, mem)
			return func(c *CPU) { set(c, c.arg()) }
		}
		return [8]opFunc{
			(*CPU).rlca, (*CPU).rrca, (*CPU).rla, (*CPU).rra,
			(*CPU).daa, (*CPU).cpl, (*CPU).scf, (*CPU).ccf,
		}[y]

	case 1:
		if op == 0x76 {
			return (*CPU).enterHalt
		}
		get, set := get8(z, ix, mem), set8(y, ix, mem)
		return func(c *CPU) { set(c, get(c)) }

	case 2:
		get := get8(z, ix, mem)
		return func(c *CPU) { c.alu(y, get(c)) }
	}

	switch z {
	case 0:
		return func(c *CPU) {
			if c.cond(y) {
				c.PC = Pair(c.pop())
				c.extra += extra
			}
		}
	case 1:
		if q == 0 {
			return func(c *CPU) {
				if p == 2 {
					*hl(c) = Pair(c.pop())
					return
				}
				*c.rp2(p) = Pair(c.pop())
			}
		}
		switch p {
		case 0:
			return func(c *CPU) { c.PC = Pair(c.pop()) }
		case 1:
			return func(c *CPU) {
				c.BC, c.BC2 = c.BC2, c.BC
				c.DE, c.DE2 = c.DE2, c.DE
				c.HL, c.HL2 = c.HL2, c.HL
			}
		case 2:
			return func(c *CPU) { c.PC = *hl(c) }
		}
		return func(c *CPU) { c.SP = *hl(c) }
	case 2:
		return func(c *CPU) {
			addr := c.arg16()
			if c.cond(y) {
				c.PC = Pair(addr)
				c.extra += extra
			}
		}
	case 3:
		switch y {
		case 0:
			return func(c *CPU) { c.PC = Pair(c.arg16()) }
		case 1:
			if ix != nil {
				return func(c *CPU) {
					c.disp(*ix(c))
					op2 := c.arg()
					xycbOps[op2](c)
					c.extra += inst.TStates(inst.XYCB, op2)
				}
			}
			return func(c *CPU) {
				op2 := c.rop()
				c.R++
				cbOps[op2](c)
				c.extra += inst.TStates(inst.CB, op2)
			}
		case 2:
			return func(c *CPU) {
				port := uint16(c.arg()) | uint16(c.A())<<8
				c.out(port, c.A())
			}
		case 3:
			return func(c *CPU) {
				port := uint16(c.arg()) | uint16(c.A())<<8
				c.SetA(c.in(port))
			}
		case 4:
			return func(c *CPU) {
				r := hl(c)
				v := c.rm16(uint16(c.SP))
				c.wm16(uint16(c.SP), uint16(*r))
				*r = Pair(v)
			}
		case 5:
			return func(c *CPU) { c.DE, c.HL = c.HL, c.DE }
		case 6:
			return func(c *CPU) { c.IFF1, c.IFF2 = false, false }
		}
		return func(c *CPU) {
			c.IFF1, c.IFF2 = true, true
			c.afterEI = true
		}
	case 4:
		return func(c *CPU) {
			addr := c.arg16()
			if c.cond(y) {
				c.push(uint16(c.PC))
				c.PC = Pair(addr)
				c.extra += extra
			}
		}
	case 5:
		if q == 0 {
			return func(c *CPU) {
				if p == 2 {
					c.push(uint16(*hl(c)))
					return
				}
				c.push(uint16(*c.rp2(p)))
			}
		}
		switch p {
		case 0:
			return func(c *CPU) {
				addr := c.arg16()
				c.push(uint16(c.PC))
				c.PC = Pair(addr)
			}
		case 1:
			return prefixed(&ddOps, inst.DD)
		case 2:
			return prefixed(&edOps, inst.ED)
		}
		return prefixed(&fdOps, inst.FD)
	case 6:
		return func(c *CPU) { c.alu(y, c.arg()) }
	}
	return func(c *CPU) {
		c.push(uint16(c.PC))
		c.PC = Pair(y) * 8
	}
}

// prefixed fetches the next opcode and runs it from table t, charging
// that table's cost on top of the prefix. A DD or FD followed by another
// prefix is dropped: it ends here at NOP cost and the following prefix is
// fetched as a new instruction.
func prefixed(t *[256]opFunc, p inst.Prefix) opFunc {
	return func(c *CPU) {
		if p != inst.ED {
			switch next := c.ReadLogical(uint16(c.PC)); next {
			case 0xDD, 0xED, 0xFD:
				c.extra += inst.TStates(p, next)
				return
			}
		}
		op := c.rop()
		c.R++
		t[op](c)
		c.extra += inst.TStates(p, op)
	}
}
