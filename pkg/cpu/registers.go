package cpu

// Pair is a 16-bit register whose high and low bytes are also addressable
// as 8-bit registers.
type Pair uint16

// Hi returns the high byte.
func (p Pair) Hi() uint8 { return uint8(p >> 8) }

// Lo returns the low byte.
func (p Pair) Lo() uint8 { return uint8(p) }

// SetHi replaces the high byte.
func (p *Pair) SetHi(v uint8) { *p = *p&0x00FF | Pair(v)<<8 }

// SetLo replaces the low byte.
func (p *Pair) SetLo(v uint8) { *p = *p&0xFF00 | Pair(v) }

// Registers is the architectural register file.
type Registers struct {
	AF, BC, DE, HL     Pair
	IX, IY             Pair
	SP, PC             Pair
	AF2, BC2, DE2, HL2 Pair // alternate set

	I  uint8
	R  uint8 // refresh counter, bits 0-6 count
	R2 uint8 // bit 7 of R as last loaded

	IFF1, IFF2 bool
	IM         uint8
	Halt       bool
}

func (r *Registers) A() uint8       { return r.AF.Hi() }
func (r *Registers) SetA(v uint8)   { r.AF.SetHi(v) }
func (r *Registers) F() uint8       { return r.AF.Lo() }
func (r *Registers) SetF(v uint8)   { r.AF.SetLo(v) }
func (r *Registers) Refresh() uint8 { return r.R&0x7F | r.R2&0x80 }

// SetRefresh loads R as LD R,A does.
func (r *Registers) SetRefresh(v uint8) {
	r.R = v
	r.R2 = v & 0x80
}

// reg8 reads register index 0-7 (B C D E H L - A); index 6 is not a register.
func (r *Registers) reg8(i uint8) uint8 {
	switch i {
	case 0:
		return r.BC.Hi()
	case 1:
		return r.BC.Lo()
	case 2:
		return r.DE.Hi()
	case 3:
		return r.DE.Lo()
	case 4:
		return r.HL.Hi()
	case 5:
		return r.HL.Lo()
	case 7:
		return r.AF.Hi()
	}
	return 0
}

func (r *Registers) setReg8(i uint8, v uint8) {
	switch i {
	case 0:
		r.BC.SetHi(v)
	case 1:
		r.BC.SetLo(v)
	case 2:
		r.DE.SetHi(v)
	case 3:
		r.DE.SetLo(v)
	case 4:
		r.HL.SetHi(v)
	case 5:
		r.HL.SetLo(v)
	case 7:
		r.AF.SetHi(v)
	}
}

// rp returns the register pair selected by the p field: BC DE HL SP.
func (r *Registers) rp(p uint8) *Pair {
	switch p {
	case 0:
		return &r.BC
	case 1:
		return &r.DE
	case 2:
		return &r.HL
	}
	return &r.SP
}

// rp2 is rp with AF in place of SP, for PUSH and POP.
func (r *Registers) rp2(p uint8) *Pair {
	if p == 3 {
		return &r.AF
	}
	return r.rp(p)
}
