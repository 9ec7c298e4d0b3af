package verify

// Reference accumulator arithmetic computed bit by bit from the operand and
// result carries, independent of the core's precomputed flag tables.

const (
	flagC uint8 = 0x01
	flagN uint8 = 0x02
	flagV uint8 = 0x04
	flag3 uint8 = 0x08
	flagH uint8 = 0x10
	flag5 uint8 = 0x20
	flagZ uint8 = 0x40
	flagS uint8 = 0x80
)

// Indexed by bit 3 of the operand, the accumulator and the result (H), or
// by bit 7 of the same three (V).
var (
	halfcarryAdd = [8]uint8{0, flagH, flagH, flagH, 0, 0, 0, flagH}
	halfcarrySub = [8]uint8{0, 0, flagH, 0, flagH, 0, flagH, flagH}
	overflowAdd  = [8]uint8{0, 0, 0, flagV, flagV, 0, 0, 0}
	overflowSub  = [8]uint8{0, flagV, 0, 0, 0, 0, flagV, 0}
)

var sz53, sz53p [256]uint8

func init() {
	for i := 0; i < 256; i++ {
		v := uint8(i)
		sz53[i] = v & (flagS | flag5 | flag3)
		if v == 0 {
			sz53[i] |= flagZ
		}
		p := v
		p ^= p >> 4
		p ^= p >> 2
		p ^= p >> 1
		sz53p[i] = sz53[i]
		if p&1 == 0 {
			sz53p[i] |= flagV
		}
	}
}

// Regs is the register slice the reference operations touch.
type Regs struct {
	A, F uint8
}

func bsel(cond bool, t, f uint8) uint8 {
	if cond {
		return t
	}
	return f
}

func lookup(a, v uint8, res uint16) uint8 {
	return (a&0x88)>>3 | (v&0x88)>>2 | uint8((res&0x88)>>1)
}

func refAdd(r *Regs, v uint8) {
	t := uint16(r.A) + uint16(v)
	l := lookup(r.A, v, t)
	r.A = uint8(t)
	r.F = bsel(t&0x100 != 0, flagC, 0) | halfcarryAdd[l&7] | overflowAdd[l>>4] | sz53[r.A]
}

func refAdc(r *Regs, v uint8) {
	t := uint16(r.A) + uint16(v) + uint16(r.F&flagC)
	l := lookup(r.A, v, t)
	r.A = uint8(t)
	r.F = bsel(t&0x100 != 0, flagC, 0) | halfcarryAdd[l&7] | overflowAdd[l>>4] | sz53[r.A]
}

func refSub(r *Regs, v uint8) {
	t := uint16(r.A) - uint16(v)
	l := lookup(r.A, v, t)
	r.A = uint8(t)
	r.F = bsel(t&0x100 != 0, flagC, 0) | flagN | halfcarrySub[l&7] | overflowSub[l>>4] | sz53[r.A]
}

func refSbc(r *Regs, v uint8) {
	t := uint16(r.A) - uint16(v) - uint16(r.F&flagC)
	l := lookup(r.A, v, t)
	r.A = uint8(t)
	r.F = bsel(t&0x100 != 0, flagC, 0) | flagN | halfcarrySub[l&7] | overflowSub[l>>4] | sz53[r.A]
}

func refAnd(r *Regs, v uint8) {
	r.A &= v
	r.F = flagH | sz53p[r.A]
}

func refOr(r *Regs, v uint8) {
	r.A |= v
	r.F = sz53p[r.A]
}

func refXor(r *Regs, v uint8) {
	r.A ^= v
	r.F = sz53p[r.A]
}

// CP takes bits 5 and 3 from the operand.
func refCp(r *Regs, v uint8) {
	t := uint16(r.A) - uint16(v)
	l := lookup(r.A, v, t)
	r.F = bsel(t&0x100 != 0, flagC, bsel(t != 0, 0, flagZ)) | flagN |
		halfcarrySub[l&7] | overflowSub[l>>4] |
		v&(flag3|flag5) | uint8(t)&flagS
}

func refInc(r *Regs, _ uint8) {
	r.A++
	r.F = r.F&flagC | bsel(r.A == 0x80, flagV, 0) | bsel(r.A&0x0F != 0, 0, flagH) | sz53[r.A]
}

func refDec(r *Regs, _ uint8) {
	r.F = r.F&flagC | bsel(r.A&0x0F != 0, 0, flagH) | flagN
	r.A--
	r.F |= bsel(r.A == 0x7F, flagV, 0) | sz53[r.A]
}
