package cpu

func buildCB() (t [256]opFunc) {
	for i := range t {
		op := uint8(i)
		x, y, z := op>>6, (op>>3)&7, op&7
		get, set := get8(z, nil, true), set8(z, nil, true)
		switch x {
		case 0:
			t[i] = func(c *CPU) { set(c, c.rot(y, get(c))) }
		case 1:
			if z == 6 {
				t[i] = func(c *CPU) {
					c.ea = uint16(c.HL)
					c.bitMem(y, get(c))
				}
			} else {
				t[i] = func(c *CPU) { c.bit(y, get(c)) }
			}
		case 2:
			t[i] = func(c *CPU) { set(c, get(c)&^(1<<y)) }
		default:
			t[i] = func(c *CPU) { set(c, get(c)|1<<y) }
		}
	}
	return t
}

// buildXYCB builds the DDCB/FDCB page. c.ea already holds IX+d or IY+d.
// Rotates and RES/SET also copy the result to register z unless z is 6.
func buildXYCB() (t [256]opFunc) {
	for i := range t {
		op := uint8(i)
		x, y, z := op>>6, (op>>3)&7, op&7
		store := func(c *CPU, v uint8) {
			c.wm(c.ea, v)
			if z != 6 {
				c.setReg8(z, v)
			}
		}
		switch x {
		case 0:
			t[i] = func(c *CPU) { store(c, c.rot(y, c.rm(c.ea))) }
		case 1:
			t[i] = func(c *CPU) { c.bitMem(y, c.rm(c.ea)) }
		case 2:
			t[i] = func(c *CPU) { store(c, c.rm(c.ea)&^(1<<y)) }
		default:
			t[i] = func(c *CPU) { store(c, c.rm(c.ea)|1<<y) }
		}
	}
	return t
}
