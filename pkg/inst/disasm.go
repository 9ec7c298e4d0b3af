package inst

import (
	"fmt"
	"strings"
)

// Disassemble decodes the instruction at pc. read fetches logical program
// bytes. It returns the text and the instruction length in bytes.
func Disassemble(read func(addr uint16) uint8, pc uint16) (string, int) {
	op := read(pc)
	n := 1
	var tmpl string
	switch op {
	case 0xCB:
		tmpl = Catalog[CB][read(pc+1)].Mnemonic
		n = 2
	case 0xED:
		tmpl = Catalog[ED][read(pc+1)].Mnemonic
		n = 2
	case 0xDD, 0xFD:
		table, name := DD, "IX"
		if op == 0xFD {
			table, name = FD, "IY"
		}
		op2 := read(pc + 1)
		switch op2 {
		case 0xDD, 0xED, 0xFD:
			// the first prefix is dropped by the CPU
			return "NOP", 1
		case 0xCB:
			d := int8(read(pc + 2))
			tmpl = Catalog[XYCB][read(pc+3)].Mnemonic
			tmpl = strings.Replace(tmpl, "(IX+d)", indexed(name, d), 1)
			return tmpl, 4
		}
		tmpl = Catalog[table][op2].Mnemonic
		n = 2
	default:
		tmpl = Catalog[Op][op].Mnemonic
	}

	if i := strings.Index(tmpl, "+d)"); i >= 0 {
		d := int8(read(pc + uint16(n)))
		n++
		tmpl = strings.Replace(tmpl, tmpl[i-3:i+3], indexed(tmpl[i-2:i], d), 1)
	}
	switch {
	case strings.Contains(tmpl, "nn"):
		v := uint16(read(pc+uint16(n))) | uint16(read(pc+uint16(n)+1))<<8
		n += 2
		tmpl = strings.Replace(tmpl, "nn", fmt.Sprintf("$%04X", v), 1)
	case strings.Contains(tmpl, "n"):
		v := read(pc + uint16(n))
		n++
		tmpl = strings.Replace(tmpl, "n", fmt.Sprintf("$%02X", v), 1)
	case strings.HasSuffix(tmpl, "e"):
		e := int8(read(pc + uint16(n)))
		n++
		target := pc + uint16(n) + uint16(e)
		tmpl = tmpl[:len(tmpl)-1] + fmt.Sprintf("$%04X", target)
	}
	return tmpl, n
}

func indexed(reg string, d int8) string {
	if d < 0 {
		return fmt.Sprintf("(%s-$%02X)", reg, -int(d))
	}
	return fmt.Sprintf("(%s+$%02X)", reg, d)
}
