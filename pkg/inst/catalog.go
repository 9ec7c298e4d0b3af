package inst

import "fmt"

// Info holds static metadata for one opcode of one prefix table.
type Info struct {
	Mnemonic string // template; lowercase n, nn, e and d mark operand bytes
	TStates  int    // cost, not-taken cost for conditionals
	Extra    int    // added when a conditional is taken or a block op repeats
	Defined  bool
}

// Catalog maps every (prefix, opcode) pair to its Info.
var Catalog [PrefixCount][256]Info

// TStates returns the base cost of op in table p.
func TStates(p Prefix, op uint8) int {
	return Catalog[p][op].TStates
}

// Extra returns the taken-branch or repeat penalty of op in table p.
func Extra(p Prefix, op uint8) int {
	return Catalog[p][op].Extra
}

var (
	regNames = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}
	rpNames  = [4]string{"BC", "DE", "HL", "SP"}
	rp2Names = [4]string{"BC", "DE", "HL", "AF"}
	ccNames  = [8]string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"}
	aluNames = [8]string{"ADD A,", "ADC A,", "SUB ", "SBC A,", "AND ", "XOR ", "OR ", "CP "}
	rotNames = [8]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SLL", "SRL"}
	x0z7     = [8]string{"RLCA", "RRCA", "RLA", "RRA", "DAA", "CPL", "SCF", "CCF"}
)

// operands resolves the register names for an unprefixed opcode, or for the
// index form when ix names IX or IY. Instructions touching the memory
// operand keep H and L; the rest use the undocumented index halves.
type operands struct {
	hl, mem string
	ix      string
}

func (o operands) reg(i uint8, halves bool) string {
	switch i {
	case 4:
		if o.ix != "" && halves {
			return o.ix + "H"
		}
	case 5:
		if o.ix != "" && halves {
			return o.ix + "L"
		}
	case 6:
		return o.mem
	}
	return regNames[i]
}

func (o operands) rp(p uint8) string {
	if p == 2 {
		return o.hl
	}
	return rpNames[p]
}

func (o operands) rp2(p uint8) string {
	if p == 2 {
		return o.hl
	}
	return rp2Names[p]
}

func baseMnemonic(op uint8, o operands) string {
	x, y, z := op>>6, (op>>3)&7, op&7
	p, q := y>>1, y&1
	switch x {
	case 0:
		switch z {
		case 0:
			switch y {
			case 0:
				return "NOP"
			case 1:
				return "EX AF,AF'"
			case 2:
				return "DJNZ e"
			case 3:
				return "JR e"
			}
			return "JR " + ccNames[y-4] + ",e"
		case 1:
			if q == 0 {
				return "LD " + o.rp(p) + ",nn"
			}
			return "ADD " + o.hl + "," + o.rp(p)
		case 2:
			ind := [4]string{"(BC)", "(DE)", "(nn)", "(nn)"}
			val := "A"
			if p == 2 {
				val = o.hl
			}
			if q == 0 {
				return "LD " + ind[p] + "," + val
			}
			return "LD " + val + "," + ind[p]
		case 3:
			if q == 0 {
				return "INC " + o.rp(p)
			}
			return "DEC " + o.rp(p)
		case 4:
			return "INC " + o.reg(y, true)
		case 5:
			return "DEC " + o.reg(y, true)
		case 6:
			return "LD " + o.reg(y, true) + ",n"
		}
		return x0z7[y]
	case 1:
		if y == 6 && z == 6 {
			return "HALT"
		}
		halves := y != 6 && z != 6
		return "LD " + o.reg(y, halves) + "," + o.reg(z, halves)
	case 2:
		return aluNames[y] + o.reg(z, true)
	}
	switch z {
	case 0:
		return "RET " + ccNames[y]
	case 1:
		if q == 0 {
			return "POP " + o.rp2(p)
		}
		return [4]string{"RET", "EXX", "JP (" + o.hl + ")", "LD SP," + o.hl}[p]
	case 2:
		return "JP " + ccNames[y] + ",nn"
	case 3:
		return [8]string{"JP nn", "prefix CB", "OUT (n),A", "IN A,(n)",
			"EX (SP)," + o.hl, "EX DE,HL", "DI", "EI"}[y]
	case 4:
		return "CALL " + ccNames[y] + ",nn"
	case 5:
		if q == 0 {
			return "PUSH " + o.rp2(p)
		}
		return [4]string{"CALL nn", "prefix DD", "prefix ED", "prefix FD"}[p]
	case 6:
		return aluNames[y] + "n"
	}
	return fmt.Sprintf("RST %02XH", y*8)
}

func cbMnemonic(op uint8, mem string) string {
	x, y, z := op>>6, (op>>3)&7, op&7
	target := regNames[z]
	suffix := ""
	if mem != "" {
		target = mem
		if z != 6 && x != 1 {
			suffix = "," + regNames[z]
		}
	}
	switch x {
	case 0:
		return rotNames[y] + " " + target + suffix
	case 1:
		return fmt.Sprintf("BIT %d,%s", y, target)
	case 2:
		return fmt.Sprintf("RES %d,%s%s", y, target, suffix)
	}
	return fmt.Sprintf("SET %d,%s%s", y, target, suffix)
}

var edNamed = map[uint8]string{
	0x30: "IN0 (n)", 0x34: "TST (HL)",
	0x44: "NEG", 0x45: "RETN", 0x4D: "RETI",
	0x46: "IM 0", 0x56: "IM 1", 0x5E: "IM 2",
	0x47: "LD I,A", 0x4F: "LD R,A", 0x57: "LD A,I", 0x5F: "LD A,R",
	0x67: "RRD", 0x6F: "RLD",
	0x4C: "MLT BC", 0x5C: "MLT DE", 0x6C: "MLT HL", 0x7C: "MLT SP",
	0x64: "TST n", 0x74: "TSTIO n", 0x76: "SLP", 0x70: "IN (C)",
	0x83: "OTIM", 0x8B: "OTDM", 0x93: "OTIMR", 0x9B: "OTDMR",
	0xA0: "LDI", 0xA1: "CPI", 0xA2: "INI", 0xA3: "OUTI",
	0xA8: "LDD", 0xA9: "CPD", 0xAA: "IND", 0xAB: "OUTD",
	0xB0: "LDIR", 0xB1: "CPIR", 0xB2: "INIR", 0xB3: "OTIR",
	0xB8: "LDDR", 0xB9: "CPDR", 0xBA: "INDR", 0xBB: "OTDR",
}

// edMnemonic returns "" for codes the Z180 does not define.
func edMnemonic(op uint8) string {
	if s, ok := edNamed[op]; ok {
		return s
	}
	x, y, z := op>>6, (op>>3)&7, op&7
	p, q := y>>1, y&1
	switch {
	case x == 0 && z == 0:
		return "IN0 " + regNames[y] + ",(n)"
	case x == 0 && z == 1 && y != 6:
		return "OUT0 (n)," + regNames[y]
	case x == 0 && z == 4:
		return "TST " + regNames[y]
	case x == 1 && z == 0 && y != 6:
		return "IN " + regNames[y] + ",(C)"
	case x == 1 && z == 1 && y != 6:
		return "OUT (C)," + regNames[y]
	case x == 1 && z == 2 && q == 0:
		return "SBC HL," + rpNames[p]
	case x == 1 && z == 2:
		return "ADC HL," + rpNames[p]
	case x == 1 && z == 3 && q == 0:
		return "LD (nn)," + rpNames[p]
	case x == 1 && z == 3:
		return "LD " + rpNames[p] + ",(nn)"
	}
	return ""
}

func init() {
	plain := operands{hl: "HL", mem: "(HL)"}
	ix := operands{hl: "IX", mem: "(IX+d)", ix: "IX"}
	iy := operands{hl: "IY", mem: "(IY+d)", ix: "IY"}
	for i := 0; i < 256; i++ {
		op := uint8(i)
		Catalog[Op][i] = Info{baseMnemonic(op, plain), int(opCycles[i]), int(opExtra[i]), true}
		Catalog[CB][i] = Info{cbMnemonic(op, ""), int(cbCycles[i]), 0, true}
		Catalog[XYCB][i] = Info{cbMnemonic(op, "(IX+d)"), int(xycbCycles[i]), 0, true}

		ed := edMnemonic(op)
		Catalog[ED][i] = Info{ed, int(edCycles[i]), int(edExtra[i]), ed != ""}
		if ed == "" {
			Catalog[ED][i].Mnemonic = "NOP"
		}

		Catalog[DD][i] = Info{baseMnemonic(op, ix), int(xyCycles[i]), int(opExtra[i]), true}
		Catalog[FD][i] = Info{baseMnemonic(op, iy), int(xyCycles[i]), int(opExtra[i]), true}
	}
}
