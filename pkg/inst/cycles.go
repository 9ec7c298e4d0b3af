package inst

// Base T-state costs of the unprefixed opcodes. Prefix bytes cost nothing
// here; the second-level table supplies the cost. Conditional instructions
// list their not-taken cost, the difference is in opExtra.
var opCycles = [256]uint8{
	/*     0   1   2   3   4   5   6   7   8   9   A   B   C   D   E   F */
	/* 0 */ 3, 9, 7, 4, 4, 4, 6, 3, 4, 7, 6, 4, 4, 4, 6, 3,
	/* 1 */ 7, 9, 7, 4, 4, 4, 6, 3, 8, 7, 6, 4, 4, 4, 6, 3,
	/* 2 */ 6, 9, 16, 4, 4, 4, 6, 4, 6, 7, 15, 4, 4, 4, 6, 3,
	/* 3 */ 6, 9, 13, 4, 10, 10, 9, 3, 6, 7, 12, 4, 4, 4, 6, 3,
	/* 4 */ 4, 4, 4, 4, 4, 4, 6, 4, 4, 4, 4, 4, 4, 4, 6, 4,
	/* 5 */ 4, 4, 4, 4, 4, 4, 6, 4, 4, 4, 4, 4, 4, 4, 6, 4,
	/* 6 */ 4, 4, 4, 4, 4, 4, 6, 4, 4, 4, 4, 4, 4, 4, 6, 4,
	/* 7 */ 7, 7, 7, 7, 7, 7, 3, 7, 4, 4, 4, 4, 4, 4, 6, 4,
	/* 8 */ 4, 4, 4, 4, 4, 4, 6, 4, 4, 4, 4, 4, 4, 4, 6, 4,
	/* 9 */ 4, 4, 4, 4, 4, 4, 6, 4, 4, 4, 4, 4, 4, 4, 6, 4,
	/* A */ 4, 4, 4, 4, 4, 4, 6, 4, 4, 4, 4, 4, 4, 4, 6, 4,
	/* B */ 4, 4, 4, 4, 4, 4, 6, 4, 4, 4, 4, 4, 4, 4, 6, 4,
	/* C */ 5, 9, 6, 9, 6, 11, 6, 11, 5, 9, 6, 0, 6, 16, 6, 11,
	/* D */ 5, 9, 6, 10, 6, 11, 6, 11, 5, 3, 6, 9, 6, 0, 6, 11,
	/* E */ 5, 9, 6, 16, 6, 11, 6, 11, 5, 3, 6, 3, 6, 0, 6, 11,
	/* F */ 5, 9, 6, 3, 6, 11, 6, 11, 5, 4, 6, 3, 6, 0, 6, 11,
}

// Extra T-states charged when a conditional branch is taken.
var opExtra = [256]uint8{
	0x10: 2,                            // DJNZ
	0x20: 2, 0x28: 2, 0x30: 2, 0x38: 2, // JR cc
	0xC0: 5, 0xC8: 5, 0xD0: 5, 0xD8: 5, 0xE0: 5, 0xE8: 5, 0xF0: 5, 0xF8: 5, // RET cc
	0xC2: 3, 0xCA: 3, 0xD2: 3, 0xDA: 3, 0xE2: 3, 0xEA: 3, 0xF2: 3, 0xFA: 3, // JP cc
	0xC4: 10, 0xCC: 10, 0xD4: 10, 0xDC: 10, 0xE4: 10, 0xEC: 10, 0xF4: 10, 0xFC: 10, // CALL cc
}

// ED table. Undefined codes cost a two-byte fetch. Block repeats list the
// final-iteration cost, the repeat penalty is in edExtra.
var edCycles = [256]uint8{
	/*     0   1   2   3   4   5   6   7   8   9   A   B   C   D   E   F */
	/* 0 */ 12, 13, 6, 6, 7, 6, 6, 6, 12, 13, 6, 6, 7, 6, 6, 6,
	/* 1 */ 12, 13, 6, 6, 7, 6, 6, 6, 12, 13, 6, 6, 7, 6, 6, 6,
	/* 2 */ 12, 13, 6, 6, 7, 6, 6, 6, 12, 13, 6, 6, 7, 6, 6, 6,
	/* 3 */ 12, 6, 6, 6, 10, 6, 6, 6, 12, 13, 6, 6, 7, 6, 6, 6,
	/* 4 */ 9, 10, 10, 19, 6, 12, 6, 6, 9, 10, 10, 18, 17, 12, 6, 6,
	/* 5 */ 9, 10, 10, 19, 6, 6, 6, 6, 9, 10, 10, 18, 17, 6, 6, 6,
	/* 6 */ 9, 10, 10, 19, 9, 6, 6, 16, 9, 10, 10, 18, 17, 6, 6, 16,
	/* 7 */ 9, 6, 10, 19, 12, 6, 8, 6, 9, 10, 10, 18, 17, 6, 6, 6,
	/* 8 */ 6, 6, 6, 14, 6, 6, 6, 6, 6, 6, 6, 14, 6, 6, 6, 6,
	/* 9 */ 6, 6, 6, 14, 6, 6, 6, 6, 6, 6, 6, 14, 6, 6, 6, 6,
	/* A */ 12, 12, 12, 12, 6, 6, 6, 6, 12, 12, 12, 12, 6, 6, 6, 6,
	/* B */ 12, 12, 12, 12, 6, 6, 6, 6, 12, 12, 12, 12, 6, 6, 6, 6,
	/* C */ 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6,
	/* D */ 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6,
	/* E */ 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6,
	/* F */ 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6,
}

var edExtra = [256]uint8{
	0x93: 2, 0x9B: 2, // OTIMR, OTDMR
	0xB0: 2, 0xB1: 2, 0xB2: 2, 0xB3: 2, // LDIR, CPIR, INIR, OTIR
	0xB8: 2, 0xB9: 2, 0xBA: 2, 0xBB: 2, // LDDR, CPDR, INDR, OTDR
}

// Index register forms that differ from "base cost plus one fetch".
var xyOverride = map[uint8]uint8{
	0x09: 10, 0x19: 10, 0x29: 10, 0x39: 10, // ADD IX,rr
	0x21: 12,         // LD IX,nn
	0x22: 19,         // LD (nn),IX
	0x23: 7, 0x2B: 7, // INC/DEC IX
	0x2A: 18,           // LD IX,(nn)
	0x34: 18, 0x35: 18, // INC/DEC (IX+d)
	0x36: 15, // LD (IX+d),n
	0x46: 14, 0x4E: 14, 0x56: 14, 0x5E: 14, 0x66: 14, 0x6E: 14, 0x7E: 14,
	0x70: 15, 0x71: 15, 0x72: 15, 0x73: 15, 0x74: 15, 0x75: 15, 0x77: 15,
	0x86: 14, 0x8E: 14, 0x96: 14, 0x9E: 14, 0xA6: 14, 0xAE: 14, 0xB6: 14, 0xBE: 14,
	0xE1: 12, // POP IX
	0xE3: 19, // EX (SP),IX
	0xE5: 14, // PUSH IX
	0xE9: 6,  // JP (IX)
	0xF9: 7,  // LD SP,IX
	0xCB: 0,  // cost comes from the XYCB table
}

// The derived tables are package variables so that they are ready before
// any init function builds the catalog from them.
var cbCycles, xyCycles, xycbCycles = deriveCycles()

func deriveCycles() (cbCycles, xyCycles, xycbCycles [256]uint8) {
	for i := 0; i < 256; i++ {
		op := uint8(i)
		mem := op&7 == 6
		bit := op>>6 == 1
		switch {
		case bit && mem:
			cbCycles[i] = 9
		case bit:
			cbCycles[i] = 6
		case mem:
			cbCycles[i] = 13
		default:
			cbCycles[i] = 7
		}
		if bit {
			xycbCycles[i] = 15
		} else {
			xycbCycles[i] = 19
		}

		switch op {
		case 0xDD, 0xED, 0xFD:
			// a stray prefix costs its own fetch, the next table adds the rest
			xyCycles[i] = 3
		default:
			xyCycles[i] = opCycles[i] + 3
		}
		if c, ok := xyOverride[op]; ok {
			xyCycles[i] = c
		}
	}
	return
}
