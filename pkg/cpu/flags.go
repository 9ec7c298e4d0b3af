package cpu

import "sync"

// Flag bit positions in the F register.
const (
	FlagC uint8 = 0x01 // Carry
	FlagN uint8 = 0x02 // Subtract
	FlagP uint8 = 0x04 // Parity/Overflow
	FlagV       = FlagP
	Flag3 uint8 = 0x08 // Undocumented bit 3
	FlagH uint8 = 0x10 // Half-carry
	Flag5 uint8 = 0x20 // Undocumented bit 5
	FlagZ uint8 = 0x40 // Zero
	FlagS uint8 = 0x80 // Sign
)

// FlagTables holds the precomputed flag results shared by every CPU.
//
// Add and Sub are indexed by carry<<16 | before<<8 | after, where before is
// the accumulator before the operation and after the 8-bit result. The
// carry-in half is used by ADC and SBC.
type FlagTables struct {
	SZ      [256]uint8 // sign, zero, bits 5 and 3
	SZBit   [256]uint8 // SZ with P mirroring Z, for BIT
	SZP     [256]uint8 // SZ with parity
	SZHVInc [256]uint8 // flags after INC, carry excluded
	SZHVDec [256]uint8 // flags after DEC, carry excluded
	Add     [2 << 16]uint8
	Sub     [2 << 16]uint8
}

var tables = sync.OnceValue(buildTables)

// Tables returns the process-wide flag tables, building them on first use.
// The result must not be modified.
func Tables() *FlagTables {
	return tables()
}

func buildTables() *FlagTables {
	t := &FlagTables{}
	for oldval := 0; oldval < 256; oldval++ {
		for newval := 0; newval < 256; newval++ {
			sz := FlagZ
			if newval != 0 {
				sz = uint8(newval) & FlagS
			}
			sz |= uint8(newval) & (Flag5 | Flag3)
			idx := oldval<<8 | newval

			// add or adc without carry
			val := newval - oldval
			f := sz
			if newval&0x0F < oldval&0x0F {
				f |= FlagH
			}
			if newval < oldval {
				f |= FlagC
			}
			if (val^oldval^0x80)&(val^newval)&0x80 != 0 {
				f |= FlagV
			}
			t.Add[idx] = f

			// adc with carry
			val = newval - oldval - 1
			f = sz
			if newval&0x0F <= oldval&0x0F {
				f |= FlagH
			}
			if newval <= oldval {
				f |= FlagC
			}
			if (val^oldval^0x80)&(val^newval)&0x80 != 0 {
				f |= FlagV
			}
			t.Add[1<<16|idx] = f

			// cp, sub or sbc without carry
			val = oldval - newval
			f = FlagN | sz
			if newval&0x0F > oldval&0x0F {
				f |= FlagH
			}
			if newval > oldval {
				f |= FlagC
			}
			if (val^oldval)&(oldval^newval)&0x80 != 0 {
				f |= FlagV
			}
			t.Sub[idx] = f

			// sbc with carry
			val = oldval - newval - 1
			f = FlagN | sz
			if newval&0x0F >= oldval&0x0F {
				f |= FlagH
			}
			if newval >= oldval {
				f |= FlagC
			}
			if (val^oldval)&(oldval^newval)&0x80 != 0 {
				f |= FlagV
			}
			t.Sub[1<<16|idx] = f
		}
	}

	for i := 0; i < 256; i++ {
		v := uint8(i)
		parity := 0
		for b := v; b != 0; b >>= 1 {
			parity ^= int(b & 1)
		}
		if v != 0 {
			t.SZ[i] = v & FlagS
			t.SZBit[i] = v & FlagS
		} else {
			t.SZ[i] = FlagZ
			t.SZBit[i] = FlagZ | FlagP
		}
		t.SZ[i] |= v & (Flag5 | Flag3)
		t.SZBit[i] |= v & (Flag5 | Flag3)
		t.SZP[i] = t.SZ[i]
		if parity == 0 {
			t.SZP[i] |= FlagP
		}

		t.SZHVInc[i] = t.SZ[i]
		if v == 0x80 {
			t.SZHVInc[i] |= FlagV
		}
		if v&0x0F == 0x00 {
			t.SZHVInc[i] |= FlagH
		}

		t.SZHVDec[i] = t.SZ[i] | FlagN
		if v == 0x7F {
			t.SZHVDec[i] |= FlagV
		}
		if v&0x0F == 0x0F {
			t.SZHVDec[i] |= FlagH
		}
	}
	return t
}
