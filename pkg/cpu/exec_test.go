package cpu

import (
	"testing"

	"github.com/oisee/z180emu/pkg/bus"
	"github.com/oisee/z180emu/pkg/inst"
)

func TestFlagTables(t *testing.T) {
	ft := Tables()
	if ft.SZ[0]&FlagZ == 0 {
		t.Error("SZ[0] should have Z")
	}
	if ft.SZ[0x80]&FlagS == 0 {
		t.Error("SZ[0x80] should have S")
	}
	if ft.SZP[0]&FlagP == 0 || ft.SZP[1]&FlagP != 0 || ft.SZP[0xFF]&FlagP == 0 {
		t.Error("SZP parity wrong")
	}
	if ft.SZBit[0]&(FlagZ|FlagP) != FlagZ|FlagP {
		t.Error("SZBit[0] should have Z and P")
	}
	if got := ft.Add[0x7F<<8|0x80]; got != FlagS|FlagH|FlagV {
		t.Errorf("Add[7F->80] = %02X, want %02X", got, FlagS|FlagH|FlagV)
	}
	if Tables() != ft {
		t.Error("Tables should return the same instance")
	}
}

func TestALUImmediate(t *testing.T) {
	tests := []struct {
		name  string
		a     uint8
		op, n uint8
		wantA uint8
		wantF uint8
	}{
		{"ADD overflow", 0x7F, 0xC6, 0x01, 0x80, 0x94},
		{"ADD carry", 0xFF, 0xC6, 0x01, 0x00, 0x51},
		{"ADC no carry in", 0x01, 0xCE, 0x0F, 0x10, 0x10},
		{"SUB borrow", 0x00, 0xD6, 0x01, 0xFF, 0xBB},
		{"CP keeps A", 0x10, 0xFE, 0x28, 0x10, 0xBB},
		{"AND", 0xF0, 0xE6, 0x0F, 0x00, 0x54},
		{"XOR", 0x55, 0xEE, 0xFF, 0xAA, 0xAC},
		{"OR zero", 0x00, 0xF6, 0x00, 0x00, 0x44},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newRig(t, 0x3E, tc.a, tc.op, tc.n)
			r.step()
			r.step()
			c := r.cpu
			if c.A() != tc.wantA {
				t.Errorf("A = %02X, want %02X", c.A(), tc.wantA)
			}
			if c.F() != tc.wantF {
				t.Errorf("F = %02X (%s), want %02X", c.F(), c.FlagString(), tc.wantF)
			}
		})
	}
}

func TestIncDaa(t *testing.T) {
	r := newRig(t,
		0x3E, 0x7F, // LD A,7F
		0x3C, // INC A
	)
	r.step()
	r.step()
	if r.cpu.A() != 0x80 || r.cpu.F() != FlagS|FlagH|FlagV {
		t.Errorf("INC A: A=%02X F=%02X", r.cpu.A(), r.cpu.F())
	}

	r = newRig(t,
		0x3E, 0x15, // LD A,15
		0xC6, 0x27, // ADD A,27
		0x27, // DAA
	)
	for i := 0; i < 3; i++ {
		r.step()
	}
	if r.cpu.A() != 0x42 || r.cpu.F() != 0x14 {
		t.Errorf("DAA: A=%02X F=%02X, want 42 14", r.cpu.A(), r.cpu.F())
	}
}

func TestCycles(t *testing.T) {
	tests := []struct {
		name  string
		code  []byte
		dcntl uint8
		want  int
	}{
		{"NOP", []byte{0x00}, 0, 3},
		{"LD A,n", []byte{0x3E, 0x01}, 0, 6},
		{"JR", []byte{0x18, 0x00}, 0, 8},
		{"JR NZ not taken", []byte{0x20, 0x05}, 0, 6},
		{"JR Z taken", []byte{0x28, 0x05}, 0, 8},
		{"CALL", []byte{0xCD, 0x00, 0x10}, 0, 16},
		{"LD IX,nn", []byte{0xDD, 0x21, 0x34, 0x12}, 0, 12},
		{"LD A,(IX+d)", []byte{0xDD, 0x7E, 0x00}, 0, 14},
		{"BIT 0,(IX+d)", []byte{0xDD, 0xCB, 0x00, 0x46}, 0, 15},
		{"MLT BC", []byte{0xED, 0x4C}, 0, 17},
		{"OUT (n),A", []byte{0xD3, 0x80}, 0, 10},
		{"OUT (n),A with I/O waits", []byte{0xD3, 0x80}, 0x30, 14},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newRig(t, tc.code...)
			r.cpu.regs.dcntl = tc.dcntl
			if got := r.step(); got != tc.want {
				t.Errorf("cycles = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestExecuteBudget(t *testing.T) {
	r := newRig(t)
	if got := r.cpu.Execute(10); got != 12 {
		t.Errorf("Execute(10) = %d, want 12", got)
	}
	if r.cpu.PC != 4 {
		t.Errorf("PC = %04X, want 0004", uint16(r.cpu.PC))
	}
	if r.cpu.Cycles() != 12 {
		t.Errorf("Cycles = %d, want 12", r.cpu.Cycles())
	}
}

func TestBurn(t *testing.T) {
	r := newRig(t)
	r.cpu.Burn(30)
	if r.cpu.Refresh() != 10 || r.cpu.Cycles() != 30 {
		t.Errorf("Burn(30): R=%d cycles=%d, want 10 30", r.cpu.Refresh(), r.cpu.Cycles())
	}
	r.cpu.Reset() // DCNTL back to three memory wait states
	r.cpu.Burn(30)
	if r.cpu.Refresh() != 5 {
		t.Errorf("Burn(30) with waits: R=%d, want 5", r.cpu.Refresh())
	}
}

func TestRefreshCountsPrefixes(t *testing.T) {
	r := newRig(t, 0xDD, 0x21, 0x00, 0x00, 0xCB, 0x00)
	r.step()
	r.step()
	if r.cpu.Refresh() != 4 {
		t.Errorf("R = %d, want 4", r.cpu.Refresh())
	}
}

func TestDroppedPrefix(t *testing.T) {
	tests := []struct {
		name   string
		code   []byte
		pc     Pair
		cycles int
	}{
		{"DD ED 44", []byte{0xDD, 0xED, 0x44}, 3, inst.TStates(inst.ED, 0x44)},
		{"DD DD 21", []byte{0xDD, 0xDD, 0x21, 0x34, 0x12}, 5, inst.TStates(inst.DD, 0x21)},
		{"FD DD 21", []byte{0xFD, 0xDD, 0x21, 0x34, 0x12}, 5, inst.TStates(inst.DD, 0x21)},
	}
	for _, tt := range tests {
		r := newRig(t, tt.code...)
		if got := r.step(); got != 3 || r.cpu.PC != 1 {
			t.Errorf("%s: dropped prefix took %d cycles to PC=%04X, want 3 to 0001", tt.name, got, uint16(r.cpu.PC))
		}
		if r.cpu.Refresh() != 1 {
			t.Errorf("%s: R = %d after dropped prefix, want 1", tt.name, r.cpu.Refresh())
		}
		if got := r.step(); got != tt.cycles || r.cpu.PC != tt.pc {
			t.Errorf("%s: took %d cycles to PC=%04X, want %d to %04X", tt.name, got, uint16(r.cpu.PC), tt.cycles, uint16(tt.pc))
		}
	}

	r := newRig(t, 0xDD, 0xDD, 0x21, 0x34, 0x12)
	r.step()
	r.step()
	if r.cpu.IX != 0x1234 || r.cpu.HL != 0 {
		t.Errorf("IX=%04X HL=%04X, want 1234 0000", uint16(r.cpu.IX), uint16(r.cpu.HL))
	}
}

func TestPrefixRunIsBounded(t *testing.T) {
	code := make([]byte, 1000)
	for i := range code {
		code[i] = 0xDD
	}
	r := newRig(t, append(code, 0x00)...)
	if got := r.cpu.Execute(1); got != 3 || r.cpu.PC != 1 {
		t.Errorf("Execute(1) = %d at PC=%04X, want 3 at 0001", got, uint16(r.cpu.PC))
	}

	// a whole 64K page of prefixes wraps PC without ever completing
	for i := uint32(0); i < 0x10000; i++ {
		r.ram.Write(i, 0xFD)
	}
	r.cpu.PC = 0
	if got := r.cpu.Execute(200000); got < 200000 || got > 200010 {
		t.Errorf("Execute(200000) = %d", got)
	}
}

func TestIndexHalves(t *testing.T) {
	r := newRig(t,
		0xDD, 0x26, 0x12, // LD IXH,12
		0xDD, 0x21, 0x00, 0x20, // LD IX,2000
		0xDD, 0x66, 0x01, // LD H,(IX+1)
		0xFD, 0x21, 0x00, 0x30, // LD IY,3000
		0x3E, 0x80, // LD A,80
		0xFD, 0xCB, 0xFF, 0x07, // RLC (IY-1),A
	)
	r.poke(0x2001, 0x99)
	r.poke(0x2FFF, 0x81)
	r.step()
	if r.cpu.IX != 0x12FF {
		t.Errorf("IX = %04X, want 12FF", uint16(r.cpu.IX))
	}
	r.step()
	r.step()
	if r.cpu.HL.Hi() != 0x99 || r.cpu.IX != 0x2000 {
		t.Errorf("LD H,(IX+1): H=%02X IX=%04X", r.cpu.HL.Hi(), uint16(r.cpu.IX))
	}
	r.step()
	r.step()
	r.step()
	if got := r.ram.Read(0x2FFF); got != 0x03 {
		t.Errorf("(IY-1) = %02X, want 03", got)
	}
	if r.cpu.A() != 0x03 || r.cpu.F()&FlagC == 0 {
		t.Errorf("copy to A: A=%02X F=%02X", r.cpu.A(), r.cpu.F())
	}
}

func TestLDIR(t *testing.T) {
	r := newRig(t,
		0x21, 0x00, 0x10, // LD HL,1000
		0x11, 0x00, 0x20, // LD DE,2000
		0x01, 0x03, 0x00, // LD BC,3
		0xED, 0xB0, // LDIR
	)
	r.poke(0x1000, 1, 2, 3)
	r.step()
	r.step()
	r.step()
	if got := r.step(); got != 14 {
		t.Errorf("repeating LDIR = %d cycles, want 14", got)
	}
	if r.cpu.PC != 9 {
		t.Errorf("PC = %04X after one iteration, want 0009", uint16(r.cpu.PC))
	}
	r.runTo(t, 11, 10)
	for i := uint32(0); i < 3; i++ {
		if r.ram.Read(0x2000+i) != uint8(i+1) {
			t.Errorf("dest[%d] = %02X", i, r.ram.Read(0x2000+i))
		}
	}
	if r.cpu.BC != 0 || r.cpu.F()&FlagV != 0 {
		t.Errorf("BC=%04X F=%02X", uint16(r.cpu.BC), r.cpu.F())
	}
}

func TestZ180Ops(t *testing.T) {
	t.Run("MLT", func(t *testing.T) {
		r := newRig(t, 0x01, 0x0A, 0x0C, 0xED, 0x4C)
		r.step()
		r.step()
		if r.cpu.BC != 120 {
			t.Errorf("BC = %d, want 120", uint16(r.cpu.BC))
		}
	})
	t.Run("TST n", func(t *testing.T) {
		r := newRig(t, 0x3E, 0xF0, 0xED, 0x64, 0x0F)
		r.step()
		r.step()
		if r.cpu.A() != 0xF0 || r.cpu.F() != FlagZ|FlagP|FlagH {
			t.Errorf("A=%02X F=%02X", r.cpu.A(), r.cpu.F())
		}
	})
	t.Run("OUT0 IN0", func(t *testing.T) {
		r := newRig(t,
			0x3E, 0x5A, // LD A,5A
			0xED, 0x39, 0x80, // OUT0 (80),A
			0xED, 0x00, 0x80, // IN0 B,(80)
		)
		r.step()
		r.step()
		r.step()
		if r.cpu.BC.Hi() != 0x5A {
			t.Errorf("B = %02X, want 5A", r.cpu.BC.Hi())
		}
		if r.cpu.F() != r.cpu.ft.SZP[0x5A] {
			t.Errorf("F = %02X, want %02X", r.cpu.F(), r.cpu.ft.SZP[0x5A])
		}
	})
	t.Run("OTIM", func(t *testing.T) {
		r := newRig(t,
			0x21, 0x00, 0x20, // LD HL,2000
			0x01, 0x80, 0x02, // LD BC,0280
			0xED, 0x83, // OTIM
		)
		r.poke(0x2000, 0x11, 0x22)
		r.step()
		r.step()
		r.step()
		if len(r.log) != 1 || r.log[0] != (bus.Access{Port: 0x80, Value: 0x11, Write: true}) {
			t.Fatalf("port log = %+v", r.log)
		}
		c := r.cpu
		if c.HL != 0x2001 || c.BC != 0x0181 || c.F() != FlagN {
			t.Errorf("HL=%04X BC=%04X F=%02X", uint16(c.HL), uint16(c.BC), c.F())
		}
	})
	t.Run("SLP", func(t *testing.T) {
		r := newRig(t, 0xED, 0x76)
		r.step()
		if !r.cpu.Halt || r.cpu.PC != 1 {
			t.Fatalf("Halt=%v PC=%04X", r.cpu.Halt, uint16(r.cpu.PC))
		}
		if got := r.step(); got != 3 || r.cpu.PC != 1 {
			t.Errorf("halted step = %d cycles PC=%04X", got, uint16(r.cpu.PC))
		}
	})
	t.Run("undefined ED", func(t *testing.T) {
		r := newRig(t, 0xED, 0x54, 0x00)
		before := r.cpu.Registers
		r.step()
		before.PC = 2
		before.R = 2
		if r.cpu.Registers != before {
			t.Errorf("undefined opcode changed state")
		}
	})
}
