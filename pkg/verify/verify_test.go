package verify

import (
	"testing"

	"github.com/oisee/z180emu/pkg/cpu"
)

func TestCoreMatchesReference(t *testing.T) {
	p := NewPool(4)
	p.Run(Ops)
	for i, m := range p.Results.Mismatches() {
		if i == 20 {
			t.Errorf("... %d more", p.Results.Len()-i)
			break
		}
		t.Error(m)
	}
	checked, bad := p.Stats()
	// eight immediate ops over every operand plus INC and DEC, both carries
	if want := int64((8*256 + 2) * 256 * 2); checked != want {
		t.Errorf("checked %d inputs, want %d", checked, want)
	}
	if bad != 0 {
		t.Errorf("%d mismatches", bad)
	}
}

func TestReferenceSpotValues(t *testing.T) {
	tests := []struct {
		name  string
		fn    func(*Regs, uint8)
		a, f  uint8
		v     uint8
		wantA uint8
		wantF uint8
	}{
		{"ADD overflow", refAdd, 0x7F, 0, 0x01, 0x80, flagS | flagH | flagV},
		{"ADD carry zero", refAdd, 0xFF, 0, 0x01, 0x00, flagZ | flagH | flagC},
		{"ADC carry in", refAdc, 0x0F, flagC, 0x00, 0x10, flagH},
		{"SUB borrow", refSub, 0x00, 0, 0x01, 0xFF, flagS | flag5 | flagH | flag3 | flagN | flagC},
		{"SBC to zero", refSbc, 0x02, flagC, 0x01, 0x00, flagZ | flagN},
		{"CP operand bits", refCp, 0x10, 0, 0x28, 0x10, flagS | flag5 | flagH | flag3 | flagN | flagC},
		{"AND parity", refAnd, 0xF0, 0, 0x30, 0x30, flag5 | flagH | flagV},
		{"INC keeps carry", refInc, 0x7F, flagC, 0, 0x80, flagS | flagH | flagV | flagC},
		{"DEC half borrow", refDec, 0x10, 0, 0, 0x0F, flagH | flag3 | flagN},
	}
	for _, tt := range tests {
		r := Regs{A: tt.a, F: tt.f}
		tt.fn(&r, tt.v)
		if r.A != tt.wantA || r.F != tt.wantF {
			t.Errorf("%s: A=%02X F=%02X, want A=%02X F=%02X", tt.name, r.A, r.F, tt.wantA, tt.wantF)
		}
	}
}

func TestMismatchesAreReported(t *testing.T) {
	broken := Ops[0]
	broken.table = func(ft *cpu.FlagTables, a, v, _ uint8) (uint8, uint8) {
		res := a + v
		return res, ft.Add[addIdx(0, a, res)] ^ cpu.FlagN
	}
	p := NewPool(2)
	p.Run([]Op{broken})
	ms := p.Results.Mismatches()
	if len(ms) != 256*256*2 {
		t.Fatalf("%d mismatches, want %d", len(ms), 256*256*2)
	}
	for _, m := range ms {
		if m.Path != PathTable {
			t.Fatalf("exec path reported: %v", m)
		}
	}
	if ms[0].A != 0 || ms[0].N != 0 || ms[1].N != 1 {
		t.Errorf("mismatches not sorted: %v, %v", ms[0], ms[1])
	}
}
