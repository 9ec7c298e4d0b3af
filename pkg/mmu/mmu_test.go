package mmu

import "testing"

func TestResetIsIdentity(t *testing.T) {
	m := New()
	for a := 0; a < 0x10000; a++ {
		if got := m.Translate(uint16(a)); got != uint32(a) {
			t.Fatalf("Translate(%04X) = %05X after reset, want identity", a, got)
		}
	}
}

func TestSplitRouting(t *testing.T) {
	m := New()
	// CA = 8, BA = 4
	m.Set(0x30, 0x10, 0x84)

	tests := []struct {
		logical uint16
		want    uint32
	}{
		{0x0000, 0x00000},
		{0x3FFF, 0x03FFF}, // last byte of common area 0
		{0x4000, 0x14000}, // first byte of bank area
		{0x7FFF, 0x17FFF}, // last byte of bank area
		{0x8000, 0x38000}, // first byte of common area 1
		{0x8001, 0x38001},
		{0xFFFF, 0x3FFFF},
	}
	for _, tt := range tests {
		if got := m.Translate(tt.logical); got != tt.want {
			t.Errorf("Translate(%04X) = %05X, want %05X", tt.logical, got, tt.want)
		}
	}
}

func TestWrapsAt20Bits(t *testing.T) {
	m := New()
	m.Set(0xFF, 0x00, 0x00)
	if got := m.Translate(0x1234); got != 0x00234 {
		t.Errorf("Translate(1234) = %05X, want 00234", got)
	}
}

func TestRecomputeAfterPoke(t *testing.T) {
	m := New()
	m.BBR = 0x20
	m.CBAR = 0xF0
	m.Recompute()
	if got := m.Translate(0x0100); got != 0x20100 {
		t.Errorf("Translate(0100) = %05X, want 20100", got)
	}
	if got, want := m.Translate(0xF000), Translate(0, 0x20, 0xF0, 0xF000); got != want {
		t.Errorf("method %05X != pure %05X", got, want)
	}
}
