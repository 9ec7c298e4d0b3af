package cpu

import "testing"

type fakeDaisy struct {
	level       bool
	vector      uint32
	acks, retis int
}

func (d *fakeDaisy) UpdateIRQState() bool { return d.level }

func (d *fakeDaisy) Ack() uint32 {
	d.acks++
	return d.vector
}

func (d *fakeDaisy) RETI() { d.retis++ }

func TestEIDelay(t *testing.T) {
	r := newRig(t,
		0xED, 0x56, // IM 1
		0xFB, // EI
		0x00, // NOP
		0x00,
	)
	r.cpu.SetInput(LineIRQ0, true)
	r.step()
	r.step()
	r.step()
	if r.cpu.PC != 4 {
		t.Fatalf("interrupt taken before the instruction after EI: PC=%04X", uint16(r.cpu.PC))
	}
	r.step()
	if r.cpu.PC != 0x39 {
		t.Errorf("PC = %04X, want 0039", uint16(r.cpu.PC))
	}
	if got := r.peek16(0xFFFE); got != 4 {
		t.Errorf("return address %04X, want 0004", got)
	}
}

func TestHaltWakesOnIM2(t *testing.T) {
	r := newRig(t,
		0xED, 0x5E, // IM 2
		0xFB, // EI
		0x76, // HALT
	)
	r.cpu.irqVector = func() uint32 { return 0x10 }
	r.cpu.I = 0x20
	r.poke(0x2010, 0x34, 0x12)
	r.step()
	r.step()
	r.step()
	if !r.cpu.Halt || r.cpu.PC != 3 {
		t.Fatalf("Halt=%v PC=%04X", r.cpu.Halt, uint16(r.cpu.PC))
	}
	if got := r.step(); got != 3 {
		t.Errorf("halted step = %d cycles, want 3", got)
	}
	r.cpu.SetInput(LineIRQ0, true)
	r.step()
	if r.cpu.Halt || r.cpu.PC != 0x1235 {
		t.Errorf("Halt=%v PC=%04X, want false 1235", r.cpu.Halt, uint16(r.cpu.PC))
	}
	if got := r.peek16(0xFFFE); got != 4 {
		t.Errorf("return address %04X, want 0004", got)
	}
}

func TestIM0Vectors(t *testing.T) {
	tests := []struct {
		name   string
		vector uint32
		wantPC uint16
		pushed bool
	}{
		{"RST 38 from idle bus", 0xFF, 0x39, true},
		{"RST 10", 0xD7, 0x11, true},
		{"CALL", 0xCD1234, 0x1235, true},
		{"JP", 0xC34321, 0x4322, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newRig(t)
			r.cpu.irqVector = func() uint32 { return tc.vector }
			r.cpu.IFF1 = true
			r.cpu.SetInput(LineIRQ0, true)
			r.step()
			if r.cpu.PC != Pair(tc.wantPC) {
				t.Errorf("PC = %04X, want %04X", uint16(r.cpu.PC), tc.wantPC)
			}
			if pushed := r.cpu.SP == 0xFFFE; pushed != tc.pushed {
				t.Errorf("SP = %04X", uint16(r.cpu.SP))
			}
		})
	}
}

func TestInterruptPriority(t *testing.T) {
	r := newRig(t)
	c := r.cpu
	c.I = 0x10
	r.out(0x33, 0x20)          // IL
	r.poke(0x1020, 0x00, 0x40) // INT1
	r.poke(0x1024, 0x00, 0x50) // PRT0
	c.pending[intPRT0] = true
	c.pending[intIRQ1] = true
	c.IFF1 = true
	r.step()
	if c.PC != 0x4001 {
		t.Errorf("PC = %04X, want INT1 handler 4001", uint16(c.PC))
	}
	if !c.Pending("PRT0") {
		t.Error("PRT0 should stay latched")
	}
	c.IFF1 = true
	r.step()
	if c.PC != 0x5001 {
		t.Errorf("PC = %04X, want PRT0 handler 5001", uint16(c.PC))
	}
}

func TestIRQ0BeatsPRT0(t *testing.T) {
	r := newRig(t)
	c := r.cpu
	c.IM = 1
	c.IFF1 = true
	c.pending[intPRT0] = true
	c.SetInput(LineIRQ0, true)
	r.step()
	if c.PC != 0x39 {
		t.Errorf("PC = %04X, want RST 38 handler 0039", uint16(c.PC))
	}
	if c.Pending("IRQ0") {
		t.Error("IRQ0 still latched after service")
	}
	if !c.Pending("PRT0") {
		t.Error("PRT0 should stay latched")
	}
}

func TestITCGatesExternalLines(t *testing.T) {
	r := newRig(t)
	c := r.cpu
	c.IFF1 = true
	c.SetInput(LineIRQ1, true)
	r.step()
	if c.PC != 1 || !c.IFF1 {
		t.Fatalf("INT1 taken with ITE1 clear: PC=%04X", uint16(c.PC))
	}
	r.out(0x34, itcITE0|itcITE1)
	r.step()
	if c.IFF1 {
		t.Error("INT1 not taken after enabling ITE1")
	}
}

func TestDaisyAcknowledge(t *testing.T) {
	r := newRig(t,
		0xED, 0x5E, // IM 2
		0xFB, // EI
		0x00, // NOP
		0x00,
	)
	d := &fakeDaisy{vector: 0x40}
	r.cpu.daisy = d
	r.poke(0x0040, 0x00, 0x01)
	r.poke(0x0100, 0xED, 0x4D) // RETI
	d.level = true
	r.cpu.SetInput(LineIRQ0, false) // level comes from the daisy chain
	for i := 0; i < 4; i++ {
		r.step()
	}
	if d.acks != 1 || d.retis != 1 {
		t.Errorf("acks=%d retis=%d, want 1 1", d.acks, d.retis)
	}
	if r.cpu.PC != 4 {
		t.Errorf("PC = %04X after RETI, want 0004", uint16(r.cpu.PC))
	}
}

func TestNMIEdge(t *testing.T) {
	r := newRig(t)
	c := r.cpu
	c.SetInput(LineNMI, true)
	c.Execute(1)
	if c.PC != 0x66 {
		t.Fatalf("PC = %04X, want 0066", uint16(c.PC))
	}
	c.SetInput(LineNMI, true) // still high, no new edge
	c.Execute(1)
	if c.PC != 0x67 {
		t.Fatalf("PC = %04X, want 0067", uint16(c.PC))
	}
	c.SetInput(LineNMI, false)
	c.SetInput(LineNMI, true)
	c.Execute(1)
	if c.PC != 0x66 {
		t.Errorf("PC = %04X, want 0066 after second edge", uint16(c.PC))
	}
}

func TestSerialInterrupt(t *testing.T) {
	r := newRig(t)
	c := r.cpu
	c.I = 0x10
	r.poke(0x100E, 0x00, 0x70) // ASCI0 at IL=0
	r.out(0x00, cntlaRE)
	r.out(0x04, statRIE)
	c.IFF1 = true
	r.step()
	if c.PC != 1 {
		t.Fatalf("serial interrupt without data: PC=%04X", uint16(c.PC))
	}
	c.ReceiveSerial(0, 'z')
	r.step()
	if c.PC != 0x7001 {
		t.Errorf("PC = %04X, want 7001", uint16(c.PC))
	}
}
