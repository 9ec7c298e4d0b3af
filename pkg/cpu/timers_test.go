package cpu

import "testing"

func tick(c *CPU, n int) {
	c.clockTimers(n * timerDivider)
}

func TestTimerReload(t *testing.T) {
	r := newRig(t)
	c := r.cpu
	r.out(0x0E, 0x03, 0x00) // RLDR0 = 3
	r.out(0x10, tcrTDE0)

	tick(c, 1)
	if c.regs.tmdrValue[0] != 3 || c.regs.tcr&tcrTIF0 == 0 {
		t.Fatalf("first tick: TMDR0=%04X TCR=%02X", c.regs.tmdrValue[0], c.regs.tcr)
	}
	// TCR then TMDR0L clears TIF0
	c.ReadControl(0x10)
	c.ReadControl(0x0C)
	if c.regs.tcr&tcrTIF0 != 0 {
		t.Fatal("TIF0 not cleared")
	}

	for i := 1; i <= 3; i++ {
		tick(c, 1)
		if c.regs.tcr&tcrTIF0 != 0 {
			t.Fatalf("TIF0 set after %d ticks", i)
		}
	}
	if c.regs.tmdrValue[0] != 0 {
		t.Fatalf("TMDR0 = %04X after 3 ticks, want 0", c.regs.tmdrValue[0])
	}
	tick(c, 1)
	if c.regs.tmdrValue[0] != 3 || c.regs.tcr&tcrTIF0 == 0 {
		t.Errorf("after R+1 ticks: TMDR0=%04X TCR=%02X", c.regs.tmdrValue[0], c.regs.tcr)
	}
}

func TestTimerPrescaler(t *testing.T) {
	r := newRig(t)
	c := r.cpu
	r.out(0x0E, 0x10, 0x00)
	r.out(0x10, tcrTDE0)
	c.clockTimers(19)
	if c.regs.tcr&tcrTIF0 != 0 {
		t.Fatal("ticked before 20 cycles")
	}
	c.clockTimers(1)
	if c.regs.tcr&tcrTIF0 == 0 {
		t.Fatal("no tick at 20 cycles")
	}
}

func TestTimerStoppedDoesNotCount(t *testing.T) {
	r := newRig(t)
	c := r.cpu
	r.out(0x14, 0x34, 0x12) // TMDR1
	tick(c, 5)
	if c.regs.tmdrValue[1] != 0x1234 {
		t.Errorf("TMDR1 = %04X, want 1234", c.regs.tmdrValue[1])
	}
}

func TestTimerReadLatch(t *testing.T) {
	r := newRig(t)
	c := r.cpu
	r.out(0x0E, 0xFF, 0xFF)
	r.out(0x10, tcrTDE0)
	r.out(0x0C, 0x00, 0x12) // TMDR0 = 1200
	if got := c.ReadControl(0x0C); got != 0x00 {
		t.Fatalf("TMDR0L = %02X", got)
	}
	tick(c, 1) // counter now 11FF
	if got := c.ReadControl(0x0D); got != 0x12 {
		t.Errorf("TMDR0H = %02X, want latched 12", got)
	}
	if got := c.ReadControl(0x0D); got != 0x11 {
		t.Errorf("second TMDR0H = %02X, want live 11", got)
	}
}

func TestTimerInterrupt(t *testing.T) {
	r := newRig(t)
	c := r.cpu
	c.I = 0x30
	c.IFF1 = true
	r.out(0x33, 0x40)          // IL
	r.poke(0x3044, 0x00, 0x60) // PRT0 vector
	r.out(0x0E, 0x00, 0x00)    // RLDR0 = 0
	r.out(0x10, tcrTDE0|tcrTIE0)

	// NOPs until the first timer tick raises PRT0
	for i := 0; i < 10 && uint16(c.PC) < 0x6000; i++ {
		r.step()
	}
	if c.PC != 0x6001 {
		t.Errorf("PC = %04X, want 6001", uint16(c.PC))
	}
	if c.IFF1 {
		t.Error("IFF1 still set inside handler")
	}
}

func TestTimerInterruptMaskedByIFF1(t *testing.T) {
	r := newRig(t)
	c := r.cpu
	r.out(0x10, tcrTDE0|tcrTIE0)
	tick(c, 1)
	if c.Pending("PRT0") {
		t.Error("PRT0 latched with IFF1 clear")
	}
	c.IFF1 = true
	tick(c, 1) // flag still set from the first tick
	if !c.Pending("PRT0") {
		t.Error("PRT0 not latched")
	}
}
