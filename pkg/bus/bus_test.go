package bus

import "testing"

func TestRAMProtect(t *testing.T) {
	r := NewRAM()
	if err := r.Load(0x100, []byte{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	r.Protect(0x100, 2)
	r.Write(0x100, 0xAA)
	r.Write(0x102, 0xBB)
	if got := r.Read(0x100); got != 1 {
		t.Errorf("protected byte = %02X, want 01", got)
	}
	if got := r.Read(0x102); got != 0xBB {
		t.Errorf("unprotected byte = %02X, want BB", got)
	}
}

func TestRAMLoadBounds(t *testing.T) {
	r := NewRAM()
	if err := r.Load(PhysSize-1, []byte{1, 2}); err == nil {
		t.Fatal("expected error loading past the end")
	}
}

func TestPortsLatchAndHandler(t *testing.T) {
	p := NewPorts()
	if got := p.Read(0x80); got != 0xFF {
		t.Errorf("unwritten port = %02X, want FF", got)
	}
	p.Write(0x80, 0x42)
	if got := p.Read(0x80); got != 0x42 {
		t.Errorf("latched port = %02X, want 42", got)
	}

	var seen uint8
	p.Handle(0x90, Handler{
		Read:  func(uint16) uint8 { return 0x5A },
		Write: func(_ uint16, v uint8) { seen = v },
	})
	p.Write(0x90, 0x33)
	if seen != 0x33 {
		t.Errorf("handler saw %02X, want 33", seen)
	}
	if got := p.Read(0x90); got != 0x5A {
		t.Errorf("handler read = %02X, want 5A", got)
	}
}

func TestWait(t *testing.T) {
	r := NewRAM()
	r.Waits = 2
	if got := Wait(r, 0, false); got != 2 {
		t.Errorf("Wait = %d, want 2", got)
	}
	var plain plainSpace
	if got := Wait(plain, 0, true); got != 0 {
		t.Errorf("Wait on plain space = %d, want 0", got)
	}
}

type plainSpace struct{}

func (plainSpace) Read(uint32) uint8   { return 0 }
func (plainSpace) Write(uint32, uint8) {}
