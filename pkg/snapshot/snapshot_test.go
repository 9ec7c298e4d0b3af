package snapshot

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/oisee/z180emu/pkg/bus"
	"github.com/oisee/z180emu/pkg/cpu"
)

func newMachine(t *testing.T, code ...byte) (*cpu.CPU, *bus.RAM) {
	t.Helper()
	ram := bus.NewRAM()
	if err := ram.Load(0, code); err != nil {
		t.Fatalf("load: %v", err)
	}
	return cpu.New(cpu.Config{Program: ram, IO: bus.NewPorts()}), ram
}

func TestRoundTrip(t *testing.T) {
	// LD A,42h : LD HL,1234h : HALT
	c1, ram1 := newMachine(t, 0x3E, 0x42, 0x21, 0x34, 0x12, 0x76)
	c1.WriteControl(0x3A, 0x80) // CBAR
	c1.WriteControl(0x38, 0x10) // CBR
	c1.Execute(100)
	ram1.Write(0x54321, 0xA5)

	var buf bytes.Buffer
	if err := Capture(c1, ram1.Bytes()).Encode(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	s, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	c2, ram2 := newMachine(t)
	if err := s.Restore(c2, ram2.Bytes()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	for _, e := range c1.StateEntries() {
		if e.Name == "IOLINES" {
			continue // outputs are rebuilt from the registers, not imported
		}
		want, _ := c1.State(e.Name)
		got, _ := c2.State(e.Name)
		if got != want {
			t.Errorf("%s = "+e.Format+", want "+e.Format, e.Name, got, want)
		}
	}
	if got := ram2.Read(0x54321); got != 0xA5 {
		t.Errorf("memory 54321 = %02X, want A5", got)
	}
	if got, want := c2.Translate(0x9000), c1.Translate(0x9000); got != want || got != 0x19000 {
		t.Errorf("Translate(9000) = %05X, want %05X", got, want)
	}
	if v, ok := s.Value("HL"); !ok || v != 0x1234 {
		t.Errorf("saved HL = %04X, %v", v, ok)
	}
}

func TestCaptureSkipsHidden(t *testing.T) {
	c, ram := newMachine(t)
	s := Capture(c, ram.Bytes())
	for _, name := range []string{"A", "B", "L"} {
		if _, ok := s.Value(name); ok {
			t.Errorf("hidden entry %s was captured", name)
		}
	}
	if _, ok := s.Value("AF"); !ok {
		t.Error("AF missing")
	}
}

func TestRestoreErrors(t *testing.T) {
	c, ram := newMachine(t)
	s := &Snapshot{Memory: make([]byte, 16)}
	if err := s.Restore(c, ram.Bytes()); err == nil {
		t.Error("short image restored without error")
	}
	s = &Snapshot{Memory: make([]byte, bus.PhysSize), Registers: []Entry{{Name: "XYZ"}}}
	if err := s.Restore(c, ram.Bytes()); err == nil {
		t.Error("unknown entry restored without error")
	}
}

func TestSaveLoad(t *testing.T) {
	c, ram := newMachine(t)
	c.PC = 0x4321
	path := filepath.Join(t.TempDir(), "m.snap")
	if err := Save(path, Capture(c, ram.Bytes())); err != nil {
		t.Fatalf("save: %v", err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if v, _ := s.Value("PC"); v != 0x4321 {
		t.Errorf("PC = %04X, want 4321", v)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("missing file loaded")
	}
}
