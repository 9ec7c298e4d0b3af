package script

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oisee/z180emu/pkg/bus"
	"github.com/oisee/z180emu/pkg/cpu"
)

type fakeMachine struct {
	lines  map[cpu.Line]bool
	serial []uint8
}

func (m *fakeMachine) SetInput(l cpu.Line, on bool)  { m.lines[l] = on }
func (m *fakeMachine) ReceiveSerial(ch int, b uint8) { m.serial = append(m.serial, uint8(ch)<<7|b) }

const device = `
latch = 0
function io_read(port)
  if port % 256 == 128 then return 90 end
  if port % 256 == 130 then return latch end
  return nil
end
function io_write(port, value)
  local p = port % 256
  if p == 129 then
    set_line("IRQ1", value ~= 0)
    return true
  end
  if p == 130 then
    latch = value
    serial_rx(1, value)
    return true
  end
  return false
end
`

func TestDevice(t *testing.T) {
	ports := bus.NewPorts()
	d, err := New(device, ports, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Close()
	m := &fakeMachine{lines: map[cpu.Line]bool{}}
	d.Attach(m)

	if got := d.Read(0x80); got != 0x5A {
		t.Errorf("Read(80) = %02X, want 5A", got)
	}
	d.Write(0x81, 1)
	if !m.lines[cpu.LineIRQ1] {
		t.Error("IRQ1 not asserted")
	}
	d.Write(0x82, 0x33)
	if got := d.Read(0x82); got != 0x33 {
		t.Errorf("Read(82) = %02X, want 33", got)
	}
	if len(m.serial) != 1 || m.serial[0] != 0x80|0x33 {
		t.Errorf("serial = % X, want B3", m.serial)
	}

	// unclaimed ports reach the next space
	d.Write(0x90, 0x12)
	if got := ports.Read(0x90); got != 0x12 {
		t.Errorf("next space port 90 = %02X, want 12", got)
	}
	if got := d.Read(0x90); got != 0x12 {
		t.Errorf("Read(90) = %02X, want 12", got)
	}
	if err := d.Err(); err != nil {
		t.Errorf("Err() = %v", err)
	}
}

func TestDeviceOnCPU(t *testing.T) {
	ram := bus.NewRAM()
	ram.Load(0, []byte{0xDB, 0x80, 0x76}) // IN A,(80h) : HALT
	d, err := New(device, bus.NewPorts(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Close()
	c := cpu.New(cpu.Config{Program: ram, IO: d})
	d.Attach(c)
	c.Execute(1)
	if c.A() != 0x5A {
		t.Errorf("A = %02X, want 5A", c.A())
	}
}

func TestCallbackErrors(t *testing.T) {
	d, err := New(`function io_read(port) error("boom") end
function io_write(port, v) set_line("IRQ9", true) end`, bus.NewPorts(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer d.Close()
	d.Attach(&fakeMachine{lines: map[cpu.Line]bool{}})
	if got := d.Read(0x10); got != 0xFF {
		t.Errorf("Read after error = %02X, want FF from the next space", got)
	}
	if d.Err() == nil {
		t.Error("Err() = nil after a failing callback")
	}
	d.Write(0x10, 1) // bad line name is also reported, not panicked
}

func TestLoadErrors(t *testing.T) {
	if _, err := New("this is not lua", bus.NewPorts(), nil); err == nil {
		t.Error("syntax error accepted")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "none.lua"), bus.NewPorts(), nil); err == nil {
		t.Error("missing file accepted")
	}
	path := filepath.Join(t.TempDir(), "dev.lua")
	if err := os.WriteFile(path, []byte(device), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := Load(path, bus.NewPorts(), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	d.Close()
}
