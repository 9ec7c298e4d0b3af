package cpu

import (
	"testing"

	"github.com/oisee/z180emu/pkg/bus"
)

// rig is a CPU on flat 1 MiB RAM and a latching port space, with the
// reset wait states cleared so costs match the base tables.
type rig struct {
	ram   *bus.RAM
	ports *bus.Ports
	cpu   *CPU
	log   []bus.Access
}

func newRig(t *testing.T, code ...byte) *rig {
	t.Helper()
	r := &rig{ram: bus.NewRAM(), ports: bus.NewPorts()}
	r.ports.Log = &r.log
	if err := r.ram.Load(0, code); err != nil {
		t.Fatalf("load: %v", err)
	}
	r.cpu = New(Config{Program: r.ram, IO: r.ports})
	r.cpu.regs.dcntl = 0
	return r
}

// step executes one instruction (plus any interrupt taken before it) and
// returns the T-states consumed.
func (r *rig) step() int {
	return r.cpu.Execute(1)
}

// runTo steps until PC reaches pc.
func (r *rig) runTo(t *testing.T, pc uint16, limit int) {
	t.Helper()
	for i := 0; i < limit; i++ {
		if uint16(r.cpu.PC) == pc {
			return
		}
		r.step()
	}
	t.Fatalf("PC=%04X after %d steps, want %04X", uint16(r.cpu.PC), limit, pc)
}

func (r *rig) poke(addr uint32, data ...byte) {
	for i, b := range data {
		r.ram.Write(addr+uint32(i), b)
	}
}

func (r *rig) peek16(addr uint32) uint16 {
	return uint16(r.ram.Read(addr)) | uint16(r.ram.Read(addr+1))<<8
}

// out writes consecutive internal registers starting at port.
func (r *rig) out(port uint16, vals ...uint8) {
	for i, v := range vals {
		r.cpu.WriteControl(port+uint16(i), v)
	}
}
