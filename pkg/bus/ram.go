package bus

import "fmt"

// PhysSize is the size of the Z180 physical address space.
const PhysSize = 1 << 20

// RAM is a flat 1 MiB memory with optional read-only regions and a uniform
// wait state count.
type RAM struct {
	mem      [PhysSize]uint8
	rom      []region
	Waits    int
	Accesses uint64
}

type region struct{ start, end uint32 }

// NewRAM returns a zeroed RAM.
func NewRAM() *RAM {
	return &RAM{}
}

// Read implements Space.
func (r *RAM) Read(addr uint32) uint8 {
	r.Accesses++
	return r.mem[addr&(PhysSize-1)]
}

// Write implements Space. Writes into a read-only region are dropped.
func (r *RAM) Write(addr uint32, value uint8) {
	r.Accesses++
	addr &= PhysSize - 1
	for _, reg := range r.rom {
		if addr >= reg.start && addr < reg.end {
			return
		}
	}
	r.mem[addr] = value
}

// WaitStates implements Waiter.
func (r *RAM) WaitStates(uint32, bool) int {
	return r.Waits
}

// Load copies data to physical address addr.
func (r *RAM) Load(addr uint32, data []byte) error {
	if int(addr)+len(data) > PhysSize {
		return fmt.Errorf("load %d bytes at %05X: exceeds 1 MiB", len(data), addr)
	}
	copy(r.mem[addr:], data)
	return nil
}

// Protect marks [start, start+size) read-only.
func (r *RAM) Protect(start uint32, size int) {
	r.rom = append(r.rom, region{start, start + uint32(size)})
}

// Bytes returns a view of the whole memory.
func (r *RAM) Bytes() []byte {
	return r.mem[:]
}
