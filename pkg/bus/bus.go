// Package bus defines the address-space contracts the Z180 core drives and
// provides flat reference implementations of them.
package bus

// Space is a byte-addressable address space. The program space is addressed
// with 20-bit physical addresses, the I/O space with 16-bit port numbers.
type Space interface {
	Read(addr uint32) uint8
	Write(addr uint32, value uint8)
}

// Waiter is implemented by spaces that insert wait states. The returned
// count is added to the cost of the instruction or DMA unit performing the
// access.
type Waiter interface {
	WaitStates(addr uint32, write bool) int
}

// Daisy is the external interrupt daisy chain attached to INT0.
type Daisy interface {
	// UpdateIRQState reports whether any device on the chain requests INT0.
	UpdateIRQState() bool
	// Ack acknowledges the highest priority requester and returns the
	// vector it places on the data bus.
	Ack() uint32
	// RETI notifies the chain that RETI was executed.
	RETI()
}

// Wait returns the wait states s inserts for an access, or 0 when s does not
// implement Waiter.
func Wait(s Space, addr uint32, write bool) int {
	if w, ok := s.(Waiter); ok {
		return w.WaitStates(addr, write)
	}
	return 0
}
