package bus

// Handler serves one I/O port.
type Handler struct {
	Read  func(port uint16) uint8
	Write func(port uint16, value uint8)
}

// Ports is a 64 KiB I/O space. Ports without a handler behave as a latch:
// reads return the last value written, or 0xFF if never written.
type Ports struct {
	latch    [0x10000]uint8
	written  [0x10000]bool
	handlers map[uint16]Handler
	Waits    int
	// Log records every access in order when non-nil.
	Log *[]Access
}

// Access is one recorded I/O cycle.
type Access struct {
	Port  uint16
	Value uint8
	Write bool
}

// NewPorts returns an empty I/O space.
func NewPorts() *Ports {
	return &Ports{handlers: make(map[uint16]Handler)}
}

// Handle installs h for port.
func (p *Ports) Handle(port uint16, h Handler) {
	p.handlers[port] = h
}

// Read implements Space.
func (p *Ports) Read(addr uint32) uint8 {
	port := uint16(addr)
	var v uint8 = 0xFF
	if h, ok := p.handlers[port]; ok && h.Read != nil {
		v = h.Read(port)
	} else if p.written[port] {
		v = p.latch[port]
	}
	if p.Log != nil {
		*p.Log = append(*p.Log, Access{Port: port, Value: v})
	}
	return v
}

// Write implements Space.
func (p *Ports) Write(addr uint32, value uint8) {
	port := uint16(addr)
	if p.Log != nil {
		*p.Log = append(*p.Log, Access{Port: port, Value: value, Write: true})
	}
	if h, ok := p.handlers[port]; ok && h.Write != nil {
		h.Write(port, value)
		return
	}
	p.latch[port] = value
	p.written[port] = true
}

// Set presets the latched value of port.
func (p *Ports) Set(port uint16, value uint8) {
	p.latch[port] = value
	p.written[port] = true
}

// WaitStates implements Waiter.
func (p *Ports) WaitStates(uint32, bool) int {
	return p.Waits
}
