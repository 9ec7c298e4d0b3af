package cpu

import (
	"fmt"
	"strings"
)

// StateEntry describes one inspectable piece of CPU state.
type StateEntry struct {
	Name   string
	Mask   uint64
	Format string // fmt verb for the value
	Hidden bool   // aliases of other entries, left out of dumps and snapshots

	get    func(c *CPU) uint64
	set    func(c *CPU, v uint64)
	imp    bool // SetState runs stateImport afterwards
	export bool // State runs stateExport first
}

var (
	stateTable []StateEntry
	stateIndex = map[string]int{}
)

func addState(e StateEntry) {
	if e.Format == "" {
		switch {
		case e.Mask <= 0xFF:
			e.Format = "%02X"
		case e.Mask <= 0xFFFF:
			e.Format = "%04X"
		default:
			e.Format = "%06X"
		}
	}
	stateIndex[e.Name] = len(stateTable)
	stateTable = append(stateTable, e)
}

func pairState(name string, hidden bool, f func(c *CPU) *Pair) {
	addState(StateEntry{
		Name: name, Mask: 0xFFFF, Hidden: hidden,
		get: func(c *CPU) uint64 { return uint64(*f(c)) },
		set: func(c *CPU, v uint64) { *f(c) = Pair(v) },
	})
}

func byteState(name string, mask uint8, hidden bool, f func(c *CPU) *uint8) {
	addState(StateEntry{
		Name: name, Mask: uint64(mask), Hidden: hidden,
		get: func(c *CPU) uint64 { return uint64(*f(c)) },
		set: func(c *CPU, v uint64) { *f(c) = uint8(v) },
	})
}

func wordState(name string, f func(c *CPU) *uint16) {
	addState(StateEntry{
		Name: name, Mask: 0xFFFF,
		get: func(c *CPU) uint64 { return uint64(*f(c)) },
		set: func(c *CPU, v uint64) { *f(c) = uint16(v) },
	})
}

func addrState(name string, mask uint32, f func(c *CPU) *uint32) {
	addState(StateEntry{
		Name: name, Mask: uint64(mask),
		get: func(c *CPU) uint64 { return uint64(*f(c)) },
		set: func(c *CPU, v uint64) { *f(c) = uint32(v) },
	})
}

func boolState(name string, f func(c *CPU) *bool) {
	addState(StateEntry{
		Name: name, Mask: 1, Format: "%X",
		get: func(c *CPU) uint64 {
			if *f(c) {
				return 1
			}
			return 0
		},
		set: func(c *CPU, v uint64) { *f(c) = v != 0 },
	})
}

func init() {
	pairState("PC", false, func(c *CPU) *Pair { return &c.PC })
	pairState("SP", false, func(c *CPU) *Pair { return &c.SP })
	for i, name := range []string{"B", "C", "D", "E", "H", "L"} {
		r := uint8(i)
		addState(StateEntry{
			Name: name, Mask: 0xFF, Format: "%02X", Hidden: true,
			get: func(c *CPU) uint64 { return uint64(c.reg8(r)) },
			set: func(c *CPU, v uint64) { c.setReg8(r, uint8(v)) },
		})
	}
	addState(StateEntry{
		Name: "A", Mask: 0xFF, Format: "%02X", Hidden: true,
		get: func(c *CPU) uint64 { return uint64(c.A()) },
		set: func(c *CPU, v uint64) { c.SetA(uint8(v)) },
	})
	pairState("AF", false, func(c *CPU) *Pair { return &c.AF })
	pairState("BC", false, func(c *CPU) *Pair { return &c.BC })
	pairState("DE", false, func(c *CPU) *Pair { return &c.DE })
	pairState("HL", false, func(c *CPU) *Pair { return &c.HL })
	pairState("IX", false, func(c *CPU) *Pair { return &c.IX })
	pairState("IY", false, func(c *CPU) *Pair { return &c.IY })
	pairState("AF2", false, func(c *CPU) *Pair { return &c.AF2 })
	pairState("BC2", false, func(c *CPU) *Pair { return &c.BC2 })
	pairState("DE2", false, func(c *CPU) *Pair { return &c.DE2 })
	pairState("HL2", false, func(c *CPU) *Pair { return &c.HL2 })
	addState(StateEntry{
		Name: "R", Mask: 0xFF, imp: true, export: true,
		get: func(c *CPU) uint64 { return uint64(c.rtemp) },
		set: func(c *CPU, v uint64) { c.rtemp = uint8(v) },
	})
	byteState("I", 0xFF, false, func(c *CPU) *uint8 { return &c.I })
	byteState("IM", 0x03, false, func(c *CPU) *uint8 { return &c.IM })
	boolState("IFF1", func(c *CPU) *bool { return &c.IFF1 })
	boolState("IFF2", func(c *CPU) *bool { return &c.IFF2 })
	boolState("HALT", func(c *CPU) *bool { return &c.Halt })
	addState(StateEntry{
		Name: "IOLINES", Mask: ioLinesMask, imp: true, export: true,
		get: func(c *CPU) uint64 { return uint64(c.ioltemp) },
		set: func(c *CPU, v uint64) { c.ioltemp = uint32(v) },
	})

	for ch := 0; ch < 2; ch++ {
		asextMask := uint8(asext0Mask)
		if ch == 1 {
			asextMask = asext1Mask
		}
		byteState(fmt.Sprintf("CNTLA%d", ch), 0xFF, false, func(c *CPU) *uint8 { return &c.regs.cntla[ch] })
		byteState(fmt.Sprintf("CNTLB%d", ch), 0xFF, false, func(c *CPU) *uint8 { return &c.regs.cntlb[ch] })
		byteState(fmt.Sprintf("STAT%d", ch), 0xFF, false, func(c *CPU) *uint8 { return &c.regs.stat[ch] })
		byteState(fmt.Sprintf("TDR%d", ch), 0xFF, false, func(c *CPU) *uint8 { return &c.regs.tdr[ch] })
		byteState(fmt.Sprintf("RDR%d", ch), 0xFF, false, func(c *CPU) *uint8 { return &c.regs.rdr[ch] })
		byteState(fmt.Sprintf("ASEXT%d", ch), asextMask, false, func(c *CPU) *uint8 { return &c.regs.asext[ch] })
		wordState(fmt.Sprintf("ASTC%d", ch), func(c *CPU) *uint16 { return &c.regs.astc[ch] })
	}
	byteState("CNTR", cntrMask, false, func(c *CPU) *uint8 { return &c.regs.cntr })
	byteState("TRDR", 0xFF, false, func(c *CPU) *uint8 { return &c.regs.trdr })
	for ch := 0; ch < 2; ch++ {
		wordState(fmt.Sprintf("TMDR%d", ch), func(c *CPU) *uint16 { return &c.regs.tmdrValue[ch] })
		wordState(fmt.Sprintf("RLDR%d", ch), func(c *CPU) *uint16 { return &c.regs.rldr[ch] })
	}
	byteState("TCR", 0xFF, false, func(c *CPU) *uint8 { return &c.regs.tcr })
	byteState("FRC", 0xFF, false, func(c *CPU) *uint8 { return &c.regs.frc })
	byteState("CMR", cmrMask, false, func(c *CPU) *uint8 { return &c.regs.cmr })
	byteState("CCR", 0xFF, false, func(c *CPU) *uint8 { return &c.regs.ccr })
	addrState("SAR0", sar0Mask, func(c *CPU) *uint32 { return &c.regs.sar0 })
	addrState("DAR0", dar0Mask, func(c *CPU) *uint32 { return &c.regs.dar0 })
	wordState("BCR0", func(c *CPU) *uint16 { return &c.regs.bcr[0] })
	addrState("MAR1", mar1Mask, func(c *CPU) *uint32 { return &c.regs.mar1 })
	addrState("IAR1", iar1Mask, func(c *CPU) *uint32 { return &c.regs.iar1 })
	wordState("BCR1", func(c *CPU) *uint16 { return &c.regs.bcr[1] })
	byteState("DSTAT", dstatMask, false, func(c *CPU) *uint8 { return &c.regs.dstat })
	byteState("DMODE", dmodeMask, false, func(c *CPU) *uint8 { return &c.regs.dmode })
	byteState("DCNTL", 0xFF, false, func(c *CPU) *uint8 { return &c.regs.dcntl })
	byteState("IL", ilMask, false, func(c *CPU) *uint8 { return &c.regs.il })
	byteState("ITC", itcMask, false, func(c *CPU) *uint8 { return &c.regs.itc })
	byteState("RCR", rcrMask, false, func(c *CPU) *uint8 { return &c.regs.rcr })
	for _, name := range []string{"CBR", "BBR", "CBAR"} {
		mmuReg := map[string]func(c *CPU) *uint8{
			"CBR":  func(c *CPU) *uint8 { return &c.mmu.CBR },
			"BBR":  func(c *CPU) *uint8 { return &c.mmu.BBR },
			"CBAR": func(c *CPU) *uint8 { return &c.mmu.CBAR },
		}[name]
		addState(StateEntry{
			Name: name, Mask: 0xFF, Format: "%02X", imp: true,
			get: func(c *CPU) uint64 { return uint64(*mmuReg(c)) },
			set: func(c *CPU, v uint64) { *mmuReg(c) = uint8(v) },
		})
	}
	byteState("OMCR", omcrMask, false, func(c *CPU) *uint8 { return &c.regs.omcr })
	byteState("IOCR", iocrMask, false, func(c *CPU) *uint8 { return &c.regs.iocr })
}

// StateEntries lists every state entry in display order.
func (c *CPU) StateEntries() []StateEntry {
	return append([]StateEntry(nil), stateTable...)
}

// LookupState returns the descriptor of the named entry.
func LookupState(name string) (StateEntry, bool) {
	i, ok := stateIndex[name]
	if !ok {
		return StateEntry{}, false
	}
	return stateTable[i], true
}

// State returns the current value of the named entry.
func (c *CPU) State(name string) (uint64, bool) {
	i, ok := stateIndex[name]
	if !ok {
		return 0, false
	}
	e := &stateTable[i]
	if e.export {
		c.stateExport(name)
	}
	return e.get(c) & e.Mask, true
}

// SetState stores v, masked, in the named entry. Entries that are
// composites of internal state are rebuilt from the stored value.
func (c *CPU) SetState(name string, v uint64) bool {
	i, ok := stateIndex[name]
	if !ok {
		return false
	}
	e := &stateTable[i]
	e.set(c, v&e.Mask)
	if e.imp {
		c.stateImport(name)
	}
	return true
}

// stateImport rebuilds internal state after an entry was written. Asking
// for an entry without an import transform is a wiring bug.
func (c *CPU) stateImport(name string) {
	switch name {
	case "R":
		c.R = c.rtemp
		c.R2 = c.rtemp & 0x80
	case "CBR", "BBR", "CBAR":
		c.mmu.Recompute()
	case "IOLINES":
		c.writeIOLines(c.ioltemp)
	default:
		panic(fmt.Sprintf("cpu: state import called for %q", name))
	}
}

func (c *CPU) stateExport(name string) {
	switch name {
	case "R":
		c.rtemp = c.Refresh()
	case "IOLINES":
		c.ioltemp = c.iol
	default:
		panic(fmt.Sprintf("cpu: state export called for %q", name))
	}
}

// FlagString renders F as SZ5H3PNC with '.' for clear bits.
func (c *CPU) FlagString() string {
	const names = "SZ5H3PNC"
	f := c.F()
	var b strings.Builder
	for i := 0; i < 8; i++ {
		if f&(0x80>>i) != 0 {
			b.WriteByte(names[i])
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}
