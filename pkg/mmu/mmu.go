// Package mmu implements the Z180 memory management unit: a 16-entry page
// table mapping the 64 KiB logical address space onto the 1 MiB physical
// space through the common and bank areas.
package mmu

// PhysMask bounds every physical address to the 20-bit bus.
const PhysMask = 0xFFFFF

// Reset values of the MMU registers. With these the mapping is the identity.
const (
	ResetCBR  uint8 = 0x00
	ResetBBR  uint8 = 0x00
	ResetCBAR uint8 = 0xF0
)

// MMU holds the three MMU registers and the page table derived from them.
type MMU struct {
	CBR  uint8 // common base
	BBR  uint8 // bank base
	CBAR uint8 // common/bank area split: high nibble CA, low nibble BA

	pages [16]uint32
}

// New returns an MMU in its reset state.
func New() *MMU {
	m := &MMU{}
	m.Reset()
	return m
}

// Reset restores the register defaults and recomputes the page table.
func (m *MMU) Reset() {
	m.Set(ResetCBR, ResetBBR, ResetCBAR)
}

// Set loads all three registers and recomputes the page table.
func (m *MMU) Set(cbr, bbr, cbar uint8) {
	m.CBR, m.BBR, m.CBAR = cbr, bbr, cbar
	m.Recompute()
}

// Recompute rebuilds the page table from CBR, BBR and CBAR. It must be called
// after any direct assignment to the register fields.
func (m *MMU) Recompute() {
	for page := range m.pages {
		m.pages[page] = PageBase(m.CBR, m.BBR, m.CBAR, uint8(page))
	}
}

// Translate maps a logical program address to its physical address.
func (m *MMU) Translate(logical uint16) uint32 {
	return m.pages[logical>>12] | uint32(logical&0x0FFF)
}

// Page returns the physical base of a 4 KiB logical page.
func (m *MMU) Page(page int) uint32 {
	return m.pages[page&15]
}

// PageBase computes the physical base address of a logical page. Pages below
// the bank area start (CBAR low nibble) are the common area 0 and map
// unchanged. Pages at or above the common area 1 start (CBAR high nibble) are
// offset by CBR, the rest by BBR.
func PageBase(cbr, bbr, cbar, page uint8) uint32 {
	ba := cbar & 0x0F
	ca := cbar >> 4
	addr := uint32(page) << 12
	if page >= ba {
		if page >= ca {
			addr += uint32(cbr) << 12
		} else {
			addr += uint32(bbr) << 12
		}
	}
	return addr & PhysMask
}

// Translate is the pure form of (*MMU).Translate.
func Translate(cbr, bbr, cbar uint8, logical uint16) uint32 {
	return PageBase(cbr, bbr, cbar, uint8(logical>>12)) | uint32(logical&0x0FFF)
}
