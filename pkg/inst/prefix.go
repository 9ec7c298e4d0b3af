// Package inst holds static metadata for the Z180 instruction set: T-state
// costs per prefix table, taken-branch penalties and mnemonics.
package inst

// Prefix selects one of the opcode tables.
type Prefix uint8

const (
	Op   Prefix = iota // unprefixed
	CB                 // CB xx
	DD                 // DD xx (IX)
	ED                 // ED xx
	FD                 // FD xx (IY)
	XYCB               // DD CB d xx and FD CB d xx
	PrefixCount
)

var prefixNames = [PrefixCount]string{"op", "cb", "dd", "ed", "fd", "xycb"}

func (p Prefix) String() string {
	if p < PrefixCount {
		return prefixNames[p]
	}
	return "?"
}
