package stress

import "math/rand/v2"

// prefixes are the opcode page selectors a mutation can splice in, so that
// random programs reach every dispatch table.
var prefixes = [][]byte{
	{0xCB}, {0xDD}, {0xED}, {0xFD},
	{0xDD, 0xCB}, {0xFD, 0xCB},
}

// Mutator applies random edits to byte programs.
type Mutator struct {
	rng    *rand.Rand
	maxLen int
}

// NewMutator creates a Mutator producing programs of at most maxLen bytes.
func NewMutator(rng *rand.Rand, maxLen int) *Mutator {
	if maxLen < 1 {
		maxLen = 1
	}
	return &Mutator{rng: rng, maxLen: maxLen}
}

// Random returns a fresh program of n random bytes.
func (m *Mutator) Random(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(m.rng.IntN(256))
	}
	return out
}

// Mutate applies one weighted random edit. prog is not modified.
func (m *Mutator) Mutate(prog []byte) []byte {
	if len(prog) == 0 {
		return m.Random(1)
	}
	// 40% replace, 20% swap, 15% delete, 15% insert, 10% prefix
	r := m.rng.IntN(100)
	switch {
	case r < 40:
		return m.Replace(prog)
	case r < 60:
		return m.Swap(prog)
	case r < 75:
		return m.Delete(prog)
	case r < 90:
		return m.Insert(prog)
	default:
		return m.Prefix(prog)
	}
}

// Replace overwrites one byte.
func (m *Mutator) Replace(prog []byte) []byte {
	out := clone(prog)
	out[m.rng.IntN(len(out))] = byte(m.rng.IntN(256))
	return out
}

// Swap exchanges two adjacent bytes.
func (m *Mutator) Swap(prog []byte) []byte {
	out := clone(prog)
	if len(out) < 2 {
		return out
	}
	pos := m.rng.IntN(len(out) - 1)
	out[pos], out[pos+1] = out[pos+1], out[pos]
	return out
}

// Delete removes one byte unless only one is left.
func (m *Mutator) Delete(prog []byte) []byte {
	if len(prog) <= 1 {
		return clone(prog)
	}
	pos := m.rng.IntN(len(prog))
	out := make([]byte, 0, len(prog)-1)
	out = append(out, prog[:pos]...)
	return append(out, prog[pos+1:]...)
}

// Insert adds a random byte, or replaces one when the program is full.
func (m *Mutator) Insert(prog []byte) []byte {
	if len(prog) >= m.maxLen {
		return m.Replace(prog)
	}
	return m.splice(prog, []byte{byte(m.rng.IntN(256))})
}

// Prefix splices a page prefix followed by a random opcode byte.
func (m *Mutator) Prefix(prog []byte) []byte {
	p := prefixes[m.rng.IntN(len(prefixes))]
	ins := append(clone(p), byte(m.rng.IntN(256)))
	if len(prog)+len(ins) > m.maxLen {
		return m.Replace(prog)
	}
	return m.splice(prog, ins)
}

func (m *Mutator) splice(prog, ins []byte) []byte {
	pos := m.rng.IntN(len(prog) + 1)
	out := make([]byte, 0, len(prog)+len(ins))
	out = append(out, prog[:pos]...)
	out = append(out, ins...)
	return append(out, prog[pos:]...)
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
