// Package snapshot saves and restores a Z180 machine: the CPU's state
// enumeration plus its physical memory image.
package snapshot

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"

	"github.com/oisee/z180emu/pkg/cpu"
)

// Entry is one saved state value.
type Entry struct {
	Name  string
	Value uint64
}

// Snapshot is a saved machine.
type Snapshot struct {
	Registers []Entry
	Memory    []byte
	Cycles    uint64 // informational; restoring does not rewind the counter
}

// Capture records c and a copy of mem. Hidden aliases are left out; their
// values are carried by the pairs they alias.
func Capture(c *cpu.CPU, mem []byte) *Snapshot {
	s := &Snapshot{
		Memory: append([]byte(nil), mem...),
		Cycles: c.Cycles(),
	}
	for _, e := range c.StateEntries() {
		if e.Hidden {
			continue
		}
		v, _ := c.State(e.Name)
		s.Registers = append(s.Registers, Entry{Name: e.Name, Value: v})
	}
	return s
}

// Restore copies the memory image into mem and loads every register
// through the state import path.
func (s *Snapshot) Restore(c *cpu.CPU, mem []byte) error {
	if len(s.Memory) != len(mem) {
		return fmt.Errorf("restore: image is %d bytes, memory is %d", len(s.Memory), len(mem))
	}
	copy(mem, s.Memory)
	for _, e := range s.Registers {
		if !c.SetState(e.Name, e.Value) {
			return fmt.Errorf("restore: unknown state entry %q", e.Name)
		}
	}
	return nil
}

// Value returns the saved value of name.
func (s *Snapshot) Value(name string) (uint64, bool) {
	for _, e := range s.Registers {
		if e.Name == name {
			return e.Value, true
		}
	}
	return 0, false
}

// Encode writes s to w.
func (s *Snapshot) Encode(w io.Writer) error {
	return gob.NewEncoder(w).Encode(s)
}

// Decode reads a snapshot from r.
func Decode(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := gob.NewDecoder(r).Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save writes s to a file.
func Save(path string, s *Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("save snapshot %s: %w", path, err)
	}
	return f.Close()
}

// Load reads a snapshot file.
func Load(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", path, err)
	}
	return s, nil
}
