// Package verify exhaustively checks the core's accumulator arithmetic
// against a bit-level reference, both straight from the flag tables and by
// executing the opcodes.
package verify

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/oisee/z180emu/pkg/bus"
	"github.com/oisee/z180emu/pkg/cpu"
)

// Op is one checked accumulator operation.
type Op struct {
	Name   string
	Opcode uint8 // immediate form, or the single-byte INC A / DEC A
	Imm    bool

	ref   func(r *Regs, v uint8)
	table func(t *cpu.FlagTables, a, v, carry uint8) (res, f uint8)
}

func addIdx(carry, a, res uint8) int { return int(carry)<<16 | int(a)<<8 | int(res) }

// Ops lists every operation the verifier covers.
var Ops = []Op{
	{Name: "ADD", Opcode: 0xC6, Imm: true, ref: refAdd,
		table: func(t *cpu.FlagTables, a, v, _ uint8) (uint8, uint8) {
			res := a + v
			return res, t.Add[addIdx(0, a, res)]
		}},
	{Name: "ADC", Opcode: 0xCE, Imm: true, ref: refAdc,
		table: func(t *cpu.FlagTables, a, v, c uint8) (uint8, uint8) {
			res := a + v + c
			return res, t.Add[addIdx(c, a, res)]
		}},
	{Name: "SUB", Opcode: 0xD6, Imm: true, ref: refSub,
		table: func(t *cpu.FlagTables, a, v, _ uint8) (uint8, uint8) {
			res := a - v
			return res, t.Sub[addIdx(0, a, res)]
		}},
	{Name: "SBC", Opcode: 0xDE, Imm: true, ref: refSbc,
		table: func(t *cpu.FlagTables, a, v, c uint8) (uint8, uint8) {
			res := a - v - c
			return res, t.Sub[addIdx(c, a, res)]
		}},
	{Name: "AND", Opcode: 0xE6, Imm: true, ref: refAnd,
		table: func(t *cpu.FlagTables, a, v, _ uint8) (uint8, uint8) {
			return a & v, t.SZP[a&v] | cpu.FlagH
		}},
	{Name: "XOR", Opcode: 0xEE, Imm: true, ref: refXor,
		table: func(t *cpu.FlagTables, a, v, _ uint8) (uint8, uint8) {
			return a ^ v, t.SZP[a^v]
		}},
	{Name: "OR", Opcode: 0xF6, Imm: true, ref: refOr,
		table: func(t *cpu.FlagTables, a, v, _ uint8) (uint8, uint8) {
			return a | v, t.SZP[a|v]
		}},
	{Name: "CP", Opcode: 0xFE, Imm: true, ref: refCp,
		table: func(t *cpu.FlagTables, a, v, _ uint8) (uint8, uint8) {
			f := t.Sub[addIdx(0, a, a-v)]&^(cpu.Flag5|cpu.Flag3) | v&(cpu.Flag5|cpu.Flag3)
			return a, f
		}},
	{Name: "INC", Opcode: 0x3C, ref: refInc,
		table: func(t *cpu.FlagTables, a, _, c uint8) (uint8, uint8) {
			return a + 1, t.SZHVInc[a+1] | c
		}},
	{Name: "DEC", Opcode: 0x3D, ref: refDec,
		table: func(t *cpu.FlagTables, a, _, c uint8) (uint8, uint8) {
			return a - 1, t.SZHVDec[a-1] | c
		}},
}

// Path names how a result was produced.
type Path string

const (
	PathTable Path = "table"
	PathExec  Path = "exec"
)

// Mismatch is one input where the core disagrees with the reference.
type Mismatch struct {
	Op      string
	Path    Path
	A, N    uint8
	CarryIn uint8
	GotA    uint8
	GotF    uint8
	WantA   uint8
	WantF   uint8
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%-3s %-5s A=%02X n=%02X c=%d: got A=%02X F=%02X, want A=%02X F=%02X",
		m.Op, m.Path, m.A, m.N, m.CarryIn, m.GotA, m.GotF, m.WantA, m.WantF)
}

// Table collects mismatches from concurrent workers.
type Table struct {
	mu   sync.Mutex
	list []Mismatch
}

// Add records m.
func (t *Table) Add(m Mismatch) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.list = append(t.list, m)
}

// Mismatches returns a sorted copy of the recorded mismatches.
func (t *Table) Mismatches() []Mismatch {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := append([]Mismatch(nil), t.list...)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Op != b.Op {
			return a.Op < b.Op
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.CarryIn != b.CarryIn {
			return a.CarryIn < b.CarryIn
		}
		if a.A != b.A {
			return a.A < b.A
		}
		return a.N < b.N
	})
	return out
}

// Len returns the number of mismatches.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.list)
}

// Pool runs verification tasks on parallel workers, each with its own CPU.
type Pool struct {
	NumWorkers int
	Results    *Table
	checked    atomic.Int64
}

// NewPool creates a pool. numWorkers <= 0 uses one worker per CPU.
func NewPool(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Pool{NumWorkers: numWorkers, Results: &Table{}}
}

// Stats returns the number of inputs checked and mismatches found.
func (p *Pool) Stats() (checked, mismatches int64) {
	return p.checked.Load(), int64(p.Results.Len())
}

type task struct {
	op    *Op
	a     uint8
	carry uint8
}

// Run checks every operation in ops over all accumulator values, operands
// and carry inputs.
func (p *Pool) Run(ops []Op) {
	ch := make(chan task, len(ops)*512)
	for i := range ops {
		for a := 0; a < 256; a++ {
			for c := uint8(0); c < 2; c++ {
				ch <- task{op: &ops[i], a: uint8(a), carry: c}
			}
		}
	}
	close(ch)

	var wg sync.WaitGroup
	for i := 0; i < p.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := newWorker()
			for t := range ch {
				w.check(p, t)
			}
		}()
	}
	wg.Wait()
}

type worker struct {
	ram *bus.RAM
	cpu *cpu.CPU
	ft  *cpu.FlagTables
}

func newWorker() *worker {
	ram := bus.NewRAM()
	return &worker{
		ram: ram,
		cpu: cpu.New(cpu.Config{Program: ram, IO: bus.NewPorts()}),
		ft:  cpu.Tables(),
	}
}

func (w *worker) check(p *Pool, t task) {
	n := 256
	if !t.op.Imm {
		n = 1
	}
	for v := 0; v < n; v++ {
		p.checked.Add(1)
		want := Regs{A: t.a, F: t.carry}
		t.op.ref(&want, uint8(v))

		gotA, gotF := t.op.table(w.ft, t.a, uint8(v), t.carry)
		if gotA != want.A || gotF != want.F {
			p.Results.Add(t.mismatch(PathTable, uint8(v), gotA, gotF, want))
		}

		gotA, gotF = w.exec(t.op, t.a, uint8(v), t.carry)
		if gotA != want.A || gotF != want.F {
			p.Results.Add(t.mismatch(PathExec, uint8(v), gotA, gotF, want))
		}
	}
}

func (t task) mismatch(path Path, v, gotA, gotF uint8, want Regs) Mismatch {
	return Mismatch{
		Op: t.op.Name, Path: path, A: t.a, N: v, CarryIn: t.carry,
		GotA: gotA, GotF: gotF, WantA: want.A, WantF: want.F,
	}
}

// exec runs the opcode at address 0 with A and the carry flag preset.
func (w *worker) exec(op *Op, a, v, carry uint8) (uint8, uint8) {
	w.cpu.WritePhys(0, op.Opcode)
	w.cpu.WritePhys(1, v)
	w.cpu.PC = 0
	w.cpu.AF = cpu.Pair(a)<<8 | cpu.Pair(carry)
	w.cpu.Execute(1)
	return w.cpu.A(), w.cpu.F()
}
