// Package stress runs random byte programs through the Z180 core and checks
// invariants that must hold for any guest code: no panics, cycle budgets
// honoured with a bounded overshoot, and consistent cycle accounting.
package stress

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/oisee/z180emu/pkg/bus"
	"github.com/oisee/z180emu/pkg/cpu"
)

// MaxOvershoot bounds how far one Execute call may run past its budget: the
// longest instruction plus an interrupt acknowledge and a DMA unit, all at
// maximum wait states.
const MaxOvershoot = 200

// Config holds stress run parameters.
type Config struct {
	Chains   int    // independent goroutines
	Programs int    // programs per chain
	Length   int    // maximum program length in bytes
	Budget   int    // T-states per program
	Slice    int    // T-states per Execute call
	Seed     uint64 // base seed; chain i uses Seed + i*golden ratio
	Logger   *slog.Logger
}

// Violation is one program that broke an invariant.
type Violation struct {
	Chain   int
	Index   int
	Program []byte
	Reason  string
}

func (v Violation) String() string {
	return fmt.Sprintf("chain %d program %d: %s [% X]", v.Chain, v.Index, v.Reason, v.Program)
}

// Result summarises a run.
type Result struct {
	Programs   int
	Cycles     uint64
	Violations []Violation
}

// Run executes cfg.Chains*cfg.Programs programs.
func Run(cfg Config) Result {
	if cfg.Chains <= 0 {
		cfg.Chains = 1
	}
	if cfg.Programs <= 0 {
		cfg.Programs = 1000
	}
	if cfg.Length <= 0 {
		cfg.Length = 32
	}
	if cfg.Budget <= 0 {
		cfg.Budget = 2000
	}
	if cfg.Slice <= 0 || cfg.Slice > cfg.Budget {
		cfg.Slice = cfg.Budget
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	var (
		mu  sync.Mutex
		res Result
		wg  sync.WaitGroup
	)
	for i := 0; i < cfg.Chains; i++ {
		wg.Add(1)
		go func(chainID int) {
			defer wg.Done()
			seed := cfg.Seed + uint64(chainID)*0x9E3779B97F4A7C15
			r := newRunner(cfg, rand.New(rand.NewPCG(seed, seed^0xDA3E39CB94B95BDB)))
			prog := r.mut.Random(1 + r.rng.IntN(cfg.Length))
			var cycles uint64
			var bad []Violation
			for n := 0; n < cfg.Programs; n++ {
				used, reason := r.run(prog)
				cycles += used
				if reason != "" {
					v := Violation{Chain: chainID, Index: n, Program: prog, Reason: reason}
					cfg.Logger.Warn("stress violation", "chain", chainID, "program", n, "reason", reason)
					bad = append(bad, v)
				}
				prog = r.mut.Mutate(prog)
			}
			cfg.Logger.Debug("stress chain done", "chain", chainID, "cycles", cycles, "violations", len(bad))
			mu.Lock()
			res.Programs += cfg.Programs
			res.Cycles += cycles
			res.Violations = append(res.Violations, bad...)
			mu.Unlock()
		}(i)
	}
	wg.Wait()
	return res
}

type runner struct {
	cfg Config
	rng *rand.Rand
	mut *Mutator
	ram *bus.RAM
	cpu *cpu.CPU
}

func newRunner(cfg Config, rng *rand.Rand) *runner {
	ram := bus.NewRAM()
	return &runner{
		cfg: cfg,
		rng: rng,
		mut: NewMutator(rng, cfg.Length),
		ram: ram,
		cpu: cpu.New(cpu.Config{Program: ram, IO: bus.NewPorts(), Logger: cfg.Logger}),
	}
}

var lines = []cpu.Line{
	cpu.LineIRQ0, cpu.LineIRQ1, cpu.LineIRQ2,
	cpu.LineDREQ0, cpu.LineDREQ1, cpu.LineNMI,
}

// run executes prog from a reset machine and returns the cycles used and
// the first broken invariant, if any.
func (r *runner) run(prog []byte) (used uint64, reason string) {
	defer func() {
		if p := recover(); p != nil {
			reason = fmt.Sprintf("panic: %v", p)
		}
	}()
	clear(r.ram.Bytes())
	if err := r.ram.Load(0, prog); err != nil {
		return 0, err.Error()
	}
	c := r.cpu
	c.Reset()

	for left := r.cfg.Budget; left > 0; {
		want := min(r.cfg.Slice, left)
		got := c.Execute(want)
		used += uint64(got)
		if got < want {
			return used, fmt.Sprintf("Execute(%d) returned %d", want, got)
		}
		if got-want >= MaxOvershoot {
			return used, fmt.Sprintf("Execute(%d) overshot to %d", want, got)
		}
		left -= got
		// toggle a random input line between slices
		c.SetInput(lines[r.rng.IntN(len(lines))], r.rng.IntN(2) == 0)
	}
	if c.Cycles() != used {
		return used, fmt.Sprintf("Cycles() = %d, Execute returned %d in total", c.Cycles(), used)
	}
	if c.IM > 2 {
		return used, fmt.Sprintf("IM = %d", c.IM)
	}
	return used, ""
}
