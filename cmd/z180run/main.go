package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/bradleyjkemp/memviz"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/oisee/z180emu/pkg/config"
	"github.com/oisee/z180emu/pkg/cpu"
	"github.com/oisee/z180emu/pkg/inst"
	"github.com/oisee/z180emu/pkg/snapshot"
	"github.com/oisee/z180emu/pkg/stress"
	"github.com/oisee/z180emu/pkg/verify"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "z180run",
		Short:         "Zilog Z180 emulator core, runner and test tools",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// run command
	cfg := config.Default()
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Load a binary and execute it for a number of T-states",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			level, _ := cfg.Level()
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			m, err := newMachine(cfg, logger, os.Stdout)
			if err != nil {
				return err
			}
			defer m.Close()
			if err := m.Run(); err != nil {
				return err
			}
			fmt.Printf("%d T-states, flags %s\n", m.cpu.Cycles(), m.cpu.FlagString())
			return writeState(os.Stdout, cpuValues(m.cpu), termWidth())
		},
	}
	cfg.AddFlags(runCmd.Flags())

	// state command
	var dot string
	stateCmd := &cobra.Command{
		Use:   "state [snapshot]",
		Short: "Print the registers saved in a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := snapshot.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%d T-states, %d bytes of memory\n", s.Cycles, len(s.Memory))
			if err := writeState(os.Stdout, snapshotValues(s), termWidth()); err != nil {
				return err
			}
			if dot == "" {
				return nil
			}
			f, err := os.Create(dot)
			if err != nil {
				return err
			}
			defer f.Close()
			// the memory image would swamp the graph
			memviz.Map(f, &struct {
				Registers  []snapshot.Entry
				Cycles     uint64
				MemorySize int
			}{s.Registers, s.Cycles, len(s.Memory)})
			return nil
		},
	}
	stateCmd.Flags().StringVar(&dot, "dot", "", "Write a Graphviz graph of the snapshot to this file")

	// verify command
	var workers int
	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Exhaustively check the ALU flag tables against a reference",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := verify.NewPool(workers)
			fmt.Printf("Verifying %d operations on %d workers\n", len(verify.Ops), p.NumWorkers)
			p.Run(verify.Ops)
			checked, bad := p.Stats()
			for _, m := range p.Results.Mismatches() {
				fmt.Println("  " + m.String())
			}
			fmt.Printf("%d inputs checked, %d mismatches\n", checked, bad)
			if bad != 0 {
				return fmt.Errorf("%d mismatches", bad)
			}
			return nil
		},
	}
	verifyCmd.Flags().IntVar(&workers, "workers", 0, "Number of workers (0 = NumCPU)")

	// stress command
	var scfg stress.Config
	var verbose bool
	stressCmd := &cobra.Command{
		Use:   "stress",
		Short: "Run random programs and check core invariants",
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				scfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
			}
			res := stress.Run(scfg)
			for _, v := range res.Violations {
				fmt.Println("  " + v.String())
			}
			fmt.Printf("%d programs, %d T-states, %d violations\n", res.Programs, res.Cycles, len(res.Violations))
			if len(res.Violations) != 0 {
				return fmt.Errorf("%d invariant violations", len(res.Violations))
			}
			return nil
		},
	}
	stressCmd.Flags().IntVar(&scfg.Programs, "programs", 1000, "Programs per chain")
	stressCmd.Flags().IntVar(&scfg.Chains, "chains", 1, "Parallel chains")
	stressCmd.Flags().IntVar(&scfg.Length, "length", 32, "Maximum program length in bytes")
	stressCmd.Flags().IntVar(&scfg.Budget, "budget", 2000, "T-states per program")
	stressCmd.Flags().IntVar(&scfg.Slice, "slice", 500, "T-states per Execute call")
	stressCmd.Flags().Uint64Var(&scfg.Seed, "seed", 1, "Random seed")
	stressCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log each chain")

	// disasm command
	var org uint16
	disasmCmd := &cobra.Command{
		Use:   "disasm [binary]",
		Short: "Disassemble a binary image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			return disassemble(os.Stdout, data, org)
		},
	}
	disasmCmd.Flags().Uint16Var(&org, "org", 0, "Address of the first byte")

	rootCmd.AddCommand(runCmd, stateCmd, verifyCmd, stressCmd, disasmCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// disassemble lists data as if loaded at org.
func disassemble(w io.Writer, data []byte, org uint16) error {
	read := func(addr uint16) uint8 {
		if off := int(addr - org); off < len(data) {
			return data[off]
		}
		return 0
	}
	for off := 0; off < len(data); {
		pc := org + uint16(off)
		text, n := inst.Disassemble(read, pc)
		end := min(off+n, len(data))
		if _, err := fmt.Fprintf(w, "%04X  %-12s %s\n", pc, fmt.Sprintf("% X", data[off:end]), text); err != nil {
			return err
		}
		off += n
	}
	return nil
}

type value struct {
	name   string
	format string
	v      uint64
}

func cpuValues(c *cpu.CPU) []value {
	var out []value
	for _, e := range c.StateEntries() {
		if e.Hidden {
			continue
		}
		v, _ := c.State(e.Name)
		out = append(out, value{e.Name, e.Format, v})
	}
	return out
}

func snapshotValues(s *snapshot.Snapshot) []value {
	var out []value
	for _, r := range s.Registers {
		format := "%X"
		if e, ok := cpu.LookupState(r.Name); ok {
			format = e.Format
		}
		out = append(out, value{r.Name, format, r.Value})
	}
	return out
}

// writeState prints NAME=value cells, as many per line as width allows.
func writeState(w io.Writer, vals []value, width int) error {
	cells := make([]string, 0, len(vals))
	widest := 0
	for _, v := range vals {
		cell := v.name + "=" + fmt.Sprintf(v.format, v.v)
		cells = append(cells, cell)
		widest = max(widest, len(cell))
	}
	perLine := max(1, width/(widest+2))
	var b strings.Builder
	for i, cell := range cells {
		b.WriteString(cell)
		if (i+1)%perLine == 0 || i == len(cells)-1 {
			b.WriteByte('\n')
		} else {
			b.WriteString(strings.Repeat(" ", widest+2-len(cell)))
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// termWidth returns the width of stdout, or 80 when it is not a terminal.
func termWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 80
	}
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		return w
	}
	return 80
}
