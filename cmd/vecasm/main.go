// Package main implements the vecasm CLI: it prints the instruction blocks
// of the scalar and vectorized add kernels from an assembly listing and
// times one call of each.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/715d/vecasm/internal/cpu"
	"github.com/715d/vecasm/internal/report"
	"github.com/715d/vecasm/pkg/assembly"
	"github.com/715d/vecasm/pkg/kernel"
	"github.com/715d/vecasm/pkg/symbols"
	"github.com/715d/vecasm/pkg/timing"
	"github.com/715d/vecasm/pkg/workload"
)

// Config holds all command-line configuration options for vecasm.
type Config struct {
	Listing      string // path of the assembly listing
	Verbose      bool   // enables debug logging on stderr
	JSON         bool   // enables JSON output format
	Convention   string // symbol naming convention; empty selects by build target
	SymbolFile   string // YAML symbol table merged over the defaults
	Size         int    // elements per kernel input array
	Seed         uint64 // input generator seed; 0 draws a random one
	PrintListing bool   // echo the full listing after the extracted blocks
	Profile      bool   // enables CPU and memory profiling
}

const exitFailure = 1

const usage = "usage: vecasm <listing-file>"

var (
	// Set via ldflags during build.
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	a := &app{}
	rootCmd := a.newRootCmd()
	if args == nil {
		// cobra falls back to os.Args on nil.
		args = []string{}
	}
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		_ = a.teardown(nil, nil)
		if err.Error() != "" {
			fmt.Fprintln(stderr, err.Error())
		}
		var cErr *codedError
		if errors.As(err, &cErr) {
			return cErr.code
		}
		return exitFailure
	}
	return 0
}

type app struct {
	cfg  Config
	prof *profiler
}

func (a *app) newRootCmd() *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "vecasm <listing-file>",
		Short: "Show and time scalar vs. SIMD int32 addition",
		Long: `vecasm extracts the instruction blocks of the scalar "add" and the
vectorized "add_vectorized" kernels from a compiler-generated assembly
listing, echoes the whole listing, and times one call of each kernel.

Symbol names depend on the toolchain that produced the listing:
  itanium  GCC / Clang mangled names (default on non-Windows builds)
  msvc     Microsoft decorated names (default on Windows builds)
  go       go tool objdump output of this binary`,
		Example: `  vecasm main.s                          # GCC/Clang listing
  vecasm --convention msvc main.asm      # MSVC /FA listing
  go tool objdump -s 'kernel\.' vecasm > k.txt && vecasm --convention go k.txt
  vecasm --symbols names.yaml --json main.s`,
		Args:               requireListing,
		RunE:               a.runCommand,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.teardown,
		SilenceUsage:       true,
		SilenceErrors:      true,
		Version:            version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("vecasm version %s\n  commit: %s\n  built:  %s\n", version, gitCommit, buildTime))

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&a.cfg.Verbose, "verbose", "v", false, "Enable verbose output")
	flags.BoolVar(&a.cfg.JSON, "json", false, "Output in JSON format (blocks are embedded, the full listing is omitted)")
	flags.StringVar(&a.cfg.Convention, "convention", "", "Symbol naming convention: itanium, msvc, go, or one from --symbols")
	flags.StringVar(&a.cfg.SymbolFile, "symbols", "", "YAML symbol table merged over the built-in names")
	flags.IntVar(&a.cfg.Size, "size", workload.DefaultSize, "Number of int32 elements per input array")
	flags.Uint64Var(&a.cfg.Seed, "seed", 0, "Input generator seed (0 picks a random seed)")
	flags.BoolVar(&a.cfg.PrintListing, "listing", true, "Print the full listing after the extracted blocks")
	flags.BoolVar(&a.cfg.Profile, "profile", false, "Enable CPU and memory profiling (writes "+cpuProfileName+" and "+memProfileName+" to the current directory)")

	return rootCmd
}

// requireListing rejects any invocation without exactly one listing path
// before anything is opened.
func requireListing(_ *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errWithCode(errors.New(usage), exitFailure)
	}
	return nil
}

func (a *app) runCommand(cmd *cobra.Command, args []string) error {
	cfg := &a.cfg
	cfg.Listing = args[0]
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	conv, names, err := resolveSymbols(cfg)
	if err != nil {
		return errWithCode(err, exitFailure)
	}
	slog.Info("resolved symbols", "convention", conv, "scalar", names.Scalar, "vectorized", names.Vectorized)

	inputs, err := workload.Generate(cfg.Size, cfg.Seed)
	if err != nil {
		return errWithCode(fmt.Errorf("generate inputs: %w", err), exitFailure)
	}

	listing, err := assembly.Open(cfg.Listing)
	if err != nil {
		return errWithCode(err, exitFailure)
	}
	defer listing.Close()
	slog.Info("opened listing", "path", cfg.Listing)

	features := cpu.DetectFeatures()
	rep := &report.Report{
		Listing:        cfg.Listing,
		Convention:     string(conv),
		Implementation: kernel.Implementation(),
		CPU:            features.Architecture,
		Extensions:     features.Extensions(),
		Size:           inputs.Len(),
		Kernels: []report.Kernel{
			{Name: "add", Symbol: names.Scalar},
			{Name: "add_vectorized", Symbol: names.Vectorized},
		},
	}

	for i := range rep.Kernels {
		k := &rep.Kernels[i]
		block := extractBlock(listing, stderr, k.Symbol)
		k.Found = block.found
		if cfg.JSON {
			k.Block = block.lines
			continue
		}
		if _, err := stdout.Write(block.text.Bytes()); err != nil {
			return errWithCode(fmt.Errorf("write block: %w", err), exitFailure)
		}
	}

	if cfg.PrintListing && !cfg.JSON {
		printListing(listing, stdout, stderr)
	}

	// Both kernels run back to back on the same buffers; the second
	// overwrites what the first wrote.
	rep.Kernels[0].Sample = timing.Measure("add", func() {
		kernel.Add(inputs.Dst, inputs.LHS, inputs.RHS)
	})
	rep.Kernels[1].Sample = timing.Measure("add_vectorized", func() {
		kernel.AddVectorized(inputs.Dst, inputs.LHS, inputs.RHS)
	})
	slog.Debug("timed kernels",
		"add", rep.Kernels[0].Sample.Elapsed,
		"add_vectorized", rep.Kernels[1].Sample.Elapsed,
		"implementation", rep.Implementation)

	if cfg.JSON {
		err = report.WriteJSON(stdout, rep, version)
	} else {
		err = report.WriteText(stdout, rep)
	}
	if err != nil {
		return errWithCode(fmt.Errorf("format results: %w", err), exitFailure)
	}
	return nil
}

func resolveSymbols(cfg *Config) (symbols.Convention, symbols.Names, error) {
	table := symbols.DefaultTable()
	if cfg.SymbolFile != "" {
		if err := table.LoadFile(cfg.SymbolFile); err != nil {
			return "", symbols.Names{}, fmt.Errorf("load symbols: %w", err)
		}
	}
	conv, names, err := table.Resolve(symbols.Convention(cfg.Convention))
	if err != nil {
		return "", symbols.Names{}, fmt.Errorf("resolve symbols: %w", err)
	}
	return conv, names, nil
}

type extracted struct {
	found bool
	text  bytes.Buffer
	lines []string
}

// extractBlock rewinds the listing and extracts the block of symbol.
// Every failure is diagnosed on stderr and never stops the run.
func extractBlock(listing *assembly.Listing, stderr io.Writer, symbol string) *extracted {
	block := &extracted{}
	if err := listing.Rewind(); err != nil {
		fmt.Fprintf(stderr, "cannot extract %s: %v\n", symbol, err)
		return block
	}

	found, err := listing.Extract(&block.text, symbol)
	block.found = found
	if err != nil {
		fmt.Fprintf(stderr, "error while extracting %s: %v\n", symbol, err)
	}
	if found {
		block.lines = blockLines(block.text.String())
		slog.Debug("extracted block", "symbol", symbol, "lines", len(block.lines))
		return block
	}

	fmt.Fprintf(stderr, "function %s not found in %s\n", symbol, listing.Name())
	labels, err := listing.Labels()
	if err != nil {
		slog.Debug("cannot list labels", "error", err)
		return block
	}
	if candidates := assembly.SuggestLabels(labels, symbol); len(candidates) > 0 {
		fmt.Fprintf(stderr, "  similar labels: %s\n", strings.Join(candidates, ", "))
	}
	return block
}

// blockLines drops the header Extract writes and splits the rest.
func blockLines(text string) []string {
	_, body, _ := strings.Cut(text, "\n")
	body = strings.TrimSuffix(body, "\n")
	if body == "" {
		return []string{}
	}
	return strings.Split(body, "\n")
}

// printListing echoes the whole listing. Failures are diagnosed only.
func printListing(listing *assembly.Listing, stdout, stderr io.Writer) {
	if err := listing.Rewind(); err != nil {
		fmt.Fprintf(stderr, "cannot print listing: %v\n", err)
		return
	}
	if err := listing.PrintAll(stdout); err != nil {
		fmt.Fprintf(stderr, "cannot print listing: %v\n", err)
	}
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	slog.SetDefault(newLogger(a.cfg, cmd.ErrOrStderr()))

	if !a.cfg.Profile {
		return nil
	}
	prof, err := startProfiling(".")
	if err != nil {
		return err
	}
	a.prof = prof
	return nil
}

func (a *app) teardown(_ *cobra.Command, _ []string) error {
	return a.prof.stop()
}

// newLogger discards everything unless verbose output was requested.
func newLogger(cfg Config, stderr io.Writer) *slog.Logger {
	if !cfg.Verbose {
		return slog.New(slog.DiscardHandler)
	}
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	if cfg.JSON {
		return slog.New(slog.NewJSONHandler(stderr, opts))
	}
	return slog.New(slog.NewTextHandler(stderr, opts))
}

func errWithCode(err error, code int) error {
	return &codedError{err: err, code: code}
}

type codedError struct {
	err  error
	code int
}

func (e *codedError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return ""
}

func (e *codedError) Unwrap() error {
	return e.err
}
