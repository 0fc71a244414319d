// Package cli holds the command line handling shared by the executables.
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/retroenv/retrogolib/buildinfo"

	"github.com/mnafees/chopper/internal"
	"github.com/mnafees/chopper/roms"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

// Flags are the options common to all emulator frontends.
type Flags struct {
	ROMPath             string
	InstructionsPerTick int
	Scale               int
	Title               string
	Seed                int64
	Trace               bool
	Quiet               bool

	// headless
	Frames int
	PNGOut string
	Expect string
}

// NewFlagSet registers the emulator flags on a new flag set.
func NewFlagSet(name string, f *Flags) *flag.FlagSet {
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.IntVar(&f.InstructionsPerTick, "ipt", internal.DefaultInstructionsPerTick, "instructions executed per 60 Hz tick")
	flags.IntVar(&f.Scale, "scale", 10, "window scale")
	flags.StringVar(&f.Title, "title", "Chopper | CHIP-8 Emulator", "window title")
	flags.Int64Var(&f.Seed, "seed", 0, "seed for the RND instruction, 0 seeds from the clock")
	flags.BoolVar(&f.Trace, "trace", false, "log every executed instruction")
	flags.BoolVar(&f.Quiet, "q", false, "perform operations quietly")
	return flags
}

// Parse parses args with flags and takes the ROM path from the first
// positional argument. A missing ROM path selects the embedded demo.
// Errors are printed to the flag set's output, as flag does for its own.
func Parse(flags *flag.FlagSet, f *Flags, args []string) error {
	if err := flags.Parse(args); err != nil {
		return err
	}
	if err := validate(flags, f); err != nil {
		_, _ = fmt.Fprintln(flags.Output(), err)
		return err
	}
	return nil
}

func validate(flags *flag.FlagSet, f *Flags) error {
	switch flags.NArg() {
	case 0:
	case 1:
		f.ROMPath = flags.Arg(0)
	default:
		return fmt.Errorf("expected at most one CHIP-8 program, got %d", flags.NArg())
	}
	if f.Scale < 1 {
		return fmt.Errorf("scale must be positive, got %d", f.Scale)
	}
	return nil
}

// NewLogger returns a logger writing to w. Trace enables V(1) messages.
func NewLogger(w io.Writer, trace bool) logr.Logger {
	verbosity := 0
	if trace {
		verbosity = 1
	}
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			_, _ = fmt.Fprintf(w, "%s: %s\n", prefix, args)
			return
		}
		_, _ = fmt.Fprintln(w, args)
	}, funcr.Options{Verbosity: verbosity})
}

// PrintBanner prints the program name and version unless quiet is set.
func PrintBanner(w io.Writer, name string, quiet bool) {
	if quiet {
		return
	}
	_, _ = fmt.Fprintf(w, "%s version: %s\n", name, buildinfo.Version(version, commit, date))
}

// LoadROM reads the program at path, or returns the embedded demo when
// path is empty.
func LoadROM(path string) ([]byte, error) {
	if path == "" {
		return roms.Demo, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading program: %w", err)
	}
	return data, nil
}

// NewVM creates a VM configured from f with the program loaded.
func NewVM(f Flags, logger logr.Logger) (*internal.C8VM, error) {
	data, err := LoadROM(f.ROMPath)
	if err != nil {
		return nil, err
	}

	vm, err := internal.NewC8VM(
		internal.WithInstructionsPerTick(f.InstructionsPerTick),
		internal.WithByteSource(internal.NewRandSource(f.Seed)),
		internal.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	if err := vm.LoadProgram(data); err != nil {
		return nil, err
	}
	return vm, nil
}
