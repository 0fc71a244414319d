// Package main implements a CHIP-8 disassembler that writes an assembly
// listing with labels for jump and call targets.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mnafees/chopper/internal"
	"github.com/mnafees/chopper/internal/cli"
	"github.com/mnafees/chopper/internal/disasm"
)

type options struct {
	input  string
	output string
	quiet  bool

	noHexComments    bool
	noOffsetComments bool
}

func main() {
	opts, err := readArguments(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	logger := cli.NewLogger(os.Stderr, false)
	if opts.output != "" {
		cli.PrintBanner(os.Stdout, "chopper-disasm", opts.quiet)
	}

	if err := disasmFile(opts); err != nil {
		logger.Error(err, "Disassembling failed", "input", opts.input)
		os.Exit(1)
	}
}

func readArguments(args []string) (options, error) {
	var opts options
	flags := flag.NewFlagSet("chopper-disasm", flag.ContinueOnError)
	flags.StringVar(&opts.output, "o", "", "name of the output .asm file, printed on console if no name given")
	flags.BoolVar(&opts.noHexComments, "nohexcomments", false, "do not output opcode bytes as hex values in comments")
	flags.BoolVar(&opts.noOffsetComments, "nooffsets", false, "do not output offsets in comments")
	flags.BoolVar(&opts.quiet, "q", false, "perform operations quietly")
	if err := flags.Parse(args); err != nil {
		return opts, err
	}

	switch flags.NArg() {
	case 0:
	case 1:
		opts.input = flags.Arg(0)
	default:
		err := fmt.Errorf("expected at most one CHIP-8 program, got %d", flags.NArg())
		_, _ = fmt.Fprintln(flags.Output(), err)
		return opts, err
	}
	return opts, nil
}

func disasmFile(opts options) error {
	data, err := cli.LoadROM(opts.input)
	if err != nil {
		return err
	}
	if len(data) > internal.MaxProgramSize {
		return fmt.Errorf("%w: %d bytes", internal.ErrProgramTooLarge, len(data))
	}

	var w io.Writer = os.Stdout
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	insts := disasm.Disassemble(data, internal.ProgramStart)
	return disasm.Write(w, insts, disasm.Options{
		HexComments:    !opts.noHexComments,
		OffsetComments: !opts.noOffsetComments,
	})
}
