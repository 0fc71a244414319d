package main

import (
	"errors"
	"flag"
	"os"

	"github.com/mnafees/chopper/internal/cli"
	"github.com/mnafees/chopper/pkg/sdl"
)

func main() {
	var f cli.Flags
	flags := cli.NewFlagSet("chopper-sdl", &f)
	if err := cli.Parse(flags, &f, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	logger := cli.NewLogger(os.Stderr, f.Trace)
	cli.PrintBanner(os.Stdout, "chopper-sdl", f.Quiet)

	vm, err := cli.NewVM(f, logger)
	if err != nil {
		logger.Error(err, "Starting emulator failed")
		os.Exit(1)
	}

	io := sdl.NewIO(vm, f.Scale, logger)
	if err := io.SetupWindow(f.Title); err != nil {
		io.Destroy()
		logger.Error(err, "Opening window failed")
		os.Exit(1)
	}
	if err := io.Loop(); err != nil {
		io.Destroy()
		logger.Error(err, "Emulation halted")
		os.Exit(1)
	}
	io.Destroy()
}
