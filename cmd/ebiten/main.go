package main

import (
	"errors"
	"flag"
	"os"

	"github.com/mnafees/chopper/internal/cli"
	"github.com/mnafees/chopper/pkg/ebitenui"
)

func main() {
	var f cli.Flags
	flags := cli.NewFlagSet("chopper-ebiten", &f)
	if err := cli.Parse(flags, &f, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	logger := cli.NewLogger(os.Stderr, f.Trace)
	cli.PrintBanner(os.Stdout, "chopper-ebiten", f.Quiet)

	vm, err := cli.NewVM(f, logger)
	if err != nil {
		logger.Error(err, "Starting emulator failed")
		os.Exit(1)
	}

	app := ebitenui.NewApp(ebitenui.Config{Title: f.Title, Scale: f.Scale}, vm, logger)
	if err := app.Run(); err != nil {
		logger.Error(err, "Emulation halted")
		os.Exit(1)
	}
}
