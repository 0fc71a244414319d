// Command chopper runs a CHIP-8 program without a window for a fixed number
// of frames and reports a checksum of the final display.
//
// Follows the CHIP-8 technical reference found at http://devernay.free.fr/hacks/chip8/C8TECH10.HTM
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/go-logr/logr"

	"github.com/mnafees/chopper/internal/cli"
	"github.com/mnafees/chopper/pkg/headless"
)

func main() {
	var f cli.Flags
	flags := cli.NewFlagSet("chopper", &f)
	flags.IntVar(&f.Frames, "frames", 300, "frames to run")
	flags.StringVar(&f.PNGOut, "outpng", "", "write last display to PNG at path")
	flags.StringVar(&f.Expect, "expect", "", "assert display CRC32 (hex)")
	if err := cli.Parse(flags, &f, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	logger := cli.NewLogger(os.Stderr, f.Trace)
	cli.PrintBanner(os.Stdout, "chopper", f.Quiet)

	if err := run(f, logger); err != nil {
		logger.Error(err, "Headless run failed")
		os.Exit(1)
	}
}

func run(f cli.Flags, logger logr.Logger) error {
	if f.Frames < 1 {
		return fmt.Errorf("frames must be positive, got %d", f.Frames)
	}

	vm, err := cli.NewVM(f, logger)
	if err != nil {
		return err
	}

	res, err := headless.Run(vm, f.Frames)
	if err != nil {
		return err
	}
	logger.Info("headless",
		"frames", res.Frames,
		"elapsed", res.Elapsed.String(),
		"waiting", res.Waiting,
		"crc32", fmt.Sprintf("%08x", res.Checksum))

	if f.PNGOut != "" {
		if err := headless.WritePNG(f.PNGOut, vm.Snapshot(), f.Scale); err != nil {
			return err
		}
		logger.Info("Wrote display", "path", f.PNGOut)
	}
	if f.Expect == "" {
		return nil
	}
	return headless.VerifyChecksum(res.Checksum, f.Expect)
}
