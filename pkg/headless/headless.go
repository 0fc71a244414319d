// Package headless runs the VM without a window, for automated checks of
// the display output.
package headless

import (
	"fmt"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"
	"time"

	"github.com/mnafees/chopper/internal"
)

// Palette maps pixel value 0 to the background and 1 to the foreground.
var Palette = color.Palette{
	color.RGBA{R: 0x1A, G: 0x23, B: 0x7E, A: 0xFF},
	color.RGBA{R: 0x9F, G: 0xA8, B: 0xDA, A: 0xFF},
}

// Result summarises a headless run.
type Result struct {
	Frames   int           // cycles completed
	Elapsed  time.Duration // wall clock time
	Checksum uint32        // CRC32 of the final display
	Waiting  bool          // stopped while waiting for a key press
}

// Run executes frames cycles as fast as possible and stops at the first
// error.
func Run(vm *internal.C8VM, frames int) (Result, error) {
	var res Result
	start := time.Now()
	for res.Frames < frames {
		if err := vm.Cycle(); err != nil {
			res.Elapsed = time.Since(start)
			return res, fmt.Errorf("frame %d: %w", res.Frames, err)
		}
		res.Frames++
	}
	res.Elapsed = time.Since(start)
	res.Checksum = Checksum(vm.Snapshot())
	_, res.Waiting = vm.WaitingForKey()
	return res, nil
}

// Checksum returns the CRC32 (IEEE) of the display buffer.
func Checksum(d internal.Display) uint32 {
	return crc32.ChecksumIEEE(d[:])
}

// VerifyChecksum compares got against an expected hex string. The
// expected value may carry a 0x prefix and use either case.
func VerifyChecksum(got uint32, expect string) error {
	want := strings.TrimPrefix(strings.ToLower(expect), "0x")
	if g := fmt.Sprintf("%08x", got); g != want {
		return fmt.Errorf("checksum mismatch: got %s, want %s", g, want)
	}
	return nil
}

// Image renders the display with every pixel enlarged to a scale x scale
// square.
func Image(d internal.Display, scale int) *image.Paletted {
	if scale < 1 {
		scale = 1
	}
	img := image.NewPaletted(image.Rect(0, 0, internal.ScreenWidth*scale, internal.ScreenHeight*scale), Palette)
	for y := 0; y < internal.ScreenHeight; y++ {
		for x := 0; x < internal.ScreenWidth; x++ {
			px := d.At(x, y)
			if px == 0 {
				continue
			}
			for dy := 0; dy < scale; dy++ {
				row := img.PixOffset(x*scale, y*scale+dy)
				for dx := 0; dx < scale; dx++ {
					img.Pix[row+dx] = px
				}
			}
		}
	}
	return img
}

// FillRGBA writes the display into pix as 8-bit RGBA using Palette. pix
// must hold 4 bytes per pixel.
func FillRGBA(pix []byte, d internal.Display) {
	for i, px := range d {
		r, g, b, a := Palette[px].RGBA()
		o := i * 4
		pix[o] = uint8(r >> 8)
		pix[o+1] = uint8(g >> 8)
		pix[o+2] = uint8(b >> 8)
		pix[o+3] = uint8(a >> 8)
	}
}

// WritePNG saves the display as a PNG image.
func WritePNG(path string, d internal.Display, scale int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, Image(d, scale)); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
