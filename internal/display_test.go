package internal_test

import (
	"github.com/google/go-cmp/cmp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mnafees/chopper/internal"
)

// litPixels lists the coordinates of every set pixel.
func litPixels(d internal.Display) [][2]int {
	var lit [][2]int
	for y := 0; y < internal.ScreenHeight; y++ {
		for x := 0; x < internal.ScreenWidth; x++ {
			if d.At(x, y) == 1 {
				lit = append(lit, [2]int{x, y})
			}
		}
	}
	return lit
}

func countLit(d internal.Display) int {
	return len(litPixels(d))
}

var _ = Describe("Display", func() {
	It("should draw a font glyph and raise the draw flag", func() {
		// LD V0, 0; LD F, V0; LD V1, 2; LD V2, 3; DRW V1, V2, 5
		vm := loadVM(0x6000, 0xF029, 0x6102, 0x6203, 0xD125)
		Expect(vm.IsDrawFlagSet()).To(BeFalse())
		step(vm, 5)

		Expect(vm.IsDrawFlagSet()).To(BeTrue())
		Expect(vm.State().V[0xF]).To(Equal(uint8(1)))

		// The glyph for 0 is F0 90 90 90 F0.
		var want [][2]int
		for row, bits := range []uint8{0xF0, 0x90, 0x90, 0x90, 0xF0} {
			for col := 0; col < 8; col++ {
				if bits&(0x80>>col) != 0 {
					want = append(want, [2]int{2 + col, 3 + row})
				}
			}
		}
		got := litPixels(vm.Snapshot())
		Expect(cmp.Diff(want, got)).To(BeEmpty())

		vm.UnsetDrawFlag()
		Expect(vm.IsDrawFlagSet()).To(BeFalse())
	})

	It("should erase the sprite when drawn twice and clear VF", func() {
		// LD I, 0; DRW V0, V0, 5; DRW V0, V0, 5
		vm := loadVM(0xA000, 0xD005, 0xD005)
		step(vm, 2)
		Expect(countLit(vm.Snapshot())).To(BeNumerically(">", 0))
		Expect(vm.State().V[0xF]).To(Equal(uint8(1)))

		step(vm, 1)
		Expect(vm.Snapshot()).To(Equal(internal.Display{}))
		Expect(vm.State().V[0xF]).To(BeZero())
	})

	It("should set VF on a redraw when another sprite overlapped", func() {
		// Glyph 0 (F0 90 90 90 F0) and glyph 1 (20 60 20 20 70) share
		// pixels, so redrawing glyph 0 relights the shared ones.
		// LD I, 0; DRW; LD I, 5; DRW; LD I, 0; DRW
		vm := loadVM(0xA000, 0xD005, 0xA005, 0xD005, 0xA000, 0xD005)
		step(vm, 6)
		Expect(vm.State().V[0xF]).To(Equal(uint8(1)))

		var want internal.Display
		for row, bits := range []uint8{0x20, 0x60, 0x20, 0x20, 0x70} {
			for col := 0; col < 8; col++ {
				if bits&(0x80>>col) != 0 {
					want[row*internal.ScreenWidth+col] = 1
				}
			}
		}
		Expect(cmp.Diff(want, vm.Snapshot())).To(BeEmpty())
	})

	It("should reset VF when a draw lights nothing", func() {
		// LD VF, 1; LD I, $206; DRW V0, V0, 1 with a blank sprite row at $206
		vm := loadVM(0x6F01, 0xA206, 0xD001, 0x0000)
		step(vm, 3)
		Expect(vm.State().V[0xF]).To(BeZero())
		Expect(vm.Snapshot()).To(Equal(internal.Display{}))
	})

	It("should wrap sprites around both edges", func() {
		// 200: LD V0, 60; LD V1, 30; LD I, $20C; DRW V0, V1, 4; JP $208
		// 20C: FF FF FF FF
		vm := loadVM(0x603C, 0x611E, 0xA20C, 0xD014, 0x1208, 0x0000, 0xFFFF, 0xFFFF)
		step(vm, 4)

		var want internal.Display
		for _, y := range []int{30, 31, 0, 1} {
			for _, x := range []int{60, 61, 62, 63, 0, 1, 2, 3} {
				want[y*internal.ScreenWidth+x] = 1
			}
		}
		Expect(cmp.Diff(want, vm.Snapshot())).To(BeEmpty())
		Expect(vm.State().V[0xF]).To(Equal(uint8(1)))
	})

	It("should wrap coordinates beyond the screen size", func() {
		// V0 = 200 wraps to column 8, V1 = 100 wraps to row 4
		vm := loadVM(0x60C8, 0x6164, 0xA20C, 0xD011, 0x1208, 0x0000, 0x8000)
		step(vm, 4)

		snap := vm.Snapshot()
		Expect(litPixels(snap)).To(Equal([][2]int{{8, 4}}))
	})

	It("should treat negative coordinates as wrapping forward", func() {
		var d internal.Display
		Expect(d.At(-1, -1)).To(BeZero())
		d[31*internal.ScreenWidth+63] = 1
		Expect(d.At(-1, -1)).To(Equal(uint8(1)))
		Expect(d.At(63+64, 31+32)).To(Equal(uint8(1)))
	})

	It("should use VF as a coordinate before resetting it", func() {
		// LD VF, 5; LD V0, 1; LD I, 0; DRW VF, V0, 1 draws the top row of glyph 0 at (5, 1)
		vm := loadVM(0x6F05, 0x6001, 0xA000, 0xDF01)
		step(vm, 4)

		snap := vm.Snapshot()
		Expect(litPixels(snap)).To(Equal([][2]int{{5, 1}, {6, 1}, {7, 1}, {8, 1}}))
	})

	It("should clear the screen with 00E0", func() {
		vm := loadVM(0xF029, 0xD005, 0x00E0)
		step(vm, 2)
		vm.UnsetDrawFlag()

		step(vm, 1)
		Expect(vm.Snapshot()).To(Equal(internal.Display{}))
		Expect(vm.IsDrawFlagSet()).To(BeTrue())
	})

	It("should reject sprites that read past the end of memory", func() {
		vm := loadVM(0xAFFE, 0xD003)
		step(vm, 1)
		Expect(vm.Step()).To(MatchError(internal.ErrAddressOutOfRange))
		Expect(vm.Snapshot()).To(Equal(internal.Display{}))
	})

	It("should return a copy from Snapshot", func() {
		vm := loadVM(0xF029, 0xD005)
		step(vm, 2)
		snap := vm.Snapshot()
		snap[0] ^= 1
		again := vm.Snapshot()
		Expect(again[0]).NotTo(Equal(snap[0]))
	})
})
