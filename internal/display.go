package internal

// Screen dimensions in pixels
const (
	ScreenWidth  = 64
	ScreenHeight = 32
)

// Display is the 64x32 monochrome frame buffer, stored row-major.
// Every cell is either 0 or 1.
type Display [ScreenWidth * ScreenHeight]uint8

// At returns the pixel at column x and row y. Coordinates wrap around.
func (d *Display) At(x, y int) uint8 {
	return d[index(x, y)]
}

func (d *Display) clear() {
	*d = Display{}
}

// toggle flips the pixel at (x, y) and reports whether it is now lit.
func (d *Display) toggle(x, y int) bool {
	px := &d[index(x, y)]
	*px ^= 1
	return *px != 0
}

// index maps a coordinate onto the buffer, wrapping both axes. Negative
// values wrap forward.
func index(x, y int) int {
	x %= ScreenWidth
	if x < 0 {
		x += ScreenWidth
	}
	y %= ScreenHeight
	if y < 0 {
		y += ScreenHeight
	}
	return y*ScreenWidth + x
}

// drawSprite XORs an n-byte sprite starting at I onto the display at
// (V[x], V[y]). VF is 1 when any toggled pixel ends up lit, so redrawing a
// sprite over itself reports 0 unless another sprite overlapped it.
func (vm *C8VM) drawSprite(x, y, n uint8) error {
	if err := vm.checkRange(vm.regI, int(n)); err != nil {
		return err
	}
	originX := int(vm.regV[x])
	originY := int(vm.regV[y])

	vm.regV[0xF] = 0
	for row := 0; row < int(n); row++ {
		spriteByte := vm.memory[int(vm.regI)+row]
		for col := 0; col < 8; col++ {
			if spriteByte&(0x80>>col) == 0 {
				continue
			}
			if vm.pixels.toggle(originX+col, originY+row) {
				vm.regV[0xF] = 1
			}
		}
	}
	vm.drawFlag = true
	return nil
}

// Snapshot returns a copy of the display buffer.
func (vm *C8VM) Snapshot() Display {
	return vm.pixels
}

// IsDrawFlagSet returns whether the display changed since the flag was last unset
func (vm *C8VM) IsDrawFlagSet() bool {
	return vm.drawFlag
}

// UnsetDrawFlag unsets the draw flag
func (vm *C8VM) UnsetDrawFlag() {
	vm.drawFlag = false
}
