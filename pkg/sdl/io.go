package sdl

import (
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/mnafees/chopper/internal"
)

const (
	frameRate = 60

	screenColor = 0x1A237E
	spriteColor = 0x9FA8DA
)

// IO is the input/output abstraction layer for the VM
type IO struct {
	window  *sdl.Window
	surface *sdl.Surface

	vm        *internal.C8VM
	pixelSize int32
	log       logr.Logger
}

// NewIO returns a new I/O instance for the SDL frontend
func NewIO(vm *internal.C8VM, pixelSize int, logger logr.Logger) *IO {
	return &IO{
		vm:        vm,
		pixelSize: int32(pixelSize),
		log:       logger,
	}
}

// SetupWindow initialises and sets up the main SDL window
func (io *IO) SetupWindow(title string) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("initialising SDL: %w", err)
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		internal.ScreenWidth*io.pixelSize, internal.ScreenHeight*io.pixelSize, sdl.WINDOW_SHOWN)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	io.window = window
	io.surface, err = window.GetSurface()
	if err != nil {
		return fmt.Errorf("getting window surface: %w", err)
	}
	return io.clearScreen()
}

// Destroy should be called before quitting the application
func (io *IO) Destroy() {
	if io.window != nil {
		io.window.Destroy()
	}
	sdl.Quit()
}

// Loop runs the VM at 60 cycles per second until the window is closed or
// the VM fails.
func (io *IO) Loop() error {
	ticker := time.NewTicker(time.Second / frameRate)
	defer ticker.Stop()

	for range ticker.C {
		if quit := io.pollEvents(); quit {
			return nil
		}

		if err := io.vm.Cycle(); err != nil {
			return err
		}

		if io.vm.IsDrawFlagSet() {
			if err := io.draw(); err != nil {
				return err
			}
		}
	}
	return nil
}

// pollEvents forwards pending keyboard events to the VM and reports
// whether the window was closed.
func (io *IO) pollEvents() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch t := event.(type) {
		case *sdl.KeyboardEvent:
			code, ok := keymap(t.Keysym.Scancode)
			if !ok {
				continue
			}
			switch t.GetType() {
			case sdl.KEYDOWN:
				_ = io.vm.KeyDown(code)
			case sdl.KEYUP:
				_ = io.vm.KeyUp(code)
			}
		case *sdl.QuitEvent:
			io.log.V(1).Info("Window closed")
			return true
		}
	}
	return false
}

func (io *IO) clearScreen() error {
	if err := io.surface.FillRect(nil, screenColor); err != nil {
		return err
	}
	return io.window.UpdateSurface()
}

// Draws the current display snapshot on screen
func (io *IO) draw() error {
	if err := io.surface.FillRect(nil, screenColor); err != nil {
		return err
	}
	pixels := io.vm.Snapshot()
	for h := int32(0); h < internal.ScreenHeight; h++ {
		for w := int32(0); w < internal.ScreenWidth; w++ {
			if pixels.At(int(w), int(h)) == 1 {
				rect := &sdl.Rect{X: w * io.pixelSize, Y: h * io.pixelSize, W: io.pixelSize, H: io.pixelSize}
				if err := io.surface.FillRect(rect, spriteColor); err != nil {
					return err
				}
			}
		}
	}
	io.vm.UnsetDrawFlag()
	return io.window.UpdateSurface()
}

// Maps keys from a QWERTY keyboard to the keypad used by CHIP-8
// Below we have a mapping QWERTY keyboard to the CHIP-8 keypad
// +--------+--------+--------+--------+
// | 1 -> 1 | 2 -> 2 | 3 -> 3 | 4 -> C |
// +--------+--------+--------+--------+
// | Q -> 4 | W -> 5 | E -> 6 | R -> D |
// +--------+--------+--------+--------+
// | A -> 7 | S -> 8 | D -> 9 | F -> E |
// +--------+--------+--------+--------+
// | Z -> A | X -> 0 | C -> B | V -> F |
// +--------+--------+--------+--------+
func keymap(code sdl.Scancode) (uint8, bool) {
	key, ok := keys[code]
	return key, ok
}

var keys = map[sdl.Scancode]uint8{
	sdl.SCANCODE_1: 0x1, sdl.SCANCODE_2: 0x2, sdl.SCANCODE_3: 0x3, sdl.SCANCODE_4: 0xC,
	sdl.SCANCODE_Q: 0x4, sdl.SCANCODE_W: 0x5, sdl.SCANCODE_E: 0x6, sdl.SCANCODE_R: 0xD,
	sdl.SCANCODE_A: 0x7, sdl.SCANCODE_S: 0x8, sdl.SCANCODE_D: 0x9, sdl.SCANCODE_F: 0xE,
	sdl.SCANCODE_Z: 0xA, sdl.SCANCODE_X: 0x0, sdl.SCANCODE_C: 0xB, sdl.SCANCODE_V: 0xF,
}
