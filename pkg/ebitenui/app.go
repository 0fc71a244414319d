// Package ebitenui runs the VM in an Ebitengine window.
package ebitenui

import (
	"github.com/go-logr/logr"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/mnafees/chopper/internal"
	"github.com/mnafees/chopper/pkg/headless"
)

// Config holds the window settings.
type Config struct {
	Title string
	Scale int
}

// App implements ebiten.Game around a VM. Ebitengine calls Update at 60
// ticks per second, and each tick runs one VM cycle.
type App struct {
	cfg Config
	vm  *internal.C8VM
	log logr.Logger

	tex *ebiten.Image
	pix []byte
}

// NewApp configures the window for vm.
func NewApp(cfg Config, vm *internal.C8VM, logger logr.Logger) *App {
	if cfg.Scale <= 0 {
		cfg.Scale = 10
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(internal.ScreenWidth*cfg.Scale, internal.ScreenHeight*cfg.Scale)
	ebiten.SetTPS(60)
	return &App{
		cfg: cfg,
		vm:  vm,
		log: logger,
		pix: make([]byte, internal.ScreenWidth*internal.ScreenHeight*4),
	}
}

// Run blocks until the window is closed or the VM fails.
func (a *App) Run() error { return ebiten.RunGame(a) }

// Update forwards key edges to the VM and runs one cycle.
func (a *App) Update() error {
	for key, code := range keys {
		if inpututil.IsKeyJustPressed(key) {
			_ = a.vm.KeyDown(code)
		}
		if inpututil.IsKeyJustReleased(key) {
			_ = a.vm.KeyUp(code)
		}
	}
	return a.vm.Cycle()
}

// Draw paints the display, refreshing the texture only after it changed.
func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(internal.ScreenWidth, internal.ScreenHeight)
		headless.FillRGBA(a.pix, a.vm.Snapshot())
		a.tex.WritePixels(a.pix)
	}
	if a.vm.IsDrawFlagSet() {
		headless.FillRGBA(a.pix, a.vm.Snapshot())
		a.tex.WritePixels(a.pix)
		a.vm.UnsetDrawFlag()
	}
	screen.DrawImage(a.tex, nil)
}

// Layout keeps the logical screen at the CHIP-8 resolution.
func (a *App) Layout(_, _ int) (int, int) {
	return internal.ScreenWidth, internal.ScreenHeight
}

// Same QWERTY layout as the SDL frontend:
//
//	1 2 3 4      1 2 3 C
//	Q W E R  ->  4 5 6 D
//	A S D F      7 8 9 E
//	Z X C V      A 0 B F
var keys = map[ebiten.Key]uint8{
	ebiten.Key1: 0x1, ebiten.Key2: 0x2, ebiten.Key3: 0x3, ebiten.Key4: 0xC,
	ebiten.KeyQ: 0x4, ebiten.KeyW: 0x5, ebiten.KeyE: 0x6, ebiten.KeyR: 0xD,
	ebiten.KeyA: 0x7, ebiten.KeyS: 0x8, ebiten.KeyD: 0x9, ebiten.KeyF: 0xE,
	ebiten.KeyZ: 0xA, ebiten.KeyX: 0x0, ebiten.KeyC: 0xB, ebiten.KeyV: 0xF,
}
