// Package display hosts the window, key polling, and pacing clock that
// sit outside the emulator core proper: an ebiten-backed implementation
// of the Sink interface, wired to bus.Console the way bdwalton-gintendo's
// top-level Bus wired itself directly to ebiten.Game.
package display

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/bwalden/nescore/bus"
	"github.com/bwalden/nescore/ppu"
)

// Sink is the host-facing output surface. A headless or test sink can
// implement this without pulling in ebiten at all.
type Sink interface {
	Pixel(x, y int, rgb uint32)
	Present()
}

// controllerKeys maps controller 1's eight buttons, in bus.Button* bit
// order, to host keys.
var controllerKeys = [8]ebiten.Key{
	ebiten.KeyZ,     // A
	ebiten.KeyX,     // B
	ebiten.KeyShift, // Select
	ebiten.KeyEnter, // Start
	ebiten.KeyUp,
	ebiten.KeyDown,
	ebiten.KeyLeft,
	ebiten.KeyRight,
}

// EbitenSink drives a Console from ebiten's fixed ~60 Hz Update/Draw loop
// and satisfies ebiten.Game.
type EbitenSink struct {
	console *bus.Console
	clock   bus.Clock
	img     *ebiten.Image
}

// NewEbitenSink opens a window sized for a 2x-scaled NES frame and wires
// it to console.
func NewEbitenSink(console *bus.Console, clock bus.Clock) *EbitenSink {
	ebiten.SetWindowSize(ppu.ScreenWidth*2, ppu.ScreenHeight*2)
	ebiten.SetWindowTitle("nescore")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	return &EbitenSink{
		console: console,
		clock:   clock,
		img:     ebiten.NewImage(ppu.ScreenWidth, ppu.ScreenHeight),
	}
}

// Pixel implements Sink by writing directly into the backing ebiten image.
func (s *EbitenSink) Pixel(x, y int, rgb uint32) {
	s.img.Set(x, y, color.RGBA{uint8(rgb >> 16), uint8(rgb >> 8), uint8(rgb), 0xFF})
}

// Present is a no-op here; ebiten.Image.Set takes effect immediately, and
// the actual blit to the window happens in Draw. Present exists so a
// batching Sink implementation has somewhere to flush.
func (s *EbitenSink) Present() {}

// Update polls the host keyboard into the Console's controller 1, then
// runs one emulated frame, pacing via s.clock.
func (s *EbitenSink) Update() error {
	s.pollInput()
	return s.console.RunFrame(s.clock)
}

// Draw blits the Console's current frame buffer into screen.
func (s *EbitenSink) Draw(screen *ebiten.Image) {
	px := s.console.PPU.Pixels
	for y := 0; y < ppu.ScreenHeight; y++ {
		for x := 0; x < ppu.ScreenWidth; x++ {
			off := (y*ppu.ScreenWidth + x) * 4
			rgb := uint32(px[off])<<16 | uint32(px[off+1])<<8 | uint32(px[off+2])
			s.Pixel(x, y, rgb)
		}
	}
	s.Present()
	screen.DrawImage(s.img, nil)
}

// Layout forces ebiten to scale a fixed NES resolution rather than
// adapting it to the window size.
func (s *EbitenSink) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ppu.ScreenWidth, ppu.ScreenHeight
}

func (s *EbitenSink) pollInput() {
	var b uint8
	for i, k := range controllerKeys {
		if ebiten.IsKeyPressed(k) {
			b |= 1 << uint(i)
		}
	}
	s.console.SetButtons(b)
}
