package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the framebuffer to terminal cells and draws them on the
// screen. Each terminal row shows two framebuffer rows using the upper
// half block, so the framebuffer height should be 2x the area height.
// Framebuffer implements uv.Drawable.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// We use ▀ (upper half block) with fg=top color and bg=bottom color
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}

			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(fb.GetPixel(x, topY)),
					Bg: cellColor(fb.GetPixel(x, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// cellColor converts a pixel to a terminal color; transparent pixels leave
// the terminal default.
func cellColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}

// TerminalSize returns the framebuffer size that fills a terminal of
// cols x rows cells with half-block rendering.
func TerminalSize(cols, rows int) (width, height int) {
	return max(cols, 1), max(rows*2, 2)
}

// Screen is the part of an ultraviolet terminal the presenter draws to.
type Screen interface {
	uv.Screen
	Display() error
}

// TerminalPresenter draws frames onto an ultraviolet screen.
type TerminalPresenter struct {
	screen Screen
	area   uv.Rectangle
}

// NewTerminalPresenter creates a presenter covering cols x rows cells.
func NewTerminalPresenter(screen Screen, cols, rows int) *TerminalPresenter {
	return &TerminalPresenter{
		screen: screen,
		area:   uv.Rect(0, 0, cols, rows),
	}
}

// Resize changes the cell area the presenter covers.
func (p *TerminalPresenter) Resize(cols, rows int) {
	p.area = uv.Rect(0, 0, cols, rows)
}

// FramebufferSize returns the framebuffer size matching the presenter area.
func (p *TerminalPresenter) FramebufferSize() (width, height int) {
	return TerminalSize(p.area.Dx(), p.area.Dy())
}

// Present implements Presenter.
func (p *TerminalPresenter) Present(fb *Framebuffer) error {
	fb.Draw(p.screen, p.area)
	return p.screen.Display()
}
