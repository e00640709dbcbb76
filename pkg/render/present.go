package render

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"
)

// Presenter displays a completed frame. It is called once per frame, after
// Render returned, and must not retain the framebuffer past the call.
type Presenter interface {
	Present(fb *Framebuffer) error
}

// PNGPresenter writes each presented frame to a PNG file.
type PNGPresenter struct {
	Path  string
	Scale int // Integer upscale factor; values below 2 write 1:1
}

// Present implements Presenter.
func (p *PNGPresenter) Present(fb *Framebuffer) error {
	if fb == nil {
		return fmt.Errorf("present png: %w", ErrViewportMismatch)
	}

	var img image.Image = fb.ToImage()
	if p.Scale > 1 {
		img = upscale(img, p.Scale)
	}

	f, err := os.Create(p.Path)
	if err != nil {
		return fmt.Errorf("create %s: %w", p.Path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}

// upscale enlarges img by an integer factor with nearest-neighbor sampling,
// keeping every traced pixel a crisp square.
func upscale(img image.Image, factor int) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
