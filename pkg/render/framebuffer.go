// Package render implements the orb ray tracer: camera ray generation,
// ray-sphere intersection, shading and the packed framebuffer it fills.
package render

import (
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/taigrr/orb/pkg/math3d"
)

// Framebuffer is a row-major 2D array of packed RGBA pixels.
// Each pixel is (a<<24)|(b<<16)|(g<<8)|r, i.e. bytes R,G,B,A in little-endian order.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []uint32
}

// NewFramebuffer creates a framebuffer with the given dimensions.
// Dimensions below 1 are clamped to 1.
func NewFramebuffer(width, height int) *Framebuffer {
	width, height = max(width, 1), max(height, 1)
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]uint32, width*height),
	}
}

// Resize reallocates the pixel store if the dimensions changed and reports
// whether it did. Matching dimensions leave the existing pixels untouched.
func (fb *Framebuffer) Resize(width, height int) bool {
	width, height = max(width, 1), max(height, 1)
	if fb.Width == width && fb.Height == height && fb.Pixels != nil {
		return false
	}
	fb.Width = width
	fb.Height = height
	fb.Pixels = make([]uint32, width*height)
	return true
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c math3d.Vec4) {
	p := PackRGBA(c)
	for i := range fb.Pixels {
		fb.Pixels[i] = p
	}
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return unpackColor(fb.Pixels[y*fb.Width+x])
}

// Bytes returns the framebuffer as R,G,B,A bytes, the layout of a host
// RGBA texture upload.
func (fb *Framebuffer) Bytes() []byte {
	b := make([]byte, 4*len(fb.Pixels))
	for i, p := range fb.Pixels {
		binary.LittleEndian.PutUint32(b[i*4:], p)
	}
	return b
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	copy(img.Pix, fb.Bytes())
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// PackRGBA clamps c to [0,1] and packs it into a 32-bit pixel.
// Channels are scaled by 255 and truncated.
func PackRGBA(c math3d.Vec4) uint32 {
	c = c.Clamp(0, 1)
	r := uint32(c.X * 255)
	g := uint32(c.Y * 255)
	b := uint32(c.Z * 255)
	a := uint32(c.W * 255)
	return (a << 24) | (b << 16) | (g << 8) | r
}

// UnpackRGBA expands a packed pixel back into [0,1] channels.
func UnpackRGBA(p uint32) math3d.Vec4 {
	c := unpackColor(p)
	return math3d.V4(
		float64(c.R)/255,
		float64(c.G)/255,
		float64(c.B)/255,
		float64(c.A)/255,
	)
}

func unpackColor(p uint32) color.RGBA {
	return color.RGBA{
		R: uint8(p),
		G: uint8(p >> 8),
		B: uint8(p >> 16),
		A: uint8(p >> 24),
	}
}
