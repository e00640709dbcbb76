package render

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/orb/internal/log"
	"github.com/taigrr/orb/pkg/math3d"
	"github.com/taigrr/orb/pkg/scene"
)

// ErrViewportMismatch is returned by Render when the camera's viewport or
// direction table does not match the framebuffer.
var ErrViewportMismatch = errors.New("render: camera viewport does not match framebuffer")

// Settings are the user-facing render toggles.
type Settings struct {
	// Accumulate averages every frame since the last ResetFrameIndex.
	Accumulate bool
}

// FrameStats describes the last completed render pass.
type FrameStats struct {
	Frame    int           // Frames rendered since creation
	Duration time.Duration // Wall time of the pass
	Pixels   int           // Pixels written
	Hits     int64         // Primary rays that hit a sphere
	Workers  int           // Concurrent row limit
}

// Renderer owns the framebuffer and fills it once per frame by tracing one
// primary ray per pixel.
//
// Rendering is a parallel map over rows: every pixel reads only the scene
// and the camera table and writes its own framebuffer slot. The framebuffer
// must not be read while Render runs.
type Renderer struct {
	fb           *Framebuffer
	accumulation []math3d.Vec4
	frameIndex   int

	settings    Settings
	shader      Shader
	intersector Intersector
	workers     int
	logger      log.Logger

	frames int
	stats  FrameStats
}

// NewRenderer creates a renderer with the Lambert shader, the default
// intersector and one worker per CPU.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		frameIndex:  1,
		shader:      NewLambert(),
		intersector: NewIntersector(),
		workers:     runtime.GOMAXPROCS(0),
		logger:      log.New("render"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resize sizes the framebuffer to width x height, clamped to at least 1x1.
// Matching dimensions are a no-op; otherwise the old pixels are discarded
// and the framebuffer shows the background until the next Render.
func (r *Renderer) Resize(width, height int) {
	if r.fb == nil {
		r.fb = NewFramebuffer(width, height)
	} else if !r.fb.Resize(width, height) {
		return
	}
	r.fb.Clear(Background)

	if r.settings.Accumulate {
		r.accumulation = make([]math3d.Vec4, len(r.fb.Pixels))
	} else {
		r.accumulation = nil
	}
	r.frameIndex = 1
	r.logger.Debugf("framebuffer resized to %dx%d", r.fb.Width, r.fb.Height)
}

// FinalImage returns the framebuffer filled by the last Render, or nil
// before the first Resize.
func (r *Renderer) FinalImage() *Framebuffer {
	return r.fb
}

// Settings returns the current settings.
func (r *Renderer) Settings() Settings {
	return r.settings
}

// SetAccumulate toggles frame accumulation. Turning it on starts a new
// accumulation run.
func (r *Renderer) SetAccumulate(on bool) {
	if on == r.settings.Accumulate {
		return
	}
	r.settings.Accumulate = on
	r.ResetFrameIndex()
}

// ResetFrameIndex restarts accumulation on the next frame. Call it after
// any scene or camera change.
func (r *Renderer) ResetFrameIndex() {
	r.frameIndex = 1
}

// FrameIndex returns the 1-based index of the next accumulated frame.
func (r *Renderer) FrameIndex() int {
	return r.frameIndex
}

// Stats returns statistics for the last completed frame.
func (r *Renderer) Stats() FrameStats {
	return r.stats
}

// Shader returns the active shader.
func (r *Renderer) Shader() Shader {
	return r.shader
}

// Render traces every pixel of the viewport and writes the packed result
// into the framebuffer. An invalid scene or a camera that disagrees with
// the framebuffer size aborts the frame before any pixel is written.
func (r *Renderer) Render(s *scene.Scene, cam RayGenerator) error {
	if s == nil {
		s = scene.New()
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("render frame: %w", err)
	}
	if r.fb == nil {
		return fmt.Errorf("render frame: no framebuffer, call Resize first: %w", ErrViewportMismatch)
	}

	w, h := cam.ViewportSize()
	if w != r.fb.Width || h != r.fb.Height {
		return fmt.Errorf("render frame: camera %dx%d, framebuffer %dx%d: %w",
			w, h, r.fb.Width, r.fb.Height, ErrViewportMismatch)
	}
	dirs := cam.RayDirections()
	if len(dirs) != len(r.fb.Pixels) {
		return fmt.Errorf("render frame: %d ray directions for %d pixels: %w",
			len(dirs), len(r.fb.Pixels), ErrViewportMismatch)
	}

	accumulate := r.settings.Accumulate
	if accumulate {
		if len(r.accumulation) != len(r.fb.Pixels) {
			r.accumulation = make([]math3d.Vec4, len(r.fb.Pixels))
			r.frameIndex = 1
		}
		if r.frameIndex == 1 {
			clear(r.accumulation)
		}
	}

	start := time.Now()
	origin := cam.Position()
	frameIndex := float64(r.frameIndex)

	var hits atomic.Int64
	var g errgroup.Group
	g.SetLimit(r.workers)

	for y := range h {
		g.Go(func() error {
			ray := Ray{Origin: origin}
			row := y * w
			var rowHits int64

			for x := range w {
				i := x + row
				ray.Direction = dirs[i]

				hit, ok := r.intersector.ClosestHit(s, ray)
				if ok {
					rowHits++
				}
				color := r.shader.Shade(s, ray, hit, ok)

				if accumulate {
					r.accumulation[i] = r.accumulation[i].Add(color)
					color = r.accumulation[i].Scale(1 / frameIndex)
				}

				r.fb.Pixels[i] = PackRGBA(color)
			}

			hits.Add(rowHits)
			return nil
		})
	}
	// Row workers never fail
	_ = g.Wait()

	if accumulate {
		r.frameIndex++
	} else {
		r.frameIndex = 1
	}

	r.frames++
	r.stats = FrameStats{
		Frame:    r.frames,
		Duration: time.Since(start),
		Pixels:   len(r.fb.Pixels),
		Hits:     hits.Load(),
		Workers:  r.workers,
	}
	r.logger.Debugf("frame %d: %dx%d in %v (%d hits)", r.frames, w, h, r.stats.Duration, r.stats.Hits)

	return nil
}
