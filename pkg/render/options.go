package render

import (
	"runtime"

	"github.com/taigrr/orb/internal/log"
)

// Option configures a Renderer during creation.
type Option func(*Renderer)

// WithShader replaces the default Lambert shader.
func WithShader(s Shader) Option {
	return func(r *Renderer) {
		if s != nil {
			r.shader = s
		}
	}
}

// WithIntersector replaces the default intersector, e.g. to change the
// minimum accepted hit distance.
func WithIntersector(in Intersector) Option {
	return func(r *Renderer) {
		r.intersector = in
	}
}

// WithWorkers limits the number of rows rendered concurrently.
// Zero or negative means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(r *Renderer) {
		if n <= 0 {
			n = runtime.GOMAXPROCS(0)
		}
		r.workers = n
	}
}

// WithLogger sets the logger used for resize and frame diagnostics.
func WithLogger(l log.Logger) Option {
	return func(r *Renderer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithSettings sets the initial render settings.
func WithSettings(s Settings) Option {
	return func(r *Renderer) {
		r.settings = s
	}
}
