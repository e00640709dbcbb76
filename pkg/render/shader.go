package render

import (
	"math"

	"github.com/taigrr/orb/pkg/math3d"
	"github.com/taigrr/orb/pkg/scene"
)

// Shader turns an intersection result into a color.
// ok reports whether hit is valid; a miss must return the background.
type Shader interface {
	Shade(s *scene.Scene, ray Ray, hit HitRecord, ok bool) math3d.Vec4
}

// Background is the color returned for rays that hit nothing.
var Background = math3d.V4(0, 0, 0, 1)

// DefaultLightDir points from the (+1,+1,+1) octant toward the origin.
func DefaultLightDir() math3d.Vec3 {
	return math3d.V3(-1, -1, -1).Normalize()
}

// Lambert is a single directional light with a diffuse-only surface model.
// There is no ambient term and no shadowing between spheres.
type Lambert struct {
	Background math3d.Vec4
	LightDir   math3d.Vec3 // Direction the light travels, normalized
}

// NewLambert returns the baseline shader: black background, default light.
func NewLambert() *Lambert {
	return &Lambert{
		Background: Background,
		LightDir:   DefaultLightDir(),
	}
}

// SetLightDir sets the light direction. A zero vector restores the default.
func (l *Lambert) SetLightDir(dir math3d.Vec3) {
	dir = dir.Normalize()
	if dir == math3d.Zero3() {
		dir = DefaultLightDir()
	}
	l.LightDir = dir
}

// Shade implements Shader.
func (l *Lambert) Shade(s *scene.Scene, ray Ray, hit HitRecord, ok bool) math3d.Vec4 {
	if !ok {
		return l.Background
	}

	sphere := s.Spheres[hit.SphereIndex]
	hitPoint := ray.At(hit.Distance)
	normal := hitPoint.Sub(sphere.Position).Normalize()

	d := math.Max(normal.Dot(l.LightDir.Negate()), 0)

	color := s.Material(hit.SphereIndex).Albedo.Scale(d)
	return math3d.V4FromV3(color, 1)
}
