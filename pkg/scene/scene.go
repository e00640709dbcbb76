// Package scene provides the sphere scene model rendered by orb.
package scene

import (
	"errors"
	"fmt"

	"github.com/taigrr/orb/pkg/math3d"
)

var (
	ErrInvalidMaterial = errors.New("scene: material index out of range")
	ErrInvalidRadius   = errors.New("scene: sphere radius must be positive")
	ErrIndexOutOfRange = errors.New("scene: index out of range")
	ErrNodeCycle       = errors.New("scene: gltf node hierarchy has a cycle")
)

// Sphere is a spherical primitive referencing a material by index.
type Sphere struct {
	Position      math3d.Vec3
	Radius        float64
	MaterialIndex int // Index into Scene.Materials
}

// Material describes a surface. Roughness and Metallic are carried for
// shaders that want them; the Lambert shader only reads Albedo.
type Material struct {
	Albedo    math3d.Vec3 // RGB, expected in 0-1 range
	Roughness float64     // 0 = smooth, 1 = rough
	Metallic  float64     // 0 = dielectric, 1 = metal
}

// Scene is an ordered list of spheres and the materials they reference.
// It is edited by the application between frames and read-only while a
// frame is being rendered.
type Scene struct {
	Spheres   []Sphere
	Materials []Material
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{}
}

// Default returns the demo scene: two spheres resting on a large ground sphere.
func Default() *Scene {
	s := New()
	teal := s.AddMaterial(Material{Albedo: math3d.V3(0.47, 0.79, 0.72), Roughness: 0.2})
	violet := s.AddMaterial(Material{Albedo: math3d.V3(0.66, 0.39, 0.67), Roughness: 0.2})
	ground := s.AddMaterial(Material{Albedo: math3d.V3(0.13, 0.12, 0.18), Roughness: 0.6})

	s.AddSphere(Sphere{Position: math3d.V3(0, 0, 0), Radius: 0.5, MaterialIndex: teal})
	s.AddSphere(Sphere{Position: math3d.V3(1, 0.5, -1), Radius: 1, MaterialIndex: violet})
	s.AddSphere(Sphere{Position: math3d.V3(0, -100.5, 0), Radius: 100, MaterialIndex: ground})
	return s
}

// AddSphere appends a sphere and returns its index.
// The sphere is not validated; see Validate.
func (s *Scene) AddSphere(sp Sphere) int {
	s.Spheres = append(s.Spheres, sp)
	return len(s.Spheres) - 1
}

// UpdateSphere replaces the sphere at index i.
func (s *Scene) UpdateSphere(i int, sp Sphere) error {
	if i < 0 || i >= len(s.Spheres) {
		return fmt.Errorf("update sphere %d: %w", i, ErrIndexOutOfRange)
	}
	s.Spheres[i] = sp
	return nil
}

// AddMaterial appends a material and returns its index.
func (s *Scene) AddMaterial(m Material) int {
	s.Materials = append(s.Materials, m)
	return len(s.Materials) - 1
}

// UpdateMaterial replaces the material at index i.
func (s *Scene) UpdateMaterial(i int, m Material) error {
	if i < 0 || i >= len(s.Materials) {
		return fmt.Errorf("update material %d: %w", i, ErrIndexOutOfRange)
	}
	s.Materials[i] = m
	return nil
}

// Material returns the material used by sphere i.
// Callers are expected to have run Validate on the scene first.
func (s *Scene) Material(sphere int) Material {
	return s.Materials[s.Spheres[sphere].MaterialIndex]
}

// SphereCount returns the number of spheres.
func (s *Scene) SphereCount() int {
	return len(s.Spheres)
}

// MaterialCount returns the number of materials.
func (s *Scene) MaterialCount() int {
	return len(s.Materials)
}

// Validate checks every sphere against the material list and reports the
// first sphere with a missing material or a non-positive radius.
func (s *Scene) Validate() error {
	for i, sp := range s.Spheres {
		if sp.MaterialIndex < 0 || sp.MaterialIndex >= len(s.Materials) {
			return fmt.Errorf("sphere %d references material %d of %d: %w",
				i, sp.MaterialIndex, len(s.Materials), ErrInvalidMaterial)
		}
		if !(sp.Radius > 0) {
			return fmt.Errorf("sphere %d has radius %g: %w", i, sp.Radius, ErrInvalidRadius)
		}
	}
	return nil
}

// Clone creates a deep copy of the scene.
func (s *Scene) Clone() *Scene {
	clone := &Scene{
		Spheres:   make([]Sphere, len(s.Spheres)),
		Materials: make([]Material, len(s.Materials)),
	}
	copy(clone.Spheres, s.Spheres)
	copy(clone.Materials, s.Materials)
	return clone
}
