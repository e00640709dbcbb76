package main

import (
	"fmt"

	"github.com/taigrr/orb/pkg/math3d"
	"github.com/taigrr/orb/pkg/render"
	"github.com/taigrr/orb/pkg/scene"
)

const (
	radiusStep = 1.1
	albedoStep = 1.2
)

// pickSphere returns the sphere under the center of the camera's view.
func pickSphere(s *scene.Scene, cam *render.Camera) (int, bool) {
	ray := render.Ray{Origin: cam.Position(), Direction: cam.Forward()}
	hit, ok := render.FindClosestHit(s, ray)
	return hit.SphereIndex, ok
}

// cycleMaterial gives sphere i the next material in the scene.
func cycleMaterial(s *scene.Scene, i int) error {
	if s.MaterialCount() == 0 {
		return fmt.Errorf("cycle material: %w", scene.ErrInvalidMaterial)
	}
	if i < 0 || i >= s.SphereCount() {
		return fmt.Errorf("cycle material: sphere %d: %w", i, scene.ErrIndexOutOfRange)
	}
	sp := s.Spheres[i]
	sp.MaterialIndex = (sp.MaterialIndex + 1) % s.MaterialCount()
	return s.UpdateSphere(i, sp)
}

// scaleRadius multiplies the radius of sphere i by factor.
func scaleRadius(s *scene.Scene, i int, factor float64) error {
	if i < 0 || i >= s.SphereCount() {
		return fmt.Errorf("scale radius: sphere %d: %w", i, scene.ErrIndexOutOfRange)
	}
	sp := s.Spheres[i]
	sp.Radius *= factor
	if !(sp.Radius > 0) {
		return fmt.Errorf("scale radius: %g: %w", sp.Radius, scene.ErrInvalidRadius)
	}
	return s.UpdateSphere(i, sp)
}

// scaleAlbedo multiplies the albedo of the material used by sphere i,
// clamping every channel to [0, 1]. Other spheres sharing the material
// change too.
func scaleAlbedo(s *scene.Scene, i int, factor float64) error {
	if i < 0 || i >= s.SphereCount() {
		return fmt.Errorf("scale albedo: sphere %d: %w", i, scene.ErrIndexOutOfRange)
	}
	idx := s.Spheres[i].MaterialIndex
	if idx < 0 || idx >= s.MaterialCount() {
		return fmt.Errorf("scale albedo: material %d: %w", idx, scene.ErrInvalidMaterial)
	}
	m := s.Materials[idx]
	m.Albedo = m.Albedo.Scale(factor).Max(math3d.Zero3()).Min(math3d.V3(1, 1, 1))
	return s.UpdateMaterial(idx, m)
}
