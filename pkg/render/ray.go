package render

import "github.com/taigrr/orb/pkg/math3d"

// Ray is a half-line starting at Origin. Direction need not be normalized.
type Ray struct {
	Origin    math3d.Vec3
	Direction math3d.Vec3
}

// At returns the point at distance t along the ray (in units of Direction).
func (r Ray) At(t float64) math3d.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// HitRecord identifies the closest sphere along a ray.
type HitRecord struct {
	SphereIndex int     // Index into Scene.Spheres
	Distance    float64 // Ray parameter t of the hit
}
