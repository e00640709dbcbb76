package render

import (
	"math"

	"github.com/taigrr/orb/pkg/scene"
)

// DefaultMinDistance is the smallest hit distance FindClosestHit accepts.
// Roots below it (behind the ray origin, or at it) are discarded.
const DefaultMinDistance = 1e-4

// Intersector finds the closest sphere along a ray by scanning every
// sphere of the scene in order.
//
// Only the near root of each ray-sphere quadratic is considered, so a ray
// that starts inside a sphere does not see that sphere's far wall.
type Intersector struct {
	// MinDistance rejects near roots below it. Use math.Inf(-1) to accept
	// hits behind the origin.
	MinDistance float64
}

// NewIntersector returns an intersector using DefaultMinDistance.
func NewIntersector() Intersector {
	return Intersector{MinDistance: DefaultMinDistance}
}

// FindClosestHit is shorthand for NewIntersector().ClosestHit(s, ray).
func FindClosestHit(s *scene.Scene, ray Ray) (HitRecord, bool) {
	return NewIntersector().ClosestHit(s, ray)
}

// ClosestHit returns the nearest sphere hit along ray, or false if the ray
// misses every sphere. Ties go to the sphere that comes first in the scene.
// A zero-length or non-finite direction is always a miss.
func (in Intersector) ClosestHit(s *scene.Scene, ray Ray) (HitRecord, bool) {
	if s == nil || len(s.Spheres) == 0 {
		return HitRecord{}, false
	}

	// a = |d|^2 is the same for every sphere
	a := ray.Direction.Dot(ray.Direction)
	if a == 0 || math.IsNaN(a) || math.IsInf(a, 0) {
		return HitRecord{}, false
	}

	closest := -1
	hitDistance := math.Inf(1)

	for i := range s.Spheres {
		sp := &s.Spheres[i]
		origin := ray.Origin.Sub(sp.Position)

		// (d·d)t^2 + 2(o·d)t + (o·o - r^2) = 0
		b := 2 * origin.Dot(ray.Direction)
		c := origin.Dot(origin) - sp.Radius*sp.Radius

		discriminant := b*b - 4*a*c
		if discriminant < 0 {
			continue
		}

		t := (-b - math.Sqrt(discriminant)) / (2 * a)
		if math.IsNaN(t) || t < in.MinDistance {
			continue
		}
		if t < hitDistance {
			hitDistance = t
			closest = i
		}
	}

	if closest < 0 {
		return HitRecord{}, false
	}
	return HitRecord{SphereIndex: closest, Distance: hitDistance}, true
}
