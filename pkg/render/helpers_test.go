package render

import (
	"math"

	"github.com/taigrr/orb/pkg/math3d"
	"github.com/taigrr/orb/pkg/scene"
)

const tolerance = 1e-6

// fixedCamera is a RayGenerator with a hand-written direction table.
type fixedCamera struct {
	origin        math3d.Vec3
	dirs          []math3d.Vec3
	width, height int
}

func (c *fixedCamera) Position() math3d.Vec3             { return c.origin }
func (c *fixedCamera) RayDirections() []math3d.Vec3      { return c.dirs }
func (c *fixedCamera) ViewportSize() (width, height int) { return c.width, c.height }

// singlePixelCamera looks from origin along dir with a 1x1 viewport.
func singlePixelCamera(origin, dir math3d.Vec3) *fixedCamera {
	return &fixedCamera{origin: origin, dirs: []math3d.Vec3{dir}, width: 1, height: 1}
}

// whiteSphereScene is one white sphere of the given radius at the origin.
func whiteSphereScene(radius float64) *scene.Scene {
	s := scene.New()
	m := s.AddMaterial(scene.Material{Albedo: math3d.V3(1, 1, 1)})
	s.AddSphere(scene.Sphere{Position: math3d.Zero3(), Radius: radius, MaterialIndex: m})
	return s
}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func colorNear(a, b math3d.Vec4, tol float64) bool {
	return near(a.X, b.X, tol) && near(a.Y, b.Y, tol) && near(a.Z, b.Z, tol) && near(a.W, b.W, tol)
}
