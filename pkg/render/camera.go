package render

import (
	"math"

	"github.com/taigrr/orb/pkg/math3d"
)

// RayGenerator supplies primary rays for a viewport: one shared origin and
// one direction per pixel, row-major, indexed x + y*width.
type RayGenerator interface {
	Position() math3d.Vec3
	RayDirections() []math3d.Vec3
	ViewportSize() (width, height int)
}

// Camera is a perspective camera that precomputes a ray direction for
// every pixel of its viewport. The table is rebuilt lazily, only after the
// view, projection or viewport changed.
type Camera struct {
	position math3d.Vec3

	// Orientation (Euler angles in radians)
	pitch float64 // Rotation around X axis (look up/down)
	yaw   float64 // Rotation around Y axis (look left/right)

	// Projection parameters
	fov  float64 // Vertical field of view in radians
	near float64
	far  float64

	width, height int

	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	inverseView    math3d.Mat4
	inverseProj    math3d.Mat4
	rayDirections  []math3d.Vec3
	viewDirty      bool
	projDirty      bool
	directionDirty bool
}

// NewCamera creates a camera at (0, 0, 6) looking down -Z with a 45 degree
// vertical field of view and a 1x1 viewport.
func NewCamera() *Camera {
	return &Camera{
		position:       math3d.V3(0, 0, 6),
		fov:            math.Pi / 4,
		near:           0.1,
		far:            100,
		width:          1,
		height:         1,
		viewDirty:      true,
		projDirty:      true,
		directionDirty: true,
	}
}

// Position returns the camera position, the origin of every primary ray.
func (c *Camera) Position() math3d.Vec3 {
	return c.position
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	if pos == c.position {
		return
	}
	c.position = pos
	c.viewDirty = true
}

// Rotation returns pitch and yaw in radians.
func (c *Camera) Rotation() (pitch, yaw float64) {
	return c.pitch, c.yaw
}

// SetRotation sets the camera rotation (pitch, yaw in radians).
func (c *Camera) SetRotation(pitch, yaw float64) {
	c.pitch = clampPitch(pitch)
	c.yaw = yaw
	c.viewDirty = true
}

// FOV returns the vertical field of view in radians.
func (c *Camera) FOV() float64 {
	return c.fov
}

// SetFOV sets the vertical field of view (in radians).
func (c *Camera) SetFOV(fov float64) {
	c.fov = fov
	c.projDirty = true
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.near = near
	c.far = far
	c.projDirty = true
}

// Resize sets the viewport size, clamping to at least 1x1. It reports
// whether the size changed; an unchanged size is a no-op.
func (c *Camera) Resize(width, height int) bool {
	width, height = max(width, 1), max(height, 1)
	if width == c.width && height == c.height {
		return false
	}
	c.width = width
	c.height = height
	c.projDirty = true
	return true
}

// ViewportSize returns the viewport dimensions in pixels.
func (c *Camera) ViewportSize() (width, height int) {
	return c.width, c.height
}

// AspectRatio returns width / height.
func (c *Camera) AspectRatio() float64 {
	return float64(c.width) / float64(c.height)
}

// Forward returns the forward direction vector.
func (c *Camera) Forward() math3d.Vec3 {
	// Forward is -Z in camera space, rotated by yaw and pitch
	return math3d.V3(
		-math.Sin(c.yaw)*math.Cos(c.pitch),
		math.Sin(c.pitch),
		-math.Cos(c.yaw)*math.Cos(c.pitch),
	)
}

// Right returns the right direction vector.
func (c *Camera) Right() math3d.Vec3 {
	return math3d.V3(
		math.Cos(c.yaw),
		0,
		-math.Sin(c.yaw),
	)
}

// Up returns the up direction vector.
func (c *Camera) Up() math3d.Vec3 {
	return c.Right().Cross(c.Forward())
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.computeViewMatrix()
		c.viewDirty = false
		c.directionDirty = true
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the projection matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.Perspective(c.fov, c.AspectRatio(), c.near, c.far)
		c.inverseProj = c.projMatrix.Inverse()
		c.projDirty = false
		c.directionDirty = true
	}
	return c.projMatrix
}

func (c *Camera) computeViewMatrix() {
	// View = Rotation * Translation(-position)
	rot := math3d.RotateX(-c.pitch).Mul(math3d.RotateY(-c.yaw))
	trans := math3d.Translate(c.position.Negate())

	c.viewMatrix = rot.Mul(trans)
	c.inverseView = c.viewMatrix.Inverse()
}

// Move translates the camera along its own forward, right and world-up axes.
func (c *Camera) Move(forward, right, up float64) {
	if forward == 0 && right == 0 && up == 0 {
		return
	}
	delta := c.Forward().Scale(forward).
		Add(c.Right().Scale(right)).
		Add(math3d.Up().Scale(up))
	c.SetPosition(c.position.Add(delta))
}

// Rotate rotates the camera by the given angles (in radians).
func (c *Camera) Rotate(deltaPitch, deltaYaw float64) {
	if deltaPitch == 0 && deltaYaw == 0 {
		return
	}
	c.SetRotation(c.pitch+deltaPitch, c.yaw+deltaYaw)
}

// LookAt makes the camera look at a target point.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.position).Normalize()
	c.SetRotation(math.Asin(dir.Y), math.Atan2(-dir.X, -dir.Z))
}

// RayDirections returns the per-pixel direction table, rebuilding it first
// if anything affecting it changed. The returned slice must not be modified.
func (c *Camera) RayDirections() []math3d.Vec3 {
	_ = c.ViewMatrix()
	_ = c.ProjectionMatrix()
	if c.directionDirty || len(c.rayDirections) != c.width*c.height {
		c.recalculateRayDirections()
		c.directionDirty = false
	}
	return c.rayDirections
}

func (c *Camera) recalculateRayDirections() {
	n := c.width * c.height
	if cap(c.rayDirections) >= n {
		c.rayDirections = c.rayDirections[:n]
	} else {
		c.rayDirections = make([]math3d.Vec3, n)
	}

	w, h := float64(c.width), float64(c.height)
	for y := range c.height {
		// Row 0 is the top of the image
		ndcY := 1 - (float64(y)+0.5)/h*2
		for x := range c.width {
			ndcX := (float64(x)+0.5)/w*2 - 1

			target := c.inverseProj.MulVec4(math3d.V4(ndcX, ndcY, 1, 1)).PerspectiveDivide()
			dir := c.inverseView.MulVec3Dir(target.Normalize()).Normalize()
			c.rayDirections[x+y*c.width] = dir
		}
	}
}

func clampPitch(pitch float64) float64 {
	// Keep away from the poles where yaw becomes meaningless
	const maxPitch = math.Pi/2 - 0.01
	return math.Max(-maxPitch, math.Min(maxPitch, pitch))
}
