package render

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// restVelocity is the speed below which an axis snaps to a stop, so the
// camera settles and accumulation can resume.
const restVelocity = 1e-3

// motionAxis tracks a velocity that decays toward zero with a spring.
type motionAxis struct {
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // internal spring velocity (for animating Velocity toward 0)
}

func newMotionAxis(fps int) motionAxis {
	return motionAxis{
		// Frequency 6.0 = brisk stop, damping 1.0 = critically damped (no overshoot)
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

// step returns the velocity to apply this frame and decays it.
func (a *motionAxis) step() float64 {
	v := a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
	if math.Abs(a.Velocity) < restVelocity && math.Abs(a.velAccel) < restVelocity {
		a.Velocity, a.velAccel = 0, 0
	}
	return v
}

// Controller drives a Camera from discrete input impulses, giving it
// momentum that eases out after the key or mouse is released.
type Controller struct {
	camera *Camera
	fps    int

	forward, right, up motionAxis
	pitch, yaw         motionAxis

	MoveSpeed float64 // World units per second per impulse
	TurnSpeed float64 // Radians per second per impulse
}

// NewController creates a controller for camera stepping at fps frames per second.
func NewController(camera *Camera, fps int) *Controller {
	fps = max(fps, 1)
	c := &Controller{
		camera:    camera,
		fps:       fps,
		MoveSpeed: 5,
		TurnSpeed: 1.5,
	}
	c.Reset()
	return c
}

// Reset stops all motion.
func (c *Controller) Reset() {
	c.forward = newMotionAxis(c.fps)
	c.right = newMotionAxis(c.fps)
	c.up = newMotionAxis(c.fps)
	c.pitch = newMotionAxis(c.fps)
	c.yaw = newMotionAxis(c.fps)
}

// Move adds a translation impulse along the camera's forward, right and
// world-up axes. Arguments are typically -1, 0 or 1.
func (c *Controller) Move(forward, right, up float64) {
	c.forward.Velocity += forward * c.MoveSpeed
	c.right.Velocity += right * c.MoveSpeed
	c.up.Velocity += up * c.MoveSpeed
}

// Turn adds a rotation impulse in radians per second.
func (c *Controller) Turn(pitch, yaw float64) {
	c.pitch.Velocity += pitch * c.TurnSpeed
	c.yaw.Velocity += yaw * c.TurnSpeed
}

// Moving reports whether any axis still has velocity.
func (c *Controller) Moving() bool {
	for _, a := range []*motionAxis{&c.forward, &c.right, &c.up, &c.pitch, &c.yaw} {
		if a.Velocity != 0 {
			return true
		}
	}
	return false
}

// Update advances the camera by dt seconds and reports whether it moved.
func (c *Controller) Update(dt float64) bool {
	if !c.Moving() {
		return false
	}

	c.camera.Move(c.forward.step()*dt, c.right.step()*dt, c.up.step()*dt)
	c.camera.Rotate(c.pitch.step()*dt, c.yaw.step()*dt)
	return true
}
