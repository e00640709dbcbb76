package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/orb/pkg/math3d"
	"github.com/taigrr/orb/pkg/render"
	"github.com/taigrr/orb/pkg/scene"
)

// interactiveOptions are the flags of the interactive session.
type interactiveOptions struct {
	fps        int
	accumulate bool
}

var homePosition = math3d.V3(0, 0, 6)

// session holds the state shared by the input goroutine and the frame loop.
type session struct {
	mu sync.Mutex

	opts       *options
	scene      *scene.Scene
	sceneDirty bool
	renderer   *render.Renderer
	camera     *render.Camera
	controller *render.Controller
	presenter  *render.TerminalPresenter

	width, height int // Terminal size in cells
	resized       bool
	showHUD       bool

	mouseDown              bool
	lastMouseX, lastMouseY int
}

func runInteractive(ctx context.Context, opts *options, iopts *interactiveOptions) error {
	s, err := opts.loadScene()
	if err != nil {
		return err
	}
	r, err := opts.newRenderer(render.Settings{Accumulate: iopts.accumulate})
	if err != nil {
		return err
	}
	fps := max(iopts.fps, 1)

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	camera := render.NewCamera()
	camera.SetPosition(homePosition)

	sess := &session{
		opts:       opts,
		scene:      s,
		renderer:   r,
		camera:     camera,
		controller: render.NewController(camera, fps),
		presenter:  render.NewTerminalPresenter(term, width, height),
		width:      width,
		height:     height,
		resized:    true,
	}

	title := "demo scene"
	if opts.scenePath != "" {
		title = filepath.Base(opts.scenePath)
	}
	hud := NewHUD(title, s.SphereCount())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		for ev := range term.Events() {
			if sess.handleEvent(term, ev) {
				cancel()
				return
			}
		}
	}()

	targetDuration := time.Second / time.Duration(fps)
	lastFrame := time.Now()
	frameScene := s.Clone()
	var lastErr string

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		now := time.Now()
		dt := min(now.Sub(lastFrame).Seconds(), 0.1)
		lastFrame = now

		sess.mu.Lock()
		if sess.resized {
			fbWidth, fbHeight := sess.presenter.FramebufferSize()
			sess.camera.Resize(fbWidth, fbHeight)
			r.Resize(fbWidth, fbHeight)
			sess.resized = false
		}
		if sess.sceneDirty {
			frameScene = sess.scene.Clone()
			sess.sceneDirty = false
			r.ResetFrameIndex()
		}
		if sess.controller.Update(dt) {
			r.ResetFrameIndex()
		}

		err := r.Render(frameScene, sess.camera)
		if err == nil {
			err = sess.presenter.Present(r.FinalImage())
		}
		state := hudState{
			Show:       sess.showHUD,
			Stats:      r.Stats(),
			Accumulate: r.Settings().Accumulate,
			FrameIndex: r.FrameIndex(),
		}
		w, h := sess.width, sess.height
		sess.mu.Unlock()

		// A failed frame leaves the last good image on screen
		if err != nil {
			if err.Error() != lastErr {
				logger.Errorf("frame failed: %v", err)
			}
			lastErr = err.Error()
		} else {
			lastErr = ""
		}

		hud.UpdateFPS()
		hud.Render(w, h, state)

		if elapsed := time.Since(now); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

// handleEvent applies one terminal event and reports whether to quit.
func (s *session) handleEvent(term *uv.Terminal, ev uv.Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		s.width, s.height = ev.Width, ev.Height
		term.Erase()
		term.Resize(ev.Width, ev.Height)
		s.presenter.Resize(ev.Width, ev.Height)
		s.resized = true
		logger.Debugf("terminal resized to %dx%d", ev.Width, ev.Height)

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("escape", "ctrl+c"):
			return true
		case ev.MatchString("w"):
			s.controller.Move(1, 0, 0)
		case ev.MatchString("s"):
			s.controller.Move(-1, 0, 0)
		case ev.MatchString("a"):
			s.controller.Move(0, -1, 0)
		case ev.MatchString("d"):
			s.controller.Move(0, 1, 0)
		case ev.MatchString("space"):
			s.controller.Move(0, 0, 1)
		case ev.MatchString("c"):
			s.controller.Move(0, 0, -1)
		case ev.MatchString("up"):
			s.controller.Turn(1, 0)
		case ev.MatchString("down"):
			s.controller.Turn(-1, 0)
		case ev.MatchString("left"):
			s.controller.Turn(0, 1)
		case ev.MatchString("right"):
			s.controller.Turn(0, -1)
		case ev.MatchString("enter"):
			s.renderer.SetAccumulate(!s.renderer.Settings().Accumulate)
			logger.Infof("accumulation %t", s.renderer.Settings().Accumulate)
		case ev.MatchString("m"):
			s.editPicked("cycle material", cycleMaterial)
		case ev.MatchString("]"):
			s.editPicked("grow", func(sc *scene.Scene, i int) error { return scaleRadius(sc, i, radiusStep) })
		case ev.MatchString("["):
			s.editPicked("shrink", func(sc *scene.Scene, i int) error { return scaleRadius(sc, i, 1/radiusStep) })
		case ev.MatchString("."):
			s.editPicked("brighten", func(sc *scene.Scene, i int) error { return scaleAlbedo(sc, i, albedoStep) })
		case ev.MatchString(","):
			s.editPicked("darken", func(sc *scene.Scene, i int) error { return scaleAlbedo(sc, i, 1/albedoStep) })
		case ev.MatchString("l"):
			s.reload()
		case ev.MatchString("r"):
			s.controller.Reset()
			s.camera.SetPosition(homePosition)
			s.camera.SetRotation(0, 0)
			s.renderer.ResetFrameIndex()
		case ev.MatchString("?"), ev.MatchString("shift+/"):
			s.showHUD = !s.showHUD
		}

	case uv.MouseClickEvent:
		s.mouseDown = true
		s.lastMouseX, s.lastMouseY = ev.X, ev.Y

	case uv.MouseReleaseEvent:
		s.mouseDown = false

	case uv.MouseMotionEvent:
		if s.mouseDown {
			dx := ev.X - s.lastMouseX
			dy := ev.Y - s.lastMouseY
			s.controller.Turn(-float64(dy)*0.3, -float64(dx)*0.3)
			s.lastMouseX, s.lastMouseY = ev.X, ev.Y
		}

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			s.controller.Move(0.5, 0, 0)
		case uv.MouseWheelDown:
			s.controller.Move(-0.5, 0, 0)
		}
	}
	return false
}

// editPicked applies edit to the sphere under the screen center.
func (s *session) editPicked(name string, edit func(sc *scene.Scene, sphere int) error) {
	sphere, ok := pickSphere(s.scene, s.camera)
	if !ok {
		return
	}
	if err := edit(s.scene, sphere); err != nil {
		logger.Warningf("%s: %v", name, err)
		return
	}
	s.sceneDirty = true
	logger.Infof("%s: sphere %d now %+v", name, sphere, s.scene.Spheres[sphere])
}

// reload re-reads the scene file named by --scene.
func (s *session) reload() {
	if s.opts.scenePath == "" {
		return
	}
	sc, err := s.opts.loadScene()
	if err != nil {
		logger.Errorf("reload: %v", err)
		return
	}
	s.scene = sc
	s.sceneDirty = true
}
