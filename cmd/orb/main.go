// orb - Interactive terminal ray tracer
// Renders a scene of spheres in your terminal, one primary ray per pixel.
//
// Controls:
//
//	W/S         - Move forward/back
//	A/D         - Strafe left/right
//	Space/C     - Move up/down
//	Arrows      - Look around
//	Mouse drag  - Look around
//	Scroll      - Move forward/back
//	Enter       - Toggle accumulation
//	M           - Cycle the material of the sphere under the crosshair
//	[ / ]       - Shrink/grow the sphere under the crosshair
//	, / .       - Darken/brighten its material
//	L           - Reload the --scene file
//	R           - Reset camera
//	?           - Toggle HUD overlay (FPS, frame time, accumulation)
//	Esc         - Quit
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/taigrr/orb/internal/log"
	"github.com/taigrr/orb/pkg/math3d"
	"github.com/taigrr/orb/pkg/render"
	"github.com/taigrr/orb/pkg/scene"
)

var logger = log.New("orb")

// options are the flags shared by every command.
type options struct {
	scenePath string
	workers   int
	light     string
	verbose   int
	logPath   string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := fang.Execute(ctx, newRootCmd()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	iopts := &interactiveOptions{}

	root := &cobra.Command{
		Use:   "orb",
		Short: "Interactive terminal ray tracer",
		Long: `orb traces one primary ray per pixel through a scene of spheres and
draws the result in your terminal with half-block characters.

Scenes are loaded from JSON (see "orb scene dump") or from glTF files,
where every mesh node becomes a sphere fitted to its bounds.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setupLogging(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInteractive(cmd.Context(), opts, iopts)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.scenePath, "scene", "", "scene file (.json, .glb or .gltf); defaults to the demo scene")
	pf.IntVar(&opts.workers, "workers", 0, "rows rendered concurrently (0 = one per CPU)")
	pf.StringVar(&opts.light, "light", "", "light direction as x,y,z (default -1,-1,-1)")
	pf.CountVarP(&opts.verbose, "verbose", "v", "increase log verbosity (-v info, -vv debug)")
	pf.StringVar(&opts.logPath, "log", "", "write logs to this file instead of stderr")

	f := root.Flags()
	f.IntVar(&iopts.fps, "fps", 30, "target frames per second")
	f.BoolVar(&iopts.accumulate, "accumulate", false, "start with frame accumulation enabled")

	root.AddCommand(newSnapshotCmd(opts), newBenchCmd(opts), newSceneCmd(opts))
	return root
}

// setupLogging applies the verbosity and log sink flags.
func (o *options) setupLogging(cmd *cobra.Command) error {
	if o.logPath != "" {
		f, err := os.OpenFile(o.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		cobra.OnFinalize(func() { f.Close() })
		log.SetSink(f)
	} else if cmd.Name() == "orb" {
		// The interactive view owns the terminal
		log.SetSink(io.Discard)
	}
	log.SetLevel(log.Verbosity(o.verbose))
	return nil
}

// loadScene loads the scene named by --scene, or the demo scene.
func (o *options) loadScene() (*scene.Scene, error) {
	if o.scenePath == "" {
		return scene.Default(), nil
	}

	var (
		s   *scene.Scene
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(o.scenePath)); ext {
	case ".json":
		s, err = scene.Load(o.scenePath)
	case ".glb", ".gltf":
		s, err = scene.LoadGLTF(o.scenePath)
	default:
		return nil, fmt.Errorf("unsupported scene format: %s (use .json, .glb or .gltf)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}

	logger.Infof("loaded %s: %d spheres, %d materials",
		filepath.Base(o.scenePath), s.SphereCount(), s.MaterialCount())
	return s, nil
}

// lightDir parses --light. An empty flag selects the default direction.
func (o *options) lightDir() (math3d.Vec3, bool, error) {
	if o.light == "" {
		return math3d.Vec3{}, false, nil
	}
	var v math3d.Vec3
	if _, err := fmt.Sscanf(o.light, "%g,%g,%g", &v.X, &v.Y, &v.Z); err != nil {
		return v, false, fmt.Errorf("parse --light %q: want x,y,z: %w", o.light, err)
	}
	if v.LenSq() == 0 || !v.IsFinite() {
		return v, false, fmt.Errorf("parse --light %q: direction must be finite and non-zero", o.light)
	}
	return v, true, nil
}

// newRenderer builds a renderer from the shared flags.
func (o *options) newRenderer(settings render.Settings) (*render.Renderer, error) {
	shader := render.NewLambert()
	if dir, ok, err := o.lightDir(); err != nil {
		return nil, err
	} else if ok {
		shader.SetLightDir(dir)
	}

	return render.NewRenderer(
		render.WithShader(shader),
		render.WithWorkers(o.workers),
		render.WithSettings(settings),
		render.WithLogger(log.New("render")),
	), nil
}
