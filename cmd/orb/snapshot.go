package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taigrr/orb/pkg/render"
)

func newSnapshotCmd(opts *options) *cobra.Command {
	var (
		width, height int
		scale         int
		out           string
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render a single frame to a PNG file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.loadScene()
			if err != nil {
				return err
			}
			r, err := opts.newRenderer(render.Settings{})
			if err != nil {
				return err
			}

			cam := render.NewCamera()
			cam.Resize(width, height)
			r.Resize(width, height)

			if err := r.Render(s, cam); err != nil {
				return err
			}

			p := &render.PNGPresenter{Path: out, Scale: scale}
			if err := p.Present(r.FinalImage()); err != nil {
				return fmt.Errorf("write snapshot: %w", err)
			}

			st := r.Stats()
			logger.Noticef("wrote %s (%dx%d, %d hits) in %v", out, width, height, st.Hits, st.Duration)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&width, "width", 640, "frame width in pixels")
	f.IntVar(&height, "height", 360, "frame height in pixels")
	f.IntVar(&scale, "scale", 1, "integer upscale factor for the written image")
	f.StringVarP(&out, "out", "o", "frame.png", "output PNG path")
	return cmd
}
