package main

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/taigrr/orb/pkg/render"
)

func newBenchCmd(opts *options) *cobra.Command {
	var (
		width, height int
		frames        int
		accumulate    bool
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Render frames headlessly and report timing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.loadScene()
			if err != nil {
				return err
			}
			r, err := opts.newRenderer(render.Settings{Accumulate: accumulate})
			if err != nil {
				return err
			}

			cam := render.NewCamera()
			cam.Resize(width, height)
			r.Resize(width, height)

			frames = max(frames, 1)
			stats := make([]render.FrameStats, 0, frames)
			for range frames {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				if err := r.Render(s, cam); err != nil {
					return err
				}
				stats = append(stats, r.Stats())
			}

			fmt.Fprint(cmd.OutOrStdout(), frameStatsTable(stats))
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&width, "width", 320, "frame width in pixels")
	f.IntVar(&height, "height", 180, "frame height in pixels")
	f.IntVar(&frames, "frames", 10, "number of frames to render")
	f.BoolVar(&accumulate, "accumulate", false, "accumulate frames while benchmarking")
	return cmd
}

// frameStatsTable formats per-frame statistics with a total footer.
func frameStatsTable(stats []render.FrameStats) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Frame", "Pixels", "Hits", "Workers", "Render time", "Mrays/s"})

	var total time.Duration
	var pixels int
	for _, st := range stats {
		total += st.Duration
		pixels += st.Pixels
		table.Append([]string{
			fmt.Sprintf("%d", st.Frame),
			fmt.Sprintf("%d", st.Pixels),
			fmt.Sprintf("%d", st.Hits),
			fmt.Sprintf("%d", st.Workers),
			st.Duration.String(),
			fmt.Sprintf("%.2f", mraysPerSecond(st.Pixels, st.Duration)),
		})
	}
	table.SetFooter([]string{"", "", "", "TOTAL", total.String(), fmt.Sprintf("%.2f", mraysPerSecond(pixels, total))})

	table.Render()
	return buf.String()
}

func mraysPerSecond(rays int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(rays) / d.Seconds() / 1e6
}
