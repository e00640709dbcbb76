package main

import (
	"github.com/spf13/cobra"
)

func newSceneCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scene",
		Short: "Inspect scene files",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Print the scene as JSON (the demo scene unless --scene is set)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.loadScene()
			if err != nil {
				return err
			}
			return s.Encode(cmd.OutOrStdout())
		},
	})
	return cmd
}
