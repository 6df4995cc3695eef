package main

import (
	"github.com/born-ml/layerkit/internal/env"
	"github.com/born-ml/layerkit/internal/layers/catalog"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func newTargetsCmd(opts *cliOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "targets",
		Short: "List the detected CPU target and the registered layer specializations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Printf("detected: %s\n", env.Detected())
			cmd.Printf("selected: %s\n", opts.env.CPU())

			specs := catalog.Specializations()
			if !all {
				specs = lo.Filter(specs, func(s catalog.Specialization, _ int) bool {
					return s.Key.CPU == opts.env.CPU()
				})
			}
			for _, s := range specs {
				cmd.Printf("%-9s %-8s %s\n", s.Kind, s.Pass, s.Key)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "list specializations for every CPU target, not only the selected one")
	return cmd
}
