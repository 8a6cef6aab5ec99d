package main

import (
	"github.com/spf13/cobra"

	"entity-weaver/internal/config"
	"entity-weaver/internal/pipeline"
)

func newWeaveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weave",
		Short: "Update persistence.xml and weave the classes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := a.load(cmd)
			if err != nil {
				return err
			}

			_, err = pipeline.New(pipeline.WithLogger(logger)).Run(cmd.Context(), cfg)

			return err
		},
	}

	config.AddFlags(cmd.Flags())

	return cmd
}
