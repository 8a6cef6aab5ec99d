package main

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"entity-weaver/internal/config"
	"entity-weaver/internal/pipeline"
)

var errUndeclared = errors.New("persistence.xml does not declare every discovered class")

func newCheckCmd(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report classes missing from persistence.xml without writing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := a.load(cmd)
			if err != nil {
				return err
			}

			p := pipeline.New(pipeline.WithLogger(logger), pipeline.WithMode(pipeline.ModeCheck))

			sum, err := p.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if len(sum.Added) == 0 {
				fmt.Fprintf(out, "%s %s declares all %d discovered classes\n",
					text.FgGreen.Sprint("ok"), sum.DescriptorPath, len(sum.Discovered))

				return nil
			}

			state := "is missing"
			if !sum.Created {
				state = "does not declare"
			}

			fmt.Fprintf(out, "%s %s %s %d classes:\n",
				text.FgYellow.Sprint("!"), sum.DescriptorPath, state, len(sum.Added))

			for _, name := range sum.Added {
				fmt.Fprintf(out, "  %s\n", name)
			}

			if strict {
				return errUndeclared
			}

			return nil
		},
	}

	config.AddFlags(cmd.Flags())
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when classes are missing from persistence.xml")

	return cmd
}
