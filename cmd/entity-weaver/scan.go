package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"entity-weaver/internal/common"
	"entity-weaver/internal/config"
	"entity-weaver/internal/pipeline"
)

const defaultPackage = "(default)"

func newScanCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "List the persistence classes found on the classpath",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := a.load(cmd)
			if err != nil {
				return err
			}

			res, err := pipeline.New(pipeline.WithLogger(logger)).Discover(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if len(res.Classes) == 0 {
				fmt.Fprintln(out, text.FgYellow.Sprint("No persistence classes found"))

				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(out)
			t.SetStyle(table.StyleRounded)
			t.AppendHeader(table.Row{
				text.FgHiCyan.Sprint("PACKAGE"),
				text.FgHiCyan.Sprint("CLASS"),
				text.FgHiCyan.Sprint("MARKERS"),
				text.FgHiCyan.Sprint("ROOT"),
			})

			for _, c := range res.Classes.Sorted() {
				pkg := common.PackageOf(c.Name)
				if pkg == "" {
					pkg = defaultPackage
				}

				t.AppendRow(table.Row{pkg, common.SimpleName(c.Name), strings.Join(c.Markers.Strings(), ", "), c.Root})
			}

			t.Render()

			fmt.Fprintf(out, "\n%s %s %s\n",
				text.FgHiBlue.Sprint("Total:"),
				text.FgHiWhite.Sprint(len(res.Classes)),
				text.FgHiBlue.Sprint("classes"))

			return nil
		},
	}

	config.AddFlags(cmd.Flags())

	return cmd
}
