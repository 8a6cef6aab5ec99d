package main

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"entity-weaver/internal/config"
	"entity-weaver/internal/logging"
)

// app carries the process-level inputs shared by all commands.
type app struct {
	stdout  io.Writer
	stderr  io.Writer
	workDir string

	configFile string
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "entity-weaver",
		Short: "Keep persistence.xml in sync with the persistence classes on a classpath",
		Long: `entity-weaver scans compiled classes for persistence annotations
(Entity, MappedSuperclass, Embeddable, Converter), adds every class found to
META-INF/persistence.xml and then runs the static weaver over the classes.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(`{{printf "entity-weaver version %s\n" .Version}}`)

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default is ./entity-weaver.yaml)")
	config.AddLogFlag(root.PersistentFlags())

	root.AddCommand(newWeaveCmd(a))
	root.AddCommand(newCheckCmd(a))
	root.AddCommand(newScanCmd(a))

	return root
}

// load resolves the configuration of cmd and the logger it asks for.
func (a *app) load(cmd *cobra.Command) (*config.Config, *log.Logger, error) {
	v := config.New()
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(v, config.LoadOptions{ConfigFile: a.configFile, WorkDir: a.workDir})
	if err != nil {
		return nil, nil, err
	}

	return cfg, logging.New(a.stderr, cfg.LogLevel), nil
}
