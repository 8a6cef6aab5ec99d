package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"entity-weaver/internal/descriptor"
	"entity-weaver/internal/logging"
)

// AddFlags registers the pipeline flags on fs.
func AddFlags(fs *pflag.FlagSet) {
	fs.StringSlice(KeyClasspath, nil, "classpath roots (repeatable, comma or path-list separated)")
	fs.String(KeySource, "", "directory holding the compiled classes")
	fs.String(KeyTarget, "", "directory receiving the woven classes (default: source)")
	fs.String(KeyPersistenceInfo, "", "root directory of META-INF/persistence.xml (default: source)")
	fs.String(KeyBasePackage, "", "only scan classes inside this package")
	fs.StringSlice(KeyBasePackages, nil, "only scan classes inside these packages")
	fs.String(KeyUnitName, "", "persistence unit name for a new descriptor (default: working directory name)")
	fs.String(KeySchemaVersion, string(descriptor.DefaultVersion),
		fmt.Sprintf("persistence.xml schema version for a new descriptor (%s)", joinVersions()))
	fs.Bool(KeySkipWeave, false, "update the descriptor without invoking the weaver")
	fs.String(KeyReport, "", "write a YAML reconciliation report to this file")
	fs.String(KeyWeaverCommand, "", "external weaver command line, e.g. \"java -cp eclipselink.jar org.eclipse.persistence.tools.weaving.jpa.StaticWeave\"")
}

// AddLogFlag registers the log level flag on fs.
func AddLogFlag(fs *pflag.FlagSet) {
	fs.String(KeyLogLevel, logging.DefaultLevel.String(),
		fmt.Sprintf("log level (%s)", strings.Join(logging.LevelNames(), ", ")))
}

// BindFlags binds every registered configuration flag in fs to v.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, key := range append(pipelineKeys, KeyLogLevel) {
		f := fs.Lookup(key)
		if f == nil {
			continue
		}

		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag %q: %w", key, err)
		}
	}

	return nil
}

func joinVersions() string {
	versions := descriptor.SupportedVersions()
	names := make([]string, len(versions))
	for i, v := range versions {
		names[i] = string(v)
	}

	return strings.Join(names, ", ")
}
