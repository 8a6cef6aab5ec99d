package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"entity-weaver/internal/descriptor"
	"entity-weaver/internal/fault"
	"entity-weaver/internal/logging"
	"entity-weaver/internal/scan"
)

// Config is the validated configuration of one invocation.
type Config struct {
	// Classpath lists the classpath roots in the order given, absolute.
	Classpath []string
	// Source holds the compiled classes; it is always scanned.
	Source string
	// Target receives the woven classes.
	Target string
	// PersistenceInfo is the directory holding META-INF/persistence.xml.
	PersistenceInfo string
	Filter          scan.PackageFilter
	// UnitName names the persistence unit of a newly created descriptor.
	UnitName      string
	SchemaVersion descriptor.SchemaVersion
	LogLevel      logging.Level
	SkipWeave     bool
	// ReportPath is the YAML report destination; empty disables the report.
	ReportPath string
	// WeaverCommand is the argv prefix of the external weaver.
	WeaverCommand []string
}

// LoadOptions are the inputs of Load that do not come from Viper keys.
type LoadOptions struct {
	// ConfigFile forces a specific config file when set.
	ConfigFile string
	// WorkDir resolves relative paths and the default config file and unit
	// name. Empty means the process working directory.
	WorkDir string
}

// New returns a Viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyLogLevel, logging.DefaultLevel.String())
	v.SetDefault(KeySchemaVersion, string(descriptor.DefaultVersion))
	v.SetDefault(KeySkipWeave, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the config file into v and resolves the layered values into a
// validated Config.
func Load(v *viper.Viper, opts LoadOptions) (*Config, error) {
	workDir := opts.WorkDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fault.IO("getwd", ".", err)
		}

		workDir = wd
	}

	if err := readConfigFile(v, opts.ConfigFile, workDir); err != nil {
		return nil, err
	}

	return Resolve(v, workDir)
}

func readConfigFile(v *viper.Viper, file, workDir string) error {
	if file != "" {
		v.SetConfigFile(absIn(workDir, file))
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType(FileType)
		v.AddConfigPath(workDir)
	}

	err := v.ReadInConfig()

	var notFound viper.ConfigFileNotFoundError
	switch {
	case err == nil:
		return nil
	case file == "" && errors.As(err, &notFound):
		return nil
	default:
		return fault.Configurationf("reading config file: %v", err)
	}
}

// Resolve turns the values in v into a validated Config. Relative paths are
// resolved against workDir.
func Resolve(v *viper.Viper, workDir string) (*Config, error) {
	filter, err := ResolvePackageFilter(v)
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(v.GetString(KeyLogLevel))
	if err != nil {
		return nil, err
	}

	version, err := descriptor.ParseSchemaVersion(strings.TrimSpace(v.GetString(KeySchemaVersion)))
	if err != nil {
		return nil, err
	}

	source := strings.TrimSpace(v.GetString(KeySource))
	if source == "" {
		return nil, fault.Configurationf("no source directory configured (set --%s)", KeySource)
	}

	cfg := &Config{
		Source:        absIn(workDir, source),
		Filter:        filter,
		UnitName:      strings.TrimSpace(v.GetString(KeyUnitName)),
		SchemaVersion: version,
		LogLevel:      level,
		SkipWeave:     v.GetBool(KeySkipWeave),
		WeaverCommand: v.GetStringSlice(KeyWeaverCommand),
	}

	cfg.Target = cfg.Source
	if target := strings.TrimSpace(v.GetString(KeyTarget)); target != "" {
		cfg.Target = absIn(workDir, target)
	}

	cfg.PersistenceInfo = cfg.Source
	if info := strings.TrimSpace(v.GetString(KeyPersistenceInfo)); info != "" {
		cfg.PersistenceInfo = absIn(workDir, info)
	}

	if report := strings.TrimSpace(v.GetString(KeyReport)); report != "" {
		cfg.ReportPath = absIn(workDir, report)
	}

	if cfg.UnitName == "" {
		cfg.UnitName = filepath.Base(workDir)
	}

	for _, entry := range splitList(v.GetStringSlice(KeyClasspath)) {
		cfg.Classpath = append(cfg.Classpath, absIn(workDir, entry))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ResolvePackageFilter merges the single-package and package-list forms into
// one filter. Setting both, or setting the list form to an empty list, is a
// configuration error.
func ResolvePackageFilter(v *viper.Viper) (scan.PackageFilter, error) {
	single := v.IsSet(KeyBasePackage) && strings.TrimSpace(v.GetString(KeyBasePackage)) != ""
	list := v.IsSet(KeyBasePackages)

	switch {
	case single && list:
		return scan.PackageFilter{}, fault.Configurationf("only one of %s and %s may be set", KeyBasePackage, KeyBasePackages)
	case single:
		return scan.NewPackageFilter(v.GetString(KeyBasePackage)), nil
	case list:
		filter := scan.NewPackageFilter(splitCommas(v.GetStringSlice(KeyBasePackages))...)
		if filter.IsEmpty() {
			return scan.PackageFilter{}, fault.Configurationf("%s is set but lists no package", KeyBasePackages)
		}

		return filter, nil
	default:
		return scan.PackageFilter{}, nil
	}
}

// Validate checks the invariants a Config must hold before anything is
// written.
func (c *Config) Validate() error {
	if c.Source == "" {
		return fault.Configurationf("no source directory configured")
	}

	info, err := os.Stat(c.Source)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fault.Configurationf("source directory %s does not exist", c.Source)
	case err != nil:
		return fault.Configurationf("source directory %s: %v", c.Source, err)
	case !info.IsDir():
		return fault.Configurationf("source %s is not a directory", c.Source)
	}

	if c.Target == "" || c.PersistenceInfo == "" {
		return fault.Configurationf("target and persistence-info directories must be set")
	}

	if strings.TrimSpace(c.UnitName) == "" {
		return fault.Configurationf("persistence unit name is empty")
	}

	if _, err := descriptor.ParseSchemaVersion(string(c.SchemaVersion)); err != nil {
		return err
	}

	return nil
}

// DescriptorPath is the location of persistence.xml.
func (c *Config) DescriptorPath() string {
	return descriptor.PathIn(c.PersistenceInfo)
}

// Roots returns the classpath roots to scan: the source directory first
// unless the classpath already lists it, then the classpath in order, with
// repeated entries removed.
func (c *Config) Roots() []string {
	roots := make([]string, 0, len(c.Classpath)+1)
	if !slices.Contains(c.Classpath, c.Source) {
		roots = append(roots, c.Source)
	}

	for _, entry := range c.Classpath {
		if !slices.Contains(roots, entry) {
			roots = append(roots, entry)
		}
	}

	return roots
}

func absIn(workDir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}

	return filepath.Join(workDir, path)
}

// splitList splits entries on commas and the OS path-list separator.
func splitList(entries []string) []string {
	var out []string

	for _, e := range entries {
		for _, part := range strings.FieldsFunc(e, func(r rune) bool {
			return r == ',' || r == filepath.ListSeparator
		}) {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}

	return out
}

func splitCommas(entries []string) []string {
	var out []string
	for _, e := range entries {
		out = append(out, strings.Split(e, ",")...)
	}

	return out
}
