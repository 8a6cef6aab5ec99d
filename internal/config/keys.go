package config

// Configuration keys shared by the config file, the environment and flags.
const (
	KeyClasspath       = "classpath"
	KeySource          = "source"
	KeyTarget          = "target"
	KeyPersistenceInfo = "persistence-info"
	KeyBasePackage     = "base-package"
	KeyBasePackages    = "base-packages"
	KeyUnitName        = "unit-name"
	KeySchemaVersion   = "schema-version"
	KeyLogLevel        = "log-level"
	KeySkipWeave       = "skip-weave"
	KeyReport          = "report"
	KeyWeaverCommand   = "weaver-command"
)

const (
	// EnvPrefix prefixes every environment variable; dashes in keys become
	// underscores (ENTITY_WEAVER_BASE_PACKAGE).
	EnvPrefix = "ENTITY_WEAVER"
	// FileName is the config file looked up in the working directory,
	// without extension.
	FileName = "entity-weaver"
	// FileType is the config file format.
	FileType = "yaml"
)

// pipelineKeys are the keys bound to command-line flags by BindFlags.
var pipelineKeys = []string{
	KeyClasspath,
	KeySource,
	KeyTarget,
	KeyPersistenceInfo,
	KeyBasePackage,
	KeyBasePackages,
	KeyUnitName,
	KeySchemaVersion,
	KeySkipWeave,
	KeyReport,
	KeyWeaverCommand,
}
