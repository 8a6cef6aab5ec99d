// Package config resolves the settings of one entity-weaver invocation.
//
// Settings are layered with Viper: built-in defaults, then a YAML file
// (entity-weaver.yaml in the working directory, or an explicit --config
// path), then ENTITY_WEAVER_* environment variables, then command-line
// flags. The layered values are validated once and turned into a Config
// whose fields are typed values (PackageFilter, Level, SchemaVersion)
// rather than raw strings.
package config
