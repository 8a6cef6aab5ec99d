// Package report renders the outcome of a reconciliation as YAML.
package report
