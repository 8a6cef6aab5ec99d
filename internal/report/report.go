package report

import (
	"bytes"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"entity-weaver/internal/fault"
	"entity-weaver/internal/scan"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Report summarizes one reconciliation.
type Report struct {
	Unit       string  `yaml:"unit"`
	Descriptor string  `yaml:"descriptor"`
	Created    bool    `yaml:"created"`
	Discovered []Class `yaml:"discovered"`
	// Added lists the class entries written into the descriptor.
	Added []string `yaml:"added,flow"`
	// Undeclared lists the classes reported as missing from an existing
	// descriptor.
	Undeclared []string `yaml:"undeclared,flow"`
}

// Class is a discovered class and its marker kinds.
type Class struct {
	Name    string   `yaml:"name"`
	Markers []string `yaml:"markers,flow"`
}

// New builds a report. Nil lists are rendered as empty sequences.
func New(unit, descriptorPath string, created bool, discovered scan.ClassSet, added, undeclared []string) *Report {
	r := &Report{
		Unit:       unit,
		Descriptor: descriptorPath,
		Created:    created,
		Discovered: make([]Class, 0, len(discovered)),
		Added:      append([]string{}, added...),
		Undeclared: append([]string{}, undeclared...),
	}

	for _, c := range discovered.Sorted() {
		r.Discovered = append(r.Discovered, Class{Name: c.Name, Markers: c.Markers.Strings()})
	}

	return r
}

// Marshal renders r as YAML indented by two spaces.
func (r *Report) Marshal() ([]byte, error) {
	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(r); err != nil {
		return nil, err
	}

	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Write renders r to path, creating parent directories.
func (r *Report) Write(path string) error {
	data, err := r.Marshal()
	if err != nil {
		return fault.IO("render report", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fault.IO("mkdir", filepath.Dir(path), err)
	}

	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fault.IO("write", path, err)
	}

	return nil
}
