package descriptor

import (
	"bytes"
	"embed"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/jacoelho/xsd"
	xsderrors "github.com/jacoelho/xsd/errors"

	"entity-weaver/internal/fault"
)

//go:embed xsd/*.xsd
var schemaFiles embed.FS

// SchemaVersion is a persistence.xml schema revision.
type SchemaVersion string

const (
	Version21 SchemaVersion = "2.1"
	Version22 SchemaVersion = "2.2"
	Version30 SchemaVersion = "3.0"

	DefaultVersion = Version22
)

// Element and attribute names.
const (
	elemPersistence = "persistence"
	elemUnit        = "persistence-unit"
	elemClass       = "class"
	attrName        = "name"
	attrVersion     = "version"
)

// unitTail lists persistence-unit children that follow the class entries in
// schema order.
var unitTail = []string{"exclude-unlisted-classes", "shared-cache-mode", "validation-mode", "properties"}

type schemaInfo struct {
	namespace string
	location  string
	file      string
}

var schemas = map[SchemaVersion]schemaInfo{
	Version21: {
		namespace: "http://xmlns.jcp.org/xml/ns/persistence",
		location:  "http://xmlns.jcp.org/xml/ns/persistence/persistence_2_1.xsd",
		file:      "xsd/persistence_2_1.xsd",
	},
	Version22: {
		namespace: "http://xmlns.jcp.org/xml/ns/persistence",
		location:  "http://xmlns.jcp.org/xml/ns/persistence/persistence_2_2.xsd",
		file:      "xsd/persistence_2_2.xsd",
	},
	Version30: {
		namespace: "https://jakarta.ee/xml/ns/persistence",
		location:  "https://jakarta.ee/xml/ns/persistence/persistence_3_0.xsd",
		file:      "xsd/persistence_3_0.xsd",
	},
}

// ParseSchemaVersion validates a configured schema revision; "" selects the
// default.
func ParseSchemaVersion(s string) (SchemaVersion, error) {
	if s == "" {
		return DefaultVersion, nil
	}

	v := SchemaVersion(s)
	if _, ok := schemas[v]; !ok {
		return "", fault.Configurationf("unsupported persistence schema version %q (expected one of %v)", s, SupportedVersions())
	}

	return v, nil
}

// SupportedVersions lists the known schema revisions in ascending order.
func SupportedVersions() []SchemaVersion {
	versions := make([]SchemaVersion, 0, len(schemas))
	for v := range schemas {
		versions = append(versions, v)
	}

	slices.Sort(versions)

	return versions
}

// Namespace returns the XML namespace of the revision.
func (v SchemaVersion) Namespace() string {
	return schemas[v].namespace
}

// compiled holds the lazily loaded schema of every revision.
var compiled = func() map[SchemaVersion]func() (*xsd.Schema, error) {
	m := make(map[SchemaVersion]func() (*xsd.Schema, error), len(schemas))
	for v, info := range schemas {
		m[v] = sync.OnceValues(func() (*xsd.Schema, error) {
			return xsd.Load(schemaFiles, info.file)
		})
	}

	return m
}()

// validateSchema checks data against the XSD of revision v.
func validateSchema(v SchemaVersion, data []byte) error {
	schema, err := compiled[v]()
	if err != nil {
		return fmt.Errorf("loading persistence %s schema: %w", v, err)
	}

	err = schema.Validate(bytes.NewReader(data))
	if err == nil {
		return nil
	}

	list, ok := xsderrors.AsValidations(err)
	if !ok {
		return fmt.Errorf("%w: %w", errInvalid, err)
	}

	msgs := make([]string, 0, len(list))
	for i := range list {
		msgs = append(msgs, list[i].Error())
	}

	return fmt.Errorf("%w: persistence %s schema: %s", errInvalid, v, strings.Join(msgs, "; "))
}
