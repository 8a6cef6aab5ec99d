package descriptor

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/beevik/etree"

	"entity-weaver/internal/common"
)

var errInvalid = errors.New("not a persistence descriptor")

// Descriptor is an in-memory persistence.xml document.
type Descriptor struct {
	doc        *etree.Document
	duplicates []string
}

// New creates an empty descriptor with a single persistence unit.
func New(unitName string, version SchemaVersion) *Descriptor {
	info, ok := schemas[version]
	if !ok {
		version = DefaultVersion
		info = schemas[version]
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement(elemPersistence)
	root.CreateAttr("xmlns", info.namespace)
	root.CreateAttr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")
	root.CreateAttr("xsi:schemaLocation", info.namespace+" "+info.location)
	root.CreateAttr(attrVersion, string(version))

	unit := root.CreateElement(elemUnit)
	unit.CreateAttr(attrName, unitName)

	return &Descriptor{doc: doc}
}

// Parse reads a descriptor from XML. The error wraps errInvalid when the
// document is well-formed XML but not a valid persistence descriptor of the
// revision its version attribute declares.
func Parse(data []byte) (*Descriptor, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}

	d := &Descriptor{doc: doc}
	if err := d.validate(); err != nil {
		return nil, err
	}

	if err := validateSchema(SchemaVersion(d.Version()), data); err != nil {
		return nil, err
	}

	d.duplicates = d.findDuplicates()

	return d, nil
}

// validate is the structural pre-check run before schema validation. It also
// rejects empty class names, which the schema allows.
func (d *Descriptor) validate() error {
	root := d.doc.Root()
	if root == nil {
		return fmt.Errorf("%w: document has no root element", errInvalid)
	}

	if root.Tag != elemPersistence {
		return fmt.Errorf("%w: root element is <%s>, want <%s>", errInvalid, root.FullTag(), elemPersistence)
	}

	version := SchemaVersion(root.SelectAttrValue(attrVersion, ""))
	if _, ok := schemas[version]; !ok {
		return fmt.Errorf("%w: unsupported version %q (expected one of %v)", errInvalid, version, SupportedVersions())
	}

	if ns := root.NamespaceURI(); ns != version.Namespace() {
		return fmt.Errorf("%w: namespace %q does not match version %s (want %q)", errInvalid, ns, version, version.Namespace())
	}

	units := root.SelectElements(elemUnit)
	if len(units) == 0 {
		return fmt.Errorf("%w: no <%s> element", errInvalid, elemUnit)
	}

	for i, unit := range units {
		if strings.TrimSpace(unit.SelectAttrValue(attrName, "")) == "" {
			return fmt.Errorf("%w: <%s> #%d has no name", errInvalid, elemUnit, i+1)
		}

		for _, c := range unit.SelectElements(elemClass) {
			if strings.TrimSpace(c.Text()) == "" {
				return fmt.Errorf("%w: empty <%s> in unit %q", errInvalid, elemClass, unit.SelectAttrValue(attrName, ""))
			}
		}
	}

	return nil
}

func (d *Descriptor) units() []*etree.Element {
	return d.doc.Root().SelectElements(elemUnit)
}

// UnitName returns the name of the first persistence unit, the one new
// classes are added to.
func (d *Descriptor) UnitName() string {
	return d.units()[0].SelectAttrValue(attrName, "")
}

// UnitNames returns the names of every persistence unit in document order.
func (d *Descriptor) UnitNames() []string {
	var names []string
	for _, u := range d.units() {
		names = append(names, u.SelectAttrValue(attrName, ""))
	}

	return names
}

// Version returns the root version attribute.
func (d *Descriptor) Version() string {
	return d.doc.Root().SelectAttrValue(attrVersion, "")
}

// declared returns the set of class names declared in any unit.
func (d *Descriptor) declared() map[string]struct{} {
	set := make(map[string]struct{})

	for _, u := range d.units() {
		for _, c := range u.SelectElements(elemClass) {
			set[strings.TrimSpace(c.Text())] = struct{}{}
		}
	}

	return set
}

// DeclaredNames returns the class names declared in any unit, sorted and
// without duplicates.
func (d *Descriptor) DeclaredNames() []string {
	return common.SortedKeys(d.declared())
}

// Duplicates returns the class names a parsed document declared more than
// once within a single unit, sorted. Serialize collapses them.
func (d *Descriptor) Duplicates() []string {
	return d.duplicates
}

func (d *Descriptor) findDuplicates() []string {
	dups := make(map[string]struct{})

	for _, u := range d.units() {
		seen := make(map[string]struct{})
		for _, c := range u.SelectElements(elemClass) {
			n := strings.TrimSpace(c.Text())
			if _, ok := seen[n]; ok {
				dups[n] = struct{}{}
			}

			seen[n] = struct{}{}
		}
	}

	if len(dups) == 0 {
		return nil
	}

	return common.SortedKeys(dups)
}

// AddNames declares the given classes in the first unit, skipping names that
// are already declared anywhere. It returns the number of entries added.
func (d *Descriptor) AddNames(names []string) int {
	declared := d.declared()

	var fresh []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if _, ok := declared[n]; ok || n == "" {
			continue
		}

		declared[n] = struct{}{}
		fresh = append(fresh, n)
	}

	if len(fresh) == 0 {
		return 0
	}

	slices.Sort(fresh)

	unit := d.units()[0]
	at := classInsertIndex(unit)

	for i, n := range fresh {
		unit.InsertChildAt(at+i, newClassElement(unit, n))
	}

	return len(fresh)
}

// classInsertIndex is the child index where class entries belong: after the
// last existing class, else before the first schema-later element, else at
// the end.
func classInsertIndex(unit *etree.Element) int {
	if classes := unit.SelectElements(elemClass); len(classes) > 0 {
		return classes[len(classes)-1].Index() + 1
	}

	for _, child := range unit.ChildElements() {
		if slices.Contains(unitTail, child.Tag) {
			return child.Index()
		}
	}

	return len(unit.Child)
}

func newClassElement(unit *etree.Element, name string) *etree.Element {
	el := etree.NewElement(elemClass)
	el.Space = unit.Space
	el.SetText(name)

	return el
}

// normalize collapses duplicate class entries and sorts them in place of the
// first one, for every unit.
func (d *Descriptor) normalize() {
	for _, unit := range d.units() {
		classes := unit.SelectElements(elemClass)
		if len(classes) == 0 {
			continue
		}

		set := make(map[string]struct{}, len(classes))
		for _, c := range classes {
			set[strings.TrimSpace(c.Text())] = struct{}{}
		}

		// Everything before the first class stays, so its index is stable.
		at := classes[0].Index()
		for _, c := range classes {
			unit.RemoveChild(c)
		}

		for i, n := range common.SortedKeys(set) {
			unit.InsertChildAt(at+i, newClassElement(unit, n))
		}
	}
}

// Serialize renders the document with sorted, unique class entries, two
// space indentation and a leading XML declaration.
func (d *Descriptor) Serialize() ([]byte, error) {
	d.normalize()
	d.ensureDeclaration()
	d.doc.Indent(2)

	data, err := d.doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serializing descriptor: %w", err)
	}

	return data, nil
}

func (d *Descriptor) ensureDeclaration() {
	for _, t := range d.doc.Child {
		if pi, ok := t.(*etree.ProcInst); ok && pi.Target == "xml" {
			return
		}
	}

	d.doc.InsertChildAt(0, etree.NewProcInst("xml", `version="1.0" encoding="UTF-8"`))
}
