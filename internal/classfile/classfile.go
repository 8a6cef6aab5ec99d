package classfile

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// Magic is the first four bytes of every class file.
const Magic = 0xCAFEBABE

// ErrMalformed is returned for input that is not a well-formed class file.
var ErrMalformed = errors.New("malformed class file")

// Access flags relevant to discovery.
const (
	AccPublic     = 0x0001
	AccInterface  = 0x0200
	AccAbstract   = 0x0400
	AccAnnotation = 0x2000
	AccModule     = 0x8000
)

// Annotation attribute names.
const (
	attrVisibleAnnotations   = "RuntimeVisibleAnnotations"
	attrInvisibleAnnotations = "RuntimeInvisibleAnnotations"
)

// ClassFile is the decoded subset of a class file.
type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	AccessFlags  uint16

	name        string
	superName   string
	interfaces  []string
	annotations []string
}

// Name returns the dotted binary name of the class.
func (c *ClassFile) Name() string {
	return c.name
}

// SuperName returns the dotted binary name of the super class, or "" for
// java.lang.Object and module descriptors.
func (c *ClassFile) SuperName() string {
	return c.superName
}

// Interfaces returns the dotted names of the directly implemented interfaces.
func (c *ClassFile) Interfaces() []string {
	return c.interfaces
}

// Annotations returns the dotted type names of the class-level annotations,
// visible ones first, in declaration order.
func (c *ClassFile) Annotations() []string {
	return c.annotations
}

// HasAnnotation reports whether the class carries the annotation with the
// given dotted type name.
func (c *ClassFile) HasAnnotation(typeName string) bool {
	return slices.Contains(c.annotations, typeName)
}

// IsModuleInfo reports whether the file is a module descriptor.
func (c *ClassFile) IsModuleInfo() bool {
	return c.AccessFlags&AccModule != 0
}

// Parse reads a complete class file from r.
func Parse(r io.Reader) (*ClassFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading class file: %w", err)
	}

	return ParseBytes(data)
}

// ParseBytes decodes a class file held in memory.
func ParseBytes(data []byte) (*ClassFile, error) {
	d := &decoder{buf: data}

	if magic := d.u4(); magic != Magic {
		if d.err != nil {
			return nil, d.err
		}

		return nil, fmt.Errorf("%w: bad magic 0x%08X", ErrMalformed, magic)
	}

	cf := &ClassFile{
		MinorVersion: d.u2(),
		MajorVersion: d.u2(),
	}

	pool, err := readConstantPool(d)
	if err != nil {
		return nil, err
	}

	cf.AccessFlags = d.u2()
	thisIdx := d.u2()
	superIdx := d.u2()

	ifaceCount := int(d.u2())
	ifaceIdx := make([]uint16, 0, ifaceCount)
	for range ifaceCount {
		ifaceIdx = append(ifaceIdx, d.u2())
	}

	if d.err != nil {
		return nil, d.err
	}

	if cf.name, err = pool.className(thisIdx); err != nil {
		return nil, fmt.Errorf("this_class: %w", err)
	}

	if superIdx != 0 {
		if cf.superName, err = pool.className(superIdx); err != nil {
			return nil, fmt.Errorf("super_class: %w", err)
		}
	}

	for _, idx := range ifaceIdx {
		name, err := pool.className(idx)
		if err != nil {
			return nil, fmt.Errorf("interfaces: %w", err)
		}

		cf.interfaces = append(cf.interfaces, name)
	}

	// fields, then methods
	for range 2 {
		skipMembers(d)
	}

	cf.annotations, err = readClassAnnotations(d, pool)
	if err != nil {
		return nil, err
	}

	return cf, nil
}

func skipMembers(d *decoder) {
	count := int(d.u2())
	for i := 0; i < count && d.err == nil; i++ {
		d.skip(6) // access_flags, name_index, descriptor_index
		skipAttributes(d)
	}
}

func skipAttributes(d *decoder) {
	count := int(d.u2())
	for i := 0; i < count && d.err == nil; i++ {
		d.skip(2)
		d.skip(int(d.u4()))
	}
}

func readClassAnnotations(d *decoder, pool constantPool) ([]string, error) {
	var visible, invisible []string

	count := int(d.u2())
	for i := 0; i < count && d.err == nil; i++ {
		nameIdx := d.u2()
		length := int(d.u4())
		body := d.bytes(length)
		if d.err != nil {
			break
		}

		name, err := pool.utf8(nameIdx)
		if err != nil {
			return nil, fmt.Errorf("attribute name: %w", err)
		}

		switch name {
		case attrVisibleAnnotations:
			types, err := readAnnotationTable(body, pool)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}

			visible = append(visible, types...)
		case attrInvisibleAnnotations:
			types, err := readAnnotationTable(body, pool)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}

			invisible = append(invisible, types...)
		}
	}

	if d.err != nil {
		return nil, d.err
	}

	return append(visible, invisible...), nil
}

// readAnnotationTable returns the type names of the top-level annotations in
// an annotations attribute body.
func readAnnotationTable(body []byte, pool constantPool) ([]string, error) {
	d := &decoder{buf: body}

	count := int(d.u2())
	types := make([]string, 0, count)

	for i := 0; i < count && d.err == nil; i++ {
		typeIdx := d.u2()
		skipElementValuePairs(d)

		if d.err != nil {
			break
		}

		desc, err := pool.utf8(typeIdx)
		if err != nil {
			return nil, fmt.Errorf("annotation type: %w", err)
		}

		name, ok := descriptorToName(desc)
		if !ok {
			return nil, fmt.Errorf("%w: annotation type descriptor %q", ErrMalformed, desc)
		}

		types = append(types, name)
	}

	if d.err != nil {
		return nil, d.err
	}

	return types, nil
}

func skipAnnotation(d *decoder) {
	d.skip(2) // type_index
	skipElementValuePairs(d)
}

func skipElementValuePairs(d *decoder) {
	pairs := int(d.u2())
	for i := 0; i < pairs && d.err == nil; i++ {
		d.skip(2) // element_name_index
		skipElementValue(d)
	}
}

func skipElementValue(d *decoder) {
	tag := d.u1()
	if d.err != nil {
		return
	}

	switch tag {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z', 's', 'c':
		d.skip(2)
	case 'e':
		d.skip(4)
	case '@':
		skipAnnotation(d)
	case '[':
		n := int(d.u2())
		for i := 0; i < n && d.err == nil; i++ {
			skipElementValue(d)
		}
	default:
		d.fail(fmt.Errorf("%w: unknown element_value tag %q", ErrMalformed, tag))
	}
}

// descriptorToName turns "Ljavax/persistence/Entity;" into
// "javax.persistence.Entity".
func descriptorToName(desc string) (string, bool) {
	if len(desc) < 3 || desc[0] != 'L' || desc[len(desc)-1] != ';' {
		return "", false
	}

	return InternalToBinary(desc[1 : len(desc)-1]), true
}

// InternalToBinary converts an internal name ("com/example/Order") to its
// dotted binary form ("com.example.Order").
func InternalToBinary(internal string) string {
	return strings.ReplaceAll(internal, "/", ".")
}
