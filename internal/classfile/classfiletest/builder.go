// Package classfiletest synthesizes minimal class files for tests.
package classfiletest

import (
	"bytes"
	"encoding/binary"
	"strings"
)

// Class describes the class file to build. Names use dotted binary form.
type Class struct {
	Name       string
	Super      string
	Interfaces []string

	// Annotations are emitted in RuntimeVisibleAnnotations.
	Annotations []string
	// InvisibleAnnotations are emitted in RuntimeInvisibleAnnotations.
	InvisibleAnnotations []string

	// WithElementValues gives every annotation a string, an enum array and a
	// nested annotation element.
	WithElementValues bool

	// WithMembers adds a field and a method carrying attributes, plus a Long
	// constant, so readers must skip them correctly.
	WithMembers bool

	AccessFlags uint16
}

// Bytes is shorthand for building a class with visible annotations.
func Bytes(name string, annotations ...string) []byte {
	return Class{Name: name, Annotations: annotations}.Bytes()
}

type pool struct {
	buf   bytes.Buffer
	count uint16
	utf8s map[string]uint16
}

func newPool() *pool {
	return &pool{count: 1, utf8s: map[string]uint16{}}
}

func (p *pool) utf8(s string) uint16 {
	if idx, ok := p.utf8s[s]; ok {
		return idx
	}

	p.buf.WriteByte(1)
	writeU2(&p.buf, uint16(len(s)))
	p.buf.WriteString(s)

	idx := p.count
	p.count++
	p.utf8s[s] = idx

	return idx
}

func (p *pool) class(dotted string) uint16 {
	name := p.utf8(strings.ReplaceAll(dotted, ".", "/"))

	p.buf.WriteByte(7)
	writeU2(&p.buf, name)

	idx := p.count
	p.count++

	return idx
}

func (p *pool) long(v uint64) uint16 {
	p.buf.WriteByte(5)
	_ = binary.Write(&p.buf, binary.BigEndian, v)

	idx := p.count
	p.count += 2

	return idx
}

// Bytes encodes the class file.
func (c Class) Bytes() []byte {
	p := newPool()

	if c.WithMembers {
		p.long(42)
	}

	this := p.class(c.Name)

	super := c.Super
	if super == "" {
		super = "java.lang.Object"
	}

	superIdx := p.class(super)

	ifaces := make([]uint16, 0, len(c.Interfaces))
	for _, iface := range c.Interfaces {
		ifaces = append(ifaces, p.class(iface))
	}

	var body bytes.Buffer

	flags := c.AccessFlags
	if flags == 0 {
		flags = 0x0021 // ACC_PUBLIC | ACC_SUPER
	}

	writeU2(&body, flags)
	writeU2(&body, this)
	writeU2(&body, superIdx)
	writeU2(&body, uint16(len(ifaces)))

	for _, idx := range ifaces {
		writeU2(&body, idx)
	}

	if c.WithMembers {
		member := func() {
			writeU2(&body, 0x0001)
			writeU2(&body, p.utf8("value"))
			writeU2(&body, p.utf8("J"))
			writeU2(&body, 1)
			writeU2(&body, p.utf8("Synthetic"))
			writeU4(&body, 3)
			body.Write([]byte{0xAA, 0xBB, 0xCC})
		}

		writeU2(&body, 1) // fields
		member()
		writeU2(&body, 1) // methods
		member()
	} else {
		writeU2(&body, 0)
		writeU2(&body, 0)
	}

	var attrs [][]byte
	if len(c.Annotations) > 0 {
		attrs = append(attrs, c.annotationAttr(p, "RuntimeVisibleAnnotations", c.Annotations))
	}

	if len(c.InvisibleAnnotations) > 0 {
		attrs = append(attrs, c.annotationAttr(p, "RuntimeInvisibleAnnotations", c.InvisibleAnnotations))
	}

	var source bytes.Buffer
	writeU2(&source, p.utf8("Source.java"))
	attrs = append(attrs, attribute(p.utf8("SourceFile"), source.Bytes()))

	writeU2(&body, uint16(len(attrs)))
	for _, a := range attrs {
		body.Write(a)
	}

	var out bytes.Buffer
	writeU4(&out, 0xCAFEBABE)
	writeU2(&out, 0)
	writeU2(&out, 52)
	writeU2(&out, p.count)
	out.Write(p.buf.Bytes())
	out.Write(body.Bytes())

	return out.Bytes()
}

func (c Class) annotationAttr(p *pool, attrName string, types []string) []byte {
	var b bytes.Buffer

	writeU2(&b, uint16(len(types)))

	for _, t := range types {
		writeU2(&b, p.utf8(descriptor(t)))

		if !c.WithElementValues {
			writeU2(&b, 0)
			continue
		}

		writeU2(&b, 3)

		writeU2(&b, p.utf8("name"))
		b.WriteByte('s')
		writeU2(&b, p.utf8("orders"))

		writeU2(&b, p.utf8("kinds"))
		b.WriteByte('[')
		writeU2(&b, 2)
		for _, constName := range []string{"EAGER", "LAZY"} {
			b.WriteByte('e')
			writeU2(&b, p.utf8("Ljavax/persistence/FetchType;"))
			writeU2(&b, p.utf8(constName))
		}

		writeU2(&b, p.utf8("nested"))
		b.WriteByte('@')
		writeU2(&b, p.utf8("Ljava/lang/Deprecated;"))
		writeU2(&b, 1)
		writeU2(&b, p.utf8("since"))
		b.WriteByte('I')
		writeU2(&b, p.utf8("9"))
	}

	return attribute(p.utf8(attrName), b.Bytes())
}

func attribute(nameIdx uint16, body []byte) []byte {
	var b bytes.Buffer

	writeU2(&b, nameIdx)
	writeU4(&b, uint32(len(body)))
	b.Write(body)

	return b.Bytes()
}

func descriptor(dotted string) string {
	return "L" + strings.ReplaceAll(dotted, ".", "/") + ";"
}

func writeU2(b *bytes.Buffer, v uint16) {
	_ = binary.Write(b, binary.BigEndian, v)
}

func writeU4(b *bytes.Buffer, v uint32) {
	_ = binary.Write(b, binary.BigEndian, v)
}
