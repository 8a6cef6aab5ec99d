package classfile

import "fmt"

// Constant pool tags.
const (
	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

type constant struct {
	tag   byte
	utf8  string
	index uint16 // name_index for Class entries
}

// constantPool is indexed from 1; slot 0 and the upper halves of Long and
// Double entries are zero constants.
type constantPool []constant

func readConstantPool(d *decoder) (constantPool, error) {
	count := int(d.u2())
	if d.err != nil {
		return nil, d.err
	}

	pool := make(constantPool, count)

	for i := 1; i < count; i++ {
		tag := d.u1()
		c := constant{tag: tag}

		switch tag {
		case tagUtf8:
			c.utf8 = string(d.bytes(int(d.u2())))
		case tagClass, tagModule, tagPackage:
			c.index = d.u2()
		case tagString, tagMethodType:
			d.skip(2)
		case tagMethodHandle:
			d.skip(3)
		case tagInteger, tagFloat, tagFieldref, tagMethodref, tagInterfaceMethodref,
			tagNameAndType, tagDynamic, tagInvokeDynamic:
			d.skip(4)
		case tagLong, tagDouble:
			d.skip(8)
			pool[i] = c
			i++ // eight-byte constants take two slots

			continue
		default:
			if d.err == nil {
				return nil, fmt.Errorf("%w: unknown constant pool tag %d at index %d", ErrMalformed, tag, i)
			}
		}

		if d.err != nil {
			return nil, d.err
		}

		pool[i] = c
	}

	if d.err != nil {
		return nil, d.err
	}

	return pool, nil
}

func (p constantPool) entry(idx uint16, tag byte) (constant, error) {
	if idx == 0 || int(idx) >= len(p) {
		return constant{}, fmt.Errorf("%w: constant pool index %d out of range", ErrMalformed, idx)
	}

	c := p[idx]
	if c.tag != tag {
		return constant{}, fmt.Errorf("%w: constant pool index %d has tag %d, want %d", ErrMalformed, idx, c.tag, tag)
	}

	return c, nil
}

func (p constantPool) utf8(idx uint16) (string, error) {
	c, err := p.entry(idx, tagUtf8)
	if err != nil {
		return "", err
	}

	return c.utf8, nil
}

func (p constantPool) className(idx uint16) (string, error) {
	c, err := p.entry(idx, tagClass)
	if err != nil {
		return "", err
	}

	name, err := p.utf8(c.index)
	if err != nil {
		return "", err
	}

	return InternalToBinary(name), nil
}
