package classfile

import (
	"encoding/binary"
	"fmt"
)

// decoder reads big-endian values from a byte slice. The first failure is
// latched in err and every later read returns zero values.
type decoder struct {
	buf []byte
	off int
	err error
}

func (d *decoder) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *decoder) take(n int) []byte {
	if d.err != nil {
		return nil
	}

	if n < 0 || d.off+n > len(d.buf) {
		d.fail(fmt.Errorf("%w: truncated at offset %d (need %d bytes, have %d)",
			ErrMalformed, d.off, n, len(d.buf)-d.off))

		return nil
	}

	b := d.buf[d.off : d.off+n]
	d.off += n

	return b
}

func (d *decoder) u1() byte {
	b := d.take(1)
	if b == nil {
		return 0
	}

	return b[0]
}

func (d *decoder) u2() uint16 {
	b := d.take(2)
	if b == nil {
		return 0
	}

	return binary.BigEndian.Uint16(b)
}

func (d *decoder) u4() uint32 {
	b := d.take(4)
	if b == nil {
		return 0
	}

	return binary.BigEndian.Uint32(b)
}

func (d *decoder) bytes(n int) []byte {
	return d.take(n)
}

func (d *decoder) skip(n int) {
	d.take(n)
}
