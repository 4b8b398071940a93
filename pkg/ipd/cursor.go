package ipd

import "encoding/binary"

// cursor reads fixed-width values from a byte slice and tracks the absolute
// file offset of each read. Reads past the end fail with the cursor's short
// error kind: ErrTruncated for the file itself, ErrMalformed inside a record
// payload whose length was already declared.
type cursor struct {
	buf   []byte
	off   int
	base  int64
	stage Stage
	short error
}

func newCursor(buf []byte, base int64, stage Stage, short error) *cursor {
	return &cursor{buf: buf, base: base, stage: stage, short: short}
}

// pos returns the absolute offset of the next unread byte.
func (c *cursor) pos() int64 {
	return c.base + int64(c.off)
}

func (c *cursor) remaining() int {
	return len(c.buf) - c.off
}

func (c *cursor) take(n int, what string) ([]byte, error) {
	if n < 0 || n > c.remaining() {
		detail := "need %d bytes for %s, have %d"
		if c.short == ErrMalformed {
			return nil, malformed(c.stage, c.pos(), detail, n, what, c.remaining())
		}
		return nil, truncated(c.stage, c.pos(), detail, n, what, c.remaining())
	}
	b := c.buf[c.off : c.off+n : c.off+n]
	c.off += n
	return b, nil
}

func (c *cursor) skip(n int, what string) error {
	_, err := c.take(n, what)
	return err
}

func (c *cursor) u8(what string) (uint8, error) {
	b, err := c.take(1, what)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) u16LE(what string) (uint16, error) {
	b, err := c.take(2, what)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *cursor) i16BE(what string) (int16, error) {
	b, err := c.take(2, what)
	if err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(b)), nil
}

func (c *cursor) u32LE(what string) (uint32, error) {
	b, err := c.take(4, what)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}
