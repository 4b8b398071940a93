package ipd

// PrologueSize is the number of opaque bytes at the start of every IPD file.
const PrologueSize = 38

// HeaderSize is the size of the fixed header preceding the name table.
const HeaderSize = PrologueSize + 4

type header struct {
	version   uint8
	databases int
}

// readHeader skips the prologue and reads the database version and count.
func readHeader(c *cursor) (header, error) {
	c.stage = StageHeader

	if err := c.skip(PrologueSize, "prologue"); err != nil {
		return header{}, err
	}

	version, err := c.u8("database version")
	if err != nil {
		return header{}, err
	}

	// The count is the only big-endian integer in the format.
	at := c.pos()
	count, err := c.i16BE("database count")
	if err != nil {
		return header{}, err
	}
	if count < 0 {
		return header{}, malformed(StageHeader, at, "negative database count %d", count)
	}

	if err := c.skip(1, "reserved byte"); err != nil {
		return header{}, err
	}

	return header{version: version, databases: int(count)}, nil
}
