package ipd

import (
	"math"
	"unicode/utf8"
)

// readNameTable reads count length-prefixed, NUL-terminated database names.
// The returned slice is in declaration order, which is the order record
// database references index into.
func readNameTable(c *cursor, count int) ([]string, error) {
	c.stage = StageNameTable

	names := make([]string, 0, count)
	seen := make(map[string]int, count)

	for i := 0; i < count; i++ {
		at := c.pos()
		length, err := c.u16LE("name length")
		if err != nil {
			return nil, err
		}
		// The length is signed on disk and includes the terminator.
		if length == 0 || length > math.MaxInt16 {
			return nil, malformed(StageNameTable, at, "invalid length %d for database name %d", int16(length), i)
		}

		raw, err := c.take(int(length), "database name")
		if err != nil {
			return nil, err
		}
		text := raw[:len(raw)-1]
		if !utf8.Valid(text) {
			return nil, malformed(StageNameTable, at+2, "database name %d is not valid UTF-8", i)
		}

		name := string(text)
		if prev, ok := seen[name]; ok {
			return nil, malformed(StageNameTable, at, "database name %q declared at %d and %d", name, prev, i)
		}
		seen[name] = i
		names = append(names, name)
	}

	return names, nil
}
