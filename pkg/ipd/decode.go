package ipd

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
)

// Decoder decodes IPD files. The zero value is not usable; use NewDecoder.
type Decoder struct {
	sugar   *zap.SugaredLogger
	maxSize int64
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger sets the logger used for stage progress at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Decoder) {
		if logger != nil {
			d.sugar = logger.Sugar()
		}
	}
}

// WithMaxSize limits the size of input the decoder will load into memory.
// Zero means no limit.
func WithMaxSize(n int64) Option {
	return func(d *Decoder) {
		d.maxSize = n
	}
}

// NewDecoder creates a decoder with the given options.
func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{sugar: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode reads r to the end and decodes it.
func Decode(r io.Reader) (*File, error) {
	return NewDecoder().Decode(r)
}

// DecodeBytes decodes an IPD file held in memory. The returned File keeps
// its own copy of the field data, so data may be reused afterwards.
func DecodeBytes(data []byte) (*File, error) {
	return NewDecoder().DecodeBytes(data)
}

// Open reads and decodes the IPD file at path.
func Open(path string) (*File, error) {
	return NewDecoder().Open(path)
}

// Open reads and decodes the IPD file at path.
func (d *Decoder) Open(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	f, err := d.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return f, nil
}

// Decode reads r to the end and decodes it.
func (d *Decoder) Decode(r io.Reader) (*File, error) {
	if d.maxSize > 0 {
		r = io.LimitReader(r, d.maxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return d.DecodeBytes(data)
}

// DecodeBytes decodes an IPD file held in memory. The returned File keeps
// its own copy of the field data, so data may be reused afterwards.
func (d *Decoder) DecodeBytes(data []byte) (*File, error) {
	if d.maxSize > 0 && int64(len(data)) > d.maxSize {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrTooLarge, d.maxSize)
	}

	c := newCursor(data, 0, StageHeader, ErrTruncated)

	h, err := readHeader(c)
	if err != nil {
		return nil, err
	}
	d.sugar.Debugw("read header", "version", h.version, "databases", h.databases)

	names, err := readNameTable(c, h.databases)
	if err != nil {
		return nil, err
	}
	d.sugar.Debugw("read name table", "names", names, "offset", c.pos())

	f := newFile(h.version, names)
	if err := readRecords(c, f, d.sugar); err != nil {
		return nil, err
	}
	d.sugar.Debugw("decoded file", "bytes", len(data), "records", f.RecordCount())

	return f, nil
}
