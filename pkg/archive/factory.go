package archive

import (
	"go.uber.org/zap"

	"github.com/ssargent/ipd/pkg/ipd"
)

// Factory opens archives
type Factory interface {
	OpenArchive(dir string, logger *zap.Logger, opts ...ipd.Option) (*Store, error)
}

// DefaultFactory opens pebble archives on disk
type DefaultFactory struct{}

// NewFactory creates a new archive factory
func NewFactory() Factory {
	return &DefaultFactory{}
}

// OpenArchive opens or creates the archive in dir
func (f *DefaultFactory) OpenArchive(dir string, logger *zap.Logger, opts ...ipd.Option) (*Store, error) {
	return Open(dir, logger, opts...)
}
