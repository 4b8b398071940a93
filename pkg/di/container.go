// Package di provides dependency injection container
package di

import (
	"github.com/ssargent/ipd/pkg/api"     //nolint:depguard
	"github.com/ssargent/ipd/pkg/archive" //nolint:depguard
)

// Container holds all the dependencies for the application
type Container struct {
	archiveFactory archive.Factory
	serverFactory  api.ServerFactory
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		archiveFactory: archive.NewFactory(),
		serverFactory:  api.NewServerFactory(),
	}
}

// GetArchiveFactory returns the archive factory
func (c *Container) GetArchiveFactory() archive.Factory {
	return c.archiveFactory
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// SetArchiveFactory allows overriding the archive factory (for testing)
func (c *Container) SetArchiveFactory(factory archive.Factory) {
	c.archiveFactory = factory
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}
