// Package api provides interfaces for dependency injection
package api

import (
	"context"

	"go.uber.org/zap"

	"github.com/ssargent/ipd/pkg/interp"
)

// ServerStarter defines the interface for starting the API server
type ServerStarter interface {
	// StartServer serves store until ctx is cancelled
	StartServer(ctx context.Context, store SnapshotStore, registry *interp.Registry, config ServerConfig, logger *zap.Logger) error
}

// ServerFactory creates server instances
type ServerFactory interface {
	// CreateServerStarter creates a server starter
	CreateServerStarter() ServerStarter
}
