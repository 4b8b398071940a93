package api

import (
	"github.com/ssargent/ipd/pkg/archive"
	"github.com/ssargent/ipd/pkg/interp"
	"github.com/ssargent/ipd/pkg/ipd"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// DatabaseInfo describes one database of a snapshot.
type DatabaseInfo struct {
	Name    string `json:"name"`
	Index   int    `json:"index"`
	Records int    `json:"records"`
}

// RecordsResponse is returned by the records endpoint.
type RecordsResponse struct {
	Database string              `json:"database"`
	Count    int                 `json:"count"`
	Records  []interp.RecordView `json:"records"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Bind   string
	Port   int
	APIKey string // empty disables authentication
}

// SnapshotStore is the part of the archive the API reads from.
type SnapshotStore interface {
	List() ([]*archive.Snapshot, error)
	Get(id string) (*archive.Snapshot, error)
	Load(id string) (*ipd.File, error)
}
