// Package archive keeps imported IPD backups in a pebble database so they can
// be listed, re-decoded and served without the original files.
//
// Each import is stored under three keys:
//
//	snap/<ksuid>     JSON snapshot metadata
//	blob/<ksuid>     s2-compressed file bytes
//	digest/<blake3>  snapshot id, used to skip duplicate imports
package archive

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/klauspost/compress/s2"
	"github.com/segmentio/ksuid"
	"github.com/zeebo/blake3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ssargent/ipd/pkg/ipd"
)

// ErrSnapshotNotFound is returned for ids that are not in the archive.
var ErrSnapshotNotFound = errors.New("snapshot not found")

const (
	snapPrefix   = "snap/"
	blobPrefix   = "blob/"
	digestPrefix = "digest/"
)

// DatabaseSummary describes one database of an archived file.
type DatabaseSummary struct {
	Name    string `json:"name"`
	Records int    `json:"records"`
}

// Snapshot is the metadata kept for an archived file.
type Snapshot struct {
	ID         string            `json:"id"`
	Source     string            `json:"source"`
	Digest     string            `json:"digest"`
	Size       int64             `json:"size"`
	Version    uint8             `json:"version"`
	Databases  []DatabaseSummary `json:"databases"`
	ImportedAt time.Time         `json:"imported_at"`

	// Existing is set by Import when identical content was already archived.
	Existing bool `json:"-"`
}

// Store is a pebble-backed snapshot archive. It is safe for concurrent use.
type Store struct {
	db      *pebble.DB
	decoder *ipd.Decoder
	logger  *zap.Logger

	// serialises Import and Delete so digest entries stay consistent
	mu sync.Mutex
}

// Open opens or creates the archive in dir. Decoder options apply to every
// import and load.
func Open(dir string, logger *zap.Logger, opts ...ipd.Option) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// pebble reports every flush and compaction at info
	pebbleLogger := logger.Named("pebble")
	if pebbleLogger.Core().Enabled(zapcore.InfoLevel) {
		pebbleLogger = pebbleLogger.WithOptions(zap.IncreaseLevel(zapcore.WarnLevel))
	}

	db, err := pebble.Open(dir, &pebble.Options{Logger: pebbleLogger.Sugar()})
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", dir, err)
	}

	opts = append([]ipd.Option{ipd.WithLogger(logger)}, opts...)
	return &Store{
		db:      db,
		decoder: ipd.NewDecoder(opts...),
		logger:  logger,
	}, nil
}

// Import decodes data and archives it. Files that fail to decode are not
// stored. Importing content that is already archived returns the existing
// snapshot with Existing set.
func (s *Store) Import(source string, data []byte) (*Snapshot, error) {
	file, err := s.decoder.DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("import %s: %w", source, err)
	}

	sum := blake3.Sum256(data)
	digest := hex.EncodeToString(sum[:])

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.get(digestKey(digest))
	switch {
	case err == nil:
		snap, err := s.Get(string(existing))
		if err != nil {
			return nil, err
		}
		snap.Existing = true
		s.logger.Info("snapshot already archived", zap.String("id", snap.ID), zap.String("source", source))
		return snap, nil
	case !errors.Is(err, pebble.ErrNotFound):
		return nil, fmt.Errorf("failed to look up digest: %w", err)
	}

	snap := &Snapshot{
		ID:         ksuid.New().String(),
		Source:     source,
		Digest:     digest,
		Size:       int64(len(data)),
		Version:    file.Version(),
		Databases:  make([]DatabaseSummary, 0, file.Len()),
		ImportedAt: time.Now().UTC(),
	}
	for _, db := range file.Databases() {
		snap.Databases = append(snap.Databases, DatabaseSummary{Name: db.Name(), Records: db.Len()})
	}

	meta, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	batch := s.db.NewBatch()
	defer batch.Close()
	if err := batch.Set(snapKey(snap.ID), meta, nil); err != nil {
		return nil, err
	}
	if err := batch.Set(blobKey(snap.ID), s2.Encode(nil, data), nil); err != nil {
		return nil, err
	}
	if err := batch.Set(digestKey(digest), []byte(snap.ID), nil); err != nil {
		return nil, err
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return nil, fmt.Errorf("failed to store snapshot: %w", err)
	}

	s.logger.Info("snapshot archived",
		zap.String("id", snap.ID),
		zap.String("source", source),
		zap.Int64("size", snap.Size),
		zap.Int("databases", len(snap.Databases)),
	)
	return snap, nil
}

// List returns all snapshots, oldest first.
func (s *Store) List() ([]*Snapshot, error) {
	iter, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(snapPrefix),
		UpperBound: prefixEnd(snapPrefix),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	snaps := []*Snapshot{}
	for iter.First(); iter.Valid(); iter.Next() {
		var snap Snapshot
		if err := json.Unmarshal(iter.Value(), &snap); err != nil {
			return nil, fmt.Errorf("corrupt snapshot %s: %w", iter.Key(), err)
		}
		snaps = append(snaps, &snap)
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return snaps, nil
}

// Get returns the metadata of a snapshot.
func (s *Store) Get(id string) (*Snapshot, error) {
	if _, err := ksuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}

	meta, err := s.get(snapKey(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal(meta, &snap); err != nil {
		return nil, fmt.Errorf("corrupt snapshot %s: %w", id, err)
	}
	return &snap, nil
}

// Raw returns the original bytes of a snapshot.
func (s *Store) Raw(id string) ([]byte, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}

	blob, err := s.get(blobKey(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	data, err := s2.Decode(nil, blob)
	if err != nil {
		return nil, fmt.Errorf("corrupt blob %s: %w", id, err)
	}
	return data, nil
}

// Load decodes an archived snapshot.
func (s *Store) Load(id string) (*ipd.File, error) {
	data, err := s.Raw(id)
	if err != nil {
		return nil, err
	}
	file, err := s.decoder.DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", id, err)
	}
	return file, nil
}

// Delete removes a snapshot and its content.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.Get(id)
	if err != nil {
		return err
	}

	batch := s.db.NewBatch()
	defer batch.Close()
	for _, key := range [][]byte{snapKey(id), blobKey(id), digestKey(snap.Digest)} {
		if err := batch.Delete(key, nil); err != nil {
			return err
		}
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	s.logger.Info("snapshot deleted", zap.String("id", id))
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) get(key []byte) ([]byte, error) {
	val, closer, err := s.db.Get(key)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	return bytes.Clone(val), nil
}

func snapKey(id string) []byte       { return []byte(snapPrefix + id) }
func blobKey(id string) []byte       { return []byte(blobPrefix + id) }
func digestKey(digest string) []byte { return []byte(digestPrefix + digest) }

// prefixEnd returns the smallest key greater than every key with prefix.
func prefixEnd(prefix string) []byte {
	end := []byte(prefix)
	end[len(end)-1]++
	return end
}
