// Package flightstore resolves a flight log identifier to its telemetry
// snapshot. The file store expects one JSON snapshot document per log id
// under a data directory, produced by the upstream log decoder.
package flightstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"flightassist/internal/telemetry"
)

// ErrNotFound is returned when no snapshot exists for a log id.
var ErrNotFound = errors.New("flightstore: snapshot not found")

// Store resolves log identifiers to snapshots.
type Store interface {
	Resolve(ctx context.Context, logID string) (telemetry.Snapshot, error)
}

// FileStore reads snapshot documents from dir, caching decoded snapshots.
// Snapshots are immutable per flight so cached entries never go stale.
type FileStore struct {
	dir   string
	cache *lru.Cache[string, telemetry.Snapshot]
}

// NewFileStore creates a store over dir with an LRU decode cache of the
// given size (minimum 1).
func NewFileStore(dir string, cacheSize int) (*FileStore, error) {
	if cacheSize <= 0 {
		cacheSize = 128
	}
	cache, err := lru.New[string, telemetry.Snapshot](cacheSize)
	if err != nil {
		return nil, err
	}
	return &FileStore{dir: dir, cache: cache}, nil
}

func (s *FileStore) Resolve(ctx context.Context, logID string) (telemetry.Snapshot, error) {
	logID = strings.TrimSpace(logID)
	if logID == "" {
		return telemetry.Snapshot{}, ErrNotFound
	}
	if err := validateLogID(logID); err != nil {
		return telemetry.Snapshot{}, err
	}
	if snap, ok := s.cache.Get(logID); ok {
		return snap, nil
	}

	raw, err := os.ReadFile(filepath.Join(s.dir, logID+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return telemetry.Snapshot{}, ErrNotFound
		}
		return telemetry.Snapshot{}, fmt.Errorf("read snapshot %s: %w", logID, err)
	}

	var snap telemetry.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return telemetry.Snapshot{}, fmt.Errorf("decode snapshot %s: %w", logID, err)
	}
	if snap.LogID == "" {
		snap.LogID = logID
	}

	s.cache.Add(logID, snap)
	return snap, nil
}

// validateLogID rejects ids that could escape the data directory.
func validateLogID(logID string) error {
	if strings.ContainsAny(logID, `/\`) || strings.Contains(logID, "..") {
		return fmt.Errorf("flightstore: invalid log id %q", logID)
	}
	return nil
}
