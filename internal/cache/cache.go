// Package cache stores completed extraction results on disk, keyed by
// the uploaded file's SHA-256 hash, so re-uploading the same PDF skips
// the extraction round-trip.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/blockview/blockview/internal/marker"
)

// Store is a file-backed JSON cache with TTL expiry on modification time.
type Store struct {
	dir string
	ttl time.Duration
}

func NewStore(dir string, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{dir: dir, ttl: ttl}, nil
}

func (s *Store) path(hash string) string {
	return filepath.Join(s.dir, hash+".json")
}

// Get returns the cached result for a content hash, or false when absent
// or expired. Unreadable entries are treated as misses.
func (s *Store) Get(hash string) (*marker.Result, bool) {
	p := s.path(hash)
	info, err := os.Stat(p)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) > s.ttl {
		os.Remove(p)
		return nil, false
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	var res marker.Result
	if err := json.Unmarshal(data, &res); err != nil {
		os.Remove(p)
		return nil, false
	}
	return &res, true
}

// Put stores a result under the content hash. The write is staged to a
// temp file and renamed so readers never see a partial entry.
func (s *Store) Put(hash string, res *marker.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, hash+".tmp-*")
	if err != nil {
		return fmt.Errorf("create cache temp: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close cache temp: %w", err)
	}
	if err := os.Rename(tmpPath, s.path(hash)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename cache entry: %w", err)
	}
	return nil
}

// Cleanup removes expired entries and returns how many were deleted.
func (s *Store) Cleanup() int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0
	}
	removed := 0
	cutoff := time.Now().Add(-s.ttl)
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if os.Remove(filepath.Join(s.dir, e.Name())) == nil {
				removed++
			}
		}
	}
	return removed
}
