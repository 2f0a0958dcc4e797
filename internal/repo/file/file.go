package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hamed0406/availwatch/internal/domain"
	"github.com/hamed0406/availwatch/internal/repo"
)

// Store persists the snapshot as a JSON array of records at Path.
type Store struct {
	Path string
}

func New(path string) *Store {
	return &Store{Path: path}
}

func (s *Store) Load(ctx context.Context) (*domain.Snapshot, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", domain.ErrStorageUnavailable, s.Path, err)
	}

	// Unmarshal rejects trailing bytes after the array.
	var rs domain.ResultSet
	if err := json.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", domain.ErrStorageUnavailable, s.Path, err)
	}

	snap := &domain.Snapshot{Results: rs}
	if fi, err := os.Stat(s.Path); err == nil {
		snap.SavedAt = fi.ModTime().UTC()
	}
	return snap, nil
}

// Save writes to a temp file next to Path and renames it over Path.
func (s *Store) Save(ctx context.Context, rs domain.ResultSet) error {
	data, err := json.Marshal(repo.Normalize(rs))
	if err != nil {
		return fmt.Errorf("%w: encode: %w", domain.ErrStorageWriteFailed, err)
	}

	dir := filepath.Dir(s.Path)
	// MkdirAll treats an existing directory as success, which also covers
	// a concurrent creator winning the race.
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: mkdir %s: %w", domain.ErrStorageWriteFailed, dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp: %w", domain.ErrStorageWriteFailed, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write temp: %w", domain.ErrStorageWriteFailed, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: sync temp: %w", domain.ErrStorageWriteFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close temp: %w", domain.ErrStorageWriteFailed, err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		return fmt.Errorf("%w: rename: %w", domain.ErrStorageWriteFailed, err)
	}
	committed = true
	return nil
}
