// Package localstore implements repository.Store as one JSON file per key in
// a state directory. Writes go through a temp file and rename so a crash
// mid-write leaves the old entry intact; nothing here merges or patches, the
// last writer wins.
package localstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

type store struct {
	dir    string
	logger *zap.Logger
}

// New creates a file-backed store rooted at dir
func New(dir string, logger *zap.Logger) (*store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &store{dir: dir, logger: logger}, nil
}

// sanitize keeps path separators out of file names. Keys are well-known
// config values, but keep traversal out anyway.
func sanitize(key string) string {
	return strings.ReplaceAll(key, string(os.PathSeparator), "_")
}

func (s *store) path(key string) string {
	return filepath.Join(s.dir, sanitize(key)+".json")
}

func (s *store) Get(key string, out interface{}) bool {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Debug("Failed to read store entry", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		// Corrupt persisted state resets silently; log for diagnostics only
		s.logger.Warn("Corrupt store entry, treating as empty", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *store) Put(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, sanitize(key)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path(key))
}

func (s *store) Delete(key string) error {
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
