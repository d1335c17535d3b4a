package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/errors"
)

// FileStore keeps each board's state in <dir>/<key>.json.
type FileStore struct {
	mu  sync.RWMutex
	dir string
}

// NewFileStore creates a file store in dir, creating the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "file store needs a directory")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "create state dir %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStore) Load(ctx context.Context, key string) (*board.State, error) {
	if err := errors.ValidateBoardKey(key); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "read state %s", key)
	}

	var st board.State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "parse state %s", key)
	}
	return &st, nil
}

// Save writes through a temporary file and a rename so a crash never leaves
// a truncated state file.
func (s *FileStore) Save(ctx context.Context, key string, st board.State) error {
	if err := errors.ValidateBoardKey(key); err != nil {
		return err
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "marshal state %s", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "write state %s", key)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeStore, err, "write state %s", key)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeStore, err, "write state %s", key)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(errors.ErrCodeStore, err, "write state %s", key)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := errors.ValidateBoardKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeStore, err, "remove state %s", key)
	}
	return nil
}

func (s *FileStore) Name() string { return BackendFile }

func (s *FileStore) Close() error { return nil }

// Dir returns the directory holding state files.
func (s *FileStore) Dir() string { return s.dir }

var _ Store = (*FileStore)(nil)
