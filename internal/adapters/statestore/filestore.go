package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	logger "github.com/classpick/classpick/pkg/logger"
)

const defaultFileMode = 0o600

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithFileMode sets the permissions used for the state file.
func WithFileMode(mode os.FileMode) Option {
	return func(s *FileStore) {
		if mode != 0 {
			s.mode = mode
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(s *FileStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// FileStore persists the state as a single JSON file. Writes go through a
// temp file in the same directory followed by a rename, so a crash mid-save
// never leaves a truncated blob behind.
type FileStore struct {
	mu     sync.Mutex
	path   string
	mode   os.FileMode
	logger logger.Logger
}

// NewFileStore creates a store writing to path.
func NewFileStore(path string, opts ...Option) (*FileStore, error) {
	if path == "" {
		return nil, ErrNoPath
	}
	s := &FileStore{
		path:   path,
		mode:   defaultFileMode,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Save implements Store.
func (s *FileStore) Save(ctx context.Context, state State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncodeState, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteState, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWriteState, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWriteState, err)
	}
	if err := os.Chmod(tmpName, s.mode); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWriteState, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrWriteState, err)
	}

	s.logger.Debug(ctx, "state saved",
		logger.String("path", s.path),
		logger.Int("bytes", len(data)),
	)
	return nil
}

// Load implements Store.
func (s *FileStore) Load(ctx context.Context) (State, bool, error) {
	s.mu.Lock()
	data, err := os.ReadFile(s.path)
	s.mu.Unlock()

	if errors.Is(err, os.ErrNotExist) {
		return State{}, false, nil
	}
	if err != nil {
		return State{}, false, fmt.Errorf("%w: %v", ErrReadState, err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, false, fmt.Errorf("%w: %v", ErrDecodeState, err)
	}

	s.logger.Debug(ctx, "state loaded",
		logger.String("path", s.path),
		logger.Int("names", len(state.Names)),
		logger.Int("history", len(state.History)),
	)
	return state, true, nil
}
