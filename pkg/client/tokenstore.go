package client

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenStore holds the current access token. Set writes through to the
// backing storage, Get falls back to it when memory is empty, Clear removes
// both. Last write wins.
type TokenStore interface {
	Get() string
	Set(token string) error
	Clear() error
}

type MemoryStore struct {
	mu    sync.Mutex
	token string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *MemoryStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// FileStore persists the token in a file so a session survives process
// restarts.
type FileStore struct {
	mu     sync.Mutex
	path   string
	token  string
	loaded bool
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.token
	}
	s.loaded = true
	data, err := os.ReadFile(s.path)
	if err != nil {
		return ""
	}
	s.token = strings.TrimSpace(string(data))
	return s.token
}

func (s *FileStore) Set(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.loaded = true
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(token), 0o600)
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.loaded = true
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
