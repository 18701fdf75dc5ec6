package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"agrimart/internal/model"
)

// Store persists cart lines between sessions. The manager writes through
// on every mutation and loads once at construction.
type Store interface {
	Load() ([]model.CartLine, error)
	Save(lines []model.CartLine) error
}

// MemoryStore keeps the cart for the lifetime of the process only, matching
// a cart that does not survive a reload.
type MemoryStore struct {
	lines []model.CartLine
}

// NewMemoryStore creates an empty in-process cart store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() ([]model.CartLine, error) {
	return s.lines, nil
}

func (s *MemoryStore) Save(lines []model.CartLine) error {
	s.lines = lines
	return nil
}

// FileStore persists cart lines to a JSON file so the cart survives a
// restart.
type FileStore struct {
	path string
}

const cartFile = "cart.json"

// NewFileStore creates a file-backed cart store under dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	return &FileStore{path: filepath.Join(dir, cartFile)}, nil
}

func (s *FileStore) Load() ([]model.CartLine, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cart file: %w", err)
	}

	var lines []model.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("decode cart file: %w", err)
	}
	return lines, nil
}

func (s *FileStore) Save(lines []model.CartLine) error {
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("write cart file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace cart file: %w", err)
	}
	return nil
}
