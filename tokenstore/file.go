package tokenstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps all portals' tokens in one JSON file. The file is rewritten
// in full on every save. A missing or unreadable file is treated as empty.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Save(_ context.Context, domain string, t Tokens) error {
	if err := checkDomain(domain); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	all := f.read()
	all[domain] = t.Merge(all[domain])

	data, err := json.MarshalIndent(all, "", "    ")
	if err != nil {
		return fmt.Errorf("encode tokens: %w", err)
	}

	// Write to a temp file first so a crash never leaves a truncated file.
	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp tokens file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write tokens: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close tokens file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace tokens file: %w", err)
	}
	return nil
}

func (f *FileStore) Load(_ context.Context, domain string) (Tokens, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	t, ok := f.read()[domain]
	if !ok {
		return Tokens{}, ErrNotFound
	}
	return t, nil
}

func (f *FileStore) read() map[string]Tokens {
	all := make(map[string]Tokens)

	data, err := os.ReadFile(f.path)
	if err != nil {
		return all
	}
	if err := json.Unmarshal(data, &all); err != nil {
		return make(map[string]Tokens)
	}
	return all
}
