package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultSessionFile is the name of the session file inside the config directory.
const DefaultSessionFile = "session.yaml"

// GetDefaultSessionPath returns the default location of the session file
// (e.g. ~/.config/chorify/session.yaml on Linux).
func GetDefaultSessionPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "chorify", DefaultSessionFile), nil
}

// FileStorage persists values as a flat YAML mapping. The whole file is
// rewritten on every change and is readable only by the owner.
type FileStorage struct {
	mu     sync.RWMutex
	path   string
	values map[string]string
}

// OpenFileStorage loads the file at path. A missing file is an empty storage.
func OpenFileStorage(path string) (*FileStorage, error) {
	if path == "" {
		return nil, errors.New("file path cannot be empty")
	}
	fs := &FileStorage{
		path:   path,
		values: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fs, nil
		}
		return nil, fmt.Errorf("unable to read session file: %w", err)
	}
	if err := yaml.Unmarshal(data, &fs.values); err != nil {
		return nil, fmt.Errorf("unable to parse session file: %w", err)
	}
	if fs.values == nil {
		fs.values = make(map[string]string)
	}

	// Older clients stored the token under a lower-case key.
	if legacy, ok := fs.values[legacyTokenKey]; ok {
		if _, exists := fs.values[TokenKey]; !exists {
			fs.values[TokenKey] = legacy
		}
		delete(fs.values, legacyTokenKey)
		if err := fs.flush(); err != nil {
			return nil, err
		}
	}
	return fs, nil
}

// Path returns the backing file path.
func (fs *FileStorage) Path() string {
	return fs.path
}

func (fs *FileStorage) Get(key string) (string, bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	v, ok := fs.values[key]
	return v, ok
}

func (fs *FileStorage) Set(key, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.values[key] = value
	return fs.flush()
}

func (fs *FileStorage) Remove(key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, ok := fs.values[key]; !ok {
		return nil
	}
	delete(fs.values, key)
	return fs.flush()
}

func (fs *FileStorage) flush() error {
	if err := os.MkdirAll(filepath.Dir(fs.path), 0o700); err != nil {
		return fmt.Errorf("unable to create session directory: %w", err)
	}
	data, err := yaml.Marshal(fs.values)
	if err != nil {
		return fmt.Errorf("unable to encode session: %w", err)
	}
	if err := os.WriteFile(fs.path, data, 0o600); err != nil {
		return fmt.Errorf("unable to write session file: %w", err)
	}
	return nil
}
