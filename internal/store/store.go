package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
)

// Store reads and writes TOML records under a single data directory.
// Keys are slash-separated paths relative to that directory.
type Store struct {
	root string
	log  zerolog.Logger
}

// DecodeError is returned when a resource exists but cannot be decoded
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// New opens a store rooted at dir, creating the directory if needed
func New(dir string, log zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Store{
		root: dir,
		log:  log.With().Str("component", "store").Logger(),
	}

	s.log.Info().Str("root", dir).Msg("Data store opened")

	return s, nil
}

// Root returns the data directory
func (s *Store) Root() string {
	return s.root
}

// Path resolves a key to its file path
func (s *Store) Path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

// Read decodes the record stored under key. A missing or empty resource
// yields the zero value of T.
func Read[T any](s *Store, key string) (T, error) {
	var v T

	data, err := os.ReadFile(s.Path(key))
	if errors.Is(err, os.ErrNotExist) {
		return v, nil
	}
	if err != nil {
		return v, fmt.Errorf("read %s: %w", key, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return v, nil
	}

	if err := toml.Unmarshal(data, &v); err != nil {
		return v, &DecodeError{Key: key, Err: err}
	}
	return v, nil
}

// Write replaces the full contents of key with the encoded record
func Write[T any](s *Store, key string, v T) error {
	data, err := encode(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.replace(key, data)
}

// WriteEmpty replaces the contents of key with an empty resource
func (s *Store) WriteEmpty(key string) error {
	return s.replace(key, nil)
}

// Append encodes v and appends it to key without touching prior content.
// The encoded block must be self-delimiting (a TOML array-of-tables entry)
// so that concatenated appends decode as one record.
func Append[T any](s *Store, key string, v T) error {
	data, err := encode(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	path := s.Path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create parent of %s: %w", key, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("open %s: %w", key, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("append %s: %w", key, err)
	}
	return f.Close()
}

func (s *Store) replace(key string, data []byte) error {
	path := s.Path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create parent of %s: %w", key, err)
	}
	if err := renameio.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}

	s.log.Debug().Str("key", key).Int("bytes", len(data)).Msg("Resource replaced")
	return nil
}

func encode(v any) ([]byte, error) {
	data, err := toml.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return data, nil
}
