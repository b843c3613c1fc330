package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// Store wraps a Provider with value encoding. Reads never fail: an absent or
// unparseable value is reported as missing so callers fall back to their
// defaults on first run or after corruption.
type Store struct {
	provider Provider
}

func NewStore(provider Provider) *Store {
	return &Store{provider: provider}
}

// Lookup decodes the JSON value under key into v. It returns ErrNotFound if
// the key is absent and ErrStorageCorruption if the value cannot be parsed.
// Provider failures are returned as is: a failed read says nothing about the
// stored value, so callers must not overwrite it.
func (s *Store) Lookup(key string, v any) error {
	data, err := s.provider.Get(key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("error reading key %q: %w", key, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: key %q: %v", ErrStorageCorruption, key, err)
	}
	return nil
}

// Read is Lookup with failures treated as absence.
func (s *Store) Read(key string, v any) bool {
	err := s.Lookup(key, v)
	if err == nil {
		return true
	}
	if !errors.Is(err, ErrNotFound) {
		slog.Warn("discarding unreadable stored value", "key", key, "error", err)
	}
	return false
}

func (s *Store) Write(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("error encoding value for key %q: %w", key, err)
	}
	if err := s.provider.Put(key, data); err != nil {
		return fmt.Errorf("error writing key %q: %w", key, err)
	}
	return nil
}

func (s *Store) ReadString(key string) (string, bool) {
	value, err := s.LookupString(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Warn("unable to read stored value", "key", key, "error", err)
		}
		return "", false
	}
	return value, true
}

// LookupString returns the plain string under key, ErrNotFound if it is
// absent, or the provider's read error.
func (s *Store) LookupString(key string) (string, error) {
	data, err := s.provider.Get(key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("error reading key %q: %w", key, err)
	}
	return string(data), nil
}

func (s *Store) WriteString(key, value string) error {
	if err := s.provider.Put(key, []byte(value)); err != nil {
		return fmt.Errorf("error writing key %q: %w", key, err)
	}
	return nil
}

func (s *Store) Remove(key string) error {
	if err := s.provider.Delete(key); err != nil {
		return fmt.Errorf("error removing key %q: %w", key, err)
	}
	return nil
}
