package storage

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/cockroachdb/pebble"
)

type PebbleProvider struct {
	db *pebble.DB
}

// NewPebbleProvider opens (or creates) a pebble database at path.
func NewPebbleProvider(path string) (*PebbleProvider, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("error opening pebble db at %s: %w", path, err)
	}
	slog.Info("pebble opened", "path", path)
	return &PebbleProvider{db: db}, nil
}

func (p *PebbleProvider) Get(key string) ([]byte, error) {
	value, closer, err := p.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	// value is only valid until closer is closed.
	return append([]byte(nil), value...), nil
}

func (p *PebbleProvider) Put(key string, value []byte) error {
	return p.db.Set([]byte(key), value, pebble.Sync)
}

func (p *PebbleProvider) Delete(key string) error {
	return p.db.Delete([]byte(key), pebble.Sync)
}

func (p *PebbleProvider) Close() error {
	return p.db.Close()
}
