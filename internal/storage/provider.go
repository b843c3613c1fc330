package storage

import "errors"

var (
	ErrNotFound          = errors.New("key not found")
	ErrStorageCorruption = errors.New("stored value is corrupted")
)

// Provider is a durable key/value store holding raw bytes. Get returns
// ErrNotFound for absent keys and Delete of an absent key is a no-op.
type Provider interface {
	Get(key string) ([]byte, error)

	Put(key string, value []byte) error

	Delete(key string) error

	Close() error
}
