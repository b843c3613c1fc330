package storage

import (
	"fmt"
	"path/filepath"

	"wayne-chat/internal/database"
)

const (
	BackendMemory = "memory"
	BackendLocal  = "local"
	BackendSQLite = "sqlite"
	BackendPebble = "pebble"
)

// OpenProvider opens the named backend rooted at dataDir.
func OpenProvider(backend, dataDir string) (Provider, error) {
	switch backend {
	case BackendMemory:
		return NewMemoryProvider(), nil
	case BackendLocal:
		return NewLocalProvider(filepath.Join(dataDir, "kv"))
	case BackendSQLite, "":
		db, err := database.NewDatabase(filepath.Join(dataDir, "db", "wayne-chat.db"))
		if err != nil {
			return nil, err
		}
		return NewSQLProvider(db), nil
	case BackendPebble:
		return NewPebbleProvider(filepath.Join(dataDir, "pebble"))
	default:
		return nil, fmt.Errorf("unknown storage backend '%s'", backend)
	}
}
