package database

import "time"

// KVEntry is one key of the durable key/value store. Values are opaque text;
// the storage layer decides how they are encoded.
type KVEntry struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
