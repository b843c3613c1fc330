package migration_0

import (
	"fmt"

	"gorm.io/gorm"
)

type KVEntry struct {
	Key   string `gorm:"primaryKey"`
	Value string `gorm:"not null"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}

func Migration(db *gorm.DB) error {
	if err := db.Migrator().CreateTable(&KVEntry{}); err != nil {
		return fmt.Errorf("error creating kv_entries table: %w", err)
	}
	return nil
}

func Rollback(db *gorm.DB) error {
	if err := db.Migrator().DropTable(&KVEntry{}); err != nil {
		return fmt.Errorf("error dropping kv_entries table: %w", err)
	}
	return nil
}
