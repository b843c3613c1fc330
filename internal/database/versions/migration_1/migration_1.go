package migration_1

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type KVEntry struct {
	UpdatedAt time.Time
}

func (KVEntry) TableName() string {
	return "kv_entries"
}

func Migration(db *gorm.DB) error {
	if err := db.Migrator().AddColumn(&KVEntry{}, "UpdatedAt"); err != nil {
		return fmt.Errorf("error adding UpdatedAt column: %w", err)
	}

	if err := db.Model(&KVEntry{}).
		Where("updated_at IS NULL").
		Update("updated_at", time.Now().UTC()).Error; err != nil {
		return fmt.Errorf("error setting default value for UpdatedAt: %w", err)
	}

	return nil
}

func Rollback(db *gorm.DB) error {
	if err := db.Migrator().DropColumn(&KVEntry{}, "UpdatedAt"); err != nil {
		return fmt.Errorf("error dropping UpdatedAt column: %w", err)
	}
	return nil
}
