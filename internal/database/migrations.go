package database

import (
	"log"
	"log/slog"

	"wayne-chat/internal/database/versions/migration_0"
	"wayne-chat/internal/database/versions/migration_1"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

func GetMigrator(db *gorm.DB) *gormigrate.Gormigrate {
	migrator := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID:       "0",
			Migrate:  migration_0.Migration,
			Rollback: migration_0.Rollback,
		},
		{
			ID:       "1",
			Migrate:  migration_1.Migration,
			Rollback: migration_1.Rollback,
		},
	})

	migrator.InitSchema(func(txn *gorm.DB) error {
		// This is run by the migrator if no previous migration is detected. It
		// allows it to bypass running all the migrations sequentially and just create
		// the latest database state.

		log.Println("clean database detected, running full schema initialization")

		dbType := txn.Dialector.Name()
		if dbType == "sqlite" || dbType == "sqlite3" {
			// WAL keeps readers from blocking on the single writer.
			if err := txn.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
				slog.Error("error enabling WAL journal for SQLite", "error", err)
			}
		}

		return txn.AutoMigrate(&KVEntry{})
	})

	return migrator
}
