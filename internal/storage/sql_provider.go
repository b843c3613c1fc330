package storage

import (
	"errors"
	"sync"
	"time"

	"wayne-chat/internal/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLProvider stores each key as a row of the kv_entries table.
type SQLProvider struct {
	// SQLite only supports one writer at a time, so we need a lock
	// whenever we write to the database
	mu sync.Mutex
	db *gorm.DB
}

func NewSQLProvider(db *gorm.DB) *SQLProvider {
	return &SQLProvider{db: db}
}

func (p *SQLProvider) Get(key string) ([]byte, error) {
	var entry database.KVEntry
	err := p.db.Where(&database.KVEntry{Key: key}).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(entry.Value), nil
}

func (p *SQLProvider) Put(key string, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry := database.KVEntry{Key: key, Value: string(value), UpdatedAt: time.Now().UTC()}
	return p.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (p *SQLProvider) Delete(key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.db.Where(&database.KVEntry{Key: key}).Delete(&database.KVEntry{}).Error
}

func (p *SQLProvider) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
