package store

import (
	"errors"

	"github.com/qrtable/tableside/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVEntry adalah satu baris key/value di tabel kv_entries.
type KVEntry struct {
	Key   string `gorm:"primaryKey;type:varchar(191)"`
	Value string `gorm:"type:text"`
}

// GormStore menyimpan key/value di SQLite lewat GORM. Ini padanan durable
// dari localStorage untuk agent yang jalan di kiosk meja.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&KVEntry{}); err != nil {
		return nil, err
	}
	return &GormStore{DB: db}, nil
}

func (g *GormStore) Get(key string) (string, bool) {
	var entry KVEntry
	if err := g.DB.First(&entry, "key = ?", key).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.ErrorLogger.Printf("Error reading key %s: %v", key, err)
		}
		return "", false
	}
	return entry.Value, true
}

func (g *GormStore) Set(key, value string) {
	entry := KVEntry{Key: key, Value: value}
	if err := g.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&entry).Error; err != nil {
		utils.ErrorLogger.Printf("Error writing key %s: %v", key, err)
	}
}

func (g *GormStore) Remove(key string) {
	if err := g.DB.Delete(&KVEntry{}, "key = ?", key).Error; err != nil {
		utils.ErrorLogger.Printf("Error removing key %s: %v", key, err)
	}
}
