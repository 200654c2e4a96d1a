package blobstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xelth-com/zapstock/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Postgres stores snapshots as jsonb rows in the snapshots table
type Postgres struct {
	db *gorm.DB
}

// NewPostgres migrates the snapshots table and returns a store backed by it
func NewPostgres(db *gorm.DB) (*Postgres, error) {
	if err := db.AutoMigrate(&models.Snapshot{}); err != nil {
		return nil, fmt.Errorf("failed to migrate snapshots table: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	var snap models.Snapshot
	err := p.db.WithContext(ctx).Where("key = ?", key).First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", key, err)
	}
	return []byte(snap.Data), nil
}

// Put upserts every entry inside a single transaction
func (p *Postgres) Put(ctx context.Context, entries map[string][]byte) error {
	now := time.Now().UTC()
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, data := range entries {
			snap := models.Snapshot{Key: key, Data: datatypes.JSON(data), UpdatedAt: now}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
			}).Create(&snap).Error
			if err != nil {
				return fmt.Errorf("failed to write snapshot %s: %w", key, err)
			}
		}
		return nil
	})
}

// Close is a no-op; the connection belongs to database.DB
func (p *Postgres) Close() error { return nil }
