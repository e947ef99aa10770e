package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"canvas-studio-be/pkg/storage"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StateBlob is the row layout for persisted state envelopes. The value stays
// an opaque JSON blob; eviction ordering is read out of the envelope by the
// bounded layer, not out of a column.
type StateBlob struct {
	Key       string         `gorm:"primaryKey;column:key"`
	Value     datatypes.JSON `gorm:"column:value"`
	UpdatedAt time.Time
}

func (StateBlob) TableName() string { return "canvas_state_blobs" }

// Backend stores blobs in Postgres. Survives service restarts, unlike the
// memory backend, and shares nothing with Redis.
type Backend struct {
	db *gorm.DB
}

func NewBackend(db *gorm.DB) (*Backend, error) {
	if err := db.AutoMigrate(&StateBlob{}); err != nil {
		return nil, fmt.Errorf("migrate state blobs: %w", err)
	}
	return &Backend{db: db}, nil
}

var _ storage.Backend = (*Backend)(nil)

func (b *Backend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var row StateBlob
	err := b.db.WithContext(ctx).First(&row, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("postgres get %q: %w", key, err)
	}
	return []byte(row.Value), true, nil
}

func (b *Backend) Set(ctx context.Context, key string, value []byte) error {
	row := StateBlob{Key: key, Value: datatypes.JSON(value), UpdatedAt: time.Now()}
	err := b.db.WithContext(ctx).Save(&row).Error
	if err != nil {
		return fmt.Errorf("postgres set %q: %w", key, err)
	}
	return nil
}

func (b *Backend) Remove(ctx context.Context, key string) error {
	err := b.db.WithContext(ctx).Delete(&StateBlob{}, "key = ?", key).Error
	if err != nil {
		return fmt.Errorf("postgres delete %q: %w", key, err)
	}
	return nil
}

func (b *Backend) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := b.db.WithContext(ctx).Model(&StateBlob{}).Pluck("key", &keys).Error
	if err != nil {
		return nil, fmt.Errorf("postgres keys: %w", err)
	}
	return keys, nil
}
