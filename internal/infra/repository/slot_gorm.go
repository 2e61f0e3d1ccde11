package repository

import (
	"context"
	"errors"
	"time"

	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 1スロット＝1行
type slotRow struct {
	Key       string    `gorm:"column:slot_key;primaryKey;type:varchar(255)"`
	Value     []byte    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (slotRow) TableName() string {
	return "storefront_slots"
}

type SlotGormStore struct {
	db *gorm.DB
}

// DI
func NewSlotGormStore(db *gorm.DB) *SlotGormStore {
	return &SlotGormStore{db: db}
}

// テーブルを用意する
func (s *SlotGormStore) Migrate() error {
	return s.db.AutoMigrate(&slotRow{})
}

func (s *SlotGormStore) Get(ctx context.Context, key string) ([]byte, error) {
	var row slotRow

	err := s.db.WithContext(ctx).
		Where("slot_key = ?", key).
		First(&row).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.Value, nil
}

// 値を丸ごと置き換える（無ければ作る）
func (s *SlotGormStore) Set(ctx context.Context, key string, value []byte) error {
	row := slotRow{Key: key, Value: value, UpdatedAt: time.Now()}

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slot_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&row).Error
}

func (s *SlotGormStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).
		Where("slot_key = ?", key).
		Delete(&slotRow{}).Error
}
