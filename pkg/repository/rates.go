package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Ip-Tec/saze-logistics-sub000/pkg/models"
)

type RateConfigRepository struct {
	db *gorm.DB
}

func NewRateConfigRepository(db *gorm.DB) *RateConfigRepository {
	return &RateConfigRepository{db: db}
}

// GetLatest returns the most recently updated rate configuration, or
// (nil, nil) when none has been seeded yet.
func (r *RateConfigRepository) GetLatest(ctx context.Context) (*models.RateConfig, error) {
	var rc models.RateConfig
	err := r.db.WithContext(ctx).Order("updated_at DESC").First(&rc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rc, nil
}

// Save upserts a rate configuration row.
func (r *RateConfigRepository) Save(ctx context.Context, rc *models.RateConfig) error {
	return r.db.WithContext(ctx).Save(rc).Error
}
