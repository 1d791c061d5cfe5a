package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Ip-Tec/saze-logistics-sub000/pkg/models"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByID returns (nil, nil) when no profile exists.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// UpsertRider creates or updates a rider profile. The role column is
// always forced to "rider" so a mislabeled payload cannot demote or
// promote an existing profile.
func (r *ProfileRepository) UpsertRider(ctx context.Context, p *models.Profile) error {
	p.Role = "rider"
	if p.ID == "" {
		p.ID = uuid.New().String()
		p.CreatedAt = time.Now()
	}
	p.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(p).Error
}

// ListByRole returns profiles with the given role, newest first.
func (r *ProfileRepository) ListByRole(ctx context.Context, role string, limit int) ([]models.Profile, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var out []models.Profile
	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// IsRider reports whether the profile exists and carries the rider role.
// The schema cannot express this invariant, so assignment paths check it
// here.
func (r *ProfileRepository) IsRider(ctx context.Context, id string) (bool, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return p != nil && p.Role == "rider", nil
}
