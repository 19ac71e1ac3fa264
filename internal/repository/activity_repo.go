package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/widya-labs/pustaka-api/internal/models"
)

// ActivityRepository provides read access to the activity catalogue plus
// an idempotent seeding path.
type ActivityRepository interface {
	ListActive(ctx context.Context) ([]models.Activity, error)
	GetActiveByIDs(ctx context.Context, ids []uint) ([]models.Activity, error)
	SeedDefaults(ctx context.Context, activities []models.Activity) (int64, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository constructs an activity repository.
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) ListActive(ctx context.Context) ([]models.Activity, error) {
	var activities []models.Activity
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order ASC, name ASC").
		Find(&activities).Error
	return activities, err
}

func (r *activityRepository) GetActiveByIDs(ctx context.Context, ids []uint) ([]models.Activity, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var activities []models.Activity
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Where("is_active = ?", true).
		Find(&activities).Error
	return activities, err
}

func (r *activityRepository) SeedDefaults(ctx context.Context, activities []models.Activity) (int64, error) {
	if len(activities) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(&activities)
	return result.RowsAffected, result.Error
}
