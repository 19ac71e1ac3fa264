package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/widya-labs/pustaka-api/internal/models"
)

// LeaderboardRepository persists cached leaderboard entries.
type LeaderboardRepository interface {
	Upsert(ctx context.Context, entry *models.LeaderboardEntry) error
	ListByScope(ctx context.Context, scope, scopeValue string, limit int) ([]models.LeaderboardEntry, error)
	ListAmbassadors(ctx context.Context) ([]models.LeaderboardEntry, error)
}

type leaderboardRepository struct {
	db *gorm.DB
}

// NewLeaderboardRepository constructs a leaderboard repository.
func NewLeaderboardRepository(db *gorm.DB) LeaderboardRepository {
	return &leaderboardRepository{db: db}
}

func (r *leaderboardRepository) Upsert(ctx context.Context, entry *models.LeaderboardEntry) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "scope"}, {Name: "scope_value"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"books_read", "verified_reviews", "consistency_score", "total_score", "updated_at",
			}),
		}).
		Create(entry).Error
}

func (r *leaderboardRepository) ListByScope(ctx context.Context, scope, scopeValue string, limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	var entries []models.LeaderboardEntry
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("scope = ? AND scope_value = ?", scope, scopeValue).
		Order("total_score DESC, updated_at ASC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *leaderboardRepository) ListAmbassadors(ctx context.Context) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("is_monthly_ambassador = ?", true).
		Order("scope_value ASC").
		Find(&entries).Error
	return entries, err
}
