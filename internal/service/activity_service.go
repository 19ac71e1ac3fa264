package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/widya-labs/pustaka-api/internal/dto"
	"github.com/widya-labs/pustaka-api/internal/models"
	"github.com/widya-labs/pustaka-api/internal/repository"
)

// ActivityService exposes the activity catalogue and its default seeding.
type ActivityService interface {
	ListActive(ctx context.Context) ([]dto.ActivityResponse, error)
	SeedDefaults(ctx context.Context) (int64, error)
}

type activityService struct {
	repo   repository.ActivityRepository
	logger zerolog.Logger
}

// NewActivityService constructs an ActivityService.
func NewActivityService(repo repository.ActivityRepository, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:   repo,
		logger: logger.With().Str("component", "activity_service").Logger(),
	}
}

func (s *activityService) ListActive(ctx context.Context) ([]dto.ActivityResponse, error) {
	activities, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewActivityResponseSlice(activities), nil
}

// SeedDefaults inserts the default activity catalogue, skipping names that
// already exist. Returns the number of newly created activities.
func (s *activityService) SeedDefaults(ctx context.Context) (int64, error) {
	created, err := s.repo.SeedDefaults(ctx, DefaultActivities())
	if err != nil {
		return 0, err
	}

	if created > 0 {
		s.logger.Info().Int64("created", created).Msg("seeded default activities")
	}

	return created, nil
}

// DefaultActivities returns the catalogue seeded on a fresh installation.
func DefaultActivities() []models.Activity {
	return []models.Activity{
		{Name: "Reading Books", Emoji: "📚", Description: "Reading books in the library", DisplayOrder: 1, IsActive: true},
		{Name: "Doing Homework", Emoji: "📝", Description: "Studying or completing school assignments", DisplayOrder: 2, IsActive: true},
		{Name: "Borrowing Books", Emoji: "🤝", Description: "Borrowing books to take home", DisplayOrder: 3, IsActive: true},
		{Name: "Research", Emoji: "🔍", Description: "Researching for projects or assignments", DisplayOrder: 4, IsActive: true},
		{Name: "Group Study", Emoji: "👥", Description: "Studying with classmates", DisplayOrder: 5, IsActive: true},
		{Name: "Reading Magazines", Emoji: "📰", Description: "Reading magazines or newspapers", DisplayOrder: 6, IsActive: true},
		{Name: "Computer Work", Emoji: "💻", Description: "Using library computers", DisplayOrder: 7, IsActive: true},
		{Name: "Quiet Time", Emoji: "🤫", Description: "Taking a break in a quiet environment", DisplayOrder: 8, IsActive: true},
	}
}
