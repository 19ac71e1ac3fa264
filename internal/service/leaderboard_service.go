package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/widya-labs/pustaka-api/internal/dto"
	"github.com/widya-labs/pustaka-api/internal/models"
	"github.com/widya-labs/pustaka-api/internal/repository"
)

// Score weights for the reading leaderboard.
const (
	pointsPerVerifiedReview = 20
	pointsPerRecentReview   = 10
	maxConsistencyScore     = 100
	consistencyWindow       = 30 * 24 * time.Hour
)

// LeaderboardService recomputes and serves gamified reading rankings.
type LeaderboardService interface {
	Get(ctx context.Context, scope, scopeValue string) (dto.LeaderboardResponse, error)
	Ambassadors(ctx context.Context) ([]dto.LeaderboardEntryResponse, error)
	Recalculate(ctx context.Context) (int, error)
}

type leaderboardService struct {
	entries  repository.LeaderboardRepository
	reviews  repository.ReviewRepository
	users    repository.UserRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	now      func() time.Time
}

// NewLeaderboardService constructs a LeaderboardService. The cache client
// may be nil, in which case every read recomputes from the store.
func NewLeaderboardService(entries repository.LeaderboardRepository, reviews repository.ReviewRepository, users repository.UserRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) LeaderboardService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &leaderboardService{
		entries:  entries,
		reviews:  reviews,
		users:    users,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "leaderboard_service").Logger(),
		now:      time.Now,
	}
}

func (s *leaderboardService) Get(ctx context.Context, scope, scopeValue string) (dto.LeaderboardResponse, error) {
	if scope != models.LeaderboardScopeClass {
		scope = models.LeaderboardScopeSchool
		scopeValue = models.LeaderboardScopeValueSchool
	}

	cacheKey := fmt.Sprintf("leaderboard:%s:%s", scope, scopeValue)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.LeaderboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read leaderboard cache")
		}
	}

	entries, err := s.entries.ListByScope(ctx, scope, scopeValue, 100)
	if err != nil {
		return dto.LeaderboardResponse{}, err
	}

	response := dto.LeaderboardResponse{
		Scope:      scope,
		ScopeValue: scopeValue,
		Entries:    make([]dto.LeaderboardEntryResponse, 0, len(entries)),
	}

	for idx, entry := range entries {
		response.Entries = append(response.Entries, dto.NewLeaderboardEntryResponse(entry, idx+1))
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store leaderboard cache")
			}
		}
	}

	return response, nil
}

// Ambassadors lists the students currently flagged as monthly reading
// ambassadors, one per class.
func (s *leaderboardService) Ambassadors(ctx context.Context) ([]dto.LeaderboardEntryResponse, error) {
	entries, err := s.entries.ListAmbassadors(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.LeaderboardEntryResponse, 0, len(entries))
	for idx, entry := range entries {
		responses = append(responses, dto.NewLeaderboardEntryResponse(entry, idx+1))
	}

	return responses, nil
}

// Recalculate rebuilds every student's score: 20 points per verified review
// plus a consistency score of 10 points per review submitted in the last 30
// days, capped at 100. Returns the number of students processed.
func (s *leaderboardService) Recalculate(ctx context.Context) (int, error) {
	students, err := s.users.ListByRole(ctx, models.RoleStudent)
	if err != nil {
		return 0, err
	}

	since := s.now().Add(-consistencyWindow)

	for _, student := range students {
		verified, err := s.reviews.CountByStudentAndStatus(ctx, student.ID, models.ReviewStatusVerified)
		if err != nil {
			return 0, err
		}

		recent, err := s.reviews.CountByStudentSince(ctx, student.ID, since)
		if err != nil {
			return 0, err
		}

		consistency := int(recent) * pointsPerRecentReview
		if consistency > maxConsistencyScore {
			consistency = maxConsistencyScore
		}

		total := int(verified)*pointsPerVerifiedReview + consistency

		scopes := []struct{ scope, value string }{
			{models.LeaderboardScopeSchool, models.LeaderboardScopeValueSchool},
		}
		if student.Class != "" {
			scopes = append(scopes, struct{ scope, value string }{models.LeaderboardScopeClass, student.Class})
		}

		for _, sc := range scopes {
			entry := models.LeaderboardEntry{
				UserID:           student.ID,
				Scope:            sc.scope,
				ScopeValue:       sc.value,
				BooksRead:        int(verified),
				VerifiedReviews:  int(verified),
				ConsistencyScore: consistency,
				TotalScore:       total,
			}
			if err := s.entries.Upsert(ctx, &entry); err != nil {
				return 0, err
			}
		}
	}

	if s.cache != nil {
		iter := s.cache.Scan(ctx, 0, "leaderboard:*", 0).Iterator()
		for iter.Next(ctx) {
			if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to invalidate leaderboard cache")
			}
		}
	}

	s.logger.Info().Int("students", len(students)).Msg("leaderboard recalculated")

	return len(students), nil
}
