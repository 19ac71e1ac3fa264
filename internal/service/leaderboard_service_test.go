package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/widya-labs/pustaka-api/internal/models"
	"github.com/widya-labs/pustaka-api/internal/repository"
)

func TestLeaderboardRecalculateScoresAndCaching(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})

	db, err := gorm.Open(sqlite.Open("file:leaderboard_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.BookReview{}, &models.LeaderboardEntry{}))

	eager := models.User{ID: 1, NIS: "1001", Name: "Siti", Role: models.RoleStudent, Class: "8A", PasswordHash: "x"}
	quiet := models.User{ID: 2, NIS: "1002", Name: "Budi", Role: models.RoleStudent, Class: "8A", PasswordHash: "x"}
	require.NoError(t, db.Create(&eager).Error)
	require.NoError(t, db.Create(&quiet).Error)

	now := time.Now().UTC()

	// Siti: 3 verified reviews, all recent.
	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.BookReview{
			StudentID:     eager.ID,
			Title:         "Book",
			Author:        "Author",
			YearPublished: 2020,
			Summary:       "A summary long enough to pass validation.",
			Status:        models.ReviewStatusVerified,
			CreatedAt:     now.Add(-time.Duration(i+1) * 24 * time.Hour),
		}).Error)
	}

	// Budi: 1 verified review, submitted outside the consistency window.
	require.NoError(t, db.Create(&models.BookReview{
		StudentID:     quiet.ID,
		Title:         "Book",
		Author:        "Author",
		YearPublished: 2020,
		Summary:       "A summary long enough to pass validation.",
		Status:        models.ReviewStatusVerified,
		CreatedAt:     now.Add(-45 * 24 * time.Hour),
	}).Error)

	svc := NewLeaderboardService(
		repository.NewLeaderboardRepository(db),
		repository.NewReviewRepository(db),
		repository.NewUserRepository(db),
		redisClient,
		time.Minute,
		zerolog.Nop(),
	)

	ctx := context.Background()
	processed, err := svc.Recalculate(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, processed)

	school, err := svc.Get(ctx, models.LeaderboardScopeSchool, "")
	require.NoError(t, err)
	require.False(t, school.CacheHit)
	require.Len(t, school.Entries, 2)

	// 3 verified * 20 + min(3 recent * 10, 100) = 90.
	require.Equal(t, "Siti", school.Entries[0].Name)
	require.Equal(t, 1, school.Entries[0].Rank)
	require.Equal(t, 90, school.Entries[0].TotalScore)

	// 1 verified * 20, no recent reviews.
	require.Equal(t, "Budi", school.Entries[1].Name)
	require.Equal(t, 20, school.Entries[1].TotalScore)

	cached, err := svc.Get(ctx, models.LeaderboardScopeSchool, "")
	require.NoError(t, err)
	require.True(t, cached.CacheHit)
	require.Equal(t, school.Entries[0].TotalScore, cached.Entries[0].TotalScore)

	class, err := svc.Get(ctx, models.LeaderboardScopeClass, "8A")
	require.NoError(t, err)
	require.Len(t, class.Entries, 2)

	// Recalculation invalidates every cached scope.
	_, err = svc.Recalculate(ctx)
	require.NoError(t, err)
	refreshed, err := svc.Get(ctx, models.LeaderboardScopeSchool, "")
	require.NoError(t, err)
	require.False(t, refreshed.CacheHit)
}

func TestLeaderboardConsistencyScoreIsCapped(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:leaderboard_cap_test?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.BookReview{}, &models.LeaderboardEntry{}))

	student := models.User{ID: 1, NIS: "1001", Name: "Rani", Role: models.RoleStudent, Class: "9C", PasswordHash: "x"}
	require.NoError(t, db.Create(&student).Error)

	now := time.Now().UTC()
	for i := 0; i < 12; i++ {
		require.NoError(t, db.Create(&models.BookReview{
			StudentID:     student.ID,
			Title:         "Book",
			Author:        "Author",
			YearPublished: 2020,
			Summary:       "A summary long enough to pass validation.",
			Status:        models.ReviewStatusVerified,
			CreatedAt:     now.Add(-time.Duration(i+1) * time.Hour),
		}).Error)
	}

	svc := NewLeaderboardService(
		repository.NewLeaderboardRepository(db),
		repository.NewReviewRepository(db),
		repository.NewUserRepository(db),
		nil,
		time.Minute,
		zerolog.Nop(),
	)

	ctx := context.Background()
	_, err = svc.Recalculate(ctx)
	require.NoError(t, err)

	board, err := svc.Get(ctx, models.LeaderboardScopeSchool, "")
	require.NoError(t, err)
	require.Len(t, board.Entries, 1)

	// 12 verified * 20 + capped consistency of 100.
	require.Equal(t, 100, board.Entries[0].ConsistencyScore)
	require.Equal(t, 340, board.Entries[0].TotalScore)
}
