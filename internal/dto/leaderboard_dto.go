package dto

import "github.com/widya-labs/pustaka-api/internal/models"

// LeaderboardEntryResponse serialises one ranked student.
type LeaderboardEntryResponse struct {
	Rank                int    `json:"rank"`
	UserID              uint   `json:"user_id"`
	Name                string `json:"name"`
	Class               string `json:"class,omitempty"`
	BooksRead           int    `json:"books_read"`
	VerifiedReviews     int    `json:"verified_reviews"`
	ConsistencyScore    int    `json:"consistency_score"`
	TotalScore          int    `json:"total_score"`
	IsMonthlyAmbassador bool   `json:"is_monthly_ambassador"`
}

// LeaderboardResponse returns a ranked listing for one scope.
type LeaderboardResponse struct {
	Scope      string                     `json:"scope"`
	ScopeValue string                     `json:"scope_value"`
	Entries    []LeaderboardEntryResponse `json:"entries"`
	CacheHit   bool                       `json:"cache_hit,omitempty"`
}

// NewLeaderboardEntryResponse converts an entry model, assigning its rank.
func NewLeaderboardEntryResponse(model models.LeaderboardEntry, rank int) LeaderboardEntryResponse {
	response := LeaderboardEntryResponse{
		Rank:                rank,
		UserID:              model.UserID,
		BooksRead:           model.BooksRead,
		VerifiedReviews:     model.VerifiedReviews,
		ConsistencyScore:    model.ConsistencyScore,
		TotalScore:          model.TotalScore,
		IsMonthlyAmbassador: model.IsMonthlyAmbassador,
	}

	if model.User.ID != 0 {
		response.Name = model.User.Name
		response.Class = model.User.Class
	}

	return response
}
