package models

import "time"

// Leaderboard scopes.
const (
	LeaderboardScopeClass  = "class"
	LeaderboardScopeSchool = "school"
)

// LeaderboardScopeValueSchool is the scope value used for school-wide entries.
const LeaderboardScopeValueSchool = "school"

// LeaderboardEntry caches a student's reading score within one scope.
// Entries are recomputed from verified reviews, never edited directly.
type LeaderboardEntry struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	UserID             uint      `gorm:"not null;uniqueIndex:idx_leaderboard_scope" json:"user_id"`
	Scope              string    `gorm:"size:20;not null;uniqueIndex:idx_leaderboard_scope" json:"scope"`
	ScopeValue         string    `gorm:"size:100;not null;uniqueIndex:idx_leaderboard_scope" json:"scope_value"`
	BooksRead          int       `gorm:"default:0" json:"books_read"`
	VerifiedReviews    int       `gorm:"default:0" json:"verified_reviews"`
	ConsistencyScore   int       `gorm:"default:0" json:"consistency_score"`
	TotalScore         int       `gorm:"default:0;index" json:"total_score"`
	Rank               int       `gorm:"default:0" json:"rank"`
	IsMonthlyAmbassador bool     `gorm:"default:false" json:"is_monthly_ambassador"`
	UpdatedAt          time.Time `json:"updated_at"`
	User               User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user"`
}
