package models

import "time"

// Book review verification statuses.
const (
	ReviewStatusPending  = "pending"
	ReviewStatusVerified = "verified"
	ReviewStatusRejected = "rejected"
)

// BookReview is a student's written review of a book, pending teacher
// verification before it counts toward the leaderboard.
type BookReview struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	StudentID       uint       `gorm:"not null;index:idx_review_student_status" json:"student_id"`
	Title           string     `gorm:"size:255;not null" json:"title"`
	Author          string     `gorm:"size:255;not null" json:"author"`
	Publisher       string     `gorm:"size:255" json:"publisher"`
	YearPublished   int        `json:"year_published"`
	Summary         string     `gorm:"type:text;not null" json:"summary"`
	Status          string     `gorm:"size:20;not null;default:pending;index:idx_review_student_status" json:"status"`
	VerifiedByID    *uint      `json:"verified_by_id"`
	VerifiedAt      *time.Time `json:"verified_at"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	Student         User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
	VerifiedBy      *User      `gorm:"foreignKey:VerifiedByID" json:"verified_by,omitempty"`
}

// IsPending reports whether the review still awaits teacher verification.
func (r BookReview) IsPending() bool {
	return r.Status == ReviewStatusPending
}
