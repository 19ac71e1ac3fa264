package dto

import (
	"time"

	"github.com/widya-labs/pustaka-api/internal/models"
)

// ReviewCreateRequest is the payload for submitting a book review.
type ReviewCreateRequest struct {
	Title         string `json:"title" validate:"required,max=255"`
	Author        string `json:"author" validate:"required,max=255"`
	Publisher     string `json:"publisher" validate:"omitempty,max=255"`
	YearPublished int    `json:"year_published" validate:"required,gte=1400,lte=2100"`
	Summary       string `json:"summary" validate:"required,min=20"`
}

// ReviewVerdictRequest records a teacher's decision on a pending review.
type ReviewVerdictRequest struct {
	Action string `json:"action" validate:"required,oneof=verify reject"`
	Reason string `json:"reason" validate:"omitempty,max=1000"`
}

// ReviewFilterRequest narrows review listings.
type ReviewFilterRequest struct {
	Status   string `query:"status" validate:"omitempty,oneof=pending verified rejected"`
	Page     int    `query:"page"`
	PageSize int    `query:"page_size"`
}

// ReviewResponse serialises a book review.
type ReviewResponse struct {
	ID              uint       `json:"id"`
	StudentID       uint       `json:"student_id"`
	StudentName     string     `json:"student_name,omitempty"`
	StudentClass    string     `json:"student_class,omitempty"`
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	Publisher       string     `json:"publisher,omitempty"`
	YearPublished   int        `json:"year_published"`
	Summary         string     `json:"summary"`
	Status          string     `json:"status"`
	VerifiedByID    *uint      `json:"verified_by_id,omitempty"`
	VerifiedAt      *time.Time `json:"verified_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ReviewStats summarises a student's submission history.
type ReviewStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Verified int64 `json:"verified"`
	Rejected int64 `json:"rejected"`
}

// ReviewListResponse pages through reviews with per-status counters.
type ReviewListResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
	Total   int64            `json:"total"`
	Stats   *ReviewStats     `json:"stats,omitempty"`
}

// NewReviewResponse converts a BookReview model into a DTO.
func NewReviewResponse(model models.BookReview) ReviewResponse {
	response := ReviewResponse{
		ID:              model.ID,
		StudentID:       model.StudentID,
		Title:           model.Title,
		Author:          model.Author,
		Publisher:       model.Publisher,
		YearPublished:   model.YearPublished,
		Summary:         model.Summary,
		Status:          model.Status,
		VerifiedByID:    model.VerifiedByID,
		VerifiedAt:      model.VerifiedAt,
		RejectionReason: model.RejectionReason,
		CreatedAt:       model.CreatedAt,
	}

	if model.Student.ID != 0 {
		response.StudentName = model.Student.Name
		response.StudentClass = model.Student.Class
	}

	return response
}

// NewReviewResponseSlice converts review models into DTOs.
func NewReviewResponseSlice(reviews []models.BookReview) []ReviewResponse {
	responses := make([]ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		responses = append(responses, NewReviewResponse(review))
	}

	return responses
}
