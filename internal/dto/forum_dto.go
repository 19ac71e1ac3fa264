package dto

import (
	"time"

	"github.com/widya-labs/pustaka-api/internal/models"
)

// PostCreateRequest is the payload for publishing a forum post.
type PostCreateRequest struct {
	Title        string `json:"title" validate:"required,max=200"`
	Content      string `json:"content" validate:"required,min=1"`
	BookReviewID *uint  `json:"book_review_id" validate:"omitempty,gt=0"`
}

// CommentCreateRequest is the payload for replying on a post.
type CommentCreateRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// PostFilterRequest narrows forum listings.
type PostFilterRequest struct {
	Search   string `query:"q"`
	Sort     string `query:"sort" validate:"omitempty,oneof=recent popular"`
	Page     int    `query:"page"`
	PageSize int    `query:"page_size"`
}

// CommentResponse serialises a forum comment.
type CommentResponse struct {
	ID          uint      `json:"id"`
	PostID      uint      `json:"post_id"`
	StudentID   uint      `json:"student_id"`
	StudentName string    `json:"student_name,omitempty"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

// PostResponse serialises a forum post with engagement counters.
type PostResponse struct {
	ID           uint              `json:"id"`
	StudentID    uint              `json:"student_id"`
	StudentName  string            `json:"student_name,omitempty"`
	Title        string            `json:"title"`
	Content      string            `json:"content"`
	BookReviewID *uint             `json:"book_review_id,omitempty"`
	LikeCount    int64             `json:"like_count"`
	CommentCount int64             `json:"comment_count"`
	UserLiked    bool              `json:"user_liked"`
	Comments     []CommentResponse `json:"comments,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// PostListResponse pages through forum posts.
type PostListResponse struct {
	Posts    []PostResponse `json:"posts"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// LikeResponse reports the outcome of a like toggle.
type LikeResponse struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}

// NewCommentResponse converts a Comment model into a DTO.
func NewCommentResponse(model models.Comment) CommentResponse {
	response := CommentResponse{
		ID:        model.ID,
		PostID:    model.PostID,
		StudentID: model.StudentID,
		Content:   model.Content,
		CreatedAt: model.CreatedAt,
	}

	if model.Student.ID != 0 {
		response.StudentName = model.Student.Name
	}

	return response
}

// NewPostResponse converts a Post model into a DTO.
func NewPostResponse(model models.Post) PostResponse {
	response := PostResponse{
		ID:           model.ID,
		StudentID:    model.StudentID,
		Title:        model.Title,
		Content:      model.Content,
		BookReviewID: model.BookReviewID,
		CommentCount: int64(len(model.Comments)),
		CreatedAt:    model.CreatedAt,
	}

	if model.Student.ID != 0 {
		response.StudentName = model.Student.Name
	}

	for _, comment := range model.Comments {
		response.Comments = append(response.Comments, NewCommentResponse(comment))
	}

	return response
}
