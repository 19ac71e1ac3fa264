package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/widya-labs/pustaka-api/internal/dto"
	"github.com/widya-labs/pustaka-api/internal/models"
	"github.com/widya-labs/pustaka-api/internal/repository"
)

// ErrPostNotFound indicates the requested post does not exist.
var ErrPostNotFound = errors.New("post not found")

// ErrNotPostOwner indicates a delete attempt by someone other than the author.
var ErrNotPostOwner = errors.New("post belongs to another student")

// ErrReviewNotLinkable indicates the linked review is not the author's
// verified review.
var ErrReviewNotLinkable = errors.New("linked review must be the author's verified review")

// ForumService orchestrates literacy forum posts, comments and likes.
type ForumService interface {
	CreatePost(ctx context.Context, studentID uint, payload dto.PostCreateRequest) (dto.PostResponse, error)
	GetPost(ctx context.Context, id, viewerID uint) (dto.PostResponse, error)
	ListPosts(ctx context.Context, filter dto.PostFilterRequest) (dto.PostListResponse, error)
	DeletePost(ctx context.Context, id, requesterID uint) error
	AddComment(ctx context.Context, postID, studentID uint, payload dto.CommentCreateRequest) (dto.CommentResponse, error)
	ToggleLike(ctx context.Context, postID, userID uint) (dto.LikeResponse, error)
}

type forumService struct {
	posts     repository.ForumRepository
	reviews   repository.ReviewRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewForumService constructs a ForumService. Post and comment bodies are
// sanitized before persistence.
func NewForumService(posts repository.ForumRepository, reviews repository.ReviewRepository, validate *validator.Validate, logger zerolog.Logger) ForumService {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("br")

	return &forumService{
		posts:     posts,
		reviews:   reviews,
		validator: validate,
		sanitizer: policy,
		logger:    logger.With().Str("component", "forum_service").Logger(),
	}
}

func (s *forumService) CreatePost(ctx context.Context, studentID uint, payload dto.PostCreateRequest) (dto.PostResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PostResponse{}, err
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if content == "" {
		return dto.PostResponse{}, errors.New("post content empty after sanitization")
	}

	if payload.BookReviewID != nil {
		review, err := s.reviews.GetByID(ctx, *payload.BookReviewID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.PostResponse{}, ErrReviewNotLinkable
			}
			return dto.PostResponse{}, err
		}
		if review.StudentID != studentID || review.Status != models.ReviewStatusVerified {
			return dto.PostResponse{}, ErrReviewNotLinkable
		}
	}

	post := models.Post{
		StudentID:    studentID,
		Title:        strings.TrimSpace(s.sanitizer.Sanitize(payload.Title)),
		Content:      content,
		BookReviewID: payload.BookReviewID,
	}

	if err := s.posts.CreatePost(ctx, &post); err != nil {
		return dto.PostResponse{}, err
	}

	s.logger.Info().Uint("post_id", post.ID).Uint("student_id", studentID).Msg("forum post published")

	return dto.NewPostResponse(post), nil
}

func (s *forumService) GetPost(ctx context.Context, id, viewerID uint) (dto.PostResponse, error) {
	post, err := s.posts.GetPost(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PostResponse{}, ErrPostNotFound
		}
		return dto.PostResponse{}, err
	}

	response := dto.NewPostResponse(post)

	likeCount, err := s.posts.CountLikes(ctx, id)
	if err != nil {
		return dto.PostResponse{}, err
	}
	response.LikeCount = likeCount

	if viewerID != 0 {
		liked, err := s.posts.HasLiked(ctx, id, viewerID)
		if err != nil {
			return dto.PostResponse{}, err
		}
		response.UserLiked = liked
	}

	return response, nil
}

func (s *forumService) ListPosts(ctx context.Context, filter dto.PostFilterRequest) (dto.PostListResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return dto.PostListResponse{}, err
	}

	posts, total, err := s.posts.ListPosts(ctx, repository.PostFilter{
		Search:   strings.TrimSpace(filter.Search),
		Sort:     filter.Sort,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	})
	if err != nil {
		return dto.PostListResponse{}, err
	}

	responses := make([]dto.PostResponse, 0, len(posts))
	for _, post := range posts {
		response := dto.NewPostResponse(post)
		response.Comments = nil

		likeCount, err := s.posts.CountLikes(ctx, post.ID)
		if err != nil {
			return dto.PostListResponse{}, err
		}
		response.LikeCount = likeCount

		responses = append(responses, response)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}

	return dto.PostListResponse{
		Posts:    responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *forumService) DeletePost(ctx context.Context, id, requesterID uint) error {
	post, err := s.posts.GetPost(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	if post.StudentID != requesterID {
		return ErrNotPostOwner
	}

	if err := s.posts.DeletePost(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Uint("post_id", id).Uint("student_id", requesterID).Msg("forum post deleted")

	return nil
}

func (s *forumService) AddComment(ctx context.Context, postID, studentID uint, payload dto.CommentCreateRequest) (dto.CommentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CommentResponse{}, err
	}

	if _, err := s.posts.GetPost(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CommentResponse{}, ErrPostNotFound
		}
		return dto.CommentResponse{}, err
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if content == "" {
		return dto.CommentResponse{}, errors.New("comment empty after sanitization")
	}

	comment := models.Comment{
		PostID:    postID,
		StudentID: studentID,
		Content:   content,
	}

	if err := s.posts.CreateComment(ctx, &comment); err != nil {
		return dto.CommentResponse{}, err
	}

	return dto.NewCommentResponse(comment), nil
}

func (s *forumService) ToggleLike(ctx context.Context, postID, userID uint) (dto.LikeResponse, error) {
	if _, err := s.posts.GetPost(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LikeResponse{}, ErrPostNotFound
		}
		return dto.LikeResponse{}, err
	}

	liked, err := s.posts.HasLiked(ctx, postID, userID)
	if err != nil {
		return dto.LikeResponse{}, err
	}

	if liked {
		err = s.posts.RemoveLike(ctx, postID, userID)
	} else {
		err = s.posts.AddLike(ctx, postID, userID)
	}
	if err != nil {
		return dto.LikeResponse{}, err
	}

	count, err := s.posts.CountLikes(ctx, postID)
	if err != nil {
		return dto.LikeResponse{}, err
	}

	return dto.LikeResponse{Liked: !liked, LikeCount: count}, nil
}
