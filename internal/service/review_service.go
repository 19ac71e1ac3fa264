package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/widya-labs/pustaka-api/internal/dto"
	"github.com/widya-labs/pustaka-api/internal/models"
	"github.com/widya-labs/pustaka-api/internal/repository"
)

// ErrReviewNotFound indicates the requested review does not exist.
var ErrReviewNotFound = errors.New("review not found")

// ErrReviewNotPending indicates a verdict was attempted on a settled review.
var ErrReviewNotPending = errors.New("review is not pending")

// ErrWrongClass indicates a teacher tried to verify outside their class.
var ErrWrongClass = errors.New("review belongs to a student of another class")

// ErrNotReviewOwner indicates a student requested someone else's review.
var ErrNotReviewOwner = errors.New("review belongs to another student")

// ReviewService orchestrates book review submission and verification.
type ReviewService interface {
	Submit(ctx context.Context, studentID uint, payload dto.ReviewCreateRequest) (dto.ReviewResponse, error)
	Get(ctx context.Context, id, requesterID uint) (dto.ReviewResponse, error)
	ListMine(ctx context.Context, studentID uint, filter dto.ReviewFilterRequest) (dto.ReviewListResponse, error)
	ListPendingForTeacher(ctx context.Context, teacherID uint, page, pageSize int) (dto.ReviewListResponse, error)
	Verdict(ctx context.Context, reviewID, teacherID uint, payload dto.ReviewVerdictRequest) (dto.ReviewResponse, error)
}

type reviewService struct {
	reviews   repository.ReviewRepository
	users     repository.UserRepository
	audit     AuditRecorder
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewReviewService constructs a ReviewService.
func NewReviewService(reviews repository.ReviewRepository, users repository.UserRepository, audit AuditRecorder, validate *validator.Validate, logger zerolog.Logger) ReviewService {
	return &reviewService{
		reviews:   reviews,
		users:     users,
		audit:     audit,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "review_service").Logger(),
		tracer:    otel.Tracer("github.com/widya-labs/pustaka-api/internal/service/review"),
		now:       time.Now,
	}
}

func (s *reviewService) Submit(ctx context.Context, studentID uint, payload dto.ReviewCreateRequest) (dto.ReviewResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ReviewResponse{}, err
	}

	summary := strings.TrimSpace(s.sanitizer.Sanitize(payload.Summary))
	if summary == "" {
		return dto.ReviewResponse{}, errors.New("summary empty after sanitization")
	}

	review := models.BookReview{
		StudentID:     studentID,
		Title:         strings.TrimSpace(payload.Title),
		Author:        strings.TrimSpace(payload.Author),
		Publisher:     strings.TrimSpace(payload.Publisher),
		YearPublished: payload.YearPublished,
		Summary:       summary,
		Status:        models.ReviewStatusPending,
	}

	if err := s.reviews.Create(ctx, &review); err != nil {
		return dto.ReviewResponse{}, err
	}

	s.logger.Info().Uint("review_id", review.ID).Uint("student_id", studentID).Msg("book review submitted")

	return dto.NewReviewResponse(review), nil
}

func (s *reviewService) Get(ctx context.Context, id, requesterID uint) (dto.ReviewResponse, error) {
	review, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReviewResponse{}, ErrReviewNotFound
		}
		return dto.ReviewResponse{}, err
	}

	if review.StudentID != requesterID {
		return dto.ReviewResponse{}, ErrNotReviewOwner
	}

	return dto.NewReviewResponse(review), nil
}

func (s *reviewService) ListMine(ctx context.Context, studentID uint, filter dto.ReviewFilterRequest) (dto.ReviewListResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return dto.ReviewListResponse{}, err
	}

	reviews, total, err := s.reviews.List(ctx, repository.ReviewFilter{
		StudentID: &studentID,
		Status:    filter.Status,
		Page:      filter.Page,
		PageSize:  filter.PageSize,
	})
	if err != nil {
		return dto.ReviewListResponse{}, err
	}

	stats, err := s.studentStats(ctx, studentID)
	if err != nil {
		return dto.ReviewListResponse{}, err
	}

	return dto.ReviewListResponse{
		Reviews: dto.NewReviewResponseSlice(reviews),
		Total:   total,
		Stats:   &stats,
	}, nil
}

func (s *reviewService) studentStats(ctx context.Context, studentID uint) (dto.ReviewStats, error) {
	stats := dto.ReviewStats{}

	for status, target := range map[string]*int64{
		models.ReviewStatusPending:  &stats.Pending,
		models.ReviewStatusVerified: &stats.Verified,
		models.ReviewStatusRejected: &stats.Rejected,
	} {
		count, err := s.reviews.CountByStudentAndStatus(ctx, studentID, status)
		if err != nil {
			return dto.ReviewStats{}, err
		}
		*target = count
	}

	stats.Total = stats.Pending + stats.Verified + stats.Rejected
	return stats, nil
}

func (s *reviewService) ListPendingForTeacher(ctx context.Context, teacherID uint, page, pageSize int) (dto.ReviewListResponse, error) {
	teacher, err := s.users.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReviewListResponse{}, ErrUserNotFound
		}
		return dto.ReviewListResponse{}, err
	}

	reviews, total, err := s.reviews.List(ctx, repository.ReviewFilter{
		Status:   models.ReviewStatusPending,
		Class:    teacher.Class,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return dto.ReviewListResponse{}, err
	}

	return dto.ReviewListResponse{
		Reviews: dto.NewReviewResponseSlice(reviews),
		Total:   total,
	}, nil
}

// Verdict settles a pending review. Teachers may only verify reviews from
// students of their own class; rejection requires a reason.
func (s *reviewService) Verdict(ctx context.Context, reviewID, teacherID uint, payload dto.ReviewVerdictRequest) (dto.ReviewResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ReviewResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "review.verdict", trace.WithAttributes(
		attribute.Int64("review.id", int64(reviewID)),
		attribute.String("review.action", payload.Action),
	))
	defer span.End()

	teacher, err := s.users.GetByID(spanCtx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReviewResponse{}, ErrUserNotFound
		}
		return dto.ReviewResponse{}, err
	}

	review, err := s.reviews.GetByID(spanCtx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReviewResponse{}, ErrReviewNotFound
		}
		return dto.ReviewResponse{}, err
	}

	if !review.IsPending() {
		return dto.ReviewResponse{}, ErrReviewNotPending
	}

	if review.Student.Class != teacher.Class {
		return dto.ReviewResponse{}, ErrWrongClass
	}

	now := s.now()
	review.VerifiedByID = &teacherID
	review.VerifiedAt = &now

	if payload.Action == "verify" {
		review.Status = models.ReviewStatusVerified
	} else {
		reason := strings.TrimSpace(payload.Reason)
		if reason == "" {
			reason = "No reason provided"
		}
		review.Status = models.ReviewStatusRejected
		review.RejectionReason = reason
	}

	if err := s.reviews.Update(spanCtx, &review); err != nil {
		return dto.ReviewResponse{}, err
	}

	s.logger.Info().
		Uint("review_id", review.ID).
		Uint("teacher_id", teacherID).
		Str("status", review.Status).
		Msg("review verdict recorded")

	s.audit.Record(spanCtx, AuditActor{ID: teacherID, Role: models.RoleTeacher}, "review_"+payload.Action, "book_review", &review.ID, datatypes.JSONMap{
		"student_id": review.StudentID,
		"title":      review.Title,
	})

	return dto.NewReviewResponse(review), nil
}
