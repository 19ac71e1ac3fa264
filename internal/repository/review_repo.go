package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/widya-labs/pustaka-api/internal/models"
)

// ReviewFilter narrows book review listings.
type ReviewFilter struct {
	StudentID *uint
	Status    string
	Class     string
	Page      int
	PageSize  int
}

// ReviewRepository persists book reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.BookReview) error
	GetByID(ctx context.Context, id uint) (models.BookReview, error)
	List(ctx context.Context, filter ReviewFilter) ([]models.BookReview, int64, error)
	Update(ctx context.Context, review *models.BookReview) error
	CountByStudentAndStatus(ctx context.Context, studentID uint, status string) (int64, error)
	CountByStudentSince(ctx context.Context, studentID uint, since time.Time) (int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository constructs a review repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.BookReview) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) GetByID(ctx context.Context, id uint) (models.BookReview, error) {
	var review models.BookReview
	err := r.db.WithContext(ctx).
		Preload("Student").
		First(&review, id).Error
	if err != nil {
		return models.BookReview{}, err
	}

	return review, nil
}

func (r *reviewRepository) List(ctx context.Context, filter ReviewFilter) ([]models.BookReview, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.BookReview{})

	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if filter.Class != "" {
		query = query.
			Joins("JOIN users ON users.id = book_reviews.student_id").
			Where("users.class = ?", filter.Class)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}

	var reviews []models.BookReview
	err := query.
		Preload("Student").
		Order("book_reviews.created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&reviews).Error
	return reviews, total, err
}

func (r *reviewRepository) Update(ctx context.Context, review *models.BookReview) error {
	return r.db.WithContext(ctx).Save(review).Error
}

func (r *reviewRepository) CountByStudentAndStatus(ctx context.Context, studentID uint, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BookReview{}).
		Where("student_id = ? AND status = ?", studentID, status).
		Count(&count).Error
	return count, err
}

func (r *reviewRepository) CountByStudentSince(ctx context.Context, studentID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BookReview{}).
		Where("student_id = ? AND created_at >= ?", studentID, since).
		Count(&count).Error
	return count, err
}
