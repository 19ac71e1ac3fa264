package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/widya-labs/pustaka-api/internal/models"
)

// PostFilter narrows forum post listings.
type PostFilter struct {
	Search   string
	Sort     string // "recent" (default) or "popular"
	Page     int
	PageSize int
}

// ForumRepository persists forum posts, comments and likes.
type ForumRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id uint) (models.Post, error)
	ListPosts(ctx context.Context, filter PostFilter) ([]models.Post, int64, error)
	DeletePost(ctx context.Context, id uint) error
	CreateComment(ctx context.Context, comment *models.Comment) error
	CountLikes(ctx context.Context, postID uint) (int64, error)
	HasLiked(ctx context.Context, postID, userID uint) (bool, error)
	AddLike(ctx context.Context, postID, userID uint) error
	RemoveLike(ctx context.Context, postID, userID uint) error
}

type forumRepository struct {
	db *gorm.DB
}

// NewForumRepository constructs a forum repository.
func NewForumRepository(db *gorm.DB) ForumRepository {
	return &forumRepository{db: db}
}

func (r *forumRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *forumRepository) GetPost(ctx context.Context, id uint) (models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("BookReview").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC")
		}).
		Preload("Comments.Student").
		First(&post, id).Error
	if err != nil {
		return models.Post{}, err
	}

	return post, nil
}

func (r *forumRepository) ListPosts(ctx context.Context, filter PostFilter) ([]models.Post, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Post{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.
			Joins("JOIN users ON users.id = posts.student_id").
			Where("posts.title LIKE ? OR posts.content LIKE ? OR users.name LIKE ?", pattern, pattern, pattern)
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

	if filter.Sort == "popular" {
		query = query.
			Joins("LEFT JOIN post_likes ON post_likes.post_id = posts.id").
			Group("posts.id").
			Order("COUNT(post_likes.user_id) DESC, posts.created_at DESC")
	} else {
		query = query.Order("posts.created_at DESC")
	}

	var posts []models.Post
	err := query.
		Preload("Student").
		Preload("Comments").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&posts).Error
	return posts, total, err
}

func (r *forumRepository) DeletePost(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM post_likes WHERE post_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}

func (r *forumRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *forumRepository) CountLikes(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("post_likes").
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

func (r *forumRepository) HasLiked(ctx context.Context, postID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("post_likes").
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *forumRepository) AddLike(ctx context.Context, postID, userID uint) error {
	return r.db.WithContext(ctx).
		Exec("INSERT INTO post_likes (post_id, user_id) VALUES (?, ?)", postID, userID).Error
}

func (r *forumRepository) RemoveLike(ctx context.Context, postID, userID uint) error {
	return r.db.WithContext(ctx).
		Exec("DELETE FROM post_likes WHERE post_id = ? AND user_id = ?", postID, userID).Error
}
