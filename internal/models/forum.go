package models

import "time"

// Post is a forum entry where students share reading results. It may link
// one of the author's verified book reviews.
type Post struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	StudentID    uint        `gorm:"not null;index" json:"student_id"`
	Title        string      `gorm:"size:200;not null" json:"title"`
	Content      string      `gorm:"type:text;not null" json:"content"`
	BookReviewID *uint       `json:"book_review_id"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	Student      User        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
	BookReview   *BookReview `gorm:"foreignKey:BookReviewID" json:"book_review,omitempty"`
	Comments     []Comment   `json:"comments,omitempty"`
	Likes        []User      `gorm:"many2many:post_likes" json:"-"`
}

// Comment is a reply on a forum post.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	StudentID uint      `gorm:"not null" json:"student_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Student   User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
}
