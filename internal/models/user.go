package models

import "time"

// Role values recognised across the service.
const (
	RoleStudent   = "student"
	RoleTeacher   = "teacher"
	RoleLibrarian = "librarian"
)

// User represents a library member. Students sign in with their NIS
// (student identification number); teachers and librarians with one
// assigned by the school.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	NIS          string    `gorm:"size:20;uniqueIndex;not null" json:"nis"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Email        string    `gorm:"size:255" json:"email"`
	Role         string    `gorm:"size:20;not null;default:student" json:"role"`
	Gender       string    `gorm:"size:1" json:"gender"`
	Class        string    `gorm:"size:50" json:"class"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsStudent reports whether the user holds the student role.
func (u User) IsStudent() bool {
	return u.Role == RoleStudent
}

// IsTeacher reports whether the user holds the teacher role.
func (u User) IsTeacher() bool {
	return u.Role == RoleTeacher
}

// IsLibrarian reports whether the user holds the librarian role.
func (u User) IsLibrarian() bool {
	return u.Role == RoleLibrarian
}
