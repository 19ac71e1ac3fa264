package models

import "time"

// Attendance statuses. A record is created checked_in and transitions
// exactly once into one of the two closed states.
const (
	// AttendanceCheckedIn marks an open visit.
	AttendanceCheckedIn = "checked_in"
	// AttendanceCheckedOut marks a visit closed by the student.
	AttendanceCheckedOut = "checked_out"
	// AttendanceAutoCheckedOut marks a visit closed by the daily sweep
	// or a librarian's forced checkout.
	AttendanceAutoCheckedOut = "auto_checked_out"
)

// AttendanceRecord tracks one check-in/check-out cycle in the library.
type AttendanceRecord struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	UserID          uint       `gorm:"not null;index:idx_attendance_user_time" json:"user_id"`
	CheckInTime     time.Time  `gorm:"not null;index:idx_attendance_user_time" json:"check_in_time"`
	CheckOutTime    *time.Time `json:"check_out_time"`
	Status          string     `gorm:"size:20;not null;default:checked_in;index" json:"status"`
	DurationMinutes *int       `json:"duration_minutes"`
	CustomActivity  string     `gorm:"type:text" json:"custom_activity"`
	Activities      []Activity `gorm:"many2many:attendance_activities" json:"activities"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	User            User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user"`
}

// IsOpen reports whether the record is still awaiting checkout.
func (a AttendanceRecord) IsOpen() bool {
	return a.Status == AttendanceCheckedIn
}

// VisitDuration returns the number of whole minutes between check-in and the
// supplied checkout instant.
func VisitDuration(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn) / time.Minute)
}
