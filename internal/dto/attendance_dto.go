package dto

import (
	"time"

	"github.com/widya-labs/pustaka-api/internal/models"
)

// CheckInRequest is the payload submitted when a student enters the library.
type CheckInRequest struct {
	ActivityIDs    []uint `json:"activity_ids" validate:"omitempty,dive,gt=0"`
	CustomActivity string `json:"custom_activity" validate:"omitempty,max=500"`
}

// AttendanceResponse is returned to API clients when viewing attendance records.
type AttendanceResponse struct {
	ID              uint               `json:"id"`
	UserID          uint               `json:"user_id"`
	CheckInTime     time.Time          `json:"check_in_time"`
	CheckOutTime    *time.Time         `json:"check_out_time"`
	Status          string             `json:"status"`
	DurationMinutes *int               `json:"duration_minutes"`
	CustomActivity  string             `json:"custom_activity,omitempty"`
	Activities      []ActivityResponse `json:"activities"`
}

// ActiveAttendanceResponse decorates the caller's open record with the time
// spent so far.
type ActiveAttendanceResponse struct {
	AttendanceResponse
	MinutesSpent int `json:"minutes_spent"`
}

// AttendanceHistoryResponse pages through a student's past visits.
type AttendanceHistoryResponse struct {
	Records  []AttendanceResponse `json:"records"`
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
}

// SweepResultResponse summarises one auto-checkout sweep execution.
type SweepResultResponse struct {
	ClosedCount int             `json:"closed_count"`
	Errors      map[uint]string `json:"errors,omitempty"`
}

// NewAttendanceResponse converts an AttendanceRecord model into a DTO.
func NewAttendanceResponse(model models.AttendanceRecord) AttendanceResponse {
	response := AttendanceResponse{
		ID:              model.ID,
		UserID:          model.UserID,
		CheckInTime:     model.CheckInTime,
		CheckOutTime:    model.CheckOutTime,
		Status:          model.Status,
		DurationMinutes: model.DurationMinutes,
		CustomActivity:  model.CustomActivity,
		Activities:      make([]ActivityResponse, 0, len(model.Activities)),
	}

	for _, activity := range model.Activities {
		response.Activities = append(response.Activities, NewActivityResponse(activity))
	}

	return response
}

// NewAttendanceResponseSlice converts attendance models into DTOs.
func NewAttendanceResponseSlice(records []models.AttendanceRecord) []AttendanceResponse {
	responses := make([]AttendanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, NewAttendanceResponse(record))
	}

	return responses
}
