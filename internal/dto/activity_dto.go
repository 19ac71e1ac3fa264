package dto

import "github.com/widya-labs/pustaka-api/internal/models"

// ActivityResponse serialises an activity tag for API clients.
type ActivityResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Emoji        string `json:"emoji"`
	Description  string `json:"description,omitempty"`
	DisplayOrder int    `json:"display_order"`
}

// NewActivityResponse converts an Activity model into a DTO.
func NewActivityResponse(model models.Activity) ActivityResponse {
	return ActivityResponse{
		ID:           model.ID,
		Name:         model.Name,
		Emoji:        model.Emoji,
		Description:  model.Description,
		DisplayOrder: model.DisplayOrder,
	}
}

// NewActivityResponseSlice converts activity models into DTOs.
func NewActivityResponseSlice(activities []models.Activity) []ActivityResponse {
	responses := make([]ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		responses = append(responses, NewActivityResponse(activity))
	}

	return responses
}
