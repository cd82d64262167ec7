package dto

import (
	"time"

	"udaan_backend/internal/models"
)

type CreateEventRequest struct {
	Name        string    `json:"name" validate:"required,min=1,max=200"`
	Date        time.Time `json:"date" validate:"required"`
	CameramanID string    `json:"cameraman_id" validate:"required,uuid4"`
	EditorID    *string   `json:"editor_id" validate:"omitempty,uuid4"`
}

type StatusChangeRequest struct {
	NextStatus models.EventStatus `json:"next_status" validate:"required,is-event-status"`
}

type AssignEditorRequest struct {
	// nil unassigns the current editor
	EditorID *string `json:"editor_id" validate:"omitempty,uuid4"`
}

type EventDetailResponse struct {
	Event *models.Event      `json:"event"`
	Files []models.MediaFile `json:"files"`
}
