package services

import (
	"udaan_backend/internal/models"
	"udaan_backend/internal/repositories"
)

// AssignmentService owns the editor free/busy pool. The pool is not held
// in memory: every allocation re-queries the store, so multiple instances
// stay consistent.
type AssignmentService interface {
	// AutoAssignFreeEditor claims the oldest-registered free editor for
	// the event. Idempotent when the event already has one; returns the
	// event unchanged when none is free.
	AutoAssignFreeEditor(eventID string) (*models.Event, error)

	// SetEditorFree releases or reserves an editor for future assignment.
	SetEditorFree(editorID string, free bool) error
}

type assignmentService struct {
	eventRepo repositories.EventRepository
	userRepo  repositories.UserRepository
}

func NewAssignmentService(eventRepo repositories.EventRepository, userRepo repositories.UserRepository) AssignmentService {
	return &assignmentService{
		eventRepo: eventRepo,
		userRepo:  userRepo,
	}
}

func (s *assignmentService) AutoAssignFreeEditor(eventID string) (*models.Event, error) {
	return s.eventRepo.AutoAssignFreeEditor(eventID)
}

func (s *assignmentService) SetEditorFree(editorID string, free bool) error {
	return s.userRepo.SetEditorFree(editorID, free)
}
