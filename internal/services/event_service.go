package services

import (
	"udaan_backend/internal/apperrors"
	"udaan_backend/internal/logger"
	"udaan_backend/internal/models"
	"udaan_backend/internal/repositories"
	"udaan_backend/internal/services/dto"
	"udaan_backend/internal/storage"
	"udaan_backend/internal/workflow"

	"github.com/google/uuid"
)

// EventService is the workflow orchestrator: every inbound state change,
// assignment and file arrival goes through it. It validates against the
// pure workflow rules, persists through the repositories and fans out
// notifications.
type EventService interface {
	CreateEvent(req *dto.CreateEventRequest) (*models.Event, error)
	GetEvent(role models.UserRole, userID, eventID string) (*models.Event, []models.MediaFile, error)
	ListEvents(role models.UserRole, userID string) ([]models.Event, error)

	RequestStatusChange(eventID string, role models.UserRole, userID string, next models.EventStatus) (*models.Event, error)
	RequestEditorAssignment(eventID string, role models.UserRole, editorID *string) (*models.Event, error)
	RecordFileArrival(eventID string, fileType models.FileType) (*models.Event, error)
}

type eventService struct {
	eventRepo     repositories.EventRepository
	userRepo      repositories.UserRepository
	fileRepo      repositories.FileRepository
	assignments   AssignmentService
	notifications NotificationService
}

func NewEventService(
	eventRepo repositories.EventRepository,
	userRepo repositories.UserRepository,
	fileRepo repositories.FileRepository,
	assignments AssignmentService,
	notifications NotificationService,
) EventService {
	return &eventService{
		eventRepo:     eventRepo,
		userRepo:      userRepo,
		fileRepo:      fileRepo,
		assignments:   assignments,
		notifications: notifications,
	}
}

func (s *eventService) CreateEvent(req *dto.CreateEventRequest) (*models.Event, error) {
	cameraman, err := s.userRepo.FindByID(req.CameramanID)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Cameraman not found")
	}
	if cameraman.Role != models.UserRoleCameraman {
		return nil, apperrors.NewBadRequestError("Assigned cameraman must have the cameraman role")
	}

	if req.EditorID != nil {
		editor, err := s.userRepo.FindByID(*req.EditorID)
		if err != nil {
			return nil, apperrors.NewBadRequestError("Editor not found")
		}
		if editor.Role != models.UserRoleEditor {
			return nil, apperrors.NewBadRequestError("Assigned editor must have the editor role")
		}
	}

	// ID generated up front so the folder refs can be derived before the
	// insert; the whole row goes in with one create.
	id := uuid.NewString()
	folders := storage.FoldersForEvent(id)

	event := &models.Event{
		BaseModel:       models.BaseModel{ID: id},
		Name:            req.Name,
		Date:            req.Date,
		Status:          models.EventStatusCreated,
		CameramanID:     req.CameramanID,
		EditorID:        req.EditorID,
		FolderRootRef:   &folders.Root,
		FolderRawRef:    &folders.Raw,
		FolderEditedRef: &folders.Edited,
		FolderFinalRef:  &folders.Final,
	}

	if err := s.eventRepo.Create(event); err != nil {
		return nil, apperrors.UpstreamFailure(err, "Failed to create event")
	}

	if err := s.notifications.NotifyCameramanNewEvent(event.CameramanID, event); err != nil {
		logger.Warn("failed to notify cameraman of new event", "event_id", event.ID, "error", err)
	}
	if event.EditorID != nil {
		if err := s.notifications.NotifyEventAssigned(*event.EditorID, event); err != nil {
			logger.Warn("failed to notify editor of new event", "event_id", event.ID, "error", err)
		}
	}

	return event, nil
}

func (s *eventService) GetEvent(role models.UserRole, userID, eventID string) (*models.Event, []models.MediaFile, error) {
	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrEventNotFound) {
			return nil, nil, apperrors.ErrEventNotFound
		}
		return nil, nil, err
	}

	if !workflow.CanAccessEvent(role, userID, event) {
		return nil, nil, apperrors.ErrForbidden
	}

	files, err := s.fileRepo.FindByEvent(eventID, nil)
	if err != nil {
		return nil, nil, err
	}
	return event, files, nil
}

func (s *eventService) ListEvents(role models.UserRole, userID string) ([]models.Event, error) {
	switch role {
	case models.UserRoleAdmin:
		return s.eventRepo.FindAll()
	case models.UserRoleCameraman:
		return s.eventRepo.FindByCameraman(userID)
	case models.UserRoleEditor:
		return s.eventRepo.FindForEditor(userID)
	}
	return nil, apperrors.ErrForbidden
}

func (s *eventService) RequestStatusChange(eventID string, role models.UserRole, userID string, next models.EventStatus) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrEventNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	if !workflow.CanAccessEvent(role, userID, event) {
		return nil, apperrors.ErrForbidden
	}

	// The role-action mapping narrows the generic transition table: a role
	// can only request statuses for stages it owns.
	if !workflow.RoleMayRequestStatus(role, next) {
		return nil, apperrors.ErrForbidden.WithMessage("Operation not allowed for this role")
	}

	if err := s.transition(event.ID, event.Status, next); err != nil {
		return nil, err
	}

	// Side effects keyed on the resulting status. The status change is
	// already committed, so failures here are logged, never propagated.
	if next == models.EventStatusCompleted {
		if event.EditorID != nil {
			if err := s.assignments.SetEditorFree(*event.EditorID, true); err != nil {
				logger.Error("failed to free editor after completion", "event_id", event.ID, "editor_id", *event.EditorID, "error", err)
			}
		}
		if err := s.notifications.NotifyCompleted(event); err != nil {
			logger.Warn("failed to send completion notifications", "event_id", event.ID, "error", err)
		}
	}

	return s.eventRepo.FindByID(eventID)
}

func (s *eventService) RequestEditorAssignment(eventID string, role models.UserRole, editorID *string) (*models.Event, error) {
	if role != models.UserRoleAdmin {
		return nil, apperrors.ErrForbidden.WithMessage("Only admin can assign editor")
	}

	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrEventNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	if editorID != nil {
		editor, err := s.userRepo.FindByID(*editorID)
		if err != nil {
			return nil, apperrors.NewBadRequestError("Editor not found")
		}
		if editor.Role != models.UserRoleEditor {
			return nil, apperrors.NewBadRequestError("Assigned editor must have the editor role")
		}
	}

	prev := event.EditorID
	if err := s.eventRepo.SetEditor(eventID, editorID); err != nil {
		return nil, apperrors.UpstreamFailure(err, "Failed to update editor assignment")
	}

	// A replaced editor goes back into the pool.
	if prev != nil && (editorID == nil || *prev != *editorID) {
		if err := s.assignments.SetEditorFree(*prev, true); err != nil {
			logger.Error("failed to free previous editor", "event_id", eventID, "editor_id", *prev, "error", err)
		}
	}

	if editorID != nil {
		if err := s.assignments.SetEditorFree(*editorID, false); err != nil {
			logger.Error("failed to mark editor busy", "event_id", eventID, "editor_id", *editorID, "error", err)
		}
		if err := s.notifications.NotifyEventAssigned(*editorID, event); err != nil {
			logger.Warn("failed to notify assigned editor", "event_id", eventID, "error", err)
		}
	}

	return s.eventRepo.FindByID(eventID)
}

// RecordFileArrival runs after a MediaFile row has been persisted. Any
// (fileType, status) combination outside the two handled cases is a
// defensive no-op: the upload guard should have blocked the upload
// already.
func (s *eventService) RecordFileArrival(eventID string, fileType models.FileType) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrEventNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	switch {
	case fileType == models.FileTypeRaw && event.Status == models.EventStatusCreated:
		if err := s.rawArrived(event); err != nil {
			return nil, err
		}
	case fileType == models.FileTypeFinal &&
		(event.Status == models.EventStatusAssigned || event.Status == models.EventStatusEditing):
		if err := s.finalArrived(event); err != nil {
			return nil, err
		}
	}

	return s.eventRepo.FindByID(eventID)
}

func (s *eventService) rawArrived(event *models.Event) error {
	err := s.eventRepo.UpdateStatus(event.ID, models.EventStatusCreated, models.EventStatusRawUploaded)
	if err != nil {
		if apperrors.Is(err, repositories.ErrStatusConflict) {
			// A concurrent arrival already moved the event on; nothing to do.
			return nil
		}
		return apperrors.UpstreamFailure(err, "Failed to record RAW arrival")
	}

	if err := s.notifications.NotifyRawUploaded(event); err != nil {
		logger.Warn("failed to notify admins of RAW upload", "event_id", event.ID, "error", err)
	}

	updated, err := s.assignments.AutoAssignFreeEditor(event.ID)
	if err != nil {
		logger.Error("editor auto-assignment failed", "event_id", event.ID, "error", err)
		return nil
	}

	if updated.EditorID != nil {
		// Two discrete adjacent steps, never a skip: the event was just
		// moved to RAW_UPLOADED, now it advances to ASSIGNED.
		err := s.eventRepo.UpdateStatus(event.ID, models.EventStatusRawUploaded, models.EventStatusAssigned)
		if err != nil && !apperrors.Is(err, repositories.ErrStatusConflict) {
			return apperrors.UpstreamFailure(err, "Failed to record assignment")
		}
		if err == nil {
			if err := s.notifications.NotifyEditorRawAvailable(*updated.EditorID, updated); err != nil {
				logger.Warn("failed to notify editor of RAW availability", "event_id", event.ID, "error", err)
			}
		}
	}

	return nil
}

func (s *eventService) finalArrived(event *models.Event) error {
	// A FINAL that lands while the event is still ASSIGNED walks through
	// EDITING first so only adjacent states are ever persisted.
	current := event.Status
	if current == models.EventStatusAssigned {
		err := s.eventRepo.UpdateStatus(event.ID, models.EventStatusAssigned, models.EventStatusEditing)
		if err != nil {
			if apperrors.Is(err, repositories.ErrStatusConflict) {
				return nil
			}
			return apperrors.UpstreamFailure(err, "Failed to record FINAL arrival")
		}
		current = models.EventStatusEditing
	}

	err := s.eventRepo.UpdateStatus(event.ID, current, models.EventStatusFinalUploaded)
	if err != nil {
		if apperrors.Is(err, repositories.ErrStatusConflict) {
			return nil
		}
		return apperrors.UpstreamFailure(err, "Failed to record FINAL arrival")
	}

	if err := s.notifications.NotifyFinalUploaded(event); err != nil {
		logger.Warn("failed to send FINAL upload notifications", "event_id", event.ID, "error", err)
	}

	return nil
}

// transition applies a single validated status move with compare-and-set
// semantics against the store.
func (s *eventService) transition(eventID string, from, to models.EventStatus) error {
	if !workflow.CanTransition(from, to) {
		return apperrors.InvalidTransition(string(from), string(to))
	}

	err := s.eventRepo.UpdateStatus(eventID, from, to)
	if err != nil {
		if apperrors.Is(err, repositories.ErrStatusConflict) {
			// Someone else moved the event first; re-read so the error
			// names the real current status.
			current, readErr := s.eventRepo.FindByID(eventID)
			if readErr != nil {
				return apperrors.InvalidTransition(string(from), string(to))
			}
			return apperrors.InvalidTransition(string(current.Status), string(to))
		}
		if apperrors.Is(err, repositories.ErrEventNotFound) {
			return apperrors.ErrEventNotFound
		}
		return apperrors.UpstreamFailure(err, "Failed to update event status")
	}
	return nil
}
