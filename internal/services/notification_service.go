package services

import (
	"encoding/json"
	"fmt"

	"udaan_backend/internal/email"
	"udaan_backend/internal/logger"
	"udaan_backend/internal/models"
	"udaan_backend/internal/repositories"

	"udaan_backend/internal/apperrors"

	"gorm.io/datatypes"
)

// NotificationService handles the fan-out of workflow notifications.
// All Notify* methods are best-effort from the caller's point of view:
// the orchestrator logs failures and never rolls back a committed
// status change because a notification write failed.
type NotificationService interface {
	NotifyUser(userID string, ntype models.NotificationType, eventID *string, title, message string, data datatypes.JSON) error
	NotifyRole(role models.UserRole, ntype models.NotificationType, eventID *string, title, message string, data datatypes.JSON) (int, error)

	ListForUser(userID string) ([]models.Notification, error)
	GetUnreadCount(userID string) (int64, error)

	// MarkAsRead is idempotent: reading an already-read notification
	// returns it unchanged.
	MarkAsRead(userID, notificationID string) (*models.Notification, error)

	// Factory methods for the workflow's notification types
	NotifyEventAssigned(editorID string, event *models.Event) error
	NotifyCameramanNewEvent(cameramanID string, event *models.Event) error
	NotifyRawUploaded(event *models.Event) error
	NotifyEditorRawAvailable(editorID string, event *models.Event) error
	NotifyFinalUploaded(event *models.Event) error
	NotifyCompleted(event *models.Event) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	emailProvider    email.Provider
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	emailProvider email.Provider,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		emailProvider:    emailProvider,
	}
}

func (s *notificationService) NotifyUser(userID string, ntype models.NotificationType, eventID *string, title, message string, data datatypes.JSON) error {
	notification := &models.Notification{
		UserID:  userID,
		EventID: eventID,
		Type:    ntype,
		Title:   title,
		Message: message,
		Data:    data,
		IsRead:  false,
	}
	return s.notificationRepo.Create(notification)
}

// NotifyRole creates one notification per current member of the role.
// Membership is a snapshot at call time.
func (s *notificationService) NotifyRole(role models.UserRole, ntype models.NotificationType, eventID *string, title, message string, data datatypes.JSON) (int, error) {
	users, err := s.userRepo.FindByRole(role)
	if err != nil {
		return 0, err
	}
	if len(users) == 0 {
		return 0, nil
	}

	notifications := make([]*models.Notification, 0, len(users))
	for _, u := range users {
		notifications = append(notifications, &models.Notification{
			UserID:  u.ID,
			EventID: eventID,
			Type:    ntype,
			Title:   title,
			Message: message,
			Data:    data,
			IsRead:  false,
		})
	}

	if err := s.notificationRepo.CreateBulk(notifications); err != nil {
		return 0, err
	}
	return len(users), nil
}

func (s *notificationService) ListForUser(userID string) ([]models.Notification, error) {
	return s.notificationRepo.FindByUser(userID)
}

func (s *notificationService) GetUnreadCount(userID string) (int64, error) {
	return s.notificationRepo.GetUnreadCount(userID)
}

func (s *notificationService) MarkAsRead(userID, notificationID string) (*models.Notification, error) {
	notification, err := s.notificationRepo.FindByID(notificationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrNotificationNotFound) {
			return nil, apperrors.ErrNotificationNotFound
		}
		return nil, err
	}
	if notification.UserID != userID {
		return nil, apperrors.ErrNotificationNotFound
	}

	// Idempotent: already read is a no-op.
	if notification.IsRead {
		return notification, nil
	}

	if err := s.notificationRepo.MarkAsRead(notificationID); err != nil {
		return nil, err
	}
	return s.notificationRepo.FindByID(notificationID)
}

// ---------------- Factory methods ----------------

// EventPayload is the structured payload attached to every workflow
// notification, so clients can render links without a second fetch.
func EventPayload(event *models.Event) datatypes.JSON {
	payload, err := json.Marshal(map[string]string{
		"event_id":   event.ID,
		"event_name": event.Name,
		"status":     string(event.Status),
	})
	if err != nil {
		return nil
	}
	return datatypes.JSON(payload)
}

func (s *notificationService) NotifyEventAssigned(editorID string, event *models.Event) error {
	err := s.NotifyUser(editorID, models.NotificationTypeEventAssigned, &event.ID,
		"Event assigned to you",
		fmt.Sprintf("You have been assigned as editor for %q.", event.Name),
		EventPayload(event))
	if err != nil {
		return err
	}

	s.mirrorToEmail(editorID, "Event assigned to you",
		fmt.Sprintf("You have been assigned as editor for %q.", event.Name))
	return nil
}

func (s *notificationService) NotifyCameramanNewEvent(cameramanID string, event *models.Event) error {
	return s.NotifyUser(cameramanID, models.NotificationTypeEventAssigned, &event.ID,
		"New event assigned",
		fmt.Sprintf("You have been assigned to event %q. Please upload RAW media when ready.", event.Name),
		EventPayload(event))
}

func (s *notificationService) NotifyRawUploaded(event *models.Event) error {
	_, err := s.NotifyRole(models.UserRoleAdmin, models.NotificationTypeRawUploaded, &event.ID,
		"RAW media uploaded",
		fmt.Sprintf("Cameraman uploaded RAW media for %q.", event.Name),
		EventPayload(event))
	return err
}

func (s *notificationService) NotifyEditorRawAvailable(editorID string, event *models.Event) error {
	return s.NotifyUser(editorID, models.NotificationTypeRawUploaded, &event.ID,
		"New RAW media available",
		fmt.Sprintf("RAW media has been uploaded for %q. You can start editing now.", event.Name),
		EventPayload(event))
}

func (s *notificationService) NotifyFinalUploaded(event *models.Event) error {
	if _, err := s.NotifyRole(models.UserRoleAdmin, models.NotificationTypeFinalUploaded, &event.ID,
		"FINAL media uploaded",
		fmt.Sprintf("Editor uploaded FINAL output for %q.", event.Name),
		EventPayload(event)); err != nil {
		return err
	}

	return s.NotifyUser(event.CameramanID, models.NotificationTypeFinalUploaded, &event.ID,
		"FINAL media ready",
		fmt.Sprintf("Editor uploaded FINAL output for %q.", event.Name),
		EventPayload(event))
}

func (s *notificationService) NotifyCompleted(event *models.Event) error {
	_, err := s.NotifyRole(models.UserRoleAdmin, models.NotificationTypeCompleted, &event.ID,
		"Event completed",
		fmt.Sprintf("%q has been marked as COMPLETED.", event.Name),
		EventPayload(event))
	return err
}

// mirrorToEmail sends a copy of a notification by email when a provider
// is configured. Always best-effort.
func (s *notificationService) mirrorToEmail(userID, subject, body string) {
	if s.emailProvider == nil {
		return
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		logger.Warn("email mirror: user lookup failed", "user_id", userID, "error", err)
		return
	}

	msg := &email.Email{
		To:      []string{user.Email},
		Subject: subject,
		Body:    body,
	}
	if err := s.emailProvider.Send(msg); err != nil {
		logger.Warn("email mirror: send failed", "user_id", userID, "error", err)
	}
}
