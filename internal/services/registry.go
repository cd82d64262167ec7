package services

import (
	"udaan_backend/internal/email"
	"udaan_backend/internal/repositories"
	"udaan_backend/internal/storage"

	"gorm.io/gorm"
)

// ServiceContainer bundles all services for wiring in app setup.
type ServiceContainer struct {
	Auth          AuthService
	Users         UserService
	Events        EventService
	Assignments   AssignmentService
	Notifications NotificationService
	Uploads       UploadService
}

func NewServiceContainer(db *gorm.DB, store storage.Storage, emailProvider email.Provider, uploadCfg UploadConfig) *ServiceContainer {
	userRepo := repositories.NewUserRepository(db)
	eventRepo := repositories.NewEventRepository(db)
	fileRepo := repositories.NewFileRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	notifications := NewNotificationService(notificationRepo, userRepo, emailProvider)
	assignments := NewAssignmentService(eventRepo, userRepo)
	events := NewEventService(eventRepo, userRepo, fileRepo, assignments, notifications)
	uploads := NewUploadService(eventRepo, fileRepo, events, store, uploadCfg)

	return &ServiceContainer{
		Auth:          NewAuthService(userRepo),
		Users:         NewUserService(userRepo),
		Events:        events,
		Assignments:   assignments,
		Notifications: notifications,
		Uploads:       uploads,
	}
}
