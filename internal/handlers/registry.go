package handlers

import (
	"udaan_backend/internal/services"
	"udaan_backend/internal/validator"
)

// AppHandlers holds every HTTP handler in the application.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	EventHandler        *EventHandler
	UploadHandler       *UploadHandler
	NotificationHandler *NotificationHandler
}

func NewAppHandlers(container *services.ServiceContainer, v *validator.Validator) *AppHandlers {
	base := NewBaseHandler(v)

	return &AppHandlers{
		AuthHandler:         NewAuthHandler(base, container.Auth),
		UserHandler:         NewUserHandler(base, container.Users),
		EventHandler:        NewEventHandler(base, container.Events),
		UploadHandler:       NewUploadHandler(base, container.Uploads),
		NotificationHandler: NewNotificationHandler(base, container.Notifications),
	}
}
