package models

type UserRole string
type EventStatus string
type FileType string
type NotificationType string

const (
	UserRoleAdmin     UserRole = "admin"
	UserRoleCameraman UserRole = "cameraman"
	UserRoleEditor    UserRole = "editor"

	EventStatusCreated       EventStatus = "CREATED"
	EventStatusRawUploaded   EventStatus = "RAW_UPLOADED"
	EventStatusAssigned      EventStatus = "ASSIGNED"
	EventStatusEditing       EventStatus = "EDITING"
	EventStatusFinalUploaded EventStatus = "FINAL_UPLOADED"
	EventStatusCompleted     EventStatus = "COMPLETED"

	FileTypeRaw   FileType = "RAW"
	FileTypeFinal FileType = "FINAL"

	NotificationTypeEventAssigned NotificationType = "EVENT_ASSIGNED"
	NotificationTypeRawUploaded   NotificationType = "RAW_UPLOADED"
	NotificationTypeFinalUploaded NotificationType = "FINAL_UPLOADED"
	NotificationTypeCompleted     NotificationType = "COMPLETED"
)

// EventStatuses lists all statuses in workflow order.
var EventStatuses = []EventStatus{
	EventStatusCreated,
	EventStatusRawUploaded,
	EventStatusAssigned,
	EventStatusEditing,
	EventStatusFinalUploaded,
	EventStatusCompleted,
}

// UserRoles lists all roles.
var UserRoles = []UserRole{
	UserRoleAdmin,
	UserRoleCameraman,
	UserRoleEditor,
}

func ValidUserRole(role UserRole) bool {
	switch role {
	case UserRoleAdmin, UserRoleCameraman, UserRoleEditor:
		return true
	}
	return false
}

func ValidEventStatus(status EventStatus) bool {
	for _, s := range EventStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func ValidFileType(ft FileType) bool {
	return ft == FileTypeRaw || ft == FileTypeFinal
}
