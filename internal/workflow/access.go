package workflow

import (
	"udaan_backend/internal/models"
)

// CanAccessEvent decides whether a user may read or act on an event.
// Admins see everything; a cameraman only their own events. Editors see
// their assigned events plus events open for pickup (RAW_UPLOADED or
// ASSIGNED), so an unassigned editor can discover available work.
func CanAccessEvent(role models.UserRole, userID string, event *models.Event) bool {
	switch role {
	case models.UserRoleAdmin:
		return true
	case models.UserRoleCameraman:
		return event.CameramanID == userID
	case models.UserRoleEditor:
		if event.EditorID != nil && *event.EditorID == userID {
			return true
		}
		return event.Status == models.EventStatusRawUploaded ||
			event.Status == models.EventStatusAssigned
	}
	return false
}
