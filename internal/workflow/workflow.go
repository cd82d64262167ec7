// Package workflow holds the pure rules of the event lifecycle:
// which status moves are legal, which role may request which move,
// and which uploads are legal in which state. Nothing here touches
// the database.
package workflow

import (
	"udaan_backend/internal/models"
)

// transitions is the adjacency list of the event lifecycle. The chain is
// linear; COMPLETED has no successors.
var transitions = map[models.EventStatus][]models.EventStatus{
	models.EventStatusCreated:       {models.EventStatusRawUploaded},
	models.EventStatusRawUploaded:   {models.EventStatusAssigned},
	models.EventStatusAssigned:      {models.EventStatusEditing},
	models.EventStatusEditing:       {models.EventStatusFinalUploaded},
	models.EventStatusFinalUploaded: {models.EventStatusCompleted},
	models.EventStatusCompleted:     {},
}

// CanTransition reports whether from -> to is a legal single-step move.
func CanTransition(from, to models.EventStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanUpload reports whether the given role may upload a file of the given
// type while the event is in the given status. This is a narrower guard
// than the transition table; callers still transition the event separately
// after a successful upload.
func CanUpload(role models.UserRole, fileType models.FileType, status models.EventStatus) bool {
	switch {
	case role == models.UserRoleCameraman && fileType == models.FileTypeRaw:
		return status == models.EventStatusCreated
	case role == models.UserRoleEditor && fileType == models.FileTypeFinal:
		return status == models.EventStatusEditing
	}
	return false
}

// RoleMayRequestStatus restricts which role may request which next status,
// independent of the transition table. No role can push an event through a
// stage it does not own.
func RoleMayRequestStatus(role models.UserRole, next models.EventStatus) bool {
	switch role {
	case models.UserRoleCameraman:
		return next == models.EventStatusRawUploaded
	case models.UserRoleAdmin:
		return next == models.EventStatusAssigned
	case models.UserRoleEditor:
		return next == models.EventStatusEditing ||
			next == models.EventStatusFinalUploaded ||
			next == models.EventStatusCompleted
	}
	return false
}
