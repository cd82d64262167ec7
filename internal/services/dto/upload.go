package dto

import "udaan_backend/internal/models"

type UploadQuery struct {
	EventID  string          `form:"eventId" validate:"required,uuid4"`
	FileType models.FileType `form:"fileType" validate:"required,is-file-type"`
}

type UploadResponse struct {
	Files []models.MediaFile `json:"files"`
}

type FileURLResponse struct {
	URL          string  `json:"url"`
	Name         string  `json:"name"`
	MimeType     string  `json:"mime_type"`
	Size         int64   `json:"size"`
	ExpiresAt    int64   `json:"expires_at"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty"`
}
