package models

// MediaFile is an append-only record of an uploaded file.
// Rows are never updated after creation.
type MediaFile struct {
	BaseModel
	EventID    string   `gorm:"type:uuid;not null;index" json:"event_id"`
	UploaderID string   `gorm:"type:uuid;not null" json:"uploader_id"`
	FileType   FileType `gorm:"type:varchar(10);not null" json:"file_type"`
	Name       string   `gorm:"not null" json:"name"`
	StorageRef string   `gorm:"not null" json:"storage_ref"`
	Size       int64    `json:"size"`
	MimeType   string   `json:"mime_type"`

	// ThumbnailRef is set for FINAL stills that got a preview rendered.
	ThumbnailRef *string `json:"thumbnail_ref,omitempty"`
}
