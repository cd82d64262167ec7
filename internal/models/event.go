package models

import "time"

type Event struct {
	BaseModel
	Name   string      `gorm:"not null" json:"name"`
	Date   time.Time   `gorm:"not null" json:"date"`
	Status EventStatus `gorm:"type:varchar(20);not null;default:'CREATED'" json:"status"`

	CameramanID string  `gorm:"type:uuid;not null;index" json:"cameraman_id"`
	EditorID    *string `gorm:"type:uuid;index" json:"editor_id"`

	// External blob-store folder references, provisioned out-of-band.
	FolderRootRef   *string `gorm:"column:folder_root_ref" json:"folder_root_ref"`
	FolderRawRef    *string `gorm:"column:folder_raw_ref" json:"folder_raw_ref"`
	FolderEditedRef *string `gorm:"column:folder_edited_ref" json:"folder_edited_ref"`
	FolderFinalRef  *string `gorm:"column:folder_final_ref" json:"folder_final_ref"`

	// Relations
	Files []MediaFile `gorm:"foreignKey:EventID" json:"files,omitempty"`
}
