package models

type User struct {
	BaseModel
	Name         string   `gorm:"not null" json:"name"`
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"type:varchar(20);not null" json:"role"`

	// IsFree is only meaningful for editors: it marks availability
	// for auto-assignment.
	IsFree bool `gorm:"default:true" json:"is_free"`
}
