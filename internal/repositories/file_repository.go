package repositories

import (
	"errors"

	"udaan_backend/internal/models"

	"gorm.io/gorm"
)

var ErrFileNotFound = errors.New("file not found")

type FileRepository interface {
	Create(file *models.MediaFile) error
	FindByID(id string) (*models.MediaFile, error)
	FindByEvent(eventID string, fileType *models.FileType) ([]models.MediaFile, error)
}

type FileRepositoryImpl struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) FileRepository {
	return &FileRepositoryImpl{db: db}
}

func (r *FileRepositoryImpl) Create(file *models.MediaFile) error {
	return r.db.Create(file).Error
}

func (r *FileRepositoryImpl) FindByID(id string) (*models.MediaFile, error) {
	var file models.MediaFile
	err := r.db.First(&file, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return &file, nil
}

func (r *FileRepositoryImpl) FindByEvent(eventID string, fileType *models.FileType) ([]models.MediaFile, error) {
	var files []models.MediaFile
	query := r.db.Where("event_id = ?", eventID)
	if fileType != nil {
		query = query.Where("file_type = ?", *fileType)
	}
	err := query.Order("created_at desc").Find(&files).Error
	return files, err
}
