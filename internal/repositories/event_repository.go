package repositories

import (
	"errors"
	"time"

	"udaan_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEventNotFound = errors.New("event not found")

	// ErrStatusConflict means the compare-and-set on the event status found
	// a different current status than expected. The caller re-reads and
	// decides whether that is an invalid transition.
	ErrStatusConflict = errors.New("event status changed concurrently")
)

type EventRepository interface {
	Create(event *models.Event) error
	FindByID(id string) (*models.Event, error)
	FindByIDWithFiles(id string) (*models.Event, error)
	FindAll() ([]models.Event, error)
	FindByCameraman(cameramanID string) ([]models.Event, error)
	FindForEditor(editorID string) ([]models.Event, error)

	// UpdateStatus moves the event from -> to with compare-and-set
	// semantics: it fails with ErrStatusConflict when the stored status
	// is no longer `from`, so two concurrent movers cannot both succeed.
	UpdateStatus(eventID string, from, to models.EventStatus) error

	SetEditor(eventID string, editorID *string) error

	// AutoAssignFreeEditor claims the oldest-registered free editor for the
	// event inside one transaction. Idempotent when the event already has
	// an editor; returns the event unchanged when no editor is free.
	AutoAssignFreeEditor(eventID string) (*models.Event, error)

	// FindStalledUnassigned lists events holding RAW media with no editor
	// whose last change predates `before`.
	FindStalledUnassigned(before time.Time) ([]models.Event, error)
}

type EventRepositoryImpl struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &EventRepositoryImpl{db: db}
}

func (r *EventRepositoryImpl) Create(event *models.Event) error {
	return r.db.Create(event).Error
}

func (r *EventRepositoryImpl) FindByID(id string) (*models.Event, error) {
	var event models.Event
	err := r.db.First(&event, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *EventRepositoryImpl) FindByIDWithFiles(id string) (*models.Event, error) {
	var event models.Event
	err := r.db.Preload("Files", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at desc")
	}).First(&event, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *EventRepositoryImpl) FindAll() ([]models.Event, error) {
	var events []models.Event
	err := r.db.Order("date desc").Find(&events).Error
	return events, err
}

func (r *EventRepositoryImpl) FindByCameraman(cameramanID string) ([]models.Event, error) {
	var events []models.Event
	err := r.db.Where("cameraman_id = ?", cameramanID).Order("date desc").Find(&events).Error
	return events, err
}

// FindForEditor returns events assigned to the editor plus events open for
// pickup (RAW_UPLOADED / ASSIGNED), matching the access guard.
func (r *EventRepositoryImpl) FindForEditor(editorID string) ([]models.Event, error) {
	var events []models.Event
	err := r.db.
		Where("editor_id = ?", editorID).
		Or("status IN ?", []models.EventStatus{models.EventStatusRawUploaded, models.EventStatusAssigned}).
		Order("date desc").
		Find(&events).Error
	return events, err
}

func (r *EventRepositoryImpl) FindStalledUnassigned(before time.Time) ([]models.Event, error) {
	var events []models.Event
	err := r.db.
		Where("status = ? AND editor_id IS NULL AND updated_at < ?",
			models.EventStatusRawUploaded, before).
		Order("updated_at asc").
		Find(&events).Error
	return events, err
}

func (r *EventRepositoryImpl) UpdateStatus(eventID string, from, to models.EventStatus) error {
	result := r.db.Model(&models.Event{}).
		Where("id = ? AND status = ?", eventID, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// Either the event is gone or its status moved under us.
		var event models.Event
		if err := r.db.Select("id").First(&event, "id = ?", eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}
		return ErrStatusConflict
	}
	return nil
}

func (r *EventRepositoryImpl) SetEditor(eventID string, editorID *string) error {
	result := r.db.Model(&models.Event{}).
		Where("id = ?", eventID).
		Updates(map[string]interface{}{
			"editor_id":  editorID,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *EventRepositoryImpl) AutoAssignFreeEditor(eventID string) (*models.Event, error) {
	var assigned models.Event

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&event, "id = ?", eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		// Idempotent: an already-assigned event is returned unchanged.
		if event.EditorID != nil {
			assigned = event
			return nil
		}

		// Row lock on the claimed editor so two concurrent RAW arrivals
		// cannot both take the same one. SKIP LOCKED makes a claim in
		// flight invisible instead of a blocked-then-empty result, so a
		// second free editor can still be picked.
		var editor models.User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
			Where("role = ? AND is_free = ?", models.UserRoleEditor, true).
			Order("created_at asc").
			First(&editor).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// No free editor is a normal condition, not a failure.
				assigned = event
				return nil
			}
			return err
		}

		if err := tx.Model(&models.User{}).Where("id = ?", editor.ID).
			Update("is_free", false).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Event{}).Where("id = ?", event.ID).
			Update("editor_id", editor.ID).Error; err != nil {
			return err
		}

		event.EditorID = &editor.ID
		assigned = event
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &assigned, nil
}
