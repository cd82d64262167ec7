package workers

import (
	"context"
	"fmt"
	"time"

	"udaan_backend/internal/logger"
	"udaan_backend/internal/models"
	"udaan_backend/internal/services"

	"gorm.io/datatypes"
)

const (
	reminderInterval = 1 * time.Hour
	stalledAfter     = 24 * time.Hour

	reminderTitle = "Event waiting for editor"
)

// EventSource is the slice of the event repository the worker reads.
type EventSource interface {
	FindStalledUnassigned(before time.Time) ([]models.Event, error)
}

// ReminderLedger answers whether an event has already been reminded
// about. Backed by the notification store, so the one-shot guarantee
// survives restarts and holds across instances.
type ReminderLedger interface {
	HasForEvent(eventID, title string) (bool, error)
}

// Notifier is the slice of the notification service the worker writes.
type Notifier interface {
	NotifyRole(role models.UserRole, ntype models.NotificationType, eventID *string, title, message string, data datatypes.JSON) (int, error)
}

// ReminderWorker nudges admins about events that uploaded RAW media but
// have been waiting for editor capacity longer than stalledAfter.
type ReminderWorker struct {
	events        EventSource
	ledger        ReminderLedger
	notifications Notifier
}

func NewReminderWorker(events EventSource, ledger ReminderLedger, notifications Notifier) *ReminderWorker {
	return &ReminderWorker{
		events:        events,
		ledger:        ledger,
		notifications: notifications,
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	go w.remindStalledEvents(ctx)
}

func (w *ReminderWorker) remindStalledEvents(ctx context.Context) {
	ticker := time.NewTicker(reminderInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Reminder worker stopped")
			return
		case <-ticker.C:
			w.runOnce()
		}
	}
}

func (w *ReminderWorker) runOnce() {
	stalled, err := w.events.FindStalledUnassigned(time.Now().Add(-stalledAfter))
	if err != nil {
		logger.Error("reminder worker query failed", "error", err)
		return
	}

	for i := range stalled {
		event := &stalled[i]

		reminded, err := w.ledger.HasForEvent(event.ID, reminderTitle)
		if err != nil {
			logger.Warn("reminder dedupe check failed", "event_id", event.ID, "error", err)
			continue
		}
		if reminded {
			continue
		}

		_, err = w.notifications.NotifyRole(models.UserRoleAdmin, models.NotificationTypeRawUploaded, &event.ID,
			reminderTitle,
			fmt.Sprintf("%q has had RAW media for over %d hours with no editor available.",
				event.Name, int(stalledAfter.Hours())),
			services.EventPayload(event))
		if err != nil {
			logger.Warn("reminder notification failed", "event_id", event.ID, "error", err)
		}
	}
}
