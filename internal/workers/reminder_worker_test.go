package workers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"udaan_backend/internal/models"
)

type stubEvents struct{ stalled []models.Event }

func (s *stubEvents) FindStalledUnassigned(before time.Time) ([]models.Event, error) {
	return s.stalled, nil
}

// stubLedger plays the notification store: reminders written through the
// notifier become visible to the dedupe check, like rows would.
type stubLedger struct{ sent map[string]string }

func (l *stubLedger) HasForEvent(eventID, title string) (bool, error) {
	return l.sent[eventID] == title, nil
}

type stubNotifier struct {
	ledger *stubLedger
	calls  []string
}

func (n *stubNotifier) NotifyRole(role models.UserRole, ntype models.NotificationType, eventID *string, title, message string, data datatypes.JSON) (int, error) {
	n.calls = append(n.calls, *eventID)
	n.ledger.sent[*eventID] = title
	return 1, nil
}

func stalledEvent(id, name string) models.Event {
	return models.Event{
		BaseModel: models.BaseModel{ID: id},
		Name:      name,
		Status:    models.EventStatusRawUploaded,
	}
}

func TestReminderFiresOncePerEvent(t *testing.T) {
	events := &stubEvents{stalled: []models.Event{
		stalledEvent("event-1", "Wedding"),
		stalledEvent("event-2", "Concert"),
	}}
	ledger := &stubLedger{sent: map[string]string{"event-1": reminderTitle}}
	notifier := &stubNotifier{ledger: ledger}

	worker := NewReminderWorker(events, ledger, notifier)
	worker.runOnce()

	// Only the event with no reminder on record gets one.
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, "event-2", notifier.calls[0])

	worker.runOnce()
	assert.Len(t, notifier.calls, 1)
}

func TestReminderDedupeSurvivesRestart(t *testing.T) {
	events := &stubEvents{stalled: []models.Event{stalledEvent("event-1", "Wedding")}}
	ledger := &stubLedger{sent: map[string]string{}}
	notifier := &stubNotifier{ledger: ledger}

	NewReminderWorker(events, ledger, notifier).runOnce()
	require.Len(t, notifier.calls, 1)

	// A fresh worker over the same store must not re-notify.
	NewReminderWorker(events, ledger, notifier).runOnce()
	assert.Len(t, notifier.calls, 1)
}
