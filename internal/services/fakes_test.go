package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"udaan_backend/internal/models"
	"udaan_backend/internal/repositories"
)

// In-memory fakes for the repository interfaces. They reproduce the
// store's concurrency contract: compare-and-set on event status and an
// atomic claim in AutoAssignFreeEditor, both under one mutex.

type fakeStore struct {
	mu            sync.Mutex
	users         map[string]*models.User
	events        map[string]*models.Event
	files         map[string]*models.MediaFile
	notifications map[string]*models.Notification
	seq           int
	clock         time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:         make(map[string]*models.User),
		events:        make(map[string]*models.Event),
		files:         make(map[string]*models.MediaFile),
		notifications: make(map[string]*models.Notification),
		clock:         time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// nextID and tick must be called with the mutex held.
func (s *fakeStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func (s *fakeStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *fakeStore) addUser(name, email string, role models.UserRole, free bool) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := &models.User{
		BaseModel:    models.BaseModel{ID: s.nextID("user"), CreatedAt: s.tick()},
		Name:         name,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
		IsFree:       free,
	}
	s.users[user.ID] = user
	return user
}

func (s *fakeStore) addEvent(name string, cameramanID string, editorID *string, status models.EventStatus) *models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID("event")
	raw := "events/" + id + "/raw"
	final := "events/" + id + "/final"
	event := &models.Event{
		BaseModel:      models.BaseModel{ID: id, CreatedAt: s.tick()},
		Name:           name,
		Date:           s.clock,
		Status:         status,
		CameramanID:    cameramanID,
		EditorID:       editorID,
		FolderRawRef:   &raw,
		FolderFinalRef: &final,
	}
	s.events[event.ID] = event
	return event
}

func (s *fakeStore) setStatus(eventID string, status models.EventStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if event, ok := s.events[eventID]; ok {
		event.Status = status
	}
}

func (s *fakeStore) notificationsFor(userID string) []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func copyEvent(e *models.Event) *models.Event {
	clone := *e
	if e.EditorID != nil {
		id := *e.EditorID
		clone.EditorID = &id
	}
	return &clone
}

// ---------------- user repository ----------------

type fakeUserRepo struct{ store *fakeStore }

func (r *fakeUserRepo) FindByID(id string) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, user := range r.store.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user.ID = r.store.nextID("user")
	user.CreatedAt = r.store.tick()
	r.store.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) FindByRole(role models.UserRole) ([]models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var users []models.User
	for _, user := range r.store.users {
		if user.Role == role {
			users = append(users, *user)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (r *fakeUserRepo) FindAll() ([]models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var users []models.User
	for _, user := range r.store.users {
		users = append(users, *user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (r *fakeUserRepo) CountByRole(role models.UserRole) (int64, error) {
	users, _ := r.FindByRole(role)
	return int64(len(users)), nil
}

func (r *fakeUserRepo) SetEditorFree(editorID string, free bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[editorID]
	if !ok || user.Role != models.UserRoleEditor {
		return repositories.ErrUserNotFound
	}
	user.IsFree = free
	return nil
}

// ---------------- event repository ----------------

type fakeEventRepo struct {
	store *fakeStore

	// beforeUpdateStatus, when set, runs before the compare-and-set takes
	// the lock, so a test can interleave a concurrent writer at exactly
	// the read-to-write window.
	beforeUpdateStatus func()
}

func (r *fakeEventRepo) Create(event *models.Event) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if event.ID == "" {
		event.ID = r.store.nextID("event")
	}
	event.CreatedAt = r.store.tick()
	r.store.events[event.ID] = copyEvent(event)
	return nil
}

func (r *fakeEventRepo) FindByID(id string) (*models.Event, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	event, ok := r.store.events[id]
	if !ok {
		return nil, repositories.ErrEventNotFound
	}
	return copyEvent(event), nil
}

func (r *fakeEventRepo) FindByIDWithFiles(id string) (*models.Event, error) {
	return r.FindByID(id)
}

func (r *fakeEventRepo) FindAll() ([]models.Event, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var events []models.Event
	for _, event := range r.store.events {
		events = append(events, *copyEvent(event))
	}
	return events, nil
}

func (r *fakeEventRepo) FindByCameraman(cameramanID string) ([]models.Event, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var events []models.Event
	for _, event := range r.store.events {
		if event.CameramanID == cameramanID {
			events = append(events, *copyEvent(event))
		}
	}
	return events, nil
}

func (r *fakeEventRepo) FindForEditor(editorID string) ([]models.Event, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var events []models.Event
	for _, event := range r.store.events {
		assigned := event.EditorID != nil && *event.EditorID == editorID
		open := event.Status == models.EventStatusRawUploaded || event.Status == models.EventStatusAssigned
		if assigned || open {
			events = append(events, *copyEvent(event))
		}
	}
	return events, nil
}

func (r *fakeEventRepo) UpdateStatus(eventID string, from, to models.EventStatus) error {
	if r.beforeUpdateStatus != nil {
		r.beforeUpdateStatus()
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	event, ok := r.store.events[eventID]
	if !ok {
		return repositories.ErrEventNotFound
	}
	if event.Status != from {
		return repositories.ErrStatusConflict
	}
	event.Status = to
	return nil
}

func (r *fakeEventRepo) SetEditor(eventID string, editorID *string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	event, ok := r.store.events[eventID]
	if !ok {
		return repositories.ErrEventNotFound
	}
	if editorID != nil {
		id := *editorID
		event.EditorID = &id
	} else {
		event.EditorID = nil
	}
	return nil
}

func (r *fakeEventRepo) AutoAssignFreeEditor(eventID string) (*models.Event, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	event, ok := r.store.events[eventID]
	if !ok {
		return nil, repositories.ErrEventNotFound
	}
	if event.EditorID != nil {
		return copyEvent(event), nil
	}

	var candidate *models.User
	for _, user := range r.store.users {
		if user.Role != models.UserRoleEditor || !user.IsFree {
			continue
		}
		if candidate == nil || user.CreatedAt.Before(candidate.CreatedAt) {
			candidate = user
		}
	}
	if candidate == nil {
		return copyEvent(event), nil
	}

	candidate.IsFree = false
	id := candidate.ID
	event.EditorID = &id
	return copyEvent(event), nil
}

func (r *fakeEventRepo) FindStalledUnassigned(before time.Time) ([]models.Event, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var events []models.Event
	for _, event := range r.store.events {
		if event.Status != models.EventStatusRawUploaded || event.EditorID != nil {
			continue
		}
		if event.UpdatedAt.Before(before) {
			events = append(events, *copyEvent(event))
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].UpdatedAt.Before(events[j].UpdatedAt) })
	return events, nil
}

// ---------------- file repository ----------------

type fakeFileRepo struct {
	store *fakeStore

	createErr error
}

func (r *fakeFileRepo) Create(file *models.MediaFile) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	file.ID = r.store.nextID("file")
	file.CreatedAt = r.store.tick()
	clone := *file
	r.store.files[file.ID] = &clone
	return nil
}

func (r *fakeFileRepo) FindByID(id string) (*models.MediaFile, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	file, ok := r.store.files[id]
	if !ok {
		return nil, repositories.ErrFileNotFound
	}
	clone := *file
	return &clone, nil
}

func (r *fakeFileRepo) FindByEvent(eventID string, fileType *models.FileType) ([]models.MediaFile, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var files []models.MediaFile
	for _, file := range r.store.files {
		if file.EventID != eventID {
			continue
		}
		if fileType != nil && file.FileType != *fileType {
			continue
		}
		files = append(files, *file)
	}
	return files, nil
}

// ---------------- notification repository ----------------

type fakeNotificationRepo struct{ store *fakeStore }

func (r *fakeNotificationRepo) Create(notification *models.Notification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	notification.ID = r.store.nextID("notif")
	notification.CreatedAt = r.store.tick()
	clone := *notification
	r.store.notifications[notification.ID] = &clone
	return nil
}

func (r *fakeNotificationRepo) CreateBulk(notifications []*models.Notification) error {
	for _, n := range notifications {
		if err := r.Create(n); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeNotificationRepo) FindByID(id string) (*models.Notification, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	notification, ok := r.store.notifications[id]
	if !ok {
		return nil, repositories.ErrNotificationNotFound
	}
	clone := *notification
	return &clone, nil
}

func (r *fakeNotificationRepo) FindByUser(userID string) ([]models.Notification, error) {
	return r.store.notificationsFor(userID), nil
}

func (r *fakeNotificationRepo) MarkAsRead(id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	notification, ok := r.store.notifications[id]
	if !ok {
		return repositories.ErrNotificationNotFound
	}
	now := r.store.tick()
	notification.IsRead = true
	notification.ReadAt = &now
	return nil
}

func (r *fakeNotificationRepo) HasForEvent(eventID, title string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, n := range r.store.notifications {
		if n.EventID != nil && *n.EventID == eventID && n.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeNotificationRepo) GetUnreadCount(userID string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var count int64
	for _, n := range r.store.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

// ---------------- blob storage ----------------

type fakeBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string][]byte)}
}

func (s *fakeBlobStore) Save(ctx context.Context, ref string, reader io.Reader, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[ref] = data
	return nil
}

func (s *fakeBlobStore) Get(ctx context.Context, ref string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[ref]
	if !ok {
		return nil, fmt.Errorf("object not found: %s", ref)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeBlobStore) Delete(ctx context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, ref)
	return nil
}

func (s *fakeBlobStore) Exists(ctx context.Context, ref string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[ref]
	return ok, nil
}

func (s *fakeBlobStore) GetURL(ctx context.Context, ref string) (string, error) {
	return "/files/" + ref, nil
}

func (s *fakeBlobStore) GetSignedURL(ctx context.Context, ref string, expiry time.Duration) (string, error) {
	return "/files/" + ref, nil
}

func (s *fakeBlobStore) GetSize(ctx context.Context, ref string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[ref]
	if !ok {
		return 0, fmt.Errorf("object not found: %s", ref)
	}
	return int64(len(data)), nil
}

// ---------------- harness ----------------

type testEnv struct {
	store         *fakeStore
	blob          *fakeBlobStore
	userRepo      *fakeUserRepo
	eventRepo     *fakeEventRepo
	fileRepo      *fakeFileRepo
	notifRepo     *fakeNotificationRepo
	notifications NotificationService
	assignments   AssignmentService
	events        EventService
	uploads       UploadService
}

func newTestEnv() *testEnv {
	store := newFakeStore()
	blob := newFakeBlobStore()

	userRepo := &fakeUserRepo{store: store}
	eventRepo := &fakeEventRepo{store: store}
	fileRepo := &fakeFileRepo{store: store}
	notifRepo := &fakeNotificationRepo{store: store}

	notifications := NewNotificationService(notifRepo, userRepo, nil)
	assignments := NewAssignmentService(eventRepo, userRepo)
	events := NewEventService(eventRepo, userRepo, fileRepo, assignments, notifications)
	uploads := NewUploadService(eventRepo, fileRepo, events, blob, UploadConfig{
		MaxSize: 64 * 1024 * 1024 * 1024,
	})

	return &testEnv{
		store:         store,
		blob:          blob,
		userRepo:      userRepo,
		eventRepo:     eventRepo,
		fileRepo:      fileRepo,
		notifRepo:     notifRepo,
		notifications: notifications,
		assignments:   assignments,
		events:        events,
		uploads:       uploads,
	}
}
