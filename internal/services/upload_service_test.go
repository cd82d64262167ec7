package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"udaan_backend/internal/apperrors"
	"udaan_backend/internal/models"
)

func uploadInput(name, mimeType, content string) UploadInput {
	return UploadInput{
		Name:     name,
		Size:     int64(len(content)),
		MimeType: mimeType,
		Reader:   strings.NewReader(content),
	}
}

func TestUploadRawAdvancesWorkflow(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	cameraman := env.store.addUser("Cam", "cam@udaan.local", models.UserRoleCameraman, true)
	editor := env.store.addUser("Ed", "ed@udaan.local", models.UserRoleEditor, true)
	event := env.store.addEvent("Concert", cameraman.ID, nil, models.EventStatusCreated)

	files, err := env.uploads.UploadFiles(ctx, models.UserRoleCameraman, cameraman.ID, event.ID,
		models.FileTypeRaw, []UploadInput{
			uploadInput("clip1.mov", "video/quicktime", "raw bytes one"),
			uploadInput("clip2.mov", "video/quicktime", "raw bytes two"),
		})
	require.NoError(t, err)
	require.Len(t, files, 2)

	for _, file := range files {
		assert.Equal(t, models.FileTypeRaw, file.FileType)
		assert.Equal(t, cameraman.ID, file.UploaderID)
		assert.True(t, strings.HasPrefix(file.StorageRef, "events/"+event.ID+"/raw/"), file.StorageRef)

		ok, err := env.blob.Exists(ctx, file.StorageRef)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	// The arrival drove the workflow: RAW_UPLOADED, then ASSIGNED to the
	// free editor.
	updated, err := env.eventRepo.FindByID(event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusAssigned, updated.Status)
	require.NotNil(t, updated.EditorID)
	assert.Equal(t, editor.ID, *updated.EditorID)
}

func TestUploadRejectsUnassignedUploader(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	cameraman := env.store.addUser("Cam", "cam@udaan.local", models.UserRoleCameraman, true)
	other := env.store.addUser("Other", "other@udaan.local", models.UserRoleCameraman, true)
	event := env.store.addEvent("Concert", cameraman.ID, nil, models.EventStatusCreated)

	_, err := env.uploads.UploadFiles(ctx, models.UserRoleCameraman, other.ID, event.ID,
		models.FileTypeRaw, []UploadInput{uploadInput("clip.mov", "video/quicktime", "x")})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeForbidden, appErr.Code)
}

func TestUploadRejectsWrongStatus(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	cameraman := env.store.addUser("Cam", "cam@udaan.local", models.UserRoleCameraman, true)
	editor := env.store.addUser("Ed", "ed@udaan.local", models.UserRoleEditor, false)
	event := env.store.addEvent("Concert", cameraman.ID, &editor.ID, models.EventStatusAssigned)

	// RAW after the event moved on.
	_, err := env.uploads.UploadFiles(ctx, models.UserRoleCameraman, cameraman.ID, event.ID,
		models.FileTypeRaw, []UploadInput{uploadInput("late.mov", "video/quicktime", "x")})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeUploadNotAllowed, appErr.Code)

	// FINAL before the editor starts editing.
	_, err = env.uploads.UploadFiles(ctx, models.UserRoleEditor, editor.ID, event.ID,
		models.FileTypeFinal, []UploadInput{uploadInput("cut.mp4", "video/mp4", "x")})
	require.Error(t, err)
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeUploadNotAllowed, appErr.Code)
}

func TestUploadBlocksExecutablesInRaw(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	cameraman := env.store.addUser("Cam", "cam@udaan.local", models.UserRoleCameraman, true)
	event := env.store.addEvent("Concert", cameraman.ID, nil, models.EventStatusCreated)

	_, err := env.uploads.UploadFiles(ctx, models.UserRoleCameraman, cameraman.ID, event.ID,
		models.FileTypeRaw, []UploadInput{
			uploadInput("clip.mov", "video/quicktime", "ok"),
			uploadInput("malware.exe", "application/x-msdownload", "nope"),
		})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)

	// Nothing was streamed: the batch validates before the first write.
	assert.Empty(t, env.blob.objects)
	stored, err := env.fileRepo.FindByEvent(event.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestUploadFinalEnforcesMimeAllowlist(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	cameraman := env.store.addUser("Cam", "cam@udaan.local", models.UserRoleCameraman, true)
	editor := env.store.addUser("Ed", "ed@udaan.local", models.UserRoleEditor, false)
	event := env.store.addEvent("Concert", cameraman.ID, &editor.ID, models.EventStatusEditing)

	_, err := env.uploads.UploadFiles(ctx, models.UserRoleEditor, editor.ID, event.ID,
		models.FileTypeFinal, []UploadInput{uploadInput("cut.mkv", "video/x-matroska", "x")})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)

	files, err := env.uploads.UploadFiles(ctx, models.UserRoleEditor, editor.ID, event.ID,
		models.FileTypeFinal, []UploadInput{uploadInput("cut.mp4", "video/mp4", "final bytes")})
	require.NoError(t, err)
	require.Len(t, files, 1)

	updated, err := env.eventRepo.FindByID(event.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EventStatusFinalUploaded, updated.Status)
}

func TestAdminUploadGate(t *testing.T) {
	ctx := context.Background()

	env := newTestEnv()
	admin := env.store.addUser("Admin", "admin@udaan.local", models.UserRoleAdmin, true)
	cameraman := env.store.addUser("Cam", "cam@udaan.local", models.UserRoleCameraman, true)
	event := env.store.addEvent("Concert", cameraman.ID, nil, models.EventStatusCreated)

	_, err := env.uploads.UploadFiles(ctx, models.UserRoleAdmin, admin.ID, event.ID,
		models.FileTypeRaw, []UploadInput{uploadInput("clip.mov", "video/quicktime", "x")})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeForbidden, appErr.Code)

	// With the debug flag the admin passes through the cameraman's gate.
	debugUploads := NewUploadService(env.eventRepo, env.fileRepo, env.events, env.blob, UploadConfig{
		MaxSize:            1 << 30,
		AllowAdminRawDebug: true,
	})
	files, err := debugUploads.UploadFiles(ctx, models.UserRoleAdmin, admin.ID, event.ID,
		models.FileTypeRaw, []UploadInput{uploadInput("clip.mov", "video/quicktime", "x")})
	require.NoError(t, err)
	require.Len(t, files, 1)

	// FINAL stays blocked even with the flag.
	_, err = debugUploads.UploadFiles(ctx, models.UserRoleAdmin, admin.ID, event.ID,
		models.FileTypeFinal, []UploadInput{uploadInput("cut.mp4", "video/mp4", "x")})
	require.Error(t, err)
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeForbidden, appErr.Code)
}

func TestUploadEnforcesSizeCap(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	cameraman := env.store.addUser("Cam", "cam@udaan.local", models.UserRoleCameraman, true)
	event := env.store.addEvent("Concert", cameraman.ID, nil, models.EventStatusCreated)

	small := NewUploadService(env.eventRepo, env.fileRepo, env.events, env.blob, UploadConfig{MaxSize: 4})
	_, err := small.UploadFiles(ctx, models.UserRoleCameraman, cameraman.ID, event.ID,
		models.FileTypeRaw, []UploadInput{uploadInput("big.mov", "video/quicktime", "way too big")})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
}

func TestDownloadEnforcesEventAccess(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	cameraman := env.store.addUser("Cam", "cam@udaan.local", models.UserRoleCameraman, true)
	stranger := env.store.addUser("Other", "other@udaan.local", models.UserRoleCameraman, true)
	event := env.store.addEvent("Concert", cameraman.ID, nil, models.EventStatusCreated)

	files, err := env.uploads.UploadFiles(ctx, models.UserRoleCameraman, cameraman.ID, event.ID,
		models.FileTypeRaw, []UploadInput{uploadInput("clip.mov", "video/quicktime", "raw bytes")})
	require.NoError(t, err)
	require.Len(t, files, 1)

	reader, file, err := env.uploads.Download(ctx, models.UserRoleCameraman, cameraman.ID, files[0].ID)
	require.NoError(t, err)
	defer reader.Close()
	assert.Equal(t, "clip.mov", file.Name)

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "raw bytes", string(data))

	_, _, err = env.uploads.Download(ctx, models.UserRoleCameraman, stranger.ID, files[0].ID)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeForbidden, appErr.Code)
}

func TestGetDownloadURL(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	cameraman := env.store.addUser("Cam", "cam@udaan.local", models.UserRoleCameraman, true)
	stranger := env.store.addUser("Other", "other@udaan.local", models.UserRoleCameraman, true)
	event := env.store.addEvent("Concert", cameraman.ID, nil, models.EventStatusCreated)

	files, err := env.uploads.UploadFiles(ctx, models.UserRoleCameraman, cameraman.ID, event.ID,
		models.FileTypeRaw, []UploadInput{uploadInput("clip.mov", "video/quicktime", "raw bytes")})
	require.NoError(t, err)
	require.Len(t, files, 1)

	resp, err := env.uploads.GetDownloadURL(ctx, models.UserRoleCameraman, cameraman.ID, files[0].ID, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "/files/"+files[0].StorageRef, resp.URL)
	assert.Equal(t, "clip.mov", resp.Name)
	// The reported size comes from the blob store, not the upload claim.
	assert.Equal(t, int64(len("raw bytes")), resp.Size)
	assert.Greater(t, resp.ExpiresAt, time.Now().Unix())

	_, err = env.uploads.GetDownloadURL(ctx, models.UserRoleCameraman, stranger.ID, files[0].ID, time.Hour)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeForbidden, appErr.Code)
}

func TestGetDownloadURLMissingBlob(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	cameraman := env.store.addUser("Cam", "cam@udaan.local", models.UserRoleCameraman, true)
	event := env.store.addEvent("Concert", cameraman.ID, nil, models.EventStatusCreated)

	files, err := env.uploads.UploadFiles(ctx, models.UserRoleCameraman, cameraman.ID, event.ID,
		models.FileTypeRaw, []UploadInput{uploadInput("clip.mov", "video/quicktime", "raw bytes")})
	require.NoError(t, err)
	require.Len(t, files, 1)

	// The metadata row survives but the object is gone.
	require.NoError(t, env.blob.Delete(ctx, files[0].StorageRef))

	_, err = env.uploads.GetDownloadURL(ctx, models.UserRoleCameraman, cameraman.ID, files[0].ID, time.Hour)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeFileNotFound, appErr.Code)
}

func TestUploadCleansUpBlobsWhenMetadataFails(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	cameraman := env.store.addUser("Cam", "cam@udaan.local", models.UserRoleCameraman, true)
	event := env.store.addEvent("Concert", cameraman.ID, nil, models.EventStatusCreated)

	env.fileRepo.createErr = errors.New("insert failed")

	_, err := env.uploads.UploadFiles(ctx, models.UserRoleCameraman, cameraman.ID, event.ID,
		models.FileTypeRaw, []UploadInput{uploadInput("clip.mov", "video/quicktime", "raw bytes")})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeUpstreamFailure, appErr.Code)

	// The streamed object was deleted, no orphan without a metadata row.
	assert.Empty(t, env.blob.objects)
}
