package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"udaan_backend/internal/apperrors"
	"udaan_backend/internal/imageprocessor"
	"udaan_backend/internal/logger"
	"udaan_backend/internal/models"
	"udaan_backend/internal/repositories"
	"udaan_backend/internal/services/dto"
	"udaan_backend/internal/storage"
	"udaan_backend/internal/workflow"

	"github.com/google/uuid"
)

// UploadInput is one incoming file from a multipart request.
type UploadInput struct {
	Name     string
	Size     int64
	MimeType string
	Reader   io.Reader
}

// UploadConfig carries the upload-layer knobs from app config.
type UploadConfig struct {
	MaxSize int64
	// AllowAdminRawDebug opens a debug-only path for admins to upload RAW
	// media. It lives here, outside the workflow rules, on purpose.
	AllowAdminRawDebug bool
}

type UploadService interface {
	// UploadFiles validates, streams each file to the blob store, persists
	// the MediaFile rows and then drives the workflow's file-arrival path.
	UploadFiles(ctx context.Context, role models.UserRole, userID, eventID string, fileType models.FileType, files []UploadInput) ([]models.MediaFile, error)

	// Download opens a stream for a stored file, enforcing event access.
	Download(ctx context.Context, role models.UserRole, userID, fileID string) (io.ReadCloser, *models.MediaFile, error)

	// GetDownloadURL issues a temporary signed URL for a stored file so
	// large media can be fetched straight from the blob store.
	GetDownloadURL(ctx context.Context, role models.UserRole, userID, fileID string, expiry time.Duration) (*dto.FileURLResponse, error)
}

type uploadService struct {
	eventRepo repositories.EventRepository
	fileRepo  repositories.FileRepository
	events    EventService
	store     storage.Storage
	thumbs    *imageprocessor.Processor
	cfg       UploadConfig
}

func NewUploadService(
	eventRepo repositories.EventRepository,
	fileRepo repositories.FileRepository,
	events EventService,
	store storage.Storage,
	cfg UploadConfig,
) UploadService {
	return &uploadService{
		eventRepo: eventRepo,
		fileRepo:  fileRepo,
		events:    events,
		store:     store,
		thumbs:    imageprocessor.NewProcessor(85),
		cfg:       cfg,
	}
}

func (s *uploadService) UploadFiles(ctx context.Context, role models.UserRole, userID, eventID string, fileType models.FileType, files []UploadInput) ([]models.MediaFile, error) {
	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrEventNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, err
	}

	// Uploaders must be assigned to the event.
	if role == models.UserRoleCameraman && event.CameramanID != userID {
		return nil, apperrors.ErrForbidden.WithMessage("Not assigned to this event")
	}
	if role == models.UserRoleEditor && (event.EditorID == nil || *event.EditorID != userID) {
		return nil, apperrors.ErrForbidden.WithMessage("Not assigned to this event")
	}

	guardRole := role
	if role == models.UserRoleAdmin {
		// Admins never upload media, except RAW behind the debug flag,
		// which is checked with the cameraman's gate.
		if !(s.cfg.AllowAdminRawDebug && fileType == models.FileTypeRaw) {
			return nil, apperrors.ErrForbidden.WithMessage("Admin cannot upload media")
		}
		logger.Warn("admin RAW upload allowed by debug flag", "user_id", userID, "event_id", eventID)
		guardRole = models.UserRoleCameraman
	}

	if !workflow.CanUpload(guardRole, fileType, event.Status) {
		message := "Upload not allowed in current status"
		switch {
		case guardRole == models.UserRoleCameraman && fileType == models.FileTypeRaw:
			message = "Cameraman can upload RAW only when event status is CREATED"
		case guardRole == models.UserRoleEditor && fileType == models.FileTypeFinal:
			message = "Editor can upload FINAL only when event status is EDITING"
		}
		return nil, apperrors.ErrUploadNotAllowed.WithMessage(message)
	}

	if len(files) == 0 {
		return nil, apperrors.NewBadRequestError("No files provided (use form field name 'files')")
	}

	// Validate everything before streaming anything.
	var validationErrors []string
	for _, f := range files {
		if err := validateFile(f.Name, f.MimeType, f.Size, s.cfg.MaxSize, fileType); err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("%s: %v", f.Name, err))
		}
	}
	if len(validationErrors) > 0 {
		return nil, apperrors.ValidationError(validationErrors).
			WithMessage("Validation failed for one or more files")
	}

	folderRef, err := s.folderFor(event, fileType)
	if err != nil {
		return nil, err
	}

	// Refs stored so far in this batch; a mid-batch failure deletes them
	// so the blob store holds no orphans without a MediaFile row.
	var storedRefs []string

	created := make([]models.MediaFile, 0, len(files))
	for _, f := range files {
		mimeType := f.MimeType
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		name := f.Name
		if name == "" {
			name = "upload.bin"
		}

		ref := fmt.Sprintf("%s/%s%s", folderRef, uuid.NewString(), sanitizeExt(name))

		// Delivered stills get a buffered pass so a preview can be
		// rendered from the same bytes. Everything else streams.
		var thumbnailRef *string
		if fileType == models.FileTypeFinal && isStillImage(mimeType) {
			data, err := io.ReadAll(f.Reader)
			if err != nil {
				s.cleanupBlobs(ctx, storedRefs)
				return nil, apperrors.UpstreamFailure(err, "Failed to read uploaded file")
			}
			if err := s.store.Save(ctx, ref, bytes.NewReader(data), mimeType); err != nil {
				s.cleanupBlobs(ctx, storedRefs)
				return nil, apperrors.UpstreamFailure(err, "Blob storage upload failed")
			}
			storedRefs = append(storedRefs, ref)
			thumbnailRef = s.saveThumbnail(ctx, ref, data)
			if thumbnailRef != nil {
				storedRefs = append(storedRefs, *thumbnailRef)
			}
		} else {
			if err := s.store.Save(ctx, ref, f.Reader, mimeType); err != nil {
				s.cleanupBlobs(ctx, storedRefs)
				return nil, apperrors.UpstreamFailure(err, "Blob storage upload failed")
			}
			storedRefs = append(storedRefs, ref)
		}

		record := &models.MediaFile{
			EventID:      eventID,
			UploaderID:   userID,
			FileType:     fileType,
			Name:         name,
			StorageRef:   ref,
			Size:         f.Size,
			MimeType:     mimeType,
			ThumbnailRef: thumbnailRef,
		}
		if err := s.fileRepo.Create(record); err != nil {
			s.cleanupBlobs(ctx, storedRefs)
			return nil, apperrors.UpstreamFailure(err, "Failed to save file metadata")
		}
		created = append(created, *record)
	}

	// The upload itself succeeded; workflow/notification failures after
	// this point are logged, never surfaced.
	if _, err := s.events.RecordFileArrival(eventID, fileType); err != nil {
		logger.Error("failed to update workflow after upload", "event_id", eventID, "file_type", fileType, "error", err)
	}

	return created, nil
}

func (s *uploadService) Download(ctx context.Context, role models.UserRole, userID, fileID string) (io.ReadCloser, *models.MediaFile, error) {
	file, err := s.fileRepo.FindByID(fileID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrFileNotFound) {
			return nil, nil, apperrors.ErrFileNotFound
		}
		return nil, nil, err
	}

	event, err := s.eventRepo.FindByID(file.EventID)
	if err != nil {
		return nil, nil, apperrors.ErrEventNotFound
	}
	if !workflow.CanAccessEvent(role, userID, event) {
		return nil, nil, apperrors.ErrForbidden
	}

	reader, err := s.store.Get(ctx, file.StorageRef)
	if err != nil {
		return nil, nil, apperrors.UpstreamFailure(err, "Blob storage download failed")
	}
	return reader, file, nil
}

func (s *uploadService) GetDownloadURL(ctx context.Context, role models.UserRole, userID, fileID string, expiry time.Duration) (*dto.FileURLResponse, error) {
	file, err := s.fileRepo.FindByID(fileID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrFileNotFound) {
			return nil, apperrors.ErrFileNotFound
		}
		return nil, err
	}

	event, err := s.eventRepo.FindByID(file.EventID)
	if err != nil {
		return nil, apperrors.ErrEventNotFound
	}
	if !workflow.CanAccessEvent(role, userID, event) {
		return nil, apperrors.ErrForbidden
	}

	exists, err := s.store.Exists(ctx, file.StorageRef)
	if err != nil {
		return nil, apperrors.UpstreamFailure(err, "Blob storage lookup failed")
	}
	if !exists {
		return nil, apperrors.ErrFileNotFound.WithMessage("File is missing from storage")
	}

	// The stored size is authoritative over the size claimed at upload.
	size, err := s.store.GetSize(ctx, file.StorageRef)
	if err != nil {
		logger.Warn("blob size lookup failed", "file_id", file.ID, "error", err)
		size = file.Size
	}

	url, err := s.store.GetSignedURL(ctx, file.StorageRef, expiry)
	if err != nil {
		return nil, apperrors.UpstreamFailure(err, "Failed to generate signed URL")
	}

	resp := &dto.FileURLResponse{
		URL:       url,
		Name:      file.Name,
		MimeType:  file.MimeType,
		Size:      size,
		ExpiresAt: time.Now().Add(expiry).Unix(),
	}

	// Previews are small and public, a plain URL is enough.
	if file.ThumbnailRef != nil {
		thumbURL, err := s.store.GetURL(ctx, *file.ThumbnailRef)
		if err != nil {
			logger.Warn("thumbnail URL lookup failed", "file_id", file.ID, "error", err)
		} else {
			resp.ThumbnailURL = &thumbURL
		}
	}

	return resp, nil
}

// cleanupBlobs removes objects stored before a failed batch aborted.
// Best-effort, failures only logged.
func (s *uploadService) cleanupBlobs(ctx context.Context, refs []string) {
	for _, ref := range refs {
		if err := s.store.Delete(ctx, ref); err != nil {
			logger.Warn("failed to delete orphaned blob", "ref", ref, "error", err)
		}
	}
}

func (s *uploadService) folderFor(event *models.Event, fileType models.FileType) (string, error) {
	var ref *string
	switch fileType {
	case models.FileTypeRaw:
		ref = event.FolderRawRef
	case models.FileTypeFinal:
		ref = event.FolderFinalRef
	}
	if ref == nil || *ref == "" {
		return "", apperrors.New(apperrors.CodeInternalError,
			fmt.Sprintf("%s storage folder missing for event", fileType), http.StatusInternalServerError)
	}
	return *ref, nil
}

// saveThumbnail renders and stores a preview next to the original.
// Best-effort: a failed preview never fails the upload.
func (s *uploadService) saveThumbnail(ctx context.Context, ref string, data []byte) *string {
	thumb, err := s.thumbs.Thumbnail(data)
	if err != nil {
		logger.Warn("thumbnail generation failed", "ref", ref, "error", err)
		return nil
	}

	thumbRef := strings.TrimSuffix(ref, filepath.Ext(ref)) + "_thumb.jpg"
	if err := s.store.Save(ctx, thumbRef, bytes.NewReader(thumb), "image/jpeg"); err != nil {
		logger.Warn("thumbnail upload failed", "ref", thumbRef, "error", err)
		return nil
	}
	return &thumbRef
}

func isStillImage(mimeType string) bool {
	return mimeType == "image/jpeg" || mimeType == "image/png"
}

// sanitizeExt keeps only a safe extension from the original file name;
// the stored object name is a uuid.
func sanitizeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" || len(ext) > 10 || strings.ContainsAny(ext, "/\\") {
		return ""
	}
	return ext
}
