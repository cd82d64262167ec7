package storage

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Storage is the blob-store contract the upload/download paths depend on.
// Media bytes live here; only opaque refs are kept in the database.
type Storage interface {
	// Save streams a file to the given ref
	Save(ctx context.Context, ref string, reader io.Reader, contentType string) error

	// Get opens a stream for the given ref
	Get(ctx context.Context, ref string) (io.ReadCloser, error)

	// Delete removes the object at the given ref
	Delete(ctx context.Context, ref string) error

	// Exists checks whether an object exists at the given ref
	Exists(ctx context.Context, ref string) (bool, error)

	// GetURL returns a public URL for the ref
	GetURL(ctx context.Context, ref string) (string, error)

	// GetSignedURL returns a temporary signed URL for private objects
	GetSignedURL(ctx context.Context, ref string, expiry time.Duration) (string, error)

	// GetSize returns the object size in bytes
	GetSize(ctx context.Context, ref string) (int64, error)
}

// Config holds storage configuration
type Config struct {
	Type      string // local, cloudflare_r2
	BasePath  string // For local storage
	BaseURL   string // Public URL base
	Bucket    string // For R2
	AccessKey string // For R2
	SecretKey string // For R2
	Endpoint  string // For R2
}

// NewStorage creates a storage backend based on configuration
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStorage(cfg)
	case "cloudflare_r2":
		return NewCloudflareR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// EventFolders are the per-event folder refs recorded on the Event row.
// Provisioning real folders is the blob service's concern; here a folder
// ref is just a key prefix.
type EventFolders struct {
	Root   string
	Raw    string
	Edited string
	Final  string
}

// FoldersForEvent derives the folder refs for an event id.
func FoldersForEvent(eventID string) EventFolders {
	root := fmt.Sprintf("events/%s", eventID)
	return EventFolders{
		Root:   root,
		Raw:    root + "/raw",
		Edited: root + "/edited",
		Final:  root + "/final",
	}
}
