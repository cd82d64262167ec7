package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// LocalStorage implements Storage on the local filesystem
type LocalStorage struct {
	basePath string
	baseURL  string
}

func NewLocalStorage(cfg Config) (*LocalStorage, error) {
	if cfg.BasePath == "" {
		cfg.BasePath = "./uploads"
	}

	if err := os.MkdirAll(cfg.BasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: cfg.BasePath,
		baseURL:  cfg.BaseURL,
	}, nil
}

func (s *LocalStorage) Save(ctx context.Context, ref string, reader io.Reader, contentType string) error {
	fullPath := filepath.Join(s.basePath, ref)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

func (s *LocalStorage) Get(ctx context.Context, ref string) (io.ReadCloser, error) {
	fullPath := filepath.Join(s.basePath, ref)

	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

func (s *LocalStorage) Delete(ctx context.Context, ref string) error {
	fullPath := filepath.Join(s.basePath, ref)

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

func (s *LocalStorage) Exists(ctx context.Context, ref string) (bool, error) {
	fullPath := filepath.Join(s.basePath, ref)

	_, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (s *LocalStorage) GetURL(ctx context.Context, ref string) (string, error) {
	if s.baseURL == "" {
		return fmt.Sprintf("/files/%s", ref), nil
	}
	return fmt.Sprintf("%s/%s", s.baseURL, ref), nil
}

// GetSignedURL falls back to the plain URL; local storage has no signing.
func (s *LocalStorage) GetSignedURL(ctx context.Context, ref string, expiry time.Duration) (string, error) {
	return s.GetURL(ctx, ref)
}

func (s *LocalStorage) GetSize(ctx context.Context, ref string) (int64, error) {
	fullPath := filepath.Join(s.basePath, ref)

	info, err := os.Stat(fullPath)
	if err != nil {
		return 0, fmt.Errorf("failed to get file info: %w", err)
	}

	return info.Size(), nil
}
