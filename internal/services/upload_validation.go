package services

import (
	"fmt"
	"strings"

	"udaan_backend/internal/models"
)

// Allowed MIME types for FINAL uploads
var allowedFinalMimeTypes = []string{
	"image/jpeg",
	"image/png",
	"video/mp4",
}

// Blocked executable/system file extensions for RAW uploads
var blockedExtensions = []string{
	".exe", ".dll", ".bat", ".cmd", ".com", ".scr", ".vbs", ".js", ".jar", ".apk",
	".deb", ".rpm", ".msi", ".app", ".dmg", ".pkg", ".sh", ".bin", ".run", ".elf",
	".sys", ".drv", ".ocx", ".cpl", ".msp", ".msu", ".bz2", ".xz", ".iso", ".img",
	".toast", ".vcd",
}

// Blocked MIME types for executables
var blockedMimeTypes = map[string]bool{
	"application/x-msdownload":                    true,
	"application/x-ms-installer":                  true,
	"application/vnd.android.package-archive":     true,
	"application/x-debian-package":                true,
	"application/x-rpm":                           true,
	"application/x-executable":                    true,
	"application/x-sharedlib":                     true,
	"application/x-elf":                           true,
}

// validateFile applies the per-category upload predicates: RAW accepts
// anything that is not an executable, FINAL only a small media allowlist.
// Both respect the configured size cap.
func validateFile(name, mimeType string, size, maxSize int64, fileType models.FileType) error {
	if size == 0 {
		return fmt.Errorf("uploaded file is empty or missing")
	}

	if size > maxSize {
		maxGB := maxSize / (1024 * 1024 * 1024)
		return fmt.Errorf("file size (%.2f GB) exceeds maximum allowed size (%d GB)",
			float64(size)/(1024*1024*1024), maxGB)
	}

	if fileType == models.FileTypeRaw {
		if blockedMimeTypes[mimeType] {
			return fmt.Errorf("executable and system files are not allowed, please upload media files only")
		}
		lower := strings.ToLower(name)
		for _, ext := range blockedExtensions {
			if strings.HasSuffix(lower, ext) {
				return fmt.Errorf("file type %q is not allowed, please upload media files only", ext)
			}
		}
		return nil
	}

	for _, allowed := range allowedFinalMimeTypes {
		if mimeType == allowed {
			return nil
		}
	}
	return fmt.Errorf("invalid file type, allowed types for FINAL uploads: %s",
		strings.Join(allowedFinalMimeTypes, ", "))
}
