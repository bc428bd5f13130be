package fileutil

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// DetectContentType returns the MIME type for a filename based on its extension.
func DetectContentType(filename string) string {
	ext := filepath.Ext(filename)
	if ext == "" {
		return "application/octet-stream"
	}

	if contentType := mime.TypeByExtension(ext); contentType != "" {
		return contentType
	}

	// Fallback for extensions missing from the system mime database
	switch strings.ToLower(ext) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	case ".pdf":
		return "application/pdf"
	case ".md":
		return "text/markdown"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}

// IsImageContentType reports whether the content type is an image type.
func IsImageContentType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}

// FileSize returns the size of the file at path in bytes.
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// FormatBytes renders a byte count as a human-readable string, e.g. "1.5 MB".
func FormatBytes(n int64) string {
	value := float64(n)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if value < 1024.0 {
			return fmt.Sprintf("%.1f %s", value, unit)
		}
		value /= 1024.0
	}
	return fmt.Sprintf("%.1f TB", value)
}
