package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectContentType(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"photo.png", "image/png"},
		{"scan.jpg", "image/jpeg"},
		{"report.pdf", "application/pdf"},
		{"archive.unknownext", "application/octet-stream"},
		{"noextension", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectContentType(tt.filename))
		})
	}
}

func TestIsImageContentType(t *testing.T) {
	assert.True(t, IsImageContentType("image/png"))
	assert.True(t, IsImageContentType("image/svg+xml"))
	assert.False(t, IsImageContentType("application/pdf"))
}

func TestFileSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.bin")
	require.NoError(t, os.WriteFile(path, []byte("12345"), 0644))

	size, err := FileSize(path)
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)

	_, err = FileSize(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{512, "512.0 B"},
		{2048, "2.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatBytes(tt.n))
		})
	}
}
