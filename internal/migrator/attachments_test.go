package migrator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takak2166/docmost2outline/internal/migrator/mock_outline"
	"github.com/takak2166/docmost2outline/internal/outline"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestResolveAttachmentDirect(t *testing.T) {
	pool := t.TempDir()
	want := filepath.Join(pool, "files", "u1", "img.png")
	writeFile(t, want, "data")

	got, err := resolveAttachment("files/u1/img.png", pool)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolveAttachmentDirectWinsOverSearch(t *testing.T) {
	pool := t.TempDir()
	direct := filepath.Join(pool, "files", "u1", "img.png")
	writeFile(t, direct, "direct")
	// A second candidate reachable only through the search strategy
	writeFile(t, filepath.Join(pool, "nested", "files", "u1", "other.png"), "other")

	got, err := resolveAttachment("files/u1/img.png", pool)
	require.NoError(t, err)
	assert.Equal(t, direct, got)
}

func TestResolveAttachmentSearchByIdentifier(t *testing.T) {
	pool := t.TempDir()
	// Reference names a file that does not exist at the direct path; the
	// identifier directory lives under a nested "files" directory.
	actual := filepath.Join(pool, "sub", "files", "u2", "renamed.png")
	writeFile(t, actual, "data")

	got, err := resolveAttachment("files/u2/original.png", pool)
	require.NoError(t, err)
	assert.Equal(t, actual, got)
}

func TestResolveAttachmentSearchIsDeterministic(t *testing.T) {
	pool := t.TempDir()
	writeFile(t, filepath.Join(pool, "files", "u3", "bbb.png"), "b")
	writeFile(t, filepath.Join(pool, "files", "u3", "aaa.png"), "a")

	// First regular file in lexicographic order
	got, err := resolveAttachment("files/u3/gone.png", pool)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(pool, "files", "u3", "aaa.png"), got)
}

func TestResolveAttachmentNotFound(t *testing.T) {
	pool := t.TempDir()

	_, err := resolveAttachment("files/u4/missing.png", pool)
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, ReasonAttachmentNotFound, validationErr.Reason)
	assert.Equal(t, "files/u4/missing.png", validationErr.File)
}

func TestUploadForReferencesDeduplicates(t *testing.T) {
	pool := t.TempDir()
	writeFile(t, filepath.Join(pool, "files", "u1", "img.png"), "pngdata")

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	api := mock_outline.NewMockOutlineAPI(ctrl)

	// The same reference appears twice but is uploaded exactly once
	api.EXPECT().
		CreateAttachment(gomock.Any(), "img.png", gomock.Any(), int64(7)).
		Return(&outline.AttachmentUpload{
			UploadURL:  "https://storage/presigned",
			Form:       map[string]string{"key": "k"},
			Attachment: outline.Attachment{ID: "att1", URL: "https://x/att1", Size: 7},
		}, nil)
	api.EXPECT().
		UploadToStorage(gomock.Any(), "https://storage/presigned", gomock.Any(), "img.png", gomock.Any(), gomock.Any()).
		Return(nil)

	handler := NewAttachmentHandler(api)
	mapping, err := handler.UploadForReferences(context.Background(),
		[]string{"files/u1/img.png", "files/u1/img.png"}, pool)
	require.NoError(t, err)

	require.Len(t, mapping, 1)
	assert.Equal(t, "https://x/att1", mapping["files/u1/img.png"].URL)
	assert.Equal(t, int64(7), mapping["files/u1/img.png"].Size)
}

func TestUploadForReferencesMissingFile(t *testing.T) {
	pool := t.TempDir()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	api := mock_outline.NewMockOutlineAPI(ctrl)

	handler := NewAttachmentHandler(api)
	_, err := handler.UploadForReferences(context.Background(), []string{"files/u9/gone.png"}, pool)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, ReasonAttachmentNotFound, validationErr.Reason)
}
