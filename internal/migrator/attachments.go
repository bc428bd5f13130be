package migrator

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/takak2166/docmost2outline/internal/fileutil"
	"github.com/takak2166/docmost2outline/internal/logger"
	"github.com/takak2166/docmost2outline/internal/transform"
)

// AttachmentHandler resolves attachment references against the extracted
// export and uploads the files to Outline via the two-phase protocol.
type AttachmentHandler struct {
	client OutlineAPI
}

// NewAttachmentHandler creates an AttachmentHandler.
func NewAttachmentHandler(client OutlineAPI) *AttachmentHandler {
	return &AttachmentHandler{client: client}
}

// UploadForReferences uploads the files behind the given references and
// returns the reference -> (URL, size) mapping used for content rewriting.
// Repeated references within one page are uploaded once.
func (h *AttachmentHandler) UploadForReferences(ctx context.Context, refs []string, attachmentsDir string) (map[string]transform.Uploaded, error) {
	mapping := make(map[string]transform.Uploaded)

	for _, ref := range refs {
		if _, ok := mapping[ref]; ok {
			continue
		}

		filePath, err := resolveAttachment(ref, attachmentsDir)
		if err != nil {
			return nil, err
		}

		// The name presented to Outline is the final segment of the
		// reference as it appeared in the page body, not the on-disk name.
		intendedName := path.Base(strings.TrimLeft(ref, "/"))

		url, size, err := h.uploadAttachment(ctx, filePath, intendedName)
		if err != nil {
			return nil, fmt.Errorf("failed to upload %s: %w", ref, err)
		}

		mapping[ref] = transform.Uploaded{URL: url, Size: size}
	}

	return mapping, nil
}

// uploadAttachment performs the two-phase upload: create the attachment
// record, then deliver the bytes to the presigned destination.
func (h *AttachmentHandler) uploadAttachment(ctx context.Context, filePath, intendedName string) (string, int64, error) {
	contentType := fileutil.DetectContentType(filePath)
	size, err := fileutil.FileSize(filePath)
	if err != nil {
		return "", 0, err
	}

	logger.Debug("Uploading attachment", map[string]interface{}{
		"file":         filePath,
		"name":         intendedName,
		"content_type": contentType,
		"size":         size,
	})

	upload, err := h.client.CreateAttachment(ctx, intendedName, contentType, size)
	if err != nil {
		return "", 0, err
	}

	f, err := os.Open(filePath)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	err = h.client.UploadToStorage(ctx, upload.UploadURL, upload.Form, filepath.Base(filePath), contentType, f)
	if err != nil {
		return "", 0, err
	}

	return upload.Attachment.URL, size, nil
}

// resolveAttachment maps a reference like "files/<uuid>/<name>" to an actual
// file on disk. Strategy 1 joins the reference onto the attachments root.
// Strategy 2 searches every "files" directory under the root for a
// subdirectory matching the reference's identifier segment and takes the
// first regular file inside it, in os.ReadDir's lexicographic order.
func resolveAttachment(ref, attachmentsDir string) (string, error) {
	cleanRef := strings.TrimLeft(ref, "/")

	candidate := filepath.Join(attachmentsDir, filepath.FromSlash(cleanRef))
	if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
		return candidate, nil
	}

	parts := strings.Split(path.Clean(cleanRef), "/")
	if len(parts) >= 2 {
		identifier := parts[1]
		var found string
		err := filepath.WalkDir(attachmentsDir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() || d.Name() != "files" {
				return nil
			}
			idDir := filepath.Join(p, identifier)
			entries, readErr := os.ReadDir(idDir)
			if readErr != nil {
				return nil
			}
			for _, e := range entries {
				if !e.IsDir() {
					found = filepath.Join(idDir, e.Name())
					return filepath.SkipAll
				}
			}
			return nil
		})
		if err != nil {
			return "", err
		}
		if found != "" {
			return found, nil
		}
	}

	return "", &ValidationError{
		Reason: ReasonAttachmentNotFound,
		File:   ref,
		Detail: fmt.Sprintf("searched in %s", attachmentsDir),
	}
}
