package migrator

import (
	"context"
	"io"

	"github.com/takak2166/docmost2outline/internal/outline"
)

//go:generate mockgen -source=outline_api.go -destination=mock_outline/mock_outline.go -package=mock_outline

// OutlineAPI is the slice of the Outline client the migrator depends on.
type OutlineAPI interface {
	CreateCollection(ctx context.Context, name, description, color string) (*outline.Collection, error)
	GetCollection(ctx context.Context, id string) (*outline.Collection, error)
	CreateDocument(ctx context.Context, req outline.CreateDocumentRequest) (*outline.Document, error)
	DeleteDocument(ctx context.Context, id string, permanent bool) error
	DeleteCollection(ctx context.Context, id string) error
	CreateAttachment(ctx context.Context, name, contentType string, size int64) (*outline.AttachmentUpload, error)
	UploadToStorage(ctx context.Context, uploadURL string, form map[string]string, fileName, contentType string, body io.Reader) error
}

var _ OutlineAPI = (*outline.Client)(nil)
