// Package migrator drives the Docmost to Outline migration: pre-flight
// validation, collection setup, and breadth-first document replay.
package migrator

import (
	"context"
	"fmt"

	"github.com/takak2166/docmost2outline/internal/fileutil"
	"github.com/takak2166/docmost2outline/internal/logger"
	"github.com/takak2166/docmost2outline/internal/models"
	"github.com/takak2166/docmost2outline/internal/outline"
	"github.com/takak2166/docmost2outline/internal/parser"
	"github.com/takak2166/docmost2outline/internal/transform"
)

const (
	collectionDescription = "Migrated from Docmost export"
	collectionColor       = "#4E5C6E"
)

// State is the orchestrator's migration phase.
type State int

const (
	StateParsing State = iota
	StateValidating
	StateSettingUpCollection
	StateMigratingDocuments
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateParsing:
		return "parsing"
	case StateValidating:
		return "validating"
	case StateSettingUpCollection:
		return "setting_up_collection"
	case StateMigratingDocuments:
		return "migrating_documents"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Stats aggregates what the migration created.
type Stats struct {
	DocumentsCreated     int
	AttachmentsUploaded  int
	TotalAttachmentBytes int64
}

func (s Stats) String() string {
	return fmt.Sprintf("Documents created: %d\nAttachments uploaded: %d\nTotal attachment size: %s",
		s.DocumentsCreated, s.AttachmentsUploaded, fileutil.FormatBytes(s.TotalAttachmentBytes))
}

// Orchestrator sequences a complete migration run.
type Orchestrator struct {
	client            OutlineAPI
	attachments       *AttachmentHandler
	maxFileSize       int64
	rollbackOnFailure bool

	state State
	stats Stats
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithRollbackOnFailure makes a failed run best-effort delete the documents
// it created, and the collection when the run created it. Off by default:
// already-created documents are left in place.
func WithRollbackOnFailure() Option {
	return func(o *Orchestrator) { o.rollbackOnFailure = true }
}

// New creates an Orchestrator. maxFileSize is the per-attachment size limit
// in bytes enforced during validation.
func New(client OutlineAPI, maxFileSize int64, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client:      client,
		attachments: NewAttachmentHandler(client),
		maxFileSize: maxFileSize,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State returns the current migration phase.
func (o *Orchestrator) State() State {
	return o.state
}

// Migrate runs the full pipeline for the given export archive. When
// collectionID is empty a new collection named after the export's space is
// created; otherwise the existing collection is reused. It returns the
// collection ID and the run statistics. The extraction root is released
// before returning, on success and on every failure path.
func (o *Orchestrator) Migrate(ctx context.Context, zipPath, collectionID string) (string, Stats, error) {
	o.setState(StateParsing)

	p, err := parser.New(zipPath)
	if err != nil {
		return "", o.stats, o.fail(ctx, err, nil, "", false)
	}
	export, err := p.Parse()
	if err != nil {
		return "", o.stats, o.fail(ctx, err, nil, "", false)
	}
	defer parser.Cleanup(export)

	o.setState(StateValidating)
	if err := o.validateAttachments(export); err != nil {
		return "", o.stats, o.fail(ctx, err, nil, "", false)
	}

	o.setState(StateSettingUpCollection)
	createdCollection := false
	if collectionID != "" {
		collection, err := o.client.GetCollection(ctx, collectionID)
		if err != nil {
			return "", o.stats, o.fail(ctx, fmt.Errorf("failed to fetch collection %s: %w", collectionID, err), nil, "", false)
		}
		logger.Info("Using existing collection", map[string]interface{}{
			"id":   collection.ID,
			"name": collection.Name,
		})
	} else {
		collection, err := o.client.CreateCollection(ctx, export.SpaceName, collectionDescription, collectionColor)
		if err != nil {
			return "", o.stats, o.fail(ctx, fmt.Errorf("failed to create collection: %w", err), nil, "", false)
		}
		collectionID = collection.ID
		createdCollection = true
		logger.Info("Created collection", map[string]interface{}{
			"id":   collection.ID,
			"name": collection.Name,
		})
	}

	o.setState(StateMigratingDocuments)

	// Maps the source file path of each migrated page to its Outline
	// document ID, so children created later can link to their parent.
	parentIDs := make(map[string]string)
	var createdDocs []string

	for _, page := range export.AllPages {
		if err := o.migratePage(ctx, page, export, collectionID, parentIDs); err != nil {
			return collectionID, o.stats, o.fail(ctx, err, createdDocs, collectionID, createdCollection)
		}
		createdDocs = append(createdDocs, page.OutlineID)
	}

	o.setState(StateDone)
	logger.Info("Migration completed", map[string]interface{}{
		"collection_id":        collectionID,
		"documents_created":    o.stats.DocumentsCreated,
		"attachments_uploaded": o.stats.AttachmentsUploaded,
	})

	return collectionID, o.stats, nil
}

// migratePage processes one page: upload its attachments, rewrite its body,
// create the Outline document, and record the new ID for its children.
func (o *Orchestrator) migratePage(ctx context.Context, page *models.DocmostPage, export *models.DocmostExport, collectionID string, parentIDs map[string]string) error {
	logger.Debug("Processing page", map[string]interface{}{
		"title": page.Title,
		"level": page.Level,
	})

	parentDocID := ""
	if page.Parent != nil {
		parentDocID = parentIDs[page.Parent.FilePath]
	}

	mapping := make(map[string]transform.Uploaded)
	if export.AttachmentsDir != "" {
		refs := transform.ExtractAttachmentReferences(page.Content)
		if len(refs) > 0 {
			var err error
			mapping, err = o.attachments.UploadForReferences(ctx, refs, export.AttachmentsDir)
			if err != nil {
				return fmt.Errorf("page %q: %w", page.Title, err)
			}
			o.stats.AttachmentsUploaded += len(mapping)
			for _, up := range mapping {
				o.stats.TotalAttachmentBytes += up.Size
			}
		}
	}

	text := transform.TransformContent(page.Content, mapping)

	doc, err := o.client.CreateDocument(ctx, outline.CreateDocumentRequest{
		Title:            page.Title,
		Text:             text,
		CollectionID:     collectionID,
		ParentDocumentID: parentDocID,
		Publish:          true,
	})
	if err != nil {
		return fmt.Errorf("failed to create document %q: %w", page.Title, err)
	}

	parentIDs[page.FilePath] = doc.ID
	page.OutlineID = doc.ID
	o.stats.DocumentsCreated++

	return nil
}

// validateAttachments checks that every attachment in the export exists and
// is within the size limit, before anything is touched remotely.
func (o *Orchestrator) validateAttachments(export *models.DocmostExport) error {
	files, err := parser.FindAttachments(export)
	if err != nil {
		return fmt.Errorf("failed to enumerate attachments: %w", err)
	}

	var totalSize int64
	for _, file := range files {
		size, err := fileutil.FileSize(file)
		if err != nil {
			return &ValidationError{Reason: ReasonAttachmentNotFound, File: file}
		}
		if size > o.maxFileSize {
			return &ValidationError{
				Reason: ReasonFileTooLarge,
				File:   file,
				Size:   size,
				Limit:  o.maxFileSize,
			}
		}
		totalSize += size
	}

	logger.Info("Validated attachments", map[string]interface{}{
		"count":      len(files),
		"total_size": fileutil.FormatBytes(totalSize),
	})
	return nil
}

// fail moves the orchestrator into the Failed state and, when rollback is
// enabled and documents were already created, best-effort deletes them.
func (o *Orchestrator) fail(ctx context.Context, err error, createdDocs []string, collectionID string, createdCollection bool) error {
	prev := o.state
	o.setState(StateFailed)

	if o.rollbackOnFailure && prev == StateMigratingDocuments && len(createdDocs) > 0 {
		o.rollback(ctx, createdDocs, collectionID, createdCollection)
	}

	return err
}

// rollback deletes created documents newest first, then the collection if
// this run created it. Errors are logged, not returned: rollback is
// best-effort by design.
func (o *Orchestrator) rollback(ctx context.Context, createdDocs []string, collectionID string, createdCollection bool) {
	logger.Warn("Rolling back partially migrated documents", map[string]interface{}{
		"documents": len(createdDocs),
	})

	for i := len(createdDocs) - 1; i >= 0; i-- {
		if err := o.client.DeleteDocument(ctx, createdDocs[i], true); err != nil {
			logger.Error("Failed to delete document during rollback", err, map[string]interface{}{
				"id": createdDocs[i],
			})
		}
	}

	if createdCollection && collectionID != "" {
		if err := o.client.DeleteCollection(ctx, collectionID); err != nil {
			logger.Error("Failed to delete collection during rollback", err, map[string]interface{}{
				"id": collectionID,
			})
		}
	}
}

func (o *Orchestrator) setState(s State) {
	logger.Debug("Migration state change", map[string]interface{}{
		"from": o.state.String(),
		"to":   s.String(),
	})
	o.state = s
}
