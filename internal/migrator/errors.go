package migrator

import (
	"fmt"

	"github.com/takak2166/docmost2outline/internal/fileutil"
)

// ValidationReason classifies a pre-flight validation failure.
type ValidationReason int

const (
	// ReasonAttachmentNotFound means a referenced attachment file is missing.
	ReasonAttachmentNotFound ValidationReason = iota
	// ReasonFileTooLarge means an attachment exceeds the size limit.
	ReasonFileTooLarge
)

// ValidationError is raised before any remote mutation occurs, so a failed
// validation never leaves partial state in Outline.
type ValidationError struct {
	Reason ValidationReason
	File   string
	Size   int64 // set for ReasonFileTooLarge
	Limit  int64 // set for ReasonFileTooLarge
	Detail string
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonFileTooLarge:
		return fmt.Sprintf("file %s (%s) exceeds maximum upload size (%s)",
			e.File, fileutil.FormatBytes(e.Size), fileutil.FormatBytes(e.Limit))
	default:
		if e.Detail != "" {
			return fmt.Sprintf("attachment not found: %s (%s)", e.File, e.Detail)
		}
		return fmt.Sprintf("attachment not found: %s", e.File)
	}
}
