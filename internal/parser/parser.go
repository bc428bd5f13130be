// Package parser reads Docmost ZIP exports into an in-memory page hierarchy.
package parser

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/takak2166/docmost2outline/internal/logger"
	"github.com/takak2166/docmost2outline/internal/models"
)

var (
	// ErrNotFound indicates the export archive does not exist.
	ErrNotFound = errors.New("export archive not found")
	// ErrCorruptArchive indicates the archive could not be read as a ZIP.
	ErrCorruptArchive = errors.New("corrupt export archive")
)

// Parser reads a Docmost ZIP export
type Parser struct {
	zipPath string
}

// New creates a Parser for the given archive path. It fails with ErrNotFound
// if the archive does not exist.
func New(zipPath string) (*Parser, error) {
	if _, err := os.Stat(zipPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, zipPath)
	}
	return &Parser{zipPath: zipPath}, nil
}

// Parse extracts the archive and builds the page hierarchy. The returned
// export owns a temporary directory on disk; the caller must release it with
// Cleanup. On error no temporary state is left behind.
func (p *Parser) Parse() (*models.DocmostExport, error) {
	logger.Debug("Parsing Docmost export", map[string]interface{}{
		"zip": p.zipPath,
	})

	tempDir, err := os.MkdirTemp("", "docmost_export_")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	export, err := p.parseInto(tempDir)
	if err != nil {
		os.RemoveAll(tempDir)
		return nil, err
	}

	logger.Info("Successfully parsed Docmost export", map[string]interface{}{
		"space": export.SpaceName,
		"pages": len(export.AllPages),
	})

	return export, nil
}

func (p *Parser) parseInto(tempDir string) (*models.DocmostExport, error) {
	if err := extractZip(p.zipPath, tempDir); err != nil {
		return nil, err
	}

	rootDir, spaceName, err := p.detectLayout(tempDir)
	if err != nil {
		return nil, err
	}

	allPages, pageByPath, err := collectPages(rootDir)
	if err != nil {
		return nil, err
	}

	// Link children to parents by the directory-stem == file-stem convention.
	// Pages whose containing directory has no matching markdown file stay in
	// the flat list without a parent link.
	var rootPages []*models.DocmostPage
	for _, page := range allPages {
		if page.Level == 0 {
			rootPages = append(rootPages, page)
			continue
		}
		parentMD := asMarkdownPath(page.ParentPath)
		if parent, ok := pageByPath[parentMD]; ok {
			page.Parent = parent
			parent.Children = append(parent.Children, page)
		}
	}

	// Sort by (level, title) for deterministic breadth-first processing
	sort.SliceStable(allPages, func(i, j int) bool {
		if allPages[i].Level != allPages[j].Level {
			return allPages[i].Level < allPages[j].Level
		}
		return allPages[i].Title < allPages[j].Title
	})

	return &models.DocmostExport{
		SpaceName:      spaceName,
		RootPages:      rootPages,
		AllPages:       allPages,
		AttachmentsDir: rootDir,
		TempDir:        tempDir,
	}, nil
}

// detectLayout determines the logical root and space name. Old-format exports
// wrap everything in a single top-level directory named after the space; new
// ones place content at the archive root, so the archive filename names the
// space.
func (p *Parser) detectLayout(tempDir string) (string, string, error) {
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		return "", "", fmt.Errorf("failed to read extraction root: %w", err)
	}

	var dirs, files []os.DirEntry
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e)
		} else {
			files = append(files, e)
		}
	}

	if len(dirs) == 1 && len(files) == 0 {
		root := filepath.Join(tempDir, dirs[0].Name())
		return root, dirs[0].Name(), nil
	}

	base := filepath.Base(p.zipPath)
	spaceName := strings.TrimSuffix(base, filepath.Ext(base))
	return tempDir, spaceName, nil
}

func collectPages(rootDir string) ([]*models.DocmostPage, map[string]*models.DocmostPage, error) {
	var allPages []*models.DocmostPage
	pageByPath := make(map[string]*models.DocmostPage)

	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		// Skip the attachment pool entirely
		if d.IsDir() && d.Name() == "files" {
			return filepath.SkipDir
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		rel, err := filepath.Rel(rootDir, path)
		if err != nil {
			return err
		}
		level := strings.Count(filepath.ToSlash(rel), "/")

		parentPath := ""
		if dir := filepath.Dir(path); dir != rootDir {
			parentPath = dir
		}

		page := &models.DocmostPage{
			Title:      strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
			FilePath:   path,
			Content:    string(content),
			ParentPath: parentPath,
			Level:      level,
		}

		allPages = append(allPages, page)
		pageByPath[path] = page
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return allPages, pageByPath, nil
}

// asMarkdownPath reinterprets a directory path as the markdown file path of
// the same stem, e.g. "space/guide" -> "space/guide.md".
func asMarkdownPath(dir string) string {
	base := filepath.Base(dir)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(dir), stem+".md")
}

func extractZip(zipPath, dest string) error {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}
	defer reader.Close()

	for _, file := range reader.File {
		if err := extractZipEntry(file, dest); err != nil {
			return err
		}
	}
	return nil
}

func extractZipEntry(file *zip.File, dest string) error {
	target := filepath.Join(dest, filepath.FromSlash(file.Name))

	// Guard against path traversal in entry names
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return fmt.Errorf("%w: illegal entry path %q", ErrCorruptArchive, file.Name)
	}

	if file.FileInfo().IsDir() {
		return os.MkdirAll(target, 0755)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to extract %s: %w", file.Name, err)
	}
	return nil
}

// Cleanup removes the export's temporary directory. It is idempotent and safe
// to call on an already-removed path.
func Cleanup(export *models.DocmostExport) {
	if export == nil || export.TempDir == "" {
		return
	}
	if err := os.RemoveAll(export.TempDir); err != nil {
		logger.Error("Failed to remove temp directory", err, map[string]interface{}{
			"dir": export.TempDir,
		})
	}
}

// FindAttachments returns every regular file stored under any directory named
// "files" beneath the export's attachments root.
func FindAttachments(export *models.DocmostExport) ([]string, error) {
	if export.AttachmentsDir == "" {
		return nil, nil
	}
	if _, err := os.Stat(export.AttachmentsDir); err != nil {
		return nil, nil
	}

	var attachments []string
	err := filepath.WalkDir(export.AttachmentsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || d.Name() != "files" {
			return nil
		}
		walkErr := filepath.WalkDir(path, func(inner string, e fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !e.IsDir() {
				attachments = append(attachments, inner)
			}
			return nil
		})
		if walkErr != nil {
			return walkErr
		}
		return filepath.SkipDir
	})
	if err != nil {
		return nil, err
	}

	return attachments, nil
}
