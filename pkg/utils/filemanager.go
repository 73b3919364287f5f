// =============================================================================
// Cookie Audit - File Manager Utility
// =============================================================================
//
// File handling around a reconciliation run:
//   - Discovering export files dropped into the exports directory
//   - Naming and writing report files
//   - Archiving exports after a successful run
//   - Writing error logs a volunteer can hand to the troop leader
//
// Failed exports stay where they are so the next run picks them up again;
// only successfully reconciled exports are archived.
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ExportExtensions are the file extensions recognized as vendor exports.
var ExportExtensions = []string{".csv", ".xlsx"}

// FileManager handles file operations for the audit tool.
type FileManager struct {
	// ExportsDir is the directory scanned for vendor exports.
	ExportsDir string

	// ReportsDir is the directory report files are written to.
	ReportsDir string

	// ArchiveDir is the directory processed exports are moved to.
	ArchiveDir string
}

// NewFileManager creates a FileManager over the configured directories.
func NewFileManager(exportsDir, reportsDir, archiveDir string) *FileManager {
	return &FileManager{
		ExportsDir: exportsDir,
		ReportsDir: reportsDir,
		ArchiveDir: archiveDir,
	}
}

// EnsureDirectories creates all required directories if they do not exist.
func (fm *FileManager) EnsureDirectories() error {
	for _, dir := range []string{fm.ExportsDir, fm.ReportsDir, fm.ArchiveDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// DiscoverExports scans the exports directory for vendor export files.
func (fm *FileManager) DiscoverExports() ([]string, error) {
	var files []string

	err := filepath.Walk(fm.ExportsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		for _, want := range ExportExtensions {
			if ext == want {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan exports directory: %w", err)
	}

	return files, nil
}

// ReportPath builds the output path for a run's report file.
func (fm *FileManager) ReportPath(runID, format string) string {
	timestamp := time.Now().Format("20060102_150405")
	return filepath.Join(fm.ReportsDir, fmt.Sprintf("reconciliation_%s_%s.%s", timestamp, runID, format))
}

// WriteReport writes a rendered report to the reports directory and returns
// its path.
func (fm *FileManager) WriteReport(runID, format string, content []byte) (string, error) {
	path := fm.ReportPath(runID, format)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

// ArchiveExport moves a processed export into the archive directory. A name
// collision gets a timestamp prefix instead of overwriting the earlier
// archive entry.
func (fm *FileManager) ArchiveExport(exportPath string) (string, error) {
	name := filepath.Base(exportPath)
	target := filepath.Join(fm.ArchiveDir, name)

	if _, err := os.Stat(target); err == nil {
		target = filepath.Join(fm.ArchiveDir, fmt.Sprintf("%s_%s", time.Now().Format("20060102_150405"), name))
	}

	if err := os.Rename(exportPath, target); err != nil {
		return "", fmt.Errorf("failed to archive export: %w", err)
	}
	return target, nil
}

// WriteErrorLog writes validation or processing failures next to the
// reports so a volunteer can see why an export was rejected.
func (fm *FileManager) WriteErrorLog(exportPath string, errs []error) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Export:    %s\n", exportPath)
	fmt.Fprintf(&b, "Generated: %s\n\n", time.Now().Format(time.RFC3339))
	for _, err := range errs {
		fmt.Fprintf(&b, "  - %v\n", err)
	}

	name := fmt.Sprintf("errors_%s.log", uuid.New().String())
	path := filepath.Join(fm.ReportsDir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write error log: %w", err)
	}
	return path, nil
}
