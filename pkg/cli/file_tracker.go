package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/devicetree-org/dtschema/pkg/console"
)

// FileTracker remembers the content of bindings before fixup rewrites them,
// so a failed batch can put every file back.
type FileTracker struct {
	ModifiedFiles   []string
	OriginalContent map[string][]byte
}

// NewFileTracker returns an empty tracker
func NewFileTracker() *FileTracker {
	return &FileTracker{OriginalContent: make(map[string][]byte)}
}

// TrackModified snapshots a binding about to be rewritten. Only the first
// snapshot of a file is kept.
func (ft *FileTracker) TrackModified(file string) {
	abs, err := filepath.Abs(file)
	if err != nil {
		abs = file
	}
	if _, seen := ft.OriginalContent[abs]; seen {
		return
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		return
	}
	ft.OriginalContent[abs] = content
	ft.ModifiedFiles = append(ft.ModifiedFiles, abs)
}

// RollbackModifiedFiles writes every snapshot back and reports the files
// that could not be restored.
func (ft *FileTracker) RollbackModifiedFiles(verbose bool) error {
	if len(ft.ModifiedFiles) == 0 {
		return nil
	}
	if verbose {
		fmt.Fprintln(os.Stderr, console.FormatInfoMessage(fmt.Sprintf("Restoring %d rewritten binding(s)", len(ft.ModifiedFiles))))
	}

	var errs []error
	for _, file := range ft.ModifiedFiles {
		if verbose {
			fmt.Fprintln(os.Stderr, console.FormatVerboseMessage(fmt.Sprintf("Restoring %s", console.ToRelativePath(file))))
		}
		if err := os.WriteFile(file, ft.OriginalContent[file], 0644); err != nil {
			errs = append(errs, fmt.Errorf("failed to restore %s: %w", file, err))
		}
	}
	return errors.Join(errs...)
}
