// Package fsio is the filesystem I/O collaborator: writing generated output
// files and removing directory trees before a full build. It is the only
// package that touches os directly on behalf of the orchestrator.
package fsio

import (
	"os"
	"path/filepath"

	ashErrors "github.com/ash-lang/ashc/internal/errors"
	"github.com/ash-lang/ashc/internal/project"
)

// WriteOutputFile creates file.Path's parent directories (if needed) and
// writes file.Text to it, overwriting any existing content.
func WriteOutputFile(file project.OutputFile) error {
	dir := filepath.Dir(file.Path)
	if dir == "." || dir == "" {
		return &ashErrors.FileIO{Action: ashErrors.ActionFindParent, Kind: ashErrors.KindDirectory, Path: file.Path}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &ashErrors.FileIO{Action: ashErrors.ActionCreate, Kind: ashErrors.KindDirectory, Path: dir, Err: err}
	}

	if err := os.WriteFile(file.Path, []byte(file.Text), 0o644); err != nil {
		return &ashErrors.FileIO{Action: ashErrors.ActionWriteTo, Kind: ashErrors.KindFile, Path: file.Path, Err: err}
	}

	return nil
}

// WriteOutputFiles writes every file, stopping at the first failure. The
// orchestrator only calls this once the full output set has computed
// successfully, so a build never leaves a partial write under an error path.
func WriteOutputFiles(files []project.OutputFile) error {
	for _, f := range files {
		if err := WriteOutputFile(f); err != nil {
			return err
		}
	}
	return nil
}

// RemoveDirIfExists deletes dir and its contents if present; a missing
// directory is not an error.
func RemoveDirIfExists(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return &ashErrors.FileIO{Action: ashErrors.ActionDelete, Kind: ashErrors.KindDirectory, Path: dir, Err: err}
	}
	return nil
}

// RemoveFileBestEffort deletes path, ignoring a not-exist error. Used by the
// watcher to clean up a removed module's generated outputs, where failure to
// delete is surfaced but must not abort the watch loop.
func RemoveFileBestEffort(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return &ashErrors.FileIO{Action: ashErrors.ActionDelete, Kind: ashErrors.KindFile, Path: path, Err: err}
	}
	return nil
}
