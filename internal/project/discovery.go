package project

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// SourceCollection describes the three watched root directories a project's
// modules are discovered under: project source, project tests, and every
// dependency's own source tree.
type SourceCollection struct {
	SourceDir      string
	TestDir        string
	DependencyDirs []string
	// Exclude holds glob patterns (relative to whichever root a candidate
	// file was found under) that prune it from discovery even if it
	// otherwise qualifies as a module path. Not part of the original
	// contract; read from the project manifest's [build] section.
	Exclude []string
}

// Dirs returns every directory the watcher must subscribe to.
func (c SourceCollection) Dirs() []string {
	dirs := append([]string{}, c.DependencyDirs...)
	dirs = append(dirs, c.SourceDir, c.TestDir)
	return dirs
}

// OriginOf resolves which root a path falls under by prefix match. Source
// and test roots take precedence over dependency roots.
func (c SourceCollection) OriginOf(path string) (base string, origin Origin, ok bool) {
	if hasPrefix(path, c.SourceDir) {
		return c.SourceDir, Src, true
	}
	if hasPrefix(path, c.TestDir) {
		return c.TestDir, Test, true
	}
	for _, dir := range c.DependencyDirs {
		if hasPrefix(path, dir) {
			return dir, Dependency, true
		}
	}
	return "", 0, false
}

func hasPrefix(path, dir string) bool {
	if dir == "" {
		return false
	}
	path, dir = filepath.Clean(path), filepath.Clean(dir)
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}

// Sources walks every watched root, in dependency-then-source-then-test
// order, and returns every qualifying file as an Input. projectName is used
// to skip a dependency directory that shares the project's own name (a
// project vendored as its own dependency, e.g. via a workspace symlink).
func (c SourceCollection) Sources(projectName string) ([]Input, error) {
	var srcs []Input

	for _, depRoot := range c.DependencyDirs {
		children, err := os.ReadDir(depRoot)
		if err != nil {
			continue // unreadable dependency root is skipped silently
		}
		for _, child := range children {
			if !child.IsDir() || child.Name() == projectName {
				continue
			}
			if err := c.collectSource(filepath.Join(depRoot, child.Name(), "src"), Dependency, &srcs); err != nil {
				return nil, err
			}
		}
	}

	if err := c.collectSource(c.SourceDir, Src, &srcs); err != nil {
		return nil, err
	}
	if err := c.collectSource(c.TestDir, Test, &srcs); err != nil {
		return nil, err
	}

	return srcs, nil
}

// collectSource walks root and appends every qualifying module file under it
// to srcs. A root that does not exist or cannot be canonicalized is skipped
// silently, matching the original discovery contract.
func (c SourceCollection) collectSource(root string, origin Origin, srcs *[]Input) error {
	canonRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil
	}
	canonRoot, err = filepath.Abs(canonRoot)
	if err != nil {
		return nil
	}

	return filepath.WalkDir(canonRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if !IsModulePath(path, canonRoot) {
			return nil
		}
		if c.excluded(path, canonRoot) {
			return nil
		}

		canonPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			canonPath = path
		}
		text, err := os.ReadFile(canonPath)
		if err != nil {
			return &readError{path: canonPath, err: err}
		}

		*srcs = append(*srcs, Input{
			Path:           canonPath,
			SourceBasePath: canonRoot,
			Src:            string(text),
			Origin:         origin,
		})
		return nil
	})
}

func (c SourceCollection) excluded(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pat := range c.Exclude {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}

// readError lets collectSource surface a plain error value, carrying the
// failing path, from within a filepath.WalkDir callback. Sources returns it
// as is; it is not converted to errors.FileIO.
type readError struct {
	path string
	err  error
}

func (e *readError) Error() string { return e.err.Error() }
func (e *readError) Unwrap() error { return e.err }
func (e *readError) Path() string  { return e.path }
