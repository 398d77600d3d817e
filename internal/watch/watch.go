// Package watch implements the long-lived orchestrator: a debounced
// filesystem event source driving Sources-layer mutation and CodeGen
// re-emission. Errors from individual handlers are pretty-printed and
// swallowed; only the event channels closing is fatal.
package watch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ash-lang/ashc/internal/db"
	ashErrors "github.com/ash-lang/ashc/internal/errors"
	"github.com/ash-lang/ashc/internal/fsio"
	"github.com/ash-lang/ashc/internal/logging"
	"github.com/ash-lang/ashc/internal/project"
)

// debounceInterval matches the original engine's 1-second coalescing
// window: every event resets the timer, so a flush only happens once
// changes stop arriving for a full second.
const debounceInterval = time.Second

type changeKind int

const (
	changeWrite changeKind = iota
	changeCreate
	changeRemove
	changeRename
)

type pendingChange struct {
	kind changeKind
	from string
}

// Session drives one watch-mode run against a single DB instance.
type Session struct {
	DB          *db.DB
	Collection  project.SourceCollection
	ProjectName string
	Stderr      io.Writer

	watcher *fsnotify.Watcher

	mu          sync.Mutex
	pending     map[string]pendingChange
	pendingFrom string
	timer       *time.Timer
	flush       chan struct{}
}

// Run subscribes to every directory in collection and blocks, dispatching
// debounced changes until an event or error channel closes.
func Run(database *db.DB, collection project.SourceCollection, projectName string) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return &ashErrors.FileIO{Action: ashErrors.ActionOpen, Kind: ashErrors.KindDirectory, Err: err}
	}
	defer fsw.Close()

	for _, dir := range collection.Dirs() {
		addRecursive(fsw, dir)
	}

	s := &Session{
		DB:          database,
		Collection:  collection,
		ProjectName: projectName,
		Stderr:      os.Stderr,
		watcher:     fsw,
		pending:     map[string]pendingChange{},
		flush:       make(chan struct{}, 1),
	}
	logging.Info("watching for changes")
	return s.loop()
}

func addRecursive(fsw *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			_ = fsw.Add(path)
		}
		return nil
	})
}

func (s *Session) loop() error {
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return fmt.Errorf("watch: event channel closed")
			}
			s.enqueue(event)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return fmt.Errorf("watch: error channel closed")
			}
			logging.Warning("watch error: %v", err)
		case <-s.flush:
			s.dispatchPending()
		}
	}
}

// enqueue coalesces a raw fsnotify event into the pending batch. Chmod and
// any unrecognized op is ignored outright.
func (s *Session) enqueue(event fsnotify.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case event.Op&fsnotify.Rename != 0:
		// fsnotify reports a rename as an event on the OLD path only; the
		// matching Create for the new path (if any) arrives as a separate
		// event. Hold it until that Create shows up, or until the batch
		// flushes without one, in which case it was really a Remove.
		s.pendingFrom = event.Name
		delete(s.pending, event.Name)
	case event.Op&fsnotify.Create != 0:
		if s.pendingFrom != "" {
			s.pending[event.Name] = pendingChange{kind: changeRename, from: s.pendingFrom}
			s.pendingFrom = ""
		} else {
			s.pending[event.Name] = pendingChange{kind: changeCreate}
		}
	case event.Op&fsnotify.Remove != 0:
		s.pending[event.Name] = pendingChange{kind: changeRemove}
	case event.Op&fsnotify.Write != 0:
		if _, ok := s.pending[event.Name]; !ok {
			s.pending[event.Name] = pendingChange{kind: changeWrite}
		}
	default:
		return
	}

	s.resetTimer()
}

func (s *Session) resetTimer() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(debounceInterval, func() {
		select {
		case s.flush <- struct{}{}:
		default:
		}
	})
}

func (s *Session) dispatchPending() {
	s.mu.Lock()
	if s.pendingFrom != "" {
		s.pending[s.pendingFrom] = pendingChange{kind: changeRemove}
		s.pendingFrom = ""
	}
	batch := s.pending
	s.pending = map[string]pendingChange{}
	s.mu.Unlock()

	for path, ch := range batch {
		var err error
		switch ch.kind {
		case changeWrite:
			err = s.handleWrite(path)
		case changeCreate:
			err = s.handleCreate(path)
		case changeRemove:
			err = s.handleRemove(path)
		case changeRename:
			err = s.handleRename(ch.from, path)
		}
		if err != nil {
			ashErrors.PrettyPrint(s.Stderr, err)
		}
	}
}

func (s *Session) handleWrite(path string) error {
	base, origin, ok := s.Collection.OriginOf(path)
	if !ok || !project.IsModulePath(path, base) {
		return nil
	}

	text, err := os.ReadFile(path)
	if err != nil {
		return &ashErrors.FileIO{Action: ashErrors.ActionRead, Kind: ashErrors.KindFile, Path: path, Err: err}
	}
	in := project.Input{Path: path, SourceBasePath: base, Src: string(text), Origin: origin}
	name, ok := project.ModuleName(in)
	if !ok {
		return nil
	}

	s.DB.SetSourceFile(name, in)
	files, dependentsErr, err := s.DB.InvalidateModule(name)
	if dependentsErr != nil {
		ashErrors.PrettyPrint(s.Stderr, dependentsErr)
	}
	if err != nil {
		return err
	}
	return fsio.WriteOutputFiles(files)
}

func (s *Session) handleCreate(path string) error {
	base, origin, ok := s.Collection.OriginOf(path)
	if !ok || !project.IsModulePath(path, base) {
		return nil
	}

	text, err := os.ReadFile(path)
	if err != nil {
		return &ashErrors.FileIO{Action: ashErrors.ActionRead, Kind: ashErrors.KindFile, Path: path, Err: err}
	}
	in := project.Input{Path: path, SourceBasePath: base, Src: string(text), Origin: origin}
	name, ok := project.ModuleName(in)
	if !ok {
		return nil
	}

	names, err := s.DB.Sources()
	if err != nil {
		return err
	}
	updated := cloneSet(names)
	updated[name] = true
	s.DB.SetSourceFile(name, in)
	s.DB.SetSources(updated)

	files, err := s.DB.GenerateNewModule(name)
	if err != nil {
		return err
	}
	return fsio.WriteOutputFiles(files)
}

// handleRemove computes the module name from the removed path's last known
// Input rather than the filesystem, which no longer has anything to
// canonicalize. It deletes the module's generated output, not the
// already-vanished source path.
func (s *Session) handleRemove(path string) error {
	all, err := s.DB.AllSources()
	if err != nil {
		return err
	}

	removed, name, found := findByPath(all, path)
	if !found {
		return nil
	}

	names, err := s.DB.Sources()
	if err != nil {
		return err
	}
	updated := cloneSet(names)
	delete(updated, name)
	s.DB.SetSources(updated)

	if depsErr := s.DB.CheckDependents(name); depsErr != nil {
		ashErrors.PrettyPrint(s.Stderr, depsErr)
	}

	genDir := filepath.Join(filepath.Dir(removed.SourceBasePath), "gen", removed.Origin.DirName())
	erlName := strings.ReplaceAll(name, "/", "@")
	return fsio.RemoveFileBestEffort(filepath.Join(genDir, erlName+".erl"))
}

// handleRename swaps the module name in the sources set and copies the OLD
// Input under the NEW name without refetching from disk. A subsequent Write
// event delivers the new content; any demand issued between this Rename and
// that Write observes a stale path on the new name. That window is a known,
// documented property of this handler, not a bug worth silently hiding.
func (s *Session) handleRename(oldPath, newPath string) error {
	all, err := s.DB.AllSources()
	if err != nil {
		return err
	}

	oldIn, oldName, found := findByPath(all, oldPath)
	if !found {
		return s.handleCreate(newPath)
	}

	base, origin, ok := s.Collection.OriginOf(newPath)
	if !ok || !project.IsModulePath(newPath, base) {
		return nil
	}
	newName, ok := project.ModuleName(project.Input{Path: newPath, SourceBasePath: base, Origin: origin})
	if !ok {
		return nil
	}

	names, err := s.DB.Sources()
	if err != nil {
		return err
	}
	updated := cloneSet(names)
	delete(updated, oldName)
	updated[newName] = true
	s.DB.SetSources(updated)
	s.DB.SetSourceFile(newName, oldIn)

	if depsErr := s.DB.CheckDependents(newName); depsErr != nil {
		ashErrors.PrettyPrint(s.Stderr, depsErr)
	}
	return nil
}

func findByPath(inputs []project.Input, path string) (project.Input, string, bool) {
	for _, in := range inputs {
		if in.Path == path {
			if name, ok := project.ModuleName(in); ok {
				return in, name, true
			}
			return project.Input{}, "", false
		}
	}
	return project.Input{}, "", false
}

func cloneSet(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
