// Package orchestrate implements the one-shot build command: load the
// manifest, discover sources, populate the Sources layer, demand the
// project's generated code, and write it to disk. It hands off to
// internal/watch when the caller asks for watch mode.
package orchestrate

import (
	"path/filepath"

	"github.com/ash-lang/ashc/internal/db"
	ashErrors "github.com/ash-lang/ashc/internal/errors"
	"github.com/ash-lang/ashc/internal/fsio"
	"github.com/ash-lang/ashc/internal/logging"
	"github.com/ash-lang/ashc/internal/manifest"
	"github.com/ash-lang/ashc/internal/project"
	"github.com/ash-lang/ashc/internal/watch"
)

// Options controls one invocation of Build.
type Options struct {
	Root  string
	Doc   bool
	Watch bool
}

// Build runs the full one-shot build sequence described for the orchestrator,
// optionally handing off to the watcher afterward.
func Build(opts Options) error {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return &ashErrors.FileIO{Action: ashErrors.ActionOpen, Kind: ashErrors.KindDirectory, Path: opts.Root, Err: err}
	}

	m, err := manifest.Load(root)
	if err != nil {
		return err
	}

	collection := project.SourceCollection{
		SourceDir: filepath.Join(root, "src"),
		TestDir:   filepath.Join(root, "test"),
		DependencyDirs: []string{
			filepath.Join(root, "_build", "default", "lib"),
			filepath.Join(root, "_checkouts"),
		},
		Exclude: m.Build.Exclude,
	}

	database := db.New()
	if err := loadSources(database, collection, m.Name); err != nil {
		return err
	}

	if opts.Doc {
		logging.Warning("documentation generation is not implemented by the build engine")
	}

	files, err := database.GenerateProjectCode()
	if err != nil {
		return err
	}

	if err := fsio.RemoveDirIfExists(filepath.Join(root, "gen")); err != nil {
		return err
	}
	if err := fsio.RemoveDirIfExists(filepath.Join(root, "doc")); err != nil {
		return err
	}
	if err := fsio.WriteOutputFiles(files); err != nil {
		return err
	}

	logging.Success("generated %d output file(s)", len(files))

	if opts.Watch {
		return watch.Run(database, collection, m.Name)
	}
	return nil
}

// loadSources walks the source collection and populates the Sources layer,
// rejecting any project where two inputs would map to the same module name.
func loadSources(database *db.DB, collection project.SourceCollection, projectName string) error {
	inputs, err := collection.Sources(projectName)
	if err != nil {
		return err
	}

	names := make(map[string]bool, len(inputs))
	firstPath := map[string]string{}

	for _, in := range inputs {
		name, ok := project.ModuleName(in)
		if !ok {
			continue
		}
		if names[name] {
			return &ashErrors.DuplicateModule{Name: name, FirstPath: firstPath[name], SecondPath: in.Path}
		}
		names[name] = true
		firstPath[name] = in.Path
		database.SetSourceFile(name, in)
	}
	database.SetSources(names)
	return nil
}
