package db

import (
	"github.com/ash-lang/ashc/internal/engine"
	"github.com/ash-lang/ashc/internal/project"
)

type sourcesKeyType struct{}

var sourcesKey = engine.Key{Query: "sources", Arg: sourcesKeyType{}}

func sourceFileKey(name string) engine.Key {
	return engine.Key{Query: "source_file", Arg: name}
}

func allSourcesKey() engine.Key {
	return engine.Key{Query: "all_sources", Arg: sourcesKeyType{}}
}

// SetSourceFile assigns the Input for a module name. The caller is
// responsible for keeping this in sync with SetSources: every name in the
// sources set must have a corresponding source_file entry.
func (d *DB) SetSourceFile(name string, in project.Input) {
	d.Engine.SetInput(sourceFileKey(name), in)
}

// SourceFile demands the Input previously assigned to name.
func (d *DB) SourceFile(name string) (project.Input, error) {
	v, err := d.Engine.Demand(sourceFileKey(name))
	if err != nil {
		return project.Input{}, err
	}
	return v.(project.Input), nil
}

// HasSourceFile reports whether name currently has an assigned Input.
func (d *DB) HasSourceFile(name string) bool {
	return d.Engine.HasInput(sourceFileKey(name))
}

// SetSources assigns the live module-name set.
func (d *DB) SetSources(names map[string]bool) {
	d.Engine.SetInput(sourcesKey, names)
}

// Sources demands the live module-name set.
func (d *DB) Sources() (map[string]bool, error) {
	v, err := d.Engine.Demand(sourcesKey)
	if err != nil {
		return nil, err
	}
	return v.(map[string]bool), nil
}

// AllSources demands every Input in the current sources set.
func (d *DB) AllSources() ([]project.Input, error) {
	v, err := d.Engine.Demand(allSourcesKey())
	if err != nil {
		return nil, err
	}
	return v.([]project.Input), nil
}

func computeAllSources(e *engine.Engine, key engine.Key) (any, error) {
	namesAny, err := e.Demand(sourcesKey)
	if err != nil {
		return nil, err
	}
	names := namesAny.(map[string]bool)

	out := make([]project.Input, 0, len(names))
	for _, n := range sortedKeys(names) {
		v, err := e.Demand(sourceFileKey(n))
		if err != nil {
			return nil, err
		}
		out = append(out, v.(project.Input))
	}
	return out, nil
}
