package db

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ash-lang/ashc/internal/compiler/codegen"
	"github.com/ash-lang/ashc/internal/engine"
	ashErrors "github.com/ash-lang/ashc/internal/errors"
	"github.com/ash-lang/ashc/internal/project"
)

func generateProjectCodeKey() engine.Key {
	return engine.Key{Query: "generate_project_code", Arg: sourcesKeyType{}}
}

// GenerateProjectCode demands the whole project's backend output set.
func (d *DB) GenerateProjectCode() ([]project.OutputFile, error) {
	v, err := d.Engine.Demand(generateProjectCodeKey())
	if err != nil {
		return nil, ashErrors.FromEngine(err)
	}
	return v.([]project.OutputFile), nil
}

func computeGenerateProjectCode(e *engine.Engine, key engine.Key) (any, error) {
	analyzedAny, err := e.Demand(allModulesAnalyzedKey())
	if err != nil {
		return nil, err
	}
	return emitOutputs(analyzedAny.([]project.Analysed)), nil
}

// emitOutputs implements the output path law: every path starts with
// <source_base_path.parent()>/gen/<origin.dir_name>/ and uses "@" only as a
// module-segment separator.
func emitOutputs(analyzed []project.Analysed) []project.OutputFile {
	var files []project.OutputFile
	for _, a := range analyzed {
		genDir := filepath.Join(filepath.Dir(a.SourceBasePath), "gen", a.Origin.DirName())
		erlName := strings.ReplaceAll(a.Name, "/", "@")

		for _, rec := range codegen.Records(a.AST) {
			files = append(files, project.OutputFile{
				Path: filepath.Join(genDir, fmt.Sprintf("%s_%s.hrl", erlName, rec.Name)),
				Text: rec.Text,
			})
		}
		files = append(files, project.OutputFile{
			Path: filepath.Join(genDir, erlName+".erl"),
			Text: codegen.Module(a.AST),
		})
	}
	return files
}

// GenerateNewModule demands only name's analysis and emits just its outputs,
// used for a freshly Created module.
func (d *DB) GenerateNewModule(name string) ([]project.OutputFile, error) {
	a, err := d.AnalyzedModule(name)
	if err != nil {
		return nil, err
	}
	return emitOutputs([]project.Analysed{a}), nil
}

// InvalidateModule is the watcher's workhorse for a Write event. It runs
// check_dependents best-effort first (its error, if any, is returned
// separately so the caller can surface it without aborting), then demands
// the module's own fresh analysis and emits its outputs.
func (d *DB) InvalidateModule(name string) (files []project.OutputFile, dependentsErr error, err error) {
	dependentsErr = d.CheckDependents(name)

	a, err := d.AnalyzedModule(name)
	if err != nil {
		return nil, dependentsErr, err
	}
	return emitOutputs([]project.Analysed{a}), dependentsErr, nil
}
