package db

import (
	stderrors "errors"

	"github.com/ash-lang/ashc/internal/compiler/ast"
	"github.com/ash-lang/ashc/internal/compiler/typecheck"
	"github.com/ash-lang/ashc/internal/engine"
	ashErrors "github.com/ash-lang/ashc/internal/errors"
	"github.com/ash-lang/ashc/internal/project"
)

func analyzedModuleKey(name string) engine.Key {
	return engine.Key{Query: "analyzed_module", Arg: name}
}

func allModulesAnalyzedKey() engine.Key {
	return engine.Key{Query: "all_modules_analyzed", Arg: sourcesKeyType{}}
}

// AnalyzedModule demands name's typed AST and exported type info, pulling in
// every dependency's analysis transitively. Engine-level cycle errors are
// converted to the closed error set at this boundary.
func (d *DB) AnalyzedModule(name string) (project.Analysed, error) {
	v, err := d.Engine.Demand(analyzedModuleKey(name))
	if err != nil {
		return project.Analysed{}, ashErrors.FromEngine(err)
	}
	return v.(project.Analysed), nil
}

func computeAnalyzedModule(e *engine.Engine, key engine.Key) (any, error) {
	name := key.Arg.(string)

	depsAny, err := e.Demand(dependenciesKey(name))
	if err != nil {
		return nil, err
	}
	deps := depsAny.([]ast.Import)

	typeInfos := map[string]ast.ModuleTypeInfo{}
	for _, dep := range deps {
		depAny, err := e.Demand(analyzedModuleKey(dep.Module))
		if err != nil {
			var fio *ashErrors.FileIO
			if stderrors.As(err, &fio) {
				return nil, unknownImportFor(e, name, dep)
			}
			// CycleError and any other kind propagate unchanged.
			return nil, err
		}
		analysed := depAny.(project.Analysed)
		typeInfos[analysed.Name] = analysed.TypeInfo
	}

	modAny, err := e.Demand(moduleASTKey(name))
	if err != nil {
		return nil, err
	}
	mod := modAny.(project.Module)

	typed, err := typecheck.Infer(mod.AST, typeInfos)
	if err != nil {
		return nil, &ashErrors.Type{Path: mod.Path, Src: mod.Src, Err: err}
	}

	return project.Analysed{
		Name:           typed.NameString(),
		Origin:         mod.Origin,
		SourceBasePath: mod.SourceBasePath,
		AST:            typed,
		TypeInfo:       typed.TypeInfo,
	}, nil
}

func unknownImportFor(e *engine.Engine, name string, dep ast.Import) error {
	var path, src string
	if modAny, err := e.Demand(moduleASTKey(name)); err == nil {
		mod := modAny.(project.Module)
		path, src = mod.Path, mod.Src
	}
	var modules []string
	if namesAny, err := e.Demand(sourcesKey); err == nil {
		modules = sortedKeys(namesAny.(map[string]bool))
	}
	return &ashErrors.UnknownImport{
		Module:  name,
		Import:  dep.Module,
		Path:    path,
		Src:     src,
		Span:    ashErrors.Span{Start: dep.Location.Start, End: dep.Location.End},
		Modules: modules,
	}
}

// CheckDependents forces re-analysis of every module that imports name,
// returning the first error encountered.
func (d *DB) CheckDependents(name string) error {
	dependents, err := d.Dependents(name)
	if err != nil {
		return ashErrors.FromEngine(err)
	}
	for _, m := range dependents {
		if _, err := d.AnalyzedModule(m); err != nil {
			return err
		}
	}
	return nil
}

// AllModulesAnalyzed demands every module's analysis, failing on the first
// error.
func (d *DB) AllModulesAnalyzed() ([]project.Analysed, error) {
	v, err := d.Engine.Demand(allModulesAnalyzedKey())
	if err != nil {
		return nil, ashErrors.FromEngine(err)
	}
	return v.([]project.Analysed), nil
}

func computeAllModulesAnalyzed(e *engine.Engine, key engine.Key) (any, error) {
	allAny, err := e.Demand(allSourcesKey())
	if err != nil {
		return nil, err
	}
	all := allAny.([]project.Input)

	out := make([]project.Analysed, 0, len(all))
	for _, in := range all {
		name, ok := project.ModuleName(in)
		if !ok {
			continue
		}
		v, err := e.Demand(analyzedModuleKey(name))
		if err != nil {
			return nil, err
		}
		out = append(out, v.(project.Analysed))
	}
	return out, nil
}
