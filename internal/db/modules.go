package db

import (
	"fmt"
	"strings"

	"github.com/ash-lang/ashc/internal/compiler/ast"
	"github.com/ash-lang/ashc/internal/compiler/parser"
	"github.com/ash-lang/ashc/internal/engine"
	ashErrors "github.com/ash-lang/ashc/internal/errors"
	"github.com/ash-lang/ashc/internal/project"
)

func moduleASTKey(name string) engine.Key    { return engine.Key{Query: "module_ast", Arg: name} }
func dependenciesKey(name string) engine.Key { return engine.Key{Query: "dependencies", Arg: name} }
func dependentsKey(name string) engine.Key   { return engine.Key{Query: "dependents", Arg: name} }
func allModulesASTKey() engine.Key {
	return engine.Key{Query: "all_modules_ast", Arg: sourcesKeyType{}}
}

// ModuleAST demands the parsed Module for name.
func (d *DB) ModuleAST(name string) (project.Module, error) {
	v, err := d.Engine.Demand(moduleASTKey(name))
	if err != nil {
		return project.Module{}, err
	}
	return v.(project.Module), nil
}

func computeModuleAST(e *engine.Engine, key engine.Key) (any, error) {
	name := key.Arg.(string)

	namesAny, err := e.Demand(sourcesKey)
	if err != nil {
		return nil, err
	}
	names := namesAny.(map[string]bool)
	if !names[name] {
		return nil, &ashErrors.FileIO{
			Action: ashErrors.ActionRead,
			Kind:   ashErrors.KindFile,
			Path:   "",
			Err:    fmt.Errorf("unable to resolve module %s", name),
		}
	}

	srcAny, err := e.Demand(sourceFileKey(name))
	if err != nil {
		return nil, err
	}
	src := srcAny.(project.Input)

	tokens, comments := parser.StripExtra(src.Src)
	mod, err := parser.Parse(tokens)
	if err != nil {
		return nil, &ashErrors.Parse{Path: src.Path, Src: src.Src, Err: err}
	}

	attachDocComments(mod, comments)
	mod.Name = strings.Split(name, "/")

	return project.Module{
		Src:            src.Src,
		Path:           src.Path,
		SourceBasePath: src.SourceBasePath,
		Origin:         src.Origin,
		AST:            mod,
	}, nil
}

// attachDocComments walks statements left-to-right, consuming the prefix of
// comments whose end offset precedes the statement's own end and attaching
// that prefix as the statement's doc.
func attachDocComments(mod *ast.Module, comments []parser.Comment) {
	for i := range mod.Statements {
		stmt := &mod.Statements[i]
		var prefix []parser.Comment
		prefix, comments = parser.TakeBefore(comments, stmt.Location.End)
		if len(prefix) == 0 {
			continue
		}
		lines := make([]string, len(prefix))
		for j, c := range prefix {
			lines[j] = strings.TrimSpace(strings.TrimPrefix(c.Text, "//"))
		}
		stmt.Doc = strings.Join(lines, "\n")
	}
}

// Dependencies demands name's outbound import list.
func (d *DB) Dependencies(name string) ([]ast.Import, error) {
	v, err := d.Engine.Demand(dependenciesKey(name))
	if err != nil {
		return nil, err
	}
	return v.([]ast.Import), nil
}

func computeDependencies(e *engine.Engine, key engine.Key) (any, error) {
	name := key.Arg.(string)
	v, err := e.Demand(moduleASTKey(name))
	if err != nil {
		// Silently empty: the Analyzed layer surfaces the underlying error.
		return []ast.Import{}, nil
	}
	return v.(project.Module).Dependencies(), nil
}

// Dependents demands the list of modules that import name, computed by
// scanning all sources rather than a materialized reverse index.
func (d *DB) Dependents(name string) ([]string, error) {
	v, err := d.Engine.Demand(dependentsKey(name))
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

func computeDependents(e *engine.Engine, key engine.Key) (any, error) {
	target := key.Arg.(string)

	allAny, err := e.Demand(allSourcesKey())
	if err != nil {
		return nil, err
	}
	all := allAny.([]project.Input)

	var out []string
	for _, in := range all {
		name, ok := project.ModuleName(in)
		if !ok {
			continue
		}
		depsAny, err := e.Demand(dependenciesKey(name))
		if err != nil {
			continue
		}
		for _, dep := range depsAny.([]ast.Import) {
			if dep.Module == target {
				out = append(out, name)
				break
			}
		}
	}
	return out, nil
}

// AllModulesAST demands every module's parsed AST, short-circuiting on the
// first error.
func (d *DB) AllModulesAST() ([]project.Module, error) {
	v, err := d.Engine.Demand(allModulesASTKey())
	if err != nil {
		return nil, err
	}
	return v.([]project.Module), nil
}

func computeAllModulesAST(e *engine.Engine, key engine.Key) (any, error) {
	namesAny, err := e.Demand(sourcesKey)
	if err != nil {
		return nil, err
	}
	names := namesAny.(map[string]bool)

	mods := make([]project.Module, 0, len(names))
	for _, n := range sortedKeys(names) {
		v, err := e.Demand(moduleASTKey(n))
		if err != nil {
			return nil, err
		}
		mods = append(mods, v.(project.Module))
	}
	return mods, nil
}
