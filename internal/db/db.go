// Package db wires the four query layers (Sources, Modules, Analyzed,
// CodeGen) onto the generic memoization engine. It is the only package that
// knows both the engine's Key/Compute contract and the project data model.
package db

import (
	"sort"

	"github.com/ash-lang/ashc/internal/engine"
)

// DB owns one memoization engine instance and exposes the typed query
// surface the orchestrator and watcher call.
type DB struct {
	Engine *engine.Engine
}

// New returns a DB with every derived query registered.
func New() *DB {
	return &DB{
		Engine: engine.New(map[string]engine.Compute{
			"all_sources":           computeAllSources,
			"module_ast":            computeModuleAST,
			"dependencies":          computeDependencies,
			"dependents":            computeDependents,
			"all_modules_ast":       computeAllModulesAST,
			"analyzed_module":       computeAnalyzedModule,
			"all_modules_analyzed":  computeAllModulesAnalyzed,
			"generate_project_code": computeGenerateProjectCode,
		}),
	}
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
