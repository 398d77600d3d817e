// Package project holds the data model shared by every query layer: the
// on-disk Input a source file is read into, the derived Module/Analysed
// records, and the OutputFile the code generator produces.
package project

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ash-lang/ashc/internal/compiler/ast"
)

// Origin is the provenance of a module: project source, project tests, or an
// external dependency. It determines the output directory a module's
// generated code lands in.
type Origin int

const (
	Src Origin = iota
	Test
	Dependency
)

// DirName returns the generated-output subdirectory for the origin.
func (o Origin) DirName() string {
	switch o {
	case Test:
		return "test"
	default:
		return "src"
	}
}

func (o Origin) String() string {
	switch o {
	case Src:
		return "src"
	case Test:
		return "test"
	case Dependency:
		return "dependency"
	default:
		return "unknown"
	}
}

// moduleNameRE is the grammar a file's path, relative to its source base and
// minus extension, must match to be treated as a module.
var moduleNameRE = regexp.MustCompile(`^([a-z_]+/)*[a-z_]+$`)

const sourceExt = ".ash"

// Input is one compilable unit on disk. Equality is structural over all four
// fields, which is what lets the memoization engine short-circuit unchanged
// recomputation when an identical Input is re-assigned.
type Input struct {
	Path           string
	SourceBasePath string
	Src            string
	Origin         Origin
}

// Equal implements the engine's structural-equality hook.
func (i Input) Equal(other any) bool {
	o, ok := other.(Input)
	if !ok {
		return false
	}
	return i == o
}

// ModuleName derives the canonical dotted-free, slash-joined module name for
// an Input's path relative to its source base, returning false if the
// resulting name does not match the module-name grammar.
func ModuleName(in Input) (string, bool) {
	rel, err := filepath.Rel(in.SourceBasePath, in.Path)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, sourceExt)
	if !moduleNameRE.MatchString(rel) {
		return "", false
	}
	return rel, true
}

// IsModulePath reports whether path, relative to srcDir, qualifies as a
// module file: it matches the module-name grammar after the extension is
// stripped.
func IsModulePath(path, srcDir string) bool {
	rel, err := filepath.Rel(srcDir, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasSuffix(rel, sourceExt) {
		return false
	}
	rel = strings.TrimSuffix(rel, sourceExt)
	return moduleNameRE.MatchString(rel)
}

// Module is the parsed package wrapper the Modules layer produces.
type Module struct {
	Src            string
	Path           string
	SourceBasePath string
	Origin         Origin
	AST            *ast.Module
}

// Dependencies returns the module's outbound import list with source spans.
func (m Module) Dependencies() []ast.Import {
	if m.AST == nil {
		return nil
	}
	return m.AST.Dependencies()
}

// Analysed is a fully type-checked module plus its exported type
// information, ready for code generation.
type Analysed struct {
	Name           string
	Origin         Origin
	SourceBasePath string
	AST            *ast.TypedModule
	TypeInfo       ast.ModuleTypeInfo
}

// OutputFile is one generated backend source file.
type OutputFile struct {
	Path string
	Text string
}

// Equal implements the engine's structural-equality hook, used by the
// invariant 1 (determinism) test.
func (f OutputFile) Equal(other any) bool {
	o, ok := other.(OutputFile)
	if !ok {
		return false
	}
	return f == o
}
