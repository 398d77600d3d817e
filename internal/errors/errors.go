// Package errors defines the closed set of error kinds the build engine can
// surface, independent of how they are eventually rendered.
package errors

import (
	"fmt"

	"github.com/ash-lang/ashc/internal/engine"
)

// FileIOAction names the filesystem operation that failed.
type FileIOAction string

const (
	ActionRead       FileIOAction = "read"
	ActionCreate     FileIOAction = "create"
	ActionWriteTo    FileIOAction = "write to"
	ActionDelete     FileIOAction = "delete"
	ActionOpen       FileIOAction = "open"
	ActionParse      FileIOAction = "parse"
	ActionFindParent FileIOAction = "find parent of"
)

// FileKind distinguishes a file from a directory in FileIO errors.
type FileKind string

const (
	KindFile      FileKind = "file"
	KindDirectory FileKind = "directory"
)

// FileIO reports a failed filesystem operation.
type FileIO struct {
	Action FileIOAction
	Kind   FileKind
	Path   string
	Err    error
}

func (e *FileIO) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to %s %s %s: %v", e.Action, e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s %s %s", e.Action, e.Kind, e.Path)
}

func (e *FileIO) Unwrap() error { return e.Err }

// Report implements Reportable.
func (e *FileIO) Report() *Report {
	return &Report{
		Code:    "E_FILE_IO",
		Phase:   "io",
		Message: e.Error(),
		Path:    e.Path,
	}
}

// Span is a half-open byte range into a module's source text.
type Span struct {
	Start int
	End   int
}

// Parse reports a grammar or tokenizer failure.
type Parse struct {
	Path string
	Src  string
	Err  error
}

func (e *Parse) Error() string {
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

func (e *Parse) Unwrap() error { return e.Err }

func (e *Parse) Report() *Report {
	return &Report{
		Code:    "E_PARSE",
		Phase:   "parse",
		Message: e.Error(),
		Path:    e.Path,
	}
}

// Type reports a type-inference failure.
type Type struct {
	Path string
	Src  string
	Err  error
}

func (e *Type) Error() string {
	return fmt.Sprintf("type error in %s: %v", e.Path, e.Err)
}

func (e *Type) Unwrap() error { return e.Err }

func (e *Type) Report() *Report {
	return &Report{
		Code:    "E_TYPE",
		Phase:   "typecheck",
		Message: e.Error(),
		Path:    e.Path,
	}
}

// UnknownImport is synthesized by the Analyzed layer when a dependency's
// module_ast demand reports FileIO: the import target simply does not exist.
type UnknownImport struct {
	Module  string
	Import  string
	Path    string
	Src     string
	Span    Span
	Modules []string
}

func (e *UnknownImport) Error() string {
	return fmt.Sprintf("module %q imports unknown module %q", e.Module, e.Import)
}

func (e *UnknownImport) Report() *Report {
	return &Report{
		Code:    "E_UNKNOWN_IMPORT",
		Phase:   "analyze",
		Message: e.Error(),
		Path:    e.Path,
	}
}

// Cycle reports an import cycle detected by the memoization engine.
type Cycle struct {
	Stack []engine.Key
}

func (e *Cycle) Error() string {
	s := "import cycle:"
	for _, k := range e.Stack {
		s += " -> " + k.String()
	}
	return s
}

func (e *Cycle) Report() *Report {
	return &Report{
		Code:    "E_CYCLE",
		Phase:   "analyze",
		Message: e.Error(),
	}
}

// FromEngine converts an engine.CycleError into a Cycle, passing any other
// error through unchanged. Compute functions inside internal/db see the raw
// *engine.CycleError; the DB methods AnalyzedModule, CheckDependents,
// AllModulesAnalyzed and GenerateProjectCode convert it with this function
// before returning.
func FromEngine(err error) error {
	var ce *engine.CycleError
	if cycleAs(err, &ce) {
		return &Cycle{Stack: ce.Stack}
	}
	return err
}

func cycleAs(err error, target **engine.CycleError) bool {
	ce, ok := err.(*engine.CycleError)
	if !ok {
		return false
	}
	*target = ce
	return true
}

// DuplicateModule reports two Inputs mapping to the same ModuleName during
// source discovery: create_module_name is required to be injective over the
// live input set, and a collision is a build error rather than a silent
// pick-one.
type DuplicateModule struct {
	Name       string
	FirstPath  string
	SecondPath string
}

func (e *DuplicateModule) Error() string {
	return fmt.Sprintf("module %q is defined by both %s and %s", e.Name, e.FirstPath, e.SecondPath)
}

func (e *DuplicateModule) Report() *Report {
	return &Report{
		Code:    "E_DUPLICATE_MODULE",
		Phase:   "discover",
		Message: e.Error(),
		Path:    e.SecondPath,
	}
}

// Reportable is implemented by every error kind in this closed set.
type Reportable interface {
	error
	Report() *Report
}

// Report is a structured, serialization-friendly view of any Reportable
// error, independent of how it is ultimately rendered (pretty-printed today,
// potentially JSON-encoded in a future machine-readable output mode).
type Report struct {
	Code    string
	Phase   string
	Message string
	Path    string
}

// AsReport extracts a Report from err if it implements Reportable.
func AsReport(err error) (*Report, bool) {
	r, ok := err.(Reportable)
	if !ok {
		return nil, false
	}
	return r.Report(), true
}
