package db_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ash-lang/ashc/internal/db"
	ashErrors "github.com/ash-lang/ashc/internal/errors"
	"github.com/ash-lang/ashc/internal/project"
)

func setSources(t *testing.T, d *db.DB, files map[string]string) {
	t.Helper()
	names := map[string]bool{}
	for name, text := range files {
		in := project.Input{
			Path:           "/proj/src/" + name + ".ash",
			SourceBasePath: "/proj/src",
			Src:            text,
			Origin:         project.Src,
		}
		d.SetSourceFile(name, in)
		names[name] = true
	}
	d.SetSources(names)
}

// S1: fresh build — two modules, one importing the other.
func TestFreshBuild(t *testing.T) {
	d := db.New()
	setSources(t, d, map[string]string{
		"a": "import b\n",
		"b": "",
	})

	files, err := d.GenerateProjectCode()
	require.NoError(t, err)
	require.Len(t, files, 2)

	var paths []string
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	assert.Contains(t, paths, "/proj/gen/src/a.erl")
	assert.Contains(t, paths, "/proj/gen/src/b.erl")
}

// S2: unknown import.
func TestUnknownImport(t *testing.T) {
	d := db.New()
	setSources(t, d, map[string]string{
		"a": "import c\n",
	})

	_, err := d.GenerateProjectCode()
	require.Error(t, err)
	var ui *ashErrors.UnknownImport
	require.ErrorAs(t, err, &ui)
	assert.Equal(t, "a", ui.Module)
	assert.Equal(t, "c", ui.Import)
}

// S3: parse error.
func TestParseError(t *testing.T) {
	d := db.New()
	setSources(t, d, map[string]string{
		"a": "@",
	})

	_, err := d.GenerateProjectCode()
	require.Error(t, err)
	var pe *ashErrors.Parse
	require.ErrorAs(t, err, &pe)
}

// S6: import cycle.
func TestImportCycle(t *testing.T) {
	d := db.New()
	setSources(t, d, map[string]string{
		"a": "import b\n",
		"b": "import a\n",
	})

	_, err := d.AnalyzedModule("a")
	require.Error(t, err)
	var ce *ashErrors.Cycle
	require.ErrorAs(t, err, &ce)
}

// Invariant 5: dependents law.
func TestDependentsLaw(t *testing.T) {
	d := db.New()
	setSources(t, d, map[string]string{
		"a": "import b\n",
		"c": "import b\n",
		"b": "",
	})

	deps, err := d.Dependents("b")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "c"}, deps)
}

// Invariant 1: determinism — two databases built from the same final
// Sources state produce equal generate_project_code results.
func TestDeterminism(t *testing.T) {
	build := func() []project.OutputFile {
		d := db.New()
		setSources(t, d, map[string]string{
			"a": "import b\n",
			"b": "pub fn hello() {}\n",
		})
		files, err := d.GenerateProjectCode()
		require.NoError(t, err)
		return files
	}

	a := build()
	b := build()
	require.Equal(t, len(a), len(b))
	for i := range a {
		if diff := cmp.Diff(a[i], b[i]); diff != "" {
			t.Errorf("build %d not deterministic (-first +second):\n%s", i, diff)
		}
	}
}

// Invariant 2/4: a Write that changes an upstream module's source but not
// its exported surface does not change dependents' analyzed type info. This
// engine's public surface only exposes values, not call counts, so the test
// does not observe cache reuse directly; it checks that repeated demands
// still see the dependent's type info unchanged after a whitespace edit.
func TestWhitespaceEditDoesNotChangeDependentTypeInfo(t *testing.T) {
	d := db.New()
	setSources(t, d, map[string]string{
		"a": "import b\n",
		"b": "pub fn hello() {}\n",
	})

	before, err := d.AnalyzedModule("a")
	require.NoError(t, err)

	in := project.Input{
		Path:           "/proj/src/b.ash",
		SourceBasePath: "/proj/src",
		Src:            "pub fn hello() {}\n\n\n",
		Origin:         project.Src,
	}
	d.SetSourceFile("b", in)

	after, err := d.AnalyzedModule("a")
	require.NoError(t, err)
	if diff := cmp.Diff(before.TypeInfo, after.TypeInfo); diff != "" {
		t.Errorf("dependent type info changed across a whitespace-only edit (-before +after):\n%s", diff)
	}
}

func TestModuleNameIsStableForSamePath(t *testing.T) {
	a := project.Input{Path: "/proj/src/a.ash", SourceBasePath: "/proj/src"}
	b := project.Input{Path: "/proj/src/a.ash", SourceBasePath: "/proj/src"}
	na, _ := project.ModuleName(a)
	nb, _ := project.ModuleName(b)
	assert.Equal(t, na, nb, "same path under same base must yield the same name")
}

func TestOutputPathLaw(t *testing.T) {
	d := db.New()
	setSources(t, d, map[string]string{
		"nested/mod": "",
	})
	files, err := d.GenerateProjectCode()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "/proj/gen/src/nested@mod.erl", files[0].Path)
}

func TestChangedInputObservedAfterDependentAnalysis(t *testing.T) {
	d := db.New()
	setSources(t, d, map[string]string{
		"a": "import b\n",
		"b": "",
	})
	_, err := d.AnalyzedModule("a")
	require.NoError(t, err)

	in := project.Input{
		Path:           "/proj/src/b.ash",
		SourceBasePath: "/proj/src",
		Src:            "pub fn sentinel() {}\n",
		Origin:         project.Src,
	}
	d.SetSourceFile("b", in)

	analysed, err := d.AnalyzedModule("b")
	require.NoError(t, err)
	var names []string
	for _, sig := range analysed.TypeInfo.Exports {
		names = append(names, sig.Name)
	}
	assert.Contains(t, names, "sentinel")
}
