package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ash-lang/ashc/internal/project"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestSourcesDiscoversProjectAndTestDirs(t *testing.T) {
	root := t.TempDir()
	srcDir := filepath.Join(root, "src")
	testDir := filepath.Join(root, "test")
	writeFile(t, filepath.Join(srcDir, "a.ash"), "import b\n")
	writeFile(t, filepath.Join(srcDir, "b.ash"), "")
	writeFile(t, filepath.Join(testDir, "a_test.ash"), "")
	writeFile(t, filepath.Join(srcDir, "ignore.txt"), "not a module")

	c := project.SourceCollection{SourceDir: srcDir, TestDir: testDir}
	inputs, err := c.Sources("myproj")
	require.NoError(t, err)

	var names []string
	for _, in := range inputs {
		name, ok := project.ModuleName(in)
		require.True(t, ok)
		names = append(names, name)
	}
	assert.ElementsMatch(t, []string{"a", "b", "a_test"}, names)
}

func TestSourcesHonorsExcludeGlob(t *testing.T) {
	root := t.TempDir()
	srcDir := filepath.Join(root, "src")
	writeFile(t, filepath.Join(srcDir, "keep.ash"), "")
	writeFile(t, filepath.Join(srcDir, "generated", "skip.ash"), "")

	c := project.SourceCollection{SourceDir: srcDir, Exclude: []string{"generated/**"}}
	inputs, err := c.Sources("myproj")
	require.NoError(t, err)

	var names []string
	for _, in := range inputs {
		name, _ := project.ModuleName(in)
		names = append(names, name)
	}
	assert.ElementsMatch(t, []string{"keep"}, names)
}

func TestSourcesSkipsDependencyMatchingProjectName(t *testing.T) {
	root := t.TempDir()
	depRoot := filepath.Join(root, "_checkouts")
	writeFile(t, filepath.Join(depRoot, "myproj", "src", "self.ash"), "")
	writeFile(t, filepath.Join(depRoot, "other_dep", "src", "lib.ash"), "")

	c := project.SourceCollection{DependencyDirs: []string{depRoot}}
	inputs, err := c.Sources("myproj")
	require.NoError(t, err)

	var names []string
	for _, in := range inputs {
		name, _ := project.ModuleName(in)
		names = append(names, name)
	}
	assert.ElementsMatch(t, []string{"lib"}, names)
}

func TestOriginOfMatchesRootByPrefix(t *testing.T) {
	c := project.SourceCollection{
		SourceDir:      "/proj/src",
		TestDir:        "/proj/test",
		DependencyDirs: []string{"/proj/_checkouts/dep/src"},
	}

	base, origin, ok := c.OriginOf("/proj/src/a.ash")
	require.True(t, ok)
	assert.Equal(t, "/proj/src", base)
	assert.Equal(t, project.Src, origin)

	base, origin, ok = c.OriginOf("/proj/_checkouts/dep/src/a.ash")
	require.True(t, ok)
	assert.Equal(t, "/proj/_checkouts/dep/src", base)
	assert.Equal(t, project.Dependency, origin)

	_, _, ok = c.OriginOf("/elsewhere/a.ash")
	assert.False(t, ok)
}
