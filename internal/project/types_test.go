package project_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ash-lang/ashc/internal/project"
)

func TestModuleName(t *testing.T) {
	tests := []struct {
		name     string
		in       project.Input
		wantName string
		wantOK   bool
	}{
		{
			name:     "simple",
			in:       project.Input{Path: "/proj/src/foo.ash", SourceBasePath: "/proj/src"},
			wantName: "foo",
			wantOK:   true,
		},
		{
			name:     "nested",
			in:       project.Input{Path: "/proj/src/a/b/c.ash", SourceBasePath: "/proj/src"},
			wantName: "a/b/c",
			wantOK:   true,
		},
		{
			name:   "rejects uppercase",
			in:     project.Input{Path: "/proj/src/Foo.ash", SourceBasePath: "/proj/src"},
			wantOK: false,
		},
		{
			name:   "rejects hyphen",
			in:     project.Input{Path: "/proj/src/foo-bar.ash", SourceBasePath: "/proj/src"},
			wantOK: false,
		},
		{
			name:   "rejects outside source base",
			in:     project.Input{Path: "/other/foo.ash", SourceBasePath: "/proj/src"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, ok := project.ModuleName(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantName, name)
			}
		})
	}
}

func TestIsModulePath(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		srcDir string
		want   bool
	}{
		{"ash file", "/proj/src/foo.ash", "/proj/src", true},
		{"wrong extension", "/proj/src/foo.erl", "/proj/src", false},
		{"nested ok", "/proj/src/a/b.ash", "/proj/src", true},
		{"invalid segment", "/proj/src/A.ash", "/proj/src", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, project.IsModulePath(tt.path, tt.srcDir))
		})
	}
}

func TestInputEqual(t *testing.T) {
	a := project.Input{Path: "/p/a.ash", SourceBasePath: "/p", Src: "x", Origin: project.Src}
	b := project.Input{Path: "/p/a.ash", SourceBasePath: "/p", Src: "x", Origin: project.Src}
	c := project.Input{Path: "/p/a.ash", SourceBasePath: "/p", Src: "y", Origin: project.Src}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal("not an input"))
}

func TestOriginDirName(t *testing.T) {
	assert.Equal(t, "src", project.Src.DirName())
	assert.Equal(t, "test", project.Test.DirName())
	assert.Equal(t, "src", project.Dependency.DirName())
}
