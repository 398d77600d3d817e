// Package manifest loads the project manifest (ash.toml) at the root of a
// project being built. Only the project name is part of the core contract;
// an optional build-exclude glob list is read as a supplement.
package manifest

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	ashErrors "github.com/ash-lang/ashc/internal/errors"
)

// Manifest is the parsed contents of ash.toml.
type Manifest struct {
	Name  string      `toml:"name"`
	Build BuildConfig `toml:"build"`
}

// BuildConfig is the optional [build] table.
type BuildConfig struct {
	Exclude []string `toml:"exclude"`
}

const fileName = "ash.toml"

// Load reads and parses <root>/ash.toml. Any I/O or parse failure is
// reported as an errors.FileIO, matching the manifest's "fatal, no core
// query involved" status.
func Load(root string) (*Manifest, error) {
	path := filepath.Join(root, fileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ashErrors.FileIO{Action: ashErrors.ActionOpen, Kind: ashErrors.KindFile, Path: path, Err: err}
		}
		return nil, &ashErrors.FileIO{Action: ashErrors.ActionRead, Kind: ashErrors.KindFile, Path: path, Err: err}
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, &ashErrors.FileIO{Action: ashErrors.ActionParse, Kind: ashErrors.KindFile, Path: path, Err: err}
	}

	return &m, nil
}
