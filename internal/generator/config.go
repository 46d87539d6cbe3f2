package generator

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/calumari/forge/internal/options"
)

// ProjectFile is the config file looked up in the package directory.
const ProjectFile = "forge.yaml"

// ProjectConfig is the optional project config file. Defaults are layered
// under every struct annotation.
type ProjectConfig struct {
	Suffix   string               `yaml:"suffix"`
	Defaults options.StructConfig `yaml:"defaults"`
}

// loadProjectConfig reads path, or forge.yaml in dir when path is empty. A
// missing default file is not an error.
func loadProjectConfig(dir, path string) (*ProjectConfig, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, ProjectFile)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &ProjectConfig{}, nil
		}
		return nil, err
	}
	return parseProjectConfig(data, path)
}

func parseProjectConfig(data []byte, path string) (*ProjectConfig, error) {
	var cfg ProjectConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}
