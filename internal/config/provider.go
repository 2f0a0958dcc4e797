package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Provider describes one inventory API: where to poll it, how to decode it,
// and the name/code maps that make its payload readable.
type Provider struct {
	Name      string            `yaml:"name"`
	API       string            `yaml:"api" validate:"required,url"`
	Extractor string            `yaml:"extractor"`
	ServerMap map[string]string `yaml:"serverMap" validate:"required,min=1"` // server name -> provider reference
	ZoneMap   map[string]string `yaml:"zoneMap"`                             // zone code -> display name
	Info      string            `yaml:"info"`                                // closing line of every report
}

var providerExts = []string{".yaml", ".yml", ".json"}

// LoadProvider finds <dir>/<name>.{yaml,yml,json} and parses the first match.
func LoadProvider(dir, name string) (*Provider, error) {
	if name == "" || filepath.Base(name) != name {
		return nil, fmt.Errorf("%w: %q", ErrInvalidProviderName, name)
	}

	for _, ext := range providerExts {
		path := filepath.Join(dir, name+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read provider file: %w", err)
		}

		var p Provider
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("failed to parse provider file %s: %w", path, err)
		}
		if p.Name == "" {
			p.Name = name
		}
		if p.Extractor == "" {
			p.Extractor = name
		}
		if err := Validate(&p); err != nil {
			return nil, fmt.Errorf("provider %s: %w", path, err)
		}
		return &p, nil
	}
	return nil, fmt.Errorf("%w: %q in %s", ErrProviderNotFound, name, dir)
}
