// Package config loads grouping configs and coverage summaries from disk and
// holds the option structs shared by the command line tools.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/oxhq/covgroup/core"
	"github.com/oxhq/covgroup/internal/schema"
)

var (
	ErrConfigRead   = errors.New("cannot read config")
	ErrCoverageRead = errors.New("cannot read coverage")
)

// LoadConfig reads a grouping config. Files ending in .yaml or .yml are
// converted to JSON first; the document is then schema checked, decoded with
// group order preserved, and every glob is validated.
func LoadConfig(path string) (core.Config, error) {
	var cfg core.Config

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrConfigRead, err)
	}

	if isYAML(path) {
		raw, err = yaml.YAMLToJSON(raw)
		if err != nil {
			return cfg, fmt.Errorf("%w: %s: %w", ErrConfigRead, path, err)
		}
	}

	if err := schema.ValidateConfig(raw); err != nil {
		return cfg, err
	}

	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %w", ErrConfigRead, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// LoadCoverage reads and validates a coverage summary document.
func LoadCoverage(path string) (core.CoverageData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCoverageRead, err)
	}

	if err := schema.ValidateCoverage(raw); err != nil {
		return nil, err
	}

	var data core.CoverageData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCoverageRead, path, err)
	}

	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return data, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
