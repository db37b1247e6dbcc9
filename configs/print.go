// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

// Print writes the effective configuration to w as YAML, or as TOML when
// format is "toml".
func (cfg *Config) Print(w io.Writer, format string) error {
	if format == "toml" {
		if err := toml.NewEncoder(w).Encode(cfg); err != nil {
			return fmt.Errorf("failed to marshal config to TOML: %w", err)
		}

		return nil
	}

	configYAML, err := yaml.MarshalWithOptions(*cfg, yaml.Indent(2))
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if _, err := w.Write(configYAML); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
