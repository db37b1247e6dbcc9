// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"codeberg.org/potool/potool/extract"
	"codeberg.org/potool/potool/validate"
)

// validation errors.
var (
	errNegativeWorkers      = errors.New("Scan.Workers cannot be negative")
	errInvalidExtension     = errors.New("invalid Scan.Extensions entry, want \".ext=dialect\"")
	errNoScriptMarkers      = errors.New("Script.Markers cannot be empty")
	errNoVariantMarkers     = errors.New("Variant.Markers cannot be empty")
	errInvalidMinPct        = errors.New("Coverage.MinPct must be between 0 and 100")
	errInvalidCoverageFmt   = errors.New("Coverage.Format must be \"text\", \"json\" or \"csv\"")
	errInvalidLogLevel      = errors.New("invalid Log.Level")
	errInvalidLogFormat     = errors.New("Log.Format must be \"console\" or \"json\"")
	errInvalidFailOnSetting = errors.New("invalid Validate.FailOn")
)

// validateAndSet validates the configuration and populates derived fields.
func (cfg *Config) validateAndSet() error {
	if cfg.Scan.Workers < 0 {
		return errNegativeWorkers
	}

	// Parse extension mappings
	cfg.Scan.Extensions = make(map[string]extract.Dialect, len(cfg.Scan.RawExtensions))

	for _, pair := range cfg.Scan.RawExtensions {
		ext, name, ok := strings.Cut(pair, "=")

		ext = strings.ToLower(strings.TrimSpace(ext))
		if !ok || !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("%w: %q", errInvalidExtension, pair)
		}

		d, ok := extract.ParseDialect(strings.TrimSpace(name))
		if !ok {
			return fmt.Errorf("%w: %q", errInvalidExtension, pair)
		}

		cfg.Scan.Extensions[ext] = d
	}

	if len(cfg.Script.Markers) == 0 {
		return errNoScriptMarkers
	}

	if len(cfg.Variant.Markers) == 0 {
		return errNoVariantMarkers
	}

	failOn, err := validate.ParseSeverity(cfg.Validate.RawFailOn)
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidFailOnSetting, err)
	}

	cfg.Validate.FailOn = failOn

	if cfg.Coverage.MinPct < 0 || cfg.Coverage.MinPct > 100 {
		return errInvalidMinPct
	}

	switch cfg.Coverage.Format {
	case "text", "json", "csv":
		// valid
	default:
		return errInvalidCoverageFmt
	}

	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("%w: %q", errInvalidLogLevel, cfg.Log.Level)
	}

	switch cfg.Log.Format {
	case "console", "json":
		// valid
	default:
		return errInvalidLogFormat
	}

	return nil
}
