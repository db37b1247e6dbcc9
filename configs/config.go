// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"codeberg.org/potool/potool/builder"
	"codeberg.org/potool/potool/extract"
	"codeberg.org/potool/potool/i18n"
	"codeberg.org/potool/potool/scan"
	"codeberg.org/potool/potool/validate"
)

// ConfigFileEnv names the environment variable holding the config file path.
const ConfigFileEnv = "POTOOL_CONFIGFILE"

// defaultConfigFiles are tried in order when no path is given.
var defaultConfigFiles = []string{"./potool.yaml", "./potool.yml", "./potool.toml"}

// Config holds the tool configuration.
type Config struct {
	Scan struct {
		Workers int      `env:"POTOOL_WORKERS,overwrite" toml:"workers" yaml:"workers"`
		Exclude []string `env:"POTOOL_EXCLUDE,overwrite" toml:"exclude" yaml:"exclude"`
		// RawExtensions holds "ext=dialect" pairs, for example ".py=script".
		RawExtensions []string                   `env:"POTOOL_EXTENSIONS,overwrite" toml:"extensions" yaml:"extensions"`
		Extensions    map[string]extract.Dialect `toml:"-" yaml:"-"`
	} `toml:"scan" yaml:"scan"`

	Script struct {
		Markers []string `env:"POTOOL_SCRIPT_MARKERS,overwrite" toml:"markers" yaml:"markers"`
	} `toml:"script" yaml:"script"`

	Variant struct {
		Markers []string `env:"POTOOL_VARIANT_MARKERS,overwrite" toml:"markers" yaml:"markers"`
	} `toml:"variant" yaml:"variant"`

	Markup struct {
		Attributes   []string `env:"POTOOL_MARKUP_ATTRIBUTES,overwrite" toml:"attributes" yaml:"attributes"`
		Text         bool     `env:"POTOOL_MARKUP_TEXT,overwrite" toml:"text" yaml:"text"`
		TextElements []string `env:"POTOOL_MARKUP_TEXT_ELEMENTS,overwrite" toml:"textElements" yaml:"textElements"`
		DisableAttr  string   `env:"POTOOL_MARKUP_DISABLE_ATTR,overwrite" toml:"disableAttr" yaml:"disableAttr"`
		DisableValue string   `env:"POTOOL_MARKUP_DISABLE_VALUE,overwrite" toml:"disableValue" yaml:"disableValue"`
	} `toml:"markup" yaml:"markup"`

	Catalog struct {
		Project    string `env:"POTOOL_PROJECT,overwrite" toml:"project" yaml:"project"`
		BugsTo     string `env:"POTOOL_BUGS_TO,overwrite" toml:"bugsTo" yaml:"bugsTo"`
		Translator string `env:"POTOOL_TRANSLATOR,overwrite" toml:"translator" yaml:"translator"`
		Team       string `env:"POTOOL_TEAM,overwrite" toml:"team" yaml:"team"`
	} `toml:"catalog" yaml:"catalog"`

	Validate struct {
		Strict bool `env:"POTOOL_STRICT,overwrite" toml:"strict" yaml:"strict"`
		// RawFailOn is the lowest severity that fails a validation run.
		RawFailOn string            `env:"POTOOL_FAIL_ON,overwrite" toml:"failOn" yaml:"failOn"`
		FailOn    validate.Severity `toml:"-" yaml:"-"`
	} `toml:"validate" yaml:"validate"`

	Coverage struct {
		MinPct float64 `env:"POTOOL_MIN_PCT,overwrite" toml:"minPct" yaml:"minPct"`
		Format string  `env:"POTOOL_COVERAGE_FORMAT,overwrite" toml:"format" yaml:"format"`
	} `toml:"coverage" yaml:"coverage"`

	Internationalization struct {
		Domain string `env:"POTOOL_I18N_DOMAIN,overwrite" toml:"domain" yaml:"domain"`
		// Strict mode for missing keys.
		//
		// When enabled, missing keys are logged (deduplicated per locale+key) and
		// visibly wrapped using markers.
		StrictMissingKeys bool `env:"POTOOL_STRICT_MISSING_KEYS" toml:"strictMissingKeys" yaml:"strictMissingKeys"`
	} `toml:"i18n" yaml:"i18n"`

	Log struct {
		Level   string   `env:"POTOOL_LOG_LEVEL,overwrite" toml:"logLevel" yaml:"logLevel"`
		Outputs []string `env:"POTOOL_LOG_OUTPUTS,overwrite" toml:"logOutputs" yaml:"logOutputs"`
		Format  string   `env:"POTOOL_LOG_FORMAT,overwrite" toml:"logFormat" yaml:"logFormat"`
	} `toml:"log" yaml:"log"`
}

// LoadConfig loads the configuration from its sources, lowest precedence
// first: defaults, the config file, a .env file, then POTOOL_* variables.
//
// The config file is configFilePath when set, then $POTOOL_CONFIGFILE, then
// the first of potool.yaml, potool.yml and potool.toml in the working
// directory.
func (cfg *Config) LoadConfig(configFilePath string) error {
	if configFilePath == "" {
		configFilePath = os.Getenv(ConfigFileEnv)
	}

	if configFilePath == "" {
		configFilePath = findConfigFile()
	}

	cfg.SetDefaults()

	if err := cfg.readFile(configFilePath); err != nil {
		return fmt.Errorf("error loading config file: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	return nil
}

func findConfigFile() string {
	for _, p := range defaultConfigFiles {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// ScanOptions returns scan options with extractors built from the dialect
// sections.
func (cfg *Config) ScanOptions() scan.Options {
	logger := log.With().Str("sys", "scan").Logger()

	return scan.Options{
		Extensions: cfg.Scan.Extensions,
		Extractors: map[extract.Dialect]extract.Extractor{
			extract.Script:  extract.NewScript(cfg.Script.Markers),
			extract.Markup:  extract.NewMarkup(cfg.MarkupOptions()),
			extract.Variant: extract.NewVariant(cfg.Variant.Markers),
		},
		Exclude: cfg.Scan.Exclude,
		Workers: cfg.Scan.Workers,
		Logger:  &logger,
	}
}

// MarkupOptions returns the markup extractor settings.
func (cfg *Config) MarkupOptions() extract.MarkupOptions {
	return extract.MarkupOptions{
		Attributes:   cfg.Markup.Attributes,
		Text:         cfg.Markup.Text,
		TextElements: cfg.Markup.TextElements,
		DisableAttr:  cfg.Markup.DisableAttr,
		DisableValue: cfg.Markup.DisableValue,
	}
}

// BuilderOptions returns the header settings for generated catalogues.
func (cfg *Config) BuilderOptions() builder.Options {
	return builder.Options{
		Project:    cfg.Catalog.Project,
		BugsTo:     cfg.Catalog.BugsTo,
		Translator: cfg.Catalog.Translator,
		Team:       cfg.Catalog.Team,
	}
}

// I18nOptions returns the runtime lookup settings.
func (cfg *Config) I18nOptions() i18n.Options {
	logger := log.Logger

	return i18n.Options{
		Domain: cfg.Internationalization.Domain,
		Strict: cfg.Internationalization.StrictMissingKeys,
		Logger: &logger,
	}
}

// LogLevel returns the configured zerolog level.
func (cfg *Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}

	return level
}
