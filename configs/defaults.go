// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"slices"

	"codeberg.org/potool/potool/extract"
	"codeberg.org/potool/potool/i18n"
	"codeberg.org/potool/potool/scan"
)

// SetDefaults populates the configuration with default values.
func (cfg *Config) SetDefaults() {
	cfg.Scan.Workers = 0
	cfg.Scan.Exclude = slices.Clone(scan.DefaultExclude)
	cfg.Scan.RawExtensions = []string{".py=script", ".xml=markup", ".js=variant", ".mjs=variant"}

	cfg.Script.Markers = slices.Clone(extract.DefaultScriptMarkers)
	cfg.Variant.Markers = slices.Clone(extract.DefaultVariantMarkers)

	cfg.Markup.Attributes = slices.Clone(extract.DefaultAttributes)
	cfg.Markup.Text = false
	cfg.Markup.TextElements = slices.Clone(extract.DefaultTextElements)
	cfg.Markup.DisableAttr = extract.DefaultDisableAttr
	cfg.Markup.DisableValue = extract.DefaultDisableValue

	cfg.Catalog.Project = ""
	cfg.Catalog.BugsTo = ""
	cfg.Catalog.Translator = ""
	cfg.Catalog.Team = ""

	cfg.Validate.Strict = false
	cfg.Validate.RawFailOn = "error"

	cfg.Coverage.MinPct = 0
	cfg.Coverage.Format = "text"

	cfg.Internationalization.Domain = i18n.DefaultDomain
	cfg.Internationalization.StrictMissingKeys = false

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"
}
