// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/potool/potool/extract"
	"codeberg.org/potool/potool/validate"
)

/*
These tests set environment variables, so they cannot run in parallel.

TestLoadConfig focuses on verifying main functionality (e.g. rejection of
invalid input), and *shouldn't* need exhaustive scenarios
*/

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string            // Description of the test case
		env     map[string]string // Name of the environment variable and its value
		wantErr bool              // Whether an error is expected
	}{
		{
			name: "Valid configuration",
			env: map[string]string{
				"POTOOL_WORKERS":        "4",
				"POTOOL_SCRIPT_MARKERS": "gettext, _",
				"POTOOL_FAIL_ON":        "warning",
			},
		},
		{
			name:    "Unknown dialect",
			env:     map[string]string{"POTOOL_EXTENSIONS": ".py=cobol"},
			wantErr: true,
		},
		{
			name:    "Extension without dot",
			env:     map[string]string{"POTOOL_EXTENSIONS": "py=script"},
			wantErr: true,
		},
		{
			name:    "Invalid POTOOL_FAIL_ON",
			env:     map[string]string{"POTOOL_FAIL_ON": "fatal"},
			wantErr: true,
		},
		{
			name:    "Threshold out of range",
			env:     map[string]string{"POTOOL_MIN_PCT": "150"},
			wantErr: true,
		},
		{
			name:    "Negative workers",
			env:     map[string]string{"POTOOL_WORKERS": "-1"},
			wantErr: true,
		},
		{
			name:    "Malformed number",
			env:     map[string]string{"POTOOL_WORKERS": "many"},
			wantErr: true,
		},
		{
			name:    "Invalid log format",
			env:     map[string]string{"POTOOL_LOG_FORMAT": "xml"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(ConfigFileEnv, "")

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := &Config{}

			err := cfg.LoadConfig("")
			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, 4, cfg.Scan.Workers)
			assert.Equal(t, []string{"gettext", "_"}, cfg.Script.Markers)
			assert.Equal(t, validate.Warning, cfg.Validate.FailOn)
			assert.Equal(t, extract.Variant, cfg.Scan.Extensions[".mjs"])
			assert.Equal(t, extract.DefaultVariantMarkers, cfg.Variant.Markers)
		})
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))

	return p
}

func TestLoadConfigFile(t *testing.T) {
	files := map[string]string{
		"potool.yaml": `
scan:
  workers: 2
  extensions:
    - ".py=script"
    - ".html=markup"
markup:
  text: true
coverage:
  minPct: 80
`,
		"potool.toml": `
[scan]
workers = 2
extensions = [".py=script", ".html=markup"]

[markup]
text = true

[coverage]
minPct = 80.0
`,
	}

	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			t.Setenv("POTOOL_COVERAGE_FORMAT", "json")

			cfg := &Config{}
			require.NoError(t, cfg.LoadConfig(writeFile(t, name, content)))

			assert.Equal(t, 2, cfg.Scan.Workers)
			assert.True(t, cfg.Markup.Text)
			assert.InDelta(t, 80.0, cfg.Coverage.MinPct, 1e-9)
			assert.Equal(t, "json", cfg.Coverage.Format)
			assert.Equal(t, map[string]extract.Dialect{
				".py":   extract.Script,
				".html": extract.Markup,
			}, cfg.Scan.Extensions)
			assert.Equal(t, extract.DefaultAttributes, cfg.Markup.Attributes)

			opts := cfg.ScanOptions()
			d, ok := opts.DialectFor("templates/index.HTML")
			assert.True(t, ok)
			assert.Equal(t, extract.Markup, d)
			assert.Len(t, opts.Extractors, 3)
		})
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	t.Setenv("POTOOL_MIN_PCT", "90")

	cfg := &Config{}
	require.NoError(t, cfg.LoadConfig(writeFile(t, "potool.yml", "coverage:\n  minPct: 80\n")))
	assert.InDelta(t, 90.0, cfg.Coverage.MinPct, 1e-9)
}

func TestLoadConfigErrors(t *testing.T) {
	cfg := &Config{}
	require.Error(t, cfg.LoadConfig(writeFile(t, "potool.json", "{}")))
	require.Error(t, cfg.LoadConfig(writeFile(t, "potool.toml", "[scan\n")))

	// A missing file is skipped.
	require.NoError(t, cfg.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")))

	t.Setenv(ConfigFileEnv, "")
	t.Setenv("POTOOL_EXTENSIONS", ".py=bogus")

	err := cfg.LoadConfig("")
	require.ErrorIs(t, err, errInvalidExtension)
	assert.Contains(t, err.Error(), ".py=bogus")
}

func TestPrint(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	cfg.SetDefaults()
	require.NoError(t, cfg.validateAndSet())

	var yml, tml bytes.Buffer
	require.NoError(t, cfg.Print(&yml, "yaml"))
	require.NoError(t, cfg.Print(&tml, "toml"))

	assert.Contains(t, yml.String(), "scan:")
	assert.Contains(t, yml.String(), "failOn: error")
	assert.NotContains(t, yml.String(), "Build")
	assert.Contains(t, tml.String(), "[scan]")
	assert.Contains(t, tml.String(), `failOn = "error"`)
}

func TestParseDotEnv(t *testing.T) {
	t.Parallel()

	vars, bad := parseDotEnv("# comment\n\nPOTOOL_WORKERS=4\r\nexport POTOOL_FAIL_ON = 'warning'\n" +
		"POTOOL_PROJECT=\"demo app\"\nnot a pair\n=value\nPOTOOL_TEAM=")

	assert.Equal(t, [][2]string{
		{"POTOOL_WORKERS", "4"},
		{"POTOOL_FAIL_ON", "warning"},
		{"POTOOL_PROJECT", "demo app"},
		{"POTOOL_TEAM", ""},
	}, vars)
	assert.Equal(t, []int{6, 7}, bad)
}

func TestRevision(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "unknown", revision(nil))
	assert.Equal(t, "2025-06-01-1a2b3c4d+dirty", revision([]debug.BuildSetting{
		{Key: "vcs.revision", Value: "1a2b3c4d5e6f"},
		{Key: "vcs.time", Value: "2025-06-01T10:00:00Z"},
		{Key: "vcs.modified", Value: "true"},
	}))
	assert.True(t, strings.HasPrefix(Version(), BuildVersion+" ("))
}

func TestPrefixLocation(t *testing.T) {
	t.Parallel()

	m := map[string]any{"sys": "scan", "file": "a.py", "line": 3, "message": "dynamic argument"}
	require.NoError(t, prefixLocation(m))
	assert.Equal(t, "a.py:3: dynamic argument", m["message"])
	assert.NotContains(t, m, "file")

	other := map[string]any{"sys": "i18n", "file": "a.py", "message": "x"}
	require.NoError(t, prefixLocation(other))
	assert.Equal(t, "x", other["message"])
}
