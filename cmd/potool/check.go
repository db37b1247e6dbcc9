// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"codeberg.org/potool/potool/coverage"
	"codeberg.org/potool/potool/locale"
	"codeberg.org/potool/potool/validate"
)

var errBadFormat = errors.New("unsupported --format value")

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
)

var validateCmd = &cobra.Command{
	Use:   "validate [flags] <file.po>",
	Short: "Check a catalogue for errors",
	Long: `Validate runs every catalogue check and prints the findings. It fails when
a finding is at or above --fail-on.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

var coverageCmd = &cobra.Command{
	Use:   "coverage [flags] <root> <file.po>",
	Short: "Report how much of a source tree a catalogue translates",
	Args:  cobra.ExactArgs(2),
	RunE:  runCoverage,
}

func init() {
	validateCmd.Flags().String("lang", "", "locale to check plural forms against (default: Language header)")
	validateCmd.Flags().Bool("strict", false, "treat untranslated entries as errors")
	validateCmd.Flags().String("fail-on", "", "lowest failing severity (info|warning|error)")
	validateCmd.Flags().String("format", "text", "output format (text|json)")

	coverageCmd.Flags().Float64("min-pct", -1, "minimum coverage percentage (default from config)")
	coverageCmd.Flags().String("format", "", "output format (text|json|csv)")
	coverageCmd.Flags().Int("jobs", 0, "max parallel workers (0=config or auto)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]

	c, err := readCatalog(path)
	if err != nil {
		return err
	}

	opts := validate.Options{Strict: cfg.Validate.Strict}

	if strict, _ := cmd.Flags().GetBool("strict"); strict {
		opts.Strict = true
	}

	if lang, _ := cmd.Flags().GetString("lang"); lang != "" {
		loc, err := locale.Lookup(lang)
		if err != nil {
			return err
		}

		opts.Locale = &loc
	}

	failOn := cfg.Validate.FailOn

	if s, _ := cmd.Flags().GetString("fail-on"); s != "" {
		if failOn, err = validate.ParseSeverity(s); err != nil {
			return err
		}
	}

	diags := validate.Validate(c, opts)

	format, _ := cmd.Flags().GetString("format")

	switch format {
	case "text":
		printDiagnostics(cmd.OutOrStdout(), path, diags)
	case "json":
		if diags == nil {
			diags = []validate.Diagnostic{}
		}

		if err := writeJSON(cmd.OutOrStdout(), diags); err != nil {
			return err
		}
	default:
		return errBadFormat
	}

	log.Debug().
		Str("path", path).
		Int("errors", validate.Count(diags, validate.Error)).
		Int("warnings", validate.Count(diags, validate.Warning)).
		Int("infos", validate.Count(diags, validate.Info)).
		Msg("Validated catalogue")

	if len(validate.AtOrAbove(diags, failOn)) > 0 {
		return errCheckFailed
	}

	return nil
}

func printDiagnostics(w io.Writer, path string, diags []validate.Diagnostic) {
	for _, d := range diags {
		sev := infoColor

		switch d.Severity {
		case validate.Error:
			sev = errorColor
		case validate.Warning:
			sev = warningColor
		}

		fmt.Fprintf(w, "%s:%d: %s [%s] %s", path, d.Line, sev.Sprint(d.Severity), d.Rule, d.Message)

		if d.Snippet != "" {
			fmt.Fprintf(w, " (%q)", d.Snippet)
		}

		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%d errors, %d warnings, %d infos\n",
		validate.Count(diags, validate.Error),
		validate.Count(diags, validate.Warning),
		validate.Count(diags, validate.Info))
}

func runCoverage(cmd *cobra.Command, args []string) error {
	c, err := readCatalog(args[1])
	if err != nil {
		return err
	}

	inv, err := scanTree(cmd.Context(), cmd, args[0])
	if err != nil {
		return err
	}

	minPct := cfg.Coverage.MinPct
	if v, _ := cmd.Flags().GetFloat64("min-pct"); v >= 0 {
		minPct = v
	}

	format := cfg.Coverage.Format
	if v, _ := cmd.Flags().GetString("format"); v != "" {
		format = v
	}

	r := coverage.Compute(inv.All(), c, minPct)

	switch format {
	case "text":
		err = r.WriteText(cmd.OutOrStdout())
	case "json":
		err = r.WriteJSON(cmd.OutOrStdout())
	case "csv":
		err = r.WriteCSV(cmd.OutOrStdout())
	default:
		err = errBadFormat
	}

	if err != nil {
		return err
	}

	if r.BelowThreshold {
		return errCheckFailed
	}

	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
