// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"fmt"
	"strings"

	"codeberg.org/potool/potool/catalog"
)

// Dialect names a source language family.
type Dialect string

const (
	Script  Dialect = "script"
	Markup  Dialect = "markup"
	Variant Dialect = "variant"
)

// Dialects lists every supported dialect.
var Dialects = []Dialect{Script, Markup, Variant}

// ParseDialect converts a configuration value to a Dialect.
func ParseDialect(s string) (Dialect, bool) {
	for _, d := range Dialects {
		if strings.EqualFold(s, string(d)) {
			return d, true
		}
	}

	return "", false
}

// Span is a half-open byte range within a source file.
type Span struct {
	Start int
	End   int
}

// Literal is one occurrence of translatable text.
type Literal struct {
	Text    string
	File    string
	Line    int
	Dialect Dialect
	Span    Span

	// Flags holds format flags inferred from the text, such as
	// "python-format".
	Flags []string

	// Note describes where the literal came from inside the file, for
	// example "attr:placeholder". It is empty for script literals.
	Note string
}

// Location formats the literal position as "file:line".
func (l Literal) Location() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Warning is a non-fatal problem found while extracting.
type Warning struct {
	File    string
	Line    int
	Message string
}

func (w Warning) String() string {
	if w.Line == 0 {
		return fmt.Sprintf("%s: %s", w.File, w.Message)
	}

	return fmt.Sprintf("%s:%d: %s", w.File, w.Line, w.Message)
}

// Extractor pulls literals out of one file's content.
type Extractor interface {
	Extract(path string, src []byte) ([]Literal, []Warning)
}

// formatFlag returns the format flag a literal of dialect d carries when its
// text contains printf-style specifiers.
func formatFlag(d Dialect, text string) []string {
	if !catalog.HasFormatSpecifiers(text) {
		return nil
	}

	switch d {
	case Script:
		return []string{catalog.FlagPythonFormat}
	case Variant:
		return []string{catalog.FlagJSFormat}
	}

	return nil
}

// isBlank reports whether s has no visible content.
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
