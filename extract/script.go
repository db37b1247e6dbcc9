// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"fmt"
	"strings"
)

// Default marker sets.
var (
	DefaultScriptMarkers  = []string{"_", "_lt"}
	DefaultVariantMarkers = []string{"_t", "_lt"}
)

// ScriptExtractor extracts marker call arguments from script and variant
// sources. The two dialects share the lexer and differ in syntax details
// and marker names.
type ScriptExtractor struct {
	dialect Dialect
	syntax  syntax
	markers map[string]bool
}

// NewScript returns an extractor for the script dialect. Nil markers select
// [DefaultScriptMarkers].
func NewScript(markers []string) *ScriptExtractor {
	if markers == nil {
		markers = DefaultScriptMarkers
	}

	return newScriptExtractor(Script, pythonSyntax, markers)
}

// NewVariant returns an extractor for the variant dialect. Nil markers select
// [DefaultVariantMarkers].
func NewVariant(markers []string) *ScriptExtractor {
	if markers == nil {
		markers = DefaultVariantMarkers
	}

	return newScriptExtractor(Variant, jsSyntax, markers)
}

func newScriptExtractor(d Dialect, sx syntax, markers []string) *ScriptExtractor {
	set := make(map[string]bool, len(markers))
	for _, m := range markers {
		set[m] = true
	}

	return &ScriptExtractor{dialect: d, syntax: sx, markers: set}
}

// Dialect returns the dialect the extractor handles.
func (x *ScriptExtractor) Dialect() Dialect {
	return x.dialect
}

// Extract implements [Extractor].
func (x *ScriptExtractor) Extract(path string, src []byte) ([]Literal, []Warning) {
	var (
		lits  []Literal
		warns []Warning
	)

	toks := lex(string(src), x.syntax)

	for i, t := range toks {
		if t.kind != tokIdent || !x.markers[t.text] || x.isDefinition(toks, i) {
			continue
		}

		if i+2 >= len(toks) || !isPunct(toks[i+1], "(") || toks[i+2].kind != tokString {
			continue
		}

		first := toks[i+2]
		last := first

		var (
			text   strings.Builder
			interp bool
			broken bool
		)

		j := i + 2
		for ; j < len(toks) && toks[j].kind == tokString; j++ {
			text.WriteString(toks[j].text)

			interp = interp || toks[j].interp
			broken = broken || toks[j].unterminated
			last = toks[j]
		}

		warn := func(format string, args ...any) {
			warns = append(warns, Warning{File: path, Line: first.line, Message: fmt.Sprintf(format, args...)})
		}

		switch {
		case broken:
			warn("unterminated string passed to %s", t.text)

			continue
		case interp:
			warn("interpolated string passed to %s is not extracted", t.text)

			continue
		case j >= len(toks) || !(isPunct(toks[j], ",") || isPunct(toks[j], ")")):
			op := "end of file"
			if j < len(toks) {
				op = fmt.Sprintf("%q", toks[j].text)
			}

			warn("non-literal argument to %s (string followed by %s) is not extracted", t.text, op)

			continue
		}

		s := text.String()
		if isBlank(s) {
			continue
		}

		lits = append(lits, Literal{
			Text:    s,
			File:    path,
			Line:    first.line,
			Dialect: x.dialect,
			Span:    Span{Start: first.start, End: last.end},
			Flags:   formatFlag(x.dialect, s),
		})
	}

	return lits, warns
}

// isDefinition reports whether the marker at toks[i] is being defined rather
// than called, as in "def _(s)" or "function _t(s)".
func (x *ScriptExtractor) isDefinition(toks []token, i int) bool {
	if i == 0 || toks[i-1].kind != tokIdent {
		return false
	}

	switch toks[i-1].text {
	case "def", "function", "class", "lambda":
		return true
	}

	return false
}

func isPunct(t token, s string) bool {
	return t.kind == tokPunct && t.text == s
}
