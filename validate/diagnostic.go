// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package validate

import (
	"errors"
	"fmt"
	"strings"
)

var errUnknownSeverity = errors.New("unknown severity")

// Severity grades a diagnostic.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	}

	return fmt.Sprintf("severity(%d)", int(s))
}

// MarshalText renders the severity name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSeverity accepts "info", "warning" (or "warn") and "error".
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info":
		return Info, nil
	case "warning", "warn":
		return Warning, nil
	case "error":
		return Error, nil
	}

	return 0, fmt.Errorf("%w: %q", errUnknownSeverity, s)
}

// Rule identifies a check. Rules run, and are reported, in the order of
// [Rules].
type Rule string

const (
	RuleEncoding     Rule = "encoding"
	RuleHeader       Rule = "header"
	RulePluralCount  Rule = "plural-count"
	RuleEmptyMsgstr  Rule = "empty-msgstr"
	RuleFuzzy        Rule = "fuzzy"
	RuleFormatParity Rule = "format-parity"
	RuleDuplicate    Rule = "duplicate-msgid"
	RuleMojibake     Rule = "mojibake"
	RuleBidiOverride Rule = "bidi-override"
	RuleRTLScript    Rule = "rtl-script"
	RuleWhitespace   Rule = "whitespace"
)

// Rules lists every rule by priority.
var Rules = []Rule{
	RuleEncoding,
	RuleHeader,
	RulePluralCount,
	RuleEmptyMsgstr,
	RuleFuzzy,
	RuleFormatParity,
	RuleDuplicate,
	RuleMojibake,
	RuleBidiOverride,
	RuleRTLScript,
	RuleWhitespace,
}

// Diagnostic is one finding.
type Diagnostic struct {
	Rule     Rule     `json:"rule"`
	Severity Severity `json:"severity"`
	Line     int      `json:"line"`
	Message  string   `json:"message"`
	Snippet  string   `json:"snippet,omitempty"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d: %s [%s] %s", d.Line, d.Severity, d.Rule, d.Message)
}

// Count returns the number of diagnostics with severity sev.
func Count(diags []Diagnostic, sev Severity) int {
	n := 0

	for _, d := range diags {
		if d.Severity == sev {
			n++
		}
	}

	return n
}

// Worst returns the highest severity present.
func Worst(diags []Diagnostic) (Severity, bool) {
	if len(diags) == 0 {
		return Info, false
	}

	worst := Info
	for _, d := range diags {
		worst = max(worst, d.Severity)
	}

	return worst, true
}

// AtOrAbove returns the diagnostics whose severity is at least sev.
func AtOrAbove(diags []Diagnostic, sev Severity) []Diagnostic {
	var out []Diagnostic

	for _, d := range diags {
		if d.Severity >= sev {
			out = append(out, d)
		}
	}

	return out
}
