// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package locale describes target languages: their plural rules and text
// direction.
//
// Plural rules for well-known language families come from a fixed table;
// catalogues may declare their own through the Plural-Forms header, which is
// parsed by [ParsePluralForms] and evaluated with the gettext runtime's
// expression compiler.
package locale

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leonelquinteros/gotext/plurals"
	"golang.org/x/text/language"
)

var (
	errEmptyCode        = errors.New("empty locale code")
	errBadPluralForms   = errors.New("malformed Plural-Forms")
	errPluralCountRange = errors.New("nplurals out of range")
)

// Direction is the writing direction of a script.
type Direction string

const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

// Locale is a target language for a catalogue.
type Locale struct {
	// Code is the normalised BCP 47 code, for example "pt-BR".
	Code string
	Tag  language.Tag

	NPlurals   int
	PluralExpr string
	Direction  Direction

	// Canonical reports whether the plural rule comes from the built-in
	// table rather than from a header or the fallback.
	Canonical bool

	selector plurals.Expression
}

// Lookup returns the locale for code. Underscores, encodings ("de_DE.UTF-8")
// and modifiers ("sr@latin") are accepted. Unknown languages get the
// two-form English rule with Canonical unset.
func Lookup(code string) (Locale, error) {
	tag, err := ParseTag(code)
	if err != nil {
		return Locale{}, err
	}

	base, _ := tag.Base()

	l := Locale{
		Code:      tag.String(),
		Tag:       tag,
		Direction: LTR,
	}

	if rtlLanguages[base.String()] {
		l.Direction = RTL
	}

	if r, ok := pluralTable[base.String()]; ok {
		l.NPlurals, l.PluralExpr, l.Canonical = r.n, r.expr, true
	} else {
		l.NPlurals, l.PluralExpr = 2, "(n != 1)"
	}

	l.selector, _ = compilePlural(l.PluralExpr)

	return l, nil
}

// ParseTag normalises a gettext-style locale code to a language tag.
func ParseTag(code string) (language.Tag, error) {
	c := strings.TrimSpace(code)
	if i := strings.IndexAny(c, ".@"); i >= 0 {
		c = c[:i]
	}

	if c == "" {
		return language.Und, errEmptyCode
	}

	tag, err := language.Parse(strings.ReplaceAll(c, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale code %q: %w", code, err)
	}

	return tag, nil
}

// WithPluralForms returns l with the plural rule replaced by the one
// declared in a Plural-Forms header value. The result is not canonical.
func (l Locale) WithPluralForms(header string) (Locale, error) {
	n, expr, err := ParsePluralForms(header)
	if err != nil {
		return l, err
	}

	sel, err := compilePlural(expr)
	if err != nil {
		return l, err
	}

	l.NPlurals, l.PluralExpr, l.selector, l.Canonical = n, expr, sel, false

	return l, nil
}

// CompilePluralExpr checks that expr is a usable plural expression.
func CompilePluralExpr(expr string) error {
	_, err := compilePlural(expr)

	return err
}

// compilePlural compiles a C-style plural expression. Input is screened
// before it reaches the compiler, which does not reject every malformed
// expression by itself.
func compilePlural(expr string) (sel plurals.Expression, err error) {
	if err := screenPluralExpr(expr); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			sel, err = nil, fmt.Errorf("%w: plural expression %q", errBadPluralForms, expr)
		}
	}()

	sel, err = plurals.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: plural expression %q: %w", errBadPluralForms, expr, err)
	}

	return sel, nil
}

// screenPluralExpr rejects characters outside the gettext expression
// grammar and unbalanced parentheses.
func screenPluralExpr(expr string) error {
	depth := 0

	for _, r := range expr {
		switch {
		case r == '(':
			depth++
		case r == ')':
			depth--
			if depth < 0 {
				return fmt.Errorf("%w: unbalanced parentheses in %q", errBadPluralForms, expr)
			}
		case r == 'n' || (r >= '0' && r <= '9') || strings.ContainsRune(" \t!=<>&|?:%+-*/", r):
		default:
			return fmt.Errorf("%w: unexpected %q in plural expression", errBadPluralForms, r)
		}
	}

	if depth != 0 || strings.TrimSpace(expr) == "" {
		return fmt.Errorf("%w: unbalanced parentheses in %q", errBadPluralForms, expr)
	}

	return nil
}

// Plural returns the plural form index used for quantity n. The index is
// always within [0, NPlurals).
func (l Locale) Plural(n int) int {
	if n < 0 {
		n = -n
	}

	idx := 0

	switch {
	case l.selector != nil:
		idx = l.selector.Eval(uint32(n))
	case n != 1:
		idx = 1
	}

	if idx < 0 || idx >= max(l.NPlurals, 1) {
		return 0
	}

	return idx
}

// PluralForms renders the rule as a Plural-Forms header value.
func (l Locale) PluralForms() string {
	return fmt.Sprintf("nplurals=%d; plural=%s;", l.NPlurals, l.PluralExpr)
}

// ParsePluralForms splits a Plural-Forms value such as
// "nplurals=2; plural=(n != 1);" into its count and expression.
func ParsePluralForms(s string) (int, string, error) {
	var (
		n       = -1
		expr    string
		hasExpr bool
	)

	for part := range strings.SplitSeq(s, ";") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			if strings.TrimSpace(part) != "" {
				return 0, "", fmt.Errorf("%w: unexpected %q", errBadPluralForms, strings.TrimSpace(part))
			}

			continue
		}

		switch strings.TrimSpace(key) {
		case "nplurals":
			if _, err := fmt.Sscanf(strings.TrimSpace(value), "%d", &n); err != nil {
				return 0, "", fmt.Errorf("%w: nplurals %q", errBadPluralForms, strings.TrimSpace(value))
			}
		case "plural":
			expr, hasExpr = strings.TrimSpace(value), true
		}
	}

	switch {
	case n < 0:
		return 0, "", fmt.Errorf("%w: missing nplurals", errBadPluralForms)
	case n < 1 || n > 6:
		return 0, "", fmt.Errorf("%w: %d", errPluralCountRange, n)
	case !hasExpr || expr == "":
		return 0, "", fmt.Errorf("%w: missing plural expression", errBadPluralForms)
	}

	return n, expr, nil
}
