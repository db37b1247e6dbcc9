// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"bytes"
	"context"
	"strings"
	"text/template"

	"github.com/leonelquinteros/gotext"
	"golang.org/x/text/language"
)

// Vars holds named template substitutions.
type Vars map[string]any

// Tr returns the translation of msgid for the language in ctx. If key-value
// pairs are provided, the translation is formatted using text/template-style
// named placeholders.
//
// If a translation is not found, Tr returns the msgid unchanged, or visibly
// wrapped in strict mode.
func (b *Bundle) Tr(ctx context.Context, msgid string, kv ...any) string {
	return b.translate(ctx, "", msgid, "", 0, false, v(kv...))
}

// TrC translates msgid with an explicit disambiguating context, like
// gettext's pgettext.
func (b *Bundle) TrC(ctx context.Context, contextKey, msgid string, kv ...any) string {
	return b.translate(ctx, contextKey, msgid, "", 0, false, v(kv...))
}

// TrN translates a singular or plural message depending on n, using the
// plural rule of the matched catalogue. If a translation is missing, the
// singular is chosen when n == 1 and the plural otherwise.
func (b *Bundle) TrN(ctx context.Context, singular, plural string, n int, kv ...any) string {
	return b.translate(ctx, "", singular, plural, n, true, v(kv...))
}

// TrNC is the contextual variant of TrN, like gettext's npgettext.
func (b *Bundle) TrNC(ctx context.Context, contextKey, singular, plural string, n int, kv ...any) string {
	return b.translate(ctx, contextKey, singular, plural, n, true, v(kv...))
}

func (b *Bundle) translate(
	ctx context.Context,
	contextKey, singular, plural string,
	n int,
	pluralMode bool,
	vars Vars,
) string {
	loc, matched := b.resolveLocale(TagFrom(ctx))

	// Fallback message
	base := singular
	if pluralMode && n != 1 {
		base = plural
	}

	finalText := base
	found := loc == nil && matched == b.base

	if loc != nil {
		switch {
		case pluralMode && contextKey != "":
			found = loc.IsTranslatedNDC(b.domain, singular, n, contextKey)
			if found {
				finalText = loc.GetNDC(b.domain, singular, plural, n, contextKey)
			}
		case pluralMode:
			found = loc.IsTranslatedND(b.domain, singular, n)
			if found {
				finalText = loc.GetND(b.domain, singular, plural, n)
			}
		case contextKey != "":
			found = loc.IsTranslatedDC(b.domain, singular, contextKey)
			if found {
				finalText = loc.GetDC(b.domain, singular, contextKey)
			}
		default:
			found = loc.IsTranslatedD(b.domain, singular)
			if found {
				finalText = loc.GetD(b.domain, singular)
			}
		}
	}

	if !found && b.strict {
		b.logMissingOnce(strippedTagString(matched), buildLogKey(contextKey, singular))

		finalText = "⟦" + base + "⟧"
	}

	return b.render(matched, finalText, vars)
}

// render formats s as a text/template using the provided data. Strings
// without template markers are returned as they are.
func (b *Bundle) render(locale language.Tag, s string, data Vars) string {
	if !strings.Contains(s, "{{") {
		return s
	}

	tmpl, ok := b.templates.Get(s)
	if !ok {
		var err error

		tmpl, err = template.New("msg").Option("missingkey=error").Parse(s)
		if err != nil {
			b.log.Warn().Err(err).Stringer("locale", locale).Str("text", s).Msg("Template parse error")

			if b.strict {
				return "⟦" + s + "⟧"
			}

			return s
		}

		b.templates.Add(s, tmpl)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any(data)); err != nil {
		b.log.Warn().Err(err).Stringer("locale", locale).Str("text", s).Msg("Template execute error")

		if b.strict {
			return "⟦" + s + "⟧"
		}

		return s
	}

	return buf.String()
}

// resolveLocale matches t to one of the loaded locales and returns the
// corresponding gotext.Locale and the matched tag. The locale is nil when
// the base language wins and has no catalogue.
func (b *Bundle) resolveLocale(t language.Tag) (*gotext.Locale, language.Tag) {
	matched := b.base
	if t != language.Und {
		matched = b.Match(t.String())
	}

	return b.locales[matched.String()], matched
}

// v builds Vars from alternating key, value pairs.
// Panics on programmer error.
func v(kv ...any) Vars {
	if len(kv)%2 != 0 {
		panic("i18n: odd number of arguments, want key, value pairs")
	}

	m := make(Vars, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic("i18n: key must be string")
		}

		m[k] = kv[i+1]
	}

	return m
}
