// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"github.com/leonelquinteros/gotext"
	"golang.org/x/text/language"
)

// logMissingOnce logs a missing translation once per (locale, msgid) pair.
func (b *Bundle) logMissingOnce(locale, key string) {
	id := locale + "\x00" + key
	if _, loaded := b.missing.LoadOrStore(id, struct{}{}); !loaded {
		b.log.Warn().
			Str("locale", locale).
			Str("key", key).
			Msg("Missing i18n translation")
	}
}

// strippedTagString removes variants to form a stable key using base, script and region only.
func strippedTagString(tag language.Tag) string {
	b, s, r := tag.Raw()
	stripped, _ := language.Compose(b, s, r)

	return stripped.String()
}

// buildLogKey composes the logging key like gettext "ctx<sep>msgid" when context is present.
func buildLogKey(ctxKey, id string) string {
	if ctxKey != "" {
		return ctxKey + gotext.EotSeparator + id
	}

	return id
}
