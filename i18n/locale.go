// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"slices"
	"strings"

	"golang.org/x/text/language"

	"codeberg.org/potool/potool/locale"
)

// Languages returns the base tag and the loaded tags, sorted by tag string.
// The returned slice is a copy and is safe to retain.
func (b *Bundle) Languages() []language.Tag {
	out := slices.Clone(b.supported)

	slices.SortFunc(out, func(x, y language.Tag) int {
		return strings.Compare(x.String(), y.String())
	})

	return out
}

// Match returns the best supported tag for the given preferences, tried in
// order. Each preference may be a gettext code ("pt_BR.UTF-8") or an
// Accept-Language value. Without a match the base tag is returned.
func (b *Bundle) Match(prefs ...string) language.Tag {
	var want []language.Tag

	for _, p := range prefs {
		if t, err := locale.ParseTag(p); err == nil {
			want = append(want, t)

			continue
		}

		if tags, _, err := language.ParseAcceptLanguage(p); err == nil {
			want = append(want, tags...)
		}
	}

	if len(want) == 0 {
		return b.base
	}

	_, idx, conf := b.matcher.Match(want...)
	if conf == language.No {
		return b.base
	}

	return b.supported[idx]
}
