// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n resolves translations the way a gettext runtime would, from a
set of .po catalogues. It is used to preview what an application sees for
a msgid once catalogues are deployed.

# Quick start

Load a directory of catalogues and translate with a language carried in the
context:

	b, err := i18n.Load(os.DirFS("po"), ".", i18n.Options{})
	ctx = i18n.WithTag(ctx, b.Match("pt_BR"))

	b.Tr(ctx, "Are you sure you want to quit?")
	b.TrC(ctx, "menu", "Open") // disambiguation via context
	b.TrN(ctx, "{{.Count}} file", "{{.Count}} files", n, "Count", n)
	b.TrNC(ctx, "menu", "{{.Count}} item", "{{.Count}} items", n, "Count", n)

Plural forms are chosen with the Plural-Forms rule of the matched catalogue.

# Missing translations

By default, missing translations return the msgid unchanged. With
[Options].Strict, missing lookups are logged once per locale+key and the
returned text is visibly wrapped as "⟦...⟧". The base language is the
source language and is never missing.

# Formatting

Translations can include placeholders processed by text/template. Provide
substitutions as alternating key-value pairs to any of the Tr methods:

	b.Tr(ctx, "Welcome, {{.Name}}!", "Name", user.Name)
*/
package i18n
