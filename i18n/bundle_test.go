// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"codeberg.org/potool/potool/i18n"
)

const frPO = `msgid ""
msgstr ""
"Language: fr\n"
"Content-Type: text/plain; charset=UTF-8\n"
"Plural-Forms: nplurals=2; plural=(n > 1);\n"

msgid "Save"
msgstr "Enregistrer"

msgctxt "menu"
msgid "File"
msgstr "Fichier"

msgid "{{.Count}} file"
msgid_plural "{{.Count}} files"
msgstr[0] "{{.Count}} fichier"
msgstr[1] "{{.Count}} fichiers"

msgid "Welcome, {{.Name}}!"
msgstr "Bienvenue, {{.Name}} !"
`

const arPO = `msgid ""
msgstr ""
"Language: ar\n"
"Content-Type: text/plain; charset=UTF-8\n"
"Plural-Forms: nplurals=6; plural=(n==0 ? 0 : n==1 ? 1 : n==2 ? 2 : n%100>=3 && n%100<=10 ? 3 : n%100>=11 ? 4 : 5);\n"

msgid "{{.Count}} file"
msgid_plural "{{.Count}} files"
msgstr[0] "zero"
msgstr[1] "one"
msgstr[2] "two"
msgstr[3] "few"
msgstr[4] "many"
msgstr[5] "other"
`

func load(t *testing.T, opts i18n.Options) *i18n.Bundle {
	t.Helper()

	fsys := fstest.MapFS{
		"po/fr.po":            {Data: []byte(frPO)},
		"po/ar.po":            {Data: []byte(arPO)},
		"po/messages.pot":     {Data: []byte("msgid \"\"\nmsgstr \"\"\n")},
		"po/not a locale.po":  {Data: []byte(frPO)},
		"po/README.txt":       {Data: []byte("notes")},
		"po/archive/de_DE.po": {Data: []byte(frPO)},
	}

	b, err := i18n.Load(fsys, "po", opts)
	require.NoError(t, err)

	return b
}

func ctxFor(b *i18n.Bundle, pref string) context.Context {
	return i18n.WithTag(context.Background(), b.Match(pref))
}

func TestLoadLanguages(t *testing.T) {
	t.Parallel()

	b := load(t, i18n.Options{})

	assert.Equal(t,
		[]language.Tag{language.Arabic, language.English, language.French},
		b.Languages())
}

func TestLoadMissingDir(t *testing.T) {
	t.Parallel()

	_, err := i18n.Load(fstest.MapFS{}, "po", i18n.Options{})
	require.Error(t, err)
}

func TestMatch(t *testing.T) {
	t.Parallel()

	b := load(t, i18n.Options{})

	assert.Equal(t, language.French, b.Match("fr_CA.UTF-8"))
	assert.Equal(t, language.French, b.Match("de, fr;q=0.5"))
	assert.Equal(t, language.English, b.Match("de"))
	assert.Equal(t, language.English, b.Match())
	assert.Equal(t, language.Arabic, b.Match("xx-!!", "ar_EG"))
}

func TestTr(t *testing.T) {
	t.Parallel()

	b := load(t, i18n.Options{})
	fr := ctxFor(b, "fr")

	assert.Equal(t, "Enregistrer", b.Tr(fr, "Save"))
	assert.Equal(t, "Fichier", b.TrC(fr, "menu", "File"))
	assert.Equal(t, "File", b.Tr(fr, "File"))
	assert.Equal(t, "Bienvenue, Ada !", b.Tr(fr, "Welcome, {{.Name}}!", "Name", "Ada"))
	assert.Equal(t, "Unknown", b.Tr(fr, "Unknown"))

	assert.Equal(t, "Save", b.Tr(context.Background(), "Save"))
	assert.Equal(t, "Welcome, Ada!", b.Tr(context.Background(), "Welcome, {{.Name}}!", "Name", "Ada"))
}

func TestTrN(t *testing.T) {
	t.Parallel()

	b := load(t, i18n.Options{})
	fr := ctxFor(b, "fr")
	ar := ctxFor(b, "ar")

	assert.Equal(t, "0 fichier", b.TrN(fr, "{{.Count}} file", "{{.Count}} files", 0, "Count", 0))
	assert.Equal(t, "1 fichier", b.TrN(fr, "{{.Count}} file", "{{.Count}} files", 1, "Count", 1))
	assert.Equal(t, "2 fichiers", b.TrN(fr, "{{.Count}} file", "{{.Count}} files", 2, "Count", 2))

	for n, want := range map[int]string{0: "zero", 1: "one", 2: "two", 5: "few", 11: "many", 100: "other"} {
		assert.Equal(t, want, b.TrN(ar, "{{.Count}} file", "{{.Count}} files", n), "n=%d", n)
	}

	en := context.Background()
	assert.Equal(t, "1 file", b.TrN(en, "{{.Count}} file", "{{.Count}} files", 1, "Count", 1))
	assert.Equal(t, "3 files", b.TrN(en, "{{.Count}} file", "{{.Count}} files", 3, "Count", 3))
}

func TestStrict(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := zerolog.New(&buf)
	b := load(t, i18n.Options{Strict: true, Logger: &logger})
	fr := ctxFor(b, "fr")

	assert.Equal(t, "⟦Unknown⟧", b.Tr(fr, "Unknown"))
	assert.Equal(t, "⟦Unknown⟧", b.Tr(fr, "Unknown"))
	assert.Equal(t, "⟦Open⟧", b.TrC(fr, "menu", "Open"))
	assert.Equal(t, "Enregistrer", b.Tr(fr, "Save"))
	assert.Equal(t, "Unknown", b.Tr(context.Background(), "Unknown"))

	assert.Equal(t, 2, strings.Count(buf.String(), "Missing i18n translation"))
	assert.Contains(t, buf.String(), `"locale":"fr"`)
}

func TestAdd(t *testing.T) {
	t.Parallel()

	b, err := i18n.New(i18n.Options{})
	require.NoError(t, err)
	require.NoError(t, b.Add("fr_FR", []byte(frPO)))

	ctx := ctxFor(b, "fr-FR")
	assert.Equal(t, "Enregistrer", b.Tr(ctx, "Save"))

	require.Error(t, b.Add("", []byte(frPO)))
}
