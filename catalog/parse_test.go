// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/potool/potool/catalog"
)

const sample = `# Translator note
msgid ""
msgstr ""
"Content-Type: text/plain; charset=UTF-8\n"
"Plural-Forms: nplurals=2; plural=(n != 1);\n"

#. extracted
#: a.py:1 b.py:2
#, fuzzy, python-format
msgid "Hello %s"
msgstr "Bonjour %s"

msgctxt "menu"
msgid "File"
msgstr "Fichier"

msgid "One file"
msgid_plural "%d files"
msgstr[0] "Un fichier"
msgstr[1] "%d fichiers"

#~ msgid "Old"
#~ msgstr "Vieux"
`

func TestParse(t *testing.T) {
	t.Parallel()

	cat, err := catalog.Parse([]byte(sample))
	require.NoError(t, err)

	require.NotNil(t, cat.Header)
	assert.Equal(t, []string{"Translator note"}, cat.Header.TranslatorComments)

	plural, ok := cat.HeaderField("plural-forms")
	assert.True(t, ok)
	assert.Equal(t, "nplurals=2; plural=(n != 1);", plural)

	require.Len(t, cat.Entries, 4)

	hello := cat.Entries[0]
	assert.Equal(t, "Hello %s", hello.MsgID)
	assert.Equal(t, []string{"Bonjour %s"}, hello.MsgStr)
	assert.Equal(t, []string{"fuzzy", "python-format"}, hello.Flags)
	assert.Equal(t, []string{"a.py:1", "b.py:2"}, hello.Locations)
	assert.Equal(t, []string{"extracted"}, hello.ExtractedComments)
	assert.True(t, hello.IsFuzzy())
	assert.True(t, hello.IsFormat())
	assert.Equal(t, 7, hello.Line)

	file := cat.Entries[1]
	assert.True(t, file.HasContext())
	assert.Equal(t, "menu", file.Context)
	assert.Equal(t, "menu"+catalog.EOT+"File", file.Key())

	files := cat.Entries[2]
	assert.True(t, files.IsPlural())
	assert.Equal(t, []string{"Un fichier", "%d fichiers"}, files.MsgStr)

	old := cat.Entries[3]
	assert.True(t, old.Obsolete)
	assert.Equal(t, "Old", old.MsgID)

	assert.Nil(t, cat.Lookup("Old"), "obsolete entries are not looked up")
	assert.Same(t, hello, cat.Lookup("Hello %s"))
}

func TestParseEscapes(t *testing.T) {
	t.Parallel()

	cat, err := catalog.Parse([]byte(`msgid "a\tb\"c\\d\x41\101"` + "\nmsgstr \"\"\n"))
	require.NoError(t, err)
	require.Len(t, cat.Entries, 1)
	assert.Equal(t, "a\tb\"c\\dAA", cat.Entries[0].MsgID)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		line  int
		msg   string
	}{
		{
			name:  "unterminated string",
			input: "msgid \"abc\nmsgstr \"\"\n",
			line:  1,
			msg:   "unterminated string",
		},
		{
			name:  "duplicate msgid",
			input: "msgid \"a\"\nmsgstr \"\"\n\nmsgid \"a\"\nmsgstr \"\"\n",
			line:  4,
			msg:   "duplicate msgid",
		},
		{
			name:  "msgstr index out of sequence",
			input: "msgid \"a\"\nmsgid_plural \"b\"\nmsgstr[1] \"\"\n",
			line:  3,
			msg:   "out of sequence",
		},
		{
			name:  "msgstr without msgid",
			input: "msgstr \"x\"\n",
			line:  1,
			msg:   "unexpected msgstr",
		},
		{
			name:  "msgid without msgstr",
			input: "msgid \"a\"\n",
			line:  1,
			msg:   "without msgstr",
		},
		{
			name:  "text after string",
			input: "msgid \"a\" b\nmsgstr \"\"\n",
			line:  1,
			msg:   "unexpected text after string",
		},
		{
			name:  "unknown keyword",
			input: "msgfoo \"a\"\n",
			line:  1,
			msg:   "unexpected content",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := catalog.Parse([]byte(tc.input))
			require.Error(t, err)

			var fe *catalog.FormatError
			require.True(t, errors.As(err, &fe), "error %v is not a *FormatError", err)
			assert.Equal(t, tc.line, fe.Line)
			assert.Contains(t, fe.Msg, tc.msg)
		})
	}
}

func TestParseDetectsWrapWidth(t *testing.T) {
	t.Parallel()

	input := "msgid \"\"\n\"alpha beta \"\n\"gamma\"\nmsgstr \"\"\n"

	cat, err := catalog.Parse([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, 13, cat.WrapWidth())

	unwrapped, err := catalog.Parse([]byte("msgid \"a\"\nmsgstr \"b\"\n"))
	require.NoError(t, err)
	assert.Equal(t, catalog.DefaultWrapWidth, unwrapped.WrapWidth())
}

func TestParseEmpty(t *testing.T) {
	t.Parallel()

	cat, err := catalog.Parse(nil)
	require.NoError(t, err)
	assert.Nil(t, cat.Header)
	assert.Empty(t, cat.Entries)
	assert.Empty(t, cat.String())

	blank, err := catalog.Parse([]byte("\n\n"))
	require.NoError(t, err)
	assert.Equal(t, "\n\n", blank.String())
}

func TestHeaderFields(t *testing.T) {
	t.Parallel()

	cat, err := catalog.Parse([]byte(sample))
	require.NoError(t, err)

	cat.SetHeaderField(catalog.FieldContentType, "text/plain; charset=ISO-8859-1")
	cat.SetHeaderField(catalog.FieldLanguage, "fr")

	fields := cat.HeaderFields()
	require.Len(t, fields, 3)
	assert.Equal(t, catalog.HeaderField{Name: "Content-Type", Value: "text/plain; charset=ISO-8859-1"}, fields[0])
	assert.Equal(t, catalog.HeaderField{Name: "Language", Value: "fr"}, fields[2])
	assert.True(t, strings.HasSuffix(cat.Header.MsgStr[0], "Language: fr\n"))
}

func TestFormatSpecifiers(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want []string
	}{
		{"Found %s in %d files", []string{"%s", "%d"}},
		{"%(count)d of %(total)d", []string{"%(count)d", "%(total)d"}},
		{"100%% done", nil},
		{"%.2f%%", []string{"%.2f"}},
		{"no specifiers", nil},
		{"Save 50% off today", nil},
		{"100% complete", nil},
		{"%-5d|%+.1f", []string{"%-5d", "%+.1f"}},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, catalog.FormatSpecifiers(tc.in))
		})
	}

	for _, prose := range []string{"Save 50% off today", "100% complete", "50%off", "100%% sure", "Up 5%."} {
		assert.False(t, catalog.HasFormatSpecifiers(prose), prose)
	}

	for _, format := range []string{"%s files", "%(name)s", "%(total)x", "%5.2f%%", "%i", "%r"} {
		assert.True(t, catalog.HasFormatSpecifiers(format), format)
	}

	assert.True(t, catalog.SameSpecifiers("%s and %d", "%d et %s"))
	assert.False(t, catalog.SameSpecifiers("Found %s in %d files", "Trouvé %s"))
}
