// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package merge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/potool/potool/catalog"
	"codeberg.org/potool/potool/merge"
)

func parse(t *testing.T, s string) *catalog.Catalog {
	t.Helper()

	c, err := catalog.Parse([]byte(s))
	require.NoError(t, err)

	return c
}

const arabicBase = `msgid ""
msgstr ""
"Language: ar\n"

msgid "Hello"
msgstr "مرحبا"

msgid "Old"
msgstr "قديم"
`

func TestMergeKeepsTranslations(t *testing.T) {
	t.Parallel()

	base := parse(t, arabicBase)
	incoming := parse(t, "msgid \"Hello\"\nmsgstr \"\"\n\nmsgid \"Bye\"\nmsgstr \"\"\n")

	out, stats := merge.Merge(base, incoming)

	assert.Equal(t, merge.MergeStats{Preserved: 1, Added: 1, Obsoleted: 1}, stats)
	require.Len(t, out.Entries, 3)

	hello := out.Entries[0]
	assert.Equal(t, "Hello", hello.MsgID)
	assert.Equal(t, []string{"مرحبا"}, hello.MsgStr)
	assert.False(t, hello.Obsolete)

	bye := out.Entries[1]
	assert.Equal(t, "Bye", bye.MsgID)
	assert.False(t, bye.IsTranslated())
	assert.False(t, bye.Obsolete)

	old := out.Entries[2]
	assert.Equal(t, "Old", old.MsgID)
	assert.True(t, old.Obsolete)
	assert.Equal(t, []string{"قديم"}, old.MsgStr)

	want := "msgid \"\"\nmsgstr \"\"\n\"Language: ar\\n\"\n" +
		"\nmsgid \"Hello\"\nmsgstr \"مرحبا\"\n" +
		"\nmsgid \"Bye\"\nmsgstr \"\"\n" +
		"\n#~ msgid \"Old\"\n#~ msgstr \"قديم\"\n"
	assert.Equal(t, want, out.String())

	// Inputs are untouched.
	assert.Equal(t, arabicBase, base.String())
	assert.False(t, base.Entries[1].Obsolete)
}

func TestMergeRefreshesSourceMetadata(t *testing.T) {
	t.Parallel()

	base := parse(t, "# keep me\n#: old.py:1\n#, fuzzy\nmsgid \"A %s\"\nmsgstr \"a %s\"\n")
	incoming := parse(t, "#. from source\n#: new.py:3\n#, python-format\nmsgid \"A %s\"\nmsgstr \"\"\n")

	out, stats := merge.Merge(base, incoming)
	assert.Equal(t, 1, stats.Preserved)

	e := out.Entries[0]
	assert.Equal(t, []string{"a %s"}, e.MsgStr)
	assert.Equal(t, []string{"fuzzy", "python-format"}, e.Flags)
	assert.Equal(t, []string{"new.py:3"}, e.Locations)
	assert.Equal(t, []string{"from source"}, e.ExtractedComments)
	assert.Equal(t, []string{"keep me"}, e.TranslatorComments)
}

func TestMergeResurrectsObsolete(t *testing.T) {
	t.Parallel()

	base := parse(t, "#~ msgid \"Back\"\n#~ msgstr \"Retour\"\n")
	incoming := parse(t, "msgid \"Back\"\nmsgstr \"\"\n")

	out, stats := merge.Merge(base, incoming)
	assert.Equal(t, merge.MergeStats{Preserved: 1}, stats)
	require.Len(t, out.Entries, 1)
	assert.False(t, out.Entries[0].Obsolete)
	assert.Equal(t, []string{"Retour"}, out.Entries[0].MsgStr)
	assert.Equal(t, "msgid \"Back\"\nmsgstr \"Retour\"\n", out.String())
}

func TestMergePluralChange(t *testing.T) {
	t.Parallel()

	base := parse(t, "msgid \"file\"\nmsgstr \"fichier\"\n")
	incoming := parse(t, "msgid \"file\"\nmsgid_plural \"files\"\nmsgstr[0] \"\"\nmsgstr[1] \"\"\n")

	out, _ := merge.Merge(base, incoming)

	e := out.Entries[0]
	assert.Equal(t, "files", e.MsgIDPlural)
	assert.Equal(t, []string{"fichier", ""}, e.MsgStr)
	assert.True(t, e.IsFuzzy())
}

func TestMergeWithoutBaseHeader(t *testing.T) {
	t.Parallel()

	base := parse(t, "msgid \"a\"\nmsgstr \"b\"\n")
	incoming := parse(t, "msgid \"\"\nmsgstr \"Language: fr\\n\"\n\nmsgid \"a\"\nmsgstr \"\"\n")

	out, _ := merge.Merge(base, incoming)
	require.NotNil(t, out.Header)

	lang, _ := out.HeaderField(catalog.FieldLanguage)
	assert.Equal(t, "fr", lang)
}

func TestClean(t *testing.T) {
	t.Parallel()

	c := parse(t, arabicBase+"\n#~ msgid \"Gone\"\n#~ msgstr \"x\"\n")

	once := merge.Clean(c)
	twice := merge.Clean(once)

	assert.Equal(t, arabicBase, once.String())
	assert.Equal(t, once.String(), twice.String())
	assert.Len(t, c.Entries, 3, "input is untouched")
}

func TestCount(t *testing.T) {
	t.Parallel()

	c := parse(t, `msgid ""
msgstr "Language: fr\n"

msgid "a"
msgstr "A"

#, fuzzy
msgid "b"
msgstr "B"

msgid "c"
msgstr ""

msgid "d"
msgid_plural "ds"
msgstr[0] "D"
msgstr[1] ""

#~ msgid "e"
#~ msgstr "E"
`)

	s := merge.Count(c)
	assert.Equal(t, merge.Stats{
		Translated:   1,
		Untranslated: 2,
		Fuzzy:        1,
		Obsolete:     1,
		Total:        4,
		Percent:      25,
	}, s)

	assert.InDelta(t, 100.0, merge.Count(catalog.New()).Percent, 0.001)
	assert.InDelta(t, 33.3, merge.Percent(1, 3), 0.001)
	assert.InDelta(t, 66.7, merge.Percent(2, 3), 0.001)
}
