// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/potool/potool/catalog"
)

func TestWriteRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
	}{
		{"LF", sample},
		{"CRLF", strings.ReplaceAll(sample, "\n", "\r\n")},
		{"no trailing newline", strings.TrimSuffix(sample, "\n")},
		{"extra blank lines", "\n\n" + strings.ReplaceAll(sample, "\n\n", "\n\n\n") + "\n"},
		{"odd spacing", "msgid   \"a\"\nmsgstr\t\"b\"\n#~  msgid \"c\"\n#~ msgstr \"\"\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cat, err := catalog.Parse([]byte(tc.input))
			require.NoError(t, err)

			var buf bytes.Buffer

			n, err := cat.WriteTo(&buf)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tc.input)), n)
			assert.Equal(t, tc.input, buf.String())
		})
	}
}

func TestWriteRendersModifiedEntry(t *testing.T) {
	t.Parallel()

	cat, err := catalog.Parse([]byte("msgid \"a\"\nmsgstr \"\"\n\nmsgid \"b\"\nmsgstr \"\"\n"))
	require.NoError(t, err)

	cat.Lookup("a").MsgStr[0] = "x"

	assert.Equal(t, "msgid \"a\"\nmsgstr \"x\"\n\nmsgid \"b\"\nmsgstr \"\"\n", cat.String())
}

func TestWriteNewEntry(t *testing.T) {
	t.Parallel()

	cat, err := catalog.Parse([]byte("msgid \"a\"\r\nmsgstr \"\"\r\n"))
	require.NoError(t, err)

	e := catalog.NewEntry("line one\nline two")
	e.Locations = []string{"x.py:3"}
	e.AddFlag(catalog.FlagPythonFormat)
	cat.Add(e)

	want := "msgid \"a\"\r\nmsgstr \"\"\r\n" +
		"\r\n" +
		"#: x.py:3\r\n" +
		"#, python-format\r\n" +
		"msgid \"\"\r\n" +
		"\"line one\\n\"\r\n" +
		"\"line two\"\r\n" +
		"msgstr \"\"\r\n"
	assert.Equal(t, want, cat.String())
}

func TestWriteUsesDetectedWidth(t *testing.T) {
	t.Parallel()

	input := "msgid \"\"\n\"alpha beta \"\n\"gamma\"\nmsgstr \"\"\n"

	cat, err := catalog.Parse([]byte(input))
	require.NoError(t, err)

	cat.Entries[0].MsgStr[0] = "uno dos tres"

	want := "msgid \"\"\n\"alpha beta \"\n\"gamma\"\n" +
		"msgstr \"\"\n\"uno dos \"\n\"tres\"\n"
	assert.Equal(t, want, cat.String())
}

func TestWriteReparse(t *testing.T) {
	t.Parallel()

	cat, err := catalog.Parse([]byte(sample))
	require.NoError(t, err)

	cat.Forget()
	out := cat.Bytes()

	again, err := catalog.Parse(out)
	require.NoError(t, err)

	require.NotNil(t, again.Header)
	assert.True(t, catalog.Equal(cat.Header, again.Header))
	require.Len(t, again.Entries, len(cat.Entries))

	for i := range cat.Entries {
		assert.True(t, catalog.Equal(cat.Entries[i], again.Entries[i]), "entry %d differs", i)
	}

	// Writing the reparsed catalogue is stable.
	assert.Equal(t, string(out), again.String())
}

func TestWriteObsoleteEntry(t *testing.T) {
	t.Parallel()

	cat := catalog.New()

	e := catalog.NewEntry("Gone")
	e.MsgStr[0] = "Parti"
	e.Obsolete = true
	cat.Add(e)

	assert.Equal(t, "#~ msgid \"Gone\"\n#~ msgstr \"Parti\"\n", cat.String())
}

func TestWriteLongString(t *testing.T) {
	t.Parallel()

	cat := catalog.New()
	long := strings.Repeat("word ", 30)
	cat.Add(catalog.NewEntry(long))

	out := cat.String()
	for l := range strings.SplitSeq(strings.TrimSuffix(out, "\n"), "\n") {
		assert.LessOrEqual(t, len(l), catalog.DefaultWrapWidth, "line %q", l)
	}

	again, err := catalog.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, long, again.Entries[0].MsgID)
}
