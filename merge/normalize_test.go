// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package merge_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"codeberg.org/potool/potool/merge"
)

func misdecode(t *testing.T, s string) string {
	t.Helper()

	out, err := charmap.Windows1252.NewDecoder().String(s)
	require.NoError(t, err)

	return out
}

func TestRepairMojibake(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		in      string
		want    string
		changed bool
	}{
		{"latin", "cafÃ©", "café", true},
		{"arabic", misdecode(t, "مرحبا"), "مرحبا", true},
		{"double", misdecode(t, misdecode(t, "Grüße")), "Grüße", true},
		{"emoji", misdecode(t, "ok 😀"), "ok 😀", true},
		{"ascii", "plain text", "plain text", false},
		{"accents", "naïve Ü façade", "naïve Ü façade", false},
		{"clean arabic", "مرحبا", "مرحبا", false},
		{"truncated", "end Ã", "end Ã", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, changed := merge.RepairMojibake(tc.in)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.changed, changed)
			assert.Equal(t, tc.changed, merge.HasMojibake(tc.in))
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	input := "msgid \"\"\r\nmsgstr \"Language: fr\\n\"\r\n\r\n" +
		"# cafÃ© note\r\n" +
		"msgid \"coffee\"\r\nmsgstr \"cafÃ©\"\r\n\r\n" +
		"msgid \"e\"\r\nmsgstr \"e\u0301\\r\\n\"\r\n"

	c := parse(t, input)

	once := merge.Normalize(c)
	twice := merge.Normalize(once)

	want := "msgid \"\"\nmsgstr \"Language: fr\\n\"\n\n" +
		"# café note\n" +
		"msgid \"coffee\"\nmsgstr \"café\"\n\n" +
		"msgid \"e\"\nmsgstr \"é\\n\"\n"

	assert.Equal(t, want, once.String())
	assert.Equal(t, once.String(), twice.String())
	assert.Equal(t, input, c.String(), "input is untouched")
}
