// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package merge

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"codeberg.org/potool/potool/catalog"
)

// Normalize returns a canonical copy of c: translations and translator
// comments are repaired for mojibake and put in NFC, CRLF line breaks
// become LF, and every entry is re-rendered with LF newlines at the default
// wrap width. Normalize is idempotent.
func Normalize(c *catalog.Catalog) *catalog.Catalog {
	out := c.Clone()

	for e := range out.All() {
		for i, s := range e.MsgStr {
			e.MsgStr[i] = normalizeText(s)
		}

		for i, s := range e.TranslatorComments {
			e.TranslatorComments[i] = normalizeText(s)
		}

		e.MsgID = lf(e.MsgID)
		e.MsgIDPlural = lf(e.MsgIDPlural)
		e.Context = lf(e.Context)
	}

	out.Forget()
	out.SetNewline("\n")
	out.SetWrapWidth(catalog.DefaultWrapWidth)

	return out
}

// normalizeText repeats until stable, since composing characters can
// produce a sequence that repair would touch.
func normalizeText(s string) string {
	s = lf(s)

	for range maxRepairPasses {
		repaired, _ := RepairMojibake(s)

		next := norm.NFC.String(repaired)
		if next == s {
			break
		}

		s = next
	}

	return s
}

func lf(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
