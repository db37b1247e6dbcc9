// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package merge

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// maxRepairPasses bounds the number of encoding layers undone.
const maxRepairPasses = 4

// RepairMojibake undoes UTF-8 text that was decoded as Windows-1252 or
// Latin-1, possibly several times over. It reports whether s changed.
//
// The rule is explicit and best effort: a run of characters whose
// single-byte encodings form a UTF-8 lead byte (0xC2 to 0xF4) followed by
// the right number of continuation bytes (0x80 to 0xBF), and which together
// decode to one valid character, is replaced by that character. Passes
// repeat until nothing changes. Text that merely looks like such a run, for
// example "Ã©" written on purpose, is rewritten too.
func RepairMojibake(s string) (string, bool) {
	out := s

	for range maxRepairPasses {
		next, changed := repairPass(out)
		if !changed {
			break
		}

		out = next
	}

	return out, out != s
}

// HasMojibake reports whether RepairMojibake would change s.
func HasMojibake(s string) bool {
	_, changed := RepairMojibake(s)

	return changed
}

func repairPass(s string) (string, bool) {
	runes := []rune(s)
	out := make([]rune, 0, len(runes))
	changed := false

	for i := 0; i < len(runes); i++ {
		lead, ok := singleByte(runes[i])

		n := continuationCount(lead)
		if !ok || n == 0 || i+n >= len(runes) {
			out = append(out, runes[i])

			continue
		}

		buf := []byte{lead}

		for _, r := range runes[i+1 : i+1+n] {
			b, ok := singleByte(r)
			if !ok || b < 0x80 || b > 0xBF {
				break
			}

			buf = append(buf, b)
		}

		r, size := utf8.DecodeRune(buf)
		if len(buf) != n+1 || r == utf8.RuneError || size != len(buf) {
			out = append(out, runes[i])

			continue
		}

		out = append(out, r)
		i += n
		changed = true
	}

	return string(out), changed
}

// singleByte returns the byte that r came from when UTF-8 bytes were
// misread as Windows-1252, falling back to Latin-1.
func singleByte(r rune) (byte, bool) {
	if r >= 0x80 && r <= 0xFF {
		return byte(r), true
	}

	if r < 0x80 {
		return 0, false
	}

	b, ok := charmap.Windows1252.EncodeRune(r)
	if !ok || b < 0x80 {
		return 0, false
	}

	return b, true
}

func continuationCount(lead byte) int {
	switch {
	case lead >= 0xC2 && lead <= 0xDF:
		return 1
	case lead >= 0xE0 && lead <= 0xEF:
		return 2
	case lead >= 0xF0 && lead <= 0xF4:
		return 3
	}

	return 0
}
