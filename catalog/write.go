// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Bytes serialises c.
func (c *Catalog) Bytes() []byte {
	var buf bytes.Buffer

	_, _ = c.WriteTo(&buf)

	return buf.Bytes()
}

// String serialises c.
func (c *Catalog) String() string {
	return string(c.Bytes())
}

// WriteTo writes c in catalogue syntax. Entries unchanged since parsing are
// written exactly as they were read.
func (c *Catalog) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer

	nl := c.Newline()

	for e := range c.All() {
		if buf.Len() > 0 && !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
			buf.WriteString(nl)
		}

		if e.raw != "" && !e.Modified() {
			buf.WriteString(e.lead)
			buf.WriteString(e.raw)

			continue
		}

		switch {
		case e.lead != "":
			buf.WriteString(e.lead)
		case e.pristine == nil && buf.Len() > 0:
			buf.WriteString(nl)
		}

		width := DefaultWrapWidth
		if e.pristine != nil {
			width = c.WrapWidth()
		}

		for _, l := range renderEntry(e, width) {
			buf.WriteString(l)
			buf.WriteString(nl)
		}
	}

	buf.WriteString(c.tail)

	n, err := w.Write(buf.Bytes())

	return int64(n), err
}

// renderEntry returns the lines of e without terminators.
func renderEntry(e *Entry, width int) []string {
	var lines []string

	for _, tc := range e.TranslatorComments {
		lines = append(lines, commentLine("#", tc))
	}

	for _, ec := range e.ExtractedComments {
		lines = append(lines, commentLine("#.", ec))
	}

	lines = append(lines, wrapReferences(e.Locations, width)...)

	if len(e.Flags) > 0 {
		lines = append(lines, "#, "+strings.Join(e.Flags, ", "))
	}

	for _, pc := range e.PreviousComments {
		lines = append(lines, commentLine("#|", pc))
	}

	prefix := ""
	if e.Obsolete {
		prefix = "#~ "
	}

	keyword := func(kw, s string) {
		for _, l := range wrapString(kw, s, width-len(prefix)) {
			lines = append(lines, prefix+l)
		}
	}

	if e.HasContext() {
		keyword("msgctxt", e.Context)
	}

	keyword("msgid", e.MsgID)

	if e.IsPlural() {
		keyword("msgid_plural", e.MsgIDPlural)

		msgstr := e.MsgStr
		if len(msgstr) == 0 {
			msgstr = []string{""}
		}

		for i, s := range msgstr {
			keyword("msgstr["+strconv.Itoa(i)+"]", s)
		}
	} else {
		s := ""
		if len(e.MsgStr) > 0 {
			s = e.MsgStr[0]
		}

		keyword("msgstr", s)
	}

	return lines
}

func commentLine(marker, text string) string {
	if text == "" {
		return marker
	}

	return marker + " " + text
}

// wrapReferences packs references onto "#:" lines no wider than width.
func wrapReferences(refs []string, width int) []string {
	var (
		lines []string
		cur   string
	)

	for _, r := range refs {
		switch {
		case cur == "":
			cur = "#: " + r
		case width > 0 && utf8.RuneCountInString(cur)+1+utf8.RuneCountInString(r) > width:
			lines = append(lines, cur)
			cur = "#: " + r
		default:
			cur += " " + r
		}
	}

	if cur != "" {
		lines = append(lines, cur)
	}

	return lines
}

// wrapString renders `kw "s"`, splitting after embedded newlines and at
// spaces so that no line exceeds width. A width of 0 or less disables
// wrapping at spaces.
func wrapString(kw, s string, width int) []string {
	escaped := escape(s)

	pieces := splitAfterNewlines(escaped)

	single := kw + ` "` + escaped + `"`
	if len(pieces) <= 1 && (width <= 0 || utf8.RuneCountInString(single) <= width) {
		return []string{single}
	}

	lines := []string{kw + ` ""`}

	for _, p := range pieces {
		for _, chunk := range wrapPiece(p, width-2) {
			lines = append(lines, `"`+chunk+`"`)
		}
	}

	return lines
}

// splitAfterNewlines splits an escaped string after each `\n` escape that is
// not at the very end.
func splitAfterNewlines(escaped string) []string {
	var pieces []string

	for {
		i := indexNewlineEscape(escaped)
		if i < 0 || i+2 == len(escaped) {
			pieces = append(pieces, escaped)

			return pieces
		}

		pieces = append(pieces, escaped[:i+2])
		escaped = escaped[i+2:]
	}
}

// indexNewlineEscape finds the first `\n` escape, skipping `\\n`.
func indexNewlineEscape(s string) int {
	for i := 0; i < len(s)-1; i++ {
		if s[i] != '\\' {
			continue
		}

		if s[i+1] == 'n' {
			return i
		}

		i++
	}

	return -1
}

// wrapPiece breaks an escaped piece after spaces so that every chunk fits
// width. Words longer than width are kept whole.
func wrapPiece(p string, width int) []string {
	if width <= 0 || utf8.RuneCountInString(p) <= width {
		return []string{p}
	}

	var (
		chunks []string
		cur    strings.Builder
		curLen int
	)

	for word := range strings.SplitAfterSeq(p, " ") {
		if word == "" {
			continue
		}

		n := utf8.RuneCountInString(word)
		if curLen > 0 && curLen+n > width {
			chunks = append(chunks, cur.String())
			cur.Reset()

			curLen = 0
		}

		cur.WriteString(word)

		curLen += n
	}

	if cur.Len() > 0 || len(chunks) == 0 {
		chunks = append(chunks, cur.String())
	}

	return chunks
}

// escape encodes s for a quoted catalogue string.
func escape(s string) string {
	var b strings.Builder

	b.Grow(len(s) + len(s)/8)

	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\a':
			b.WriteString(`\a`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\v':
			b.WriteString(`\v`)
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}
