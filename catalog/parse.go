// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// line is one input line without its terminator.
type line struct {
	text string
	end  string
	num  int
}

// parse states, in the order they may appear within an entry.
const (
	stComments = iota
	stContext
	stMsgID
	stPlural
	stMsgStr
)

type parser struct {
	lines []line
	pos   int

	// seen maps entry keys to the line that first defined them.
	seen map[string]int

	// wrapWidth is the longest line observed inside a wrapped string.
	wrapWidth int
}

// Parse reads a catalogue. It returns a *FormatError when the text is
// malformed; see the package documentation for what is preserved.
func Parse(data []byte) (*Catalog, error) {
	p := &parser{
		lines: splitLines(string(data)),
		seen:  make(map[string]int),
	}

	cat := New()

	for _, l := range p.lines {
		if l.end != "" {
			cat.newline = l.end

			break
		}
	}

	var lead strings.Builder

	for p.pos < len(p.lines) {
		l := p.lines[p.pos]
		if isBlank(l.text) {
			lead.WriteString(l.text + l.end)
			p.pos++

			continue
		}

		start := p.pos

		e, err := p.entry()
		if err != nil {
			return nil, err
		}

		var raw strings.Builder
		for _, rl := range p.lines[start:p.pos] {
			raw.WriteString(rl.text + rl.end)
		}

		e.raw = raw.String()
		e.lead = lead.String()
		e.Line = p.lines[start].num
		lead.Reset()

		if !e.Obsolete {
			key := e.Key()
			if first, ok := p.seen[key]; ok {
				if e.IsHeader() {
					return nil, formatErrorf(e.Line, "second header entry (first at line %d)", first)
				}

				return nil, formatErrorf(e.Line, "duplicate msgid %q (first defined at line %d)", e.MsgID, first)
			}

			p.seen[key] = e.Line
		}

		e.snapshot()
		cat.Add(e)
	}

	cat.tail = lead.String()
	cat.wrapWidth = p.wrapWidth

	return cat, nil
}

// entry consumes the lines of one entry, stopping before the blank line or
// the first line of the next entry.
func (p *parser) entry() (*Entry, error) {
	e := &Entry{}
	state := stComments
	sawMsgStr := false
	plural := false
	obsoleteSeen := false

	// target receives continuation strings; lines collects the lines of the
	// current string for wrap-width detection.
	var (
		target    *string
		strLines  []string
		strOpened bool
	)

	flushString := func() {
		if strOpened {
			p.observeWrap(strLines)
		}

		strLines = strLines[:0]
		strOpened = false
	}

	for p.pos < len(p.lines) {
		l := p.lines[p.pos]
		if isBlank(l.text) {
			break
		}

		text := l.text
		body := text
		obsolete := false

		if rest, ok := strings.CutPrefix(text, "#~"); ok {
			if strings.HasPrefix(rest, "|") {
				// "#~|" is a previous-msgid comment of an obsolete entry.
				body = ""
			} else {
				obsolete = true
				body = strings.TrimLeft(rest, " \t")
			}
		}

		if !obsolete && strings.HasPrefix(text, "#") {
			if state > stComments {
				if sawMsgStr {
					break
				}

				return nil, formatErrorf(l.num, "comment inside an entry")
			}

			e.addComment(text)
			p.pos++

			continue
		}

		if obsolete {
			if state > stComments && !obsoleteSeen {
				if sawMsgStr {
					break
				}

				return nil, formatErrorf(l.num, "obsolete line inside an active entry")
			}

			obsoleteSeen = true
			e.Obsolete = true
		} else if obsoleteSeen {
			if sawMsgStr {
				break
			}

			return nil, formatErrorf(l.num, "active line inside an obsolete entry")
		}

		if strings.HasPrefix(body, `"`) {
			if target == nil {
				return nil, formatErrorf(l.num, "string without a keyword")
			}

			s, err := unquote(body, l.num)
			if err != nil {
				return nil, err
			}

			*target += s
			strLines = append(strLines, body)
			p.pos++

			continue
		}

		kw, rest := body, ""
		if i := strings.IndexAny(body, " \t"); i >= 0 {
			kw, rest = body[:i], strings.TrimLeft(body[i:], " \t")
		}

		switch {
		case kw == "msgctxt":
			if sawMsgStr {
				flushString()

				return e, p.finish(e, state)
			}

			if state >= stContext {
				return nil, formatErrorf(l.num, "unexpected msgctxt")
			}

			state = stContext
			e.hasContext = true
			target = &e.Context

		case kw == "msgid":
			if sawMsgStr {
				flushString()

				return e, p.finish(e, state)
			}

			if state >= stMsgID {
				return nil, formatErrorf(l.num, "unexpected msgid")
			}

			state = stMsgID
			target = &e.MsgID

		case kw == "msgid_plural":
			if state != stMsgID {
				return nil, formatErrorf(l.num, "msgid_plural without msgid")
			}

			state = stPlural
			plural = true
			target = &e.MsgIDPlural

		case kw == "msgstr":
			if plural {
				return nil, formatErrorf(l.num, "msgstr without index in a plural entry")
			}

			if state != stMsgID {
				return nil, formatErrorf(l.num, "unexpected msgstr")
			}

			state = stMsgStr
			sawMsgStr = true
			e.MsgStr = append(e.MsgStr, "")
			target = &e.MsgStr[0]

		case strings.HasPrefix(kw, "msgstr[") && strings.HasSuffix(kw, "]"):
			idx, err := strconv.Atoi(kw[len("msgstr[") : len(kw)-1])
			if err != nil || idx < 0 {
				return nil, formatErrorf(l.num, "invalid msgstr index %q", kw)
			}

			if !plural {
				return nil, formatErrorf(l.num, "%s without msgid_plural", kw)
			}

			if idx != len(e.MsgStr) {
				return nil, formatErrorf(l.num, "msgstr index out of sequence: got %d, want %d", idx, len(e.MsgStr))
			}

			state = stMsgStr
			sawMsgStr = true
			e.MsgStr = append(e.MsgStr, "")
			target = &e.MsgStr[idx]

		default:
			return nil, formatErrorf(l.num, "unexpected content %q", text)
		}

		flushString()

		s, err := unquote(rest, l.num)
		if err != nil {
			return nil, err
		}

		*target += s
		strLines = append(strLines, kw+" "+rest)
		strOpened = true
		p.pos++
	}

	flushString()

	return e, p.finish(e, state)
}

// finish checks that a complete entry was read.
func (p *parser) finish(e *Entry, state int) error {
	num := 0
	if p.pos > 0 {
		num = p.lines[p.pos-1].num
	}

	switch state {
	case stComments:
		return formatErrorf(num, "comments without an entry")
	case stContext:
		return formatErrorf(num, "msgctxt without msgid")
	case stMsgID, stPlural:
		return formatErrorf(num, "msgid %q without msgstr", e.MsgID)
	}

	return nil
}

// observeWrap records the widest line of a string that was wrapped at a
// position other than an embedded newline.
func (p *parser) observeWrap(lines []string) {
	if len(lines) < 2 {
		return
	}

	wrapped := false

	for _, l := range lines[:len(lines)-1] {
		if l == `msgid ""` || l == `msgstr ""` || strings.HasSuffix(l, `""`) {
			continue
		}

		if !strings.HasSuffix(l, `\n"`) {
			wrapped = true
		}
	}

	if !wrapped {
		return
	}

	for _, l := range lines {
		if n := utf8.RuneCountInString(l); n > p.wrapWidth {
			p.wrapWidth = n
		}
	}
}

// addComment classifies a comment line.
func (e *Entry) addComment(text string) {
	switch {
	case strings.HasPrefix(text, "#:"):
		e.Locations = append(e.Locations, strings.Fields(text[2:])...)
	case strings.HasPrefix(text, "#,"):
		for f := range strings.SplitSeq(text[2:], ",") {
			if f = strings.TrimSpace(f); f != "" {
				e.Flags = append(e.Flags, f)
			}
		}
	case strings.HasPrefix(text, "#."):
		e.ExtractedComments = append(e.ExtractedComments, trimOneSpace(text[2:]))
	case strings.HasPrefix(text, "#~|"):
		e.PreviousComments = append(e.PreviousComments, trimOneSpace(text[3:]))
	case strings.HasPrefix(text, "#|"):
		e.PreviousComments = append(e.PreviousComments, trimOneSpace(text[2:]))
	default:
		e.TranslatorComments = append(e.TranslatorComments, trimOneSpace(text[1:]))
	}
}

func trimOneSpace(s string) string {
	return strings.TrimPrefix(s, " ")
}

// unquote decodes one quoted string; only whitespace may follow it.
func unquote(s string, num int) (string, error) {
	s = strings.TrimLeft(s, " \t")
	if !strings.HasPrefix(s, `"`) {
		return "", formatErrorf(num, "expected a quoted string")
	}

	var b strings.Builder

	i := 1
	for ; i < len(s); i++ {
		c := s[i]
		if c == '"' {
			break
		}

		if c != '\\' {
			b.WriteByte(c)

			continue
		}

		i++
		if i >= len(s) {
			break
		}

		switch c := s[i]; c {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case 'x':
			j := i + 1
			for j < len(s) && j < i+3 && isHex(s[j]) {
				j++
			}

			if j == i+1 {
				return "", formatErrorf(num, `invalid \x escape`)
			}

			v, _ := strconv.ParseUint(s[i+1:j], 16, 8)
			b.WriteByte(byte(v))

			i = j - 1
		case '0', '1', '2', '3', '4', '5', '6', '7':
			j := i
			for j < len(s) && j < i+3 && s[j] >= '0' && s[j] <= '7' {
				j++
			}

			v, _ := strconv.ParseUint(s[i:j], 8, 16)
			b.WriteByte(byte(v))

			i = j - 1
		default:
			// \\, \", \' and \? decode to themselves; unknown escapes keep
			// the escaped character.
			b.WriteByte(c)
		}
	}

	if i >= len(s) {
		return "", formatErrorf(num, "unterminated string")
	}

	if rest := strings.TrimSpace(s[i+1:]); rest != "" {
		return "", formatErrorf(num, "unexpected text after string: %q", rest)
	}

	return b.String(), nil
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// splitLines splits s into lines, recording each terminator.
func splitLines(s string) []line {
	var lines []line

	num := 1
	for s != "" {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			lines = append(lines, line{text: s, num: num})

			break
		}

		text, end := s[:i], "\n"
		if strings.HasSuffix(text, "\r") {
			text, end = text[:len(text)-1], "\r\n"
		}

		lines = append(lines, line{text: text, end: end, num: num})
		s = s[i+1:]
		num++
	}

	return lines
}
