// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type syntax int

const (
	pythonSyntax syntax = iota
	jsSyntax
)

type tokKind int

const (
	tokIdent tokKind = iota
	tokString
	tokNumber
	tokPunct
)

// token is one lexical element. For strings, text holds the decoded value.
type token struct {
	kind  tokKind
	text  string
	start int
	end   int
	line  int

	// interp marks f-strings and template literals with substitutions.
	interp bool
	// unterminated marks a string that ran into the end of line or file.
	unterminated bool
}

type lexer struct {
	src    string
	pos    int
	line   int
	syntax syntax
	toks   []token
}

// jsRegexKeywords are keywords after which a slash starts a regular
// expression rather than a division.
var jsRegexKeywords = map[string]bool{
	"return": true, "typeof": true, "instanceof": true, "in": true, "of": true,
	"new": true, "delete": true, "void": true, "throw": true, "case": true,
	"do": true, "else": true, "yield": true, "await": true,
}

// lex splits src into tokens, dropping whitespace and comments.
func lex(src string, sx syntax) []token {
	l := &lexer{src: src, line: 1, syntax: sx}

	for l.pos < len(l.src) {
		c := l.src[l.pos]

		switch {
		case c == '\n':
			l.line++
			l.pos++
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			l.pos++
		case c == '\\' && l.syntax == pythonSyntax:
			// explicit line joining
			l.pos++
		case c == '#' && l.syntax == pythonSyntax:
			l.skipLine()
		case c == '/' && l.syntax == jsSyntax && l.peek(1) == '/':
			l.skipLine()
		case c == '/' && l.syntax == jsSyntax && l.peek(1) == '*':
			l.skipBlockComment()
		case c == '/' && l.syntax == jsSyntax && l.regexAllowed():
			l.skipRegex()
		case c == '"' || c == '\'':
			l.lexString("")
		case c == '`' && l.syntax == jsSyntax:
			l.lexTemplate()
		case isIdentStart(l.src[l.pos:], l.syntax):
			l.lexIdent()
		case c >= '0' && c <= '9':
			l.lexNumber()
		default:
			_, size := utf8.DecodeRuneInString(l.src[l.pos:])
			l.emit(tokPunct, l.src[l.pos:l.pos+size], l.pos, l.pos+size, l.line)
			l.pos += size
		}
	}

	return l.toks
}

func (l *lexer) peek(n int) byte {
	if l.pos+n < len(l.src) {
		return l.src[l.pos+n]
	}

	return 0
}

func (l *lexer) emit(kind tokKind, text string, start, end, line int) {
	l.toks = append(l.toks, token{kind: kind, text: text, start: start, end: end, line: line})
}

func (l *lexer) skipLine() {
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.pos++
	}
}

func (l *lexer) skipBlockComment() {
	end := strings.Index(l.src[l.pos+2:], "*/")
	if end < 0 {
		l.line += strings.Count(l.src[l.pos:], "\n")
		l.pos = len(l.src)

		return
	}

	stop := l.pos + 2 + end + 2
	l.line += strings.Count(l.src[l.pos:stop], "\n")
	l.pos = stop
}

// regexAllowed decides whether a slash at the current position begins a
// regular expression literal, judging by the previous token.
func (l *lexer) regexAllowed() bool {
	if len(l.toks) == 0 {
		return true
	}

	prev := l.toks[len(l.toks)-1]

	switch prev.kind {
	case tokNumber, tokString:
		return false
	case tokIdent:
		return jsRegexKeywords[prev.text]
	case tokPunct:
		return prev.text != ")" && prev.text != "]" && prev.text != "}"
	}

	return true
}

// skipRegex skips a regular expression literal and its flags. A literal that
// is not closed on its line ends at the newline.
func (l *lexer) skipRegex() {
	start, inClass := l.pos, false

	l.pos++
	for l.pos < len(l.src) {
		c := l.src[l.pos]

		switch {
		case c == '\n':
			return
		case c == '\\':
			l.pos++
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case c == '/' && !inClass:
			l.pos++
			for l.pos < len(l.src) && isASCIILetter(l.src[l.pos]) {
				l.pos++
			}

			// A regex is a value: a slash after it divides.
			l.emit(tokNumber, l.src[start:l.pos], start, l.pos, l.line)

			return
		}

		l.pos++
	}
}

func (l *lexer) lexIdent() {
	start := l.pos

	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !isIdentRune(r, l.syntax) {
			break
		}

		l.pos += size
	}

	word := l.src[start:l.pos]

	if l.syntax == pythonSyntax && l.pos < len(l.src) && (l.src[l.pos] == '"' || l.src[l.pos] == '\'') && isStringPrefix(word) {
		l.pos = start
		l.lexString(word)

		return
	}

	l.emit(tokIdent, word, start, l.pos, l.line)
}

func (l *lexer) lexNumber() {
	start := l.pos

	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c != '.' && c != '_' && !isASCIILetter(c) && (c < '0' || c > '9') {
			break
		}

		l.pos++
	}

	l.emit(tokNumber, l.src[start:l.pos], start, l.pos, l.line)
}

// lexString reads a quoted string starting at l.pos, after an optional
// Python prefix such as "r" or "f".
func (l *lexer) lexString(prefix string) {
	start, line := l.pos, l.line
	l.pos += len(prefix)

	p := strings.ToLower(prefix)
	raw := strings.Contains(p, "r")

	q := l.src[l.pos]
	triple := l.syntax == pythonSyntax && strings.HasPrefix(l.src[l.pos:], strings.Repeat(string(q), 3))

	closing := string(q)
	if triple {
		closing = strings.Repeat(string(q), 3)
	}

	l.pos += len(closing)

	var b strings.Builder

	tok := token{kind: tokString, start: start, line: line, interp: strings.Contains(p, "f")}

	for {
		if l.pos >= len(l.src) {
			tok.unterminated = true

			break
		}

		if strings.HasPrefix(l.src[l.pos:], closing) {
			l.pos += len(closing)

			break
		}

		c := l.src[l.pos]

		switch {
		case c == '\n' && !triple:
			tok.unterminated = true
		case c == '\n':
			l.line++
			b.WriteByte(c)
			l.pos++
		case c == '\\' && raw:
			b.WriteByte(c)
			l.pos++

			if l.pos < len(l.src) {
				if l.src[l.pos] == '\n' {
					l.line++
				}

				b.WriteByte(l.src[l.pos])
				l.pos++
			}
		case c == '\\':
			l.pos = l.unescape(&b, l.pos)
		default:
			b.WriteByte(c)
			l.pos++
		}

		if tok.unterminated {
			break
		}
	}

	tok.text = b.String()
	tok.end = l.pos
	l.toks = append(l.toks, tok)
}

// lexTemplate reads a JavaScript template literal. Substitutions are skipped
// and mark the token as interpolated.
func (l *lexer) lexTemplate() {
	start, line := l.pos, l.line
	l.pos++

	var b strings.Builder

	tok := token{kind: tokString, start: start, line: line}

	for {
		if l.pos >= len(l.src) {
			tok.unterminated = true

			break
		}

		c := l.src[l.pos]
		if c == '`' {
			l.pos++

			break
		}

		switch {
		case c == '\n':
			l.line++
			b.WriteByte(c)
			l.pos++
		case c == '\\':
			l.pos = l.unescape(&b, l.pos)
		case c == '$' && l.peek(1) == '{':
			tok.interp = true
			l.skipSubstitution()
		default:
			b.WriteByte(c)
			l.pos++
		}
	}

	tok.text = b.String()
	tok.end = l.pos
	l.toks = append(l.toks, tok)
}

// skipSubstitution skips "${ ... }", tracking nested braces.
func (l *lexer) skipSubstitution() {
	depth := 0

	for l.pos < len(l.src) {
		c := l.src[l.pos]
		l.pos++

		switch c {
		case '\n':
			l.line++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

// unescape decodes the escape sequence at src[i] into b and returns the
// position after it.
func (l *lexer) unescape(b *strings.Builder, i int) int {
	i++
	if i >= len(l.src) {
		b.WriteByte('\\')

		return i
	}

	c := l.src[i]

	switch c {
	case '\n':
		// line continuation
		l.line++

		return i + 1
	case '\r':
		if i+1 < len(l.src) && l.src[i+1] == '\n' {
			l.line++

			return i + 2
		}

		return i + 1
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'v':
		b.WriteByte('\v')
	case 'a':
		if l.syntax == pythonSyntax {
			b.WriteByte('\a')
		} else {
			b.WriteByte('a')
		}
	case 'x':
		if v, ok := parseHex(l.src, i+1, 2); ok {
			b.WriteRune(rune(v))

			return i + 3
		}

		b.WriteString(`\x`)
	case 'u':
		if l.syntax == jsSyntax && i+1 < len(l.src) && l.src[i+1] == '{' {
			if end := strings.IndexByte(l.src[i:], '}'); end > 0 {
				if v, err := strconv.ParseUint(l.src[i+2:i+end], 16, 32); err == nil {
					b.WriteRune(rune(v))

					return i + end + 1
				}
			}
		}

		if v, ok := parseHex(l.src, i+1, 4); ok {
			return l.writeUTF16(b, rune(v), i+5)
		}

		b.WriteString(`\u`)
	case 'U':
		if l.syntax == pythonSyntax {
			if v, ok := parseHex(l.src, i+1, 8); ok {
				b.WriteRune(rune(v))

				return i + 9
			}
		}

		b.WriteString(`\U`)
	case '0', '1', '2', '3', '4', '5', '6', '7':
		if l.syntax == jsSyntax && c == '0' && (i+1 >= len(l.src) || l.src[i+1] < '0' || l.src[i+1] > '9') {
			b.WriteByte(0)

			break
		}

		j := i
		for j < len(l.src) && j < i+3 && l.src[j] >= '0' && l.src[j] <= '7' {
			j++
		}

		v, _ := strconv.ParseUint(l.src[i:j], 8, 16)
		b.WriteRune(rune(v))

		return j
	case '\\', '\'', '"', '`':
		b.WriteByte(c)
	default:
		if l.syntax == pythonSyntax {
			// Unknown escapes keep their backslash.
			b.WriteByte('\\')
		}

		_, size := utf8.DecodeRuneInString(l.src[i:])
		b.WriteString(l.src[i : i+size])

		return i + size
	}

	return i + 1
}

// writeUTF16 writes r, joining it with a following low surrogate escape when
// r is a high surrogate.
func (l *lexer) writeUTF16(b *strings.Builder, r rune, next int) int {
	if r >= 0xD800 && r < 0xDC00 && strings.HasPrefix(l.src[next:], `\u`) {
		if lo, ok := parseHex(l.src, next+2, 4); ok && lo >= 0xDC00 && lo < 0xE000 {
			b.WriteRune((r-0xD800)<<10 + (rune(lo) - 0xDC00) + 0x10000)

			return next + 6
		}
	}

	b.WriteRune(r)

	return next
}

func parseHex(s string, i, n int) (uint64, bool) {
	if i+n > len(s) {
		return 0, false
	}

	v, err := strconv.ParseUint(s[i:i+n], 16, 32)

	return v, err == nil
}

func isStringPrefix(word string) bool {
	switch strings.ToLower(word) {
	case "r", "u", "b", "f", "rb", "br", "fr", "rf":
		return true
	}

	return false
}

func isIdentStart(s string, sx syntax) bool {
	r, _ := utf8.DecodeRuneInString(s)

	return r == '_' || (r == '$' && sx == jsSyntax) || unicode.IsLetter(r)
}

func isIdentRune(r rune, sx syntax) bool {
	return r == '_' || (r == '$' && sx == jsSyntax) || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
