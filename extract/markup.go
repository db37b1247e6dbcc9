// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"bytes"
	"errors"
	"io"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Default markup settings.
var (
	DefaultAttributes   = []string{"string", "help", "placeholder", "title"}
	DefaultTextElements = []string{
		"a", "b", "button", "div", "em", "h1", "h2", "h3", "h4", "h5", "h6",
		"i", "label", "li", "option", "p", "small", "span", "strong", "td", "th",
	}
)

// Default disable directive.
const (
	DefaultDisableAttr  = "t-translation"
	DefaultDisableValue = "off"
)

// voidElements never have an end tag in HTML-flavoured templates.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "source": true,
	"track": true, "wbr": true,
}

// MarkupOptions configures a MarkupExtractor. Nil slices and empty strings
// select the defaults.
type MarkupOptions struct {
	Attributes   []string
	Text         bool
	TextElements []string
	DisableAttr  string
	DisableValue string
}

// MarkupExtractor extracts attribute values and element text from XML
// templates.
type MarkupExtractor struct {
	attrs        map[string]bool
	text         bool
	textElements map[string]bool
	disableAttr  string
	disableValue string
}

// NewMarkup returns a markup extractor.
func NewMarkup(opts MarkupOptions) *MarkupExtractor {
	if opts.Attributes == nil {
		opts.Attributes = DefaultAttributes
	}

	if opts.TextElements == nil {
		opts.TextElements = DefaultTextElements
	}

	if opts.DisableAttr == "" {
		opts.DisableAttr = DefaultDisableAttr
	}

	if opts.DisableValue == "" {
		opts.DisableValue = DefaultDisableValue
	}

	return &MarkupExtractor{
		attrs:        lowerSet(opts.Attributes),
		text:         opts.Text,
		textElements: lowerSet(opts.TextElements),
		disableAttr:  strings.ToLower(opts.DisableAttr),
		disableValue: opts.DisableValue,
	}
}

// Dialect returns [Markup].
func (*MarkupExtractor) Dialect() Dialect {
	return Markup
}

type openElement struct {
	name     string
	disabled bool
}

// Extract implements [Extractor].
func (x *MarkupExtractor) Extract(path string, src []byte) ([]Literal, []Warning) {
	var (
		lits  []Literal
		warns []Warning
		stack []openElement
	)

	z := html.NewTokenizer(bytes.NewReader(src))
	z.AllowCDATA(true)

	offset, line := 0, 1

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); !errors.Is(err, io.EOF) {
				warns = append(warns, Warning{File: path, Line: line, Message: "markup tokenizer: " + err.Error()})
			}

			break
		}

		// TagAttr and Text decode in place, so keep the source bytes.
		raw := bytes.Clone(z.Raw())
		start, startLine := offset, line
		offset += len(raw)
		line += bytes.Count(raw, []byte("\n"))

		disabled := len(stack) > 0 && stack[len(stack)-1].disabled

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			// XML has no raw-text elements; <script/> and <textarea/> must
			// not swallow the rest of the file.
			z.NextIsNotRawText()

			name, hasAttr := z.TagName()
			tag := string(name)

			var attrs []html.Attribute

			for hasAttr {
				var key, val []byte

				key, val, hasAttr = z.TagAttr()
				attrs = append(attrs, html.Attribute{Key: string(key), Val: string(val)})
			}

			if x.isDisabled(attrs) {
				disabled = true
			}

			if !disabled {
				for _, a := range attrs {
					if !x.attrs[a.Key] || isBlank(a.Val) {
						continue
					}

					s, e := attrSpan(raw, a.Key)

					lits = append(lits, Literal{
						Text:    a.Val,
						File:    path,
						Line:    startLine + bytes.Count(raw[:s], []byte("\n")),
						Dialect: Markup,
						Span:    Span{Start: start + s, End: start + e},
						Note:    "attr:" + a.Key,
					})
				}
			}

			if tt == html.StartTagToken && !voidElements[tag] {
				stack = append(stack, openElement{name: tag, disabled: disabled})
			}

		case html.EndTagToken:
			name, _ := z.TagName()

			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].name == string(name) {
					stack = stack[:i]

					break
				}
			}

		case html.TextToken:
			if !x.text || disabled || len(stack) == 0 || !x.textElements[stack[len(stack)-1].name] {
				continue
			}

			text := string(z.Text())

			trimmed := strings.TrimSpace(text)
			if utf8.RuneCountInString(trimmed) <= 1 {
				continue
			}

			lead := len(raw) - len(bytes.TrimLeft(raw, " \t\r\n"))

			lits = append(lits, Literal{
				Text:    trimmed,
				File:    path,
				Line:    startLine + bytes.Count(raw[:lead], []byte("\n")),
				Dialect: Markup,
				Span:    Span{Start: start + lead, End: start + len(bytes.TrimRight(raw, " \t\r\n"))},
				Note:    "text:" + stack[len(stack)-1].name,
			})
		}
	}

	return lits, warns
}

func (x *MarkupExtractor) isDisabled(attrs []html.Attribute) bool {
	return slices.ContainsFunc(attrs, func(a html.Attribute) bool {
		return a.Key == x.disableAttr && strings.EqualFold(strings.TrimSpace(a.Val), x.disableValue)
	})
}

// attrSpan locates the value of attribute key inside a raw start tag. It
// falls back to the whole tag when the attribute cannot be found.
func attrSpan(raw []byte, key string) (int, int) {
	lower := bytes.ToLower(raw)
	k := []byte(key)

	for from := 0; from < len(lower); {
		i := bytes.Index(lower[from:], k)
		if i < 0 {
			break
		}

		i += from
		from = i + len(k)

		if i == 0 || !isSpaceByte(lower[i-1]) {
			continue
		}

		j := from
		for j < len(raw) && isSpaceByte(raw[j]) {
			j++
		}

		if j >= len(raw) || raw[j] != '=' {
			continue
		}

		j++
		for j < len(raw) && isSpaceByte(raw[j]) {
			j++
		}

		if j >= len(raw) {
			break
		}

		if q := raw[j]; q == '"' || q == '\'' {
			end := bytes.IndexByte(raw[j+1:], q)
			if end < 0 {
				return j + 1, len(raw)
			}

			return j + 1, j + 1 + end
		}

		end := j
		for end < len(raw) && !isSpaceByte(raw[end]) && raw[end] != '>' && raw[end] != '/' {
			end++
		}

		return j, end
	}

	return 0, len(raw)
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func lowerSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = true
	}

	return set
}
