// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"bytes"
	"errors"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
)

var (
	errUnknownCharset = errors.New("unknown charset")
	errInvalidUTF8    = errors.New("input is not valid UTF-8 and declares no charset")
)

var charsetPattern = regexp.MustCompile(`(?i)charset=([A-Za-z0-9._:+-]+)`)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DeclaredCharset returns the charset named in the Content-Type header of
// raw catalogue bytes, or "" when there is none.
func DeclaredCharset(raw []byte) string {
	m := charsetPattern.FindSubmatch(raw)
	if m == nil {
		return ""
	}

	return string(m[1])
}

// IsUTF8Charset reports whether name denotes UTF-8.
func IsUTF8Charset(name string) bool {
	n := strings.ToLower(strings.ReplaceAll(name, "_", "-"))

	return n == "utf-8" || n == "utf8"
}

// DecodeLegacy converts raw catalogue bytes to UTF-8. A leading byte order
// mark is dropped. Input that is already valid UTF-8 is kept as it is;
// otherwise the charset declared in the header entry is used to decode it.
// In both cases a declared legacy charset is rewritten to UTF-8 in the
// header entry only. The charset that was decoded is returned, or "UTF-8".
func DecodeLegacy(raw []byte) ([]byte, string, error) {
	raw = bytes.TrimPrefix(raw, utf8BOM)

	declared := DeclaredCharset(raw[:headerEnd(raw)])

	if utf8.Valid(raw) {
		if declared != "" && !IsUTF8Charset(declared) && !isPlaceholderCharset(declared) {
			raw = rewriteCharset(raw)
		}

		return raw, "UTF-8", nil
	}

	if declared == "" || isPlaceholderCharset(declared) {
		return nil, "", &EncodingError{Charset: declared, Err: errInvalidUTF8}
	}

	enc, err := lookupEncoding(declared)
	if err != nil {
		return nil, "", &EncodingError{Charset: declared, Err: err}
	}

	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, "", &EncodingError{Charset: declared, Err: err}
	}

	return rewriteCharset(out), declared, nil
}

// rewriteCharset declares UTF-8 in the header entry of b.
func rewriteCharset(b []byte) []byte {
	end := headerEnd(b)

	return slices.Concat(charsetPattern.ReplaceAll(b[:end], []byte("charset=UTF-8")), b[end:])
}

// headerEnd returns the offset just past the first entry of raw when that
// entry is the header (an empty msgid without context), or 0 otherwise.
func headerEnd(raw []byte) int {
	var (
		off              int
		prev             []byte
		seen, ctx, found bool
	)

	for line := range bytes.Lines(raw) {
		t := bytes.TrimSpace(line)

		switch {
		case len(t) == 0:
			if seen {
				return endIf(found, off)
			}
		case bytes.HasPrefix(t, []byte("msgctxt")):
			ctx = true
		case bytes.HasPrefix(t, []byte("msgid ")):
			if seen {
				return endIf(found, off)
			}

			seen = true
		case bytes.Equal(prev, []byte(`msgid ""`)):
			found = !ctx && bytes.HasPrefix(t, []byte("msgstr"))
		}

		prev = t
		off += len(line)
	}

	return endIf(found, off)
}

func endIf(ok bool, off int) int {
	if !ok {
		return 0
	}

	return off
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return enc, nil
	}

	if enc, err := htmlindex.Get(name); err == nil && enc != nil {
		return enc, nil
	}

	return nil, errUnknownCharset
}

// isPlaceholderCharset reports whether name is the template placeholder.
func isPlaceholderCharset(name string) bool {
	return name == "CHARSET"
}
