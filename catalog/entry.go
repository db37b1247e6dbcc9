// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"slices"
	"strings"
)

// EOT separates msgctxt from msgid in entry keys, matching the gettext
// runtime convention.
const EOT = "\x04"

// Well-known flags.
const (
	FlagFuzzy        = "fuzzy"
	FlagPythonFormat = "python-format"
	FlagJSFormat     = "javascript-format"
)

// Entry is a single msgid/msgstr pair with its comments and flags.
//
// MsgStr holds one string for singular entries and one string per plural
// form when MsgIDPlural is set.
type Entry struct {
	Context     string
	MsgID       string
	MsgIDPlural string
	MsgStr      []string

	// Flags are the "#," flags in the order they were read.
	Flags    []string
	Obsolete bool

	// Locations are "#:" references, usually "file:line".
	Locations          []string
	TranslatorComments []string
	ExtractedComments  []string
	PreviousComments   []string

	// Line is the 1-based line where the entry starts in the parsed input.
	// It is 0 for entries created in memory.
	Line int

	hasContext bool

	// raw is the exact input text of the entry, lead the blank lines that
	// preceded it. pristine is a field snapshot taken at parse time.
	raw      string
	lead     string
	pristine *Entry
}

// NewEntry returns an untranslated singular entry.
func NewEntry(msgid string) *Entry {
	return &Entry{MsgID: msgid, MsgStr: []string{""}}
}

// SetContext sets msgctxt. An empty context is still written as msgctxt "".
func (e *Entry) SetContext(ctx string) {
	e.Context = ctx
	e.hasContext = true
}

// HasContext reports whether the entry carries a msgctxt.
func (e *Entry) HasContext() bool {
	return e.hasContext || e.Context != ""
}

// Key identifies the entry within a catalogue.
func (e *Entry) Key() string {
	return MakeKey(e.Context, e.MsgID, e.HasContext())
}

// MakeKey builds an entry key the same way [Entry.Key] does.
func MakeKey(ctx, msgid string, hasContext bool) string {
	if hasContext || ctx != "" {
		return ctx + EOT + msgid
	}

	return msgid
}

// IsHeader reports whether e is the catalogue header.
func (e *Entry) IsHeader() bool {
	return e.MsgID == "" && !e.HasContext()
}

// IsPlural reports whether e has a msgid_plural.
func (e *Entry) IsPlural() bool {
	return e.MsgIDPlural != ""
}

// HasFlag reports whether flag is set.
func (e *Entry) HasFlag(flag string) bool {
	return slices.Contains(e.Flags, flag)
}

// AddFlag appends flag unless it is already present.
func (e *Entry) AddFlag(flag string) {
	if !e.HasFlag(flag) {
		e.Flags = append(e.Flags, flag)
	}
}

// RemoveFlag deletes every occurrence of flag.
func (e *Entry) RemoveFlag(flag string) {
	e.Flags = slices.DeleteFunc(e.Flags, func(f string) bool { return f == flag })
}

// IsFuzzy reports whether the entry needs review.
func (e *Entry) IsFuzzy() bool {
	return e.HasFlag(FlagFuzzy)
}

// SetFuzzy adds or removes the fuzzy flag.
func (e *Entry) SetFuzzy(fuzzy bool) {
	if fuzzy {
		e.AddFlag(FlagFuzzy)
	} else {
		e.RemoveFlag(FlagFuzzy)
	}
}

// IsFormat reports whether a "*-format" flag marks the entry as a format
// string. "no-*-format" flags do not count.
func (e *Entry) IsFormat() bool {
	for _, f := range e.Flags {
		if strings.HasSuffix(f, "-format") && !strings.HasPrefix(f, "no-") {
			return true
		}
	}

	return false
}

// IsTranslated reports whether every msgstr is non-empty.
func (e *Entry) IsTranslated() bool {
	if len(e.MsgStr) == 0 {
		return false
	}

	for _, s := range e.MsgStr {
		if s == "" {
			return false
		}
	}

	return true
}

// IsEmpty reports whether every msgstr is empty.
func (e *Entry) IsEmpty() bool {
	for _, s := range e.MsgStr {
		if s != "" {
			return false
		}
	}

	return true
}

// Clone returns a deep copy of e. The copy still round-trips verbatim while
// its fields are left untouched.
func (e *Entry) Clone() *Entry {
	c := *e
	c.MsgStr = slices.Clone(e.MsgStr)
	c.Flags = slices.Clone(e.Flags)
	c.Locations = slices.Clone(e.Locations)
	c.TranslatorComments = slices.Clone(e.TranslatorComments)
	c.ExtractedComments = slices.Clone(e.ExtractedComments)
	c.PreviousComments = slices.Clone(e.PreviousComments)

	return &c
}

// Equal reports whether a and b carry the same content. Line numbers and
// source text are ignored.
func Equal(a, b *Entry) bool {
	return a.Context == b.Context &&
		a.HasContext() == b.HasContext() &&
		a.MsgID == b.MsgID &&
		a.MsgIDPlural == b.MsgIDPlural &&
		a.Obsolete == b.Obsolete &&
		slices.Equal(a.MsgStr, b.MsgStr) &&
		slices.Equal(a.Flags, b.Flags) &&
		slices.Equal(a.Locations, b.Locations) &&
		slices.Equal(a.TranslatorComments, b.TranslatorComments) &&
		slices.Equal(a.ExtractedComments, b.ExtractedComments) &&
		slices.Equal(a.PreviousComments, b.PreviousComments)
}

// Modified reports whether the entry differs from what was parsed, or was
// never parsed at all.
func (e *Entry) Modified() bool {
	return e.pristine == nil || !Equal(e, e.pristine)
}

// Forget drops the parsed source text so the entry is always re-rendered.
func (e *Entry) Forget() {
	e.raw = ""
	e.lead = ""
	e.pristine = nil
}

func (e *Entry) snapshot() {
	p := e.Clone()
	p.raw, p.lead, p.pristine = "", "", nil
	e.pristine = p
}
