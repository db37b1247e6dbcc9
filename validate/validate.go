// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package validate checks a catalogue against gettext conventions and the
// grammar of its target locale.
//
// Validation never stops early: every rule runs over every entry and the
// findings come back as one list, ordered by rule priority and then by line.
// Obsolete entries are only checked for encoding problems.
package validate

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"codeberg.org/potool/potool/builder"
	"codeberg.org/potool/potool/catalog"
	"codeberg.org/potool/potool/locale"
	"codeberg.org/potool/potool/merge"
)

// Options configures a validation run.
type Options struct {
	// Locale overrides the locale named by the Language header.
	Locale *locale.Locale
	// Strict promotes empty translations from Warning to Error.
	Strict bool
}

// requiredFields are the header fields that must be present, with the
// values xgettext leaves in templates.
var requiredFields = []struct {
	name        string
	placeholder string
}{
	{catalog.FieldProjectID, builder.PlaceholderProject},
	{catalog.FieldCreationDate, builder.PlaceholderDate},
	{catalog.FieldRevisionDate, builder.PlaceholderDate},
	{catalog.FieldLanguage, ""},
	{catalog.FieldContentType, builder.PlaceholderCharset},
	{catalog.FieldPluralForms, builder.PlaceholderPlural},
}

const snippetWidth = 40

// pluralCompareLimit bounds the quantities compared between two plural rules.
// It covers every n%100 residue and the teens of the first thousand.
const pluralCompareLimit = 1000

type checker struct {
	c     *catalog.Catalog
	opts  Options
	diags []Diagnostic

	loc      *locale.Locale
	declared int
}

// Validate runs every rule over c and returns the findings. It does not
// modify c.
func Validate(c *catalog.Catalog, opts Options) []Diagnostic {
	k := &checker{c: c, opts: opts, loc: opts.Locale}

	if k.loc == nil {
		if code, ok := c.HeaderField(catalog.FieldLanguage); ok && code != "" {
			if l, err := locale.Lookup(code); err == nil {
				k.loc = &l
			}
		}
	}

	if pf, ok := c.HeaderField(catalog.FieldPluralForms); ok {
		if n, _, err := locale.ParsePluralForms(pf); err == nil {
			k.declared = n
		}
	}

	k.encoding()
	k.header()
	k.pluralCount()
	k.entries(RuleEmptyMsgstr, k.emptyMsgstr)
	k.entries(RuleFuzzy, k.fuzzy)
	k.entries(RuleFormatParity, k.formatParity)
	k.duplicates()
	k.entries(RuleMojibake, k.mojibake)
	k.entries(RuleBidiOverride, k.bidi)
	k.entries(RuleRTLScript, k.rtlScript)
	k.entries(RuleWhitespace, k.whitespace)

	slices.SortStableFunc(k.diags, func(a, b Diagnostic) int {
		return cmp.Or(
			cmp.Compare(priority(a.Rule), priority(b.Rule)),
			cmp.Compare(a.Line, b.Line),
		)
	})

	return k.diags
}

func priority(r Rule) int {
	return slices.Index(Rules, r)
}

func (k *checker) report(rule Rule, sev Severity, e *catalog.Entry, format string, args ...any) {
	d := Diagnostic{
		Rule:     rule,
		Severity: sev,
		Message:  fmt.Sprintf(format, args...),
	}

	if e != nil {
		d.Line = e.Line
		d.Snippet = snippet(e.MsgID)
	}

	k.diags = append(k.diags, d)
}

// entries runs check over every active entry, header excluded.
func (k *checker) entries(rule Rule, check func(Rule, *catalog.Entry)) {
	for e := range k.c.Active() {
		check(rule, e)
	}
}

func (k *checker) encoding() {
	if ct, ok := k.c.HeaderField(catalog.FieldContentType); ok {
		cs := catalog.DeclaredCharset([]byte(ct))
		if cs != "" && !strings.EqualFold(cs, "CHARSET") && !catalog.IsUTF8Charset(cs) {
			k.report(RuleEncoding, Error, k.c.Header, "declared charset %s is not UTF-8", cs)
		}
	}

	for e := range k.c.All() {
		if !entryValidUTF8(e) {
			k.report(RuleEncoding, Error, e, "entry contains invalid UTF-8")
		}
	}
}

func entryValidUTF8(e *catalog.Entry) bool {
	texts := [][]string{
		{e.Context, e.MsgID, e.MsgIDPlural},
		e.MsgStr,
		e.Flags,
		e.Locations,
		e.TranslatorComments,
		e.ExtractedComments,
		e.PreviousComments,
	}

	for _, group := range texts {
		for _, s := range group {
			if !utf8.ValidString(s) {
				return false
			}
		}
	}

	return true
}

func (k *checker) header() {
	h := k.c.Header
	if h == nil {
		k.report(RuleHeader, Error, nil, "catalogue has no header entry")

		return
	}

	for _, f := range requiredFields {
		value, ok := k.c.HeaderField(f.name)

		switch {
		case !ok:
			k.report(RuleHeader, Error, h, "missing required header field %s", f.name)
		case value == "" || value == f.placeholder:
			k.report(RuleHeader, Warning, h, "header field %s holds a placeholder value", f.name)
		}
	}

	if code, ok := k.c.HeaderField(catalog.FieldLanguage); ok && code != "" {
		if _, err := locale.ParseTag(code); err != nil {
			k.report(RuleHeader, Warning, h, "unrecognised Language %q", code)
		}
	}

	pf, ok := k.c.HeaderField(catalog.FieldPluralForms)
	if !ok || pf == "" || pf == builder.PlaceholderPlural {
		return
	}

	_, expr, err := locale.ParsePluralForms(pf)
	if err == nil {
		err = locale.CompilePluralExpr(expr)
	}

	if err != nil {
		k.report(RuleHeader, Error, h, "invalid Plural-Forms: %v", err)
	}
}

// pluralCount compares plural entries with the canonical form count of the
// locale, or with the declared count when the locale has none.
func (k *checker) pluralCount() {
	want := k.declared

	if k.loc != nil && k.loc.Canonical {
		want = k.loc.NPlurals

		if k.declared > 0 && k.declared != want {
			k.report(RulePluralCount, Warning, k.c.Header,
				"Plural-Forms declares %d forms, %s uses %d", k.declared, k.loc.Code, want)
		} else if n, differs := k.pluralRuleDiffers(); differs {
			k.report(RulePluralCount, Warning, k.c.Header,
				"Plural-Forms picks a different form than the %s rule for n=%d", k.loc.Code, n)
		}
	}

	if want == 0 {
		return
	}

	for e := range k.c.Active() {
		if e.IsPlural() && len(e.MsgStr) != want {
			k.report(RulePluralCount, Warning, e, "plural entry has %d forms, expected %d", len(e.MsgStr), want)
		}
	}
}

// pluralRuleDiffers evaluates the declared Plural-Forms expression next to
// the canonical rule and returns the first quantity they disagree on.
func (k *checker) pluralRuleDiffers() (int, bool) {
	pf, ok := k.c.HeaderField(catalog.FieldPluralForms)
	if !ok {
		return 0, false
	}

	declared, err := k.loc.WithPluralForms(pf)
	if err != nil {
		return 0, false
	}

	for n := range pluralCompareLimit {
		if declared.Plural(n) != k.loc.Plural(n) {
			return n, true
		}
	}

	return 0, false
}

func (k *checker) emptyMsgstr(rule Rule, e *catalog.Entry) {
	sev := Warning
	if k.opts.Strict {
		sev = Error
	}

	switch {
	case e.IsEmpty():
		k.report(rule, sev, e, "untranslated entry")
	case !e.IsTranslated():
		k.report(rule, sev, e, "plural entry has empty forms")
	}
}

func (k *checker) fuzzy(rule Rule, e *catalog.Entry) {
	if e.IsFuzzy() {
		k.report(rule, Warning, e, "entry is marked fuzzy")
	}
}

func (k *checker) formatParity(rule Rule, e *catalog.Entry) {
	if !isFormatEntry(e) {
		return
	}

	for i, s := range e.MsgStr {
		if s == "" {
			continue
		}

		var ok bool

		if e.IsPlural() {
			// The first form may follow either source string.
			ok = catalog.SameSpecifiers(e.MsgIDPlural, s) || (i == 0 && catalog.SameSpecifiers(e.MsgID, s))
		} else {
			ok = catalog.SameSpecifiers(e.MsgID, s)
		}

		if !ok {
			ref := e.MsgID
			if e.IsPlural() && i > 0 {
				ref = e.MsgIDPlural
			}

			k.report(rule, Error, e, "format specifiers differ in msgstr[%d]: msgid has %v, msgstr has %v",
				i, catalog.FormatSpecifiers(ref), catalog.FormatSpecifiers(s))
		}
	}
}

// isFormatEntry reports whether e is flagged, or looks like, a format
// string. An explicit "no-*-format" flag wins over inference.
func isFormatEntry(e *catalog.Entry) bool {
	if e.IsFormat() {
		return true
	}

	for _, f := range e.Flags {
		if strings.HasPrefix(f, "no-") && strings.HasSuffix(f, "-format") {
			return false
		}
	}

	return catalog.HasFormatSpecifiers(e.MsgID) || catalog.HasFormatSpecifiers(e.MsgIDPlural)
}

func (k *checker) duplicates() {
	seen := make(map[string]int)

	for e := range k.c.Active() {
		key := e.Key()

		if first, ok := seen[key]; ok {
			k.report(RuleDuplicate, Error, e, "duplicate msgid, first defined on line %d", first)

			continue
		}

		seen[key] = e.Line
	}
}

func (k *checker) mojibake(rule Rule, e *catalog.Entry) {
	for i, s := range e.MsgStr {
		if merge.HasMojibake(s) {
			k.report(rule, Error, e, "msgstr[%d] looks double-encoded", i)
		}
	}
}

// isBidiControl matches the embedding, override and isolate controls.
func isBidiControl(r rune) bool {
	return (r >= '\u202A' && r <= '\u202E') || (r >= '\u2066' && r <= '\u2069')
}

func (k *checker) bidi(rule Rule, e *catalog.Entry) {
	for i, s := range e.MsgStr {
		if j := strings.IndexFunc(s, isBidiControl); j >= 0 {
			r, _ := utf8.DecodeRuneInString(s[j:])
			k.report(rule, Error, e, "msgstr[%d] contains bidirectional control U+%04X", i, r)
		}
	}
}

// isRTLLetter matches letters of the right-to-left scripts.
func isRTLLetter(r rune) bool {
	return unicode.In(r, unicode.Arabic, unicode.Hebrew, unicode.Syriac, unicode.Thaana, unicode.Nko)
}

// isDirectionMark matches the implicit direction marks: LRM, RLM and ALM.
func isDirectionMark(r rune) bool {
	return r == '\u200E' || r == '\u200F' || r == '\u061C'
}

// rtlScript checks translations for right-to-left locales: text with letters
// but none from a right-to-left script is probably untranslated, and
// direction marks are reported for review.
func (k *checker) rtlScript(rule Rule, e *catalog.Entry) {
	if k.loc == nil || k.loc.Direction != locale.RTL {
		return
	}

	for i, s := range e.MsgStr {
		text := s
		for _, spec := range catalog.FormatSpecifiers(s) {
			text = strings.ReplaceAll(text, spec, "")
		}

		if strings.IndexFunc(text, unicode.IsLetter) >= 0 && strings.IndexFunc(text, isRTLLetter) < 0 {
			k.report(rule, Warning, e, "msgstr[%d] has no %s script characters", i, k.loc.Direction)
		}

		if j := strings.IndexFunc(s, isDirectionMark); j >= 0 {
			r, _ := utf8.DecodeRuneInString(s[j:])
			k.report(rule, Info, e, "msgstr[%d] contains direction mark U+%04X", i, r)
		}
	}
}

func (k *checker) whitespace(rule Rule, e *catalog.Entry) {
	for i, s := range e.MsgStr {
		if s == "" {
			continue
		}

		ref := e.MsgID
		if e.IsPlural() && i > 0 {
			ref = e.MsgIDPlural
		}

		if leading(ref) != leading(s) {
			k.report(rule, Info, e, "leading whitespace of msgstr[%d] differs from msgid", i)
		}

		if trailing(ref) != trailing(s) {
			k.report(rule, Info, e, "trailing whitespace of msgstr[%d] differs from msgid", i)
		}
	}
}

func leading(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)

	return s != "" && unicode.IsSpace(r)
}

func trailing(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)

	return s != "" && unicode.IsSpace(r)
}

func snippet(s string) string {
	s = strings.ReplaceAll(s, "\n", `\n`)
	if utf8.RuneCountInString(s) <= snippetWidth {
		return s
	}

	return string([]rune(s)[:snippetWidth-1]) + "…"
}
