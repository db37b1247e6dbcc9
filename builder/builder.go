// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package builder turns scanned literals into catalogues: a template with
// empty translations, or a catalogue for one locale that keeps the
// translations of an existing one.
package builder

import (
	"iter"
	"slices"
	"time"

	"codeberg.org/potool/potool/catalog"
	"codeberg.org/potool/potool/extract"
	"codeberg.org/potool/potool/locale"
	"codeberg.org/potool/potool/merge"
)

// Header placeholders written into templates, as xgettext does.
const (
	PlaceholderProject    = "PACKAGE VERSION"
	PlaceholderDate       = "YEAR-MO-DA HO:MI+ZONE"
	PlaceholderTranslator = "FULL NAME <EMAIL@ADDRESS>"
	PlaceholderTeam       = "LANGUAGE <LL@li.org>"
	PlaceholderCharset    = "text/plain; charset=CHARSET"
	PlaceholderPlural     = "nplurals=INTEGER; plural=EXPRESSION;"
)

// DateLayout is the gettext header timestamp format.
const DateLayout = "2006-01-02 15:04-0700"

// Options fills the generated header.
type Options struct {
	// Project is the Project-Id-Version value.
	Project string
	// BugsTo is the Report-Msgid-Bugs-To value.
	BugsTo string
	// Translator and Team fill Last-Translator and Language-Team in
	// locale catalogues.
	Translator string
	Team       string

	// Now returns the creation time. Nil means time.Now.
	Now func() time.Time
}

func (o Options) now() string {
	if o.Now == nil {
		return time.Now().Format(DateLayout)
	}

	return o.Now().Format(DateLayout)
}

// Fold groups literals by text in order of first appearance. Each entry's
// references are the union of the literal locations, in scan order, and its
// flags the union of the inferred format flags.
func Fold(lits iter.Seq[extract.Literal]) []*catalog.Entry {
	var entries []*catalog.Entry

	byText := make(map[string]*catalog.Entry)

	for l := range lits {
		e, ok := byText[l.Text]
		if !ok {
			e = catalog.NewEntry(l.Text)
			byText[l.Text] = e
			entries = append(entries, e)
		}

		if loc := l.Location(); !slices.Contains(e.Locations, loc) {
			e.Locations = append(e.Locations, loc)
		}

		for _, f := range l.Flags {
			e.AddFlag(f)
		}
	}

	return entries
}

// Template builds a template catalogue from literals.
func Template(lits iter.Seq[extract.Literal], opts Options) *catalog.Catalog {
	c := catalog.New()

	project := opts.Project
	if project == "" {
		project = PlaceholderProject
	}

	c.Header = catalog.NewHeader([]catalog.HeaderField{
		{Name: catalog.FieldProjectID, Value: project},
		{Name: catalog.FieldReportBugsTo, Value: opts.BugsTo},
		{Name: catalog.FieldCreationDate, Value: opts.now()},
		{Name: catalog.FieldRevisionDate, Value: PlaceholderDate},
		{Name: catalog.FieldLastTranslator, Value: PlaceholderTranslator},
		{Name: catalog.FieldLanguageTeam, Value: PlaceholderTeam},
		{Name: catalog.FieldLanguage, Value: ""},
		{Name: catalog.FieldMIMEVersion, Value: "1.0"},
		{Name: catalog.FieldContentType, Value: PlaceholderCharset},
		{Name: catalog.FieldTransferEncoding, Value: "8bit"},
		{Name: catalog.FieldPluralForms, Value: PlaceholderPlural},
	})
	c.Header.TranslatorComments = []string{
		"SOME DESCRIPTIVE TITLE.",
		"This file is distributed under the same license as the " + project + " package.",
	}
	c.Header.SetFuzzy(true)

	c.Entries = Fold(lits)

	return c
}

// Build produces the catalogue for loc. When existing is nil a fresh
// catalogue is created; otherwise the template is merged into existing,
// keeping its translations and marking vanished entries obsolete.
func Build(lits iter.Seq[extract.Literal], existing *catalog.Catalog, loc locale.Locale, opts Options) (*catalog.Catalog, merge.MergeStats) {
	tmpl := Template(lits, opts)

	if existing == nil {
		c := catalog.New()
		c.Header = catalog.NewHeader(localeHeader(tmpl, loc, opts))

		var stats merge.MergeStats

		for _, e := range tmpl.Entries {
			c.Add(e)
			stats.Added++
		}

		return c, stats
	}

	c, stats := merge.Merge(existing, tmpl)

	creation, _ := tmpl.HeaderField(catalog.FieldCreationDate)
	c.SetHeaderField(catalog.FieldCreationDate, creation)

	if v, ok := c.HeaderField(catalog.FieldLanguage); !ok || v == "" {
		c.SetHeaderField(catalog.FieldLanguage, loc.Code)
	}

	if v, ok := c.HeaderField(catalog.FieldPluralForms); !ok || v == "" || v == PlaceholderPlural {
		c.SetHeaderField(catalog.FieldPluralForms, loc.PluralForms())
	}

	if v, ok := c.HeaderField(catalog.FieldContentType); !ok || v == PlaceholderCharset {
		c.SetHeaderField(catalog.FieldContentType, "text/plain; charset=UTF-8")
	}

	return c, stats
}

// localeHeader derives the header of a new locale catalogue from the
// template header.
func localeHeader(tmpl *catalog.Catalog, loc locale.Locale, opts Options) []catalog.HeaderField {
	fields := tmpl.HeaderFields()

	for i, f := range fields {
		switch f.Name {
		case catalog.FieldRevisionDate:
			fields[i].Value = opts.now()
		case catalog.FieldLastTranslator:
			if opts.Translator != "" {
				fields[i].Value = opts.Translator
			}
		case catalog.FieldLanguageTeam:
			if opts.Team != "" {
				fields[i].Value = opts.Team
			}
		case catalog.FieldLanguage:
			fields[i].Value = loc.Code
		case catalog.FieldContentType:
			fields[i].Value = "text/plain; charset=UTF-8"
		case catalog.FieldPluralForms:
			fields[i].Value = loc.PluralForms()
		}
	}

	return fields
}
