// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"
	"text/template"

	"github.com/leonelquinteros/gotext"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"codeberg.org/potool/potool/i18n/lrucache"
	"codeberg.org/potool/potool/locale"
)

// Defaults for [Options].
const (
	DefaultDomain = "messages"
	BaseLocale    = "en"
)

// templateCacheSize bounds the number of compiled message templates kept.
const templateCacheSize = 1024

// Options configures a [Bundle].
type Options struct {
	// Domain is the gettext domain catalogues are registered under.
	Domain string
	// Base is the source language. It is the matcher's fallback and is
	// never reported as missing.
	Base string
	// Strict wraps missing translations in "⟦...⟧" and logs each missing
	// key once per locale.
	Strict bool
	// Logger receives load and missing-key messages. Nil disables logging.
	Logger *zerolog.Logger
}

// Bundle holds loaded catalogues and the matcher that picks between them.
// A Bundle is safe for concurrent use once loaded.
type Bundle struct {
	domain string
	base   language.Tag
	strict bool
	log    zerolog.Logger

	// locales maps canonical BCP 47 tags, for example "pt-BR", to their
	// loaded gotext.Locale.
	locales   map[string]*gotext.Locale
	tags      []language.Tag
	supported []language.Tag
	matcher   language.Matcher

	// missing deduplicates missing-key warnings. The key is
	// locale+"\x00"+msgid.
	missing sync.Map
	// templates caches compiled templates per template text.
	templates *lrucache.Cache[*template.Template]
}

// New returns an empty bundle. Only the base language is matched until
// catalogues are added.
func New(opts Options) (*Bundle, error) {
	if opts.Domain == "" {
		opts.Domain = DefaultDomain
	}

	if opts.Base == "" {
		opts.Base = BaseLocale
	}

	base, err := locale.ParseTag(opts.Base)
	if err != nil {
		return nil, fmt.Errorf("base locale: %w", err)
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	templates, err := lrucache.New[*template.Template](templateCacheSize)
	if err != nil {
		return nil, err
	}

	b := &Bundle{
		domain:    opts.Domain,
		base:      base,
		strict:    opts.Strict,
		log:       logger.With().Str("sys", "i18n").Logger(),
		locales:   make(map[string]*gotext.Locale),
		templates: templates,
	}
	b.rebuildMatcher()

	return b, nil
}

// Load returns a bundle with every catalogue found directly under dir in
// fsys. The expected layout is:
//
//	<dir>/<locale>.po
//
// The <locale> part may use hyphens or underscores ("pt-BR.po", "pt_BR.po")
// and is normalised to a canonical BCP 47 tag. Templates (.pot) are ignored,
// and files whose name is not a language code are skipped with a warning.
func Load(fsys fs.FS, dir string, opts Options) (*Bundle, error) {
	b, err := New(opts)
	if err != nil {
		return nil, err
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".po" {
			continue
		}

		fileName := entry.Name()

		t, err := locale.ParseTag(strings.TrimSuffix(fileName, ".po"))
		if err != nil {
			b.log.Warn().Err(err).Str("file", fileName).Msg("Skipping invalid locale file")

			continue
		}

		po := gotext.NewPoFS(fsys)
		po.ParseFile(path.Join(dir, fileName))

		b.install(t, po)
	}

	b.rebuildMatcher()

	return b, nil
}

// Add registers a catalogue given as PO text for the locale code, replacing
// any catalogue already loaded for it.
func (b *Bundle) Add(code string, data []byte) error {
	t, err := locale.ParseTag(code)
	if err != nil {
		return err
	}

	po := gotext.NewPo()
	po.Parse(data)

	b.install(t, po)
	b.rebuildMatcher()

	return nil
}

func (b *Bundle) install(t language.Tag, po *gotext.Po) {
	canonical := t.String()

	// The base path is unused when translators are added by hand.
	loc := gotext.NewLocale("", canonical)
	loc.AddTranslator(b.domain, po)

	if _, ok := b.locales[canonical]; !ok {
		b.tags = append(b.tags, t)
	}

	b.locales[canonical] = loc

	b.log.Info().
		Str("locale", canonical).
		Str("domain", b.domain).
		Msg("Loaded locale")
}

// rebuildMatcher orders the base tag first, making it the fallback, and the
// loaded tags after it by canonical string.
func (b *Bundle) rebuildMatcher() {
	slices.SortFunc(b.tags, func(x, y language.Tag) int {
		return strings.Compare(x.String(), y.String())
	})

	all := make([]language.Tag, 0, len(b.tags)+1)
	all = append(all, b.base)

	for _, t := range b.tags {
		if t != b.base {
			all = append(all, t)
		}
	}

	b.matcher = language.NewMatcher(all)
	b.supported = all
}
