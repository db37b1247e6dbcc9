// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package scan walks a source tree and runs the extractor for each file's
// dialect, merging the results in a deterministic order.
package scan

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"path"
	"runtime"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"codeberg.org/potool/potool/extract"
)

var errNoExtractor = errors.New("no extractor configured for dialect")

// DefaultExclude lists directories that are never descended into: version
// control and dependency caches, test suites and vendored web assets.
var DefaultExclude = []string{
	".git", ".hg", ".svn", "node_modules", "__pycache__", ".venv", "venv",
	"tests", "static/lib", "static/tests",
}

// Options controls a scan.
type Options struct {
	// Extensions maps lower-case file extensions, including the dot, to a
	// dialect. Files with other extensions are ignored.
	Extensions map[string]extract.Dialect

	// Extractors holds one extractor per dialect.
	Extractors map[extract.Dialect]extract.Extractor

	// Exclude lists directories to skip. A plain name matches a directory of
	// that name anywhere; an entry with a slash matches the trailing
	// components of the directory path.
	Exclude []string

	// Workers bounds concurrent extraction. Zero means GOMAXPROCS.
	Workers int

	// Logger receives scan warnings. Nil disables logging.
	Logger *zerolog.Logger
}

// DefaultOptions returns options with the default extension map and
// extractors for every dialect.
func DefaultOptions() Options {
	return Options{
		Extensions: map[string]extract.Dialect{
			".py":  extract.Script,
			".xml": extract.Markup,
			".js":  extract.Variant,
			".mjs": extract.Variant,
		},
		Extractors: map[extract.Dialect]extract.Extractor{
			extract.Script:  extract.NewScript(nil),
			extract.Markup:  extract.NewMarkup(extract.MarkupOptions{}),
			extract.Variant: extract.NewVariant(nil),
		},
		Exclude: DefaultExclude,
	}
}

// DialectFor classifies p by its extension.
func (o Options) DialectFor(p string) (extract.Dialect, bool) {
	d, ok := o.Extensions[strings.ToLower(path.Ext(p))]

	return d, ok
}

// excludes reports whether the directory at slash-separated path p matches
// an Exclude entry.
func (o Options) excludes(p string) bool {
	for _, pattern := range o.Exclude {
		pattern = strings.Trim(pattern, "/")
		if pattern == "" {
			continue
		}

		if p == pattern || strings.HasSuffix(p, "/"+pattern) {
			return true
		}
	}

	return false
}

func (o Options) logger() zerolog.Logger {
	if o.Logger == nil {
		return zerolog.Nop()
	}

	return *o.Logger
}

// File is the already-read content of one source file. Path uses forward
// slashes and is reported verbatim in literal locations.
type File struct {
	Path    string
	Content []byte
}

// Inventory is the result of a scan.
type Inventory struct {
	// Literals are sorted by file, line and span start.
	Literals []extract.Literal
	Warnings []extract.Warning

	// Files lists every file that was handed to an extractor, sorted.
	Files []string
}

// All yields the literals in order.
func (inv *Inventory) All() iter.Seq[extract.Literal] {
	return slices.Values(inv.Literals)
}

// Scan walks fsys, reads every file whose extension maps to a dialect and
// extracts its literals. Unreadable files produce a warning; only walk
// failures and cancellation are returned as errors.
func Scan(ctx context.Context, fsys fs.FS, opts Options) (*Inventory, error) {
	var (
		files []File
		warns []extract.Warning
	)

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if d.IsDir() {
			if p != "." && opts.excludes(p) {
				return fs.SkipDir
			}

			return nil
		}

		if _, ok := opts.DialectFor(p); !ok || !d.Type().IsRegular() {
			return nil
		}

		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			warns = append(warns, extract.Warning{File: p, Message: fmt.Sprintf("cannot read file: %v", err)})

			return nil
		}

		files = append(files, File{Path: p, Content: content})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking source tree: %w", err)
	}

	inv, err := ScanFiles(ctx, files, opts)
	if err != nil {
		return nil, err
	}

	if len(warns) > 0 {
		log := opts.logger()
		for _, w := range warns {
			log.Warn().Str("file", w.File).Msg(w.Message)
		}

		inv.Warnings = append(warns, inv.Warnings...)
		slices.SortStableFunc(inv.Warnings, compareWarnings)
	}

	return inv, nil
}

type fileResult struct {
	literals []extract.Literal
	warnings []extract.Warning
	scanned  bool
}

// ScanFiles extracts literals from already-read files on a bounded worker
// pool. Files that are not valid UTF-8 are skipped with one warning.
func ScanFiles(ctx context.Context, files []File, opts Options) (*Inventory, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	log := opts.logger()

	extractors := make([]extract.Extractor, len(files))

	for i, f := range files {
		d, ok := opts.DialectFor(f.Path)
		if !ok {
			continue
		}

		x, ok := opts.Extractors[d]
		if !ok {
			return nil, fmt.Errorf("%w %q (file %s)", errNoExtractor, d, f.Path)
		}

		extractors[i] = x
	}

	// Each task writes only its own slot.
	results := make([]fileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(workers, len(files))))

	for i, f := range files {
		if gctx.Err() != nil {
			break
		}

		x := extractors[i]
		if x == nil {
			continue
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			if !utf8.Valid(f.Content) {
				results[i] = fileResult{warnings: []extract.Warning{{
					File:    f.Path,
					Message: "file is not valid UTF-8; skipped",
				}}}

				return nil
			}

			lits, warns := x.Extract(f.Path, f.Content)
			results[i] = fileResult{literals: lits, warnings: warns, scanned: true}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	inv := &Inventory{}

	for i, r := range results {
		if r.scanned {
			inv.Files = append(inv.Files, files[i].Path)
		}

		inv.Literals = append(inv.Literals, r.literals...)
		inv.Warnings = append(inv.Warnings, r.warnings...)
	}

	slices.SortStableFunc(inv.Literals, func(a, b extract.Literal) int {
		return cmp.Or(
			cmp.Compare(a.File, b.File),
			cmp.Compare(a.Line, b.Line),
			cmp.Compare(a.Span.Start, b.Span.Start),
		)
	})
	slices.SortStableFunc(inv.Warnings, compareWarnings)
	slices.Sort(inv.Files)

	for _, w := range inv.Warnings {
		log.Warn().Str("file", w.File).Int("line", w.Line).Msg(w.Message)
	}

	log.Debug().
		Int("files", len(inv.Files)).
		Int("literals", len(inv.Literals)).
		Int("warnings", len(inv.Warnings)).
		Msg("Scan finished")

	return inv, nil
}

func compareWarnings(a, b extract.Warning) int {
	return cmp.Or(cmp.Compare(a.File, b.File), cmp.Compare(a.Line, b.Line))
}
