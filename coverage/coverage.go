// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package coverage compares scanned literals with a catalogue.
//
// [Compute] produces one [Result]; the text, JSON and CSV renderings are
// all derived from it.
package coverage

import (
	"iter"

	"codeberg.org/potool/potool/builder"
	"codeberg.org/potool/potool/catalog"
	"codeberg.org/potool/potool/extract"
	"codeberg.org/potool/potool/merge"
)

// Missing is a scanned msgid without a usable translation.
type Missing struct {
	MsgID     string   `json:"msgid"`
	Locations []string `json:"locations"`
}

// Result is the outcome of a coverage run.
//
// Translated counts msgids with a complete, non-fuzzy translation; every
// other scanned msgid is listed in Missing, so Translated+len(Missing) is
// always Total. Obsolete lists active catalogue msgids that no longer
// appear in the sources.
type Result struct {
	Total       int       `json:"total"`
	Translated  int       `json:"translated"`
	CoveragePct float64   `json:"coverage_pct"`
	Missing     []Missing `json:"missing"`
	Obsolete    []string  `json:"obsolete"`

	MinPct         float64 `json:"-"`
	BelowThreshold bool    `json:"-"`

	// dialects maps scanned files to the dialect they were read as.
	dialects map[string]extract.Dialect
}

// Compute folds lits by text and looks every msgid up in c. The result is
// below threshold when its percentage is lower than minPct. An empty
// inventory is fully covered.
func Compute(lits iter.Seq[extract.Literal], c *catalog.Catalog, minPct float64) Result {
	r := Result{
		Missing:  []Missing{},
		Obsolete: []string{},
		MinPct:   minPct,
		dialects: make(map[string]extract.Dialect),
	}

	scanned := make(map[string]bool)

	record := func(yield func(extract.Literal) bool) {
		for l := range lits {
			r.dialects[l.File] = l.Dialect

			if !yield(l) {
				return
			}
		}
	}

	for _, e := range builder.Fold(record) {
		scanned[e.MsgID] = true
		r.Total++

		if t := c.Lookup(e.MsgID); t != nil && t.IsTranslated() && !t.IsFuzzy() {
			r.Translated++

			continue
		}

		r.Missing = append(r.Missing, Missing{MsgID: e.MsgID, Locations: e.Locations})
	}

	seen := make(map[string]bool)

	for e := range c.Active() {
		if scanned[e.MsgID] || seen[e.MsgID] {
			continue
		}

		seen[e.MsgID] = true
		r.Obsolete = append(r.Obsolete, e.MsgID)
	}

	r.CoveragePct = merge.Percent(r.Translated, r.Total)
	r.BelowThreshold = r.CoveragePct < minPct

	return r
}
