// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package merge implements catalogue maintenance: merging a fresh template
// into an existing translation, dropping obsolete entries, counting entry
// states and normalising text.
//
// Every function returns a new catalogue and leaves its arguments untouched.
package merge

import (
	"slices"

	"codeberg.org/potool/potool/catalog"
)

// MergeStats summarises a Merge.
type MergeStats struct {
	// Preserved counts incoming entries that matched a base entry.
	Preserved int
	// Added counts incoming entries new to the base.
	Added int
	// Obsoleted counts active base entries that incoming no longer has.
	Obsoleted int
}

// Merge updates base with the entries of incoming.
//
// Entries present in both keep the base translation, fuzzy flag and
// translator comments, and take their references, extracted comments and
// other flags from incoming. Entries only in incoming are added
// untranslated. Active entries only in base become obsolete. Obsolete base
// entries that reappear in incoming are restored.
//
// The result follows the order of incoming, followed by obsolete entries in
// base order. The base header is kept; incoming's header is used when base
// has none.
func Merge(base, incoming *catalog.Catalog) (*catalog.Catalog, MergeStats) {
	var stats MergeStats

	out := base.Clone()
	out.Entries = nil

	if out.Header == nil && incoming.Header != nil {
		out.Header = incoming.Header.Clone()
		out.Header.Forget()
	}

	active := make(map[string]*catalog.Entry, len(base.Entries))
	obsolete := make(map[string]*catalog.Entry)

	for _, e := range base.Entries {
		m := active
		if e.Obsolete {
			m = obsolete
		}

		if _, ok := m[e.Key()]; !ok {
			m[e.Key()] = e
		}
	}

	used := make(map[*catalog.Entry]bool)

	for in := range incoming.Active() {
		b, ok := active[in.Key()]
		if !ok {
			b, ok = obsolete[in.Key()]
		}

		if !ok || used[b] {
			out.Entries = append(out.Entries, untranslated(in))
			stats.Added++

			continue
		}

		used[b] = true

		out.Entries = append(out.Entries, carryForward(b, in))
		stats.Preserved++
	}

	for _, e := range base.Entries {
		if used[e] {
			continue
		}

		c := e.Clone()
		if !c.Obsolete {
			c.Obsolete = true
			c.Locations = nil
			stats.Obsoleted++
		}

		out.Entries = append(out.Entries, c)
	}

	return out, stats
}

// carryForward combines the translation state of b with the source
// metadata of in.
func carryForward(b, in *catalog.Entry) *catalog.Entry {
	e := b.Clone()
	e.Obsolete = false
	e.Locations = slices.Clone(in.Locations)
	e.ExtractedComments = slices.Clone(in.ExtractedComments)

	var flags []string
	if b.IsFuzzy() {
		flags = append(flags, catalog.FlagFuzzy)
	}

	for _, f := range in.Flags {
		if f != catalog.FlagFuzzy && !slices.Contains(flags, f) {
			flags = append(flags, f)
		}
	}

	e.Flags = flags

	if in.MsgIDPlural != b.MsgIDPlural {
		e.MsgIDPlural = in.MsgIDPlural
		e.MsgStr = reshape(b.MsgStr, len(in.MsgStr))

		if !b.IsEmpty() {
			e.SetFuzzy(true)
		}
	}

	return e
}

// reshape resizes msgstr to n forms, keeping the first form.
func reshape(msgstr []string, n int) []string {
	out := make([]string, max(n, 1))
	if len(msgstr) > 0 {
		out[0] = msgstr[0]
	}

	return out
}

// untranslated copies in with every msgstr emptied.
func untranslated(in *catalog.Entry) *catalog.Entry {
	e := in.Clone()
	e.Forget()
	e.MsgStr = make([]string, max(len(in.MsgStr), 1))
	e.RemoveFlag(catalog.FlagFuzzy)

	return e
}

// Clean returns c without its obsolete entries.
func Clean(c *catalog.Catalog) *catalog.Catalog {
	out := c.Clone()
	out.Entries = slices.DeleteFunc(out.Entries, func(e *catalog.Entry) bool { return e.Obsolete })

	return out
}
