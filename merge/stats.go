// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package merge

import (
	"math"

	"codeberg.org/potool/potool/catalog"
)

// Stats counts entries by state. Each entry falls into exactly one state,
// checked in the order obsolete, fuzzy, translated, untranslated. The header
// is not counted.
type Stats struct {
	Translated   int `json:"translated"`
	Untranslated int `json:"untranslated"`
	Fuzzy        int `json:"fuzzy"`
	Obsolete     int `json:"obsolete"`

	// Total counts the entries that are not obsolete.
	Total int `json:"total"`
	// Percent is Translated/Total rounded to one decimal, 100 when Total is 0.
	Percent float64 `json:"percent"`
}

// Count computes the statistics of c.
func Count(c *catalog.Catalog) Stats {
	var s Stats

	for _, e := range c.Entries {
		switch {
		case e.Obsolete:
			s.Obsolete++
		case e.IsFuzzy():
			s.Fuzzy++
		case e.IsTranslated():
			s.Translated++
		default:
			s.Untranslated++
		}
	}

	s.Total = s.Translated + s.Untranslated + s.Fuzzy
	s.Percent = Percent(s.Translated, s.Total)

	return s
}

// Percent returns part/total as a percentage rounded to one decimal. An
// empty total counts as complete.
func Percent(part, total int) float64 {
	if total == 0 {
		return 100
	}

	return math.Round(float64(part)*1000/float64(total)) / 10
}
