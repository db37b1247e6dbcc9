// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package coverage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	barWidth     = 30
	msgidColumns = 48
)

// WriteJSON writes the machine-readable report.
func (r Result) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)

	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding coverage report: %w", err)
	}

	return nil
}

// WriteCSV writes one row per occurrence of a missing msgid, under the
// header location,line,source_type,msgid. Newlines in msgids are escaped as
// "\n" so every row stays on one line.
func (r Result) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"location", "line", "source_type", "msgid"}); err != nil {
		return fmt.Errorf("writing coverage report: %w", err)
	}

	for _, m := range r.Missing {
		for _, loc := range m.Locations {
			file, line := splitLocation(loc)

			row := []string{file, line, string(r.dialects[file]), oneLine(m.MsgID)}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing coverage report: %w", err)
			}
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing coverage report: %w", err)
	}

	return nil
}

// splitLocation splits "file:line" at its last colon. Locations without a
// numeric line keep the whole text as the file.
func splitLocation(loc string) (string, string) {
	i := strings.LastIndexByte(loc, ':')
	if i < 0 {
		return loc, ""
	}

	if _, err := strconv.Atoi(loc[i+1:]); err != nil {
		return loc, ""
	}

	return loc[:i], loc[i+1:]
}

// WriteText writes the human-readable report. Long msgids are cut to a
// fixed display width.
func (r Result) WriteText(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Coverage: %5.1f%% %s %d/%d translated\n",
		r.CoveragePct, bar(r.CoveragePct), r.Translated, r.Total)

	if len(r.Missing) > 0 {
		fmt.Fprintf(&b, "\nMissing (%d):\n", len(r.Missing))

		for _, m := range r.Missing {
			fmt.Fprintf(&b, "  %s  %s\n", column(m.MsgID), strings.Join(m.Locations, ", "))
		}
	}

	if len(r.Obsolete) > 0 {
		fmt.Fprintf(&b, "\nObsolete (%d):\n", len(r.Obsolete))

		for _, id := range r.Obsolete {
			fmt.Fprintf(&b, "  %s\n", oneLine(id))
		}
	}

	if r.BelowThreshold {
		fmt.Fprintf(&b, "\nBelow threshold: %.1f%% < %.1f%%\n", r.CoveragePct, r.MinPct)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing coverage report: %w", err)
	}

	return nil
}

func bar(pct float64) string {
	filled := min(max(int(pct*barWidth/100), 0), barWidth)

	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled) + "]"
}

// column truncates and pads s to msgidColumns display cells.
func column(s string) string {
	s = runewidth.Truncate(oneLine(s), msgidColumns, "…")

	return runewidth.FillRight(s, msgidColumns)
}

func oneLine(s string) string {
	return strings.ReplaceAll(s, "\n", `\n`)
}
