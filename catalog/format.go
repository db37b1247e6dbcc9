// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"regexp"
	"slices"
)

// specifierPattern matches printf-style conversions, with an optional
// "(name)" mapping key. "%%" is matched so it can be skipped. The space flag
// is not accepted, so prose such as "50% off" holds no specifier.
var specifierPattern = regexp.MustCompile(`%%|%(?:\([^)]*\))?[-+#0]*(?:\d+|\*)?(?:\.(?:\d+|\*))?[sdifrxXeEgGcoubaj]`)

// inferPattern is the narrower set used to guess that untagged text is a
// format string: a mapping key, or one of the common s, d, i, f and r
// conversions.
var inferPattern = regexp.MustCompile(`%%|%(?:\([^)]+\)[-+#0]*\d*(?:\.\d+)?[sdifrxXeEgGcoa]|[-+#0]*\d*(?:\.\d+)?[sdifr])`)

// FormatSpecifiers returns the conversion specifiers of s in order of
// appearance, excluding literal "%%".
func FormatSpecifiers(s string) []string {
	var specs []string

	for _, m := range specifierPattern.FindAllString(s, -1) {
		if m != "%%" {
			specs = append(specs, m)
		}
	}

	return specs
}

// HasFormatSpecifiers reports whether s looks like a format string. It is
// stricter than [FormatSpecifiers] and is meant for entries that carry no
// format flag.
func HasFormatSpecifiers(s string) bool {
	for _, m := range inferPattern.FindAllString(s, -1) {
		if m != "%%" {
			return true
		}
	}

	return false
}

// SameSpecifiers reports whether a and b hold the same multiset of
// specifiers.
func SameSpecifiers(a, b string) bool {
	sa, sb := FormatSpecifiers(a), FormatSpecifiers(b)
	if len(sa) != len(sb) {
		return false
	}

	slices.Sort(sa)
	slices.Sort(sb)

	return slices.Equal(sa, sb)
}
