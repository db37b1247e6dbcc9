// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"runtime/debug"
	"strings"
	"sync"
)

// BuildVersion is the latest tagged release of potool.
const BuildVersion string = "v0.4.0"

// Version returns the release followed by the VCS revision the binary was
// built from, for example "v0.4.0 (2025-06-01-1a2b3c4d+dirty)".
var Version = sync.OnceValue(func() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return BuildVersion + " (unknown)"
	}

	return BuildVersion + " (" + revision(info.Settings) + ")"
})

// revision renders "date-shortsha", with "+dirty" for modified trees, or
// "unknown" outside a VCS build.
func revision(settings []debug.BuildSetting) string {
	var sha, date string

	var dirty bool

	for _, kv := range settings {
		switch kv.Key {
		case "vcs.revision":
			sha = kv.Value
		case "vcs.time":
			date, _, _ = strings.Cut(kv.Value, "T")
		case "vcs.modified":
			dirty = kv.Value == "true"
		}
	}

	if len(sha) < 8 {
		return "unknown"
	}

	s := date + "-" + sha[:8]
	if dirty {
		s += "+dirty"
	}

	return s
}
