// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const logFilePermissions = 0o666

// SetupLogging installs the global logger for the configured level, outputs
// and format. Outputs that cannot be opened are reported through the new
// logger and skipped.
func (cfg *Config) SetupLogging() {
	zerolog.SetGlobalLevel(cfg.LogLevel())

	outputs := cfg.Log.Outputs
	if len(outputs) == 0 {
		outputs = []string{"/dev/stderr"}
	}

	var (
		writers []io.Writer
		failed  = map[string]error{}
	)

	for _, name := range outputs {
		f, err := openLogOutput(name)
		if err != nil {
			failed[name] = err

			continue
		}

		writers = append(writers, cfg.writerFor(f))
	}

	if len(writers) == 0 {
		writers = append(writers, cfg.writerFor(os.Stderr))
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()

	for name, err := range failed {
		log.Warn().Err(err).Str("path", name).Msg("Failed to open log output")
	}
}

// openLogOutput resolves the standard stream aliases and opens anything else
// as a file in append mode.
func openLogOutput(name string) (*os.File, error) {
	switch name {
	case "/dev/stdout", "-":
		return os.Stdout, nil
	case "/dev/stderr":
		return os.Stderr, nil
	}

	return os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermissions) // #nosec:G302,G304
}

func (cfg *Config) writerFor(f *os.File) io.Writer {
	if cfg.Log.Format == "json" {
		return f
	}

	return ConsoleWriter(f)
}

// ConsoleWriter returns a human-readable zerolog writer for f, coloured only
// when f is a terminal. Scan warnings are printed as "file:line: message".
func ConsoleWriter(f *os.File) io.Writer {
	return zerolog.ConsoleWriter{
		Out:           f,
		NoColor:       !isatty.IsTerminal(f.Fd()),
		TimeFormat:    time.TimeOnly,
		FormatPrepare: prefixLocation,
	}
}

func prefixLocation(m map[string]any) error {
	if m["sys"] != "scan" {
		return nil
	}

	if file, ok := m["file"]; ok {
		m[zerolog.MessageFieldName] = fmt.Sprintf("%v:%v: %v", file, m["line"], m[zerolog.MessageFieldName])
		delete(m, "file")
		delete(m, "line")
	}

	return nil
}
