// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command potool extracts translatable strings from a source tree and
// maintains, validates and reports on the gettext catalogues for them.
//
// Every command exits with status 1 when it fails or when its check does not
// pass, and 0 otherwise.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	config "codeberg.org/potool/potool/configs"
	"codeberg.org/potool/potool/core/audit"
)

// errCheckFailed is returned by commands whose check did not pass. The
// findings have already been printed.
var errCheckFailed = errors.New("check failed")

var errBadColorMode = errors.New("invalid --color value, want auto, on or off")

// cfg is loaded before any subcommand runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:           "potool",
	Short:         "Extract, maintain and check gettext catalogues",
	Long:          `potool scans script, markup and variant sources for translatable literals and keeps the gettext catalogues for them in shape.`,
	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		flags := cmd.Root().PersistentFlags()

		configPath, _ := flags.GetString("config")
		if err := cfg.LoadConfig(configPath); err != nil {
			return err
		}

		if level, _ := flags.GetString("log-level"); level != "" {
			cfg.Log.Level = level
		}

		cfg.SetupLogging()

		mode, _ := flags.GetString("color")

		switch mode {
		case "auto":
		case "on":
			color.NoColor = false
		case "off":
			color.NoColor = true
		default:
			return errBadColorMode
		}

		return nil
	},
}

func main() {
	audit.SetDefaultLogger()

	rootCmd.Version = config.Version()

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(coverageCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(normalizeCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(configCmd)

	rootCmd.PersistentFlags().String("config", "", "path to a potool.yaml or potool.toml file")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()

	os.Exit(exitCode(err))
}

// exitCode maps a command result to the process status, reporting errors
// that have not been printed yet.
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	if !errors.Is(err, errCheckFailed) {
		log.Error().Err(err).Msg("potool failed")
		fmt.Fprintln(os.Stderr, "Run 'potool --help' for usage.")
	}

	return 1
}
