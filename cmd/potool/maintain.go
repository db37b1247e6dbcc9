// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"codeberg.org/potool/potool/catalog"
	"codeberg.org/potool/potool/merge"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [flags] <base.po> <new.po>",
	Short: "Carry translations from a catalogue into a newer one",
	Long: `Merge keeps the translations of base for every msgid of new, adds the
msgids base lacks as untranslated and marks the rest of base obsolete.`,
	Args: cobra.ExactArgs(2),
	RunE: runMerge,
}

var cleanCmd = &cobra.Command{
	Use:   "clean [flags] <file.po>",
	Short: "Drop obsolete entries",
	Args:  cobra.ExactArgs(1),
	RunE:  runClean,
}

var statsCmd = &cobra.Command{
	Use:   "stats [flags] <file.po>",
	Short: "Count entries by state",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize [flags] <file.po>",
	Short: "Re-encode a catalogue as UTF-8, repair mojibake and rewrap",
	Args:  cobra.ExactArgs(1),
	RunE:  runNormalize,
}

func init() {
	for _, c := range []*cobra.Command{mergeCmd, cleanCmd, normalizeCmd} {
		c.Flags().StringP("output", "o", "", "output file (default stdout)")
	}

	statsCmd.Flags().Bool("json", false, "print JSON")
}

func runMerge(cmd *cobra.Command, args []string) error {
	base, err := readCatalog(args[0])
	if err != nil {
		return err
	}

	incoming, err := readCatalog(args[1])
	if err != nil {
		return err
	}

	out, stats := merge.Merge(base, incoming)

	log.Info().
		Int("preserved", stats.Preserved).
		Int("added", stats.Added).
		Int("obsoleted", stats.Obsoleted).
		Msg("Merged catalogues")

	output, _ := cmd.Flags().GetString("output")

	return writeCatalog(cmd.OutOrStdout(), out, output)
}

func runClean(cmd *cobra.Command, args []string) error {
	c, err := readCatalog(args[0])
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")

	return writeCatalog(cmd.OutOrStdout(), merge.Clean(c), output)
}

func runStats(cmd *cobra.Command, args []string) error {
	c, err := readCatalog(args[0])
	if err != nil {
		return err
	}

	s := merge.Count(c)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(cmd.OutOrStdout(), s)
	}

	fmt.Fprintf(cmd.OutOrStdout(),
		"%d translated, %d fuzzy, %d untranslated, %d obsolete (%.1f%% of %d)\n",
		s.Translated, s.Fuzzy, s.Untranslated, s.Obsolete, s.Percent, s.Total)

	return nil
}

func runNormalize(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0]) // #nosec G304 -- user-supplied catalogue path
	if err != nil {
		return fmt.Errorf("failed to read catalogue: %w", err)
	}

	data, charset, err := catalog.DecodeLegacy(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	c, err := catalog.Parse(data)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	log.Debug().Str("path", args[0]).Str("charset", charset).Msg("Decoded catalogue")

	output, _ := cmd.Flags().GetString("output")

	return writeCatalog(cmd.OutOrStdout(), merge.Normalize(c), output)
}
