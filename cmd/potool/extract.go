// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"codeberg.org/potool/potool/builder"
	"codeberg.org/potool/potool/locale"
	"codeberg.org/potool/potool/scan"
)

var extractCmd = &cobra.Command{
	Use:   "extract [flags] <root>",
	Short: "Write a template catalogue (.pot) for a source tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

var buildCmd = &cobra.Command{
	Use:   "build [flags] <root>",
	Short: "Create or update the catalogue of one locale",
	Long: `Build scans the tree and writes the catalogue for --lang. When the output
file already exists its translations are kept and vanished entries are
marked obsolete.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	extractCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	extractCmd.Flags().Int("jobs", 0, "max parallel workers (0=config or auto)")

	buildCmd.Flags().StringP("output", "o", "", "catalogue to update (default stdout)")
	buildCmd.Flags().String("lang", "", "target locale, for example fr or pt_BR")
	buildCmd.Flags().Int("jobs", 0, "max parallel workers (0=config or auto)")
	_ = buildCmd.MarkFlagRequired("lang")
}

func scanTree(ctx context.Context, cmd *cobra.Command, root string) (*scan.Inventory, error) {
	opts := cfg.ScanOptions()

	if jobs, _ := cmd.Flags().GetInt("jobs"); jobs > 0 {
		opts.Workers = jobs
	}

	inv, err := scan.Scan(ctx, os.DirFS(root), opts)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("root", root).
		Int("files", len(inv.Files)).
		Int("literals", len(inv.Literals)).
		Int("warnings", len(inv.Warnings)).
		Msg("Scanned source tree")

	return inv, nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	inv, err := scanTree(cmd.Context(), cmd, args[0])
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")

	return writeCatalog(cmd.OutOrStdout(), builder.Template(inv.All(), cfg.BuilderOptions()), output)
}

func runBuild(cmd *cobra.Command, args []string) error {
	lang, _ := cmd.Flags().GetString("lang")
	output, _ := cmd.Flags().GetString("output")

	loc, err := locale.Lookup(lang)
	if err != nil {
		return err
	}

	existing, err := readCatalogIfExists(output)
	if err != nil {
		return err
	}

	inv, err := scanTree(cmd.Context(), cmd, args[0])
	if err != nil {
		return err
	}

	c, stats := builder.Build(inv.All(), existing, loc, cfg.BuilderOptions())

	log.Info().
		Str("locale", loc.Code).
		Int("preserved", stats.Preserved).
		Int("added", stats.Added).
		Int("obsoleted", stats.Obsoleted).
		Msg("Built catalogue")

	return writeCatalog(cmd.OutOrStdout(), c, output)
}
