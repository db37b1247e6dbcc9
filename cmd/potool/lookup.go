// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"codeberg.org/potool/potool/i18n"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [flags] <dir> <msgid>",
	Short: "Show what a gettext runtime returns for a msgid",
	Long: `Lookup loads every <locale>.po in dir and prints the translation a
gettext runtime would pick for --lang.`,
	Args: cobra.ExactArgs(2),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().String("lang", "", "preferred language, a locale code or Accept-Language value")
	lookupCmd.Flags().String("context", "", "msgctxt")
	lookupCmd.Flags().String("plural", "", "msgid_plural; enables plural lookup")
	lookupCmd.Flags().IntP("count", "n", 1, "quantity for plural lookup")
	lookupCmd.Flags().Bool("strict", false, "mark missing translations")
	_ = lookupCmd.MarkFlagRequired("lang")
}

func runLookup(cmd *cobra.Command, args []string) error {
	opts := cfg.I18nOptions()

	if strict, _ := cmd.Flags().GetBool("strict"); strict {
		opts.Strict = true
	}

	b, err := i18n.Load(os.DirFS(args[0]), ".", opts)
	if err != nil {
		return err
	}

	lang, _ := cmd.Flags().GetString("lang")
	ctxKey, _ := cmd.Flags().GetString("context")
	plural, _ := cmd.Flags().GetString("plural")
	n, _ := cmd.Flags().GetInt("count")

	tag := b.Match(lang)
	ctx := i18n.WithTag(cmd.Context(), tag)
	msgid := args[1]

	var out string

	switch {
	case plural != "":
		out = b.TrNC(ctx, ctxKey, msgid, plural, n, "Count", n)
	case ctxKey != "":
		out = b.TrC(ctx, ctxKey, msgid)
	default:
		out = b.Tr(ctx, msgid)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", tag, out)

	return nil
}
