// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	"codeberg.org/potool/potool/catalog"
)

const outputPerm = 0o644

// readCatalog parses the catalogue at path.
func readCatalog(path string) (*catalog.Catalog, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-supplied catalogue path
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue: %w", err)
	}

	c, err := catalog.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return c, nil
}

// readCatalogIfExists is readCatalog, returning nil for a missing file.
func readCatalogIfExists(path string) (*catalog.Catalog, error) {
	if path == "" || path == "-" {
		return nil, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	return readCatalog(path)
}

// writeCatalog writes c to path, or to w when path is empty or "-".
func writeCatalog(w io.Writer, c *catalog.Catalog, path string) error {
	if path == "" || path == "-" {
		if _, err := c.WriteTo(w); err != nil {
			return fmt.Errorf("failed to write catalogue: %w", err)
		}

		return nil
	}

	if err := os.WriteFile(path, c.Bytes(), outputPerm); err != nil {
		return fmt.Errorf("failed to write catalogue: %w", err)
	}

	log.Info().Str("path", path).Msg("Wrote catalogue")

	return nil
}
