// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package extract finds translatable literals in the text of one source file.

Three dialects are supported:

  - script: Python-like sources. The first argument of calls to a marker
    function (default "_" and "_lt") is extracted when it is a plain string
    literal. Adjacent literals are joined.
  - variant: JavaScript-like sources, with markers "_t" and "_lt". Quotes and
    template literals without substitutions count as plain literals.
  - markup: XML templates. Values of translatable attributes and, optionally,
    the text of a set of elements are extracted. An element carrying the
    disable directive hides itself and all of its descendants.

Arguments that are built at run time (interpolation, concatenation, method
calls on the literal) are not extracted and produce a [Warning] instead.
Extractors never read files themselves; they work on content that was
already loaded.
*/
package extract
