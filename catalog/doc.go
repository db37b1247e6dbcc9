// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package catalog models GNU gettext .po/.pot catalogues and converts them to
and from their textual form.

# Grammar

A catalogue is a header entry (msgid "") followed by zero or more entries.
An entry is an optional block of comment lines, an optional msgctxt, a msgid,
an optional msgid_plural and one or more msgstr strings, indexed as
msgstr[N] when the entry is plural. Entries are separated by blank lines.
Strings may continue over several adjacent quoted lines. Entries whose lines
start with "#~" are obsolete.

# Round-tripping

[Parse] keeps the raw text of every entry together with a snapshot of its
fields. When a catalogue is written back, entries that still match their
snapshot are emitted verbatim, so comments, flag order and line wrapping
survive hand edits made between runs. Modified entries are re-rendered with
the wrap width detected on input; entries created in memory use
[DefaultWrapWidth].

Parsing never decodes or rejects invalid UTF-8; bytes are preserved and left
for the validator to report. Use [DecodeLegacy] to convert catalogues saved
in a legacy charset before parsing.
*/
package catalog
