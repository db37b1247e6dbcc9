// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import "fmt"

// FormatError reports malformed catalogue text. It is fatal to the single
// Parse call that returned it.
type FormatError struct {
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("catalog: line %d: %s", e.Line, e.Msg)
}

func formatErrorf(line int, format string, args ...any) *FormatError {
	return &FormatError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// EncodingError reports catalogue bytes that cannot be decoded to UTF-8.
type EncodingError struct {
	Charset string
	Err     error
}

func (e *EncodingError) Error() string {
	if e.Charset == "" {
		return fmt.Sprintf("catalog: %v", e.Err)
	}

	return fmt.Sprintf("catalog: charset %s: %v", e.Charset, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}
