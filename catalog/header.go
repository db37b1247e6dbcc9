// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import "strings"

// Header field names written by the builder and checked by the validator.
const (
	FieldProjectID        = "Project-Id-Version"
	FieldReportBugsTo     = "Report-Msgid-Bugs-To"
	FieldCreationDate     = "POT-Creation-Date"
	FieldRevisionDate     = "PO-Revision-Date"
	FieldLastTranslator   = "Last-Translator"
	FieldLanguageTeam     = "Language-Team"
	FieldLanguage         = "Language"
	FieldMIMEVersion      = "MIME-Version"
	FieldContentType      = "Content-Type"
	FieldTransferEncoding = "Content-Transfer-Encoding"
	FieldPluralForms      = "Plural-Forms"
)

// HeaderField is one "Name: value" line of the header msgstr.
type HeaderField struct {
	Name  string
	Value string
}

// NewHeader builds a header entry from fields, in order.
func NewHeader(fields []HeaderField) *Entry {
	var b strings.Builder
	for _, f := range fields {
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Value)
		b.WriteString("\n")
	}

	return &Entry{MsgStr: []string{b.String()}}
}

// HeaderFields parses the header msgstr. Lines without a colon are skipped.
func (c *Catalog) HeaderFields() []HeaderField {
	if c.Header == nil || len(c.Header.MsgStr) == 0 {
		return nil
	}

	var fields []HeaderField

	for line := range strings.SplitSeq(c.Header.MsgStr[0], "\n") {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		fields = append(fields, HeaderField{
			Name:  strings.TrimSpace(name),
			Value: strings.TrimSpace(value),
		})
	}

	return fields
}

// HeaderField returns the value of a header field. Names match
// case-insensitively.
func (c *Catalog) HeaderField(name string) (string, bool) {
	for _, f := range c.HeaderFields() {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}

	return "", false
}

// SetHeaderField replaces the value of a header field in place, appending
// the field when it is absent. A header is created if needed.
func (c *Catalog) SetHeaderField(name, value string) {
	if c.Header == nil {
		c.Header = NewHeader(nil)
	}

	if len(c.Header.MsgStr) == 0 {
		c.Header.MsgStr = []string{""}
	}

	lines := strings.Split(c.Header.MsgStr[0], "\n")
	replaced := false

	for i, line := range lines {
		n, _, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(n), name) {
			lines[i] = name + ": " + value
			replaced = true

			break
		}
	}

	msgstr := strings.Join(lines, "\n")

	if !replaced {
		if msgstr != "" && !strings.HasSuffix(msgstr, "\n") {
			msgstr += "\n"
		}

		msgstr += name + ": " + value + "\n"
	}

	c.Header.MsgStr[0] = msgstr
}
