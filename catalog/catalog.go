// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import "iter"

// DefaultWrapWidth is the line width used for entries that were not parsed
// from input, and for parsed input in which no string was wrapped.
const DefaultWrapWidth = 79

// Catalog is an ordered collection of entries for one locale.
//
// Header is nil when the input had no header entry.
type Catalog struct {
	Header  *Entry
	Entries []*Entry

	wrapWidth int
	newline   string
	tail      string
}

// New returns an empty catalogue with default formatting.
func New() *Catalog {
	return &Catalog{}
}

// WrapWidth returns the width used when re-rendering parsed entries.
func (c *Catalog) WrapWidth() int {
	if c.wrapWidth <= 0 {
		return DefaultWrapWidth
	}

	return c.wrapWidth
}

// SetWrapWidth changes the width used when re-rendering parsed entries.
func (c *Catalog) SetWrapWidth(width int) {
	c.wrapWidth = width
}

// Newline returns the line terminator written between lines.
func (c *Catalog) Newline() string {
	if c.newline == "" {
		return "\n"
	}

	return c.newline
}

// SetNewline changes the line terminator for re-rendered entries.
func (c *Catalog) SetNewline(nl string) {
	c.newline = nl
}

// All yields the header, if any, followed by every entry.
func (c *Catalog) All() iter.Seq[*Entry] {
	return func(yield func(*Entry) bool) {
		if c.Header != nil && !yield(c.Header) {
			return
		}

		for _, e := range c.Entries {
			if !yield(e) {
				return
			}
		}
	}
}

// Active yields the entries that are not obsolete, header excluded.
func (c *Catalog) Active() iter.Seq[*Entry] {
	return func(yield func(*Entry) bool) {
		for _, e := range c.Entries {
			if e.Obsolete {
				continue
			}

			if !yield(e) {
				return
			}
		}
	}
}

// Index maps the keys of non-obsolete entries to their entry. The first
// entry wins when keys repeat.
func (c *Catalog) Index() map[string]*Entry {
	idx := make(map[string]*Entry, len(c.Entries))

	for e := range c.Active() {
		if _, ok := idx[e.Key()]; !ok {
			idx[e.Key()] = e
		}
	}

	return idx
}

// Lookup returns the non-obsolete entry with the given msgid and no context.
func (c *Catalog) Lookup(msgid string) *Entry {
	for e := range c.Active() {
		if !e.HasContext() && e.MsgID == msgid {
			return e
		}
	}

	return nil
}

// Add appends e to the entries. A header entry replaces the current header.
func (c *Catalog) Add(e *Entry) {
	if e.IsHeader() && !e.Obsolete {
		c.Header = e

		return
	}

	c.Entries = append(c.Entries, e)
}

// Clone returns a deep copy of c.
func (c *Catalog) Clone() *Catalog {
	out := *c
	if c.Header != nil {
		out.Header = c.Header.Clone()
	}

	out.Entries = make([]*Entry, len(c.Entries))
	for i, e := range c.Entries {
		out.Entries[i] = e.Clone()
	}

	return &out
}

// Forget drops the parsed source text of every entry so the whole catalogue
// is re-rendered on output.
func (c *Catalog) Forget() {
	for e := range c.All() {
		e.Forget()
	}

	c.tail = ""
}
