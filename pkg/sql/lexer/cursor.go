// pkg/sql/lexer/cursor.go
package lexer

import "github.com/pkg/errors"

// Cursor is a character stream over query text with a byte position,
// used for error reporting (§4.1).
type Cursor struct {
	text string
	pos  int
}

// NewCursor wraps text for character-at-a-time consumption.
func NewCursor(text string) *Cursor {
	return &Cursor{text: text}
}

// HasNext reports whether any input remains.
func (c *Cursor) HasNext() bool {
	return c.pos < len(c.text)
}

// Next consumes and returns one character, advancing the position.
func (c *Cursor) Next() byte {
	ch := c.text[c.pos]
	c.pos++
	return ch
}

// Pos is the current byte offset, for positional error messages.
func (c *Cursor) Pos() int {
	return c.pos
}

// Error produces a position-tagged parse error: "<pos>: <msg>".
func (c *Cursor) Error(msg string) error {
	return errors.Errorf("%d: %s", c.pos, msg)
}

// Snapshot and Restore let a caller back out of greedy lookahead, used by
// the filter tokenizer to hand the JOIN keyword back to the statement
// parser (§4.4).
func (c *Cursor) Snapshot() int    { return c.pos }
func (c *Cursor) Restore(pos int)  { c.pos = pos }
