// pkg/sql/lexer/lexer.go
package lexer

import (
	"strings"

	"github.com/pkg/errors"
)

// endOfInput is the sentinel byte yielded once the cursor is exhausted,
// mirroring the source's kEnd.
const endOfInput byte = 0

// Lexer layers the primitives of §4.2 over a Cursor with a one-byte
// lookahead. Keyword matching happens character-by-character and is
// case-insensitive only for letters, so quoted string literals keep their
// original casing untouched.
type Lexer struct {
	src *Cursor
	ch  byte // lookahead
}

// New primes the lexer by reading the first character of text.
func New(text string) *Lexer {
	l := &Lexer{src: NewCursor(text)}
	l.Take()
	return l
}

// Pos is the lexer's current byte offset, for positional errors.
func (l *Lexer) Pos() int { return l.src.Pos() }

// Error wraps msg with the current position: "<pos>: <msg>".
func (l *Lexer) Error(msg string) error { return l.src.Error(msg) }

// Take consumes the lookahead and returns it, advancing to the next
// character (or endOfInput once input is exhausted).
func (l *Lexer) Take() byte {
	result := l.ch
	if l.src.HasNext() {
		l.ch = l.src.Next()
	} else {
		l.ch = endOfInput
	}
	return result
}

// TakeIf consumes and returns true if the lookahead matches expected
// (case-insensitive for letters); otherwise it leaves the cursor untouched.
func (l *Lexer) TakeIf(expected byte) bool {
	if l.Test(expected) {
		l.Take()
		return true
	}
	return false
}

// Test reports whether the lookahead matches expected without consuming it.
func (l *Lexer) Test(expected byte) bool {
	if l.ch == expected {
		return true
	}
	return isAlpha(l.ch) && toLower(l.ch) == toLower(expected)
}

// TestAny reports whether the lookahead matches any byte in set.
func (l *Lexer) TestAny(set string) bool {
	for i := 0; i < len(set); i++ {
		if l.Test(set[i]) {
			return true
		}
	}
	return false
}

// Expect consumes expected or fails with a position-tagged error.
func (l *Lexer) Expect(expected byte) error {
	if !l.TakeIf(expected) {
		return l.Error("Expected '" + string(expected) + "', found " + l.errorChar())
	}
	return nil
}

// ExpectStr consumes s byte-by-byte (case-insensitive on letters) or fails
// on the first mismatch.
func (l *Lexer) ExpectStr(s string) error {
	for i := 0; i < len(s); i++ {
		if err := l.Expect(s[i]); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lexer) errorChar() string {
	if l.Eof() {
		return "EOF"
	}
	return "'" + string(l.ch) + "'"
}

// Mark captures enough state to rewind the lexer with Reset.
func (l *Lexer) Mark() (pos int, ch byte) { return l.src.Snapshot(), l.ch }

// Reset rewinds the lexer to a position previously returned by Mark.
func (l *Lexer) Reset(pos int, ch byte) {
	l.src.Restore(pos)
	l.ch = ch
}

// Peek returns the lookahead byte without consuming it.
func (l *Lexer) Peek() byte { return l.ch }

// TestSpace reports whether the lookahead is whitespace.
func (l *Lexer) TestSpace() bool { return isSpace(l.ch) }

// Eof reports whether the lookahead is the end-of-input sentinel.
func (l *Lexer) Eof() bool { return l.ch == endOfInput }

// CheckEof fails unless the lookahead is exhausted.
func (l *Lexer) CheckEof() error {
	if !l.Eof() {
		return l.Error("Expected EOF, found " + l.errorChar())
	}
	return nil
}

// SkipWhitespace consumes a run of whitespace, including newlines.
func (l *Lexer) SkipWhitespace() {
	for isSpace(l.ch) {
		l.Take()
	}
}

// TakeWord greedily consumes a run of characters that are neither
// whitespace nor one of ",.()" (§4.2).
func (l *Lexer) TakeWord() string {
	var sb strings.Builder
	for !l.Eof() && !isSpace(l.ch) && !l.TestAny(",.()") {
		sb.WriteByte(l.Take())
	}
	return sb.String()
}

// ParseString consumes up to the next single quote. The opening
// quote must already have been consumed by the caller.
func (l *Lexer) ParseString() (string, error) {
	var sb strings.Builder
	for !l.Eof() && !l.Test('\'') {
		sb.WriteByte(l.Take())
	}
	if err := l.Expect('\''); err != nil {
		return "", errors.Wrap(err, "unterminated string literal")
	}
	return sb.String(), nil
}

func isSpace(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func toLower(ch byte) byte {
	if ch >= 'A' && ch <= 'Z' {
		return ch - 'A' + 'a'
	}
	return ch
}
