package parser

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mcncl/jsonkit/internal/errors"
)

// Cursor reads a text source one rune at a time, one line at a time.
//
// CR, LF and CRLF each end a line and belong to the line they end. Line and
// column are 1-based; the column counts runes. The underlying closer is
// released exactly once: when the source is exhausted, on a read error, or
// through Close. A Cursor cannot be rewound.
type Cursor struct {
	rd     *bufio.Reader
	closer io.Closer

	line      []rune
	pos       int
	lineNo    int
	cur       rune
	eof       bool
	exhausted bool
	released  bool
}

// NewCursor positions a cursor on the first rune of r. The closer may be nil.
func NewCursor(r io.Reader, closer io.Closer) (*Cursor, error) {
	c := &Cursor{
		rd:     bufio.NewReader(r),
		closer: closer,
		pos:    -1,
	}
	if _, err := c.Next(); err != nil {
		return nil, err
	}
	return c, nil
}

// Current returns the rune under the cursor, or 0 at EOF
func (c *Cursor) Current() rune { return c.cur }

// EOF reports whether the whole source has been consumed
func (c *Cursor) EOF() bool { return c.eof }

// Line returns the current 1-based line number
func (c *Cursor) Line() int { return c.lineNo }

// Column returns the current 1-based column number
func (c *Cursor) Column() int { return c.pos + 1 }

// EndOfLine reports whether the cursor sits on a line terminator or at EOF
func (c *Cursor) EndOfLine() bool {
	return c.eof || c.cur == '\r' || c.cur == '\n'
}

// RestOfLine returns the current rune and the remainder of its line,
// including the terminator
func (c *Cursor) RestOfLine() string {
	if c.pos >= len(c.line) {
		return ""
	}
	return string(c.line[c.pos:])
}

func (c *Cursor) String() string {
	return fmt.Sprintf("Cursor(Line=%d,Column=%d,EOF=%t)", c.lineNo, c.Column(), c.eof)
}

// errorf builds a ParseError at the current position
func (c *Cursor) errorf(cause error, format string, args ...any) error {
	return errors.NewParseError(c.lineNo, c.Column(), fmt.Sprintf(format, args...), cause)
}

// Next advances one rune and returns the new current rune
func (c *Cursor) Next() (rune, error) {
	if c.eof {
		return c.cur, nil
	}
	c.pos++
	if c.pos >= len(c.line) {
		if c.exhausted {
			c.eof = true
			c.cur = 0
			return c.cur, nil
		}
		if err := c.loadLine(); err != nil {
			return 0, err
		}
		if c.eof {
			return c.cur, nil
		}
	}
	c.cur = c.line[c.pos]
	return c.cur, nil
}

// Skip advances n runes
func (c *Cursor) Skip(n int) (rune, error) {
	for i := 0; i < n; i++ {
		if _, err := c.Next(); err != nil {
			return 0, err
		}
	}
	return c.cur, nil
}

// NextLine advances to the first rune of the next line
func (c *Cursor) NextLine() (rune, error) {
	return c.Skip(len(c.line) - c.pos)
}

// Keyword requires the rest of the line to start with kw and advances past it
func (c *Cursor) Keyword(kw string) (rune, error) {
	if strings.HasPrefix(c.RestOfLine(), kw) {
		return c.Skip(utf8.RuneCountInString(kw))
	}
	return 0, c.errorf(nil, "keyword %q is not found.", kw)
}

// Clip requires re to match at the cursor, consumes the match and returns it.
// A match never spans a line boundary.
func (c *Cursor) Clip(re *regexp.Regexp) (string, error) {
	rest := c.RestOfLine()
	loc := re.FindStringIndex(rest)
	if loc == nil || loc[0] != 0 {
		return "", c.errorf(nil, "sequence that matches the pattern %q is not found.", re.String())
	}
	token := rest[:loc[1]]
	if _, err := c.Skip(utf8.RuneCountInString(token)); err != nil {
		return "", err
	}
	return token, nil
}

// Expect fails unless the current rune is r
func (c *Cursor) Expect(r rune) error {
	if c.eof || c.cur != r {
		return c.errorf(nil, "syntax error. %q expected but %s found.", r, c.describe())
	}
	return nil
}

func (c *Cursor) describe() string {
	if c.eof {
		return "end of input"
	}
	return fmt.Sprintf("%q", c.cur)
}

// SkipWhitespace skips runes up to U+0020 and // or /* */ comments
func (c *Cursor) SkipWhitespace() error {
	for !c.eof {
		switch {
		case c.cur <= ' ':
			if _, err := c.Next(); err != nil {
				return err
			}
		case c.cur == '/':
			if err := c.skipComment(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

func (c *Cursor) skipComment() error {
	if err := c.Expect('/'); err != nil {
		return err
	}
	if _, err := c.Next(); err != nil {
		return err
	}
	switch c.cur {
	case '/':
		_, err := c.NextLine()
		return err
	case '*':
		if _, err := c.Next(); err != nil {
			return err
		}
		for !c.eof {
			rest := c.RestOfLine()
			p := strings.Index(rest, "*/")
			if p == -1 {
				if _, err := c.NextLine(); err != nil {
					return err
				}
				continue
			}
			_, err := c.Skip(utf8.RuneCountInString(rest[:p]) + 2)
			return err
		}
		return c.errorf(nil, "unclosed comment block.")
	}
	return c.errorf(nil, "'/' or '*' expected but %s found.", c.describe())
}

func (c *Cursor) loadLine() error {
	c.pos = 0
	c.lineNo++
	c.line = c.line[:0]
	for !c.exhausted {
		r, _, err := c.rd.ReadRune()
		if stderrors.Is(err, io.EOF) {
			c.exhausted = true
			c.release()
			if len(c.line) == 0 {
				c.eof = true
				c.cur = 0
			}
			return nil
		}
		if err != nil {
			c.release()
			return c.errorf(err, "io error.")
		}
		c.line = append(c.line, r)
		switch r {
		case '\n':
			return nil
		case '\r':
			next, _, err := c.rd.ReadRune()
			switch {
			case stderrors.Is(err, io.EOF):
				c.exhausted = true
				c.release()
			case err != nil:
				c.release()
				return c.errorf(err, "io error.")
			case next == '\n':
				c.line = append(c.line, next)
			default:
				_ = c.rd.UnreadRune()
			}
			return nil
		}
	}
	return nil
}

func (c *Cursor) release() {
	if c.released {
		return
	}
	c.released = true
	if c.closer != nil {
		_ = c.closer.Close()
	}
}

// Close releases the source if it has not been released yet
func (c *Cursor) Close() error {
	if c.released {
		return nil
	}
	c.released = true
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}
