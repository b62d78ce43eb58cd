package parser

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/value"
)

// DefaultMaxDepth is the nesting limit used when none is configured
const DefaultMaxDepth = 1000

var (
	numberPattern  = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?`)
	booleanPattern = regexp.MustCompile(`^(true|false)`)
)

type options struct {
	maxDepth        int
	strict          bool
	encoding        string
	standardEscapes bool
}

// Option configures a Parser
type Option func(*options)

// WithMaxDepth limits how deeply arrays and objects may nest
func WithMaxDepth(n int) Option {
	return func(o *options) { o.maxDepth = n }
}

// WithStrict rejects anything but whitespace and comments after the value
func WithStrict(strict bool) Option {
	return func(o *options) { o.strict = strict }
}

// WithEncoding sets the IANA charset of the source; empty means UTF-8
func WithEncoding(charset string) Option {
	return func(o *options) { o.encoding = charset }
}

// WithStandardEscapes decodes \b \f \n \r \t and \uXXXX inside quoted
// strings. Without it a backslash takes the next rune verbatim.
func WithStandardEscapes(enabled bool) Option {
	return func(o *options) { o.standardEscapes = enabled }
}

// Parser reads one lenient JSON value per call. It accepts standard JSON
// plus single-quoted strings, unquoted property names and // and /* */
// comments between tokens. A Parser holds only configuration and may be
// shared between goroutines.
type Parser struct {
	opts options
}

// NewParser validates opts and returns a Parser
func NewParser(opts ...Option) (*Parser, error) {
	o := options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxDepth <= 0 {
		return nil, errors.NewArgumentError(fmt.Sprintf("max depth must be greater than 0, got %d", o.maxDepth))
	}
	if o.encoding != "" {
		if _, err := LookupEncoding(o.encoding); err != nil {
			return nil, err
		}
	}
	return &Parser{opts: o}, nil
}

// Parse reads a value from r. The caller keeps ownership of r.
func (p *Parser) Parse(r io.Reader) (value.Value, error) {
	return p.parse(r, nil)
}

// ParseString reads a value from s
func (p *Parser) ParseString(s string) (value.Value, error) {
	return p.parse(strings.NewReader(s), nil)
}

// ParseBytes reads a value from b
func (p *Parser) ParseBytes(b []byte) (value.Value, error) {
	return p.parse(bytes.NewReader(b), nil)
}

// ParseFile reads a value from the file at filePath and closes it. Syntax
// errors come back wrapped in a parsing AppError that names the file.
func (p *Parser) ParseFile(filePath string) (value.Value, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(fmt.Sprintf("file '%s' not found", filePath), errors.ErrFileNotFound)
		}
		return nil, errors.NewInputError(fmt.Sprintf("failed to open file '%s'", filePath), err)
	}
	if info, err := file.Stat(); err == nil && info.Mode().IsRegular() && info.Size() == 0 {
		_ = file.Close()
		return nil, errors.NewInputError(fmt.Sprintf("file '%s' is empty", filePath), errors.ErrFileEmpty)
	}
	v, err := p.parse(file, file)
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("file '%s'", filePath), err)
	}
	return v, nil
}

func (p *Parser) parse(r io.Reader, closer io.Closer) (value.Value, error) {
	src, err := decodeReader(r, p.opts.encoding)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, err
	}
	c, err := NewCursor(src, closer)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	st := &state{c: c, opts: p.opts}
	return st.document()
}

// Parse reads a value from r with a one-off Parser
func Parse(r io.Reader, opts ...Option) (value.Value, error) {
	p, err := NewParser(opts...)
	if err != nil {
		return nil, err
	}
	return p.Parse(r)
}

// ParseString reads a value from s with a one-off Parser
func ParseString(s string, opts ...Option) (value.Value, error) {
	p, err := NewParser(opts...)
	if err != nil {
		return nil, err
	}
	return p.ParseString(s)
}

// ParseBytes reads a value from b with a one-off Parser
func ParseBytes(b []byte, opts ...Option) (value.Value, error) {
	p, err := NewParser(opts...)
	if err != nil {
		return nil, err
	}
	return p.ParseBytes(b)
}

// ParseFile reads a value from a file with a one-off Parser
func ParseFile(filePath string, opts ...Option) (value.Value, error) {
	p, err := NewParser(opts...)
	if err != nil {
		return nil, err
	}
	return p.ParseFile(filePath)
}

// frame is an array or object whose closing bracket has not been read yet
type frame struct {
	kind    value.Kind
	items   []value.Value
	members *value.Builder
	name    string
}

func (f *frame) closer() rune {
	if f.kind == value.KindObject {
		return '}'
	}
	return ']'
}

func (f *frame) add(v value.Value) {
	if f.kind == value.KindObject {
		f.members.Append(f.name, v)
		return
	}
	f.items = append(f.items, v)
}

func (f *frame) freeze() (value.Value, error) {
	if f.kind == value.KindObject {
		return f.members.Build()
	}
	return value.OfArray(f.items...), nil
}

// state is the per-call parsing state
type state struct {
	c    *Cursor
	opts options
}

func (s *state) document() (value.Value, error) {
	if err := s.c.SkipWhitespace(); err != nil {
		return nil, err
	}
	if s.c.EOF() {
		return nil, s.c.errorf(errors.ErrEmptyInput, "unexpected end of input.")
	}
	v, err := s.value()
	if err != nil {
		return nil, err
	}
	if s.opts.strict {
		if err := s.c.SkipWhitespace(); err != nil {
			return nil, err
		}
		if !s.c.EOF() {
			return nil, s.c.errorf(errors.ErrTrailingData, "unexpected %q after the top-level value.", s.c.Current())
		}
	}
	return v, nil
}

// value reads one value. Containers are tracked on an explicit stack so the
// nesting limit is a configured number rather than the goroutine stack.
func (s *state) value() (value.Value, error) {
	c := s.c
	var stack []*frame
	for {
		if c.EOF() {
			if len(stack) > 0 {
				return nil, s.unclosed(stack[len(stack)-1])
			}
			return nil, c.errorf(nil, "unknown token.")
		}

		var (
			v   value.Value
			err error
		)
		switch cur := c.Current(); {
		case cur == '{' || cur == '[':
			if len(stack) >= s.opts.maxDepth {
				return nil, c.errorf(errors.ErrDepthExceeded, "nesting depth exceeds %d.", s.opts.maxDepth)
			}
			f := &frame{kind: value.KindArray}
			if cur == '{' {
				f.kind = value.KindObject
				f.members = value.NewBuilder()
			}
			if _, err = c.Next(); err != nil {
				return nil, err
			}
			if err = c.SkipWhitespace(); err != nil {
				return nil, err
			}
			if c.EOF() || c.Current() != f.closer() {
				stack = append(stack, f)
				if f.kind == value.KindObject {
					if err = s.memberName(f); err != nil {
						return nil, err
					}
				}
				continue
			}
			if _, err = c.Next(); err != nil {
				return nil, err
			}
			v, err = f.freeze()
		case cur == '"' || cur == '\'':
			var str string
			str, err = s.quoted()
			v = value.String(str)
		case cur == 't' || cur == 'f':
			var tok string
			tok, err = c.Clip(booleanPattern)
			v = value.Boolean(tok == "true")
		case cur == 'n':
			_, err = c.Keyword("null")
			v = value.Null{}
		case cur == '-' || ('0' <= cur && cur <= '9'):
			v, err = s.number()
		default:
			return nil, c.errorf(nil, "unknown token.")
		}
		if err != nil {
			return nil, err
		}

		// Attach v to its parent and close every container that ends here.
		for {
			if len(stack) == 0 {
				return v, nil
			}
			f := stack[len(stack)-1]
			f.add(v)
			if err = c.SkipWhitespace(); err != nil {
				return nil, err
			}
			if c.EOF() {
				return nil, s.unclosed(f)
			}
			if c.Current() == f.closer() {
				if _, err = c.Next(); err != nil {
					return nil, err
				}
				stack = stack[:len(stack)-1]
				if v, err = f.freeze(); err != nil {
					return nil, err
				}
				continue
			}
			if err = c.Expect(','); err != nil {
				return nil, err
			}
			if _, err = c.Next(); err != nil {
				return nil, err
			}
			if err = c.SkipWhitespace(); err != nil {
				return nil, err
			}
			if f.kind == value.KindObject {
				if err = s.memberName(f); err != nil {
					return nil, err
				}
			}
			break
		}
	}
}

func (s *state) unclosed(f *frame) error {
	return s.c.errorf(nil, "unclosed %s literal.", f.kind)
}

// memberName reads a property name and the following colon
func (s *state) memberName(f *frame) error {
	c := s.c
	if c.EOF() {
		return s.unclosed(f)
	}
	var (
		name string
		err  error
	)
	if cur := c.Current(); cur == '"' || cur == '\'' {
		if name, err = s.quoted(); err != nil {
			return err
		}
	} else {
		if name, err = s.identifier(); err != nil {
			return err
		}
		if name == "" {
			return c.errorf(nil, "property name expected but %s found.", c.describe())
		}
	}
	if err = c.SkipWhitespace(); err != nil {
		return err
	}
	if err = c.Expect(':'); err != nil {
		return err
	}
	if _, err = c.Next(); err != nil {
		return err
	}
	if err = c.SkipWhitespace(); err != nil {
		return err
	}
	f.name = name
	return nil
}

// identifier reads a bare property name: any run of runes above U+0020
// other than ':'
func (s *state) identifier() (string, error) {
	c := s.c
	var b strings.Builder
	for !c.EOF() {
		cur := c.Current()
		if cur <= ' ' || cur == ':' {
			break
		}
		b.WriteRune(cur)
		if _, err := c.Next(); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// quoted reads a string delimited by the current rune
func (s *state) quoted() (string, error) {
	c := s.c
	quote := c.Current()
	var b strings.Builder
	for {
		r, err := c.Next()
		if err != nil {
			return "", err
		}
		if c.EOF() {
			break
		}
		if r == quote {
			if _, err := c.Next(); err != nil {
				return "", err
			}
			return b.String(), nil
		}
		if r == '\\' {
			if r, err = c.Next(); err != nil {
				return "", err
			}
			if c.EOF() {
				break
			}
			if s.opts.standardEscapes {
				if err = s.unescape(&b, r); err != nil {
					return "", err
				}
				continue
			}
		}
		b.WriteRune(r)
	}
	return "", c.errorf(nil, "syntax error. unclosed quoted string.")
}

// unescape writes the decoded form of the escape whose letter is r. A
// surrogate that does not start a valid pair becomes U+FFFD, and an escape
// read while looking for the second half is kept.
func (s *state) unescape(b *strings.Builder, r rune) error {
	switch r {
	case 'a':
		r = '\a'
	case 'b':
		r = '\b'
	case 'f':
		r = '\f'
	case 'n':
		r = '\n'
	case 'r':
		r = '\r'
	case 't':
		r = '\t'
	case 'v':
		r = '\v'
	case 'u':
		hi, err := s.hex4()
		if err != nil {
			return err
		}
		for utf16.IsSurrogate(hi) {
			// The cursor sits on the last hex digit of the first half.
			if hi >= 0xdc00 || !strings.HasPrefix(s.c.RestOfLine()[1:], `\u`) {
				b.WriteRune(utf8.RuneError)
				return nil
			}
			if _, err := s.c.Skip(2); err != nil {
				return err
			}
			lo, err := s.hex4()
			if err != nil {
				return err
			}
			if pair := utf16.DecodeRune(hi, lo); pair != utf8.RuneError {
				b.WriteRune(pair)
				return nil
			}
			b.WriteRune(utf8.RuneError)
			hi = lo
		}
		r = hi
	}
	b.WriteRune(r)
	return nil
}

// hex4 consumes the four hex digits following the current rune
func (s *state) hex4() (rune, error) {
	var n rune
	for i := 0; i < 4; i++ {
		r, err := s.c.Next()
		if err != nil {
			return 0, err
		}
		var d rune
		switch {
		case s.c.EOF():
			return 0, s.c.errorf(nil, "syntax error. unclosed quoted string.")
		case '0' <= r && r <= '9':
			d = r - '0'
		case 'a' <= r && r <= 'f':
			d = r - 'a' + 10
		case 'A' <= r && r <= 'F':
			d = r - 'A' + 10
		default:
			return 0, s.c.errorf(nil, "invalid unicode escape.")
		}
		n = n<<4 | d
	}
	return n, nil
}

func (s *state) number() (value.Value, error) {
	tok, err := s.c.Clip(numberPattern)
	if err != nil {
		return nil, err
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		if math.IsInf(f, 0) {
			return nil, s.c.errorf(err, "number %s is out of range.", tok)
		}
		return nil, s.c.errorf(err, "invalid number %s.", tok)
	}
	return value.Number(f), nil
}
