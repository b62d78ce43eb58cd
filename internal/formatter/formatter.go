package formatter

import (
	"fmt"
	"strings"

	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/value"
)

// Options controls how a Formatter lays out values
type Options struct {
	// Indent breaks containers over several lines, one child per line
	Indent bool
	// NewLine separates lines when Indent is set
	NewLine string
	// SoftTabs indents with TabWidth spaces instead of a tab character
	SoftTabs bool
	// TabWidth is the number of spaces per level when SoftTabs is set
	TabWidth int
}

// DefaultOptions returns compact output settings with "\n" line breaks and
// hard tabs of width 4
func DefaultOptions() Options {
	return Options{
		Indent:   false,
		NewLine:  "\n",
		SoftTabs: false,
		TabWidth: 4,
	}
}

// Validate reports settings that can never produce output
func (o Options) Validate() error {
	if o.NewLine == "" {
		return errors.NewArgumentError("new line must not be empty")
	}
	if o.TabWidth <= 0 {
		return errors.NewArgumentError(fmt.Sprintf("tab width must be greater than 0, got %d", o.TabWidth))
	}
	return nil
}

// Formatter renders values as JSON text. It holds no mutable state and may
// be shared between goroutines.
type Formatter struct {
	opts Options
	tab  string
}

// Compact renders values on a single line with no inserted whitespace
var Compact = MustNewFormatter(DefaultOptions())

// NewFormatter validates opts and creates a Formatter
func NewFormatter(opts Options) (*Formatter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	tab := "\t"
	if opts.SoftTabs {
		tab = strings.Repeat(" ", opts.TabWidth)
	}
	return &Formatter{opts: opts, tab: tab}, nil
}

// MustNewFormatter is like NewFormatter but panics on invalid options
func MustNewFormatter(opts Options) *Formatter {
	f, err := NewFormatter(opts)
	if err != nil {
		panic(err)
	}
	return f
}

// Options returns the settings f was built with
func (f *Formatter) Options() Options {
	return f.opts
}

// Format renders v. A nil v renders as null.
func (f *Formatter) Format(v value.Value) string {
	if v == nil {
		return value.Null{}.String()
	}
	if !f.opts.Indent {
		return v.String()
	}
	var b strings.Builder
	f.write(&b, v, 0)
	return b.String()
}

func (f *Formatter) write(b *strings.Builder, v value.Value, level int) {
	switch n := v.(type) {
	case *value.Array:
		if n.Len() == 0 {
			b.WriteString("[]")
			return
		}
		b.WriteByte('[')
		for i, item := range n.Items() {
			f.lineBreak(b, level+1)
			f.write(b, item, level+1)
			if i < n.Len()-1 {
				b.WriteByte(',')
			}
		}
		f.lineBreak(b, level)
		b.WriteByte(']')
	case *value.Object:
		if n.Len() == 0 {
			b.WriteString("{}")
			return
		}
		b.WriteByte('{')
		for i, m := range n.Members() {
			f.lineBreak(b, level+1)
			b.WriteString(value.Quote(m.Name))
			b.WriteString(": ")
			f.write(b, m.Value, level+1)
			if i < n.Len()-1 {
				b.WriteByte(',')
			}
		}
		f.lineBreak(b, level)
		b.WriteByte('}')
	case nil:
		b.WriteString(value.Null{}.String())
	default:
		b.WriteString(v.String())
	}
}

func (f *Formatter) lineBreak(b *strings.Builder, level int) {
	b.WriteString(f.opts.NewLine)
	for i := 0; i < level; i++ {
		b.WriteString(f.tab)
	}
}

// Format renders v with opts in one call
func Format(v value.Value, opts Options) (string, error) {
	f, err := NewFormatter(opts)
	if err != nil {
		return "", err
	}
	return f.Format(v), nil
}
