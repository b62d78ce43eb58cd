package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// literalCacheSize bounds how many string, array and object literals are
// memoised. Entries hold a reference to their node until evicted.
const literalCacheSize = 4096

var literals = newLiteralCache()

func newLiteralCache() *lru.Cache[Value, string] {
	c, err := lru.New[Value, string](literalCacheSize)
	if err != nil {
		panic(err)
	}
	return c
}

// cachedLiteral keys strings by content and containers by pointer identity.
func cachedLiteral(v Value, compute func() string) string {
	if s, ok := literals.Get(v); ok {
		return s
	}
	s := compute()
	literals.Add(v, s)
	return s
}

func arrayLiteral(items []Value) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(item.String())
	}
	b.WriteByte(']')
	return b.String()
}

func objectLiteral(members []Member) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, m := range members {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(quote(m.Name))
		b.WriteByte(':')
		b.WriteString(m.Value.String())
	}
	b.WriteByte('}')
	return b.String()
}

// Quote returns s as a double-quoted JSON string literal
func Quote(s string) string {
	return quote(s)
}

func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\', '/':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\a':
			b.WriteString(`\a`)
		case '\b':
			b.WriteString(`\b`)
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\v':
			b.WriteString(`\v`)
		case '\f':
			b.WriteString(`\f`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// formatNumber renders f with the shortest digits that round-trip, using
// plain notation between 1e-6 and 1e21 and exponent notation elsewhere.
// Non-finite values have no JSON form and render as null.
func formatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	s := strconv.FormatFloat(f, format, -1, 64)
	if format == 'e' {
		// e-07 -> e-7
		n := len(s)
		if n >= 4 && s[n-4] == 'e' && s[n-3] == '-' && s[n-2] == '0' {
			s = s[:n-2] + s[n-1:]
		}
	}
	return s
}
