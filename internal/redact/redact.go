// Package redact produces copies of JSON values with sensitive members
// replaced, typically before the value is logged.
package redact

import (
	"github.com/mcncl/jsonkit/internal/value"
)

// DefaultPlaceholder replaces masked member values
const DefaultPlaceholder = "*****"

// Matcher decides whether a member name is sensitive
type Matcher interface {
	Matches(name string) bool
}

// MatcherFunc adapts a function to Matcher
type MatcherFunc func(name string) bool

// Matches calls fn(name)
func (fn MatcherFunc) Matches(name string) bool { return fn(name) }

// Names matches the given names exactly
func Names(names ...string) Matcher {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return MatcherFunc(func(name string) bool {
		_, ok := set[name]
		return ok
	})
}

// Mask returns v with the value of every matching object member replaced by
// placeholder, at any depth. v itself is left untouched and unchanged
// subtrees are shared with the result.
func Mask(v value.Value, m Matcher, placeholder string) value.Value {
	if m == nil {
		return v
	}
	masked, _ := mask(v, m, value.OfString(placeholder))
	return masked
}

// mask reports whether anything below v changed
func mask(v value.Value, m Matcher, placeholder value.Value) (value.Value, bool) {
	switch n := v.(type) {
	case *value.Object:
		var b *value.Builder
		for _, member := range n.Members() {
			replacement, changed := placeholder, true
			if !m.Matches(member.Name) {
				replacement, changed = mask(member.Value, m, placeholder)
			}
			if !changed {
				continue
			}
			if b == nil {
				b = value.NewBuilderFrom(n)
			}
			b.Append(member.Name, replacement)
		}
		if b == nil {
			return v, false
		}
		return b.MustBuild(), true
	case *value.Array:
		items := n.Items()
		changed := false
		for i, item := range items {
			if masked, ok := mask(item, m, placeholder); ok {
				items[i] = masked
				changed = true
			}
		}
		if !changed {
			return v, false
		}
		return value.OfArray(items...), true
	default:
		return v, false
	}
}
