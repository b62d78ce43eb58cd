package value

import (
	"fmt"

	"github.com/mcncl/jsonkit/internal/errors"
)

// Builder accumulates members and freezes them into an Object.
//
// Appending a name that is already present overwrites its value in place.
// Build snapshots the entries, so objects returned earlier never observe later
// appends. A Builder is not safe for concurrent use.
type Builder struct {
	names   []string
	entries map[string]Value
	err     error
}

// NewBuilder returns an empty builder
func NewBuilder() *Builder {
	return &Builder{entries: make(map[string]Value)}
}

// NewBuilderFrom returns a builder seeded with the members of proto.
// A proto that is not an Object seeds nothing.
func NewBuilderFrom(proto Value) *Builder {
	b := NewBuilder()
	if o, ok := proto.(*Object); ok {
		for _, m := range o.members {
			b.set(m.Name, m.Value)
		}
	}
	return b
}

func (b *Builder) set(name string, v Value) {
	if _, exists := b.entries[name]; !exists {
		b.names = append(b.names, name)
	}
	b.entries[name] = v
}

func (b *Builder) fail(message string) {
	if b.err == nil {
		b.err = errors.NewArgumentError(message)
	}
}

// Append stores v under name
func (b *Builder) Append(name string, v Value) *Builder {
	if v == nil {
		b.fail(fmt.Sprintf("value of property %q must not be nil", name))
		return b
	}
	b.set(name, v)
	return b
}

// AppendString stores a string under name
func (b *Builder) AppendString(name, s string) *Builder {
	return b.Append(name, OfString(s))
}

// AppendNumber stores a number under name
func (b *Builder) AppendNumber(name string, f float64) *Builder {
	return b.Append(name, OfNumber(f))
}

// AppendBool stores a boolean under name
func (b *Builder) AppendBool(name string, v bool) *Builder {
	return b.Append(name, OfBool(v))
}

// AppendNull stores null under name
func (b *Builder) AppendNull(name string) *Builder {
	return b.Append(name, OfNull())
}

// AppendEmptyArray stores an empty array under name
func (b *Builder) AppendEmptyArray(name string) *Builder {
	return b.Append(name, EmptyArray())
}

// AppendArray stores an array of items under name
func (b *Builder) AppendArray(name string, items ...Value) *Builder {
	return b.Append(name, OfArray(items...))
}

// AppendObject runs build against a fresh child builder and stores the
// frozen child under name.
func (b *Builder) AppendObject(name string, build func(*Builder)) *Builder {
	if build == nil {
		b.fail(fmt.Sprintf("build func of property %q must not be nil", name))
		return b
	}
	child := NewBuilder()
	build(child)
	obj, err := child.Build()
	if err != nil {
		if b.err == nil {
			b.err = err
		}
		return b
	}
	b.set(name, obj)
	return b
}

// Len returns the number of distinct names appended so far
func (b *Builder) Len() int {
	return len(b.names)
}

// Build freezes the current entries into a new Object. It reports the first
// invalid append, if any.
func (b *Builder) Build() (*Object, error) {
	if b.err != nil {
		return nil, b.err
	}
	members := make([]Member, len(b.names))
	for i, name := range b.names {
		members[i] = Member{Name: name, Value: b.entries[name]}
	}
	return newObject(members), nil
}

// MustBuild is like Build but panics on an invalid append
func (b *Builder) MustBuild() *Object {
	obj, err := b.Build()
	if err != nil {
		panic(err)
	}
	return obj
}
