// Package value holds the immutable JSON value tree produced by the parser
// and consumed by the formatter.
//
// A Value is one of Null, Boolean, Number, String, *Array or *Object. Values
// never change after construction and may be shared between goroutines
// without locking. Objects are assembled incrementally with a Builder.
package value

// Kind identifies the variant of a Value
type Kind uint8

const (
	KindNull Kind = iota
	KindBoolean
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBoolean:
		return "Boolean"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindArray:
		return "Array"
	case KindObject:
		return "Object"
	default:
		return "Unknown"
	}
}

// Value is one immutable node of a JSON tree.
// String returns the canonical compact JSON literal of the node.
type Value interface {
	Kind() Kind
	String() string

	isValue()
}

// Null is the JSON null literal
type Null struct{}

// Boolean is a JSON true or false
type Boolean bool

// Number is a JSON number. Equality is exact float64 equality.
type Number float64

// String is a JSON string. Its String method returns the quoted literal,
// use StringValue to get the raw text.
type String string

// Member is one name/value pair of an Object
type Member struct {
	Name  string
	Value Value
}

// Array is an ordered sequence of values
type Array struct {
	items []Value
}

// Object is a set of uniquely named members kept in insertion order
type Object struct {
	members []Member
	index   map[string]int
}

const (
	True  = Boolean(true)
	False = Boolean(false)
)

var emptyArray = &Array{}

func (Null) Kind() Kind { return KindNull }
func (Boolean) Kind() Kind { return KindBoolean }
func (Number) Kind() Kind { return KindNumber }
func (String) Kind() Kind { return KindString }
func (*Array) Kind() Kind { return KindArray }
func (*Object) Kind() Kind { return KindObject }
func (Null) isValue() {}
func (Boolean) isValue() {}
func (Number) isValue() {}
func (String) isValue() {}
func (*Array) isValue() {}
func (*Object) isValue() {}
func (Null) String() string { return "null" }
func (n Number) String() string { return formatNumber(float64(n)) }

func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

func (s String) String() string {
	return cachedLiteral(s, func() string { return quote(string(s)) })
}

// Len returns the number of elements
func (a *Array) Len() int { return len(a.items) }

// At returns the i-th element; it panics when i is out of range like a slice index
func (a *Array) At(i int) Value { return a.items[i] }

// Items returns a copy of the elements
func (a *Array) Items() []Value {
	out := make([]Value, len(a.items))
	copy(out, a.items)
	return out
}

func (a *Array) String() string {
	return cachedLiteral(a, func() string { return arrayLiteral(a.items) })
}

// Len returns the number of members
func (o *Object) Len() int { return len(o.members) }

// Get returns the value stored under name
func (o *Object) Get(name string) (Value, bool) {
	i, ok := o.index[name]
	if !ok {
		return nil, false
	}
	return o.members[i].Value, true
}

// Members returns a copy of the members in insertion order
func (o *Object) Members() []Member {
	out := make([]Member, len(o.members))
	copy(out, o.members)
	return out
}

func (o *Object) String() string {
	return cachedLiteral(o, func() string { return objectLiteral(o.members) })
}

// newObject takes ownership of members, whose names must be unique
func newObject(members []Member) *Object {
	index := make(map[string]int, len(members))
	for i, m := range members {
		index[m.Name] = i
	}
	return &Object{members: members, index: index}
}

// OfString wraps a native string
func OfString(s string) Value { return String(s) }

// OfNumber wraps a native float64
func OfNumber(f float64) Value { return Number(f) }

// OfBool wraps a native bool
func OfBool(b bool) Value { return Boolean(b) }

// OfNull returns the null value
func OfNull() Value { return Null{} }

// EmptyArray returns the shared empty array
func EmptyArray() *Array { return emptyArray }

// OfArray creates an array holding a copy of items. Nil items become null.
func OfArray(items ...Value) *Array {
	if len(items) == 0 {
		return emptyArray
	}
	out := make([]Value, len(items))
	for i, item := range items {
		if item == nil {
			item = Null{}
		}
		out[i] = item
	}
	return &Array{items: out}
}

// OfStrings creates an array of strings
func OfStrings(items ...string) *Array { return arrayOf(items, OfString) }

// OfNumbers creates an array of numbers
func OfNumbers(items ...float64) *Array { return arrayOf(items, OfNumber) }

// OfBools creates an array of booleans
func OfBools(items ...bool) *Array { return arrayOf(items, OfBool) }

func arrayOf[T any](items []T, wrap func(T) Value) *Array {
	if len(items) == 0 {
		return emptyArray
	}
	out := make([]Value, len(items))
	for i, item := range items {
		out[i] = wrap(item)
	}
	return &Array{items: out}
}

func kindOf(v Value) Kind {
	if v == nil {
		return KindNull
	}
	return v.Kind()
}
