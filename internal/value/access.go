package value

import (
	"github.com/mcncl/jsonkit/internal/errors"
)

// strict returns the accessed value or a type mismatch error.
func strict[T any](v Value, want Kind, get func(Value) (T, bool)) (T, error) {
	if x, ok := get(v); ok {
		return x, nil
	}
	var zero T
	return zero, errors.NewTypeMismatchError(want.String(), kindOf(v).String())
}

// orElse returns the accessed value, or fallback when the kind does not match.
func orElse[T any](v Value, fallback T, get func(Value) (T, bool)) T {
	if x, ok := get(v); ok {
		return x
	}
	return fallback
}

func asNumber(v Value) (float64, bool) {
	n, ok := v.(Number)
	return float64(n), ok
}

func asString(v Value) (string, bool) {
	s, ok := v.(String)
	return string(s), ok
}

func asBoolean(v Value) (bool, bool) {
	b, ok := v.(Boolean)
	return bool(b), ok
}

func asArray(v Value) ([]Value, bool) {
	a, ok := v.(*Array)
	if !ok {
		return nil, false
	}
	return a.Items(), true
}

// NumberValue returns the number held by v
func NumberValue(v Value) (float64, error) { return strict(v, KindNumber, asNumber) }

// NumberValueOr returns the number held by v, or fallback if v is not a Number
func NumberValueOr(v Value, fallback float64) float64 { return orElse(v, fallback, asNumber) }

// StringValue returns the raw text held by v
func StringValue(v Value) (string, error) { return strict(v, KindString, asString) }

// StringValueOr returns the raw text held by v, or fallback if v is not a String
func StringValueOr(v Value, fallback string) string { return orElse(v, fallback, asString) }

// BooleanValue returns the bool held by v
func BooleanValue(v Value) (bool, error) { return strict(v, KindBoolean, asBoolean) }

// BooleanValueOr returns the bool held by v, or fallback if v is not a Boolean
func BooleanValueOr(v Value, fallback bool) bool { return orElse(v, fallback, asBoolean) }

// ArrayValue returns a copy of the elements of v
func ArrayValue(v Value) ([]Value, error) { return strict(v, KindArray, asArray) }

// ArrayValueOr returns a copy of the elements of v, or fallback if v is not an Array
func ArrayValueOr(v Value, fallback []Value) []Value { return orElse(v, fallback, asArray) }

// Properties returns the members of v. It is empty unless v is an Object.
func Properties(v Value) []Member {
	if o, ok := v.(*Object); ok {
		return o.Members()
	}
	return []Member{}
}

// PropertyNames returns the member names of v in insertion order
func PropertyNames(v Value) []string {
	props := Properties(v)
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = p.Name
	}
	return names
}

// PropertyValues returns the member values of v in insertion order
func PropertyValues(v Value) []Value {
	props := Properties(v)
	values := make([]Value, len(props))
	for i, p := range props {
		values[i] = p.Value
	}
	return values
}

// HasProperty reports whether v is an Object with a member named exactly name
func HasProperty(v Value, name string) bool {
	o, ok := v.(*Object)
	if !ok {
		return false
	}
	_, found := o.Get(name)
	return found
}

// GetProperty returns the member of v named name
func GetProperty(v Value, name string) (Value, error) {
	if o, ok := v.(*Object); ok {
		if p, found := o.Get(name); found {
			return p, nil
		}
	}
	return nil, errors.NewPropertyNotFoundError(name)
}

// GetPropertyOr returns the member of v named name, or fallback when absent
func GetPropertyOr(v Value, name string, fallback Value) Value {
	if p, err := GetProperty(v, name); err == nil {
		return p
	}
	return fallback
}

// Lookup follows path through nested objects
func Lookup(v Value, path ...string) (Value, error) {
	cur := v
	for _, name := range path {
		next, err := GetProperty(cur, name)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	if cur == nil {
		return Null{}, nil
	}
	return cur, nil
}

// IsNull reports whether v is null; a nil Value counts as null
func IsNull(v Value) bool { return kindOf(v) == KindNull }

// IsObject reports whether v is an Object
func IsObject(v Value) bool { return kindOf(v) == KindObject }

// TypeIs reports whether v is of kind k
func TypeIs(v Value, k Kind) bool { return kindOf(v) == k }
