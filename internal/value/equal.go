package value

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Equal reports whether a and b are the same JSON value.
//
// Numbers compare with exact float64 equality, no tolerance. Arrays compare
// element by element in order. Objects compare as sets of members, so member
// order does not matter.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case nil, Null:
		return kindOf(b) == KindNull
	case Boolean:
		y, ok := b.(Boolean)
		return ok && x == y
	case Number:
		y, ok := b.(Number)
		return ok && x == y
	case String:
		y, ok := b.(String)
		return ok && x == y
	case *Array:
		y, ok := b.(*Array)
		if !ok || len(x.items) != len(y.items) {
			return false
		}
		for i := range x.items {
			if !Equal(x.items[i], y.items[i]) {
				return false
			}
		}
		return true
	case *Object:
		y, ok := b.(*Object)
		if !ok || len(x.members) != len(y.members) {
			return false
		}
		for _, m := range x.members {
			other, found := y.Get(m.Name)
			if !found || !Equal(m.Value, other) {
				return false
			}
		}
		return true
	}
	return false
}

// Hash returns a hash of v consistent with Equal
func Hash(v Value) uint64 {
	d := xxhash.New()
	var buf [8]byte
	writeUint64 := func(u uint64) {
		binary.LittleEndian.PutUint64(buf[:], u)
		_, _ = d.Write(buf[:])
	}

	_, _ = d.Write([]byte{byte(kindOf(v))})
	switch x := v.(type) {
	case Boolean:
		if x {
			_, _ = d.Write([]byte{1})
		} else {
			_, _ = d.Write([]byte{0})
		}
	case Number:
		f := float64(x)
		if f == 0 {
			f = 0 // -0 == 0
		}
		writeUint64(math.Float64bits(f))
	case String:
		_, _ = d.WriteString(string(x))
	case *Array:
		for _, item := range x.items {
			writeUint64(Hash(item))
		}
	case *Object:
		// Order independent: sum of per-member hashes.
		var sum uint64
		for _, m := range x.members {
			md := xxhash.New()
			_, _ = md.WriteString(m.Name)
			binary.LittleEndian.PutUint64(buf[:], Hash(m.Value))
			_, _ = md.Write([]byte{0})
			_, _ = md.Write(buf[:])
			sum += md.Sum64()
		}
		writeUint64(sum)
	}
	return d.Sum64()
}
