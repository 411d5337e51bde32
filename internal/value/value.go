package value

import (
	"bytes"
	"slices"
	"time"

	"github.com/roach88/dscodec/internal/key"
)

// Value is a sealed interface over the supported native value kinds.
type Value interface {
	nativeValue() // Sealed - only these types implement it
}

// Bool is a boolean value.
type Bool bool

func (Bool) nativeValue() {}

// Int is a number that must be stored as an integer.
type Int int64

func (Int) nativeValue() {}

// Int64 returns the wrapped payload.
func (n Int) Int64() int64 { return int64(n) }

// Double is a number that must be stored as floating point.
type Double float64

func (Double) nativeValue() {}

// Float64 returns the wrapped payload.
func (d Double) Float64() float64 { return float64(d) }

// Number is a plain number whose storage type is inferred from its value.
type Number float64

func (Number) nativeValue() {}

// String is a UTF-8 string value.
type String string

func (String) nativeValue() {}

// Blob is an opaque byte sequence.
type Blob []byte

func (Blob) nativeValue() {}

// Timestamp is a point in time. Only millisecond resolution survives a
// round trip through the wire.
type Timestamp time.Time

func (Timestamp) nativeValue() {}

// Time returns the wrapped time.
func (t Timestamp) Time() time.Time { return time.Time(t) }

// KeyValue is a reference to another record.
type KeyValue struct {
	Key *key.Key
}

func (KeyValue) nativeValue() {}

// Record is a nested record of named values. Encoding visits fields in
// sorted name order.
type Record map[string]Value

func (Record) nativeValue() {}

// SortedKeys returns the record's field names in ascending order.
func (r Record) SortedKeys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// List is an ordered list of values.
type List []Value

func (List) nativeValue() {}

// Equal reports whether a and b are observationally equal: same kind and
// same payload. Timestamps compare by instant, keys by namespace and path.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case Bool, Int, Double, Number, String:
		return a == b
	case Blob:
		bv, ok := b.(Blob)
		return ok && bytes.Equal(av, bv)
	case Timestamp:
		bv, ok := b.(Timestamp)
		return ok && av.Time().Equal(bv.Time())
	case KeyValue:
		bv, ok := b.(KeyValue)
		return ok && key.Equal(av.Key, bv.Key)
	case Record:
		bv, ok := b.(Record)
		if !ok || len(av) != len(bv) {
			return false
		}
		for name, v := range av {
			other, present := bv[name]
			if !present || !Equal(v, other) {
				return false
			}
		}
		return true
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
