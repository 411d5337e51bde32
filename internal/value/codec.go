package value

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/roach88/dscodec/internal/codecerr"
	"github.com/roach88/dscodec/internal/key"
	"github.com/roach88/dscodec/internal/wire"
)

// Encode converts a native value to its wire property.
// Fails with UNSUPPORTED_VALUE for nil, a nil key, or an empty record.
func Encode(v Value) (wire.Property, error) {
	switch val := v.(type) {
	case Bool:
		return wire.BooleanProperty(bool(val)), nil
	case Int:
		return wire.IntegerProperty(int64(val)), nil
	case Double:
		return wire.DoubleProperty(float64(val)), nil
	case Number:
		return encodeNumber(float64(val)), nil
	case String:
		return wire.StringProperty(string(val)), nil
	case Blob:
		return wire.BlobProperty([]byte(val)), nil
	case Timestamp:
		return wire.TimestampProperty(val.Time().UnixMilli() * 1000), nil
	case KeyValue:
		if val.Key == nil {
			return wire.Property{}, codecerr.UnsupportedValue(v, "key value has no key")
		}
		pk, err := key.ToProto(val.Key)
		if err != nil {
			return wire.Property{}, err
		}
		return wire.KeyProperty(pk), nil
	case Record:
		if len(val) == 0 {
			return wire.Property{}, codecerr.UnsupportedValue(v, "empty record has no entity encoding")
		}
		props, err := EncodeRecord(val)
		if err != nil {
			return wire.Property{}, err
		}
		// nested entities are never indexed
		return wire.EntityProperty(wire.EntityValue{Property: props, Indexed: false}), nil
	case List:
		items := make([]wire.Property, len(val))
		for i, elem := range val {
			p, err := Encode(elem)
			if err != nil {
				return wire.Property{}, fmt.Errorf("list[%d]: %w", i, err)
			}
			items[i] = p
		}
		return wire.ListProperty(items), nil
	case nil:
		return wire.Property{}, codecerr.UnsupportedValue(nil, "nil value")
	default:
		return wire.Property{}, codecerr.UnsupportedValue(v, "no encoding for %T", v)
	}
}

// encodeNumber stores integral numbers as integers and everything else,
// including NaN, infinities and integers outside int64, as doubles.
func encodeNumber(f float64) wire.Property {
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return wire.IntegerProperty(int64(f))
	}
	return wire.DoubleProperty(f)
}

// EncodeRecord converts each field of r to a named property, in sorted name
// order.
func EncodeRecord(r Record) ([]wire.NamedProperty, error) {
	props := make([]wire.NamedProperty, 0, len(r))
	for _, name := range r.SortedKeys() {
		p, err := Encode(r[name])
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		props = append(props, wire.NamedProperty{Name: name, Value: p})
	}
	return props, nil
}

// Decode converts a wire property to a native value. A property with no
// field set yields (nil, nil).
func Decode(p wire.Property) (Value, error) {
	switch p.Kind() {
	case wire.KindNone:
		return nil, nil
	case wire.KindInteger:
		return Int(*p.IntegerValue), nil
	case wire.KindDouble:
		return Double(*p.DoubleValue), nil
	case wire.KindString:
		return String(*p.StringValue), nil
	case wire.KindBlob:
		return Blob(bytes.Clone(*p.BlobValue)), nil
	case wire.KindTimestamp:
		// sub-millisecond precision is truncated, not rounded
		millis := int64(*p.TimestampMicrosecondsValue) / 1000
		return Timestamp(time.UnixMilli(millis).UTC()), nil
	case wire.KindKey:
		k, err := key.FromProto(*p.KeyValue)
		if err != nil {
			return nil, err
		}
		return KeyValue{Key: k}, nil
	case wire.KindEntity:
		return DecodeProperties(p.EntityValue.Property)
	case wire.KindBoolean:
		return Bool(*p.BooleanValue), nil
	case wire.KindList:
		items := make(List, len(*p.ListValue))
		for i, elem := range *p.ListValue {
			v, err := Decode(elem)
			if err != nil {
				return nil, fmt.Errorf("list[%d]: %w", i, err)
			}
			items[i] = v
		}
		return items, nil
	default:
		return nil, fmt.Errorf("unknown property kind: %s", p.Kind())
	}
}

// DecodeProperties converts named properties into a flat record. When names
// repeat the last one wins. Properties with no value set are left out.
func DecodeProperties(props []wire.NamedProperty) (Record, error) {
	rec := make(Record, len(props))
	for _, np := range props {
		v, err := Decode(np.Value)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", np.Name, err)
		}
		if v == nil {
			continue
		}
		rec[np.Name] = v
	}
	return rec, nil
}
