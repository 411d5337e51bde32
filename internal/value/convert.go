package value

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/roach88/dscodec/internal/codecerr"
	"github.com/roach88/dscodec/internal/key"
)

// FromGo converts a plain Go value to a Value.
//
// Go integer types become Int. float32, float64 and json.Number become
// Number, so their storage type is inferred. Maps and slices convert
// recursively. A Value is returned unchanged.
func FromGo(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return nil, codecerr.UnsupportedValue(nil, "nil value")
	case Value:
		return val, nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(val), nil
	case int8:
		return Int(val), nil
	case int16:
		return Int(val), nil
	case int32:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case uint8:
		return Int(val), nil
	case uint16:
		return Int(val), nil
	case uint32:
		return Int(val), nil
	case float32:
		return Number(val), nil
	case float64:
		return Number(val), nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return nil, codecerr.UnsupportedValue(v, "number out of range: %s", val)
		}
		return Number(f), nil
	case string:
		return String(val), nil
	case []byte:
		return Blob(val), nil
	case time.Time:
		return Timestamp(val), nil
	case *key.Key:
		return KeyValue{Key: val}, nil
	case []any:
		list := make(List, len(val))
		for i, elem := range val {
			item, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			list[i] = item
		}
		return list, nil
	case map[string]any:
		rec := make(Record, len(val))
		for name, elem := range val {
			item, err := FromGo(elem)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", name, err)
			}
			rec[name] = item
		}
		return rec, nil
	default:
		return nil, codecerr.UnsupportedValue(v, "unsupported type: %T", v)
	}
}

// RecordFromGo converts a map of plain Go values to a Record.
func RecordFromGo(m map[string]any) (Record, error) {
	v, err := FromGo(m)
	if err != nil {
		return nil, err
	}
	return v.(Record), nil
}

// ToGo converts a Value to plain Go: bool, int64, float64, string, []byte,
// time.Time, *key.Key, map[string]any or []any. A nil Value yields nil.
func ToGo(v Value) any {
	switch val := v.(type) {
	case Bool:
		return bool(val)
	case Int:
		return int64(val)
	case Double:
		return float64(val)
	case Number:
		return float64(val)
	case String:
		return string(val)
	case Blob:
		return []byte(val)
	case Timestamp:
		return val.Time()
	case KeyValue:
		return val.Key
	case Record:
		m := make(map[string]any, len(val))
		for name, elem := range val {
			m[name] = ToGo(elem)
		}
		return m
	case List:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = ToGo(elem)
		}
		return out
	default:
		return nil
	}
}
