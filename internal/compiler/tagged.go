package compiler

import (
	"encoding/base64"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/roach88/dscodec/internal/key"
	"github.com/roach88/dscodec/internal/value"
)

// Tagged literal field names. A struct whose fields all start with "@" is a
// tagged literal for a value that plain documents cannot express.
const (
	tagKey       = "@key"
	tagNamespace = "@namespace"
	tagTimestamp = "@timestamp"
	tagDouble    = "@double"
	tagInt       = "@int"
	tagBlob      = "@blob"
)

// isTagged reports whether rec uses tagged literal syntax.
func isTagged(rec value.Record) bool {
	for name := range rec {
		if strings.HasPrefix(name, "@") {
			return true
		}
	}
	return false
}

// resolveTagged converts a tagged literal struct to the value it denotes.
func resolveTagged(rec value.Record) (value.Value, error) {
	if v, ok := rec[tagKey]; ok {
		for name := range rec {
			if name != tagKey && name != tagNamespace {
				return nil, fmt.Errorf("unexpected field %q in %s literal", name, tagKey)
			}
		}
		return keyLiteral(v, rec[tagNamespace])
	}

	if len(rec) != 1 {
		return nil, fmt.Errorf("tagged literal must have exactly one field, got %d", len(rec))
	}

	for name, v := range rec {
		switch name {
		case tagTimestamp:
			return timestampLiteral(v)
		case tagDouble:
			f, ok := asFloat(v)
			if !ok {
				return nil, fmt.Errorf("%s requires a number", tagDouble)
			}
			return value.Double(f), nil
		case tagInt:
			if n, isInt := v.(value.Int); isInt {
				return n, nil
			}
			f, ok := asFloat(v)
			if !ok || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
				return nil, fmt.Errorf("%s requires an integral number", tagInt)
			}
			return value.Int(int64(f)), nil
		case tagBlob:
			s, ok := v.(value.String)
			if !ok {
				return nil, fmt.Errorf("%s requires a base64 string", tagBlob)
			}
			b, err := base64.StdEncoding.DecodeString(string(s))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", tagBlob, err)
			}
			return value.Blob(b), nil
		case tagNamespace:
			return nil, fmt.Errorf("%s requires %s", tagNamespace, tagKey)
		}
		return nil, fmt.Errorf("unknown tag %q", name)
	}
	return nil, fmt.Errorf("empty tagged literal")
}

func keyLiteral(path, ns value.Value) (value.Value, error) {
	list, ok := path.(value.List)
	if !ok {
		return nil, fmt.Errorf("%s requires a list path", tagKey)
	}

	var namespace string
	if ns != nil {
		s, ok := ns.(value.String)
		if !ok {
			return nil, fmt.Errorf("%s must be a string", tagNamespace)
		}
		namespace = string(s)
	}

	elems := make([]any, len(list))
	for i, item := range list {
		switch v := item.(type) {
		case value.String:
			elems[i] = string(v)
		case value.Int:
			elems[i] = int64(v)
		case value.Number, value.Double:
			f, _ := asFloat(v)
			elems[i] = f
		default:
			return nil, fmt.Errorf("%s[%d]: path elements must be strings or numbers", tagKey, i)
		}
	}

	k, err := key.Build(key.Options{Namespace: namespace, Path: elems})
	if err != nil {
		return nil, err
	}
	return value.KeyValue{Key: k}, nil
}

func timestampLiteral(v value.Value) (value.Value, error) {
	switch t := v.(type) {
	case value.Timestamp:
		return t, nil
	case value.String:
		parsed, err := time.Parse(time.RFC3339Nano, string(t))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tagTimestamp, err)
		}
		return value.Timestamp(parsed), nil
	}
	return nil, fmt.Errorf("%s requires an RFC 3339 string", tagTimestamp)
}

func asFloat(v value.Value) (float64, bool) {
	switch n := v.(type) {
	case value.Int:
		return float64(n), true
	case value.Double:
		return float64(n), true
	case value.Number:
		return float64(n), true
	}
	return 0, false
}
