package compiler

import (
	"fmt"

	"github.com/roach88/dscodec/internal/query"
	"github.com/roach88/dscodec/internal/value"
)

// queryFromRecord builds a query from a decoded query document. On error it
// also returns the offending field.
func queryFromRecord(rec value.Record) (*query.Query, string, error) {
	q := &query.Query{}

	for _, name := range rec.SortedKeys() {
		v := rec[name]
		var err error
		switch name {
		case "namespace":
			q.Namespace, err = asString(v)
		case "kind":
			q.Kinds, err = asStrings(v)
		case "filter":
			q.Filters, name, err = filtersFromValue(v)
		case "order":
			var orders []string
			if orders, err = asStrings(v); err == nil {
				for _, o := range orders {
					q = q.Order(o)
				}
			}
		case "select":
			q.SelectVal, err = asStrings(v)
		case "group_by":
			q.GroupByVal, err = asStrings(v)
		case "start":
			q.StartVal, err = asString(v)
		case "end":
			q.EndVal, err = asString(v)
		case "limit":
			q.LimitVal, err = asInt(v)
		case "offset":
			q.OffsetVal, err = asInt(v)
		default:
			err = fmt.Errorf("unknown query field")
		}
		if err != nil {
			return nil, name, err
		}
	}

	return q, "", nil
}

func filtersFromValue(v value.Value) ([]query.Filter, string, error) {
	list, ok := v.(value.List)
	if !ok {
		return nil, "filter", fmt.Errorf("filter must be a list")
	}

	filters := make([]query.Filter, 0, len(list))
	for i, item := range list {
		field := indexField("filter", i)
		rec, ok := item.(value.Record)
		if !ok {
			return nil, field, fmt.Errorf("filter must be a struct")
		}

		if anc, ok := rec["ancestor"]; ok {
			if len(rec) != 1 {
				return nil, field, fmt.Errorf("ancestor filter takes no other fields")
			}
			kv, ok := anc.(value.KeyValue)
			if !ok {
				return nil, joinField(field, "ancestor"), fmt.Errorf("ancestor must be a key literal")
			}
			filters = append(filters, query.Filter{Name: query.KeyField, Op: "HAS_ANCESTOR", Val: kv})
			continue
		}

		f := query.Filter{Op: "="}
		for _, name := range rec.SortedKeys() {
			var err error
			switch name {
			case "property":
				f.Name, err = asString(rec[name])
			case "op":
				f.Op, err = asString(rec[name])
			case "value":
				f.Val = rec[name]
			default:
				err = fmt.Errorf("unknown filter field")
			}
			if err != nil {
				return nil, joinField(field, name), err
			}
		}
		if f.Name == "" {
			return nil, joinField(field, "property"), fmt.Errorf("property is required")
		}
		if f.Val == nil {
			return nil, joinField(field, "value"), fmt.Errorf("value is required")
		}
		filters = append(filters, f)
	}
	return filters, "", nil
}

func asString(v value.Value) (string, error) {
	s, ok := v.(value.String)
	if !ok {
		return "", fmt.Errorf("must be a string")
	}
	return string(s), nil
}

// asStrings accepts a single string or a list of strings.
func asStrings(v value.Value) ([]string, error) {
	if s, ok := v.(value.String); ok {
		return []string{string(s)}, nil
	}
	list, ok := v.(value.List)
	if !ok {
		return nil, fmt.Errorf("must be a string or list of strings")
	}
	out := make([]string, len(list))
	for i, item := range list {
		s, ok := item.(value.String)
		if !ok {
			return nil, fmt.Errorf("element %d must be a string", i)
		}
		out[i] = string(s)
	}
	return out, nil
}

func asInt(v value.Value) (int, error) {
	n, ok := v.(value.Int)
	if !ok {
		return 0, fmt.Errorf("must be an integer")
	}
	return int(n), nil
}
