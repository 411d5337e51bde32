package query

import (
	"encoding/base64"
	"fmt"
	"math"

	"github.com/roach88/dscodec/internal/codecerr"
	"github.com/roach88/dscodec/internal/key"
	"github.com/roach88/dscodec/internal/value"
	"github.com/roach88/dscodec/internal/wire"
)

var operators = map[string]string{
	"=":            wire.OperatorEqual,
	">":            wire.OperatorGreaterThan,
	">=":           wire.OperatorGreaterThanOrEqual,
	"<":            wire.OperatorLessThan,
	"<=":           wire.OperatorLessThanOrEqual,
	"HAS_ANCESTOR": wire.OperatorHasAncestor,
}

var directions = map[string]string{
	"-": wire.DirectionDescending,
	"+": wire.DirectionAscending,
}

// Compile converts a query description to the protocol query.
// Compile is a pure function with no side effects.
func Compile(q *Query) (wire.Query, error) {
	if q == nil {
		return wire.Query{}, fmt.Errorf("cannot compile nil query")
	}

	out := wire.Query{
		Projection: make([]wire.PropertyExpression, 0, len(q.SelectVal)),
		Kind:       make([]wire.KindExpression, 0, len(q.Kinds)),
		Order:      make([]wire.PropertyOrder, 0, len(q.Orders)),
		GroupBy:    make([]wire.PropertyReference, 0, len(q.GroupByVal)),
	}

	for _, name := range q.SelectVal {
		out.Projection = append(out.Projection, wire.PropertyExpression{Property: wire.PropertyReference{Name: name}})
	}
	for _, kind := range q.Kinds {
		out.Kind = append(out.Kind, wire.KindExpression{Name: kind})
	}

	if len(q.Filters) > 0 {
		filters := make([]wire.Filter, 0, len(q.Filters))
		for i, f := range q.Filters {
			pf, err := compileFilter(f)
			if err != nil {
				return wire.Query{}, fmt.Errorf("filter[%d] %q: %w", i, f.Name, err)
			}
			filters = append(filters, wire.Filter{PropertyFilter: pf})
		}
		out.Filter = &wire.Filter{CompositeFilter: &wire.CompositeFilter{
			Filter:   filters,
			Operator: wire.OperatorAnd,
		}}
	}

	for _, o := range q.Orders {
		direction, ok := directions[o.Sign]
		if !ok {
			return wire.Query{}, fmt.Errorf("order %q: %w", o.Name, codecerr.UnsupportedOperator(o.Sign))
		}
		out.Order = append(out.Order, wire.PropertyOrder{
			Property:  wire.PropertyReference{Name: o.Name},
			Direction: direction,
		})
	}

	for _, name := range q.GroupByVal {
		out.GroupBy = append(out.GroupBy, wire.PropertyReference{Name: name})
	}

	var err error
	if q.StartVal != "" {
		if out.StartCursor, err = decodeCursor(q.StartVal); err != nil {
			return wire.Query{}, fmt.Errorf("start cursor: %w", err)
		}
	}
	if q.EndVal != "" {
		if out.EndCursor, err = decodeCursor(q.EndVal); err != nil {
			return wire.Query{}, fmt.Errorf("end cursor: %w", err)
		}
	}

	if out.Offset, err = positiveInt32("offset", q.OffsetVal); err != nil {
		return wire.Query{}, err
	}
	if out.Limit, err = positiveInt32("limit", q.LimitVal); err != nil {
		return wire.Query{}, err
	}

	return out, nil
}

// compileFilter converts one filter to a property filter.
func compileFilter(f Filter) (*wire.PropertyFilter, error) {
	op, ok := operators[f.Op]
	if !ok {
		return nil, codecerr.UnsupportedOperator(f.Op)
	}

	var prop wire.Property
	if f.Name == KeyField {
		kv, ok := f.Val.(value.KeyValue)
		if !ok || kv.Key == nil {
			return nil, codecerr.UnsupportedValue(f.Val, "%s filter requires a key value", KeyField)
		}
		pk, err := key.ToProto(kv.Key)
		if err != nil {
			return nil, err
		}
		prop = wire.KeyProperty(pk)
	} else {
		var err error
		if prop, err = value.Encode(f.Val); err != nil {
			return nil, err
		}
	}

	return &wire.PropertyFilter{
		Property: wire.PropertyReference{Name: f.Name},
		Operator: op,
		Value:    prop,
	}, nil
}

// decodeCursor decodes a standard or URL-safe base64 cursor.
func decodeCursor(cursor string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(cursor)
	if err == nil {
		return b, nil
	}
	if b, urlErr := base64.URLEncoding.DecodeString(cursor); urlErr == nil {
		return b, nil
	}
	return nil, codecerr.InvalidCursor(cursor, err)
}

// positiveInt32 returns n when positive, 0 (omitted) otherwise.
func positiveInt32(field string, n int) (int32, error) {
	if n <= 0 {
		return 0, nil
	}
	if n > math.MaxInt32 {
		return 0, codecerr.UnsupportedValue(n, "%s %d exceeds int32", field, n)
	}
	return int32(n), nil
}
