package query

import (
	"slices"
	"strings"

	"github.com/roach88/dscodec/internal/key"
	"github.com/roach88/dscodec/internal/value"
)

// KeyField is the reserved property name that refers to an entity's key.
const KeyField = "__key__"

// Filter compares a property with a value.
type Filter struct {
	Name string
	Op   string
	Val  value.Value
}

// Order sorts by a property. Sign is "+" (ascending) or "-" (descending).
type Order struct {
	Name string
	Sign string
}

// Query is a declarative query description.
//
// StartVal and EndVal are base64 cursor strings; empty means unset.
// LimitVal and OffsetVal are unset when not positive.
type Query struct {
	// Namespace is carried for callers building the request partition.
	// It is not part of the compiled query.
	Namespace  string
	Kinds      []string
	Filters    []Filter
	Orders     []Order
	GroupByVal []string
	SelectVal  []string
	StartVal   string
	EndVal     string
	LimitVal   int
	OffsetVal  int
}

// New creates a query over the given kinds.
func New(namespace string, kinds ...string) *Query {
	return &Query{Namespace: namespace, Kinds: slices.Clone(kinds)}
}

// clone returns a copy that shares no slices with q.
func (q *Query) clone() *Query {
	c := *q
	c.Kinds = slices.Clone(q.Kinds)
	c.Filters = slices.Clone(q.Filters)
	c.Orders = slices.Clone(q.Orders)
	c.GroupByVal = slices.Clone(q.GroupByVal)
	c.SelectVal = slices.Clone(q.SelectVal)
	return &c
}

// filterOps are the operators recognized at the end of a filter expression,
// longest first so ">=" wins over ">".
var filterOps = []string{">=", "<=", "=", ">", "<"}

// Filter adds a filter from an expression of the form "name op", for example
// "age >=". A bare name means equality.
func (q *Query) Filter(expr string, val value.Value) *Query {
	name, op := parseFilterExpr(expr)
	c := q.clone()
	c.Filters = append(c.Filters, Filter{Name: name, Op: op, Val: val})
	return c
}

func parseFilterExpr(expr string) (string, string) {
	expr = strings.TrimSpace(expr)
	for _, op := range filterOps {
		if name, ok := strings.CutSuffix(expr, op); ok {
			return strings.TrimSpace(name), op
		}
	}
	return expr, "="
}

// HasAncestor restricts results to descendants of k.
func (q *Query) HasAncestor(k *key.Key) *Query {
	c := q.clone()
	c.Filters = append(c.Filters, Filter{Name: KeyField, Op: "HAS_ANCESTOR", Val: value.KeyValue{Key: k}})
	return c
}

// Order adds a sort order. A leading "-" sorts descending, a leading "+" or
// no sign ascending.
func (q *Query) Order(property string) *Query {
	sign := "+"
	switch {
	case strings.HasPrefix(property, "-"):
		sign, property = "-", property[1:]
	case strings.HasPrefix(property, "+"):
		property = property[1:]
	}
	c := q.clone()
	c.Orders = append(c.Orders, Order{Name: property, Sign: sign})
	return c
}

// GroupBy sets the properties to group results by.
func (q *Query) GroupBy(fields ...string) *Query {
	c := q.clone()
	c.GroupByVal = slices.Clone(fields)
	return c
}

// Select sets the projected properties.
func (q *Query) Select(fields ...string) *Query {
	c := q.clone()
	c.SelectVal = slices.Clone(fields)
	return c
}

// Start sets the start cursor.
func (q *Query) Start(cursor string) *Query {
	c := q.clone()
	c.StartVal = cursor
	return c
}

// End sets the end cursor.
func (q *Query) End(cursor string) *Query {
	c := q.clone()
	c.EndVal = cursor
	return c
}

// Limit sets the maximum number of results. n <= 0 removes the limit.
func (q *Query) Limit(n int) *Query {
	c := q.clone()
	c.LimitVal = n
	return c
}

// Offset sets the number of results to skip. n <= 0 removes the offset.
func (q *Query) Offset(n int) *Query {
	c := q.clone()
	c.OffsetVal = n
	return c
}
