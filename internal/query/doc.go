// Package query describes queries declaratively and compiles them to the
// protocol query representation.
//
// A Query is a plain description: kinds, filters, orders, projection,
// grouping, cursors and paging. Builder methods return modified copies, so a
// base query can be shared and refined:
//
//	base := query.New("", "Task").Filter("done =", value.Bool(false))
//	recent := base.Order("-created").Limit(10)
//
// Compile is a pure function. Filters are always combined with AND; there is
// no OR and no nesting of composite filters. A filter on the reserved
// __key__ field takes a key value and is emitted as key_value.
//
// Operator table:
//
//	=             EQUAL
//	>             GREATER_THAN
//	>=            GREATER_THAN_OR_EQUAL
//	<             LESS_THAN
//	<=            LESS_THAN_OR_EQUAL
//	HAS_ANCESTOR  HAS_ANCESTOR
//
// Order signs: "+" ascending, "-" descending.
package query
