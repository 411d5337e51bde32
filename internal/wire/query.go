package wire

// Filter operator codes.
const (
	OperatorEqual              = "EQUAL"
	OperatorGreaterThan        = "GREATER_THAN"
	OperatorGreaterThanOrEqual = "GREATER_THAN_OR_EQUAL"
	OperatorLessThan           = "LESS_THAN"
	OperatorLessThanOrEqual    = "LESS_THAN_OR_EQUAL"
	OperatorHasAncestor        = "HAS_ANCESTOR"
	OperatorAnd                = "AND"
)

// Order directions.
const (
	DirectionAscending  = "ASCENDING"
	DirectionDescending = "DESCENDING"
)

// PropertyReference names a property.
type PropertyReference struct {
	Name string `json:"name"`
}

// KindExpression names a kind to query.
type KindExpression struct {
	Name string `json:"name"`
}

// PropertyExpression is a projected property.
type PropertyExpression struct {
	Property PropertyReference `json:"property"`
}

// PropertyOrder orders results by a property.
type PropertyOrder struct {
	Property  PropertyReference `json:"property"`
	Direction string            `json:"direction"`
}

// PropertyFilter compares a property against a value.
type PropertyFilter struct {
	Property PropertyReference `json:"property"`
	Operator string            `json:"operator"`
	Value    Property          `json:"value"`
}

// CompositeFilter combines filters. Only AND is produced.
type CompositeFilter struct {
	Filter   []Filter `json:"filter"`
	Operator string   `json:"operator"`
}

// Filter holds either a composite or a property filter.
type Filter struct {
	CompositeFilter *CompositeFilter `json:"composite_filter,omitempty"`
	PropertyFilter  *PropertyFilter  `json:"property_filter,omitempty"`
}

// Query is the protocol query. Cursors, offset and limit are omitted when
// unset; the list fields are always emitted, empty or not.
type Query struct {
	Projection  []PropertyExpression `json:"projection"`
	Kind        []KindExpression     `json:"kind"`
	Filter      *Filter              `json:"filter,omitempty"`
	Order       []PropertyOrder      `json:"order"`
	GroupBy     []PropertyReference  `json:"group_by"`
	StartCursor []byte               `json:"start_cursor,omitempty"`
	EndCursor   []byte               `json:"end_cursor,omitempty"`
	Offset      int32                `json:"offset,omitempty"`
	Limit       int32                `json:"limit,omitempty"`
}
