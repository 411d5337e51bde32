package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Int64 is a 64-bit integer carried as a JSON decimal string.
type Int64 int64

// MarshalJSON implements json.Marshaler for Int64.
func (n Int64) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatInt(int64(n), 10))), nil
}

// UnmarshalJSON implements json.Unmarshaler for Int64.
// Accepts both "123" and 123.
func (n *Int64) UnmarshalJSON(data []byte) error {
	text := string(bytes.TrimSpace(data))
	if len(text) > 0 && text[0] == '"' {
		unquoted, err := strconv.Unquote(text)
		if err != nil {
			return fmt.Errorf("int64: %w", err)
		}
		text = unquoted
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return fmt.Errorf("int64: %w", err)
	}
	*n = Int64(v)
	return nil
}

// PartitionID scopes a key to a namespace.
type PartitionID struct {
	Namespace string `json:"namespace"`
}

// PathElement is one (kind, identifier) segment of a key path.
// At most one of ID and Name is set; neither is set on the last element of an
// incomplete key.
type PathElement struct {
	Kind string  `json:"kind"`
	ID   *Int64  `json:"id,omitempty"`
	Name *string `json:"name,omitempty"`
}

// HasIdentifier reports whether the element carries an id or a name.
func (e PathElement) HasIdentifier() bool {
	return e.ID != nil || e.Name != nil
}

// Key is the protocol key: an optional partition plus the path from the root
// ancestor to the addressed entity.
type Key struct {
	PartitionID *PartitionID  `json:"partition_id,omitempty"`
	PathElement []PathElement `json:"path_element"`
}

// Property is the wire-side tagged union. Exactly one field is expected to be
// set; which one is determined by presence, not by a tag.
type Property struct {
	BooleanValue               *bool        `json:"boolean_value,omitempty"`
	IntegerValue               *Int64       `json:"integer_value,omitempty"`
	DoubleValue                *float64     `json:"double_value,omitempty"`
	StringValue                *string      `json:"string_value,omitempty"`
	BlobValue                  *[]byte      `json:"blob_value,omitempty"`
	TimestampMicrosecondsValue *Int64       `json:"timestamp_microseconds_value,omitempty"`
	KeyValue                   *Key         `json:"key_value,omitempty"`
	EntityValue                *EntityValue `json:"entity_value,omitempty"`
	ListValue                  *[]Property  `json:"list_value,omitempty"`
}

// EntityValue is a nested entity stored inside a property.
type EntityValue struct {
	Property []NamedProperty `json:"property"`
	Indexed  bool            `json:"indexed"`
}

// NamedProperty pairs a property name with its value.
type NamedProperty struct {
	Name  string   `json:"name"`
	Value Property `json:"value"`
}

// Entity is the protocol entity. Key is emitted as null when unset.
type Entity struct {
	Key      *Key            `json:"key"`
	Property []NamedProperty `json:"property"`
}

// EntityResult is one element of a lookup or query response batch.
type EntityResult struct {
	Entity Entity `json:"entity"`
}

// PropertyKind identifies which field of a Property is set.
type PropertyKind int

const (
	KindNone PropertyKind = iota
	KindInteger
	KindDouble
	KindString
	KindBlob
	KindTimestamp
	KindKey
	KindEntity
	KindBoolean
	KindList
)

var propertyKindNames = map[PropertyKind]string{
	KindNone:      "none",
	KindInteger:   "integer_value",
	KindDouble:    "double_value",
	KindString:    "string_value",
	KindBlob:      "blob_value",
	KindTimestamp: "timestamp_microseconds_value",
	KindKey:       "key_value",
	KindEntity:    "entity_value",
	KindBoolean:   "boolean_value",
	KindList:      "list_value",
}

func (k PropertyKind) String() string {
	if name, ok := propertyKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("PropertyKind(%d)", int(k))
}

// Kind returns the first present field in precedence order: integer, double,
// string, blob, timestamp, key, entity, boolean, list. A property with no
// field set yields KindNone.
func (p Property) Kind() PropertyKind {
	switch {
	case p.IntegerValue != nil:
		return KindInteger
	case p.DoubleValue != nil:
		return KindDouble
	case p.StringValue != nil:
		return KindString
	case p.BlobValue != nil:
		return KindBlob
	case p.TimestampMicrosecondsValue != nil:
		return KindTimestamp
	case p.KeyValue != nil:
		return KindKey
	case p.EntityValue != nil:
		return KindEntity
	case p.BooleanValue != nil:
		return KindBoolean
	case p.ListValue != nil:
		return KindList
	default:
		return KindNone
	}
}

// BooleanProperty creates a Property with boolean_value set.
func BooleanProperty(b bool) Property { return Property{BooleanValue: &b} }

// IntegerProperty creates a Property with integer_value set.
func IntegerProperty(n int64) Property {
	v := Int64(n)
	return Property{IntegerValue: &v}
}

// DoubleProperty creates a Property with double_value set.
func DoubleProperty(f float64) Property { return Property{DoubleValue: &f} }

// StringProperty creates a Property with string_value set.
func StringProperty(s string) Property { return Property{StringValue: &s} }

// BlobProperty creates a Property with blob_value set. A nil b is stored as
// an empty blob so the field still counts as present.
func BlobProperty(b []byte) Property {
	if b == nil {
		b = []byte{}
	}
	return Property{BlobValue: &b}
}

// TimestampProperty creates a Property with timestamp_microseconds_value set.
func TimestampProperty(micros int64) Property {
	v := Int64(micros)
	return Property{TimestampMicrosecondsValue: &v}
}

// KeyProperty creates a Property with key_value set.
func KeyProperty(k Key) Property { return Property{KeyValue: &k} }

// EntityProperty creates a Property with entity_value set.
func EntityProperty(ev EntityValue) Property { return Property{EntityValue: &ev} }

// ListProperty creates a Property with list_value set. A nil list is stored
// as an empty list so the field still counts as present.
func ListProperty(items []Property) Property {
	if items == nil {
		items = []Property{}
	}
	return Property{ListValue: &items}
}

// ParseEntity decodes a JSON protocol entity.
func ParseEntity(data []byte) (Entity, error) {
	var e Entity
	if err := json.Unmarshal(data, &e); err != nil {
		return Entity{}, fmt.Errorf("parse entity: %w", err)
	}
	return e, nil
}
