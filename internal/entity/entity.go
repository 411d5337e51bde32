// Package entity converts flat native records to and from wire entities and
// formats lookup/query result batches.
package entity

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/dscodec/internal/codecerr"
	"github.com/roach88/dscodec/internal/key"
	"github.com/roach88/dscodec/internal/value"
	"github.com/roach88/dscodec/internal/wire"
)

// Result is a decoded entity paired with its key.
type Result struct {
	Key  *key.Key     `json:"key"`
	Data value.Record `json:"data"`
}

// MarshalJSON renders Data as plain JSON values and the key in its
// Kind:identifier form.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key  *key.Key `json:"key"`
		Data any      `json:"data"`
	}{Key: r.Key, Data: value.ToGo(r.Data)})
}

// ToProto converts a record to a wire entity. The key is left nil; use
// WithKey to attach one.
func ToProto(rec value.Record) (wire.Entity, error) {
	props, err := value.EncodeRecord(rec)
	if err != nil {
		return wire.Entity{}, fmt.Errorf("encode entity: %w", err)
	}
	return wire.Entity{Key: nil, Property: props}, nil
}

// WithKey returns e with its key set to the wire form of k.
func WithKey(e wire.Entity, k *key.Key) (wire.Entity, error) {
	pk, err := key.ToProto(k)
	if err != nil {
		return wire.Entity{}, err
	}
	e.Key = &pk
	return e, nil
}

// FromProto decodes the properties of a wire entity into a flat record.
// The entity's key is ignored.
func FromProto(e wire.Entity) (value.Record, error) {
	rec, err := value.DecodeProperties(e.Property)
	if err != nil {
		return nil, fmt.Errorf("decode entity: %w", err)
	}
	return rec, nil
}

// FormatResults decodes each result's key and properties, preserving order.
func FormatResults(results []wire.EntityResult) ([]Result, error) {
	out := make([]Result, 0, len(results))
	for i, r := range results {
		if r.Entity.Key == nil {
			return nil, fmt.Errorf("result %d: %w", i, codecerr.MalformedKey("entity has no key"))
		}
		k, err := key.FromProto(*r.Entity.Key)
		if err != nil {
			return nil, fmt.Errorf("result %d: %w", i, err)
		}
		data, err := FromProto(r.Entity)
		if err != nil {
			return nil, fmt.Errorf("result %d: %w", i, err)
		}
		out = append(out, Result{Key: k, Data: data})
	}
	return out, nil
}
