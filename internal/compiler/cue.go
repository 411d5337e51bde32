// Package compiler loads native records and query descriptions from CUE and
// YAML documents.
//
// CUE distinguishes int from float, so document numbers map to value.Int and
// value.Double directly and never go through the plain-number heuristic.
// Values a document cannot spell natively use tagged literals:
//
//	owner:   {"@key": ["Company", "Google", "Employee", 7], "@namespace": "prod"}
//	created: {"@timestamp": "2024-01-02T03:04:05Z"}
//	score:   {"@double": 3}
//	payload: {"@blob": "AQID"}
package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/dscodec/internal/query"
	"github.com/roach88/dscodec/internal/value"
)

// CompileRecord parses a CUE struct into a native record.
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`name: "Ada", age: 36`)
//	rec, err := CompileRecord(v)
func CompileRecord(v cue.Value) (value.Record, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError("cue", err)
	}
	if v.IncompleteKind() != cue.StructKind {
		return nil, &CompileError{
			Field:   "record",
			Message: fmt.Sprintf("record must be a struct, got %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}

	val, err := CompileValue(v, "")
	if err != nil {
		return nil, err
	}
	rec, ok := val.(value.Record)
	if !ok {
		return nil, &CompileError{
			Field:   "record",
			Message: "record must not be a tagged literal",
			Pos:     v.Pos(),
		}
	}
	return rec, nil
}

// CompileValue converts a concrete CUE value to a native value. field names
// the value's location for error messages.
func CompileValue(v cue.Value, field string) (value.Value, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(field, err)
	}
	v, _ = v.Default()
	if !v.IsConcrete() {
		return nil, &CompileError{
			Field:   field,
			Message: "value must be concrete",
			Pos:     v.Pos(),
		}
	}

	switch v.Kind() {
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(field, err)
		}
		return value.Bool(b), nil
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return nil, formatCUEError(field, err)
		}
		return value.Int(n), nil
	case cue.FloatKind:
		f, err := v.Float64()
		if err != nil {
			return nil, formatCUEError(field, err)
		}
		return value.Double(f), nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(field, err)
		}
		return value.String(s), nil
	case cue.BytesKind:
		b, err := v.Bytes()
		if err != nil {
			return nil, formatCUEError(field, err)
		}
		return value.Blob(b), nil
	case cue.ListKind:
		return compileList(v, field)
	case cue.StructKind:
		return compileStruct(v, field)
	default:
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("unsupported value kind: %v", v.Kind()),
			Pos:     v.Pos(),
		}
	}
}

func compileList(v cue.Value, field string) (value.Value, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(field, err)
	}

	list := value.List{}
	for i := 0; iter.Next(); i++ {
		item, err := CompileValue(iter.Value(), indexField(field, i))
		if err != nil {
			return nil, err
		}
		list = append(list, item)
	}
	return list, nil
}

func compileStruct(v cue.Value, field string) (value.Value, error) {
	iter, err := v.Fields()
	if err != nil {
		return nil, formatCUEError(field, err)
	}

	rec := value.Record{}
	for iter.Next() {
		name := iter.Label()
		item, err := CompileValue(iter.Value(), joinField(field, name))
		if err != nil {
			return nil, err
		}
		rec[name] = item
	}

	if !isTagged(rec) {
		return rec, nil
	}
	resolved, err := resolveTagged(rec)
	if err != nil {
		return nil, &CompileError{Field: field, Message: err.Error(), Pos: v.Pos()}
	}
	return resolved, nil
}

// CompileQuery parses a CUE query document.
//
// Query documents have the fields namespace, kind (string or list), filter
// (list of {property, op, value} or {ancestor}), order (list of "name" or
// "-name"), select, group_by, start, end, limit and offset.
func CompileQuery(v cue.Value) (*query.Query, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError("cue", err)
	}

	rec, err := CompileRecord(v)
	if err != nil {
		return nil, err
	}

	q, field, err := queryFromRecord(rec)
	if err != nil {
		return nil, &CompileError{Field: field, Message: err.Error(), Pos: v.Pos()}
	}
	return q, nil
}
