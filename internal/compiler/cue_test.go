package compiler

import (
	"testing"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dscodec/internal/key"
	"github.com/roach88/dscodec/internal/value"
)

func compileString(t *testing.T, src string) cue.Value {
	t.Helper()
	v := cuecontext.New().CompileString(src, cue.Filename("test.cue"))
	require.NoError(t, v.Err())
	return v
}

func TestCompileRecordBasic(t *testing.T) {
	v := compileString(t, `
		name:   "Ada"
		age:    36
		score:  9.5
		legit:  true
		tags:   ["a", "b"]
		raw:    '\x01\x02'
		address: {
			city: "London"
		}
	`)

	rec, err := CompileRecord(v)
	require.NoError(t, err)

	assert.Equal(t, value.Record{
		"name":    value.String("Ada"),
		"age":     value.Int(36),
		"score":   value.Double(9.5),
		"legit":   value.Bool(true),
		"tags":    value.List{value.String("a"), value.String("b")},
		"raw":     value.Blob{1, 2},
		"address": value.Record{"city": value.String("London")},
	}, rec)
}

func TestCompileRecordFloatWithIntegralValue(t *testing.T) {
	v := compileString(t, `ratio: 3.0`)

	rec, err := CompileRecord(v)
	require.NoError(t, err)
	assert.Equal(t, value.Double(3), rec["ratio"])
}

func TestCompileRecordTaggedLiterals(t *testing.T) {
	v := compileString(t, `
		owner:   {"@key": ["Company", "Google", "Employee", 7], "@namespace": "prod"}
		created: {"@timestamp": "2024-01-02T03:04:05Z"}
		weight:  {"@double": 3}
		count:   {"@int": 4.0}
		payload: {"@blob": "AQID"}
	`)

	rec, err := CompileRecord(v)
	require.NoError(t, err)

	owner, ok := rec["owner"].(value.KeyValue)
	require.True(t, ok)
	assert.True(t, key.Equal(key.MustBuild("prod", "Company", "Google", "Employee", int64(7)), owner.Key))

	assert.True(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC).Equal(rec["created"].(value.Timestamp).Time()))
	assert.Equal(t, value.Double(3), rec["weight"])
	assert.Equal(t, value.Int(4), rec["count"])
	assert.Equal(t, value.Blob{1, 2, 3}, rec["payload"])
}

func TestCompileRecordTaggedErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown tag", `x: {"@uuid": "abc"}`, "unknown tag"},
		{"mixed fields", `x: {"@double": 1, other: 2}`, "exactly one field"},
		{"key with extra field", `x: {"@key": ["A", "b"], other: 1}`, "unexpected field"},
		{"key not list", `x: {"@key": "A"}`, "list path"},
		{"key zero id", `x: {"@key": ["A", 0]}`, "MALFORMED_KEY"},
		{"namespace alone", `x: {"@namespace": "ns"}`, "requires @key"},
		{"bad timestamp", `x: {"@timestamp": "yesterday"}`, "@timestamp"},
		{"fractional int", `x: {"@int": 1.5}`, "integral"},
		{"bad blob", `x: {"@blob": "***"}`, "@blob"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileRecord(compileString(t, tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)

			var ce *CompileError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, "x", ce.Field)
		})
	}
}

func TestCompileRecordNotStruct(t *testing.T) {
	v := compileString(t, `[1, 2]`)

	_, err := CompileRecord(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a struct")
}

func TestCompileRecordIncomplete(t *testing.T) {
	v := compileString(t, `name: string`)

	_, err := CompileRecord(v)
	require.Error(t, err)

	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "name", ce.Field)
	assert.Contains(t, ce.Message, "concrete")
}

func TestCompileRecordDefaultValue(t *testing.T) {
	v := compileString(t, `level: *1 | 2`)

	rec, err := CompileRecord(v)
	require.NoError(t, err)
	assert.Equal(t, value.Int(1), rec["level"])
}

func TestCompileRecordNull(t *testing.T) {
	v := compileString(t, `nothing: null`)

	_, err := CompileRecord(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported value kind")
}

func TestCompileRecordNestedFieldPath(t *testing.T) {
	v := compileString(t, `a: { b: [1, {c: string}] }`)

	_, err := CompileRecord(v)
	var ce *CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "a.b[1].c", ce.Field)
}

func TestCompileErrorWithoutPosition(t *testing.T) {
	err := &CompileError{Field: "kind", Message: "must be a string"}
	assert.Equal(t, "kind: must be a string", err.Error())

	err = &CompileError{Field: "kind", Message: "must be a string", Line: 3, Column: 7}
	assert.Equal(t, "3:7: kind: must be a string", err.Error())
}
