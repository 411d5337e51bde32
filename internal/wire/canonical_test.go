package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalSortsKeys(t *testing.T) {
	data, err := MarshalCanonical(map[string]any{"b": 1, "a": "<x&y>", "A": true})
	require.NoError(t, err)
	assert.Equal(t, `{"A":true,"a":"<x&y>","b":1}`, string(data))
}

func TestMarshalCanonicalStruct(t *testing.T) {
	data, err := MarshalCanonical(PathElement{Kind: "Company", ID: ptrInt64(7)})
	require.NoError(t, err)
	assert.Equal(t, `{"id":"7","kind":"Company"}`, string(data))
}

func TestMarshalCanonicalNullKey(t *testing.T) {
	data, err := MarshalCanonical(Entity{Property: []NamedProperty{}})
	require.NoError(t, err)
	assert.Equal(t, `{"key":null,"property":[]}`, string(data))
}

func TestMarshalCanonicalNFC(t *testing.T) {
	// "e" + combining acute accent normalizes to precomposed U+00E9
	data, err := MarshalCanonical("e\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(data))
}

func TestMarshalCanonicalLineSeparators(t *testing.T) {
	data, err := MarshalCanonical("a\u2028b\u2029c")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\u2029c\"", string(data))

	// literal backslash followed by u2028 text must stay escaped
	data, err = MarshalCanonical(`\u2028`)
	require.NoError(t, err)
	assert.Equal(t, `"\\u2028"`, string(data))
}

func TestCompareKeysRFC8785(t *testing.T) {
	assert.Equal(t, -1, compareKeysRFC8785("A", "a"))
	assert.Equal(t, -1, compareKeysRFC8785("a", "aa"))
	assert.Equal(t, 0, compareKeysRFC8785("x", "x"))
	// U+FFFD (BMP) sorts after U+1F600 in UTF-16 (surrogate 0xD83D) but before it in UTF-8
	assert.Equal(t, 1, compareKeysRFC8785("\uFFFD", "\U0001F600"))
}

func TestEntityDigestStable(t *testing.T) {
	e := Entity{Property: []NamedProperty{{Name: "name", Value: StringProperty("Ada")}}}
	d1, err := EntityDigest(e)
	require.NoError(t, err)
	d2, err := EntityDigest(e)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
	assert.Len(t, d1, 64)

	other := Entity{Property: []NamedProperty{{Name: "name", Value: StringProperty("Grace")}}}
	d3, err := EntityDigest(other)
	require.NoError(t, err)
	assert.NotEqual(t, d1, d3)
}

func TestQueryDigestDiffersFromEntityDomain(t *testing.T) {
	qd, err := QueryDigest(Query{})
	require.NoError(t, err)
	ed, err := EntityDigest(Entity{})
	require.NoError(t, err)
	assert.NotEqual(t, qd, ed)
}

func ptrInt64(n int64) *Int64 {
	v := Int64(n)
	return &v
}
