package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dscodec/internal/codecerr"
	"github.com/roach88/dscodec/internal/key"
	"github.com/roach88/dscodec/internal/testutil"
	"github.com/roach88/dscodec/internal/value"
	"github.com/roach88/dscodec/internal/wire"
)

func TestToProtoKeyIsNull(t *testing.T) {
	e, err := ToProto(value.Record{"name": value.String("Ada")})
	require.NoError(t, err)
	assert.Nil(t, e.Key)

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":null,"property":[{"name":"name","value":{"string_value":"Ada"}}]}`, string(data))
}

func TestToProtoEmptyRecord(t *testing.T) {
	e, err := ToProto(value.Record{})
	require.NoError(t, err)
	assert.NotNil(t, e.Property)
	assert.Empty(t, e.Property)
}

func TestToProtoPropagatesValueErrors(t *testing.T) {
	_, err := ToProto(value.Record{"nested": value.Record{}})
	require.Error(t, err)
	assert.True(t, codecerr.IsUnsupportedValue(err))
	assert.Contains(t, err.Error(), `"nested"`)
}

func TestEntityRoundTrip(t *testing.T) {
	rec := value.Record{"name": value.String("Ada"), "legit": value.Bool(true)}

	e, err := ToProto(rec)
	require.NoError(t, err)

	got, err := FromProto(e)
	require.NoError(t, err)
	assert.True(t, value.Equal(rec, got))
}

func TestEntityRoundTripThroughJSON(t *testing.T) {
	rec := value.Record{
		"count":   value.Int(3),
		"ratio":   value.Double(0.5),
		"created": value.Timestamp(time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)),
		"owner":   value.KeyValue{Key: key.MustBuild("", "User", "ada")},
		"payload": value.Blob{0xde, 0xad},
		"address": value.Record{"city": value.String("London")},
	}

	e, err := ToProto(rec)
	require.NoError(t, err)
	data, err := json.Marshal(e)
	require.NoError(t, err)

	parsed, err := wire.ParseEntity(data)
	require.NoError(t, err)
	got, err := FromProto(parsed)
	require.NoError(t, err)
	assert.True(t, value.Equal(rec, got), "want %#v got %#v", rec, got)
}

func TestWithKey(t *testing.T) {
	e, err := ToProto(value.Record{"a": value.Int(1)})
	require.NoError(t, err)

	keyed, err := WithKey(e, key.MustBuild("ns", "Company", 5))
	require.NoError(t, err)
	require.NotNil(t, keyed.Key)
	assert.Equal(t, "ns", keyed.Key.PartitionID.Namespace)
	assert.Nil(t, e.Key, "original entity is not modified")

	_, err = WithKey(e, &key.Key{})
	assert.True(t, codecerr.IsMalformedKey(err))
}

func TestFormatResults(t *testing.T) {
	k1 := key.MustBuild("", "Company", "Google")
	k2 := key.MustBuild("", "Company", "Google", "Branch", 1)

	var results []wire.EntityResult
	for _, item := range []struct {
		k   *key.Key
		rec value.Record
	}{
		{k1, value.Record{"name": value.String("Google")}},
		{k2, value.Record{"open": value.Bool(true)}},
	} {
		e, err := ToProto(item.rec)
		require.NoError(t, err)
		e, err = WithKey(e, item.k)
		require.NoError(t, err)
		results = append(results, wire.EntityResult{Entity: e})
	}

	formatted, err := FormatResults(results)
	require.NoError(t, err)
	require.Len(t, formatted, 2)
	assert.True(t, key.Equal(k1, formatted[0].Key))
	assert.Equal(t, value.Record{"name": value.String("Google")}, formatted[0].Data)
	assert.True(t, key.Equal(k2, formatted[1].Key))
	assert.Equal(t, value.Record{"open": value.Bool(true)}, formatted[1].Data)
}

func TestFormatResultsEmpty(t *testing.T) {
	formatted, err := FormatResults(nil)
	require.NoError(t, err)
	assert.Empty(t, formatted)
}

func TestFormatResultsRequiresKey(t *testing.T) {
	_, err := FormatResults([]wire.EntityResult{{Entity: wire.Entity{}}})
	require.Error(t, err)
	assert.True(t, codecerr.IsMalformedKey(err))
}

func TestResult_MarshalJSON(t *testing.T) {
	r := Result{
		Key: key.MustBuild("", "Person", "ada"),
		Data: value.Record{
			"born":  value.Timestamp(time.Date(1815, 12, 10, 0, 0, 0, 0, time.UTC)),
			"age":   value.Int(36),
			"owner": value.KeyValue{Key: key.MustBuild("", "Company", int64(7))},
		},
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"key": "Person:ada",
		"data": {"born": "1815-12-10T00:00:00Z", "age": 36, "owner": "Company:7"}
	}`, string(data))
}

func TestToProtoGolden(t *testing.T) {
	rec := value.Record{
		"active":  value.Bool(true),
		"address": value.Record{"city": value.String("London")},
		"born":    value.Timestamp(time.Date(1815, 12, 10, 0, 0, 0, 0, time.UTC)),
		"owner":   value.KeyValue{Key: key.MustBuild("", "Company", int64(7))},
		"photo":   value.Blob{1, 2, 3},
		"tags":    value.List{value.String("a"), value.Int(2)},
	}

	e, err := ToProto(rec)
	require.NoError(t, err)
	e, err = WithKey(e, key.MustBuild("", "Person", "ada"))
	require.NoError(t, err)

	testutil.AssertCanonicalGolden(t, "person_entity", e)
}
