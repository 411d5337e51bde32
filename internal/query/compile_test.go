package query

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dscodec/internal/codecerr"
	"github.com/roach88/dscodec/internal/key"
	"github.com/roach88/dscodec/internal/testutil"
	"github.com/roach88/dscodec/internal/value"
	"github.com/roach88/dscodec/internal/wire"
)

func TestCompile_AncestorQuery(t *testing.T) {
	q := New("", "Kind").
		HasAncestor(key.MustBuild("", "Company", "Google")).
		Order("-created").
		Limit(10)

	got, err := Compile(q)
	require.NoError(t, err)

	assert.Equal(t, []wire.KindExpression{{Name: "Kind"}}, got.Kind)
	require.NotNil(t, got.Filter)
	require.NotNil(t, got.Filter.CompositeFilter)
	assert.Equal(t, wire.OperatorAnd, got.Filter.CompositeFilter.Operator)
	require.Len(t, got.Filter.CompositeFilter.Filter, 1)

	pf := got.Filter.CompositeFilter.Filter[0].PropertyFilter
	require.NotNil(t, pf)
	assert.Equal(t, KeyField, pf.Property.Name)
	assert.Equal(t, wire.OperatorHasAncestor, pf.Operator)
	require.NotNil(t, pf.Value.KeyValue)
	require.Len(t, pf.Value.KeyValue.PathElement, 1)
	assert.Equal(t, "Company", pf.Value.KeyValue.PathElement[0].Kind)
	require.NotNil(t, pf.Value.KeyValue.PathElement[0].Name)
	assert.Equal(t, "Google", *pf.Value.KeyValue.PathElement[0].Name)

	assert.Equal(t, []wire.PropertyOrder{{
		Property:  wire.PropertyReference{Name: "created"},
		Direction: wire.DirectionDescending,
	}}, got.Order)
	assert.Equal(t, int32(10), got.Limit)
	assert.Zero(t, got.Offset)
	assert.Nil(t, got.StartCursor)
	assert.Nil(t, got.EndCursor)
	assert.Empty(t, got.Projection)
	assert.Empty(t, got.GroupBy)

	testutil.AssertCanonicalGolden(t, "ancestor_query", got)
}

func TestCompile_FullQuery(t *testing.T) {
	q := New("", "Person").
		Select("name", "age").
		Filter("age >=", value.Int(21)).
		Filter("name", value.String("Ada")).
		Filter("score <", value.Number(9.5)).
		Order("name").
		GroupBy("name").
		Start("AQID").
		End("BAUG").
		Offset(5).
		Limit(20)

	got, err := Compile(q)
	require.NoError(t, err)

	assert.Equal(t, []byte{1, 2, 3}, got.StartCursor)
	assert.Equal(t, []byte{4, 5, 6}, got.EndCursor)
	assert.Equal(t, int32(5), got.Offset)
	assert.Equal(t, int32(20), got.Limit)

	testutil.AssertCanonicalGolden(t, "full_query", got)
}

func TestCompile_EmptyQuery(t *testing.T) {
	got, err := Compile(New(""))
	require.NoError(t, err)

	assert.Nil(t, got.Filter)
	assert.NotNil(t, got.Projection)
	assert.NotNil(t, got.Kind)
	assert.NotNil(t, got.Order)
	assert.NotNil(t, got.GroupBy)

	data, err := wire.MarshalCanonical(got)
	require.NoError(t, err)
	assert.Equal(t, `{"group_by":[],"kind":[],"order":[],"projection":[]}`, string(data))
}

func TestCompile_NilQuery(t *testing.T) {
	_, err := Compile(nil)
	assert.Error(t, err)
}

func TestCompile_Operators(t *testing.T) {
	tests := []struct {
		op   string
		want string
	}{
		{"=", wire.OperatorEqual},
		{">", wire.OperatorGreaterThan},
		{">=", wire.OperatorGreaterThanOrEqual},
		{"<", wire.OperatorLessThan},
		{"<=", wire.OperatorLessThanOrEqual},
	}

	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			q := New("", "K").Filter("n "+tt.op, value.Int(1))
			got, err := Compile(q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Filter.CompositeFilter.Filter[0].PropertyFilter.Operator)
		})
	}
}

func TestCompile_UnsupportedOperator(t *testing.T) {
	q := &Query{Filters: []Filter{{Name: "n", Op: "!=", Val: value.Int(1)}}}

	_, err := Compile(q)
	require.Error(t, err)
	assert.True(t, codecerr.IsUnsupportedOperator(err))
	assert.Contains(t, err.Error(), "!=")
}

func TestCompile_UnsupportedOrderSign(t *testing.T) {
	q := &Query{Orders: []Order{{Name: "n", Sign: "~"}}}

	_, err := Compile(q)
	require.Error(t, err)
	assert.True(t, codecerr.IsUnsupportedOperator(err))
}

func TestCompile_FilterValueErrors(t *testing.T) {
	t.Run("unsupported value", func(t *testing.T) {
		q := New("", "K").Filter("n", value.Record{})
		_, err := Compile(q)
		assert.True(t, codecerr.IsUnsupportedValue(err))
	})

	t.Run("key filter without key", func(t *testing.T) {
		q := New("", "K").Filter(KeyField, value.String("Google"))
		_, err := Compile(q)
		assert.True(t, codecerr.IsUnsupportedValue(err))
	})

	t.Run("key filter with malformed key", func(t *testing.T) {
		q := New("", "K").HasAncestor(&key.Key{Name: "x"})
		_, err := Compile(q)
		assert.True(t, codecerr.IsMalformedKey(err))
	})
}

func TestCompile_KeyEqualityFilter(t *testing.T) {
	k := key.MustBuild("", "User", int64(7))
	got, err := Compile(New("", "User").Filter(KeyField, value.KeyValue{Key: k}))
	require.NoError(t, err)

	pf := got.Filter.CompositeFilter.Filter[0].PropertyFilter
	assert.Equal(t, wire.OperatorEqual, pf.Operator)
	require.NotNil(t, pf.Value.KeyValue)
	assert.Equal(t, wire.KindKey, pf.Value.Kind())
}

func TestCompile_URLSafeCursor(t *testing.T) {
	// 0xfb 0xff encodes to "+/8=" in std and "-_8=" in url alphabet.
	got, err := Compile(New("", "K").Start("-_8="))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xfb, 0xff}, got.StartCursor)
}

func TestCompile_InvalidCursor(t *testing.T) {
	_, err := Compile(New("", "K").End("not base64!"))
	require.Error(t, err)
	assert.True(t, codecerr.IsInvalidCursor(err))
}

func TestCompile_NonPositivePagingOmitted(t *testing.T) {
	got, err := Compile(New("", "K").Limit(-1).Offset(0))
	require.NoError(t, err)
	assert.Zero(t, got.Limit)
	assert.Zero(t, got.Offset)

	data, err := wire.MarshalCanonical(got)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "limit")
	assert.NotContains(t, string(data), "offset")
}

func TestCompile_LimitOverflow(t *testing.T) {
	if math.MaxInt == math.MaxInt32 {
		t.Skip("int is 32 bits")
	}
	_, err := Compile(New("", "K").Limit(math.MaxInt32 + 1))
	assert.True(t, codecerr.IsUnsupportedValue(err))
}

func TestCompile_Pure(t *testing.T) {
	q := New("", "K").Filter("a >", value.Int(1)).Order("-a")

	first, err := Compile(q)
	require.NoError(t, err)
	second, err := Compile(q)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, q.Filters, 1)
}
