package testutil

import (
	"testing"
)

func TestAssertCanonicalGolden(t *testing.T) {
	// Keys are sorted, HTML is not escaped and whitespace is dropped.
	AssertCanonicalGolden(t, "sorted_keys", map[string]any{
		"zeta":  "<&>",
		"alpha": []any{1, "two", nil},
	})
}
