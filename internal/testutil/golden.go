// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dscodec/internal/wire"
)

// GoldenDir is where golden files live, relative to the package under test.
const GoldenDir = "testdata/golden"

// AssertCanonicalGolden renders v as canonical JSON and compares it against
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/... -update
func AssertCanonicalGolden(t *testing.T, name string, v any) {
	t.Helper()

	data, err := wire.MarshalCanonical(v)
	require.NoError(t, err, "canonical marshal for golden %q", name)

	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}
