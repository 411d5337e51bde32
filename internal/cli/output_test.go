package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dscodec/internal/codecerr"
	"github.com/roach88/dscodec/internal/compiler"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Success(map[string]string{"result": "success"})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("E101", "malformed key", map[string]string{"codec_code": "MALFORMED_KEY"})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E101", resp.Error.Code)
	assert.Equal(t, "malformed key", resp.Error.Message)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Success("stored Person:ada"))
	assert.Equal(t, "stored Person:ada\n", buf.String())
}

func TestOutputFormatter_TextErrorGoesToErrWriter(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: out, ErrWriter: errOut, Verbose: true}

	require.NoError(t, formatter.Error("E005", "not found", "Person:bob"))
	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "Error [E005]: not found")
	assert.Contains(t, errOut.String(), "Details: Person:bob")
}

func TestOutputFormatter_TextErrorHidesDetailsUnlessVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Error("E005", "not found", "Person:bob"))
	assert.NotContains(t, buf.String(), "Details")
}

func TestExitError(t *testing.T) {
	inner := errors.New("disk full")
	err := WrapExitError(ExitCommandError, "write entity", inner)

	assert.Equal(t, "write entity: disk full", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, ExitCommandError, GetExitCode(fmt.Errorf("wrapped: %w", err)))

	assert.Equal(t, "plain", NewExitError(ExitFailure, "plain").Error())
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("other")))
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
		wantExit int
	}{
		{"malformed key", codecerr.MalformedKey("bad"), ErrCodeMalformedKey, ExitFailure},
		{"unsupported value", fmt.Errorf("wrap: %w", codecerr.UnsupportedValue(nil, "bad")), ErrCodeUnsupportedValue, ExitFailure},
		{"unsupported operator", codecerr.UnsupportedOperator("!="), ErrCodeUnsupportedOperator, ExitFailure},
		{"invalid cursor", codecerr.InvalidCursor("x", errors.New("bad")), ErrCodeInvalidCursor, ExitFailure},
		{"compile error", &compiler.CompileError{Field: "a", Message: "bad"}, ErrCodeParseFailed, ExitFailure},
		{"other", errors.New("io"), ErrCodeStoreFailed, ExitCommandError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, exit, _ := classify(tt.err, ErrCodeStoreFailed, ExitCommandError)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantExit, exit)
		})
	}
}

func TestFailMarksReported(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := fail(formatter, codecerr.MalformedKey("bad"), ErrCodeGeneric, ExitCommandError)
	assert.True(t, IsReported(err))
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.False(t, IsReported(errors.New("plain")))
}

func TestOutputFormatter_Lines(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	err := formatter.Lines(
		map[string]any{"b": 2, "a": "<x>"},
		[]int{1, 2},
	)
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":\"<x>\",\"b\":2}\n[1,2]\n", buf.String())
}
