package cli

import (
	"errors"

	"github.com/roach88/dscodec/internal/codecerr"
	"github.com/roach88/dscodec/internal/compiler"
)

// Error codes for CLI output.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeReadFailed  = "E002" // Input file or stdin could not be read
	ErrCodeParseFailed = "E003" // Document or JSON could not be parsed
	ErrCodeStoreFailed = "E004" // Fixture store error
	ErrCodeNotFound    = "E005" // Entity not found

	// Codec errors
	ErrCodeMalformedKey        = "E101"
	ErrCodeUnsupportedValue    = "E102"
	ErrCodeUnsupportedOperator = "E103"
	ErrCodeInvalidCursor       = "E104"
)

var codecErrCodes = map[codecerr.Code]string{
	codecerr.ErrCodeMalformedKey:        ErrCodeMalformedKey,
	codecerr.ErrCodeUnsupportedValue:    ErrCodeUnsupportedValue,
	codecerr.ErrCodeUnsupportedOperator: ErrCodeUnsupportedOperator,
	codecerr.ErrCodeInvalidCursor:       ErrCodeInvalidCursor,
}

// classify picks the CLI error code and exit code for err. Codec and
// document errors take precedence over the caller's fallback.
func classify(err error, fallbackCode string, fallbackExit int) (string, int, any) {
	if code := codecerr.CodeOf(err); code != "" {
		return codecErrCodes[code], ExitFailure, map[string]string{"codec_code": string(code)}
	}

	var ce *compiler.CompileError
	if errors.As(err, &ce) {
		return ErrCodeParseFailed, ExitFailure, map[string]any{"field": ce.Field}
	}

	return fallbackCode, fallbackExit, nil
}

// fail reports err through the formatter and returns the matching ExitError.
func fail(f *OutputFormatter, err error, fallbackCode string, fallbackExit int) error {
	code, exit, details := classify(err, fallbackCode, fallbackExit)
	if outErr := f.Error(code, err.Error(), details); outErr != nil {
		return WrapExitError(ExitCommandError, "write output", outErr)
	}
	return &ExitError{Code: exit, Message: code, Err: err, Reported: true}
}
