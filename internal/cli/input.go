package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/dscodec/internal/compiler"
	"github.com/roach88/dscodec/internal/wire"
)

// stdinName is the argument that selects standard input.
const stdinName = "-"

// readInput reads a file argument, or stdin for "-". It returns the data and
// a display name for error positions.
func readInput(cmd *cobra.Command, path string) ([]byte, string, error) {
	if path == stdinName {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return data, "<stdin>", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read input: %w", err)
	}
	return data, path, nil
}

// documentFormat resolves the document format from an explicit flag value or
// the file extension. Stdin requires the flag.
func documentFormat(path, flagValue string) (compiler.Format, error) {
	if flagValue != "" {
		return compiler.ParseFormat(flagValue)
	}
	if path == stdinName {
		return "", fmt.Errorf("--input-format is required when reading stdin")
	}
	return compiler.FormatFromPath(path)
}

// canonicalString renders v as canonical JSON for text output.
func canonicalString(v any) (string, error) {
	data, err := wire.MarshalCanonical(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
