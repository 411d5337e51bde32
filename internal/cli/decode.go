package cli

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/dscodec/internal/entity"
	"github.com/roach88/dscodec/internal/value"
	"github.com/roach88/dscodec/internal/wire"
)

// DecodeOptions holds flags for the decode command.
type DecodeOptions struct {
	*RootOptions
}

// NewDecodeCommand creates the decode command.
func NewDecodeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DecodeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "decode <entity-json|->",
		Short: "Decode protocol entities to native records",
		Long: `Decode protocol JSON to native records.

The input is either a single entity object or an array of entity results
([{"entity": {...}}, ...]). Entities with a key decode to {key, data};
a keyless entity decodes to its data only.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(opts, args[0], cmd)
		},
	}

	return cmd
}

func runDecode(opts *DecodeOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	data, _, err := readInput(cmd, path)
	if err != nil {
		return fail(formatter, err, ErrCodeReadFailed, ExitCommandError)
	}

	out, err := decodeDocument(data)
	if err != nil {
		return fail(formatter, err, ErrCodeParseFailed, ExitFailure)
	}
	opts.Log.Debug("decoded input").Int("bytes", len(data)).Send()

	if formatter.Format == "json" {
		return formatter.Success(out)
	}

	lines := []any{out}
	if results, ok := out.([]entity.Result); ok {
		lines = make([]any, len(results))
		for i, r := range results {
			lines[i] = r
		}
	}
	if err := formatter.Lines(lines...); err != nil {
		return fail(formatter, err, ErrCodeGeneric, ExitCommandError)
	}
	return nil
}

// decodeDocument decodes an entity result array to []entity.Result, a keyed
// entity to entity.Result and a keyless entity to its plain data.
func decodeDocument(data []byte) (any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty input")
	}

	if trimmed[0] == '[' {
		var batch []wire.EntityResult
		if err := json.Unmarshal(trimmed, &batch); err != nil {
			return nil, fmt.Errorf("parse entity results: %w", err)
		}
		return entity.FormatResults(batch)
	}

	e, err := wire.ParseEntity(trimmed)
	if err != nil {
		return nil, err
	}
	if e.Key != nil {
		results, err := entity.FormatResults([]wire.EntityResult{{Entity: e}})
		if err != nil {
			return nil, err
		}
		return results[0], nil
	}

	rec, err := entity.FromProto(e)
	if err != nil {
		return nil, err
	}
	return map[string]any{"data": value.ToGo(rec)}, nil
}
