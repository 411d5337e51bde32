package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/dscodec/internal/compiler"
	"github.com/roach88/dscodec/internal/entity"
	"github.com/roach88/dscodec/internal/wire"
)

// EncodeOptions holds flags for the encode command.
type EncodeOptions struct {
	*RootOptions
	InputFormat string
	Key         []string
	Digest      bool
}

// EncodeView is the JSON output of the encode command.
type EncodeView struct {
	Entity wire.Entity `json:"entity"`
	Digest string      `json:"digest,omitempty"`
}

// NewEncodeCommand creates the encode command.
func NewEncodeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EncodeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "encode <record-file|->",
		Short: "Encode a record document as a protocol entity",
		Long: `Encode a record document (CUE, YAML or JSON) as a protocol entity.

CUE and YAML integers encode as integer_value and floats as double_value.
Without --key the entity key is null.

Example:
  dscodec encode person.cue --key Person,ada`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.InputFormat, "input-format", "", "document format (cue|yaml|json), inferred from extension")
	cmd.Flags().StringSliceVar(&opts.Key, "key", nil, "key path to attach, comma separated (e.g. Company,Google,Employee,7)")
	cmd.Flags().BoolVar(&opts.Digest, "digest", false, "include the entity digest")

	return cmd
}

func runEncode(opts *EncodeOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	format, err := documentFormat(path, opts.InputFormat)
	if err != nil {
		return fail(formatter, err, ErrCodeGeneric, ExitCommandError)
	}
	data, name, err := readInput(cmd, path)
	if err != nil {
		return fail(formatter, err, ErrCodeReadFailed, ExitCommandError)
	}

	rec, err := compiler.LoadRecord(data, format, name)
	if err != nil {
		return fail(formatter, err, ErrCodeParseFailed, ExitFailure)
	}

	e, err := entity.ToProto(rec)
	if err != nil {
		return fail(formatter, err, ErrCodeGeneric, ExitFailure)
	}
	if len(opts.Key) > 0 {
		k, err := opts.buildKey(opts.Key)
		if err != nil {
			return fail(formatter, err, ErrCodeGeneric, ExitFailure)
		}
		if e, err = entity.WithKey(e, k); err != nil {
			return fail(formatter, err, ErrCodeGeneric, ExitFailure)
		}
	}

	view := EncodeView{Entity: e}
	if opts.Digest {
		if view.Digest, err = wire.EntityDigest(e); err != nil {
			return fail(formatter, err, ErrCodeGeneric, ExitCommandError)
		}
	}
	opts.Log.Debug("encoded entity").Int("properties", len(e.Property)).Send()

	if formatter.Format == "json" {
		return formatter.Success(view)
	}

	if err := formatter.Lines(e); err != nil {
		return fail(formatter, err, ErrCodeGeneric, ExitCommandError)
	}
	if view.Digest != "" {
		fmt.Fprintf(formatter.Writer, "digest: %s\n", view.Digest)
	}
	return nil
}
