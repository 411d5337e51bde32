package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/dscodec/internal/key"
	"github.com/roach88/dscodec/internal/wire"
)

// KeyOptions holds flags for the key command.
type KeyOptions struct {
	*RootOptions
	FromProto string
}

// KeyView is the output of the key command.
type KeyView struct {
	Key      string   `json:"key"`
	Path     []any    `json:"path"`
	Complete bool     `json:"complete"`
	Proto    wire.Key `json:"proto"`
}

// NewKeyCommand creates the key command.
func NewKeyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &KeyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "key [<kind> <id|name>]... [<kind>]",
		Short: "Build a key and show its protocol form",
		Long: `Build a key from a flat path and show its protocol form.

Identifiers made of digits are numeric ids; anything else is a name. A
trailing kind without identifier makes the key incomplete.

Examples:
  dscodec key Company Google Employee 7
  dscodec key --namespace prod Company Google Branch
  dscodec key --from-proto '{"path_element":[{"kind":"Company","name":"Google"}]}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKey(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.FromProto, "from-proto", "", "decode a protocol key given as JSON")

	return cmd
}

func runKey(opts *KeyOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	var k *key.Key
	var err error
	switch {
	case opts.FromProto != "" && len(args) > 0:
		return fail(formatter, fmt.Errorf("--from-proto cannot be combined with a path"), ErrCodeGeneric, ExitCommandError)
	case opts.FromProto != "":
		var pk wire.Key
		if err := json.Unmarshal([]byte(opts.FromProto), &pk); err != nil {
			return fail(formatter, fmt.Errorf("parse protocol key: %w", err), ErrCodeParseFailed, ExitFailure)
		}
		k, err = key.FromProto(pk)
	default:
		k, err = opts.buildKey(args)
	}
	if err != nil {
		return fail(formatter, err, ErrCodeGeneric, ExitFailure)
	}

	pk, err := key.ToProto(k)
	if err != nil {
		return fail(formatter, err, ErrCodeGeneric, ExitFailure)
	}

	view := KeyView{
		Key:      k.String(),
		Path:     k.Path(),
		Complete: key.IsComplete(k),
		Proto:    pk,
	}
	opts.Log.Debug("built key").Str("key", view.Key).Bool("complete", view.Complete).Send()

	if formatter.Format == "json" {
		return formatter.Success(view)
	}

	proto, err := canonicalString(pk)
	if err != nil {
		return fail(formatter, err, ErrCodeGeneric, ExitCommandError)
	}
	w := formatter.Writer
	fmt.Fprintf(w, "key:      %s\n", view.Key)
	fmt.Fprintf(w, "complete: %t\n", view.Complete)
	fmt.Fprintf(w, "proto:    %s\n", proto)
	return nil
}
