package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/dscodec/internal/compiler"
	"github.com/roach88/dscodec/internal/entity"
	"github.com/roach88/dscodec/internal/key"
)

// PutOptions holds flags for the put command.
type PutOptions struct {
	*RootOptions
	Data        string
	InputFormat string
}

// PutView is the output of the put command.
type PutView struct {
	Key      string `json:"key"`
	Path     []any  `json:"path"`
	Revision string `json:"revision"`
	Changed  bool   `json:"changed"`
}

// NewPutCommand creates the put command.
func NewPutCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PutOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "put <kind> [<id|name> <kind>]... [<id|name>] --data <record-file|->",
		Short: "Store an encoded record in the fixture store",
		Long: `Encode a record document and store it under a key.

A key ending in a bare kind is incomplete; the store allocates the next
numeric id for it.

Example:
  dscodec put Company Google Employee --data ada.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPut(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Data, "data", "", "record document to store (required)")
	cmd.Flags().StringVar(&opts.InputFormat, "input-format", "", "document format (cue|yaml|json), inferred from extension")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func runPut(opts *PutOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	k, err := opts.buildKey(args)
	if err != nil {
		return fail(formatter, err, ErrCodeGeneric, ExitFailure)
	}

	format, err := documentFormat(opts.Data, opts.InputFormat)
	if err != nil {
		return fail(formatter, err, ErrCodeGeneric, ExitCommandError)
	}
	data, name, err := readInput(cmd, opts.Data)
	if err != nil {
		return fail(formatter, err, ErrCodeReadFailed, ExitCommandError)
	}
	rec, err := compiler.LoadRecord(data, format, name)
	if err != nil {
		return fail(formatter, err, ErrCodeParseFailed, ExitFailure)
	}

	st, err := opts.openStore()
	if err != nil {
		return fail(formatter, err, ErrCodeStoreFailed, ExitCommandError)
	}
	defer st.Close()

	res, err := st.Put(cmd.Context(), k, rec)
	if err != nil {
		return fail(formatter, err, ErrCodeStoreFailed, ExitCommandError)
	}

	view := PutView{
		Key:      res.Key.String(),
		Path:     res.Key.Path(),
		Revision: res.Revision,
		Changed:  res.Changed,
	}
	if formatter.Format == "json" {
		return formatter.Success(view)
	}

	status := "stored"
	if !view.Changed {
		status = "unchanged"
	}
	fmt.Fprintf(formatter.Writer, "%s %s (revision %s)\n", status, view.Key, view.Revision)
	return nil
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <kind> <id|name> [<kind> <id|name>]...",
		Short: "Look up an entity in the fixture store",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runGet(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	k, err := opts.buildKey(args)
	if err != nil {
		return fail(formatter, err, ErrCodeGeneric, ExitFailure)
	}
	if !key.IsComplete(k) {
		return fail(formatter, fmt.Errorf("key %s is incomplete", k), ErrCodeMalformedKey, ExitFailure)
	}

	st, err := opts.openStore()
	if err != nil {
		return fail(formatter, err, ErrCodeStoreFailed, ExitCommandError)
	}
	defer st.Close()

	found, missing, err := st.Lookup(cmd.Context(), []*key.Key{k})
	if err != nil {
		return fail(formatter, err, ErrCodeStoreFailed, ExitCommandError)
	}
	if len(missing) > 0 {
		return fail(formatter, fmt.Errorf("no entity stored under %s", k), ErrCodeNotFound, ExitFailure)
	}

	results, err := entity.FormatResults(found)
	if err != nil {
		return fail(formatter, err, ErrCodeGeneric, ExitFailure)
	}

	if formatter.Format == "json" {
		return formatter.Success(results[0])
	}
	if err := formatter.Lines(results[0]); err != nil {
		return fail(formatter, err, ErrCodeGeneric, ExitCommandError)
	}
	return nil
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <kind> <id|name> [<kind> <id|name>]...",
		Short: "Delete an entity from the fixture store",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runDelete(opts *RootOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	k, err := opts.buildKey(args)
	if err != nil {
		return fail(formatter, err, ErrCodeGeneric, ExitFailure)
	}

	st, err := opts.openStore()
	if err != nil {
		return fail(formatter, err, ErrCodeStoreFailed, ExitCommandError)
	}
	defer st.Close()

	deleted, err := st.Delete(cmd.Context(), k)
	if err != nil {
		return fail(formatter, err, ErrCodeStoreFailed, ExitCommandError)
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]any{"key": k.String(), "deleted": deleted})
	}
	if deleted {
		fmt.Fprintf(formatter.Writer, "deleted %s\n", k)
	} else {
		fmt.Fprintf(formatter.Writer, "%s not found\n", k)
	}
	return nil
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <kind>",
		Short: "List stored entities of a kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runList(opts *RootOptions, kind string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	st, err := opts.openStore()
	if err != nil {
		return fail(formatter, err, ErrCodeStoreFailed, ExitCommandError)
	}
	defer st.Close()

	found, err := st.List(cmd.Context(), opts.Namespace, kind)
	if err != nil {
		return fail(formatter, err, ErrCodeStoreFailed, ExitCommandError)
	}
	results, err := entity.FormatResults(found)
	if err != nil {
		return fail(formatter, err, ErrCodeGeneric, ExitFailure)
	}

	if formatter.Format == "json" {
		return formatter.Success(results)
	}
	lines := make([]any, len(results))
	for i, r := range results {
		lines[i] = r
	}
	if err := formatter.Lines(lines...); err != nil {
		return fail(formatter, err, ErrCodeGeneric, ExitCommandError)
	}
	return nil
}
