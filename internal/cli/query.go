package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/dscodec/internal/compiler"
	"github.com/roach88/dscodec/internal/query"
	"github.com/roach88/dscodec/internal/wire"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	InputFormat string
	Digest      bool
}

// QueryView is the JSON output of the query command.
type QueryView struct {
	Namespace string     `json:"namespace,omitempty"`
	Query     wire.Query `json:"query"`
	Digest    string     `json:"digest,omitempty"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <query-file|->",
		Short: "Compile a query document to a protocol query",
		Long: `Compile a query document (CUE, YAML or JSON) to a protocol query.

Query documents have the fields kind, filter, order, select, group_by,
start, end, limit, offset and namespace. Filters are combined with AND.

Example query.yaml:
  kind: Task
  filter:
    - ancestor: {"@key": [Project, dscodec]}
    - property: priority
      op: ">="
      value: 3
  order: [-created]
  limit: 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.InputFormat, "input-format", "", "document format (cue|yaml|json), inferred from extension")
	cmd.Flags().BoolVar(&opts.Digest, "digest", false, "include the query digest")

	return cmd
}

func runQuery(opts *QueryOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	format, err := documentFormat(path, opts.InputFormat)
	if err != nil {
		return fail(formatter, err, ErrCodeGeneric, ExitCommandError)
	}
	data, name, err := readInput(cmd, path)
	if err != nil {
		return fail(formatter, err, ErrCodeReadFailed, ExitCommandError)
	}

	q, err := compiler.LoadQuery(data, format, name)
	if err != nil {
		return fail(formatter, err, ErrCodeParseFailed, ExitFailure)
	}
	if q.Namespace == "" {
		q.Namespace = opts.Namespace
	}

	compiled, err := query.Compile(q)
	if err != nil {
		return fail(formatter, err, ErrCodeGeneric, ExitFailure)
	}

	view := QueryView{Namespace: q.Namespace, Query: compiled}
	if opts.Digest {
		if view.Digest, err = wire.QueryDigest(compiled); err != nil {
			return fail(formatter, err, ErrCodeGeneric, ExitCommandError)
		}
	}
	opts.Log.Debug("compiled query").
		Strs("kinds", q.Kinds).
		Int("filters", len(q.Filters)).
		Send()

	if formatter.Format == "json" {
		return formatter.Success(view)
	}

	if err := formatter.Lines(compiled); err != nil {
		return fail(formatter, err, ErrCodeGeneric, ExitCommandError)
	}
	if view.Namespace != "" {
		fmt.Fprintf(formatter.Writer, "namespace: %s\n", view.Namespace)
	}
	if view.Digest != "" {
		fmt.Fprintf(formatter.Writer, "digest: %s\n", view.Digest)
	}
	return nil
}
