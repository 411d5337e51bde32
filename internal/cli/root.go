package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/dscodec/internal/config"
	"github.com/roach88/dscodec/internal/key"
	"github.com/roach88/dscodec/internal/logger"
	"github.com/roach88/dscodec/internal/store"
)

// RootOptions holds global flags for all commands and the configuration
// resolved from them.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string
	DBPath     string
	Namespace  string
	LogLevel   string

	Config *config.Config
	Log    *logger.Logger
}

// NewRootCommand creates the root command for the dscodec CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "dscodec",
		Short: "dscodec - entity and key codec for a hierarchical key-value store",
		Long: `Convert native records, keys and query descriptions to and from the
protocol shapes of a hierarchical key-value store.

Records and queries are read from CUE, YAML or JSON documents. Encoded
entities can be kept in a local SQLite fixture store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging to stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", config.DefaultFormat, "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default dscodec.yaml)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", config.DefaultDBPath, "fixture store database path")
	cmd.PersistentFlags().StringVarP(&opts.Namespace, "namespace", "n", "", "namespace for keys built from paths")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", config.DefaultLogLevel, "log level (debug|info|warn|error)")

	cmd.AddCommand(NewKeyCommand(opts))
	cmd.AddCommand(NewEncodeCommand(opts))
	cmd.AddCommand(NewDecodeCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewPutCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewListCommand(opts))

	return cmd
}

// load resolves configuration for the running command. Explicitly set
// flags override the config file and environment.
func (o *RootOptions) load(cmd *cobra.Command) error {
	cfg, used, err := config.Load(o.ConfigFile, cmd.Flags())
	if err != nil {
		return WrapExitError(ExitCommandError, "load config", err)
	}

	o.Config = cfg
	o.Format = cfg.Format
	o.Verbose = cfg.Verbose
	o.DBPath = cfg.DBPath
	o.Namespace = cfg.Namespace
	o.LogLevel = cfg.LogLevel
	o.Log = logger.NewLogger(logger.Config{
		Level:  cfg.EffectiveLogLevel(),
		Output: cmd.ErrOrStderr(),
	}).CommandLogger(cmd.Name())

	if used != "" {
		o.Log.Debug("loaded config").Str("file", used).Send()
	}
	return nil
}

// formatter returns the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// buildKey builds a key in the configured namespace from path tokens.
func (o *RootOptions) buildKey(tokens []string) (*key.Key, error) {
	return key.Build(key.Options{Namespace: o.Namespace, Path: key.ParsePath(tokens)})
}

// openStore opens the configured fixture store.
func (o *RootOptions) openStore() (*store.Store, error) {
	return store.Open(o.DBPath, store.WithLogger(o.Log))
}
