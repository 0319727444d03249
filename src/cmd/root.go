package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ComedicChimera/shiftreduce/src/config"
	"github.com/ComedicChimera/shiftreduce/src/logging"
)

// globalOptions holds the persistent flags and the configuration they select
type globalOptions struct {
	cfgFile  string
	logLevel string
	metrics  bool

	conf *config.Config
}

// NewRootCommand creates the `srparse` command with all of its subcommands
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "srparse",
		Short: "srparse runs table-driven shift-reduce parsers",
		Long: `srparse is a tool for running shift-reduce parsers built from precomputed
parsing tables.  The tables are produced by an external table compiler and are
read as JSON, YAML or a binary .ptable cache.

Configuration is read from the file given with --config or else from the
first srparse.toml found in the current directory or one of its parents.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&opts.cfgFile, "config", "c", "", "config file path")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level { debug | info | warn | error }")
	root.PersistentFlags().BoolVar(&opts.metrics, "metrics", false, "print parser metrics when done")

	root.AddCommand(newParseCommand(opts), newCheckCommand(opts), newConvertCommand())
	return root
}

// load reads the configuration and applies the persistent flags on top of it
func (opts *globalOptions) load(cmd *cobra.Command) error {
	conf, err := config.LoadFrom(opts.cfgFile, ".")
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		conf.Log.Level = opts.logLevel
	}

	if flags.Changed("metrics") {
		conf.Metrics.Enabled = opts.metrics
	}

	if err := conf.Validate(); err != nil {
		return err
	}

	if err := logging.Initialize(&conf.Log); err != nil {
		return err
	}

	opts.conf = conf
	return nil
}
