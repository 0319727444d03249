package cmd

import (
	"bufio"

	"github.com/pingcap/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ComedicChimera/shiftreduce/src/build"
	"github.com/ComedicChimera/shiftreduce/src/logging"
	"github.com/ComedicChimera/shiftreduce/src/metrics"
)

type parseFlags struct {
	table   string
	format  string
	output  string
	ext     string
	workers int
	trace   bool
}

func newParseCommand(opts *globalOptions) *cobra.Command {
	flags := &parseFlags{}

	cmd := &cobra.Command{
		Use:   "parse [flags] files...",
		Short: "Parse input files and print their trees",
		Long: `Parse every input file with the given parsing tables.

Directories are expanded into the files directly inside them (only those
ending in --ext if it is given).  Every input is parsed even if some fail;
the command fails if any input was rejected.

Examples:
  # Parse two files and print their trees
  srparse parse --table expr.json a.txt b.txt

  # Parse a directory with the binary tables, printing JSON trees
  srparse parse --table expr.ptable --output json --ext .expr inputs/`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, opts, flags, args)
		},
	}

	cmd.Flags().StringVarP(&flags.table, "table", "t", "", "parsing tables to load")
	cmd.Flags().StringVar(&flags.format, "format", "", "format of the tables { json | yaml | gob } (default: from extension)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output format { short | json | none }")
	cmd.Flags().StringVar(&flags.ext, "ext", "", "extension of the files parsed in directories")
	cmd.Flags().IntVarP(&flags.workers, "workers", "j", 0, "number of files parsed at the same time")
	cmd.Flags().BoolVar(&flags.trace, "trace", false, "log every parser action at debug level")

	return cmd
}

func runParse(cmd *cobra.Command, opts *globalOptions, flags *parseFlags, args []string) error {
	conf := opts.conf

	fs := cmd.Flags()
	if fs.Changed("table") {
		conf.Table.Path = flags.table
	}

	if fs.Changed("format") {
		conf.Table.Format = flags.format
	}

	if fs.Changed("output") {
		conf.Parse.Output = flags.output
	}

	if fs.Changed("ext") {
		conf.Parse.Extension = flags.ext
	}

	if fs.Changed("workers") {
		conf.Parse.Workers = flags.workers
	}

	if fs.Changed("trace") {
		conf.Parse.Trace = flags.trace
	}

	conf.ApplyDefaults()
	if err := conf.Validate(); err != nil {
		return err
	}

	inputs, err := build.CollectInputs(args, conf.Parse.Extension)
	if err != nil {
		return err
	}

	r, err := build.NewRunner(conf)
	if err != nil {
		return err
	}

	results, err := r.ParseFiles(cmd.Context(), inputs)
	if err != nil {
		return err
	}

	logging.LogStateChange("Writing")

	out := bufio.NewWriter(cmd.OutOrStdout())
	for _, res := range results {
		if err := res.Write(out, conf.Parse.Output); err != nil {
			return err
		}
	}

	if conf.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		metrics.RegisterMetrics(registry)

		if err := metrics.WriteText(out, registry); err != nil {
			return err
		}
	}

	if err := out.Flush(); err != nil {
		return errors.Trace(err)
	}

	if failed := logging.LogFinished(len(results)); failed > 0 {
		return errors.Errorf("%d of %d inputs failed to parse", failed, len(results))
	}

	return nil
}
