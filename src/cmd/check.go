package cmd

import (
	"fmt"

	"github.com/pingcap/errors"
	"github.com/spf13/cobra"

	"github.com/ComedicChimera/shiftreduce/src/syntax"
)

func newCheckCommand(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "check [flags] [tables]",
		Short: "Validate parsing tables and summarize them",
		Long: `Validate parsing tables and summarize them.  If no tables are given, the
tables named in the configuration are checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, f := opts.conf.Table.Path, opts.conf.TableFormat()
			if len(args) > 0 {
				path, f = args[0], ""
			}

			if format != "" {
				var err error
				if f, err = syntax.ParseFormat(format); err != nil {
					return err
				}
			}

			if path == "" {
				return errors.New("no parsing table given")
			}

			// loading validates the tables
			tables, err := syntax.LoadTables(path, f)
			if err != nil {
				return err
			}

			stats := tables.Stats()
			g := tables.Grammar

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tables:          %s\n", path)
			fmt.Fprintf(out, "goal:            %s\n", g.SymbolName(g.Goal))
			fmt.Fprintf(out, "end of input:    %s\n", g.SymbolName(g.EOF))
			fmt.Fprintf(out, "symbols:         %d (%d terminals)\n", stats.Symbols, stats.Terminals)
			fmt.Fprintf(out, "productions:     %d\n", stats.Productions)
			fmt.Fprintf(out, "states:          %d\n", stats.States)
			fmt.Fprintf(out, "actions:         %d\n", stats.Actions)
			fmt.Fprintf(out, "default reduces: %d\n", stats.DefaultReduces)
			fmt.Fprintf(out, "shift&reduce:    %d\n", stats.ShiftReduces)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "format of the tables { json | yaml | gob } (default: from extension)")
	return cmd
}

// optionalFormat parses a format flag that may be left empty
func optionalFormat(name string) (syntax.Format, error) {
	if name == "" {
		return "", nil
	}

	return syntax.ParseFormat(name)
}
