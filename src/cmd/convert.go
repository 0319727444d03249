package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ComedicChimera/shiftreduce/src/logging"
	"github.com/ComedicChimera/shiftreduce/src/syntax"
)

func newConvertCommand() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "convert [flags] input output",
		Short: "Convert parsing tables between formats",
		Long: `Convert parsing tables between JSON, YAML and the binary .ptable cache.

The formats are determined from the file extensions unless they are given
explicitly.  The tables are validated before they are written.

Examples:
  # Cache the tables produced by the table compiler
  srparse convert expr.json expr.ptable`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fromFormat, err := optionalFormat(from)
			if err != nil {
				return err
			}

			toFormat, err := optionalFormat(to)
			if err != nil {
				return err
			}

			logging.LogStateChange("Loading")
			tables, err := syntax.LoadTables(args[0], fromFormat)
			if err != nil {
				return err
			}

			logging.LogStateChange("Writing")
			return syntax.SaveTables(args[1], toFormat, tables)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "format of the input tables")
	cmd.Flags().StringVar(&to, "to", "", "format of the output tables")
	return cmd
}
