package main

import (
	"fmt"
	"os"

	"vigat-bahee/internal/domain/tithi"
	"vigat-bahee/pkg/logger"

	"github.com/spf13/cobra"
)

func newTithiCmd(log logger.Logger) *cobra.Command {
	var tablePath string

	cmd := &cobra.Command{
		Use:   "tithi YYYY-MM-DD",
		Short: "Print the paksha, tithi and month for a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if tablePath == "" {
				tablePath = os.Getenv("TITHI_TABLE_PATH")
			}
			table, err := tithi.LoadTable(tablePath)
			if err != nil {
				return err
			}

			descriptor, err := tithi.NewResolver(table).ResolveString(args[0])
			if err != nil {
				return err
			}
			source := "table " + table.Version
			if !descriptor.Exact {
				source = "approximate"
			}
			log.Debug("tithi: resolved", "date", descriptor.Date, "exact", descriptor.Exact)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t(%s)\n", descriptor.Date, descriptor.Text, source)
			return err
		},
	}

	cmd.Flags().StringVar(&tablePath, "table", "", "extra tithi table file (defaults to TITHI_TABLE_PATH)")
	return cmd
}
