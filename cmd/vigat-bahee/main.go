package main

import (
	"os"

	"vigat-bahee/pkg/logger"

	"github.com/spf13/cobra"
)

func main() {
	log := logger.NewFromEnv()
	if err := newRootCmd(log).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(log logger.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "vigat-bahee",
		Short:         "Vigat bahee ledger backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), log)
		},
	}

	root.AddCommand(newServeCmd(log))
	root.AddCommand(newMigrateCmd(log))
	root.AddCommand(newTithiCmd(log))
	return root
}
