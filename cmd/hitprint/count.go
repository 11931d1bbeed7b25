package main

import (
	"fmt"

	"github.com/spf13/cobra"

	logpkg "github.com/kailas-cloud/hitprint/internal/logger"
	searchrepo "github.com/kailas-cloud/hitprint/internal/repository/search"
)

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of documents matching a query",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := loadRuntime(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = rt.logger.Sync() }()

		spec, err := specFromFlags(cmd)
		if err != nil {
			return err
		}

		ctx := logpkg.ContextWithLogger(cmd.Context(), rt.logger)
		store, err := openStore(ctx, rt.cfg.Database, rt.logger)
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := searchrepo.New(store, 0, 0).Count(ctx, spec)
		if err != nil {
			return err //nolint:wrapcheck // already carries index context
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), n)
		return err //nolint:wrapcheck // stdout write
	},
}

func init() {
	addSpecFlags(countCmd, false)

	rootCmd.AddCommand(countCmd)
}
