package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ankideck/internal/config"
	"ankideck/internal/reindex"
	"ankideck/internal/source"
)

func newIndexCommand(ctx *commandContext) *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Fill in blank or duplicate guids in data.csv",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWorkspace(func(cfg *config.Config) error {
				path := source.Paths{Root: cfg.Paths.SourceDir}.Data()
				res, err := reindex.File(path, reindex.Options{Full: full})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reindexed %s: %d of %d guids replaced\n", path, res.Replaced, res.Rows)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "Replace every guid, not only blank or duplicate ones")
	return cmd
}
