package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ankideck/internal/config"
	"ankideck/internal/duplicator"
)

func newCopyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "copy <deck> [new-name]",
		Short: "Duplicate a deck with fresh identifiers",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			var dst string
			if len(args) == 2 {
				dst = args[1]
			}
			return ctx.withWorkspace(func(cfg *config.Config) error {
				d := duplicator.New(duplicator.Options{
					SourceDir: cfg.Paths.SourceDir,
					Indent:    cfg.Build.JSONIndent,
					Logger:    logger,
				})
				res, err := d.Copy(args[0], dst)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Copied %s to %s (decks/%s)\n", args[0], res.DeckName, res.DeckDir)
				return nil
			})
		},
	}
}
