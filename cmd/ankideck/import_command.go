package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ankideck/internal/config"
	"ankideck/internal/importer"
	"ankideck/internal/ledger"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var deckName string
	var force bool

	cmd := &cobra.Command{
		Use:   "import <export>",
		Short: "Disassemble an export document into the source tree",
		Long: "Import an exported deck directory (or its JSON document) into the source tree.\n" +
			"Shared fragments, templates, data.csv, media, and a deck descriptor are written.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			return ctx.withWorkspace(func(cfg *config.Config) error {
				im := importer.New(importer.Options{
					SourceDir: cfg.Paths.SourceDir,
					Indent:    cfg.Build.JSONIndent,
					Logger:    logger,
				})
				res, err := im.Import(cmd.Context(), importer.Request{
					Path:     args[0],
					DeckName: deckName,
					Force:    force,
				})
				if err != nil {
					ctx.record(cmd.Context(), logger, ledger.Entry{
						Command:    "import",
						Target:     args[0],
						Status:     ledger.StatusFailed,
						Error:      err.Error(),
						RecordedAt: time.Now(),
					})
					return err
				}
				ctx.record(cmd.Context(), logger, ledger.Entry{
					Command:    "import",
					Deck:       res.DeckName,
					Target:     res.DeckDir,
					Notes:      res.Notes,
					Media:      res.Media,
					Status:     ledger.StatusOK,
					RecordedAt: time.Now(),
				})

				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderStatusLine(statusOK, res.DeckName,
					plural(res.Notes, "note")+", "+plural(res.Media, "media file"), shouldColorize(out)))
				fmt.Fprintf(out, "Deck descriptor: decks/%s/build.json\n", res.DeckDir)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&deckName, "deck", "", "Deck name to use instead of the exported name")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing data.csv")
	return cmd
}
