package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ankideck/internal/source"
	"ankideck/internal/textutil"
)

func newDecksCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "decks",
		Short: "List the decks of the source tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := ctx.paths()
			dirs, err := source.ListDecks(paths)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(dirs) == 0 {
				fmt.Fprintf(out, "No decks under %s\n", paths.Decks())
				return nil
			}
			rows := make([][]string, 0, len(dirs))
			for _, dir := range dirs {
				deck, err := source.LoadDeck(paths, dir)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
					rows = append(rows, []string{textutil.DeckNameFromDir(dir), dir, "(unreadable)", "-", "-", "-"})
					continue
				}
				overrides := strings.Join(deck.Overrides(), ", ")
				if overrides == "" {
					overrides = "-"
				}
				rows = append(rows, []string{
					deck.Descriptor.Name,
					deck.Dir,
					deck.Descriptor.EffectiveModelName(),
					strconv.Itoa(len(deck.Descriptor.Fields)),
					strconv.Itoa(len(deck.Descriptor.Templates)),
					overrides,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Deck", "Directory", "Model", "Fields", "Templates", "Overrides"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				shouldColorize(out),
			))
			return nil
		},
	}
}
