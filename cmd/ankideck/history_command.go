package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"ankideck/internal/ledger"
)

const historyTimeLayout = "2006-01-02 15:04:05"

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent builds and imports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.Ledger.Enabled {
				fmt.Fprintln(out, "Build ledger is disabled (ledger.enabled = false)")
				return nil
			}
			path := cfg.LedgerPath()
			if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintln(out, "No history recorded yet")
				return nil
			}

			store, err := ledger.Open(cmd.Context(), path)
			if err != nil {
				return err
			}
			defer store.Close()
			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No history recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				status := e.Status
				if e.Error != "" {
					status += ": " + e.Error
				}
				rows = append(rows, []string{
					e.RecordedAt.Local().Format(historyTimeLayout),
					e.Command,
					e.Deck,
					e.Language,
					e.Target,
					strconv.Itoa(e.Notes),
					strconv.Itoa(e.Media),
					status,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"When", "Command", "Deck", "Language", "Target", "Notes", "Media", "Status"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				shouldColorize(out),
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show (0 for all)")
	return cmd
}
