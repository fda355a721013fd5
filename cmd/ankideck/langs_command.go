package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"ankideck/internal/datatable"
	"ankideck/internal/ident"
	"ankideck/internal/language"
	"ankideck/internal/textutil"
)

func newLangsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List the language projections of data.csv",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := datatable.ReadFile(ctx.paths().Data())
			if err != nil {
				return err
			}
			rows := make([][]string, 0)
			for _, info := range language.DescribeAll(res.Table.Languages()) {
				projection, _ := res.Table.Projection(info.Tag)
				notes := len(projection.Rows)
				if projection.Synthesized {
					notes = 0
				}
				shift := ident.LanguageShift(info.Tag)
				rows = append(rows, []string{
					info.Tag,
					info.Display,
					textutil.Ternary(info.Valid, "yes", "no"),
					strconv.Itoa(notes),
					strconv.Itoa(shift),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Language", "Name", "BCP 47", "Notes", "Shift"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
				shouldColorize(out),
			))
			for _, w := range res.Warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: column %q: %s\n", w.Column, w.Message)
			}
			return nil
		},
	}
}
