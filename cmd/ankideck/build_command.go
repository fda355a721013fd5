package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ankideck/internal/builder"
	"ankideck/internal/config"
	"ankideck/internal/language"
	"ankideck/internal/ledger"
	"ankideck/internal/textutil"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var lang string
	var keepGoing bool

	cmd := &cobra.Command{
		Use:   "build [deck...]",
		Short: "Assemble export documents from the source tree",
		Long: "Assemble one export document per deck and language into the build tree.\n" +
			"Without arguments every deck under decks/ is built.\n\n" +
			"A data.csv that holds only its header row builds decks with no notes\n" +
			"instead of failing, so a new tree can be built before any rows exist.",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			return ctx.withWorkspace(func(cfg *config.Config) error {
				req := builder.Request{
					Decks:     deckDirs(args),
					Language:  cfg.Build.DefaultLanguage,
					KeepGoing: cfg.Build.KeepGoing,
				}
				if cmd.Flags().Changed("lang") {
					req.Language = strings.TrimSpace(lang)
				}
				if cmd.Flags().Changed("keep-going") {
					req.KeepGoing = keepGoing
				}

				b := builder.New(builder.Options{
					SourceDir: cfg.Paths.SourceDir,
					BuildDir:  cfg.Paths.BuildDir,
					Indent:    cfg.Build.JSONIndent,
					Logger:    logger,
				})
				report, buildErr := b.Build(cmd.Context(), req)
				if report == nil {
					return buildErr
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				now := time.Now()
				entries := make([]ledger.Entry, 0, len(report.Results))
				for _, res := range report.Results {
					fmt.Fprintln(out, formatBuildResult(res, colorize))
					entries = append(entries, buildEntry(res, now))
				}
				ctx.record(cmd.Context(), logger, entries...)
				return buildErr
			})
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "", "Build only this language projection")
	cmd.Flags().BoolVarP(&keepGoing, "keep-going", "k", false, "Continue with remaining decks after a failure")
	return cmd
}

// deckDirs accepts deck names ("Spanish::Verbs") as well as directory names.
func deckDirs(args []string) []string {
	dirs := make([]string, 0, len(args))
	for _, arg := range args {
		if dir := textutil.DeckDirName(arg); dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func formatBuildResult(res builder.Result, colorize bool) string {
	if res.Err != nil {
		subject := textutil.TargetName(res.DeckDir, res.Language, language.Default)
		return renderStatusLine(statusError, subject, res.Err.Error(), colorize)
	}
	kind := statusOK
	detail := plural(res.Notes, "note") + ", " + plural(res.Media, "media file")
	if len(res.Warnings) > 0 {
		kind = statusWarn
		detail += ", " + plural(len(res.Warnings), "warning")
	}
	return renderStatusLine(kind, res.Path, detail, colorize)
}

func buildEntry(res builder.Result, at time.Time) ledger.Entry {
	entry := ledger.Entry{
		Command:    "build",
		Deck:       res.Deck,
		Language:   res.Language,
		Target:     res.Target,
		Notes:      res.Notes,
		Media:      res.Media,
		Status:     ledger.StatusOK,
		RecordedAt: at,
	}
	if res.Err != nil {
		entry.Status = ledger.StatusFailed
		entry.Error = res.Err.Error()
	}
	return entry
}
