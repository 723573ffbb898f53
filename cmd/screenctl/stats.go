package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"screenbot/internal/config"
	"screenbot/internal/model"
	"screenbot/internal/service"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	hotStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("202")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

func newStatsCmd(root *rootOptions) *cobra.Command {
	var (
		topOnly bool
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize completed sessions",
		Long:  `Aggregate statistics over the row store, the same numbers /admin shows.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := root.config()
			texts, err := config.LoadCopy(cfg.CopyFile)
			if err != nil {
				return err
			}
			store, err := root.openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			summary, err := service.NewReportService(store, &texts.Report).Stats(ctx, topOnly)
			if err != nil {
				return fmt.Errorf("failed to read row store: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			fmt.Fprintln(out, renderStats(summary, &texts.Report))
			return nil
		},
	}
	cmd.Flags().BoolVar(&topOnly, "top", false, "Only sessions flagged as top candidates")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	return cmd
}

func renderStats(summary *model.Summary, texts *config.ReportCopy) string {
	title := texts.Title
	if summary.TopOnly {
		title = texts.TitleTop
	}

	switch summary.Status {
	case model.SummaryNoData:
		return renderNotice(texts.NoData)
	case model.SummaryNoTopCandidates:
		return renderNotice(texts.NoTop)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")
	metric := func(label string, value interface{}) {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(label+":"), countStyle.Render(fmt.Sprint(value)))
	}
	metric("sessions", summary.TotalCount)
	metric("average", fmt.Sprintf("%.1f", summary.AverageScore))
	metric("top candidates", summary.TopCandidateCount)
	metric("scoring failed", summary.ScoringFailedCount)

	if len(summary.Top3) > 0 {
		var board strings.Builder
		for i, entry := range summary.Top3 {
			if i > 0 {
				board.WriteString("\n")
			}
			display := entry.Display
			if display == "" {
				display = texts.Unknown
			}
			fmt.Fprintf(&board, "%d. %s %s", entry.Rank, display, countStyle.Render(fmt.Sprintf("%d/10", entry.OverallScore)))
			if entry.TopCandidate {
				board.WriteString(" " + hotStyle.Render(texts.HotBadge))
			}
			board.WriteString(" " + dateStyle.Render(entry.Timestamp))
		}
		b.WriteString("\n")
		b.WriteString(boxStyle.Render(board.String()))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderNotice styles a copy text whose first line is already the title
func renderNotice(text string) string {
	head, body, found := strings.Cut(text, "\n")
	if !found {
		return labelStyle.Render(text)
	}
	return titleStyle.Render(head) + "\n" + labelStyle.Render(body)
}
