package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"screenbot/internal/config"
	"screenbot/internal/model"
	"screenbot/internal/repository"
)

const leaderboardSize = 3

// ReportService aggregates stored session records for the admin
type ReportService struct {
	store repository.RowStore
	copy  *config.ReportCopy
}

// NewReportService creates a new report service
func NewReportService(store repository.RowStore, texts *config.ReportCopy) *ReportService {
	return &ReportService{store: store, copy: texts}
}

// Stats reads every row and summarizes it. Store failures come back as *repository.StoreError.
func (s *ReportService) Stats(ctx context.Context, topOnly bool) (*model.Summary, error) {
	rows, err := s.store.FetchAllRows(ctx)
	if err != nil {
		return nil, err
	}
	summary := Summarize(rows, topOnly)
	return &summary, nil
}

// Summarize filters rows (top-only when asked) and aggregates what is left
func Summarize(rows []model.RecordRow, topOnly bool) model.Summary {
	summary := model.Summary{TopOnly: topOnly}
	if len(rows) == 0 {
		summary.Status = model.SummaryNoData
		return summary
	}

	entries := make([]model.LeaderboardEntry, 0, len(rows))
	total := 0
	for _, row := range rows {
		top := row.Bool(model.ColTopCandidate)
		if topOnly && !top {
			continue
		}
		if top {
			summary.TopCandidateCount++
		}
		if row.Bool(model.ColScoringFailed) {
			summary.ScoringFailedCount++
		}
		overall := row.Int(model.ColOverallScore)
		total += overall
		entries = append(entries, model.LeaderboardEntry{
			Display:      rowDisplayName(row),
			OverallScore: overall,
			TopCandidate: top,
			Timestamp:    row.Str(model.ColTimestamp),
		})
	}

	if len(entries) == 0 {
		summary.Status = model.SummaryNoTopCandidates
		return summary
	}

	summary.Status = model.SummaryOK
	summary.TotalCount = len(entries)
	summary.AverageScore = roundTenth(float64(total) / float64(len(entries)))

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].OverallScore != entries[j].OverallScore {
			return entries[i].OverallScore > entries[j].OverallScore
		}
		return entries[i].Timestamp > entries[j].Timestamp
	})
	if len(entries) > leaderboardSize {
		entries = entries[:leaderboardSize]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	summary.Top3 = entries
	return summary
}

// roundTenth rounds to one decimal on the exact binary value, ties to even (7.25 -> 7.2)
func roundTenth(x float64) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 1, 64), 64)
	return v
}

// rowDisplayName is "@handle", else the full name, else empty (rendered as unknown)
func rowDisplayName(row model.RecordRow) string {
	if handle := row.Str(model.ColUsername); handle != "" {
		return "@" + handle
	}
	return row.Str(model.ColFullName)
}

// RenderSummary renders a summary as the admin chat text
func (s *ReportService) RenderSummary(summary model.Summary) string {
	c := s.copy
	switch summary.Status {
	case model.SummaryNoData:
		return c.NoData
	case model.SummaryNoTopCandidates:
		return c.NoTop
	}

	title := c.Title
	if summary.TopOnly {
		title = c.TitleTop
	}
	lines := []string{
		title,
		fmt.Sprintf(c.Total, summary.TotalCount),
		fmt.Sprintf(c.Average, summary.AverageScore),
		fmt.Sprintf(c.TopCount, summary.TopCandidateCount),
		fmt.Sprintf(c.FailedCount, summary.ScoringFailedCount),
		"",
		c.Leaderboard,
	}
	for _, entry := range summary.Top3 {
		badge := ""
		if entry.TopCandidate {
			badge = c.HotBadge
		}
		display := entry.Display
		if display == "" {
			display = c.Unknown
		}
		lines = append(lines, fmt.Sprintf(c.Entry, entry.Rank, badge, display, entry.OverallScore))
	}
	return strings.Join(lines, "\n")
}
