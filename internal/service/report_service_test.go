package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screenbot/internal/config"
	"screenbot/internal/model"
	"screenbot/internal/repository"
)

func row(ts, username, fullName, overall, top, failed string) model.RecordRow {
	return model.RecordRow{
		model.ColTimestamp:     ts,
		model.ColUsername:      username,
		model.ColFullName:      fullName,
		model.ColOverallScore:  overall,
		model.ColTopCandidate:  top,
		model.ColScoringFailed: failed,
	}
}

func sampleRows() []model.RecordRow {
	return []model.RecordRow{
		row("2026-10-01T10:00:00Z", "ann", "", "9", "TRUE", "FALSE"),
		row("2026-10-02T10:00:00Z", "", "Bob B", "5", "false", "false"),
		row("2026-10-03T10:00:00Z", "", "", "0", "FALSE", "TRUE"),
		row("2026-10-04T10:00:00Z", "cat", "", "9", "да", "no"),
		row("2026-10-05T10:00:00Z", "dan", "", "not-a-number", "yes", ""),
	}
}

func TestSummarizeEmptyStore(t *testing.T) {
	s := Summarize(nil, false)
	assert.Equal(t, model.SummaryNoData, s.Status)

	s = Summarize(nil, true)
	assert.Equal(t, model.SummaryNoData, s.Status)
}

func TestSummarizeAll(t *testing.T) {
	s := Summarize(sampleRows(), false)

	assert.Equal(t, model.SummaryOK, s.Status)
	assert.Equal(t, 5, s.TotalCount)
	assert.Equal(t, 4.6, s.AverageScore)
	assert.Equal(t, 3, s.TopCandidateCount)
	assert.Equal(t, 1, s.ScoringFailedCount)

	require.Len(t, s.Top3, 3)
	assert.Equal(t, "@cat", s.Top3[0].Display, "ties broken by newer timestamp")
	assert.Equal(t, "@ann", s.Top3[1].Display)
	assert.Equal(t, "Bob B", s.Top3[2].Display)
	assert.Equal(t, 1, s.Top3[0].Rank)
	assert.Equal(t, 3, s.Top3[2].Rank)
}

func TestSummarizeAverageRoundsTiesToEven(t *testing.T) {
	scores := func(values ...string) []model.RecordRow {
		rows := make([]model.RecordRow, 0, len(values))
		for _, v := range values {
			rows = append(rows, row("2026-10-01T10:00:00Z", "u", "", v, "FALSE", "FALSE"))
		}
		return rows
	}

	assert.Equal(t, 7.2, Summarize(scores("7", "7", "7", "8"), false).AverageScore)
	assert.Equal(t, 8.0, Summarize(scores("10", "8", "6"), false).AverageScore)
	assert.Equal(t, 7.5, Summarize(scores("7", "8"), false).AverageScore)
	assert.Equal(t, 1.7, Summarize(scores("1", "2", "2"), false).AverageScore)
	assert.Equal(t, 6.8, Summarize(scores("6", "7", "7", "7"), false).AverageScore)
}

func TestSummarizeTopOnlyFiltersBeforeAggregating(t *testing.T) {
	s := Summarize(sampleRows(), true)

	assert.Equal(t, model.SummaryOK, s.Status)
	assert.Equal(t, 3, s.TotalCount)
	assert.Equal(t, 6.0, s.AverageScore)
	assert.Equal(t, 3, s.TopCandidateCount)
	assert.Equal(t, 0, s.ScoringFailedCount)
	require.Len(t, s.Top3, 3)
	assert.Equal(t, "@dan", s.Top3[2].Display)
}

func TestSummarizeNoTopCandidates(t *testing.T) {
	rows := []model.RecordRow{row("2026-10-01T10:00:00Z", "ann", "", "3", "FALSE", "FALSE")}
	s := Summarize(rows, true)
	assert.Equal(t, model.SummaryNoTopCandidates, s.Status)
}

func TestRenderSummary(t *testing.T) {
	svc := NewReportService(&fakeStore{}, &config.DefaultCopy().Report)

	text := svc.RenderSummary(Summarize(sampleRows(), false))
	want := "📊 Статистика\n" +
		"Всего прохождений: 5\n" +
		"Средний балл: 4.6\n" +
		"Топ-кандидаты: 3\n" +
		"LLM errors: 1\n" +
		"\n" +
		"🏆 Топ-3:\n" +
		"1) 🔥 @cat — 9/10\n" +
		"2) 🔥 @ann — 9/10\n" +
		"3) Bob B — 5/10"
	assert.Equal(t, want, text)

	assert.Equal(t, "📊 Статистика\nПока нет прохождений.", svc.RenderSummary(Summarize(nil, false)))
	noTop := Summarize([]model.RecordRow{row("t", "", "", "1", "FALSE", "FALSE")}, true)
	assert.Equal(t, "📊 Статистика (топ)\nПока нет топ-кандидатов.", svc.RenderSummary(noTop))
}

func TestRenderSummaryUnknownName(t *testing.T) {
	svc := NewReportService(&fakeStore{}, &config.DefaultCopy().Report)
	text := svc.RenderSummary(Summarize([]model.RecordRow{row("t", "", "", "7", "FALSE", "FALSE")}, false))
	assert.Contains(t, text, "1) unknown — 7/10")
}

func TestStatsPropagatesStoreError(t *testing.T) {
	store := &fakeStore{fetchErr: &repository.StoreError{Op: "fetch", Err: errBoom}}
	svc := NewReportService(store, &config.DefaultCopy().Report)

	_, err := svc.Stats(context.Background(), false)
	var storeErr *repository.StoreError
	assert.True(t, errors.As(err, &storeErr))
}
