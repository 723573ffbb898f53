package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screenbot/internal/config"
	"screenbot/internal/model"
	"screenbot/internal/repository"
	"screenbot/internal/service"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSeedThenStats(t *testing.T) {
	db := filepath.Join(t.TempDir(), "records.db")

	out, err := run(t, "seed", "--sqlite", db, "--count", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "5 records")

	out, err = run(t, "stats", "--sqlite", db, "--json")
	require.NoError(t, err)

	var summary model.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, model.SummaryOK, summary.Status)
	assert.Equal(t, 5, summary.TotalCount)
	assert.Len(t, summary.Top3, 3)
	assert.Equal(t, 0, summary.ScoringFailedCount)
}

func TestStatsEmptyStore(t *testing.T) {
	db := filepath.Join(t.TempDir(), "records.db")

	out, err := run(t, "stats", "--sqlite", db)
	require.NoError(t, err)

	texts := config.DefaultCopy().Report
	assert.Equal(t, texts.NoData+"\n", out)
	assert.Equal(t, 1, strings.Count(out, texts.Title))
}

func TestStatsTopWithoutTopCandidates(t *testing.T) {
	db := filepath.Join(t.TempDir(), "records.db")
	store, err := repository.NewSQLiteRecordRepo(db)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, store.AppendRow(context.Background(), &model.SessionRecord{
			Timestamp:    "2026-10-01T10:00:00Z",
			UserID:       int64(i + 1),
			ScoresJSON:   "{}",
			OverallScore: 5,
		}))
	}
	require.NoError(t, store.Close(context.Background()))

	out, err := run(t, "stats", "--sqlite", db, "--top")
	require.NoError(t, err)

	texts := config.DefaultCopy().Report
	assert.Equal(t, texts.NoTop+"\n", out)
	assert.Equal(t, 1, strings.Count(out, texts.TitleTop))

	out, err = run(t, "stats", "--sqlite", db)
	require.NoError(t, err)
	assert.Contains(t, out, texts.Title)
	assert.NotContains(t, out, texts.NoTop)
}

func TestSeedRejectsNonPositiveCount(t *testing.T) {
	_, err := run(t, "seed", "--sqlite", filepath.Join(t.TempDir(), "x.db"), "--count", "0")
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	out, err := run(t, "token", "--secret", "s3cret", "--user-id", "42", "--username", "jane")
	require.NoError(t, err)

	claims, err := service.NewAuthService("s3cret", 0, "", 0).ValidateChatToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "jane", claims.Username)
}

func TestTokenRequiresUserID(t *testing.T) {
	_, err := run(t, "token", "--secret", "s3cret")
	assert.Error(t, err)
}

func TestRenderStatsLeaderboard(t *testing.T) {
	texts := config.DefaultCopy().Report
	summary := service.Summarize([]model.RecordRow{
		{model.ColTimestamp: "2026-01-01T10:00:00Z", model.ColUsername: "ann", model.ColOverallScore: "9", model.ColTopCandidate: "True", model.ColScoringFailed: "False"},
		{model.ColTimestamp: "2026-01-01T11:00:00Z", model.ColFullName: "Bob B", model.ColOverallScore: "6", model.ColTopCandidate: "False", model.ColScoringFailed: "False"},
	}, false)

	out := renderStats(&summary, &texts)
	assert.Contains(t, out, "@ann")
	assert.Contains(t, out, "Bob B")
	assert.Contains(t, out, "9/10")
	assert.Contains(t, out, texts.Title)
}

func TestSeedPayloadAnswersEveryQuestion(t *testing.T) {
	for i := range seedAnswers {
		require.Len(t, seedAnswers[i], len(model.QuestionKeys))

		payload := seedPayload(i)
		for _, key := range model.QuestionKeys {
			assert.NotEmpty(t, strings.TrimSpace(payload.Answers[key]), "profile %d, %s", i, key)
		}
		assert.Equal(t, "Russian", service.DetectLanguage(payload))
	}
}
