package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"screenbot/internal/model"
)

func testPayload(answer string) model.ScreeningPayload {
	answers := map[model.QuestionKey]string{}
	for _, k := range model.QuestionKeys {
		answers[k] = answer
	}
	return model.NewScreeningPayload(
		model.Candidate{UserID: 42, Username: "dev"},
		answers,
		model.ProjectLink{Kind: model.LinkURL, URL: "https://github.com/dev/rag"},
	)
}

func TestScoreFirstAttempt(t *testing.T) {
	oracle := &fakeOracle{replies: []string{hotReply}}
	svc := NewScoringService(oracle, discardLogger())

	result, err := svc.Score(context.Background(), testPayload("built a RAG bot"))
	require.NoError(t, err)
	assert.Len(t, oracle.calls, 1)
	assert.Equal(t, 8, result.OverallScore)
	assert.True(t, result.Hot)
	assert.Equal(t, "Practical AI Application", result.Criteria[0].Name)
}

func TestScoreRetriesOnceWithJSONReminder(t *testing.T) {
	oracle := &fakeOracle{replies: []string{"Sure! Here is my opinion.", "Result:\n" + coldReply + "\nthanks"}}
	svc := NewScoringService(oracle, discardLogger())

	result, err := svc.Score(context.Background(), testPayload("built a RAG bot"))
	require.NoError(t, err)
	require.Len(t, oracle.calls, 2)
	assert.True(t, strings.HasSuffix(oracle.calls[1], "\n\nreturn valid JSON only, no prose"))
	assert.Equal(t, oracle.calls[0]+retrySuffix, oracle.calls[1])
	assert.Equal(t, 5, result.OverallScore)
}

func TestScoreFailsAfterTwoInvalidReplies(t *testing.T) {
	twoCriteria := `{"criteria":[{"name":"a","score_0_10":1,"rationale":"r"},{"name":"b","score_0_10":1,"rationale":"r"}],` +
		`"overall_score_0_10":1,"hot":false,"summary_1_2_lines":"s"}`
	oracle := &fakeOracle{replies: []string{"no json", twoCriteria}}
	svc := NewScoringService(oracle, discardLogger())

	_, err := svc.Score(context.Background(), testPayload("answer"))
	require.Error(t, err)

	var scoringErr *ScoringError
	require.True(t, errors.As(err, &scoringErr))
	assert.Equal(t, 2, scoringErr.Attempts)
	assert.Contains(t, err.Error(), "expected 3 criteria")
	assert.Len(t, oracle.calls, 2)
}

func TestScoreRejectsOutOfRangeScore(t *testing.T) {
	bad := strings.Replace(hotReply, `"score_0_10":9`, `"score_0_10":11`, 1)
	oracle := &fakeOracle{replies: []string{bad}}
	svc := NewScoringService(oracle, discardLogger())

	_, err := svc.Score(context.Background(), testPayload("answer"))
	var scoringErr *ScoringError
	require.True(t, errors.As(err, &scoringErr))
	assert.Equal(t, 2, scoringErr.Attempts)
}

func TestScoreDoesNotRetryTransportErrors(t *testing.T) {
	oracle := &fakeOracle{err: errBoom}
	svc := NewScoringService(oracle, discardLogger())

	_, err := svc.Score(context.Background(), testPayload("answer"))
	var scoringErr *ScoringError
	require.True(t, errors.As(err, &scoringErr))
	assert.Equal(t, 1, scoringErr.Attempts)
	assert.ErrorIs(t, err, errBoom)
	assert.Len(t, oracle.calls, 1)
}

func TestEvaluateMapsFailureIntoOutcome(t *testing.T) {
	svc := NewScoringService(&fakeOracle{err: errBoom}, discardLogger())

	outcome := svc.Evaluate(context.Background(), testPayload("answer"))
	assert.True(t, outcome.Failed)
	assert.Nil(t, outcome.Result)
	assert.Equal(t, "gpt-test", outcome.Model)
	assert.GreaterOrEqual(t, outcome.Latency.Milliseconds(), int64(0))
	assert.ErrorIs(t, outcome.Err, errBoom)
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "Russian", DetectLanguage(testPayload("делал RAG для поиска")))
	assert.Equal(t, "English", DetectLanguage(testPayload("built a RAG pipeline")))
	assert.Contains(t, SystemInstruction("Russian"), "strictly in Russian")
}

func TestUserInstructionEmbedsPayload(t *testing.T) {
	payload := testPayload("делал <RAG> & агентов")
	text, err := UserInstruction(payload)
	require.NoError(t, err)

	assert.Contains(t, text, `"tg_user_id":42`)
	assert.Contains(t, text, `"full_name":null`)
	assert.Contains(t, text, `"project_link":"https://github.com/dev/rag"`)
	assert.Contains(t, text, "делал <RAG> & агентов")
	for _, name := range CriteriaNames {
		assert.Contains(t, text, name)
	}
	assert.True(t, strings.HasSuffix(text, "Return JSON ONLY."))
}

func TestMockOracleProducesValidScores(t *testing.T) {
	oracle := NewMockOracle("")
	svc := NewScoringService(oracle, discardLogger())

	first, err := svc.Score(context.Background(), testPayload("answer one"))
	require.NoError(t, err)
	again, err := svc.Score(context.Background(), testPayload("answer one"))
	require.NoError(t, err)

	assert.Equal(t, first, again)
	assert.Empty(t, first.Inconsistencies())
	assert.Equal(t, "mock", oracle.Model())
}
