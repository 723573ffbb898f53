package service

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"screenbot/internal/config"
	"screenbot/internal/model"
	"screenbot/internal/repository"
)

// CompletionService scores a finished screening, persists the record and alerts the admin
type CompletionService struct {
	scoring *ScoringService
	store   repository.RowStore
	alerts  *AlertService
	notices Messenger
	copy    *config.ConversationCopy
	now     func() time.Time
	logger  *slog.Logger
}

// NewCompletionService creates a new completion service
func NewCompletionService(
	scoring *ScoringService,
	store repository.RowStore,
	alerts *AlertService,
	notices Messenger,
	texts *config.ConversationCopy,
	logger *slog.Logger,
) *CompletionService {
	return &CompletionService{
		scoring: scoring,
		store:   store,
		alerts:  alerts,
		notices: notices,
		copy:    texts,
		now:     time.Now,
		logger:  logger,
	}
}

// CompletionResult is what happened to one finished screening
type CompletionResult struct {
	Record   *model.SessionRecord
	Outcome  ScoringOutcome
	StoreErr error
	Alerted  bool
}

// Complete never fails: scoring and store errors end up in the record and the alert
func (s *CompletionService) Complete(ctx context.Context, payload model.ScreeningPayload, chatID int64) CompletionResult {
	timestamp := s.now()

	wait, err := s.notices.Send(ctx, chatID, textMessage(s.copy.ScoringWait))
	if err != nil {
		s.logger.Debug("send scoring notice failed", "user_id", payload.Candidate.UserID, "error", err)
	}

	outcome := s.scoring.Evaluate(ctx, payload)

	if wait != nil {
		if err := s.notices.Delete(ctx, *wait); err != nil {
			s.logger.Debug("delete scoring notice failed", "user_id", payload.Candidate.UserID, "error", err)
		}
	}

	record := BuildRecord(timestamp, payload, outcome)
	result := CompletionResult{Record: record, Outcome: outcome}

	if err := s.store.AppendRow(ctx, record); err != nil {
		result.StoreErr = err
		s.logger.Error("append session record failed", "user_id", payload.Candidate.UserID, "error", err)
	} else {
		s.logger.Info("session record appended",
			"user_id", payload.Candidate.UserID,
			"overall", record.OverallScore,
			"top", record.TopCandidate,
			"scoring_failed", record.ScoringFailed)
	}

	input := AlertInput{
		Candidate:     payload.Candidate,
		Result:        outcome.Result,
		Link:          payload.ProjectLink,
		Top:           record.TopCandidate,
		ScoringFailed: record.ScoringFailed,
		ScoringError:  record.Error,
	}
	if result.StoreErr != nil {
		input.StoreError = model.Truncate(result.StoreErr.Error(), model.MaxRecordErrorLen)
	}
	if ShouldAlert(input.ScoringFailed, input.StoreError != "", input.Top) {
		s.alerts.Dispatch(ctx, input)
		result.Alerted = true
	}
	return result
}

// BuildRecord flattens a payload and its scoring outcome into the persisted row
func BuildRecord(timestamp time.Time, payload model.ScreeningPayload, outcome ScoringOutcome) *model.SessionRecord {
	record := &model.SessionRecord{
		Timestamp:   model.FormatTimestamp(timestamp),
		UserID:      payload.Candidate.UserID,
		Username:    payload.Candidate.Username,
		FullName:    payload.Candidate.FullName,
		AnswersJSON: marshalCompact(payload.Answers),
		ProjectLink: payload.ProjectLink.Value(),
		ProjectNote: payload.ProjectLink.Note,
		ScoresJSON:  "{}",
		LLMModel:    outcome.Model,
		LatencyMS:   outcome.Latency.Milliseconds(),
	}

	if outcome.Failed || outcome.Result == nil {
		record.ScoringFailed = true
		if outcome.Err != nil {
			record.Error = model.Truncate(outcome.Err.Error(), model.MaxRecordErrorLen)
		}
		return record
	}

	record.ScoresJSON = marshalCompact(outcome.Result)
	record.OverallScore = outcome.Result.OverallScore
	record.TopCandidate = outcome.Result.Hot
	return record
}

// marshalCompact encodes v as JSON without escaping non-ASCII or HTML characters
func marshalCompact(v interface{}) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "{}"
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
