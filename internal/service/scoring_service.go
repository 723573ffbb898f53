package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"screenbot/internal/model"
)

// Oracle is a text-completion service used for scoring
type Oracle interface {
	Complete(ctx context.Context, system, user string) (string, error)
	Model() string
}

// CriteriaNames are the fixed criteria the oracle must score, in order
var CriteriaNames = [model.CriteriaCount]string{
	"Practical AI Application",
	"AI Reasoning & Control",
	"AI Product Thinking",
}

const retrySuffix = "\n\nreturn valid JSON only, no prose"

var cyrillic = regexp.MustCompile(`[А-Яа-яЁё]`)

// ScoringError means the oracle produced no valid result
type ScoringError struct {
	Attempts int
	Err      error
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("scoring failed after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *ScoringError) Unwrap() error {
	return e.Err
}

// ScoringOutcome is the result of one Evaluate call, success or failure
type ScoringOutcome struct {
	Result  *model.ScoreResult
	Latency time.Duration
	Model   string
	Failed  bool
	Err     error
}

// ScoringService turns a screening payload into a validated score
type ScoringService struct {
	oracle Oracle
	logger *slog.Logger
}

// NewScoringService creates a new scoring service
func NewScoringService(oracle Oracle, logger *slog.Logger) *ScoringService {
	return &ScoringService{oracle: oracle, logger: logger}
}

// Evaluate scores the payload and measures wall-clock latency, retry included.
// Failures are reported in the outcome, never returned.
func (s *ScoringService) Evaluate(ctx context.Context, payload model.ScreeningPayload) ScoringOutcome {
	start := time.Now()
	result, err := s.Score(ctx, payload)
	outcome := ScoringOutcome{
		Result:  result,
		Latency: time.Since(start),
		Model:   s.oracle.Model(),
	}
	if err != nil {
		outcome.Failed = true
		outcome.Err = err
		s.logger.Warn("scoring failed",
			"user_id", payload.Candidate.UserID,
			"latency_ms", outcome.Latency.Milliseconds(),
			"error", err)
		return outcome
	}

	s.logger.Info("candidate scored",
		"user_id", payload.Candidate.UserID,
		"overall", result.OverallScore,
		"hot", result.Hot,
		"latency_ms", outcome.Latency.Milliseconds(),
		"model", outcome.Model)
	return outcome
}

// Score calls the oracle once and retries once on an unparseable or invalid reply.
// Transport errors are not retried.
func (s *ScoringService) Score(ctx context.Context, payload model.ScreeningPayload) (*model.ScoreResult, error) {
	system := SystemInstruction(DetectLanguage(payload))
	user, err := UserInstruction(payload)
	if err != nil {
		return nil, &ScoringError{Attempts: 0, Err: err}
	}

	prompts := []string{user, user + retrySuffix}
	var lastErr error
	for i, prompt := range prompts {
		text, err := s.oracle.Complete(ctx, system, prompt)
		if err != nil {
			return nil, &ScoringError{Attempts: i + 1, Err: fmt.Errorf("oracle call: %w", err)}
		}

		result, err := model.ParseScoreResult(text)
		if err == nil {
			if issues := result.Inconsistencies(); len(issues) > 0 {
				s.logger.Warn("oracle score arithmetic disagrees with criteria",
					"user_id", payload.Candidate.UserID,
					"issues", issues)
			}
			return result, nil
		}
		lastErr = err
		s.logger.Debug("oracle reply rejected", "attempt", i+1, "error", err)
	}
	return nil, &ScoringError{Attempts: len(prompts), Err: lastErr}
}

// DetectLanguage is Russian when any answer contains a Cyrillic letter, English otherwise
func DetectLanguage(payload model.ScreeningPayload) string {
	if cyrillic.MatchString(payload.AnswersText()) {
		return "Russian"
	}
	return "English"
}

// SystemInstruction holds the output schema and rules
func SystemInstruction(language string) string {
	var b strings.Builder
	b.WriteString("You are an HR screening scorer. Return JSON ONLY.\n\n")
	b.WriteString("IMPORTANT:\n")
	fmt.Fprintf(&b, "- Always write rationale and summary strictly in %s.\n", language)
	fmt.Fprintf(&b, "- Do NOT use any other language besides %s in explanations.\n", language)
	b.WriteString("- Keep explanations concise and professional.\n\n")
	b.WriteString("You MUST follow this schema exactly:\n")
	b.WriteString("{\n")
	b.WriteString("  \"criteria\": [\n")
	for i := 0; i < model.CriteriaCount; i++ {
		sep := ","
		if i == model.CriteriaCount-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "    { \"name\": \"string\", \"score_0_10\": 0, \"rationale\": \"1-2 sentences\" }%s\n", sep)
	}
	b.WriteString("  ],\n")
	b.WriteString("  \"overall_score_0_10\": 0,\n")
	b.WriteString("  \"hot\": false,\n")
	b.WriteString("  \"summary_1_2_lines\": \"string\"\n")
	b.WriteString("}\n")
	b.WriteString("Rules:\n")
	b.WriteString("- criteria must be exactly 3 items\n")
	b.WriteString("- score_0_10 must be integer 0..10\n")
	b.WriteString("- rationale must be 1-2 sentences\n")
	b.WriteString("- summary_1_2_lines must be <= 2 lines\n")
	b.WriteString("- If project_link is 'declined', mention it explicitly without silently penalizing.\n")
	return b.String()
}

// UserInstruction embeds the payload and the scoring rules
func UserInstruction(payload model.ScreeningPayload) (string, error) {
	var doc bytes.Buffer
	enc := json.NewEncoder(&doc)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload.Document()); err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}

	var b strings.Builder
	b.WriteString("Score this candidate based on their answers.\n")
	fmt.Fprintf(&b, "Payload JSON:\n%s\n", strings.TrimSpace(doc.String()))
	b.WriteString("Use exactly these 3 criteria names:\n")
	for i, name := range CriteriaNames {
		fmt.Fprintf(&b, "%d) %s\n", i+1, name)
	}
	b.WriteString("Overall score must be round(mean(criteria scores)).\n")
	b.WriteString("hot must be true if overall>=8 OR at least 2 criteria>=8.\n")
	b.WriteString("Return JSON ONLY.")
	return b.String(), nil
}
