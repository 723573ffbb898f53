package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// CriteriaCount is the fixed number of scoring criteria
const CriteriaCount = 3

// Criterion is one scored competency
type Criterion struct {
	Name      string `json:"name"`
	Score     int    `json:"score_0_10"`
	Rationale string `json:"rationale"`
}

// ScoreResult is the validated evaluation returned by the scoring oracle
type ScoreResult struct {
	Criteria     []Criterion `json:"criteria"`
	OverallScore int         `json:"overall_score_0_10"`
	Hot          bool        `json:"hot"`
	Summary      string      `json:"summary_1_2_lines"`
}

// ErrNoJSONObject is returned when the oracle text contains no JSON object
var ErrNoJSONObject = errors.New("no JSON object in response")

// wire mirrors ScoreResult with pointers so missing fields are detectable
type scoreWire struct {
	Criteria []struct {
		Name      *string `json:"name"`
		Score     *int    `json:"score_0_10"`
		Rationale *string `json:"rationale"`
	} `json:"criteria"`
	OverallScore *int    `json:"overall_score_0_10"`
	Hot          *bool   `json:"hot"`
	Summary      *string `json:"summary_1_2_lines"`
}

// ParseScoreResult extracts the JSON object from raw oracle text and validates it
func ParseScoreResult(text string) (*ScoreResult, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, ErrNoJSONObject
	}

	var wire scoreWire
	if err := json.Unmarshal([]byte(text[start:end+1]), &wire); err != nil {
		return nil, fmt.Errorf("decode score result: %w", err)
	}

	if wire.OverallScore == nil || wire.Hot == nil || wire.Summary == nil {
		return nil, errors.New("score result: missing overall_score_0_10, hot or summary_1_2_lines")
	}

	result := &ScoreResult{
		OverallScore: *wire.OverallScore,
		Hot:          *wire.Hot,
		Summary:      *wire.Summary,
	}
	for i, c := range wire.Criteria {
		if c.Name == nil || c.Score == nil || c.Rationale == nil {
			return nil, fmt.Errorf("score result: criterion %d is incomplete", i+1)
		}
		result.Criteria = append(result.Criteria, Criterion{
			Name:      *c.Name,
			Score:     *c.Score,
			Rationale: *c.Rationale,
		})
	}

	if err := result.Validate(); err != nil {
		return nil, err
	}
	return result, nil
}

// Validate enforces exactly three criteria and scores within 0..10
func (r *ScoreResult) Validate() error {
	if len(r.Criteria) != CriteriaCount {
		return fmt.Errorf("score result: expected %d criteria, got %d", CriteriaCount, len(r.Criteria))
	}
	for i, c := range r.Criteria {
		if c.Score < 0 || c.Score > 10 {
			return fmt.Errorf("score result: criterion %d score %d out of range 0..10", i+1, c.Score)
		}
	}
	if r.OverallScore < 0 || r.OverallScore > 10 {
		return fmt.Errorf("score result: overall score %d out of range 0..10", r.OverallScore)
	}
	return nil
}

// ExpectedOverall is round(mean(criteria scores))
func (r *ScoreResult) ExpectedOverall() int {
	if len(r.Criteria) == 0 {
		return 0
	}
	sum := 0
	for _, c := range r.Criteria {
		sum += c.Score
	}
	return int(math.Round(float64(sum) / float64(len(r.Criteria))))
}

// ExpectedHot is overall >= 8 or at least two criteria >= 8
func (r *ScoreResult) ExpectedHot() bool {
	high := 0
	for _, c := range r.Criteria {
		if c.Score >= 8 {
			high++
		}
	}
	return r.OverallScore >= 8 || high >= 2
}

// Inconsistencies lists where the oracle's own arithmetic disagrees with its criteria.
// The oracle values are kept as-is; callers only report these.
func (r *ScoreResult) Inconsistencies() []string {
	var out []string
	if want := r.ExpectedOverall(); want != r.OverallScore {
		out = append(out, fmt.Sprintf("overall_score_0_10=%d, mean of criteria rounds to %d", r.OverallScore, want))
	}
	if want := r.ExpectedHot(); want != r.Hot {
		out = append(out, fmt.Sprintf("hot=%t, rule gives %t", r.Hot, want))
	}
	return out
}
