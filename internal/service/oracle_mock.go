package service

import (
	"context"
	"encoding/json"
	"hash/fnv"

	"screenbot/internal/model"
)

// MockOracle scores deterministically from the prompt text, for local runs and tests
type MockOracle struct {
	model string
}

// NewMockOracle creates a mock oracle reporting the given model name
func NewMockOracle(modelName string) *MockOracle {
	if modelName == "" {
		modelName = "mock"
	}
	return &MockOracle{model: modelName}
}

// Model returns the reported model name
func (m *MockOracle) Model() string {
	return m.model
}

// Complete returns a well-formed score whose values depend only on the user prompt
func (m *MockOracle) Complete(ctx context.Context, system, user string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	h := fnv.New32a()
	h.Write([]byte(user))
	seed := h.Sum32()

	result := model.ScoreResult{Summary: "Mock evaluation."}
	for i, name := range CriteriaNames {
		score := 4 + int((seed>>(uint(i)*8))%7)
		result.Criteria = append(result.Criteria, model.Criterion{
			Name:      name,
			Score:     score,
			Rationale: "Mock rationale.",
		})
	}
	result.OverallScore = result.ExpectedOverall()
	result.Hot = result.ExpectedHot()

	out, err := json.Marshal(result)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
