package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"screenbot/internal/config"
	"screenbot/internal/model"
)

// OpenAIOracle calls the OpenAI Responses API
type OpenAIOracle struct {
	config *config.AIConfig
	client *http.Client
}

// NewOpenAIOracle creates a new Responses API client
func NewOpenAIOracle(cfg *config.AIConfig) *OpenAIOracle {
	return &OpenAIOracle{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Model returns the configured model name
func (o *OpenAIOracle) Model() string {
	return o.config.Model
}

type responsesInput struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesRequest struct {
	Model string           `json:"model"`
	Input []responsesInput `json:"input"`
}

type responsesReply struct {
	Output []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends one system+user exchange and returns the concatenated output text
func (o *OpenAIOracle) Complete(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(responsesRequest{
		Model: o.config.Model,
		Input: []responsesInput{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.config.ResponsesEndpoint(), bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.config.APIKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var reply responsesReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("responses api: status %d: %s", resp.StatusCode, model.Truncate(string(raw), 200))
		}
		return "", fmt.Errorf("decode responses reply: %w", err)
	}
	if reply.Error != nil {
		return "", fmt.Errorf("responses api: status %d: %s", resp.StatusCode, reply.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("responses api: status %d", resp.StatusCode)
	}

	var text strings.Builder
	for _, item := range reply.Output {
		if item.Type != "message" {
			continue
		}
		for _, part := range item.Content {
			if part.Type == "output_text" {
				text.WriteString(part.Text)
			}
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("empty response from responses api")
	}
	return text.String(), nil
}
