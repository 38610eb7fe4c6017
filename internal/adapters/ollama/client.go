// Package ollama provides an adapter for the Ollama LLM service.
// It turns a runner's free-text race goal into a structured GoalIntent by
// asking a local Ollama model for a JSON answer.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ewilliams-labs/stride/internal/core/domain"
	"github.com/ewilliams-labs/stride/internal/core/ports"
)

const (
	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "deepseek-r1:8b"
)

const systemPrompt = "You extract race goals for a running playlist generator. Return ONLY a JSON object of the form {\"distance\": string, \"goal_minutes\": number}.\n\nRules:\ndistance: one of \"5k\", \"10k\", \"half\", \"marathon\", or a value with a unit such as \"15km\" or \"10mi\".\ngoal_minutes: the target finishing time in minutes. 'sub-4' on a marathon means 240. 'three and a half hours' means 210.\nIf the message gives a pace instead of a finish time, multiply it by the distance.\nNo conversational text."

var _ ports.GoalParser = (*Client)(nil)

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Format   string        `json:"format,omitempty"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Error   string      `json:"error,omitempty"`
}

func NewClient(baseURL, model string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	return &Client{
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ParseGoal asks the model for the distance and goal time in message.
func (c *Client) ParseGoal(ctx context.Context, message string) (domain.GoalIntent, error) {
	payload := chatRequest{
		Model:  c.model,
		Stream: false,
		Format: "json",
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: message},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return domain.GoalIntent{}, fmt.Errorf("ollama: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return domain.GoalIntent{}, fmt.Errorf("ollama: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.GoalIntent{}, fmt.Errorf("ollama: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.GoalIntent{}, fmt.Errorf("ollama: unexpected status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.GoalIntent{}, fmt.Errorf("ollama: decode response: %w", err)
	}
	if parsed.Error != "" {
		return domain.GoalIntent{}, fmt.Errorf("ollama: %s", parsed.Error)
	}

	return decodeGoal(parsed.Message.Content)
}

// decodeGoal extracts the JSON object from content. Reasoning models may wrap
// it in <think> blocks or prose.
func decodeGoal(content string) (domain.GoalIntent, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return domain.GoalIntent{}, ports.ErrUnparseableGoal
	}

	var intent domain.GoalIntent
	if err := json.Unmarshal([]byte(content[start:end+1]), &intent); err != nil {
		return domain.GoalIntent{}, fmt.Errorf("%w: %v", ports.ErrUnparseableGoal, err)
	}
	intent.Distance = strings.TrimSpace(intent.Distance)
	if intent.Distance == "" || intent.GoalMinutes <= 0 {
		return domain.GoalIntent{}, ports.ErrUnparseableGoal
	}
	return intent, nil
}
