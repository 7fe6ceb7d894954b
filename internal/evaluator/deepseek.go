package evaluator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	deepseekModel       = "deepseek-chat"
	deepseekTemperature = 0.3
	deepseekMaxTokens   = 2000
	deepseekSystemMsg   = "You are a critical startup analyst. Always respond with valid JSON only."
)

// deepseekClient calls the chat-completion API. Failures propagate to the
// orchestrator, which decides whether to fall back.
type deepseekClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func newDeepSeekClient(apiKey, baseURL string) *deepseekClient {
	return &deepseekClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Chat sends the prompt as a single user message and returns the raw text
// of the first choice.
func (d *deepseekClient) Chat(ctx context.Context, prompt string) (string, error) {
	payload := chatRequest{
		Model: deepseekModel,
		Messages: []chatMessage{
			{Role: "system", Content: deepseekSystemMsg},
			{Role: "user", Content: prompt},
		},
		Temperature: deepseekTemperature,
		MaxTokens:   deepseekMaxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+d.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("deepseek API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}

	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("deepseek API returned no choices")
	}

	return decoded.Choices[0].Message.Content, nil
}
