package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"soulsprint/internal/config"
	"strings"
	"time"
)

var (
	ErrDisabled      = errors.New("gemini: api key not configured")
	ErrEmptyResponse = errors.New("gemini: empty response")
)

// StatusError is returned for non-2xx responses
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gemini: status %d: %s", e.StatusCode, e.Body)
}

// Client calls the Gemini generateContent endpoint
type Client struct {
	config *config.AIConfig
	client *http.Client
}

// NewClient creates a Gemini client from AI config
func NewClient(cfg *config.AIConfig) *Client {
	return &Client{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// Enabled returns true if an API key is configured
func (c *Client) Enabled() bool {
	return c.config.IsEnabled()
}

// GenerateJSON asks the model for a JSON document and returns its raw text
func (c *Client) GenerateJSON(ctx context.Context, modelName, prompt string) (string, error) {
	return c.generate(ctx, modelName, prompt, "application/json")
}

// GenerateText asks the model for plain text
func (c *Client) GenerateText(ctx context.Context, modelName, prompt string) (string, error) {
	return c.generate(ctx, modelName, prompt, "text/plain")
}

func (c *Client) generate(ctx context.Context, modelName, prompt, mimeType string) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": mimeType,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	// key stays out of the URL; transport errors quote it
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.ModelEndpoint(modelName), bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.config.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		if text := strings.TrimSpace(geminiResp.Candidates[0].Content.Parts[0].Text); text != "" {
			return text, nil
		}
	}
	return "", ErrEmptyResponse
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
