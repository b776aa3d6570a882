package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Compile-time interface check.
var _ Generator = (*OllamaGenerator)(nil)

const defaultModel = "mistral"

// OllamaGenerator calls an Ollama-compatible /api/generate endpoint
// with streaming disabled.
type OllamaGenerator struct {
	baseURL     string
	model       string
	temperature float64
	client      *http.Client
}

// NewOllamaGenerator creates a generator backed by an Ollama server.
// model may be empty (defaults to mistral).
func NewOllamaGenerator(baseURL, model string, temperature float64, timeout time.Duration) *OllamaGenerator {
	if model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &OllamaGenerator{
		baseURL:     baseURL,
		model:       model,
		temperature: temperature,
		client:      &http.Client{Timeout: timeout},
	}
}

func (o *OllamaGenerator) Name() string { return "ollama:" + o.model }

// Generate sends the prompt and returns the response text. A non-200
// status yields a *StatusError; transport failures wrap
// ErrServiceUnavailable.
func (o *OllamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(ollamaGenerateRequest{
		Model:       o.model,
		Prompt:      prompt,
		Stream:      false,
		Temperature: o.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("generate: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("generate: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrServiceUnavailable, err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return "", &StatusError{Code: httpResp.StatusCode, Body: string(respBody)}
	}

	var resp ollamaGenerateResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("generate: unmarshal response: %w", err)
	}
	return resp.Response, nil
}

type ollamaGenerateRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Stream      bool    `json:"stream"`
	Temperature float64 `json:"temperature"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}
