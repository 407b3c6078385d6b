package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/minuteman-notes/minuteman/internal/common"
)

const (
	defaultOllamaURL   = "http://localhost:11434"
	defaultOllamaModel = "llama3.2"
)

// ollamaClient implements the Client interface against a local Ollama
// server using its generate API.
type ollamaClient struct {
	baseURL string
	model   string
	http    *http.Client
}

func newOllamaClient(cfg Config) (Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultOllamaModel
	}
	return &ollamaClient{
		baseURL: baseURL,
		model:   model,
		http:    &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	System  string         `json:"system,omitempty"`
	Stream  bool           `json:"stream"`
	Format  string         `json:"format,omitempty"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func (c *ollamaClient) Classify(ctx context.Context, req ClassifyRequest) (ClassifyResponse, error) {
	content, err := c.generate(ctx, classifySystemPrompt, buildClassifyPrompt(req))
	if err != nil {
		return ClassifyResponse{}, err
	}
	return parseClassifyResponse(content)
}

func (c *ollamaClient) Extract(ctx context.Context, req ExtractRequest) (ExtractResponse, error) {
	content, err := c.generate(ctx, extractSystemPrompt, buildExtractPrompt(req))
	if err != nil {
		return ExtractResponse{}, err
	}
	return parseExtractResponse(content)
}

// HealthCheck hits the tags endpoint, which answers without loading a
// model.
func (c *ollamaClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("creating health check request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: ollama returned status %d", common.ErrBackendUnavailable, resp.StatusCode)
	}
	return nil
}

func (c *ollamaClient) ModelName() string { return c.model }

func (c *ollamaClient) generate(ctx context.Context, system, prompt string) (string, error) {
	body, err := json.Marshal(ollamaGenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		System: system,
		Stream: false,
		Format: "json",
		Options: map[string]any{
			"temperature": 0,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encoding generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: ollama returned status %d: %s", common.ErrBackendUnavailable, resp.StatusCode, bytes.TrimSpace(data))
	}

	var gen ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gen); err != nil {
		return "", fmt.Errorf("%w: decoding generate response: %v", common.ErrMalformedResponse, err)
	}
	if gen.Response == "" {
		return "", fmt.Errorf("%w: empty generate response", common.ErrMalformedResponse)
	}
	return gen.Response, nil
}
