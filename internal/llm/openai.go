package llm

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/minuteman-notes/minuteman/internal/common"
)

const defaultOpenAIModel = "gpt-4o-mini"

// openAIClient implements the Client interface over the OpenAI chat API
// and any compatible endpoint.
type openAIClient struct {
	api         *openai.Client
	model       string
	temperature float32
}

func newOpenAIClient(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	apiCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &openAIClient{
		api:         openai.NewClientWithConfig(apiCfg),
		model:       model,
		temperature: float32(cfg.Temperature),
	}, nil
}

// Classify sends a classification request and parses the strict response.
func (c *openAIClient) Classify(ctx context.Context, req ClassifyRequest) (ClassifyResponse, error) {
	content, err := c.complete(ctx, classifySystemPrompt, buildClassifyPrompt(req))
	if err != nil {
		return ClassifyResponse{}, err
	}
	return parseClassifyResponse(content)
}

// Extract sends an extraction request and parses the strict response.
func (c *openAIClient) Extract(ctx context.Context, req ExtractRequest) (ExtractResponse, error) {
	content, err := c.complete(ctx, extractSystemPrompt, buildExtractPrompt(req))
	if err != nil {
		return ExtractResponse{}, err
	}
	return parseExtractResponse(content)
}

// HealthCheck verifies the API is reachable with the configured key.
func (c *openAIClient) HealthCheck(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("%w: %v", common.ErrBackendUnavailable, err)
	}
	return nil
}

// ModelName returns the configured model.
func (c *openAIClient) ModelName() string { return c.model }

func (c *openAIClient) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrBackendUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no completion choices returned", common.ErrMalformedResponse)
	}
	return resp.Choices[0].Message.Content, nil
}
