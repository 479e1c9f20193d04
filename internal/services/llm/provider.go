package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"google.golang.org/genai"

	"github.com/ternarybob/advisor/internal/common"
)

// ProviderType represents the AI provider type
type ProviderType string

const (
	// ProviderGemini uses Google Gemini API
	ProviderGemini ProviderType = "gemini"
	// ProviderClaude uses Anthropic Claude API
	ProviderClaude ProviderType = "claude"
)

// ContentRequest is a provider-agnostic single-turn generation request.
type ContentRequest struct {
	SystemInstruction string
	Prompt            string
}

// Provider generates text for one request. Implementations make a single attempt; retries
// are handled by Renderer.
type Provider interface {
	GenerateContent(ctx context.Context, request *ContentRequest) (string, error)
	GetProviderType() ProviderType
	Model() string
}

// GeminiProvider calls the Gemini API through genai.
type GeminiProvider struct {
	client *genai.Client
	config *common.GeminiConfig
}

// NewGeminiProvider creates a Gemini client for the configured key.
func NewGeminiProvider(ctx context.Context, config *common.GeminiConfig) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiProvider{client: client, config: config}, nil
}

func (p *GeminiProvider) GenerateContent(ctx context.Context, request *ContentRequest) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(p.config.Temperature),
	}
	if request.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(request.SystemInstruction, genai.RoleUser)
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.config.Model, genai.Text(request.Prompt), config)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("empty response from Gemini API")
	}
	return resp.Text(), nil
}

func (p *GeminiProvider) GetProviderType() ProviderType { return ProviderGemini }

func (p *GeminiProvider) Model() string { return p.config.Model }

// ClaudeProvider calls the Anthropic Messages API.
type ClaudeProvider struct {
	client anthropic.Client
	config *common.ClaudeConfig
}

// NewClaudeProvider creates an Anthropic client for the configured key.
func NewClaudeProvider(config *common.ClaudeConfig, opts ...option.RequestOption) *ClaudeProvider {
	opts = append([]option.RequestOption{option.WithAPIKey(config.APIKey), option.WithMaxRetries(0)}, opts...)
	return &ClaudeProvider{client: anthropic.NewClient(opts...), config: config}
}

func (p *ClaudeProvider) GenerateContent(ctx context.Context, request *ContentRequest) (string, error) {
	maxTokens := p.config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.config.Model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(request.Prompt)),
		},
	}
	if p.config.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(p.config.Temperature))
	}
	if request.SystemInstruction != "" {
		params.System = []anthropic.TextBlockParam{{Text: request.SystemInstruction}}
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return text.String(), nil
}

func (p *ClaudeProvider) GetProviderType() ProviderType { return ProviderClaude }

func (p *ClaudeProvider) Model() string { return p.config.Model }
