package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/advisor/internal/common"
)

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) GenerateContent(ctx context.Context, request *ContentRequest) (string, error) {
	args := m.Called(ctx, request)
	return args.String(0), args.Error(1)
}

func (m *mockProvider) GetProviderType() ProviderType { return ProviderGemini }

func (m *mockProvider) Model() string { return "test-model" }

func fastRetry(maxRetries int) *RetryConfig {
	return &RetryConfig{
		MaxRetries:        maxRetries,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2,
	}
}

func TestRender_Success(t *testing.T) {
	provider := new(mockProvider)
	provider.On("GenerateContent", mock.Anything, &ContentRequest{SystemInstruction: "sys", Prompt: "prompt"}).
		Return("  Balanced exposure.  ", nil).Once()

	r := NewRendererWithProvider(provider, fastRetry(2), arbor.NewLogger())
	text, err := r.Render(context.Background(), "sys", "prompt")

	require.NoError(t, err)
	assert.Equal(t, "Balanced exposure.", text)
	assert.Equal(t, "gemini", r.Provider())
	provider.AssertExpectations(t)
}

func TestRender_RetriesTransientErrors(t *testing.T) {
	provider := new(mockProvider)
	provider.On("GenerateContent", mock.Anything, mock.Anything).
		Return("", errors.New("Error 429, Status: RESOURCE_EXHAUSTED")).Twice()
	provider.On("GenerateContent", mock.Anything, mock.Anything).
		Return("ok", nil).Once()

	r := NewRendererWithProvider(provider, fastRetry(2), arbor.NewLogger())
	text, err := r.Render(context.Background(), "", "prompt")

	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	provider.AssertNumberOfCalls(t, "GenerateContent", 3)
}

func TestRender_GivesUpAfterMaxRetries(t *testing.T) {
	provider := new(mockProvider)
	provider.On("GenerateContent", mock.Anything, mock.Anything).
		Return("", errors.New("503 UNAVAILABLE"))

	r := NewRendererWithProvider(provider, fastRetry(1), arbor.NewLogger())
	_, err := r.Render(context.Background(), "", "prompt")

	assert.Error(t, err)
	provider.AssertNumberOfCalls(t, "GenerateContent", 2)
}

func TestRender_PermanentErrorNotRetried(t *testing.T) {
	provider := new(mockProvider)
	provider.On("GenerateContent", mock.Anything, mock.Anything).
		Return("", errors.New("401 invalid api key"))

	r := NewRendererWithProvider(provider, fastRetry(3), arbor.NewLogger())
	_, err := r.Render(context.Background(), "", "prompt")

	assert.Error(t, err)
	provider.AssertNumberOfCalls(t, "GenerateContent", 1)
}

func TestRender_EmptyTextIsError(t *testing.T) {
	provider := new(mockProvider)
	provider.On("GenerateContent", mock.Anything, mock.Anything).Return("   ", nil)

	r := NewRendererWithProvider(provider, fastRetry(0), arbor.NewLogger())
	_, err := r.Render(context.Background(), "", "prompt")
	assert.Error(t, err)
}

func TestRender_CancelledDuringBackoff(t *testing.T) {
	provider := new(mockProvider)
	provider.On("GenerateContent", mock.Anything, mock.Anything).
		Return("", errors.New("429 quota exceeded"))

	retry := fastRetry(3)
	retry.InitialBackoff = time.Hour
	retry.MaxBackoff = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	r := NewRendererWithProvider(provider, retry, arbor.NewLogger())
	_, err := r.Render(ctx, "", "prompt")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	provider.AssertNumberOfCalls(t, "GenerateContent", 1)
}

func TestNewRenderer_Disabled(t *testing.T) {
	logger := arbor.NewLogger()

	cfg := common.NewDefaultConfig()
	cfg.LLM.DefaultProvider = common.LLMProviderNone
	cfg.Gemini.APIKey = "key"
	r, err := NewRenderer(context.Background(), cfg, logger)
	require.NoError(t, err)
	assert.Nil(t, r)

	cfg = common.NewDefaultConfig()
	r, err = NewRenderer(context.Background(), cfg, logger)
	require.NoError(t, err)
	assert.Nil(t, r, "gemini without a key")

	cfg.LLM.DefaultProvider = common.LLMProviderClaude
	r, err = NewRenderer(context.Background(), cfg, logger)
	require.NoError(t, err)
	assert.Nil(t, r, "claude without a key")

	cfg.LLM.DefaultProvider = "openai"
	_, err = NewRenderer(context.Background(), cfg, logger)
	assert.Error(t, err)
}

func TestNewRenderer_Claude(t *testing.T) {
	cfg := common.NewDefaultConfig()
	cfg.LLM.DefaultProvider = common.LLMProviderClaude
	cfg.Claude.APIKey = "sk-test"

	r, err := NewRenderer(context.Background(), cfg, arbor.NewLogger())
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "claude", r.Provider())
}

func TestClaudeProvider_GenerateContent(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-test", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-haiku-4-5",
			"content": [{"type": "text", "text": "Tilt toward quality."}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`))
	}))
	defer srv.Close()

	p := NewClaudeProvider(&common.ClaudeConfig{APIKey: "sk-test", Model: "claude-haiku-4-5", MaxTokens: 256}, option.WithBaseURL(srv.URL))
	text, err := p.GenerateContent(context.Background(), &ContentRequest{SystemInstruction: "be brief", Prompt: "AAPL score 65"})

	require.NoError(t, err)
	assert.Equal(t, "Tilt toward quality.", text)
	assert.Equal(t, "claude-haiku-4-5", got["model"])
	assert.EqualValues(t, 256, got["max_tokens"])
}
