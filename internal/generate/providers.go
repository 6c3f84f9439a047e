package generate

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// ChatRequest is one completion call: a system persona, a user message, and
// sampling parameters.
type ChatRequest struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// ChatProvider produces a single completion. The pipeline only ever needs
// the reply text.
type ChatProvider interface {
	Name() string
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// XAIProvider talks to any /v1/chat/completions-shaped endpoint through the
// OpenAI client pointed at a custom base URL.
type XAIProvider struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

func NewXAIProvider(baseURL, apiKey, model, proxy string, timeout time.Duration, logger *zap.Logger) (*XAIProvider, error) {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
	}
	if proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(&http.Client{
			Timeout:   timeout,
			Transport: transport,
		}),
	)

	return &XAIProvider{
		client: &client,
		model:  model,
		logger: logger,
	}, nil
}

func (p *XAIProvider) Name() string {
	return "xAI"
}

func (p *XAIProvider) Complete(ctx context.Context, req ChatRequest) (string, error) {
	p.logger.Debug("Generating with chat API",
		zap.String("model", p.model),
		zap.Float64("temperature", req.Temperature),
	)

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.User))

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(p.model),
		Messages:    messages,
		Temperature: openai.Float(req.Temperature),
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
	})
	if err != nil {
		p.logger.Error("Chat completion failed", zap.Error(err))
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in chat response")
	}

	text := resp.Choices[0].Message.Content
	if text == "" {
		return "", fmt.Errorf("empty chat response")
	}

	p.logger.Debug("Chat response received", zap.Int("length", len(text)))
	return text, nil
}

// GeminiProvider is the fallback completion backend.
type GeminiProvider struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func NewGeminiProvider(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is empty")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

func (p *GeminiProvider) Name() string {
	return "Gemini"
}

func (p *GeminiProvider) Complete(ctx context.Context, req ChatRequest) (string, error) {
	p.logger.Debug("Generating with Gemini",
		zap.String("model", p.model),
		zap.Float64("temperature", req.Temperature),
	)

	temperature := float32(req.Temperature)
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, []*genai.Content{
		{Parts: []*genai.Part{{Text: req.User}}},
	}, config)
	if err != nil {
		p.logger.Error("Gemini generation failed", zap.Error(err))
		return "", err
	}

	text := extractGeminiText(resp)
	if text == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}

	return text, nil
}

func extractGeminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return ""
	}

	var texts []string
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
	}

	return strings.Join(texts, "")
}

// ModelManager routes completions to the primary provider and falls back to
// the secondary when the primary fails outright.
type ModelManager struct {
	primary  ChatProvider
	fallback ChatProvider
	logger   *zap.Logger
}

func NewModelManager(primary, fallback ChatProvider, logger *zap.Logger) *ModelManager {
	return &ModelManager{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (m *ModelManager) Name() string {
	return m.primary.Name()
}

func (m *ModelManager) Complete(ctx context.Context, req ChatRequest) (string, error) {
	text, err := m.primary.Complete(ctx, req)
	if err == nil {
		return text, nil
	}

	if m.fallback == nil {
		return "", err
	}

	m.logger.Warn("Primary provider failed, using fallback",
		zap.String("primary", m.primary.Name()),
		zap.String("fallback", m.fallback.Name()),
		zap.Error(err),
	)

	return m.fallback.Complete(ctx, req)
}
