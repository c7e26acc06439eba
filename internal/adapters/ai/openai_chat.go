package ai

import (
	"context"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"finadvisor/internal/adapters/ratelimit"
	"finadvisor/pkg/errors"
	"finadvisor/pkg/logger"
)

// OpenAIConfig configures an OpenAI-compatible chat backend.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // empty uses api.openai.com
	Timeout time.Duration
	Limiter *ratelimit.Limiter
}

// AzureConfig configures an Azure OpenAI deployment.
type AzureConfig struct {
	APIKey     string
	BaseURL    string // https://<resource>.openai.azure.com/openai/deployments/<deployment>/
	Deployment string
	APIVersion string
	Timeout    time.Duration
	Limiter    *ratelimit.Limiter
}

// OpenAIProvider implements ChatProvider using the official OpenAI Go SDK.
// Azure deployments use the same client with a deployment-scoped base URL.
type OpenAIProvider struct {
	client  openai.Client
	name    ProviderName
	model   string
	timeout time.Duration
	limiter *ratelimit.Limiter
	log     *logger.Logger
}

// Ensure OpenAIProvider implements ChatProvider
var _ ChatProvider = (*OpenAIProvider)(nil)

// NewOpenAIProvider creates a provider for api.openai.com or a compatible server.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "openai API key not configured")
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o"
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return newOpenAIProvider(ProviderNameOpenAI, cfg.Model, cfg.Timeout, cfg.Limiter, opts), nil
}

// NewAzureOpenAIProvider creates a provider for an Azure OpenAI deployment.
func NewAzureOpenAIProvider(cfg AzureConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "azure openai API key not configured")
	}
	if cfg.BaseURL == "" || cfg.Deployment == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "azure openai endpoint and deployment are required")
	}

	opts := []option.RequestOption{
		option.WithBaseURL(cfg.BaseURL),
		option.WithQuery("api-version", cfg.APIVersion),
		option.WithHeader("api-key", cfg.APIKey),
		option.WithMaxRetries(0),
	}

	return newOpenAIProvider(ProviderNameAzure, cfg.Deployment, cfg.Timeout, cfg.Limiter, opts), nil
}

func newOpenAIProvider(name ProviderName, model string, timeout time.Duration, limiter *ratelimit.Limiter, opts []option.RequestOption) *OpenAIProvider {
	if timeout <= 0 {
		timeout = defaultTimeout()
	}
	return &OpenAIProvider{
		client:  openai.NewClient(opts...),
		name:    name,
		model:   model,
		timeout: timeout,
		limiter: limiter,
		log:     logger.Get().With("component", "llm", "provider", name, "model", model),
	}
}

// Name returns provider name.
func (p *OpenAIProvider) Name() ProviderName { return p.name }

// Model returns the model or Azure deployment name.
func (p *OpenAIProvider) Model() string { return p.model }

// Chat sends a chat completion request.
func (p *OpenAIProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if err := waitForSlot(ctx, p.name, p.limiter); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(p.model),
		Messages:    toOpenAIMessages(req.Messages),
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(req.MaxTokens))
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, errors.Wrapf(errors.ErrExternal, "%s API error (%d): %s", p.name, apiErr.StatusCode, apiErr.Message)
		}
		return nil, errors.Wrapf(errors.ErrUnavailable, "%s request: %v", p.name, err)
	}

	if len(completion.Choices) == 0 {
		return nil, errors.Wrapf(errors.ErrExternal, "%s returned no choices", p.name)
	}
	choice := completion.Choices[0]

	resp := &ChatResponse{
		ID:           completion.ID,
		Model:        completion.Model,
		Content:      choice.Message.Content,
		FinishReason: openAIFinishReason(choice.FinishReason),
		Usage: Usage{
			PromptTokens:     completion.Usage.PromptTokens,
			CompletionTokens: completion.Usage.CompletionTokens,
			TotalTokens:      completion.Usage.TotalTokens,
		},
	}

	p.log.Debugw("Chat completion",
		"finish_reason", resp.FinishReason,
		"tokens", resp.Usage.TotalTokens)

	return resp, nil
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(msg.Content))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}
	return out
}

func openAIFinishReason(reason string) FinishReason {
	switch reason {
	case "stop":
		return FinishReasonStop
	case "length":
		return FinishReasonLength
	case "content_filter":
		return FinishReasonFilter
	default:
		return FinishReasonOther
	}
}
