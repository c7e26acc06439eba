package ai

import (
	"context"
	"strings"
	"time"

	"google.golang.org/genai"

	"finadvisor/internal/adapters/ratelimit"
	"finadvisor/pkg/errors"
	"finadvisor/pkg/logger"
)

// GeminiConfig configures the Gemini API backend.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string // empty uses the public endpoint
	Timeout time.Duration
	Limiter *ratelimit.Limiter
}

// GeminiProvider implements ChatProvider using the Google Gen AI SDK.
type GeminiProvider struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	limiter *ratelimit.Limiter
	log     *logger.Logger
}

var _ ChatProvider = (*GeminiProvider)(nil)

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "gemini API key not configured")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout()
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, errors.Wrap(err, "create gemini client")
	}

	return &GeminiProvider{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		limiter: cfg.Limiter,
		log:     logger.Get().With("component", "llm", "provider", ProviderNameGoogle, "model", cfg.Model),
	}, nil
}

// Name returns provider name.
func (p *GeminiProvider) Name() ProviderName { return ProviderNameGoogle }

// Model returns the model name.
func (p *GeminiProvider) Model() string { return p.model }

// Chat sends the conversation to generateContent.
func (p *GeminiProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if err := waitForSlot(ctx, ProviderNameGoogle, p.limiter); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	system, contents := toGeminiContents(req.Messages)
	if len(contents) == 0 {
		return nil, errors.Wrap(errors.ErrInvalidInput, "gemini request has no user or model turns")
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}

	result, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrExternal, "gemini generate content: %v", err)
	}

	resp := &ChatResponse{
		ID:           result.ResponseID,
		Model:        result.ModelVersion,
		Content:      result.Text(),
		FinishReason: FinishReasonOther,
	}
	if len(result.Candidates) > 0 {
		resp.FinishReason = geminiFinishReason(result.Candidates[0].FinishReason)
	}
	if u := result.UsageMetadata; u != nil {
		resp.Usage = Usage{
			PromptTokens:     int64(u.PromptTokenCount),
			CompletionTokens: int64(u.CandidatesTokenCount),
			TotalTokens:      int64(u.TotalTokenCount),
		}
	}

	p.log.Debugw("Generate content", "finish_reason", resp.FinishReason, "tokens", resp.Usage.TotalTokens)
	return resp, nil
}

// toGeminiContents folds system messages into one system instruction and maps
// assistant turns to the model role.
func toGeminiContents(messages []Message) (string, []*genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			system = append(system, msg.Content)
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}

	return strings.Join(system, "\n\n"), contents
}

func geminiFinishReason(reason genai.FinishReason) FinishReason {
	switch reason {
	case genai.FinishReasonStop:
		return FinishReasonStop
	case genai.FinishReasonMaxTokens:
		return FinishReasonLength
	case genai.FinishReasonSafety, genai.FinishReasonProhibitedContent, genai.FinishReasonBlocklist:
		return FinishReasonFilter
	default:
		return FinishReasonOther
	}
}
