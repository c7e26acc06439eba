package agents

import (
	"context"
	"strings"
	"time"

	"finadvisor/internal/adapters/ai"
	"finadvisor/internal/metrics"
	"finadvisor/internal/tools"
	"finadvisor/pkg/errors"
	"finadvisor/pkg/logger"
)

// AdvisorConfig describes one advisor persona.
type AdvisorConfig struct {
	Name         string
	SystemPrompt string
	Provider     ai.ChatProvider
	Dispatcher   *tools.Dispatcher
	Temperature  float64
	// MaxTokens limits each completion; zero leaves the provider default.
	MaxTokens        int
	MaxHistoryTokens int
	Observer         Observer
	Logger           *logger.Logger
}

// Advisor is an LLM persona that can call tools through text tags.
type Advisor struct {
	name             string
	systemPrompt     string
	provider         ai.ChatProvider
	temperature      float64
	maxTokens        int
	maxHistoryTokens int
	observer         Observer
	loop             *Loop
	log              *logger.Logger
}

// NewAdvisor validates cfg and builds an advisor
func NewAdvisor(cfg AdvisorConfig) (*Advisor, error) {
	if strings.TrimSpace(cfg.Name) == "" {
		return nil, errors.NewValidationError("name", "advisor name is required", cfg.Name)
	}
	if cfg.Provider == nil {
		return nil, errors.NewValidationError("provider", "chat provider is required", cfg.Name)
	}
	if cfg.Dispatcher == nil {
		return nil, errors.NewValidationError("dispatcher", "tool dispatcher is required", cfg.Name)
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Get()
	}

	return &Advisor{
		name:             cfg.Name,
		systemPrompt:     cfg.SystemPrompt,
		provider:         cfg.Provider,
		temperature:      cfg.Temperature,
		maxTokens:        cfg.MaxTokens,
		maxHistoryTokens: cfg.MaxHistoryTokens,
		observer:         cfg.Observer,
		loop:             NewLoop(cfg.Name, cfg.Dispatcher, WithObserver(cfg.Observer), WithLoopLogger(log)),
		log:              log.With("component", "advisor", "agent", cfg.Name),
	}, nil
}

// Name returns the persona name
func (a *Advisor) Name() string { return a.name }

// Run sends task to the model and resolves tool tags for up to maxRounds rounds.
// Each call starts a fresh conversation.
func (a *Advisor) Run(ctx context.Context, task string, maxRounds int) (Outcome, error) {
	conv := NewConversation(a.systemPrompt, a.maxHistoryTokens)
	generate := func(ctx context.Context, input string) (string, error) {
		return a.generate(ctx, conv, input)
	}

	first, err := generate(ctx, task)
	if err != nil {
		return Outcome{}, err
	}
	a.observer.reply(a.name, first)

	return a.loop.RunWithTools(ctx, first, maxRounds, generate)
}

func (a *Advisor) generate(ctx context.Context, conv *Conversation, input string) (string, error) {
	conv.AddUserMessage(input)

	start := time.Now()
	resp, err := a.provider.Chat(ctx, ai.ChatRequest{
		Messages:    conv.Messages(),
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
	})

	var tokens int64
	if resp != nil {
		tokens = resp.Usage.TotalTokens
	}
	metrics.RecordAgentCall(a.name, a.provider.Model(), time.Since(start), tokens, err)

	if err != nil {
		return "", errors.Wrapf(err, "%s reply", a.name)
	}
	if resp.FinishReason == ai.FinishReasonLength {
		a.log.Warnw("Reply truncated at token limit", "model", resp.Model, "tokens", tokens)
	}

	conv.AddAssistantMessage(resp.Content)
	return resp.Content, nil
}
