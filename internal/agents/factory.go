package agents

import (
	"finadvisor/internal/adapters/ai"
	"finadvisor/internal/tools"
	"finadvisor/internal/tools/catalog"
	"finadvisor/pkg/errors"
	"finadvisor/pkg/logger"
	"finadvisor/pkg/templates"
)

const (
	stockSystemPrompt     = "prompts/stock_system"
	financialSystemPrompt = "prompts/financial_system"
)

// TeamConfig holds what both advisors share.
type TeamConfig struct {
	Templates   *templates.Registry
	Registry    *tools.Registry
	Provider    ai.ChatProvider
	Tracker     errors.Tracker
	Temperature float64
	Observer    Observer
	Logger      *logger.Logger
}

// Team is the advisor roster used by the console.
type Team struct {
	Stock     *Advisor
	Financial *Advisor
}

// NewTeam renders the system prompts and builds both advisors over one dispatcher.
// Each prompt lists only the tools of the advisor's category, but any
// registered tool can be dispatched.
func NewTeam(cfg TeamConfig) (*Team, error) {
	if cfg.Templates == nil || cfg.Registry == nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, "templates and tool registry are required")
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Get()
	}

	opts := []tools.Option{tools.WithLogger(log)}
	if cfg.Tracker != nil {
		opts = append(opts, tools.WithTracker(cfg.Tracker))
	}
	dispatcher := tools.NewDispatcher(cfg.Registry, opts...)

	build := func(name, promptID, category string) (*Advisor, error) {
		prompt, err := cfg.Templates.Render(promptID, map[string]string{
			"Tools": tools.Describe(catalog.Subset(cfg.Registry, category)),
		})
		if err != nil {
			return nil, errors.Wrapf(err, "%s system prompt", name)
		}
		return NewAdvisor(AdvisorConfig{
			Name:         name,
			SystemPrompt: prompt,
			Provider:     cfg.Provider,
			Dispatcher:   dispatcher,
			Temperature:  cfg.Temperature,
			Observer:     cfg.Observer,
			Logger:       log,
		})
	}

	stock, err := build(StockMarketAdvisor, stockSystemPrompt, catalog.CategoryMarketData)
	if err != nil {
		return nil, err
	}
	financial, err := build(FinancialAdvisor, financialSystemPrompt, catalog.CategoryPortfolio)
	if err != nil {
		return nil, err
	}

	log.Infow("Advisor team ready", "provider", cfg.Provider.Name(), "model", cfg.Provider.Model())
	return &Team{Stock: stock, Financial: financial}, nil
}
