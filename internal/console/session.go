package console

import (
	"context"
	"time"

	"finadvisor/internal/agents"
	"finadvisor/internal/tools"
	"finadvisor/pkg/errors"
	"finadvisor/pkg/logger"
	"finadvisor/pkg/templates"
)

const (
	welcomeTitle = "Welcome to the Finance Chatbot (Educational only: NOT financial advice)"
	reminder     = "Reminder: This is educational information, not financial advice. " +
		"Consider consulting a SEBI-registered/qualified advisor for personalized guidance."
)

// Runner is the part of an advisor a session needs.
type Runner interface {
	Name() string
	Run(ctx context.Context, task string, maxRounds int) (agents.Outcome, error)
}

// SessionConfig wires a console session.
type SessionConfig struct {
	Prompter      *Prompter
	Templates     *templates.Registry
	Stock         Runner
	Financial     Runner
	DefaultMarket string
	MaxRounds     int
	Logger        *logger.Logger
}

// Session runs onboarding and routes the request to the advisors.
type Session struct {
	cfg SessionConfig
	log *logger.Logger
}

// NewSession creates a session
func NewSession(cfg SessionConfig) *Session {
	log := cfg.Logger
	if log == nil {
		log = logger.Get()
	}
	return &Session{cfg: cfg, log: log.With("component", "console")}
}

// Observer prints each advisor reply and tool result as they arrive.
func Observer(p *Prompter) agents.Observer {
	return agents.Observer{
		OnReply: func(agent, text string) {
			p.Printf("\n[%s]\n%s\n", agent, text)
		},
		OnToolResult: func(_ string, r tools.ToolResult) {
			p.Printf("\n[Tool Result: %s]\n%s\n", r.Name, tools.PrettyOutcome(r.Outcome))
		},
	}
}

// Run executes one interactive session. Cancellation while waiting for input
// or while an advisor is working ends the session without an error.
func (s *Session) Run(ctx context.Context) error {
	p := s.cfg.Prompter

	p.Header(welcomeTitle)
	p.Println("Hi! I can help with:")
	p.Println("- Stock analysis (ticker-specific metrics, fundamentals, risk flags)")
	p.Println("- Financial planning (allocation, risk profiling, rebalancing)")
	p.Println("I'll first ask a few quick questions to personalize the conversation.")
	p.Println()

	prof, err := Onboard(ctx, p, s.cfg.DefaultMarket)
	if errors.Is(err, ErrCancelled) {
		p.Println("\nCancelled.")
		return nil
	}
	if err != nil {
		return err
	}

	tasks, err := RenderTasks(s.cfg.Templates, prof)
	if err != nil {
		return err
	}

	s.log.Infow("Onboarding complete", "need", prof.Need, "symbol", prof.Symbol, "market", prof.Market)
	p.Header("Working on your request...")

	start := time.Now()
	if err := s.route(ctx, prof.Need, tasks); err != nil {
		if ctx.Err() != nil {
			p.Println("\nStopped by user.")
			return nil
		}
		return err
	}
	s.log.Infow("Session finished", "duration", time.Since(start))

	p.Header("Done")
	p.Println(reminder)
	return nil
}

// RunDemo sends the scripted kickoff to both advisors in turn.
func (s *Session) RunDemo(ctx context.Context, symbol string) error {
	p := s.cfg.Prompter

	kickoff, err := RenderDemoKickoff(s.cfg.Templates, symbol)
	if err != nil {
		return err
	}

	s.log.Infow("Starting demo", "agent", agents.Orchestrator, "symbol", symbol)
	p.Header("Demo: " + symbol)
	for _, advisor := range []Runner{s.cfg.Stock, s.cfg.Financial} {
		if _, err := advisor.Run(ctx, kickoff, s.cfg.MaxRounds); err != nil {
			if ctx.Err() != nil {
				p.Println("\nStopped by user.")
				return nil
			}
			return err
		}
	}

	p.Header("Done")
	p.Println(reminder)
	return nil
}

func (s *Session) route(ctx context.Context, need Need, tasks Tasks) error {
	switch need {
	case NeedStock:
		return s.run(ctx, s.cfg.Stock, tasks.Stock)
	case NeedFinance:
		return s.run(ctx, s.cfg.Financial, tasks.Finance)
	default:
		if err := s.run(ctx, s.cfg.Stock, tasks.Stock); err != nil {
			return err
		}
		s.cfg.Prompter.Header("Switching to Financial/Portfolio Advisor...")
		return s.run(ctx, s.cfg.Financial, tasks.Finance)
	}
}

func (s *Session) run(ctx context.Context, advisor Runner, task string) error {
	out, err := advisor.Run(ctx, task, s.cfg.MaxRounds)
	if err != nil {
		return errors.Wrapf(err, "%s", advisor.Name())
	}
	s.log.Debugw("Advisor finished", "agent", advisor.Name(), "rounds", out.Rounds, "terminal", out.Terminal.String())
	return nil
}
