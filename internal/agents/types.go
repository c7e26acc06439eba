package agents

import (
	"context"

	"finadvisor/internal/tools"
)

// Advisor names shown in console headers and metric labels.
const (
	StockMarketAdvisor = "StockMarketAdvisor"
	FinancialAdvisor   = "FinancialAdvisor"
	Orchestrator       = "Orchestrator"
)

// Generator produces the next model reply for the given input.
type Generator func(ctx context.Context, input string) (string, error)

// State of the round loop.
type State int

const (
	StateAwaitingScan State = iota
	StateHasCalls
	StateNoCalls
	StateRoundLimitReached
)

func (s State) String() string {
	switch s {
	case StateAwaitingScan:
		return "awaiting_scan"
	case StateHasCalls:
		return "has_calls"
	case StateNoCalls:
		return "no_calls"
	case StateRoundLimitReached:
		return "round_limit_reached"
	default:
		return "unknown"
	}
}

// Terminal reports whether the loop stops in this state.
func (s State) Terminal() bool {
	return s == StateNoCalls || s == StateRoundLimitReached
}

// RoundState is local to one turn and never shared.
type RoundState struct {
	Index       int
	MaxRounds   int
	PendingText string
}

// Outcome of one turn.
type Outcome struct {
	Text     string
	Rounds   int
	Terminal State
	// Results holds the tool results of every executed round, in order.
	Results [][]tools.ToolResult
}

// Observer receives progress callbacks while a turn runs. Either field may be nil.
type Observer struct {
	OnReply      func(agent, text string)
	OnToolResult func(agent string, result tools.ToolResult)
}

func (o Observer) reply(agent, text string) {
	if o.OnReply != nil {
		o.OnReply(agent, text)
	}
}

func (o Observer) toolResult(agent string, result tools.ToolResult) {
	if o.OnToolResult != nil {
		o.OnToolResult(agent, result)
	}
}
