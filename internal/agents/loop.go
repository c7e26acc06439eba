package agents

import (
	"context"

	"github.com/google/uuid"

	"finadvisor/internal/metrics"
	"finadvisor/internal/tools"
	"finadvisor/internal/tools/shared"
	"finadvisor/pkg/errors"
	"finadvisor/pkg/logger"
)

// Loop feeds tool results back to the model until a reply carries no tool
// tags or the round limit is reached.
type Loop struct {
	agent      string
	dispatcher *tools.Dispatcher
	observer   Observer
	log        *logger.Logger
}

// LoopOption configures a Loop
type LoopOption func(*Loop)

// WithObserver registers progress callbacks
func WithObserver(o Observer) LoopOption {
	return func(l *Loop) { l.observer = o }
}

// WithLoopLogger overrides the loop logger
func WithLoopLogger(log *logger.Logger) LoopOption {
	return func(l *Loop) { l.log = log }
}

// NewLoop creates a round loop for the named agent
func NewLoop(agent string, dispatcher *tools.Dispatcher, opts ...LoopOption) *Loop {
	l := &Loop{
		agent:      agent,
		dispatcher: dispatcher,
		log:        logger.Get(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.log = l.log.With("component", "round_loop", "agent", agent)
	return l
}

// RunWithTools drives one turn starting from initialReply.
//
// Tags found once maxRounds rounds have run are left unresolved in the
// returned text. A generate error aborts the turn: the error is returned
// together with the last pending text and the results gathered so far.
func (l *Loop) RunWithTools(ctx context.Context, initialReply string, maxRounds int, generate Generator) (Outcome, error) {
	turnID := uuid.NewString()
	ctx = logger.WithTurnID(ctx, turnID)
	log := l.log.With("turn_id", turnID)

	round := RoundState{MaxRounds: maxRounds, PendingText: initialReply}
	var results [][]tools.ToolResult

	finish := func(state State) Outcome {
		log.Debugw("Turn finished", "state", state.String(), "rounds", round.Index)
		metrics.RecordTurn(l.agent, state.String(), round.Index)
		return Outcome{
			Text:     round.PendingText,
			Rounds:   round.Index,
			Terminal: state,
			Results:  results,
		}
	}

	abort := func(err error) (Outcome, error) {
		log.Warnw("Turn aborted", "round", round.Index+1, "error", err)
		metrics.RecordTurn(l.agent, "aborted", round.Index)
		return Outcome{
			Text:     round.PendingText,
			Rounds:   round.Index,
			Terminal: StateHasCalls,
			Results:  results,
		}, errors.Wrapf(err, "%s round %d", l.agent, round.Index+1)
	}

	for {
		calls := tools.Scan(round.PendingText)
		if len(calls) == 0 {
			return finish(StateNoCalls), nil
		}
		if round.Index >= round.MaxRounds {
			log.Infow("Round limit reached, leaving tool tags unresolved",
				"max_rounds", round.MaxRounds, "pending_calls", len(calls))
			return finish(StateRoundLimitReached), nil
		}

		log.Debugw("Executing tool round", "round", round.Index+1, "calls", len(calls))
		roundCtx := shared.WithInvocationMetadata(ctx, shared.InvocationMetadata{
			TurnID: turnID,
			Agent:  l.agent,
			Round:  round.Index + 1,
		})

		batch := l.dispatcher.Execute(roundCtx, calls)
		for _, r := range batch {
			l.observer.toolResult(l.agent, r)
		}
		results = append(results, batch)

		payload, err := tools.SerializeResults(batch)
		if err != nil {
			return abort(err)
		}
		next, err := generate(roundCtx, payload)
		if err != nil {
			return abort(err)
		}

		round.Index++
		round.PendingText = next
		l.observer.reply(l.agent, next)
	}
}
