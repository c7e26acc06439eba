package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"finadvisor/internal/metrics"
	"finadvisor/pkg/errors"
	"finadvisor/pkg/logger"
)

// Dispatcher resolves tool names against a Registry and runs them. Every
// failure is converted to an ErrorValue; Dispatch never returns an error or
// lets a panic escape.
type Dispatcher struct {
	registry *Registry
	tracker  errors.Tracker
	log      *logger.Logger
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithTracker reports tool execution errors to an error tracker
func WithTracker(t errors.Tracker) Option {
	return func(d *Dispatcher) { d.tracker = t }
}

// WithLogger overrides the dispatcher logger
func WithLogger(l *logger.Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

// NewDispatcher creates a dispatcher over registry
func NewDispatcher(registry *Registry, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		log:      logger.Get(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.log = d.log.With("component", "tool_dispatcher")
	return d
}

// Registry returns the registry the dispatcher resolves against
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Dispatch runs the named tool and returns its native result or an ErrorValue.
//
// Arguments are bound by name first. Only when the names do not fit the
// tool's parameters are they bound by position, in the order they were
// written. Errors raised by the tool itself never trigger the positional
// retry.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args Args) any {
	start := time.Now()
	outcome := d.dispatch(ctx, name, args)

	kind := "success"
	if ev, ok := AsErrorValue(outcome); ok {
		kind = ev.ErrorKind
		d.log.Warnw("Tool call failed", "tool", name, "error_kind", ev.ErrorKind, "message", ev.Message)
	} else {
		d.log.Debugw("Tool call succeeded", "tool", name, "duration", time.Since(start))
	}
	metrics.RecordToolExecution(name, kind, time.Since(start))

	return outcome
}

// Execute dispatches calls sequentially in scan order
func (d *Dispatcher) Execute(ctx context.Context, calls []ToolCall) []ToolResult {
	results := make([]ToolResult, 0, len(calls))
	for _, call := range calls {
		if call.Malformed {
			metrics.MalformedToolTags.Inc()
			d.log.Warnw("Tool tag body is not a JSON object, dispatching with empty arguments",
				"tool", call.Name, "raw", call.Raw)
		}
		results = append(results, ToolResult{
			Name:      call.Name,
			Arguments: call.Arguments,
			Outcome:   d.Dispatch(ctx, call.Name, call.Arguments),
		})
	}
	return results
}

func (d *Dispatcher) dispatch(ctx context.Context, name string, args Args) any {
	t, ok := d.registry.Get(name)
	if !ok {
		return ErrorValue{
			ErrorKind: KindUnknownTool,
			Message:   fmt.Sprintf("Unknown tool '%s'", name),
		}
	}

	bound, err := bindNamed(t, args)
	if err != nil {
		d.log.Debugw("Named binding failed, retrying positionally", "tool", name, "reason", err)
		bound, err = bindPositional(t, args)
		if err != nil {
			return d.failure(ctx, name, err)
		}
	}

	result, err := invoke(ctx, t, bound)
	if err != nil {
		return d.failure(ctx, name, err)
	}
	// Results travel back to the model as JSON.
	if _, err := json.Marshal(result); err != nil {
		return d.failure(ctx, name, errors.NewDomainError("unserializable_result", err.Error(), err))
	}
	return result
}

func (d *Dispatcher) failure(ctx context.Context, name string, err error) ErrorValue {
	if errors.Is(err, errors.ErrInvalidInput) {
		return ErrorValue{
			ErrorKind: KindInvalidArgument,
			Message:   fmt.Sprintf("%s: %v", name, err),
		}
	}

	detail := err.Error()
	if de, ok := err.(*errors.DomainError); ok {
		detail = de.Message
	}
	ev := ErrorValue{
		ErrorKind: KindToolExecutionError,
		Message:   fmt.Sprintf("%s: %s: %s", name, errorClass(err), detail),
	}
	if d.tracker != nil {
		_ = d.tracker.CaptureError(ctx, err, map[string]string{
			"tool":       name,
			"error_kind": KindToolExecutionError,
		})
	}
	return ev
}

// invoke runs the tool, turning a panic into an error.
func invoke(ctx context.Context, t Tool, args Args) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.NewDomainError("panic", fmt.Sprint(r), nil)
		}
	}()
	return t.Fn(ctx, args)
}

// bindNamed accepts args when every key is a declared parameter and every
// required parameter is present.
func bindNamed(t Tool, args Args) (Args, error) {
	for _, k := range args.Keys {
		if _, ok := t.param(k); !ok {
			return Args{}, signatureError(t, fmt.Sprintf("got an unexpected argument '%s'", k))
		}
	}
	for _, p := range t.Params {
		if p.Required && !args.Has(p.Name) {
			return Args{}, signatureError(t, fmt.Sprintf("missing required argument '%s'", p.Name))
		}
	}
	return NewArgs(args.Values, args.Keys...), nil
}

// bindPositional assigns values in key order to parameters in declaration order.
func bindPositional(t Tool, args Args) (Args, error) {
	values := args.Positional()
	if len(values) < t.requiredCount() || len(values) > len(t.Params) {
		return Args{}, signatureError(t, fmt.Sprintf("takes %d positional arguments but %d were given",
			len(t.Params), len(values)))
	}

	bound := make(map[string]any, len(values))
	order := make([]string, 0, len(values))
	for i, v := range values {
		bound[t.Params[i].Name] = v
		order = append(order, t.Params[i].Name)
	}
	return NewArgs(bound, order...), nil
}

func signatureError(t Tool, detail string) error {
	return errors.NewDomainError("signature_mismatch", t.Signature()+" "+detail, errors.ErrSignatureMismatch)
}

// errorClass names the failure category shown in tool_execution_error messages.
func errorClass(err error) string {
	var de *errors.DomainError
	switch {
	case errors.As(err, &de):
		return de.Code
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	case errors.Is(err, errors.ErrExternal):
		return "external_error"
	case errors.Is(err, errors.ErrUnavailable):
		return "unavailable"
	case errors.Is(err, errors.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
