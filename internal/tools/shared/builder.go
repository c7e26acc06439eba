package shared

import (
	"context"
	"time"

	"finadvisor/internal/tools"
	"finadvisor/pkg/errors"
)

// ToolBuilder provides a fluent API for declaring a tool's parameters and
// execution limits
type ToolBuilder struct {
	name        string
	description string
	params      []tools.Param
	fn          tools.Func
	deps        Deps

	timeout time.Duration
}

// NewToolBuilder creates a builder for a tool
func NewToolBuilder(name, description string, fn tools.Func, deps Deps) *ToolBuilder {
	return &ToolBuilder{
		name:        name,
		description: description,
		fn:          fn,
		deps:        deps,
	}
}

// WithParam declares a required parameter. Declaration order is the
// positional order.
func (b *ToolBuilder) WithParam(name, description string) *ToolBuilder {
	b.params = append(b.params, tools.Param{Name: name, Description: description, Required: true})
	return b
}

// WithTimeout bounds a single execution
func (b *ToolBuilder) WithTimeout(timeout time.Duration) *ToolBuilder {
	b.timeout = timeout
	return b
}

// Build creates the tool with the configured wrappers applied
func (b *ToolBuilder) Build() tools.Tool {
	fn := b.fn
	if b.timeout > 0 {
		fn = wrapWithTimeout(b.name, b.timeout, fn)
	}
	fn = wrapWithLogging(b.name, b.deps, fn)

	return tools.Tool{
		Name:        b.name,
		Description: b.description,
		Params:      b.params,
		Fn:          fn,
	}
}

func wrapWithTimeout(name string, timeout time.Duration, fn tools.Func) tools.Func {
	return func(ctx context.Context, args tools.Args) (any, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		result, err := fn(ctx, args)
		if err != nil && ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewDomainError("timeout", name+" exceeded "+timeout.String(), err)
		}
		return result, err
	}
}

func wrapWithLogging(name string, deps Deps, fn tools.Func) tools.Func {
	return func(ctx context.Context, args tools.Args) (any, error) {
		log := deps.Logger().With("tool", name)
		if meta, ok := MetadataFromContext(ctx); ok {
			log = log.With("turn_id", meta.TurnID, "agent", meta.Agent, "round", meta.Round)
		}

		log.Debugw("Tool: invoked", "args", args.Keys)
		result, err := fn(ctx, args)
		if err != nil {
			log.Debugw("Tool: returned error", "error", err)
		}
		return result, err
	}
}
