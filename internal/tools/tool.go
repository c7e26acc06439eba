package tools

import (
	"context"
	"strings"
)

// Func is the implementation behind a tool. It receives arguments already
// bound to the tool's declared parameter names.
type Func func(ctx context.Context, args Args) (any, error)

// Param declares one named parameter of a tool, in positional order.
type Param struct {
	Name        string
	Description string
	Required    bool
}

// Tool is a named capability that a model can request with a tool tag.
type Tool struct {
	Name        string
	Description string
	Params      []Param
	Fn          Func
}

// Signature renders the tool the way prompts describe it, e.g. get_beta(symbol).
func (t Tool) Signature() string {
	names := make([]string, len(t.Params))
	for i, p := range t.Params {
		names[i] = p.Name
	}
	return t.Name + "(" + strings.Join(names, ", ") + ")"
}

func (t Tool) param(name string) (Param, bool) {
	for _, p := range t.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

func (t Tool) requiredCount() int {
	n := 0
	for _, p := range t.Params {
		if p.Required {
			n++
		}
	}
	return n
}
