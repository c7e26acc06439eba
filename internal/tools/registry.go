package tools

import (
	"fmt"
	"strings"

	"finadvisor/pkg/errors"
)

// Registry maps tool names to tools. It is built once with NewRegistry and is
// read-only afterwards, so it can be shared between turns without locking.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry validates and indexes the given tools. Empty names, missing
// implementations and duplicate names are reported together.
func NewRegistry(list ...Tool) (*Registry, error) {
	r := &Registry{
		tools: make(map[string]Tool, len(list)),
		order: make([]string, 0, len(list)),
	}

	var errs errors.MultiError
	for _, t := range list {
		switch {
		case t.Name == "":
			errs.Add(errors.NewValidationError("name", "tool name is empty", t.Description))
			continue
		case !toolNamePattern.MatchString(t.Name):
			errs.Add(errors.NewValidationError("name", "tool name cannot appear in a tool tag", t.Name))
			continue
		case t.Fn == nil:
			errs.Add(errors.NewValidationError("fn", "tool has no implementation", t.Name))
			continue
		}
		if _, exists := r.tools[t.Name]; exists {
			errs.Add(errors.Wrapf(errors.ErrDuplicateTool, "tool %s", t.Name))
			continue
		}
		r.tools[t.Name] = t
		r.order = append(r.order, t.Name)
	}

	if err := errs.ToError(); err != nil {
		return nil, err
	}
	return r, nil
}

// Get retrieves a tool by name if registered.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.order) }

// Describe lists every tool with its signature and description, one per line.
// The text is embedded in the advisors' system prompts.
func (r *Registry) Describe() string {
	list := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		list = append(list, r.tools[name])
	}
	return Describe(list)
}

// Describe renders one "- signature: description" line per tool.
func Describe(list []Tool) string {
	var b strings.Builder
	for _, t := range list {
		fmt.Fprintf(&b, "- %s: %s\n", t.Signature(), t.Description)
	}
	return b.String()
}
