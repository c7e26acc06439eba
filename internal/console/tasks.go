package console

import (
	"finadvisor/pkg/errors"
	"finadvisor/pkg/templates"
)

const (
	stockTaskTemplate   = "prompts/stock_task"
	financeTaskTemplate = "prompts/finance_task"
	demoKickoffTemplate = "prompts/demo_kickoff"
)

// Tasks are the first messages sent to each advisor.
type Tasks struct {
	Stock   string
	Finance string
}

// RenderTasks builds both advisor tasks from the profile.
func RenderTasks(reg *templates.Registry, prof Profile) (Tasks, error) {
	stock, err := reg.Render(stockTaskTemplate, prof)
	if err != nil {
		return Tasks{}, errors.Wrap(err, "stock task")
	}
	finance, err := reg.Render(financeTaskTemplate, prof)
	if err != nil {
		return Tasks{}, errors.Wrap(err, "finance task")
	}
	return Tasks{Stock: stock, Finance: finance}, nil
}

// RenderDemoKickoff builds the scripted message used by demo mode.
func RenderDemoKickoff(reg *templates.Registry, symbol string) (string, error) {
	kickoff, err := reg.Render(demoKickoffTemplate, map[string]string{"Symbol": symbol})
	return kickoff, errors.Wrap(err, "demo kickoff")
}
