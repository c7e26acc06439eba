package tools

import (
	"encoding/json"

	"finadvisor/pkg/errors"
)

// Error kinds carried by ErrorValue
const (
	KindUnknownTool        = "unknown_tool"
	KindInvalidArgument    = "invalid_argument"
	KindToolExecutionError = "tool_execution_error"
)

// ErrorValue is a tool failure returned as data. It is handed back to the
// model like any other outcome and is never raised.
type ErrorValue struct {
	ErrorKind string `json:"error_kind"`
	Message   string `json:"message"`
}

// AsErrorValue reports whether a dispatch outcome is a failure.
func AsErrorValue(outcome any) (ErrorValue, bool) {
	switch v := outcome.(type) {
	case ErrorValue:
		return v, true
	case *ErrorValue:
		if v != nil {
			return *v, true
		}
	}
	return ErrorValue{}, false
}

// ToolResult pairs a call with its outcome.
type ToolResult struct {
	Name      string `json:"tool"`
	Arguments Args   `json:"args"`
	Outcome   any    `json:"result"`
}

// OutcomeKind is "success" or the ErrorValue kind.
func (r ToolResult) OutcomeKind() string {
	if ev, ok := AsErrorValue(r.Outcome); ok {
		return ev.ErrorKind
	}
	return "success"
}

// SerializeResults renders a batch of results as the follow-up message sent
// back to the model.
func SerializeResults(results []ToolResult) (string, error) {
	if results == nil {
		results = []ToolResult{}
	}
	payload, err := json.Marshal(results)
	if err != nil {
		return "", errors.Wrap(err, "marshal tool results")
	}
	return "Tool results:\n" + string(payload) + "\nIncorporate and continue.", nil
}

// PrettyOutcome renders one outcome as indented JSON for console output.
func PrettyOutcome(outcome any) string {
	out, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		return "<unprintable result: " + err.Error() + ">"
	}
	return string(out)
}
