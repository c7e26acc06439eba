package tools

import "regexp"

// tagPattern matches <tool:NAME>{...}</tool>. The body is captured
// non-greedily up to the first "}</tool>", so a JSON string containing that
// sequence truncates the body and fails to parse.
var tagPattern = regexp.MustCompile(`(?s)<tool:([a-zA-Z0-9_]+)>(\{.*?\})</tool>`)

var toolNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// ToolCall is one tool request found in model output.
type ToolCall struct {
	Name      string
	Arguments Args
	// Raw is the captured JSON body as written by the model.
	Raw string
	// Malformed is set when Raw did not parse as a JSON object; Arguments is
	// then empty.
	Malformed bool
}

// Scan returns the tool calls in text, left to right. A tag whose body is
// not a valid JSON object is still returned, with empty arguments.
func Scan(text string) []ToolCall {
	if text == "" {
		return nil
	}

	matches := tagPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	calls := make([]ToolCall, 0, len(matches))
	for _, m := range matches {
		call := ToolCall{Name: m[1], Raw: m[2]}
		args, err := ParseArgs(m[2])
		if err != nil {
			call.Arguments = Args{Values: map[string]any{}}
			call.Malformed = true
		} else {
			call.Arguments = args
		}
		calls = append(calls, call)
	}
	return calls
}

// Tag renders a tool tag for name and a JSON object body. Prompts use it to
// show the model the exact syntax.
func Tag(name, body string) string {
	return "<tool:" + name + ">" + body + "</tool>"
}
