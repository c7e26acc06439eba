package agents

import (
	"fmt"
	"strings"

	"finadvisor/internal/adapters/ai"
)

const (
	defaultHistoryTokens = 50000
	keepRecentMessages   = 6
)

// Conversation is the message history of a single advisor turn. When the
// estimated size exceeds maxTokens the middle of the history is replaced by
// a short summary; the task message and the most recent messages are kept.
type Conversation struct {
	systemPrompt  string
	history       []ai.Message
	tokens        []int
	maxTokens     int
	currentTokens int
}

// NewConversation creates an empty conversation
func NewConversation(systemPrompt string, maxTokens int) *Conversation {
	if maxTokens <= 0 {
		maxTokens = defaultHistoryTokens
	}

	return &Conversation{
		systemPrompt:  systemPrompt,
		history:       make([]ai.Message, 0, 8),
		maxTokens:     maxTokens,
		currentTokens: estimateTokens(systemPrompt),
	}
}

// AddUserMessage appends a user message
func (c *Conversation) AddUserMessage(content string) {
	c.add(ai.UserMessage(content))
}

// AddAssistantMessage appends a model reply
func (c *Conversation) AddAssistantMessage(content string) {
	c.add(ai.AssistantMessage(content))
}

func (c *Conversation) add(msg ai.Message) {
	n := estimateTokens(msg.Content)
	c.history = append(c.history, msg)
	c.tokens = append(c.tokens, n)
	c.currentTokens += n

	if c.currentTokens > c.maxTokens {
		c.compress()
	}
}

// Messages returns the request payload: system prompt first, then history.
func (c *Conversation) Messages() []ai.Message {
	out := make([]ai.Message, 0, len(c.history)+1)
	if c.systemPrompt != "" {
		out = append(out, ai.SystemMessage(c.systemPrompt))
	}
	return append(out, c.history...)
}

// Len returns the number of history messages, excluding the system prompt
func (c *Conversation) Len() int { return len(c.history) }

// TokenCount returns the current estimated size
func (c *Conversation) TokenCount() int { return c.currentTokens }

func (c *Conversation) compress() {
	// task + summary + recent
	if len(c.history) <= keepRecentMessages+2 {
		return
	}

	cut := len(c.history) - keepRecentMessages
	// the kept tail must open with a user message so roles keep alternating
	if c.history[cut].Role != ai.RoleUser {
		cut++
	}
	if cut <= 2 || cut >= len(c.history) {
		return
	}

	dropped := c.history[1:cut]
	summary := ai.AssistantMessage(summarize(dropped))

	history := make([]ai.Message, 0, len(c.history)-cut+2)
	history = append(history, c.history[0], summary)
	history = append(history, c.history[cut:]...)

	tokens := make([]int, 0, len(history))
	tokens = append(tokens, c.tokens[0], estimateTokens(summary.Content))
	tokens = append(tokens, c.tokens[cut:]...)

	c.history = history
	c.tokens = tokens
	c.currentTokens = estimateTokens(c.systemPrompt)
	for _, n := range tokens {
		c.currentTokens += n
	}
}

const summaryLineRunes = 100

func summarize(messages []ai.Message) string {
	var b strings.Builder
	b.WriteString("[COMPRESSED HISTORY]\n")
	fmt.Fprintf(&b, "%d earlier messages omitted. Earlier replies began with:\n", len(messages))

	written := 0
	for _, msg := range messages {
		if msg.Role != ai.RoleAssistant || strings.TrimSpace(msg.Content) == "" {
			continue
		}
		line := strings.TrimSpace(msg.Content)
		if r := []rune(line); len(r) > summaryLineRunes {
			line = string(r[:summaryLineRunes]) + "..."
		}
		fmt.Fprintf(&b, "- %s\n", line)
		written++
		if written == 3 {
			break
		}
	}
	return b.String()
}

// estimateTokens assumes roughly 4 characters per token
func estimateTokens(text string) int {
	return len(text) / 4
}
