package agents

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finadvisor/internal/adapters/ai"
)

func TestConversationMessages(t *testing.T) {
	c := NewConversation("system", 0)
	c.AddUserMessage("task")
	c.AddAssistantMessage("reply")

	msgs := c.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, ai.SystemMessage("system"), msgs[0])
	assert.Equal(t, ai.UserMessage("task"), msgs[1])
	assert.Equal(t, ai.AssistantMessage("reply"), msgs[2])
	assert.Equal(t, 2, c.Len())
}

func TestConversationCompress(t *testing.T) {
	long := strings.Repeat("a", 400) // ~100 tokens
	c := NewConversation("", 500)

	c.AddUserMessage("task")
	for i := 0; i < 6; i++ {
		c.AddAssistantMessage(long)
		c.AddUserMessage(long)
	}

	assert.LessOrEqual(t, c.TokenCount(), 500+100)
	msgs := c.Messages()
	assert.Equal(t, "task", msgs[0].Content)
	assert.Equal(t, ai.RoleAssistant, msgs[1].Role)
	assert.True(t, strings.HasPrefix(msgs[1].Content, "[COMPRESSED HISTORY]"))
	assert.Equal(t, ai.RoleUser, msgs[2].Role)
	assert.Equal(t, long, msgs[len(msgs)-1].Content)
}

func TestConversationShortHistoryIsNotCompressed(t *testing.T) {
	c := NewConversation("", 1)
	c.AddUserMessage("a long enough task message")
	c.AddAssistantMessage("a long enough reply message")

	assert.Equal(t, 2, c.Len())
}

func TestSummarizeTruncatesByRune(t *testing.T) {
	reply := strings.Repeat("₹", 150)

	summary := summarize([]ai.Message{ai.UserMessage("task"), ai.AssistantMessage(reply)})

	assert.True(t, utf8.ValidString(summary))
	assert.Contains(t, summary, "- "+strings.Repeat("₹", 100)+"...\n")
	assert.NotContains(t, summary, strings.Repeat("₹", 101))
}
