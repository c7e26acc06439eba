package ai

// ChatRequest represents a chat completion request.
type ChatRequest struct {
	Messages    []Message
	Temperature float64
	// MaxTokens of zero leaves the provider default
	MaxTokens int
}

// Message represents a single message in the conversation.
type Message struct {
	Role    MessageRole
	Content string
}

// MessageRole defines the role of a message sender.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// SystemMessage builds a system message
func SystemMessage(content string) Message { return Message{Role: RoleSystem, Content: content} }

// UserMessage builds a user message
func UserMessage(content string) Message { return Message{Role: RoleUser, Content: content} }

// AssistantMessage builds an assistant message
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// ChatResponse represents the response from a chat completion.
type ChatResponse struct {
	ID           string
	Model        string
	Content      string
	FinishReason FinishReason
	Usage        Usage
}

// FinishReason indicates why the model stopped generating.
type FinishReason string

const (
	FinishReasonStop   FinishReason = "stop"
	FinishReasonLength FinishReason = "length"
	FinishReasonFilter FinishReason = "content_filter"
	FinishReasonOther  FinishReason = "other"
)

// Usage tracks token consumption.
type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}
