package domain

// Role of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged chat message.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// PromptEnvelope is the complete prompt for a single generation attempt.
// It is built once per attempt and never modified afterwards.
type PromptEnvelope struct {
	attempt  int
	messages []Message
}

// NewPromptEnvelope copies messages into a new envelope.
func NewPromptEnvelope(attempt int, messages ...Message) PromptEnvelope {
	cp := make([]Message, len(messages))
	copy(cp, messages)
	return PromptEnvelope{attempt: attempt, messages: cp}
}

// Attempt returns the 1-based attempt number the envelope was built for.
func (p PromptEnvelope) Attempt() int { return p.attempt }

// Messages returns a copy of the envelope's messages.
func (p PromptEnvelope) Messages() []Message {
	cp := make([]Message, len(p.messages))
	copy(cp, p.messages)
	return cp
}

// Usage is token accounting reported by the backend.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompletionRequest is the normalized request sent to a reasoning backend.
type CompletionRequest struct {
	Messages    []Message
	Temperature float32
	MaxTokens   int
	JSONMode    bool
}

// Completion is the normalized backend reply.
type Completion struct {
	Content string `json:"content"`
	Model   string `json:"model"`
	Usage   Usage  `json:"usage"`
}
