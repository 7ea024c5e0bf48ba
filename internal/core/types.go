package core

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of squad conversation. Messages are immutable once
// created; the orchestrator assigns Ordinal when it appends a message to the
// session history.
type Message struct {
	Sender  string `json:"sender"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
	Tokens  int    `json:"tokens,omitempty"`
	Ordinal int    `json:"ordinal"`
}

// Transcript is the ordered sequence of messages produced by one squad
// dispatch.
type Transcript []Message

// TotalTokens sums the token counts of all messages in the transcript.
func (t Transcript) TotalTokens() int {
	total := 0
	for _, msg := range t {
		total += msg.Tokens
	}
	return total
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResponse is the result of a single completion call to an LLM provider.
type ChatResponse struct {
	Content string
	Usage   *Usage
}

type SamplingConfig struct {
	Temperature *float64 `toml:"temperature" yaml:"temperature"`
	TopP        *float64 `toml:"top_p" yaml:"top_p"`
	MaxTokens   *int     `toml:"max_tokens" yaml:"max_tokens"`
}
