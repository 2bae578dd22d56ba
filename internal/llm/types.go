package llm

// Message represents a single message in a chat conversation.
// Roles follow the OpenAI convention: "system", "user", "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
