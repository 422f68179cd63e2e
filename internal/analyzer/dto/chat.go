package dto

// ChatRequest is a single system + user exchange with a chat model.
type ChatRequest struct {
	Model  string
	System string
	User   string
	// Text is the raw text under analysis, used by backends that do not
	// read prompts.
	Text string
	// Label is set on explanation requests to the already determined label.
	Label string
}

// OllamaChatRequest is the payload of Ollama's /api/chat.
type OllamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []OllamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

// OllamaMessage is one chat message.
type OllamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OllamaChatResponse is the non-streaming response of /api/chat.
type OllamaChatResponse struct {
	Model   string        `json:"model"`
	Message OllamaMessage `json:"message"`
	Done    bool          `json:"done"`
}
