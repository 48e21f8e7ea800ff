package models

// OllamaEmbedRequest is used to structure the request to the Ollama embedding API.
type OllamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// OllamaEmbedResponse is used to parse the embedding from the Ollama API response.
type OllamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// OllamaChatRequest is the request body for the Ollama /api/chat endpoint.
// Stream must be false so the reply arrives as a single JSON object.
type OllamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []OllamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  OllamaOptions   `json:"options"`
}

// OllamaMessage is a single chat message with role "system", "user" or "assistant".
type OllamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OllamaOptions carries the decoding parameters. Temperature stays at 0 so
// the same report yields maximally-reproducible output.
type OllamaOptions struct {
	Temperature float64 `json:"temperature"`
}

// OllamaChatResponse parses the non-streaming reply from /api/chat.
type OllamaChatResponse struct {
	Message OllamaMessage `json:"message"`
	Done    bool          `json:"done"`
}
