package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mrigankrai05/VitalSimple/models"

	"google.golang.org/genai"
)

// Generator produces free text from a system instruction and a user message.
// Implementations decode deterministically (temperature 0), though the
// collaborator itself is not guaranteed deterministic.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// ollamaGenerator talks to the chat API of a local Ollama instance.
type ollamaGenerator struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

func NewOllamaGenerator(client *http.Client, baseURL, model string) Generator {
	return &ollamaGenerator{httpClient: client, baseURL: baseURL, model: model}
}

func (g *ollamaGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	var messages []models.OllamaMessage
	if system != "" {
		messages = append(messages, models.OllamaMessage{Role: "system", Content: system})
	}
	messages = append(messages, models.OllamaMessage{Role: "user", Content: user})

	reqBody, err := json.Marshal(models.OllamaChatRequest{
		Model:    g.model,
		Messages: messages,
		Stream:   false,
		Options:  models.OllamaOptions{Temperature: 0},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal ollama chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/chat", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create ollama http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to call ollama chat api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama api returned non-200 status: %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var chatResp models.OllamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("failed to decode ollama chat response: %w", err)
	}
	return chatResp.Message.Content, nil
}

// geminiGenerator uses the Gemini API for generation.
type geminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(client *genai.Client, model string) Generator {
	return &geminiGenerator{client: client, model: model}
}

func (g *geminiGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0)),
	}
	if system != "" {
		contents := genai.Text(system)
		if len(contents) > 0 {
			config.SystemInstruction = contents[0]
		}
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(user), config)
	if err != nil {
		return "", fmt.Errorf("gemini api call failed: %w", err)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var responseText strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		if p.Text != "" {
			responseText.WriteString(p.Text)
		}
	}
	return responseText.String(), nil
}
