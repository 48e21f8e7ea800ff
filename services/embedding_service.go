package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mrigankrai05/VitalSimple/models"

	"google.golang.org/genai"
)

// Embedder turns a text span into a fixed-dimension vector using an external
// embedding model.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ollamaEmbedder calls the embedding API of a local Ollama instance.
type ollamaEmbedder struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

func NewOllamaEmbedder(client *http.Client, baseURL, model string) Embedder {
	return &ollamaEmbedder{httpClient: client, baseURL: baseURL, model: model}
}

func (e *ollamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	reqBody, err := json.Marshal(models.OllamaEmbedRequest{
		Model:  e.model,
		Prompt: text,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ollama request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embeddings", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call ollama embedding api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama api returned non-200 status: %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var ollamaResp models.OllamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return nil, fmt.Errorf("failed to decode ollama response: %w", err)
	}
	return ollamaResp.Embedding, nil
}

// geminiEmbedder uses the Gemini embedding API.
type geminiEmbedder struct {
	client *genai.Client
	model  string
}

func NewGeminiEmbedder(client *genai.Client, model string) Embedder {
	return &geminiEmbedder{client: client, model: model}
}

func (e *geminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	res, err := e.client.Models.EmbedContent(ctx, e.model, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("gemini embedding request failed: %w", err)
	}
	if len(res.Embeddings) == 0 || len(res.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("no embedding data received from gemini")
	}
	return res.Embeddings[0].Values, nil
}
