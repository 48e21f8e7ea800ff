package services

import (
	"context"
	"encoding/json"
	"log"

	"github.com/mrigankrai05/VitalSimple/models"
)

// ChatService is the conversational generator for follow-up questions
// against a registered session.
type ChatService struct {
	generator Generator
}

func NewChatService(generator Generator) *ChatService {
	return &ChatService{generator: generator}
}

// Answer assembles the session's context window, asks the model, and returns
// the reply as JSON. A reply that parses after brace extraction is passed
// through verbatim, with no schema validation; anything else degrades to a
// plain-text ChatTurn so chat never throws at the caller. The only error
// path is context assembly (query embedding or index lookup).
func (s *ChatService) Answer(ctx context.Context, store ContextStore, query string) (json.RawMessage, error) {
	contextText, err := store.Context(ctx, query)
	if err != nil {
		return nil, err
	}

	reply, err := s.generator.Generate(ctx, chatSystemPrompt(contextText), query)
	if err != nil {
		log.Printf("CHAT: Generation call failed: %v", err)
		return fallbackTurn("I could not generate an answer for this question."), nil
	}

	clean, ok := ExtractJSON(reply)
	if !ok {
		return fallbackTurn(reply), nil
	}
	return json.RawMessage(clean), nil
}

func fallbackTurn(answer string) json.RawMessage {
	data, _ := json.Marshal(models.ChatTurn{Answer: answer, Visualization: nil})
	return data
}
