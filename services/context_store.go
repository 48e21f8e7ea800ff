package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mrigankrai05/VitalSimple/models"

	"github.com/tmc/langchaingo/textsplitter"
)

// Context-provisioning modes. The two strategies share every other code
// path, so the choice is a build-time configuration flag, not per-request.
const (
	ModeFullText = "fulltext"
	ModeIndexed  = "indexed"
)

// ContextStore holds the extracted report of one session and assembles the
// context window for a question. A session has exactly one store, built at
// upload time and never mutated afterwards.
type ContextStore interface {
	// Context returns the text to place in the generator prompt. The
	// full-text variant ignores the query; the indexed variant embeds it
	// and returns the nearest chunks.
	Context(ctx context.Context, query string) (string, error)
	// Close releases index resources held for the session.
	Close(ctx context.Context) error
}

type fullTextStore struct {
	text string
}

func (s *fullTextStore) Context(ctx context.Context, query string) (string, error) {
	return s.text, nil
}

func (s *fullTextStore) Close(ctx context.Context) error { return nil }

type indexedStore struct {
	index    VectorIndex
	embedder Embedder
	topK     int
}

func (s *indexedStore) Context(ctx context.Context, query string) (string, error) {
	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to embed query: %w", err)
	}
	passages, err := s.index.Query(ctx, vector, s.topK)
	if err != nil {
		return "", fmt.Errorf("failed to query session index: %w", err)
	}
	parts := make([]string, 0, len(passages))
	for _, p := range passages {
		parts = append(parts, p.Text)
	}
	return strings.Join(parts, "\n\n"), nil
}

func (s *indexedStore) Close(ctx context.Context) error { return s.index.Close(ctx) }

// StoreBuilder builds the configured ContextStore variant for a session.
type StoreBuilder struct {
	Mode         string
	ChunkSize    int
	ChunkOverlap int
	TopK         int
	Embedder     Embedder
	IndexFactory IndexFactory
}

// Build joins the page texts and, in indexed mode, splits them into
// overlapping chunks, embeds each chunk and inserts it into a fresh
// per-session index. No size limit is enforced here; the generators bound
// their prompts at consumption time.
func (b *StoreBuilder) Build(ctx context.Context, sessionID string, pages []models.PageText) (ContextStore, error) {
	text := JoinPages(pages)
	if b.Mode != ModeIndexed {
		return &fullTextStore{text: text}, nil
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(b.ChunkSize),
		textsplitter.WithChunkOverlap(b.ChunkOverlap),
	)
	chunks, err := splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("failed to split report text: %w", err)
	}
	log.Printf("STORE: Split session %s report into %d chunks.", sessionID, len(chunks))

	index, err := b.IndexFactory(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for i, chunk := range chunks {
		vector, err := b.Embedder.Embed(ctx, chunk)
		if err != nil {
			index.Close(ctx)
			return nil, fmt.Errorf("could not embed chunk %d: %w", i, err)
		}
		id := fmt.Sprintf("%s-chunk%d", sessionID, i)
		if err := index.Add(ctx, id, chunk, vector, i); err != nil {
			index.Close(ctx)
			return nil, fmt.Errorf("failed to index chunk %d: %w", i, err)
		}
	}

	return &indexedStore{index: index, embedder: b.Embedder, topK: b.TopK}, nil
}
