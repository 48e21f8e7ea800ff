package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	chromago "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
)

// ScoredPassage is a retrieved chunk. Position is the chunk's place in the
// original document, used to break similarity ties in document order.
type ScoredPassage struct {
	Text     string
	Position int
}

// VectorIndex is the narrow similarity-index contract the indexed context
// store builds against. An index holds the chunks of exactly one session.
type VectorIndex interface {
	Add(ctx context.Context, id string, text string, vector []float32, position int) error
	Query(ctx context.Context, vector []float32, k int) ([]ScoredPassage, error)
	Close(ctx context.Context) error
}

// IndexFactory creates a fresh index for a new session.
type IndexFactory func(ctx context.Context, sessionID string) (VectorIndex, error)

// chromaIndex keeps a session's chunks in a dedicated ChromaDB collection.
type chromaIndex struct {
	client     chromago.Client
	collection chromago.Collection
	name       string
}

// NewChromaIndexFactory creates per-session collections on the given client
// using the v2 API. Closing the index drops the collection.
func NewChromaIndexFactory(client chromago.Client) IndexFactory {
	return func(ctx context.Context, sessionID string) (VectorIndex, error) {
		name := "session-" + sessionID
		collection, err := client.GetOrCreateCollection(
			ctx,
			name,
			chromago.WithCollectionMetadataCreate(
				chromago.NewMetadata(
					chromago.NewStringAttribute("created_by", "report_service"),
				),
			),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create session collection: %w", err)
		}
		return &chromaIndex{client: client, collection: collection, name: name}, nil
	}
}

func (c *chromaIndex) Add(ctx context.Context, id, text string, vector []float32, position int) error {
	embedding := embeddings.NewEmbeddingFromFloat32(vector)
	metadata := chromago.NewDocumentMetadata(
		chromago.NewIntAttribute("chunk_num", int64(position)),
	)
	err := c.collection.Add(ctx,
		chromago.WithIDs(chromago.DocumentID(id)),
		chromago.WithTexts(text),
		chromago.WithEmbeddings(embedding),
		chromago.WithMetadatas(metadata),
	)
	if err != nil {
		return fmt.Errorf("failed to add chunk to chromadb: %w", err)
	}
	return nil
}

func (c *chromaIndex) Query(ctx context.Context, vector []float32, k int) ([]ScoredPassage, error) {
	embedding := embeddings.NewEmbeddingFromFloat32(vector)
	results, err := c.collection.Query(ctx,
		chromago.WithQueryEmbeddings(embedding),
		chromago.WithNResults(k),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chromadb: %w", err)
	}

	// Chroma already orders by ascending distance.
	var passages []ScoredPassage
	documentGroups := results.GetDocumentsGroups()
	if len(documentGroups) > 0 {
		for i, doc := range documentGroups[0] {
			if doc.ContentString() == "" {
				continue
			}
			passages = append(passages, ScoredPassage{Text: doc.ContentString(), Position: i})
		}
	}
	return passages, nil
}

func (c *chromaIndex) Close(ctx context.Context) error {
	return c.client.DeleteCollection(ctx, c.name)
}

// memoryIndex is a brute-force cosine-similarity index for running without a
// Chroma server. Vectors are not assumed to be normalized.
type memoryIndex struct {
	mu        sync.RWMutex
	texts     []string
	positions []int
	vectors   [][]float32
}

func NewMemoryIndexFactory() IndexFactory {
	return func(ctx context.Context, sessionID string) (VectorIndex, error) {
		return &memoryIndex{}, nil
	}
}

func (m *memoryIndex) Add(ctx context.Context, id, text string, vector []float32, position int) error {
	if len(vector) == 0 {
		return fmt.Errorf("cannot index chunk %s: empty vector", id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.vectors) > 0 && len(m.vectors[0]) != len(vector) {
		return fmt.Errorf("cannot index chunk %s: vector dimension mismatch", id)
	}
	m.texts = append(m.texts, text)
	m.positions = append(m.positions, position)
	m.vectors = append(m.vectors, vector)
	return nil
}

func (m *memoryIndex) Query(ctx context.Context, vector []float32, k int) ([]ScoredPassage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	type scored struct {
		passage ScoredPassage
		score   float32
	}
	candidates := make([]scored, 0, len(m.vectors))
	for i := range m.vectors {
		candidates = append(candidates, scored{
			passage: ScoredPassage{Text: m.texts[i], Position: m.positions[i]},
			score:   cosineSimilarity(m.vectors[i], vector),
		})
	}

	// Descending similarity, ties in document order.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].passage.Position < candidates[j].passage.Position
	})

	if k > len(candidates) {
		k = len(candidates)
	}
	passages := make([]ScoredPassage, 0, k)
	for i := 0; i < k; i++ {
		passages = append(passages, candidates[i].passage)
	}
	return passages, nil
}

func (m *memoryIndex) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts = nil
	m.positions = nil
	m.vectors = nil
	return nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, magA, magB float32
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (float32(math.Sqrt(float64(magA))) * float32(math.Sqrt(float64(magB))))
}
