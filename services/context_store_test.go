package services

import (
	"context"
	"testing"

	"github.com/mrigankrai05/VitalSimple/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbedder returns canned vectors keyed by exact text, with a default
// for anything unlisted.
type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

func TestMemoryIndexReturnsNearestChunkFirst(t *testing.T) {
	factory := NewMemoryIndexFactory()
	index, err := factory(context.Background(), "test-session")
	require.NoError(t, err)

	require.NoError(t, index.Add(context.Background(), "c0", "A is 5", []float32{1, 0, 0}, 0))
	require.NoError(t, index.Add(context.Background(), "c1", "B is 10", []float32{0, 1, 0}, 1))
	require.NoError(t, index.Add(context.Background(), "c2", "C is 15", []float32{0, 0, 1}, 2))

	// Query vector closest to chunk 1's embedding.
	passages, err := index.Query(context.Background(), []float32{0.1, 0.9, 0.1}, 1)
	require.NoError(t, err)
	require.Len(t, passages, 1)
	assert.Equal(t, "B is 10", passages[0].Text)
}

func TestMemoryIndexBreaksTiesInDocumentOrder(t *testing.T) {
	factory := NewMemoryIndexFactory()
	index, err := factory(context.Background(), "test-session")
	require.NoError(t, err)

	// Chunks 0 and 2 are equidistant from the query.
	require.NoError(t, index.Add(context.Background(), "c0", "A is 5", []float32{1, 0, 0}, 0))
	require.NoError(t, index.Add(context.Background(), "c1", "B is 10", []float32{0, 1, 0}, 1))
	require.NoError(t, index.Add(context.Background(), "c2", "C is 15", []float32{0, 0, 1}, 2))

	passages, err := index.Query(context.Background(), []float32{0.1, 0.9, 0.1}, 3)
	require.NoError(t, err)
	require.Len(t, passages, 3)
	assert.Equal(t, "B is 10", passages[0].Text)
	assert.Equal(t, "A is 5", passages[1].Text)
	assert.Equal(t, "C is 15", passages[2].Text)
}

func TestMemoryIndexRejectsDimensionMismatch(t *testing.T) {
	factory := NewMemoryIndexFactory()
	index, err := factory(context.Background(), "test-session")
	require.NoError(t, err)

	require.NoError(t, index.Add(context.Background(), "c0", "A", []float32{1, 0, 0}, 0))
	assert.Error(t, index.Add(context.Background(), "c1", "B", []float32{1, 0}, 1))
}

func TestFullTextStoreIgnoresQuery(t *testing.T) {
	builder := &StoreBuilder{Mode: ModeFullText}
	pages := []models.PageText{
		{Number: 1, Text: "Hemoglobin 14.2 g/dL"},
		{Number: 2, Text: "LDL Cholesterol 120 mg/dL"},
	}

	store, err := builder.Build(context.Background(), "s1", pages)
	require.NoError(t, err)

	for _, query := range []string{"", "hemoglobin?", "anything at all"} {
		text, err := store.Context(context.Background(), query)
		require.NoError(t, err)
		assert.Contains(t, text, "--- Page 1 ---")
		assert.Contains(t, text, "Hemoglobin 14.2 g/dL")
		assert.Contains(t, text, "--- Page 2 ---")
		assert.Contains(t, text, "LDL Cholesterol 120 mg/dL")
	}
}

func TestIndexedStoreBuildAndRetrieve(t *testing.T) {
	builder := &StoreBuilder{
		Mode:         ModeIndexed,
		ChunkSize:    1000,
		ChunkOverlap: 100,
		TopK:         2,
		Embedder:     &fakeEmbedder{},
		IndexFactory: NewMemoryIndexFactory(),
	}
	pages := []models.PageText{{Number: 1, Text: "Hemoglobin 14.2 g/dL"}}

	store, err := builder.Build(context.Background(), "s1", pages)
	require.NoError(t, err)

	text, err := store.Context(context.Background(), "hemoglobin?")
	require.NoError(t, err)
	assert.Contains(t, text, "Hemoglobin 14.2 g/dL")
}

func TestSessionsDoNotLeakContext(t *testing.T) {
	builder := &StoreBuilder{
		Mode:         ModeIndexed,
		ChunkSize:    1000,
		ChunkOverlap: 100,
		TopK:         4,
		Embedder:     &fakeEmbedder{},
		IndexFactory: NewMemoryIndexFactory(),
	}

	storeA, err := builder.Build(context.Background(), "a", []models.PageText{{Number: 1, Text: "Patient A: Hemoglobin 14.2"}})
	require.NoError(t, err)
	storeB, err := builder.Build(context.Background(), "b", []models.PageText{{Number: 1, Text: "Patient B: Glucose 250"}})
	require.NoError(t, err)

	textA, err := storeA.Context(context.Background(), "hemoglobin?")
	require.NoError(t, err)
	textB, err := storeB.Context(context.Background(), "glucose?")
	require.NoError(t, err)

	assert.Contains(t, textA, "Patient A")
	assert.NotContains(t, textA, "Patient B")
	assert.Contains(t, textB, "Patient B")
	assert.NotContains(t, textB, "Patient A")
}
