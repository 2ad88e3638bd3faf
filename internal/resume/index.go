package resume

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/spigell/career-interviewer/internal/ai"
	"github.com/spigell/career-interviewer/internal/interview"
)

const (
	DefaultTopK      = 3
	embeddingBatches = 32
)

// Match is a chunk with its similarity to a query.
type Match struct {
	Chunk string
	Score float64
}

// Index is an in-memory vector index over resume chunks.
type Index struct {
	embedder ai.Embedder
	chunks   []string
	vectors  [][]float32
	topK     int
}

// NewIndex embeds chunks with embedder. topK bounds Query results; a
// non-positive value uses DefaultTopK.
func NewIndex(ctx context.Context, embedder ai.Embedder, chunks []string, topK int) (*Index, error) {
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	kept := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if strings.TrimSpace(chunk) != "" {
			kept = append(kept, chunk)
		}
	}

	vectors := make([][]float32, 0, len(kept))
	for start := 0; start < len(kept); start += embeddingBatches {
		end := min(start+embeddingBatches, len(kept))
		batch, err := embedder.Embed(ctx, kept[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed chunks %d-%d: %w", start, end, err)
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("embedder returned %d vectors for %d chunks", len(batch), end-start)
		}
		vectors = append(vectors, batch...)
	}

	return &Index{embedder: embedder, chunks: kept, vectors: vectors, topK: topK}, nil
}

// Len reports the number of indexed chunks.
func (i *Index) Len() int {
	return len(i.chunks)
}

// Search returns up to k chunks ordered by descending cosine similarity.
// Ties keep document order.
func (i *Index) Search(ctx context.Context, query string, k int) ([]Match, error) {
	if len(i.chunks) == 0 || k <= 0 {
		return nil, nil
	}

	vectors, err := i.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for the query", len(vectors))
	}

	matches := make([]Match, len(i.chunks))
	for idx, chunk := range i.chunks {
		matches[idx] = Match{Chunk: chunk, Score: cosineSimilarity(vectors[0], i.vectors[idx])}
	}

	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].Score > matches[b].Score
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// Query joins the top chunks for query with spaces. A blank query yields "".
func (i *Index) Query(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", nil
	}

	matches, err := i.Search(ctx, query, i.topK)
	if err != nil {
		return "", err
	}

	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, m.Chunk)
	}
	return strings.Join(parts, " "), nil
}

type emptyContext struct{}

func (emptyContext) Query(context.Context, string) (string, error) { return "", nil }

// Empty is the context of a respondent without a resume.
func Empty() interview.ResumeContext {
	return emptyContext{}
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
