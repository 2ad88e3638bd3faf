package resume

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keywordEmbedder maps each text onto counts of a fixed vocabulary.
type keywordEmbedder struct {
	vocabulary []string
	calls      int
	err        error
}

func (k *keywordEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	k.calls++
	if k.err != nil {
		return nil, k.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, len(k.vocabulary))
		lower := strings.ToLower(text)
		for j, word := range k.vocabulary {
			vec[j] = float32(strings.Count(lower, word))
		}
		out[i] = vec
	}
	return out, nil
}

func TestSplit(t *testing.T) {
	t.Run("short text is one chunk", func(t *testing.T) {
		assert.Equal(t, []string{"Data analyst at Acme."}, Split("  Data analyst at Acme.  ", 0, 0))
	})

	t.Run("blank text", func(t *testing.T) {
		assert.Empty(t, Split(" \n\n ", 100, 10))
	})

	t.Run("prefers paragraphs", func(t *testing.T) {
		text := "Experience at Acme building dashboards.\n\nEducation in statistics."
		assert.Equal(t, []string{"Experience at Acme building dashboards.", "Education in statistics."}, Split(text, 45, 0))
	})

	t.Run("respects size and overlap", func(t *testing.T) {
		words := make([]string, 0, 300)
		for range 300 {
			words = append(words, "skill")
		}
		text := strings.Join(words, " ")

		chunks := Split(text, 100, 20)
		require.Greater(t, len(chunks), 1)
		for _, chunk := range chunks {
			assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 100)
		}

		// Neighbouring chunks share their boundary words.
		first, second := chunks[0], chunks[1]
		assert.True(t, strings.HasPrefix(second, first[len(first)-17:]))
	})

	t.Run("splits words longer than the chunk", func(t *testing.T) {
		chunks := Split(strings.Repeat("x", 25), 10, 0)
		assert.Equal(t, []string{"xxxxxxxxxx", "xxxxxxxxxx", "xxxxx"}, chunks)
	})

	t.Run("overlap larger than size is reduced", func(t *testing.T) {
		chunks := Split("aa bb cc dd ee ff", 5, 50)
		for _, chunk := range chunks {
			assert.LessOrEqual(t, utf8.RuneCountInString(chunk), 5)
		}
	})
}

func TestIndexSearchAndQuery(t *testing.T) {
	ctx := context.Background()
	embedder := &keywordEmbedder{vocabulary: []string{"python", "sql", "teaching"}}

	idx, err := NewIndex(ctx, embedder, []string{
		"Taught teaching methods",
		"",
		"Python and SQL pipelines",
		"SQL reporting",
		"Python scripting",
	}, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, idx.Len())

	matches, err := idx.Search(ctx, "sql", 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "SQL reporting", matches[0].Chunk)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-9)
	assert.Equal(t, "Python and SQL pipelines", matches[1].Chunk)

	text, err := idx.Query(ctx, "python")
	require.NoError(t, err)
	assert.Equal(t, "Python scripting Python and SQL pipelines", text)

	blank, err := idx.Query(ctx, "  ")
	require.NoError(t, err)
	assert.Empty(t, blank)
}

func TestNewIndexBatchesAndErrors(t *testing.T) {
	ctx := context.Background()

	chunks := make([]string, embeddingBatches+5)
	for i := range chunks {
		chunks[i] = "sql"
	}
	embedder := &keywordEmbedder{vocabulary: []string{"sql"}}
	idx, err := NewIndex(ctx, embedder, chunks, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, embedder.calls)
	assert.Equal(t, DefaultTopK, idx.topK)

	_, err = NewIndex(ctx, &keywordEmbedder{err: errors.New("offline")}, []string{"x"}, 0)
	require.Error(t, err)

	_, err = NewIndex(ctx, nil, nil, 0)
	require.Error(t, err)
}

func TestEmpty(t *testing.T) {
	text, err := Empty().Query(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2}, []float32{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Zero(t, cosineSimilarity([]float32{1}, []float32{1, 2}))
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}

func TestTikaExtractor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/tika", r.URL.Path)
		assert.Equal(t, "application/pdf", r.Header.Get("Content-Type"))
		assert.Equal(t, "text/plain", r.Header.Get("Accept"))

		body, _ := io.ReadAll(r.Body)
		if string(body) == "broken" {
			http.Error(w, "cannot parse", http.StatusUnprocessableEntity)
			return
		}
		_, _ = w.Write([]byte("Extracted resume text"))
	}))
	defer srv.Close()

	tika := NewTikaExtractor(srv.URL+"/", time.Second)

	text, err := tika.Extract(context.Background(), []byte("%PDF-1.4"), "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "Extracted resume text", text)

	_, err = tika.Extract(context.Background(), []byte("broken"), "application/pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

type fixedExtractor struct {
	text string
}

func (f fixedExtractor) Extract(context.Context, []byte, string) (string, error) {
	return f.text, nil
}

func TestLoadAndBuild(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	txt := filepath.Join(dir, "cv.TXT")
	require.NoError(t, os.WriteFile(txt, []byte("Python developer\n\nSQL analyst"), 0o600))
	pdf := filepath.Join(dir, "cv.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF"), 0o600))
	doc := filepath.Join(dir, "cv.docx")
	require.NoError(t, os.WriteFile(doc, []byte("x"), 0o600))

	text, err := Load(ctx, txt, nil)
	require.NoError(t, err)
	assert.Equal(t, "Python developer\n\nSQL analyst", text)

	text, err = Load(ctx, pdf, fixedExtractor{text: "from pdf"})
	require.NoError(t, err)
	assert.Equal(t, "from pdf", text)

	_, err = Load(ctx, pdf, nil)
	require.Error(t, err)

	_, err = Load(ctx, doc, nil)
	assert.ErrorIs(t, err, ErrUnsupportedType)

	idx, err := Build(ctx, txt, nil, &keywordEmbedder{vocabulary: []string{"python", "sql"}}, Options{ChunkSize: 20, TopK: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, idx.Len())

	got, err := idx.Query(ctx, "sql")
	require.NoError(t, err)
	assert.Equal(t, "SQL analyst", got)
}
