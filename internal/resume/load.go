package resume

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spigell/career-interviewer/internal/ai"
)

const (
	DefaultTikaURL     = "http://localhost:9998"
	defaultTikaTimeout = 30 * time.Second
	maxTikaErrorBody   = 512
)

var ErrUnsupportedType = errors.New("unsupported resume type")

// Extractor turns a binary document into plain text.
type Extractor interface {
	Extract(ctx context.Context, data []byte, contentType string) (string, error)
}

// TikaExtractor extracts text through an Apache Tika server.
type TikaExtractor struct {
	url        string
	httpClient *http.Client
}

func NewTikaExtractor(url string, timeout time.Duration) *TikaExtractor {
	if url = strings.TrimRight(strings.TrimSpace(url), "/"); url == "" {
		url = DefaultTikaURL
	}
	if timeout <= 0 {
		timeout = defaultTikaTimeout
	}
	return &TikaExtractor{url: url, httpClient: &http.Client{Timeout: timeout}}
}

func (t *TikaExtractor) Extract(ctx context.Context, data []byte, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, t.url+"/tika", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create tika request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "text/plain")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("tika request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxTikaErrorBody))
		return "", fmt.Errorf("tika server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read tika response: %w", err)
	}

	return string(text), nil
}

// Load reads the text of a .txt or .pdf resume. PDFs go through extractor.
func Load(ctx context.Context, path string, extractor Extractor) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".txt" && ext != ".pdf" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read resume: %w", err)
	}

	if ext == ".txt" {
		return string(data), nil
	}

	if extractor == nil {
		return "", errors.New("a text extractor is required for pdf resumes")
	}

	text, err := extractor.Extract(ctx, data, "application/pdf")
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	return text, nil
}

// Options tune how a resume is chunked and queried.
type Options struct {
	ChunkSize    int
	ChunkOverlap int
	TopK         int
}

// Build loads, splits and indexes the resume at path.
func Build(ctx context.Context, path string, extractor Extractor, embedder ai.Embedder, opts Options) (*Index, error) {
	text, err := Load(ctx, path, extractor)
	if err != nil {
		return nil, err
	}

	chunks := Split(text, opts.ChunkSize, opts.ChunkOverlap)
	if len(chunks) == 0 {
		return nil, errors.New("resume has no text")
	}

	return NewIndex(ctx, embedder, chunks, opts.TopK)
}
