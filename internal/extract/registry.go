// Package extract converts raw document bytes into text, dispatching on media
// type through a strategy registry with an OCR fallback for scanned content.
package extract

import (
	"context"
	"path/filepath"
	"strings"

	"docquiz/internal/domain"
	"docquiz/internal/logger"

	"go.uber.org/zap"
)

// Kind is the canonical media kind a strategy is registered under.
type Kind string

const (
	KindPDF   Kind = "pdf"
	KindImage Kind = "image"
	KindText  Kind = "text"
	KindWord  Kind = "word"
)

// Strategy extracts text from one document of its registered kind.
type Strategy interface {
	Extract(ctx context.Context, doc domain.SourceDocument) (domain.ExtractedSegment, error)
}

// Classify resolves a document to a canonical kind from its declared media
// type, filename extension, and a magic-byte sniff. The second return is false
// for unknown kinds.
func Classify(name, mediaType string, data []byte) (Kind, bool) {
	m := strings.ToLower(strings.TrimSpace(mediaType))
	if i := strings.Index(m, ";"); i != -1 {
		m = strings.TrimSpace(m[:i])
	}
	ext := strings.ToLower(filepath.Ext(name))

	switch {
	case m == "application/pdf" || ext == ".pdf" || isPDFHeader(data):
		return KindPDF, true
	case strings.HasPrefix(m, "image/") || ext == ".png" || ext == ".jpg" || ext == ".jpeg" || ext == ".webp":
		return KindImage, true
	case strings.Contains(m, "wordprocessingml") || m == "application/msword" || ext == ".docx" || ext == ".doc":
		return KindWord, true
	case strings.HasPrefix(m, "text/") || m == "application/json" || m == "application/xml" ||
		ext == ".txt" || ext == ".md" || ext == ".csv" || ext == ".html" || ext == ".htm":
		return KindText, true
	}
	return "", false
}

func isPDFHeader(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

// Registry maps media kinds to extraction strategies. It is populated once at
// startup and read-only afterwards.
type Registry struct {
	strategies map[Kind]Strategy
}

func NewRegistry() *Registry {
	return &Registry{strategies: make(map[Kind]Strategy)}
}

// Register binds a strategy to a kind, replacing any previous binding.
func (r *Registry) Register(kind Kind, s Strategy) {
	r.strategies[kind] = s
}

// Extract classifies the document and runs the matching strategy. An unknown
// or unregistered media type fails with UnsupportedFormat before any
// extraction work is attempted.
func (r *Registry) Extract(ctx context.Context, doc domain.SourceDocument) (domain.ExtractedSegment, error) {
	kind, ok := Classify(doc.Name, doc.MediaType, doc.Data)
	if !ok {
		return domain.ExtractedSegment{}, domain.NewUnsupportedFormatError(doc.MediaType)
	}
	strategy, ok := r.strategies[kind]
	if !ok {
		return domain.ExtractedSegment{}, domain.NewUnsupportedFormatError(doc.MediaType)
	}

	seg, err := strategy.Extract(ctx, doc)
	if err != nil {
		return domain.ExtractedSegment{}, err
	}

	logger.Get().Debug("Extracted document text",
		zap.String("name", doc.Name),
		zap.String("kind", string(kind)),
		zap.String("method", string(seg.Method)),
		zap.Int("chars", len(seg.Text)),
	)
	return seg, nil
}
