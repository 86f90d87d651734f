package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"docquiz/internal/domain"
)

var htmlTagRe = regexp.MustCompile(`(?s)<[^>]*>`)

// TextStrategy decodes plain-text family documents. HTML-family content gets
// its tags stripped first.
type TextStrategy struct{}

func NewTextStrategy() *TextStrategy {
	return &TextStrategy{}
}

func (s *TextStrategy) Extract(ctx context.Context, doc domain.SourceDocument) (domain.ExtractedSegment, error) {
	text := string(doc.Data)
	if !utf8.ValidString(text) {
		return domain.ExtractedSegment{}, domain.NewExtractionFailedError(doc.Name, fmt.Errorf("malformed text encoding"))
	}

	m := strings.ToLower(doc.MediaType)
	if strings.Contains(m, "html") || strings.HasSuffix(strings.ToLower(doc.Name), ".html") || strings.HasSuffix(strings.ToLower(doc.Name), ".htm") {
		text = htmlTagRe.ReplaceAllString(text, " ")
	}

	return domain.ExtractedSegment{
		Text:      text,
		MediaType: doc.MediaType,
		Method:    domain.MethodDirect,
		Index:     doc.Index,
	}, nil
}
