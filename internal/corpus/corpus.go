// Package corpus normalizes extracted text and builds the combined corpus
// handed to the prompt builder.
package corpus

import (
	"fmt"
	"strings"

	"docquiz/internal/domain"
)

// Normalize collapses runs of whitespace and newlines to single spaces, trims,
// and sanitizes invalid UTF-8. It is idempotent: normalizing an already
// normalized segment yields the same text.
func Normalize(seg domain.ExtractedSegment) domain.ExtractedSegment {
	seg.Text = collapseWhitespace(sanitizeUTF8(seg.Text))
	return seg
}

func collapseWhitespace(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}

func sanitizeUTF8(s string) string {
	return strings.ToValidUTF8(s, " ")
}

// Label renders the provenance prefix for one segment, identifying its source
// index and extraction kind.
func Label(seg domain.ExtractedSegment) string {
	if seg.Method == domain.MethodOCR {
		return fmt.Sprintf("[document %d, OCR-derived]", seg.Index+1)
	}
	return fmt.Sprintf("[document %d]", seg.Index+1)
}

// Build concatenates normalized segments, in upload order, into one corpus.
// Each non-empty segment is prefixed with its provenance label. Zero segments,
// or segments with no text at all, produce the explicit empty-corpus marker
// (Corpus.Empty() == true) that the prompt builder special-cases.
func Build(segments []domain.ExtractedSegment) domain.Corpus {
	var b strings.Builder
	kept := make([]domain.ExtractedSegment, 0, len(segments))
	for _, seg := range segments {
		seg = Normalize(seg)
		if seg.Text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(Label(seg))
		b.WriteString(" ")
		b.WriteString(seg.Text)
		kept = append(kept, seg)
	}
	return domain.Corpus{Segments: kept, Text: b.String()}
}
