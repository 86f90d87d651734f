package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"docquiz/internal/domain"
)

// supportedImageSubtypes is the up-front whitelist checked before any OCR work.
var supportedImageSubtypes = map[string]bool{
	"png":  true,
	"jpeg": true,
	"jpg":  true,
	"webp": true,
	"gif":  true,
	"bmp":  true,
	"tiff": true,
}

// ImageStrategy runs OCR over an uploaded image. The recognizer is single-use:
// acquired, used, and released per call, including on error paths.
type ImageStrategy struct {
	Recognizers domain.RecognizerFactory
}

func NewImageStrategy(recognizers domain.RecognizerFactory) *ImageStrategy {
	return &ImageStrategy{Recognizers: recognizers}
}

func (s *ImageStrategy) Extract(ctx context.Context, doc domain.SourceDocument) (domain.ExtractedSegment, error) {
	// An upload may arrive without a declared media type; the extension is
	// what classified it as an image, so it decides the subtype too.
	subtype := imageSubtype(doc.MediaType)
	if subtype == "" {
		subtype = strings.TrimPrefix(strings.ToLower(filepath.Ext(doc.Name)), ".")
	}
	if !supportedImageSubtypes[subtype] {
		label := doc.MediaType
		if label == "" {
			label = doc.Name
		}
		return domain.ExtractedSegment{}, domain.NewUnsupportedFormatError(label)
	}

	if s.Recognizers == nil {
		return domain.ExtractedSegment{}, domain.NewExtractionFailedError(doc.Name, fmt.Errorf("no OCR recognizer configured"))
	}

	rec, err := s.Recognizers(ctx)
	if err != nil {
		return domain.ExtractedSegment{}, domain.NewExtractionFailedError(doc.Name, err)
	}
	defer rec.Close()

	text, err := rec.Recognize(ctx, doc.Data, doc.MediaType)
	if err != nil {
		return domain.ExtractedSegment{}, domain.NewExtractionFailedError(doc.Name, err)
	}
	if strings.TrimSpace(text) == "" {
		return domain.ExtractedSegment{}, domain.NewExtractionFailedError(doc.Name, fmt.Errorf("no text found in the image"))
	}

	return domain.ExtractedSegment{
		Text:      text,
		MediaType: doc.MediaType,
		Method:    domain.MethodOCR,
		Index:     doc.Index,
	}, nil
}

func imageSubtype(mediaType string) string {
	m := strings.ToLower(strings.TrimSpace(mediaType))
	if i := strings.Index(m, ";"); i != -1 {
		m = strings.TrimSpace(m[:i])
	}
	return strings.TrimPrefix(m, "image/")
}
