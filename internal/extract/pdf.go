package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"docquiz/internal/domain"
	"docquiz/internal/logger"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// PDFStrategy extracts the text layer of a PDF and falls back to OCR over the
// same bytes when the text layer is empty (the scanned-PDF case).
type PDFStrategy struct {
	// Recognizers acquires a single-use OCR recognizer. Nil disables the
	// fallback, turning scanned PDFs into ExtractionFailed.
	Recognizers domain.RecognizerFactory

	// TextLayer extracts the native text layer; defaults to ledongthuc/pdf.
	TextLayer func(data []byte) (string, error)
}

func NewPDFStrategy(recognizers domain.RecognizerFactory) *PDFStrategy {
	return &PDFStrategy{Recognizers: recognizers, TextLayer: pdfPlainText}
}

func (s *PDFStrategy) Extract(ctx context.Context, doc domain.SourceDocument) (domain.ExtractedSegment, error) {
	textLayer := s.TextLayer
	if textLayer == nil {
		textLayer = pdfPlainText
	}

	text, err := textLayer(doc.Data)
	if err == nil && strings.TrimSpace(text) != "" {
		return domain.ExtractedSegment{
			Text:      text,
			MediaType: doc.MediaType,
			Method:    domain.MethodDirect,
			Index:     doc.Index,
		}, nil
	}
	if err != nil {
		logger.Get().Warn("PDF text layer extraction failed, trying OCR",
			zap.String("name", doc.Name), zap.Error(err))
	}

	if s.Recognizers == nil {
		return domain.ExtractedSegment{}, domain.NewExtractionFailedError(doc.Name, err)
	}

	rec, err := s.Recognizers(ctx)
	if err != nil {
		return domain.ExtractedSegment{}, domain.NewExtractionFailedError(doc.Name, err)
	}
	defer rec.Close()

	text, err = rec.Recognize(ctx, doc.Data, "application/pdf")
	if err != nil {
		return domain.ExtractedSegment{}, domain.NewExtractionFailedError(doc.Name, err)
	}
	if strings.TrimSpace(text) == "" {
		return domain.ExtractedSegment{}, domain.NewExtractionFailedError(doc.Name, fmt.Errorf("no text found in PDF"))
	}

	return domain.ExtractedSegment{
		Text:      text,
		MediaType: doc.MediaType,
		Method:    domain.MethodOCR,
		Index:     doc.Index,
	}, nil
}

// pdfPlainText reads the PDF text layer from an in-memory document.
func pdfPlainText(data []byte) (text string, err error) {
	// The parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parse panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var buf bytes.Buffer
	b, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract plain text: %w", err)
	}
	if _, err := buf.ReadFrom(b); err != nil {
		return "", fmt.Errorf("failed to read text: %w", err)
	}
	return buf.String(), nil
}
