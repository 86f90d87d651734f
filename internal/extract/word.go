package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"docquiz/internal/domain"
)

// WordStrategy extracts raw text from word-processing documents, discarding
// formatting. A .docx is a zip archive; the text lives in word/document.xml
// as runs of <w:t> elements, with <w:p> marking paragraph boundaries. Legacy
// binary .doc files are not a zip archive and fail extraction.
type WordStrategy struct{}

func NewWordStrategy() *WordStrategy {
	return &WordStrategy{}
}

func (s *WordStrategy) Extract(ctx context.Context, doc domain.SourceDocument) (domain.ExtractedSegment, error) {
	text, err := docxText(doc.Data)
	if err != nil {
		return domain.ExtractedSegment{}, domain.NewExtractionFailedError(doc.Name, err)
	}
	if strings.TrimSpace(text) == "" {
		return domain.ExtractedSegment{}, domain.NewExtractionFailedError(doc.Name, fmt.Errorf("document contains no text"))
	}

	return domain.ExtractedSegment{
		Text:      text,
		MediaType: doc.MediaType,
		Method:    domain.MethodDirect,
		Index:     doc.Index,
	}, nil
}

func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open document archive: %w", err)
	}

	var docXML io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docXML, err = f.Open()
			if err != nil {
				return "", fmt.Errorf("failed to open word/document.xml: %w", err)
			}
			break
		}
	}
	if docXML == nil {
		return "", fmt.Errorf("word/document.xml not found")
	}
	defer docXML.Close()

	var b strings.Builder
	decoder := xml.NewDecoder(docXML)
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse document xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}
