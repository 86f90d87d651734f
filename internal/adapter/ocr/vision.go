// Package ocr recognizes text in images and scanned PDFs through the Google
// Cloud Vision API.
package ocr

import (
	"context"
	"fmt"
	"strings"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"

	"docquiz/internal/config"
	"docquiz/internal/domain"
	"docquiz/internal/logger"

	"go.uber.org/zap"
)

const recognizeTimeout = 60 * time.Second

// visionRecognizer is a single-use OCR handle: one extraction call acquires
// it, runs one recognition, and releases it via Close.
type visionRecognizer struct {
	client      *vision.ImageAnnotatorClient
	maxPDFPages int
}

// NewFactory returns a RecognizerFactory producing fresh Vision clients. A
// client is scoped to one extraction call so a failed or leaked connection
// never outlives the request that created it.
func NewFactory(cfg config.OCRConfig) domain.RecognizerFactory {
	return func(ctx context.Context) (domain.Recognizer, error) {
		var opts []option.ClientOption
		if cfg.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
		}
		client, err := vision.NewImageAnnotatorClient(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("vision client: %w", err)
		}
		return &visionRecognizer{client: client, maxPDFPages: cfg.MaxPDFPages}, nil
	}
}

func (r *visionRecognizer) Close() error {
	return r.client.Close()
}

func (r *visionRecognizer) Recognize(ctx context.Context, data []byte, mediaType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, recognizeTimeout)
	defer cancel()

	if mediaType == "application/pdf" {
		return r.recognizePDF(ctx, data)
	}
	return r.recognizeImage(ctx, data)
}

func (r *visionRecognizer) recognizeImage(ctx context.Context, data []byte) (string, error) {
	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{{
			Image: &visionpb.Image{Content: data},
			Features: []*visionpb.Feature{
				{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
			},
		}},
	}

	resp, err := r.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return "", fmt.Errorf("vision BatchAnnotateImages: %w", err)
	}
	if len(resp.GetResponses()) == 0 {
		return "", nil
	}

	r0 := resp.GetResponses()[0]
	if r0.GetError() != nil && r0.GetError().GetMessage() != "" {
		return "", fmt.Errorf("vision annotate error: %s", r0.GetError().GetMessage())
	}
	return r0.GetFullTextAnnotation().GetText(), nil
}

// recognizePDF OCRs a scanned PDF page by page, in-memory, without a GCS
// round trip. The synchronous API caps the page range, so long documents are
// truncated to the first maxPDFPages pages.
func (r *visionRecognizer) recognizePDF(ctx context.Context, data []byte) (string, error) {
	pages := make([]int32, 0, r.maxPDFPages)
	for p := 1; p <= r.maxPDFPages; p++ {
		pages = append(pages, int32(p))
	}

	req := &visionpb.BatchAnnotateFilesRequest{
		Requests: []*visionpb.AnnotateFileRequest{{
			InputConfig: &visionpb.InputConfig{
				Content:  data,
				MimeType: "application/pdf",
			},
			Features: []*visionpb.Feature{
				{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
			},
			Pages: pages,
		}},
	}

	resp, err := r.client.BatchAnnotateFiles(ctx, req)
	if err != nil {
		return "", fmt.Errorf("vision BatchAnnotateFiles: %w", err)
	}
	if len(resp.GetResponses()) == 0 {
		return "", nil
	}

	fileResp := resp.GetResponses()[0]
	if fileResp.GetError() != nil && fileResp.GetError().GetMessage() != "" {
		return "", fmt.Errorf("vision annotate error: %s", fileResp.GetError().GetMessage())
	}

	var texts []string
	for _, pageResp := range fileResp.GetResponses() {
		if pageResp.GetError() != nil && pageResp.GetError().GetMessage() != "" {
			logger.Get().Warn("Vision page annotation failed",
				zap.String("error", pageResp.GetError().GetMessage()))
			continue
		}
		if t := pageResp.GetFullTextAnnotation().GetText(); strings.TrimSpace(t) != "" {
			texts = append(texts, t)
		}
	}
	return strings.Join(texts, "\n"), nil
}
