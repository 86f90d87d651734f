package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"docquiz/internal/domain"
	"docquiz/internal/dto"
	"docquiz/internal/middleware"
	"docquiz/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubService returns canned results and records the inputs it was given.
type stubService struct {
	result  *domain.QuizResult
	outcome *domain.ValidationOutcome
	err     error

	gotDocs []domain.SourceDocument
	gotSpec domain.QuizSpec
}

func (s *stubService) GenerateQuiz(ctx context.Context, docs []domain.SourceDocument, spec domain.QuizSpec) (*domain.QuizResult, error) {
	s.gotDocs = docs
	s.gotSpec = spec
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubService) GradeAnswer(ctx context.Context, attempt domain.AnswerAttempt) (*domain.ValidationOutcome, error) {
	if err := attempt.Validate(); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.outcome, nil
}

func newTestApp(svc domain.QuizService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	h := NewQuizHandler(svc, validation.NewValidator(), time.Minute)
	app.Post("/upload", h.Upload)
	app.Post("/validate-answer", h.ValidateAnswer)
	app.Get("/healthz", h.Health)
	return app
}

func multipartUpload(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for name, content := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="files"; filename="`+name+`"`)
		header.Set("Content-Type", "text/plain")
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	var envelope dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope
}

func TestUploadSuccess(t *testing.T) {
	svc := &stubService{result: &domain.QuizResult{
		ID:      "01J0000000000000000000TEST",
		Preview: "A short preview.",
		Questions: []domain.GeneratedQuestion{
			{Question: "q1", Difficulty: "easy", CorrectAnswer: "a1"},
		},
	}}
	app := newTestApp(svc)

	body, contentType := multipartUpload(t, map[string]string{"notes.txt": "some content"})
	req := httptest.NewRequest(http.MethodPost, "/upload?numQuestions=1&difficulty=easy", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var payload dto.UploadResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "A short preview.", payload.Data.Preview)
	require.Len(t, payload.Data.Questions, 1)
	assert.Equal(t, "a1", payload.Data.Questions[0].CorrectAnswer)

	require.Len(t, svc.gotDocs, 1)
	assert.Equal(t, "notes.txt", svc.gotDocs[0].Name)
	assert.Equal(t, "text/plain", svc.gotDocs[0].MediaType)
	assert.Equal(t, 1, svc.gotSpec.NumQuestions)
	assert.Equal(t, domain.DifficultyEasy, svc.gotSpec.Difficulty)
}

func TestUploadMissingParamsFailsEarly(t *testing.T) {
	svc := &stubService{}
	app := newTestApp(svc)

	body, contentType := multipartUpload(t, map[string]string{"notes.txt": "content"})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	envelope := decodeError(t, resp)
	assert.Equal(t, "fail", envelope.Status)
	assert.Contains(t, envelope.Message, "numQuestions")
	assert.Nil(t, svc.gotDocs, "pipeline must not run with invalid parameters")
}

func TestUploadWithoutFiles(t *testing.T) {
	app := newTestApp(&stubService{})

	body, contentType := multipartUpload(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/upload?numQuestions=5&difficulty=easy", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "fail", decodeError(t, resp).Status)
}

func TestUploadErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantWord   string
	}{
		{"unsupported format", domain.NewUnsupportedFormatError("application/zip"), http.StatusUnsupportedMediaType, "fail"},
		{"extraction failed", domain.NewExtractionFailedError("scan.pdf", io.ErrUnexpectedEOF), http.StatusUnprocessableEntity, "fail"},
		{"generation unavailable", domain.NewGenerationUnavailableError(io.EOF), http.StatusServiceUnavailable, "error"},
		{"generation exhausted", domain.NewGenerationExhaustedError(5, io.EOF), http.StatusBadGateway, "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&stubService{err: tt.err})

			body, contentType := multipartUpload(t, map[string]string{"doc.txt": "content"})
			req := httptest.NewRequest(http.MethodPost, "/upload?numQuestions=5&difficulty=easy", body)
			req.Header.Set("Content-Type", contentType)

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantWord, decodeError(t, resp).Status)
		})
	}
}

func TestValidateAnswerSuccess(t *testing.T) {
	app := newTestApp(&stubService{outcome: &domain.ValidationOutcome{
		Correct:     true,
		Explanation: "Same city.",
	}})

	reqBody, _ := json.Marshal(dto.ValidateAnswerRequest{
		Question:      "What is the capital of France?",
		CorrectAnswer: "Paris",
		UserAnswer:    "paris",
	})
	req := httptest.NewRequest(http.MethodPost, "/validate-answer", bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var payload dto.ValidateAnswerResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "Correct", payload.Result)
	assert.Equal(t, "Same city.", payload.Explanation)
}

func TestValidateAnswerMissingField(t *testing.T) {
	app := newTestApp(&stubService{})

	reqBody, _ := json.Marshal(dto.ValidateAnswerRequest{
		Question:      "q",
		CorrectAnswer: "a",
	})
	req := httptest.NewRequest(http.MethodPost, "/validate-answer", bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	envelope := decodeError(t, resp)
	assert.Equal(t, "fail", envelope.Status)
	assert.Contains(t, envelope.Message, "userAnswer")
}

func TestHealth(t *testing.T) {
	app := newTestApp(&stubService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
