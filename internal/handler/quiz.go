// Package handler wires HTTP requests to the quiz service.
package handler

import (
	"context"
	"io"
	"time"

	"docquiz/internal/domain"
	"docquiz/internal/dto"
	"docquiz/internal/logger"
	"docquiz/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service         domain.QuizService
	validator       *validation.Validator
	requestDeadline time.Duration
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service domain.QuizService, validator *validation.Validator, requestDeadline time.Duration) *QuizHandler {
	return &QuizHandler{
		service:         service,
		validator:       validator,
		requestDeadline: requestDeadline,
	}
}

func (h *QuizHandler) requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	if h.requestDeadline <= 0 {
		return c.UserContext(), func() {}
	}
	return context.WithTimeout(c.UserContext(), h.requestDeadline)
}

// Upload handles POST /upload: it reads the multipart files, runs the
// document-to-quiz pipeline, and returns the preview plus questions.
func (h *QuizHandler) Upload(c *fiber.Ctx) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	spec, err := h.validator.ValidateQuizParams(c.Query("numQuestions"), c.Query("difficulty"))
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return domain.NewMissingParametersError("multipart form with a files field is required")
	}
	files := form.File["files"]
	if len(files) == 0 {
		return domain.NewMissingParametersError("no files uploaded")
	}

	docs := make([]domain.SourceDocument, 0, len(files))
	for i, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return domain.NewInternalError("failed to open uploaded file", err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return domain.NewInternalError("failed to read uploaded file", err)
		}
		docs = append(docs, domain.SourceDocument{
			Name:      fh.Filename,
			MediaType: fh.Header.Get("Content-Type"),
			Data:      data,
			Index:     i,
		})
	}

	logger.Get().Info("Processing upload",
		zap.Int("files", len(docs)),
		zap.Int("num_questions", spec.NumQuestions),
		zap.String("difficulty", string(spec.Difficulty)),
	)

	result, err := h.service.GenerateQuiz(ctx, docs, spec)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUploadResponse(result))
}

// ValidateAnswer handles POST /validate-answer.
func (h *QuizHandler) ValidateAnswer(c *fiber.Ctx) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var req dto.ValidateAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewMissingParametersError("request body must be valid JSON")
	}

	outcome, err := h.service.GradeAnswer(ctx, domain.AnswerAttempt{
		Question:      req.Question,
		CorrectAnswer: req.CorrectAnswer,
		UserAnswer:    req.UserAnswer,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewValidateAnswerResponse(outcome))
}

// Health handles GET /healthz.
func (h *QuizHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
