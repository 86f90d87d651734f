// Package service implements the core business operations behind the HTTP
// layer: the document-to-quiz pipeline and answer grading.
package service

import (
	"context"

	"docquiz/internal/corpus"
	"docquiz/internal/domain"
	"docquiz/internal/extract"
	"docquiz/internal/generation"
	"docquiz/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// extractConcurrency bounds parallel document extraction within one request.
const extractConcurrency = 4

type quizService struct {
	registry     *extract.Registry
	orchestrator *generation.Orchestrator
	grader       domain.AnswerGrader
}

func NewQuizService(registry *extract.Registry, orchestrator *generation.Orchestrator, grader domain.AnswerGrader) domain.QuizService {
	return &quizService{
		registry:     registry,
		orchestrator: orchestrator,
		grader:       grader,
	}
}

// GenerateQuiz extracts every document, builds the corpus, and drives the
// generation loop. Extraction runs in parallel but segment order follows
// upload order; any extraction failure aborts the whole request, never a
// partial quiz.
func (s *quizService) GenerateQuiz(ctx context.Context, docs []domain.SourceDocument, spec domain.QuizSpec) (*domain.QuizResult, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, domain.NewMissingParametersError("no files uploaded")
	}

	segments := make([]domain.ExtractedSegment, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(extractConcurrency)
	for i, doc := range docs {
		doc.Index = i
		g.Go(func() error {
			seg, err := s.registry.Extract(gctx, doc)
			if err != nil {
				return err
			}
			segments[i] = seg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	built := corpus.Build(segments)
	if built.Empty() {
		logger.Get().Info("Corpus is empty, expecting an empty question set",
			zap.Int("documents", len(docs)))
	}

	return s.orchestrator.GenerateQuiz(ctx, built, spec)
}

// GradeAnswer validates the attempt and delegates to the configured grading
// strategy.
func (s *quizService) GradeAnswer(ctx context.Context, attempt domain.AnswerAttempt) (*domain.ValidationOutcome, error) {
	if err := attempt.Validate(); err != nil {
		return nil, err
	}
	return s.grader.Grade(ctx, attempt)
}
