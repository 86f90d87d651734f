package generation

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"docquiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedGenerator returns its responses in order, repeating the last one.
type scriptedGenerator struct {
	responses []string
	err       error
	calls     int
}

func (s *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	i := s.calls - 1
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	return s.responses[i], nil
}

const validResponse = `{
  "preview": "A document about European capitals.",
  "questions": [
    {"question": "What is the capital of France?", "difficulty": "easy", "correctAnswer": "Paris"}
  ]
}`

func easySpec(n int) domain.QuizSpec {
	return domain.QuizSpec{NumQuestions: n, Difficulty: domain.DifficultyEasy}
}

func TestPromptIsDeterministic(t *testing.T) {
	corpus := domain.Corpus{Text: "[document 1] some content"}
	spec := easySpec(7)

	first := BuildQuizPrompt(corpus, spec)
	second := BuildQuizPrompt(corpus, spec)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "exactly 7 quiz questions")
	assert.Contains(t, first, `"easy" difficulty`)
	assert.Contains(t, first, `"correctAnswer"`)
	assert.Contains(t, first, `return an empty "questions" array`)
	assert.Contains(t, first, "[document 1] some content")
}

func TestMixedPromptAllowsAnyDifficulty(t *testing.T) {
	prompt := BuildQuizPrompt(domain.Corpus{Text: "content"}, domain.QuizSpec{NumQuestions: 3, Difficulty: domain.DifficultyMixed})
	assert.Contains(t, prompt, "Vary the difficulty")
}

func TestExtractJSONStripsCodeFences(t *testing.T) {
	fenced := "```json\n{\"preview\": \"p\", \"questions\": []}\n```"
	body, err := ExtractJSON(fenced)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(body, "{"))
	assert.True(t, strings.HasSuffix(body, "}"))
}

func TestExtractJSONIgnoresSurroundingProse(t *testing.T) {
	body, err := ExtractJSON("Sure! Here is your quiz: {\"preview\": \"p\", \"questions\": []} Hope that helps.")
	require.NoError(t, err)
	assert.Equal(t, `{"preview": "p", "questions": []}`, body)
}

func TestExtractJSONFailsWithoutObject(t *testing.T) {
	_, err := ExtractJSON("I cannot generate a quiz from this.")
	assert.Error(t, err)
}

func TestSucceedsAfterMalformedAttempts(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"not json", "{broken", validResponse}}
	o := NewOrchestrator(gen, 5, 0)

	result, err := o.GenerateQuiz(context.Background(), domain.Corpus{Text: "content"}, easySpec(1))

	require.NoError(t, err)
	assert.Equal(t, 3, gen.calls)
	assert.Equal(t, "A document about European capitals.", result.Preview)
	require.Len(t, result.Questions, 1)
	assert.Equal(t, "Paris", result.Questions[0].CorrectAnswer)
	assert.NotEmpty(t, result.ID)
}

func TestExhaustsAfterExactlyFiveAttempts(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"never json"}}
	o := NewOrchestrator(gen, 5, 0)

	_, err := o.GenerateQuiz(context.Background(), domain.Corpus{Text: "content"}, easySpec(1))

	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrGenerationExhausted))
	assert.Equal(t, 5, gen.calls)
}

func TestBackendErrorIsTerminal(t *testing.T) {
	gen := &scriptedGenerator{err: fmt.Errorf("connection refused")}
	o := NewOrchestrator(gen, 5, 0)

	_, err := o.GenerateQuiz(context.Background(), domain.Corpus{Text: "content"}, easySpec(1))

	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrGenerationDown))
	assert.Equal(t, 1, gen.calls, "backend failures must not be retried")
}

func TestDifficultyMismatchIsRetried(t *testing.T) {
	wrongTag := `{"preview": "p", "questions": [{"question": "q", "difficulty": "hard", "correctAnswer": "a"}]}`
	gen := &scriptedGenerator{responses: []string{wrongTag, validResponse}}
	o := NewOrchestrator(gen, 5, 0)

	result, err := o.GenerateQuiz(context.Background(), domain.Corpus{Text: "content"}, easySpec(1))

	require.NoError(t, err)
	assert.Equal(t, 2, gen.calls)
	assert.Equal(t, "easy", result.Questions[0].Difficulty)
}

func TestDifficultyTagIsCanonicalized(t *testing.T) {
	resp := `{"preview": "p", "questions": [{"question": "q", "difficulty": " Easy ", "correctAnswer": "a"}]}`
	gen := &scriptedGenerator{responses: []string{resp}}
	o := NewOrchestrator(gen, 5, 0)

	result, err := o.GenerateQuiz(context.Background(), domain.Corpus{Text: "content"}, easySpec(1))

	require.NoError(t, err)
	require.Len(t, result.Questions, 1)
	assert.Equal(t, "easy", result.Questions[0].Difficulty)
}

func TestSurplusQuestionsAreTruncated(t *testing.T) {
	var qs []string
	for i := 0; i < 4; i++ {
		qs = append(qs, fmt.Sprintf(`{"question": "q%d", "difficulty": "easy", "correctAnswer": "a%d"}`, i, i))
	}
	resp := fmt.Sprintf(`{"preview": "p", "questions": [%s]}`, strings.Join(qs, ","))
	gen := &scriptedGenerator{responses: []string{resp}}
	o := NewOrchestrator(gen, 5, 0)

	result, err := o.GenerateQuiz(context.Background(), domain.Corpus{Text: "content"}, easySpec(2))

	require.NoError(t, err)
	assert.Len(t, result.Questions, 2)
	assert.Equal(t, "q0", result.Questions[0].Question)
	assert.Equal(t, "q1", result.Questions[1].Question)
}

func TestEmptyQuestionsArrayIsValid(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{`{"preview": "No readable content was provided.", "questions": []}`}}
	o := NewOrchestrator(gen, 5, 0)

	result, err := o.GenerateQuiz(context.Background(), domain.Corpus{}, easySpec(5))

	require.NoError(t, err)
	assert.Empty(t, result.Questions)
	assert.Equal(t, "No readable content was provided.", result.Preview)
}

func TestAbsentTopLevelFieldsInvalidateResponse(t *testing.T) {
	for _, raw := range []string{
		`{}`,
		`{"questions": []}`,
		`{"preview": "p"}`,
	} {
		_, err := parseQuizResponse(raw, easySpec(5))
		assert.Error(t, err, raw)
	}

	// Both keys present with zero questions stays valid.
	payload, err := parseQuizResponse(`{"preview": "p", "questions": []}`, easySpec(5))
	require.NoError(t, err)
	assert.Empty(t, payload.Questions)
}

func TestAbsentFieldsAreRetried(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{`{}`, validResponse}}
	o := NewOrchestrator(gen, 5, 0)

	result, err := o.GenerateQuiz(context.Background(), domain.Corpus{Text: "content"}, easySpec(1))

	require.NoError(t, err)
	assert.Equal(t, 2, gen.calls)
	require.Len(t, result.Questions, 1)
}

func TestMissingFieldInvalidatesResponse(t *testing.T) {
	noAnswer := `{"preview": "p", "questions": [{"question": "q", "difficulty": "easy", "correctAnswer": ""}]}`
	_, err := parseQuizResponse(noAnswer, easySpec(1))
	assert.Error(t, err)

	noQuestion := `{"preview": "p", "questions": [{"question": "  ", "difficulty": "easy", "correctAnswer": "a"}]}`
	_, err = parseQuizResponse(noQuestion, easySpec(1))
	assert.Error(t, err)
}

func TestCancelledContextStopsRetrying(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := &scriptedGenerator{responses: []string{validResponse}}
	o := NewOrchestrator(gen, 5, time.Second)

	_, err := o.GenerateQuiz(ctx, domain.Corpus{Text: "content"}, easySpec(1))

	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrGenerationDown))
	assert.Zero(t, gen.calls)
}
