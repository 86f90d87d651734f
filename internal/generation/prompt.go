package generation

import (
	"fmt"
	"strings"

	"docquiz/internal/domain"
)

// BuildQuizPrompt renders the generation request for one quiz. The output is
// deterministic for a given corpus and spec: retry attempts reuse it verbatim.
func BuildQuizPrompt(corpus domain.Corpus, spec domain.QuizSpec) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a quiz generator. Based on the document content below, generate exactly %d quiz questions.\n\n", spec.NumQuestions)

	if spec.Difficulty == domain.DifficultyMixed {
		b.WriteString("Vary the difficulty across the questions: each question must be tagged \"easy\", \"medium\" or \"hard\".\n\n")
	} else {
		fmt.Fprintf(&b, "Every question must be at %q difficulty and tagged accordingly.\n\n", string(spec.Difficulty))
	}

	b.WriteString("Document content:\n")
	b.WriteString(corpus.Text)
	b.WriteString("\n\n")

	b.WriteString(`Respond with a JSON object in the following structure:
{
  "preview": "A short summary of the document content",
  "questions": [
    {
      "question": "The question text",
      "difficulty": "easy", "medium" or "hard",
      "correctAnswer": "The correct answer to the question"
    }
  ]
}

If the document content is empty, return an empty "questions" array.
RETURN ONLY THE JSON OBJECT, NO ADDITIONAL TEXT.
`)

	return b.String()
}
