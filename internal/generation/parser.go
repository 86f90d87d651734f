package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"docquiz/internal/domain"
)

type quizPayload struct {
	Preview   string
	Questions []questionPayload
}

type questionPayload struct {
	Question      string `json:"question"`
	Difficulty    string `json:"difficulty"`
	CorrectAnswer string `json:"correctAnswer"`
}

// ExtractJSON strips markdown code fences and surrounding chatter from a raw
// model response, returning the outermost JSON object. Backends occasionally
// wrap their output in ```json fences or prefix it with prose despite the
// prompt's instructions.
func ExtractJSON(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return s[start : end+1], nil
}

// parseQuizResponse validates one raw generation response against the quiz
// schema. Any missing field, non-string value, or difficulty tag outside the
// requested set makes the whole response invalid; the caller retries, never
// repairs. Both top-level keys must be present: an empty questions array is
// valid (the empty-corpus case), an absent one is not.
func parseQuizResponse(raw string, spec domain.QuizSpec) (quizPayload, error) {
	body, err := ExtractJSON(raw)
	if err != nil {
		return quizPayload{}, err
	}

	var wire struct {
		Preview   *string            `json:"preview"`
		Questions *[]questionPayload `json:"questions"`
	}
	if err := json.Unmarshal([]byte(body), &wire); err != nil {
		return quizPayload{}, fmt.Errorf("failed to unmarshal quiz response: %w", err)
	}
	if wire.Preview == nil {
		return quizPayload{}, fmt.Errorf("missing preview field")
	}
	if wire.Questions == nil {
		return quizPayload{}, fmt.Errorf("missing questions field")
	}

	payload := quizPayload{Preview: *wire.Preview, Questions: *wire.Questions}
	for i, q := range payload.Questions {
		if strings.TrimSpace(q.Question) == "" {
			return quizPayload{}, fmt.Errorf("question %d: missing question text", i+1)
		}
		if strings.TrimSpace(q.CorrectAnswer) == "" {
			return quizPayload{}, fmt.Errorf("question %d: missing correct answer", i+1)
		}
		if !spec.Difficulty.Allows(q.Difficulty) {
			return quizPayload{}, fmt.Errorf("question %d: difficulty %q not allowed for requested %q", i+1, q.Difficulty, spec.Difficulty)
		}
	}
	return payload, nil
}
