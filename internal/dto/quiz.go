// Package dto defines the wire shapes exchanged with clients.
package dto

import "docquiz/internal/domain"

// QuestionResponse is one quiz item as serialized to the client.
type QuestionResponse struct {
	Question      string `json:"question"`
	Difficulty    string `json:"difficulty"`
	CorrectAnswer string `json:"correctAnswer"`
}

// QuizData is the payload of a successful upload response.
type QuizData struct {
	Preview   string             `json:"preview"`
	Questions []QuestionResponse `json:"questions"`
}

// UploadResponse wraps the quiz payload in the data envelope.
type UploadResponse struct {
	Data QuizData `json:"data"`
}

func NewUploadResponse(result *domain.QuizResult) UploadResponse {
	questions := make([]QuestionResponse, 0, len(result.Questions))
	for _, q := range result.Questions {
		questions = append(questions, QuestionResponse{
			Question:      q.Question,
			Difficulty:    q.Difficulty,
			CorrectAnswer: q.CorrectAnswer,
		})
	}
	return UploadResponse{Data: QuizData{
		Preview:   result.Preview,
		Questions: questions,
	}}
}

// ValidateAnswerRequest is the grading request body.
type ValidateAnswerRequest struct {
	Question      string `json:"question"`
	CorrectAnswer string `json:"correctAnswer"`
	UserAnswer    string `json:"userAnswer"`
}

// ValidateAnswerResponse is the grading verdict returned to the client.
type ValidateAnswerResponse struct {
	Result      string `json:"result"`
	Explanation string `json:"explanation"`
}

func NewValidateAnswerResponse(outcome *domain.ValidationOutcome) ValidateAnswerResponse {
	result := "Incorrect"
	if outcome.Correct {
		result = "Correct"
	}
	return ValidateAnswerResponse{
		Result:      result,
		Explanation: outcome.Explanation,
	}
}

// ErrorResponse is the error envelope: status is "fail" for client faults and
// "error" for server faults.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
