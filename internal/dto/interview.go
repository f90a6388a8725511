package dto

import (
	"bytes"
	"encoding/json"
	"interview-coach/internal/domain"
)

// FlexString accepts any JSON scalar and keeps its text form.
// Strings are unquoted, numbers and booleans keep their literal text, null is empty.
// Arrays and objects keep their raw JSON.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*s = ""
	case data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
	default:
		*s = FlexString(data)
	}
	return nil
}

// GenerateQuestionsRequest represents the body of POST /generate_questions
// @Description Every field is optional. Absent or null fields fall back to a default
type GenerateQuestionsRequest struct {
	JobRole    *FlexString `json:"job_role" swaggertype:"string" example:"backend engineer"`
	Experience *FlexString `json:"experience" swaggertype:"string" example:"3"`
	Skills     *FlexString `json:"skills" swaggertype:"string" example:"go, postgres, kubernetes"`
}

// ToDomain converts the request into a domain.QuestionRequest. Only absent or
// null fields take the default; an explicit "" is kept.
func (r GenerateQuestionsRequest) ToDomain() domain.QuestionRequest {
	return domain.QuestionRequest{
		JobRole:    r.JobRole.or(domain.DefaultJobRole),
		Experience: r.Experience.or(domain.DefaultExperience),
		Skills:     r.Skills.or(domain.DefaultSkills),
	}
}

func (s *FlexString) or(def string) string {
	if s == nil {
		return def
	}
	return string(*s)
}

// QuestionsResponse represents the generated questions
type QuestionsResponse struct {
	Questions []string `json:"questions"`
}

// AnswerItem is one question/answer pair to evaluate
type AnswerItem struct {
	Question json.RawMessage `json:"question" swaggertype:"string" example:"What is a goroutine?"`
	Answer   json.RawMessage `json:"answer" swaggertype:"string" example:"A lightweight thread managed by the Go runtime."`
}

// ToDomain converts the pair. Falsy values (null, false, 0, "", [] and {})
// count as missing, anything else keeps its FlexString text.
func (a AnswerItem) ToDomain() domain.EvaluationItem {
	return domain.EvaluationItem{
		Question: truthyText(a.Question),
		Answer:   truthyText(a.Answer),
	}
}

func truthyText(raw json.RawMessage) string {
	if len(raw) == 0 || isFalsy(raw) {
		return ""
	}
	var s FlexString
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return string(s)
}

func isFalsy(raw json.RawMessage) bool {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	case float64:
		return t == 0
	case []interface{}:
		return len(t) == 0
	case map[string]interface{}:
		return len(t) == 0
	}
	return false
}

// EvaluateAnswersRequest represents the body of POST /evaluate_answers.
// Answers is kept raw so its shape can be checked before decoding.
type EvaluateAnswersRequest struct {
	Answers json.RawMessage `json:"answers" swaggertype:"array,object"`
}

// EvaluateAnswersResponse represents the evaluation batch result
// @Description evaluations[i] belongs to answers[i]
type EvaluateAnswersResponse struct {
	Status      string                       `json:"status" example:"complete"`
	Evaluations []string                     `json:"evaluations"`
	FailedCount int                          `json:"failed_count" example:"0"`
	Details     []*domain.EvaluationSections `json:"details,omitempty"`
}

// NewEvaluateAnswersResponse maps a domain batch onto the wire format.
func NewEvaluateAnswersResponse(batch *domain.EvaluationBatch) EvaluateAnswersResponse {
	evaluations := batch.Evaluations
	if evaluations == nil {
		evaluations = []string{}
	}
	return EvaluateAnswersResponse{
		Status:      batch.Status,
		Evaluations: evaluations,
		FailedCount: batch.FailedCount,
		Details:     batch.Details,
	}
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}

// EvaluationErrorResponse is the whole-request failure of /evaluate_answers
type EvaluationErrorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status" example:"error"`
}

// HealthResponse reports service readiness
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty"`
}
