package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"interview-coach/internal/domain"
	"interview-coach/internal/dto"
)

// Messages returned to the client for malformed evaluation batches.
// A batch that is not a list is rejected as invalid input; an element that is
// not an object fails the whole request.
const (
	MsgAnswersNotList  = "Answers should be a list"
	MsgAnswerNotObject = "Each answer should be an object"
)

// ErrBodyNotObject is returned when the request body is JSON but not an object.
var ErrBodyNotObject = errors.New("request body must be a JSON object")

// Validator decodes request bodies and checks their shape
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// DecodeQuestionRequest decodes the body of a question request. An empty body
// is treated as {}. Malformed JSON is returned as a plain error.
func (v *Validator) DecodeQuestionRequest(body []byte) (domain.QuestionRequest, error) {
	var req dto.GenerateQuestionsRequest
	if err := decodeObject(body, &req); err != nil {
		return domain.QuestionRequest{}, err
	}
	return req.ToDomain(), nil
}

// DecodeEvaluationRequest decodes the evaluation batch. An answers field that is
// not a list comes back as an INVALID_INPUT domain error. A non-object element
// is an INTERNAL_ERROR and malformed JSON is a plain error.
func (v *Validator) DecodeEvaluationRequest(body []byte) ([]domain.EvaluationItem, error) {
	var req dto.EvaluateAnswersRequest
	if err := decodeObject(body, &req); err != nil {
		return nil, err
	}

	// Absent means an empty batch; present-but-null is not a list.
	if len(req.Answers) == 0 {
		return []domain.EvaluationItem{}, nil
	}
	if firstByte(req.Answers) != '[' {
		return nil, domain.NewInvalidInputError(MsgAnswersNotList)
	}

	var rawItems []json.RawMessage
	if err := json.Unmarshal(req.Answers, &rawItems); err != nil {
		return nil, fmt.Errorf("failed to decode answers: %w", err)
	}

	items := make([]domain.EvaluationItem, 0, len(rawItems))
	for _, raw := range rawItems {
		if firstByte(raw) != '{' {
			return nil, domain.NewInternalError(MsgAnswerNotObject, nil)
		}
		var item dto.AnswerItem
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("failed to decode answer: %w", err)
		}
		items = append(items, item.ToDomain())
	}
	return items, nil
}

func decodeObject(body []byte, out interface{}) error {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}
	if body[0] != '{' {
		return ErrBodyNotObject
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode request body: %w", err)
	}
	return nil
}

func firstByte(raw json.RawMessage) byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	return raw[0]
}
