package domain

import "context"

// Defaults applied when a question request leaves a field out or sends null.
const (
	DefaultJobRole    = "software engineer"
	DefaultExperience = "fresher"
	DefaultSkills     = "python, c++, java, ai models"
)

// Sentinel evaluations substituted for items that could not be evaluated.
const (
	MissingQuestionOrAnswer = "Missing question or answer"
	EvaluationFailed        = "Evaluation failed for this question"
)

// Batch statuses.
const (
	StatusComplete = "complete"
	StatusPartial  = "partial"
)

// QuestionRequest holds the parameters interpolated into the question prompt.
type QuestionRequest struct {
	JobRole    string
	Experience string
	Skills     string
}

// DefaultQuestionRequest returns a request with every field set to its default.
func DefaultQuestionRequest() QuestionRequest {
	return QuestionRequest{
		JobRole:    DefaultJobRole,
		Experience: DefaultExperience,
		Skills:     DefaultSkills,
	}
}

// EvaluationItem is one question/answer pair of an evaluation batch.
type EvaluationItem struct {
	Question string
	Answer   string
}

// Complete reports whether both question and answer are present.
func (i EvaluationItem) Complete() bool {
	return i.Question != "" && i.Answer != ""
}

// EvaluationSections is the optional structured view of one evaluation text.
type EvaluationSections struct {
	Score        string   `json:"score"`
	Mistakes     []string `json:"mistakes"`
	HowToImprove []string `json:"how_to_improve"`
}

// EvaluationBatch is the aggregated outcome of an evaluation request.
// Evaluations[i] always corresponds to the i-th submitted item.
type EvaluationBatch struct {
	Status      string
	Evaluations []string
	FailedCount int
	// Details is only populated when section parsing is enabled.
	Details []*EvaluationSections
}

// TextGenerator is the port to the external generation API.
type TextGenerator interface {
	// Generate sends prompt to the model identified by modelID and returns the raw text.
	Generate(ctx context.Context, modelID string, prompt string) (string, error)
}
