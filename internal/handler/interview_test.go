package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"interview-coach/internal/adapter/llm"
	"interview-coach/internal/domain"
	"interview-coach/internal/dto"
	"interview-coach/internal/handler"
	"interview-coach/internal/middleware"
	"interview-coach/internal/prompt"
	"interview-coach/internal/service"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Manual Mocks ---

type MockInterviewService struct {
	GenerateQuestionsFunc func(ctx context.Context, req domain.QuestionRequest) ([]string, error)
	EvaluateAnswersFunc   func(ctx context.Context, items []domain.EvaluationItem) (*domain.EvaluationBatch, error)
}

func (m *MockInterviewService) GenerateQuestions(ctx context.Context, req domain.QuestionRequest) ([]string, error) {
	if m.GenerateQuestionsFunc != nil {
		return m.GenerateQuestionsFunc(ctx, req)
	}
	panic("MockInterviewService.GenerateQuestionsFunc not implemented")
}

func (m *MockInterviewService) EvaluateAnswers(ctx context.Context, items []domain.EvaluationItem) (*domain.EvaluationBatch, error) {
	if m.EvaluateAnswersFunc != nil {
		return m.EvaluateAnswersFunc(ctx, items)
	}
	panic("MockInterviewService.EvaluateAnswersFunc not implemented")
}

type noSleepClock struct{ slept []time.Duration }

func (c *noSleepClock) Now() time.Time { return time.Unix(0, 0) }

func (c *noSleepClock) Sleep(_ context.Context, d time.Duration) error {
	c.slept = append(c.slept, d)
	return nil
}

func newApp(svc service.InterviewService) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
	})
	app.Use(middleware.RequestIDs())
	h := handler.NewInterviewHandler(svc)
	app.Post("/generate_questions", h.GenerateQuestions)
	app.Post("/evaluate_answers", h.EvaluateAnswers)
	return app
}

// newAppWithGenerator wires the real service to a mock generator so call counts
// can be asserted at the HTTP boundary.
func newAppWithGenerator(gen domain.TextGenerator, clock *noSleepClock, parseSections bool) *fiber.App {
	svc := service.NewInterviewService(service.InterviewServiceConfig{
		QuestionGenerator:   gen,
		EvaluationGenerator: gen,
		QuestionModel:       "gemini-1.5-flash",
		EvaluationModel:     "gemini-2.0-flash",
		Cooldown:            service.DefaultCooldown,
		ParseSections:       parseSections,
		Clock:               clock,
	})
	return newApp(svc)
}

func post(t *testing.T, app *fiber.App, path string, body string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	return resp.StatusCode, decoded
}

func TestGenerateQuestions(t *testing.T) {
	gen := llm.NewMockGenerator(llm.MockResponse{Text: "Q1?\n\nQ2?\n"})
	app := newAppWithGenerator(gen, &noSleepClock{}, false)

	status, body := post(t, app, "/generate_questions", `{"job_role":"sre"}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, []interface{}{"Q1?", "Q2?"}, body["questions"])
	require.Equal(t, 1, gen.CallCount())
	assert.Equal(t, "gemini-1.5-flash", gen.Calls()[0].ModelID)
	assert.Contains(t, gen.Calls()[0].Prompt, "sre role")
}

func TestGenerateQuestions_EmptyBodyUsesDefaults(t *testing.T) {
	var got domain.QuestionRequest
	svc := &MockInterviewService{
		GenerateQuestionsFunc: func(ctx context.Context, req domain.QuestionRequest) ([]string, error) {
			got = req
			return []string{"Q?"}, nil
		},
	}
	app := newApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/generate_questions", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
	assert.Equal(t, domain.DefaultJobRole, got.JobRole)
	assert.Equal(t, domain.DefaultExperience, got.Experience)
	assert.Equal(t, domain.DefaultSkills, got.Skills)
}

func TestGenerateQuestions_Failure(t *testing.T) {
	gen := llm.NewMockGenerator(llm.MockResponse{Err: domain.NewLLMServiceError(errors.New("Error 429, Message: quota"))})
	app := newAppWithGenerator(gen, &noSleepClock{}, false)

	status, body := post(t, app, "/generate_questions", `{}`)

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Contains(t, body["error"], "429")
	assert.NotContains(t, body, "questions")
}

func TestGenerateQuestions_InvalidJSON(t *testing.T) {
	gen := llm.NewMockGenerator()
	app := newAppWithGenerator(gen, &noSleepClock{}, false)

	status, body := post(t, app, "/generate_questions", `{"job_role":`)

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.NotEmpty(t, body["error"])
	assert.Equal(t, 0, gen.CallCount())
}

func TestEvaluateAnswers_Complete(t *testing.T) {
	gen := llm.NewMockGenerator(llm.MockResponse{Text: "Score: 8/10\n"}, llm.MockResponse{Text: " Score: 6/10"})
	app := newAppWithGenerator(gen, &noSleepClock{}, false)

	status, body := post(t, app, "/evaluate_answers",
		`{"answers":[{"question":"Q1","answer":"A1"},{"question":"Q2","answer":"A2"}]}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "complete", body["status"])
	assert.Equal(t, float64(0), body["failed_count"])
	assert.Equal(t, []interface{}{"Score: 8/10", "Score: 6/10"}, body["evaluations"])
	assert.NotContains(t, body, "details")
	for _, call := range gen.Calls() {
		assert.Equal(t, "gemini-2.0-flash", call.ModelID)
	}
}

func TestEvaluateAnswers_EmptyBatch(t *testing.T) {
	gen := llm.NewMockGenerator()
	app := newAppWithGenerator(gen, &noSleepClock{}, false)

	for _, reqBody := range []string{`{"answers":[]}`, `{}`} {
		status, body := post(t, app, "/evaluate_answers", reqBody)
		assert.Equal(t, fiber.StatusOK, status)
		assert.Equal(t, map[string]interface{}{
			"status":       "complete",
			"evaluations":  []interface{}{},
			"failed_count": float64(0),
		}, body)
	}
	assert.Equal(t, 0, gen.CallCount())
}

func TestEvaluateAnswers_NotAList(t *testing.T) {
	gen := llm.NewMockGenerator(llm.MockResponse{Text: "unused"})
	app := newAppWithGenerator(gen, &noSleepClock{}, false)

	for _, reqBody := range []string{`{"answers":"Q1"}`, `{"answers":{"question":"Q1","answer":"A1"}}`} {
		status, body := post(t, app, "/evaluate_answers", reqBody)
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, map[string]interface{}{"error": "Answers should be a list"}, body)
	}
	assert.Equal(t, 0, gen.CallCount())
}

func TestEvaluateAnswers_ItemNotAnObject(t *testing.T) {
	gen := llm.NewMockGenerator(llm.MockResponse{Text: "unused"})
	app := newAppWithGenerator(gen, &noSleepClock{}, false)

	status, body := post(t, app, "/evaluate_answers", `{"answers":[{"question":"Q1","answer":"A1"},"A2"]}`)

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, map[string]interface{}{
		"error":  "Each answer should be an object",
		"status": "error",
	}, body)
	assert.Equal(t, 0, gen.CallCount())
}

func TestEvaluateAnswers_FalsyAnswerNotEvaluated(t *testing.T) {
	gen := llm.NewMockGenerator(llm.MockResponse{Text: "Score: 4/10"})
	app := newAppWithGenerator(gen, &noSleepClock{}, false)

	status, body := post(t, app, "/evaluate_answers",
		`{"answers":[{"question":"Q1","answer":0},{"question":"Q2","answer":false},{"question":"Q3","answer":"0"}]}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, []interface{}{
		"Missing question or answer",
		"Missing question or answer",
		"Score: 4/10",
	}, body["evaluations"])
	assert.Equal(t, float64(0), body["failed_count"])
	assert.Equal(t, 1, gen.CallCount())
	assert.Equal(t, prompt.BuildEvaluationPrompt("Q3", "0"), gen.Calls()[0].Prompt)
}

func TestEvaluateAnswers_MissingAnswerNotEvaluated(t *testing.T) {
	gen := llm.NewMockGenerator(llm.MockResponse{Text: "Score: 5/10"})
	app := newAppWithGenerator(gen, &noSleepClock{}, false)

	status, body := post(t, app, "/evaluate_answers",
		`{"answers":[{"question":"Q1","answer":""},{"question":"Q2","answer":"A2"}]}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, []interface{}{"Missing question or answer", "Score: 5/10"}, body["evaluations"])
	assert.Equal(t, float64(0), body["failed_count"])
	assert.Equal(t, "complete", body["status"])
	assert.Equal(t, 1, gen.CallCount())
}

func TestEvaluateAnswers_RateLimitedItem(t *testing.T) {
	clock := &noSleepClock{}
	gen := llm.NewMockGenerator(
		llm.MockResponse{Text: "Score: 9/10"},
		llm.MockResponse{Err: domain.NewRateLimitedError(errors.New("Error 429, Message: Resource exhausted"))},
		llm.MockResponse{Text: "Score: 3/10"},
	)
	app := newAppWithGenerator(gen, clock, false)

	status, body := post(t, app, "/evaluate_answers",
		`{"answers":[{"question":"Q1","answer":"A1"},{"question":"Q2","answer":"A2"},{"question":"Q3","answer":"A3"}]}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "partial", body["status"])
	assert.Equal(t, float64(1), body["failed_count"])
	assert.Equal(t, []interface{}{"Score: 9/10", "Evaluation failed for this question", "Score: 3/10"}, body["evaluations"])
	assert.Equal(t, []time.Duration{service.DefaultCooldown}, clock.slept)
	assert.Equal(t, 3, gen.CallCount())
}

func TestEvaluateAnswers_Details(t *testing.T) {
	gen := llm.NewMockGenerator(llm.MockResponse{Text: "Score: 7/10\nMistakes: none\nHow to Improve: add detail"})
	app := newAppWithGenerator(gen, &noSleepClock{}, true)

	status, body := post(t, app, "/evaluate_answers",
		`{"answers":[{"question":"Q1","answer":"A1"},{"question":"Q2"}]}`)

	assert.Equal(t, fiber.StatusOK, status)
	details, ok := body["details"].([]interface{})
	require.True(t, ok)
	require.Len(t, details, 2)
	assert.Equal(t, map[string]interface{}{
		"score":          "7/10",
		"mistakes":       []interface{}{"none"},
		"how_to_improve": []interface{}{"add detail"},
	}, details[0])
	assert.Nil(t, details[1])
}

func TestEvaluateAnswers_UnhandledError(t *testing.T) {
	svc := &MockInterviewService{
		EvaluateAnswersFunc: func(ctx context.Context, items []domain.EvaluationItem) (*domain.EvaluationBatch, error) {
			return nil, context.DeadlineExceeded
		},
	}
	app := newApp(svc)

	status, body := post(t, app, "/evaluate_answers", `{"answers":[{"question":"Q","answer":"A"}]}`)

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, context.DeadlineExceeded.Error(), body["error"])
}

func TestEvaluateAnswers_InvalidJSON(t *testing.T) {
	app := newApp(&MockInterviewService{})

	status, body := post(t, app, "/evaluate_answers", `not json`)

	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "error", body["status"])
	assert.NotEmpty(t, body["error"])
}

func TestUnknownRoute(t *testing.T) {
	app := newApp(&MockInterviewService{})

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, body.Error)
}
