package service

import (
	"context"
	"interview-coach/internal/domain"
	"interview-coach/internal/logger"
	"interview-coach/internal/prompt"
	"interview-coach/internal/ratelimit"
	"time"

	"go.uber.org/zap"
)

// DefaultCooldown is the extra pause after an evaluation was rejected with 429.
const DefaultCooldown = 10 * time.Second

// InterviewService defines the question generation and answer evaluation operations
type InterviewService interface {
	GenerateQuestions(ctx context.Context, req domain.QuestionRequest) ([]string, error)
	EvaluateAnswers(ctx context.Context, items []domain.EvaluationItem) (*domain.EvaluationBatch, error)
}

// InterviewServiceConfig wires the generators and tunables of the service.
type InterviewServiceConfig struct {
	// QuestionGenerator serves /generate_questions. It is normally not rate limited.
	QuestionGenerator domain.TextGenerator
	// EvaluationGenerator serves /evaluate_answers and is expected to be rate limited.
	EvaluationGenerator domain.TextGenerator
	QuestionModel       string
	EvaluationModel     string
	Cooldown            time.Duration
	ParseSections       bool
	Clock               ratelimit.Clock
}

type interviewService struct {
	questionGen     domain.TextGenerator
	evaluationGen   domain.TextGenerator
	questionModel   string
	evaluationModel string
	cooldown        time.Duration
	parseSections   bool
	clock           ratelimit.Clock
}

// NewInterviewService creates a new instance of interviewService
func NewInterviewService(cfg InterviewServiceConfig) InterviewService {
	clock := cfg.Clock
	if clock == nil {
		clock = ratelimit.RealClock{}
	}
	return &interviewService{
		questionGen:     cfg.QuestionGenerator,
		evaluationGen:   cfg.EvaluationGenerator,
		questionModel:   cfg.QuestionModel,
		evaluationModel: cfg.EvaluationModel,
		cooldown:        cfg.Cooldown,
		parseSections:   cfg.ParseSections,
		clock:           clock,
	}
}

// GenerateQuestions implements InterviewService. Fields are interpolated as given,
// defaults are the caller's job. Any generator failure fails the request.
func (s *interviewService) GenerateQuestions(ctx context.Context, req domain.QuestionRequest) ([]string, error) {
	p := prompt.BuildQuestionPrompt(req.JobRole, req.Experience, req.Skills)

	raw, err := s.questionGen.Generate(ctx, s.questionModel, p)
	if err != nil {
		logger.Get().Error("Failed to generate questions",
			zap.String("job_role", req.JobRole),
			zap.Error(err))
		return nil, err
	}

	questions := SplitQuestions(raw)
	logger.Get().Info("Generated questions",
		zap.String("job_role", req.JobRole),
		zap.Int("count", len(questions)))
	return questions, nil
}

// EvaluateAnswers implements InterviewService. Items are evaluated one at a time
// in input order; a failed item becomes a sentinel and never aborts the batch.
// The only error returned is ctx ending mid-batch.
func (s *interviewService) EvaluateAnswers(ctx context.Context, items []domain.EvaluationItem) (*domain.EvaluationBatch, error) {
	l := logger.Get()
	results := make([]string, 0, len(items))
	var details []*domain.EvaluationSections
	if s.parseSections {
		details = make([]*domain.EvaluationSections, 0, len(items))
	}
	failed := 0

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !item.Complete() {
			results = append(results, domain.MissingQuestionOrAnswer)
			if s.parseSections {
				details = append(details, nil)
			}
			continue
		}

		raw, err := s.evaluationGen.Generate(ctx, s.evaluationModel, prompt.BuildEvaluationPrompt(item.Question, item.Answer))
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}

			failed++
			results = append(results, domain.EvaluationFailed)
			if s.parseSections {
				details = append(details, nil)
			}
			l.Warn("Evaluation failed for item", zap.Int("index", i), zap.Error(err))

			if domain.IsRateLimited(err) && s.cooldown > 0 {
				l.Info("Rate limited by generation API, cooling down", zap.Duration("cooldown", s.cooldown))
				if err := s.clock.Sleep(ctx, s.cooldown); err != nil {
					return nil, err
				}
			}
			continue
		}

		text := ShapeEvaluation(raw)
		results = append(results, text)
		if s.parseSections {
			details = append(details, ParseSections(text))
		}
	}

	batch := Aggregate(results, failed)
	batch.Details = details
	l.Info("Evaluated answers",
		zap.Int("items", len(items)),
		zap.Int("failed", failed),
		zap.String("status", batch.Status))
	return &batch, nil
}
