package handler

import (
	"interview-coach/internal/domain"
	"interview-coach/internal/dto"
	"interview-coach/internal/logger"
	"interview-coach/internal/middleware"
	"interview-coach/internal/service"
	"interview-coach/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// InterviewHandler handles the question generation and evaluation endpoints
type InterviewHandler struct {
	service   service.InterviewService
	validator *validation.Validator
}

// NewInterviewHandler creates a new InterviewHandler instance
func NewInterviewHandler(service service.InterviewService) *InterviewHandler {
	return &InterviewHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// GenerateQuestions godoc
// @Summary Generate interview questions
// @Description Asks the model for five interview questions for a role, experience level and skill set
// @Tags interview
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuestionsRequest false "Role details"
// @Success 200 {object} dto.QuestionsResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /generate_questions [post]
func (h *InterviewHandler) GenerateQuestions(c *fiber.Ctx) error {
	req, err := h.validator.DecodeQuestionRequest(c.Body())
	if err != nil {
		return h.questionError(c, err)
	}

	questions, err := h.service.GenerateQuestions(c.UserContext(), req)
	if err != nil {
		return h.questionError(c, err)
	}

	return c.JSON(dto.QuestionsResponse{Questions: questions})
}

func (h *InterviewHandler) questionError(c *fiber.Ctx, err error) error {
	logger.Get().Error("Failed to generate questions",
		zap.String("request_id", middleware.RequestID(c)),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
}

// EvaluateAnswers godoc
// @Summary Evaluate interview answers
// @Description Evaluates each question/answer pair in order. Items that cannot be evaluated get a placeholder and mark the batch partial.
// @Tags interview
// @Accept json
// @Produce json
// @Param request body dto.EvaluateAnswersRequest false "Answers to evaluate"
// @Success 200 {object} dto.EvaluateAnswersResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.EvaluationErrorResponse
// @Router /evaluate_answers [post]
func (h *InterviewHandler) EvaluateAnswers(c *fiber.Ctx) error {
	items, err := h.validator.DecodeEvaluationRequest(c.Body())
	if err != nil {
		return h.evaluationError(c, err)
	}

	batch, err := h.service.EvaluateAnswers(c.UserContext(), items)
	if err != nil {
		return h.evaluationError(c, err)
	}

	return c.JSON(dto.NewEvaluateAnswersResponse(batch))
}

func (h *InterviewHandler) evaluationError(c *fiber.Ctx, err error) error {
	log := logger.Get().With(zap.String("request_id", middleware.RequestID(c)))

	if domain.CodeOf(err) == domain.ErrInvalidInput {
		log.Warn("Invalid evaluation request", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	log.Error("Failed to evaluate answers", zap.Error(err))
	return c.Status(middleware.StatusForError(err)).JSON(dto.EvaluationErrorResponse{
		Error:  err.Error(),
		Status: "error",
	})
}
