package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"henryedu.com/henryplatform/internal/modules/assistant/dto"
	"henryedu.com/henryplatform/internal/modules/assistant/service"
	userRepo "henryedu.com/henryplatform/internal/modules/user/repository"
	"henryedu.com/henryplatform/pkg/apperror"
	"henryedu.com/henryplatform/pkg/response"
	"henryedu.com/henryplatform/pkg/validator"
)

type AssistantHandler struct {
	assistantService service.AssistantService
	userRepo         userRepo.UserRepository
	redisClient      *redis.Client
	chatRateLimit    time.Duration
}

func NewAssistantHandler(
	assistantService service.AssistantService,
	users userRepo.UserRepository,
	redisClient *redis.Client,
	chatRateLimit time.Duration,
) *AssistantHandler {
	return &AssistantHandler{
		assistantService: assistantService,
		userRepo:         users,
		redisClient:      redisClient,
		chatRateLimit:    chatRateLimit,
	}
}

func (h *AssistantHandler) Chat(c *gin.Context) {
	var input dto.ChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	caller, err := response.GetCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	allowed, err := service.CheckAndSetRateLimit(c.Request.Context(), h.redisClient, caller.ID, "ai_chat", h.chatRateLimit)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !allowed {
		response.Error(c, apperror.ErrRateLimitExceeded)
		return
	}

	user, err := h.userRepo.FindByID(c.Request.Context(), caller.ID.String())
	if err != nil {
		response.Error(c, err)
		return
	}

	reply := h.assistantService.GenerateResponse(input.Message, caller.Role, user.FullName)

	c.JSON(http.StatusOK, dto.ChatResponse{
		Response:  reply,
		Timestamp: time.Now().Unix(),
		UserRole:  caller.Role,
	})
}

func (h *AssistantHandler) GeneratePresentation(c *gin.Context) {
	var input dto.PresentationRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	presentation, err := h.assistantService.GeneratePresentation(input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"presentation": presentation,
		"message":      "Presentación generada exitosamente",
	})
}

func (h *AssistantHandler) GenerateQuiz(c *gin.Context) {
	caller, err := response.GetCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !caller.IsProfessor() {
		response.Error(c, apperror.New(http.StatusForbidden, "Solo los profesores pueden generar cuestionarios", apperror.ErrForbidden))
		return
	}

	var input dto.QuizRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	quiz := h.assistantService.GenerateQuiz(input)

	c.JSON(http.StatusOK, gin.H{
		"quiz":    quiz,
		"message": "Cuestionario generado exitosamente",
	})
}

func (h *AssistantHandler) ExplainConcept(c *gin.Context) {
	var input dto.ExplainInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	level := input.Level
	if level == "" {
		level = "intermediate"
	}

	explanation := h.assistantService.ExplainConcept(input.Concept, input.Subject, level)

	c.JSON(http.StatusOK, gin.H{
		"explanation": explanation,
		"concept":     input.Concept,
		"level":       level,
	})
}

func (h *AssistantHandler) SolveProblem(c *gin.Context) {
	var input dto.SolveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	solution := h.assistantService.SolveProblem(input.Problem, input.Subject)

	c.JSON(http.StatusOK, gin.H{
		"solution": solution,
		"problem":  input.Problem,
	})
}

func (h *AssistantHandler) StudyPlan(c *gin.Context) {
	var input dto.StudyPlanRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	plan := h.assistantService.GenerateStudyPlan(input)

	c.JSON(http.StatusOK, gin.H{
		"study_plan": plan,
		"message":    "Plan de estudio generado exitosamente",
	})
}

func (h *AssistantHandler) ResearchAssistance(c *gin.Context) {
	caller, err := response.GetCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !caller.IsProfessor() && !caller.IsStudent() {
		response.Error(c, apperror.New(http.StatusForbidden, "Función disponible solo para profesores y estudiantes", apperror.ErrForbidden))
		return
	}

	var input dto.ResearchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	level := input.AcademicLevel
	if level == "" {
		level = "undergraduate"
	}

	assistance := h.assistantService.ResearchAssistance(input.ResearchTopic, input.AssistanceType, level, input.FieldOfStudy)

	c.JSON(http.StatusOK, gin.H{
		"assistance": assistance,
		"topic":      input.ResearchTopic,
		"type":       input.AssistanceType,
	})
}

func (h *AssistantHandler) Feedback(c *gin.Context) {
	var input dto.FeedbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	feedback := h.assistantService.ProvideFeedback(input)

	c.JSON(http.StatusOK, gin.H{
		"feedback":     feedback,
		"content_type": input.ContentType,
	})
}

func (h *AssistantHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.assistantService.Status())
}
