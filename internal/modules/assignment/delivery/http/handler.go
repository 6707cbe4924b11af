package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"henryedu.com/henryplatform/internal/modules/assignment/dto"
	"henryedu.com/henryplatform/internal/modules/assignment/service"
	"henryedu.com/henryplatform/pkg/apperror"
	"henryedu.com/henryplatform/pkg/response"
	"henryedu.com/henryplatform/pkg/validator"
)

type AssignmentHandler struct {
	assignmentService service.AssignmentService
}

func NewAssignmentHandler(assignmentService service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

func (h *AssignmentHandler) List(c *gin.Context) {
	caller, err := response.GetCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	assignments, err := h.assignmentService.ListAssignments(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignments": assignments, "total": len(assignments)})
}

func (h *AssignmentHandler) Get(c *gin.Context) {
	assignmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Invalidf("id de tarea inválido"))
		return
	}

	caller, err := response.GetCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	assignment, err := h.assignmentService.GetAssignment(c.Request.Context(), caller, assignmentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"assignment": assignment})
}

func (h *AssignmentHandler) Create(c *gin.Context) {
	var input dto.CreateAssignmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	caller, err := response.GetCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	assignment, err := h.assignmentService.CreateAssignment(c.Request.Context(), caller, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Tarea creada exitosamente", "assignment": assignment})
}

func (h *AssignmentHandler) Update(c *gin.Context) {
	assignmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Invalidf("id de tarea inválido"))
		return
	}

	var input dto.UpdateAssignmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	caller, err := response.GetCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	assignment, err := h.assignmentService.UpdateAssignment(c.Request.Context(), caller, assignmentID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tarea actualizada exitosamente", "assignment": assignment})
}

func (h *AssignmentHandler) Delete(c *gin.Context) {
	assignmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Invalidf("id de tarea inválido"))
		return
	}

	caller, err := response.GetCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.assignmentService.DeleteAssignment(c.Request.Context(), caller, assignmentID); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tarea eliminada exitosamente"})
}

func (h *AssignmentHandler) Submit(c *gin.Context) {
	assignmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Invalidf("id de tarea inválido"))
		return
	}

	var input dto.SubmitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	caller, err := response.GetCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	submission, err := h.assignmentService.Submit(c.Request.Context(), caller, assignmentID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Entrega registrada exitosamente", "submission": submission})
}

func (h *AssignmentHandler) Grade(c *gin.Context) {
	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Invalidf("id de entrega inválido"))
		return
	}

	var input dto.GradeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	caller, err := response.GetCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	submission, err := h.assignmentService.Grade(c.Request.Context(), caller, submissionID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Entrega calificada exitosamente", "submission": submission})
}

func (h *AssignmentHandler) MySubmissions(c *gin.Context) {
	assignmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Invalidf("id de tarea inválido"))
		return
	}

	caller, err := response.GetCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	submissions, err := h.assignmentService.MySubmissions(c.Request.Context(), caller, assignmentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"submissions": submissions, "total": len(submissions)})
}
