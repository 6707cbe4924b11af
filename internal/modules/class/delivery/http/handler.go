package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"henryedu.com/henryplatform/internal/modules/class/dto"
	"henryedu.com/henryplatform/internal/modules/class/service"
	"henryedu.com/henryplatform/pkg/apperror"
	"henryedu.com/henryplatform/pkg/response"
	"henryedu.com/henryplatform/pkg/validator"
)

type ClassHandler struct {
	classService service.ClassService
}

func NewClassHandler(classService service.ClassService) *ClassHandler {
	return &ClassHandler{classService: classService}
}

func (h *ClassHandler) List(c *gin.Context) {
	caller, err := response.GetCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	classes, err := h.classService.ListClasses(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"classes": classes, "total": len(classes)})
}

func (h *ClassHandler) Get(c *gin.Context) {
	classID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Invalidf("id de clase inválido"))
		return
	}

	caller, err := response.GetCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	class, err := h.classService.GetClass(c.Request.Context(), caller, classID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"class": class})
}

func (h *ClassHandler) Create(c *gin.Context) {
	var input dto.CreateClassInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	caller, err := response.GetCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	class, err := h.classService.CreateClass(c.Request.Context(), caller, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Clase creada exitosamente", "class": class})
}

func (h *ClassHandler) Update(c *gin.Context) {
	classID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Invalidf("id de clase inválido"))
		return
	}

	var input dto.UpdateClassInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	caller, err := response.GetCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	class, err := h.classService.UpdateClass(c.Request.Context(), caller, classID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Clase actualizada exitosamente", "class": class})
}

func (h *ClassHandler) Delete(c *gin.Context) {
	classID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Invalidf("id de clase inválido"))
		return
	}

	caller, err := response.GetCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.classService.DeleteClass(c.Request.Context(), caller, classID); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Clase eliminada exitosamente"})
}

func (h *ClassHandler) Enroll(c *gin.Context) {
	classID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Invalidf("id de clase inválido"))
		return
	}

	caller, err := response.GetCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	class, err := h.classService.Enroll(c.Request.Context(), caller, classID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Inscripción exitosa", "class": class})
}

func (h *ClassHandler) Unenroll(c *gin.Context) {
	classID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Invalidf("id de clase inválido"))
		return
	}

	caller, err := response.GetCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	class, err := h.classService.Unenroll(c.Request.Context(), caller, classID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Inscripción anulada exitosamente", "class": class})
}

func (h *ClassHandler) Stats(c *gin.Context) {
	caller, err := response.GetCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	stats, err := h.classService.Stats(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
