package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"henryedu.com/henryplatform/internal/modules/presentation/dto"
	"henryedu.com/henryplatform/internal/modules/presentation/service"
	"henryedu.com/henryplatform/pkg/apperror"
	"henryedu.com/henryplatform/pkg/response"
	"henryedu.com/henryplatform/pkg/validator"
)

type PresentationHandler struct {
	presentationService service.PresentationService
}

func NewPresentationHandler(presentationService service.PresentationService) *PresentationHandler {
	return &PresentationHandler{presentationService: presentationService}
}

func (h *PresentationHandler) List(c *gin.Context) {
	caller, err := response.GetCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	presentations, err := h.presentationService.ListPresentations(c.Request.Context(), caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"presentations": presentations, "total": len(presentations)})
}

func (h *PresentationHandler) Get(c *gin.Context) {
	presentationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Invalidf("id de presentación inválido"))
		return
	}

	caller, err := response.GetCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	presentation, err := h.presentationService.GetPresentation(c.Request.Context(), caller, presentationID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"presentation": presentation})
}

// Create accepts multipart requests for the upload pipeline and JSON for
// the ai and link pipelines.
func (h *PresentationHandler) Create(c *gin.Context) {
	caller, err := response.GetCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var (
		input dto.CreatePresentationInput
		file  *dto.DeckFile
	)

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
			return
		}

		if fileHeader, err := c.FormFile("file"); err == nil {
			f, err := fileHeader.Open()
			if err != nil {
				response.Error(c, err)
				return
			}
			defer f.Close()

			file = &dto.DeckFile{Reader: f, FileName: fileHeader.Filename}
		}
	} else {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
			return
		}
	}

	presentation, err := h.presentationService.CreatePresentation(c.Request.Context(), caller, input, file)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Presentación creada exitosamente", "presentation": presentation})
}

func (h *PresentationHandler) Generate(c *gin.Context) {
	presentationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Invalidf("id de presentación inválido"))
		return
	}

	caller, err := response.GetCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	presentation, err := h.presentationService.Generate(c.Request.Context(), caller, presentationID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Presentación generada exitosamente", "presentation": presentation})
}

func (h *PresentationHandler) Update(c *gin.Context) {
	presentationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Invalidf("id de presentación inválido"))
		return
	}

	var input dto.UpdatePresentationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	caller, err := response.GetCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	presentation, err := h.presentationService.UpdatePresentation(c.Request.Context(), caller, presentationID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Presentación actualizada exitosamente", "presentation": presentation})
}

func (h *PresentationHandler) Delete(c *gin.Context) {
	presentationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Invalidf("id de presentación inválido"))
		return
	}

	caller, err := response.GetCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.presentationService.DeletePresentation(c.Request.Context(), caller, presentationID); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Presentación eliminada exitosamente"})
}
