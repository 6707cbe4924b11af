package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"henryedu.com/henryplatform/internal/modules/material/dto"
	"henryedu.com/henryplatform/internal/modules/material/service"
	"henryedu.com/henryplatform/pkg/apperror"
	"henryedu.com/henryplatform/pkg/response"
	"henryedu.com/henryplatform/pkg/validator"
)

type MaterialHandler struct {
	materialService service.MaterialService
}

func NewMaterialHandler(materialService service.MaterialService) *MaterialHandler {
	return &MaterialHandler{materialService: materialService}
}

func (h *MaterialHandler) List(c *gin.Context) {
	caller, err := response.GetCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var classID *uuid.UUID
	if raw := c.Query("class_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, apperror.Invalidf("id de clase inválido"))
			return
		}
		classID = &id
	}

	materials, err := h.materialService.ListMaterials(c.Request.Context(), caller, classID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"materials": materials, "total": len(materials)})
}

func (h *MaterialHandler) Get(c *gin.Context) {
	materialID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Invalidf("id de material inválido"))
		return
	}

	caller, err := response.GetCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	material, err := h.materialService.GetMaterial(c.Request.Context(), caller, materialID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"material": material})
}

// Create accepts multipart uploads for file-backed materials and plain
// JSON for link materials.
func (h *MaterialHandler) Create(c *gin.Context) {
	caller, err := response.GetCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var (
		input dto.CreateMaterialInput
		file  *dto.MaterialFile
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

			file = &dto.MaterialFile{
				Reader:   f,
				FileName: fileHeader.Filename,
				Size:     fileHeader.Size,
				MimeType: fileHeader.Header.Get("Content-Type"),
			}
		}
	} else {
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
			return
		}
	}

	material, err := h.materialService.CreateMaterial(c.Request.Context(), caller, input, file)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Material creado exitosamente", "material": material})
}

func (h *MaterialHandler) Update(c *gin.Context) {
	materialID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Invalidf("id de material inválido"))
		return
	}

	var input dto.UpdateMaterialInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	caller, err := response.GetCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	material, err := h.materialService.UpdateMaterial(c.Request.Context(), caller, materialID, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Material actualizado exitosamente", "material": material})
}

func (h *MaterialHandler) Delete(c *gin.Context) {
	materialID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Invalidf("id de material inválido"))
		return
	}

	caller, err := response.GetCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.materialService.DeleteMaterial(c.Request.Context(), caller, materialID); err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Material eliminado exitosamente"})
}

func (h *MaterialHandler) Download(c *gin.Context) {
	materialID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Invalidf("id de material inválido"))
		return
	}

	caller, err := response.GetCaller(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.materialService.Download(c.Request.Context(), caller, materialID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *MaterialHandler) Types(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"material_types": h.materialService.Types()})
}
