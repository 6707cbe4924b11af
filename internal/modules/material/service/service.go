package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"henryedu.com/henryplatform/internal/authz"
	"henryedu.com/henryplatform/internal/entity"
	classRepo "henryedu.com/henryplatform/internal/modules/class/repository"
	"henryedu.com/henryplatform/internal/modules/counter"
	"henryedu.com/henryplatform/internal/modules/material/dto"
	"henryedu.com/henryplatform/internal/modules/material/repository"
	"henryedu.com/henryplatform/internal/modules/search"
	"henryedu.com/henryplatform/pkg/apperror"
	"henryedu.com/henryplatform/pkg/storage"
)

type MaterialService interface {
	ListMaterials(ctx context.Context, caller authz.Caller, classID *uuid.UUID) ([]*entity.Material, error)
	GetMaterial(ctx context.Context, caller authz.Caller, materialID uuid.UUID) (*entity.Material, error)
	CreateMaterial(ctx context.Context, caller authz.Caller, input dto.CreateMaterialInput, file *dto.MaterialFile) (*entity.Material, error)
	UpdateMaterial(ctx context.Context, caller authz.Caller, materialID uuid.UUID, input dto.UpdateMaterialInput) (*entity.Material, error)
	DeleteMaterial(ctx context.Context, caller authz.Caller, materialID uuid.UUID) error
	Download(ctx context.Context, caller authz.Caller, materialID uuid.UUID) (*dto.DownloadResult, error)
	Types() []dto.MaterialTypeInfo
}

type materialService struct {
	repo           repository.MaterialRepository
	classRepo      classRepo.ClassRepository
	searchService  search.SearchService
	counterService counter.CounterService
	fileStorage    storage.FileStorage
}

func NewMaterialService(
	repo repository.MaterialRepository,
	classes classRepo.ClassRepository,
	searchService search.SearchService,
	counterService counter.CounterService,
	fileStorage storage.FileStorage,
) MaterialService {
	return &materialService{
		repo:           repo,
		classRepo:      classes,
		searchService:  searchService,
		counterService: counterService,
		fileStorage:    fileStorage,
	}
}

func (s *materialService) ListMaterials(ctx context.Context, caller authz.Caller, classID *uuid.UUID) ([]*entity.Material, error) {
	if classID != nil {
		materials, err := s.repo.FindByClass(ctx, *classID, 0)
		if err != nil {
			return nil, err
		}
		return filterVisible(caller, materials), nil
	}

	switch {
	case caller.IsAdmin():
		return s.repo.FindAll(ctx)
	case caller.IsProfessor():
		return s.repo.FindByUploader(ctx, caller.ID)
	default:
		classes, err := s.classRepo.FindActive(ctx)
		if err != nil {
			return nil, err
		}
		ids := make([]uuid.UUID, 0, len(classes))
		for _, class := range classes {
			ids = append(ids, class.ID)
		}
		return s.repo.FindPublicByClasses(ctx, ids)
	}
}

func (s *materialService) GetMaterial(ctx context.Context, caller authz.Caller, materialID uuid.UUID) (*entity.Material, error) {
	material, err := s.findMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}

	if !authz.CanViewMaterial(caller, material) {
		return nil, apperror.ErrForbidden
	}
	return material, nil
}

func (s *materialService) CreateMaterial(ctx context.Context, caller authz.Caller, input dto.CreateMaterialInput, file *dto.MaterialFile) (*entity.Material, error) {
	classID, err := uuid.Parse(input.ClassID)
	if err != nil {
		return nil, apperror.Invalidf("id de clase inválido")
	}

	class, err := s.classRepo.FindByID(ctx, classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	if !authz.CanUploadMaterial(caller, class) {
		return nil, apperror.ErrForbidden
	}

	materialType := entity.MaterialType(strings.ToLower(input.Type))
	if !materialType.Valid() {
		return nil, apperror.Invalidf("Tipo de material inválido")
	}

	material := &entity.Material{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Type:        materialType,
		IsPublic:    true,
		ClassID:     class.ID,
		UploadedBy:  caller.ID,
	}
	if input.IsPublic != nil {
		material.IsPublic = *input.IsPublic
	}

	switch {
	case materialType == entity.MaterialLink:
		if input.URL == nil || strings.TrimSpace(*input.URL) == "" {
			return nil, apperror.Invalidf("Los materiales de tipo enlace requieren una URL")
		}
		url := strings.TrimSpace(*input.URL)
		material.URL = &url
	case file != nil:
		fileURL, err := s.fileStorage.UploadFile(ctx, file.Reader, "materials", file.FileName)
		if err != nil {
			return nil, err
		}
		material.FileURL = &fileURL
		if file.Size > 0 {
			material.FileSize = &file.Size
		}
		if file.MimeType != "" {
			material.MimeType = &file.MimeType
		}
	default:
		return nil, apperror.Invalidf("Se requiere un archivo o una URL")
	}

	if err := s.repo.Create(ctx, material); err != nil {
		return nil, err
	}

	s.indexMaterial(material, class.Name)
	return material, nil
}

func (s *materialService) UpdateMaterial(ctx context.Context, caller authz.Caller, materialID uuid.UUID, input dto.UpdateMaterialInput) (*entity.Material, error) {
	material, err := s.findMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}

	if !authz.CanEditMaterial(caller, material) {
		return nil, apperror.ErrForbidden
	}

	if input.Name != nil {
		material.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		material.Description = *input.Description
	}
	if input.Type != nil {
		materialType := entity.MaterialType(strings.ToLower(*input.Type))
		if !materialType.Valid() {
			return nil, apperror.Invalidf("Tipo de material inválido")
		}
		material.Type = materialType
	}
	if input.IsPublic != nil {
		material.IsPublic = *input.IsPublic
	}
	if input.URL != nil {
		url := strings.TrimSpace(*input.URL)
		material.URL = &url
	}

	if err := s.repo.Update(ctx, material); err != nil {
		return nil, err
	}

	className := ""
	if class, err := s.classRepo.FindByID(ctx, material.ClassID); err == nil {
		className = class.Name
	}
	s.indexMaterial(material, className)
	return material, nil
}

func (s *materialService) DeleteMaterial(ctx context.Context, caller authz.Caller, materialID uuid.UUID) error {
	material, err := s.findMaterial(ctx, materialID)
	if err != nil {
		return err
	}

	if !authz.CanEditMaterial(caller, material) {
		return apperror.ErrForbidden
	}

	// Stored blob cleanup is best effort; the row always goes.
	if material.FileURL != nil {
		_ = s.fileStorage.DeleteFile(ctx, *material.FileURL)
	}

	if err := s.repo.Delete(ctx, materialID); err != nil {
		return err
	}

	if err := s.searchService.DeleteMaterial(materialID.String()); err != nil {
		log.Printf("Failed to deindex material %s: %v", materialID, err)
	}
	return nil
}

func (s *materialService) Download(ctx context.Context, caller authz.Caller, materialID uuid.UUID) (*dto.DownloadResult, error) {
	material, err := s.findMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}

	if !authz.CanViewMaterial(caller, material) {
		return nil, apperror.ErrForbidden
	}

	if !material.Downloadable() {
		return nil, apperror.Conflictf("El material no tiene archivo ni enlace asociado")
	}

	if err := s.counterService.Bump(ctx, counter.MaterialDownloads, material.ID); err != nil {
		log.Printf("Failed to bump download count for %s: %v", material.ID, err)
	}

	return &dto.DownloadResult{
		URL:  material.DownloadURL(),
		Name: material.Name,
	}, nil
}

// Types is the static catalog clients use to drive upload pickers.
func (s *materialService) Types() []dto.MaterialTypeInfo {
	return []dto.MaterialTypeInfo{
		{Type: "pdf", Label: "Documento PDF", Extensions: []string{".pdf"}, Description: "Documentos en formato PDF"},
		{Type: "presentation", Label: "Presentación", Extensions: []string{".ppt", ".pptx"}, Description: "Presentaciones de diapositivas"},
		{Type: "video", Label: "Video", Extensions: []string{".mp4", ".avi", ".mov", ".webm"}, Description: "Archivos de video"},
		{Type: "audio", Label: "Audio", Extensions: []string{".mp3", ".wav", ".ogg"}, Description: "Archivos de audio"},
		{Type: "image", Label: "Imagen", Extensions: []string{".jpg", ".jpeg", ".png", ".gif"}, Description: "Imágenes y diagramas"},
		{Type: "document", Label: "Documento", Extensions: []string{".doc", ".docx", ".txt", ".md"}, Description: "Documentos de texto"},
		{Type: "link", Label: "Enlace", Extensions: []string{}, Description: "Enlaces a recursos externos"},
	}
}

func (s *materialService) findMaterial(ctx context.Context, materialID uuid.UUID) (*entity.Material, error) {
	material, err := s.repo.FindByID(ctx, materialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return material, nil
}

func (s *materialService) indexMaterial(material *entity.Material, className string) {
	if err := s.searchService.IndexMaterial(material, className); err != nil {
		log.Printf("Failed to index material %s: %v", material.ID, err)
	}
}

func filterVisible(caller authz.Caller, materials []*entity.Material) []*entity.Material {
	visible := make([]*entity.Material, 0, len(materials))
	for _, m := range materials {
		if authz.CanViewMaterial(caller, m) {
			visible = append(visible, m)
		}
	}
	return visible
}
