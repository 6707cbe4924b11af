package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"henryedu.com/henryplatform/internal/authz"
	"henryedu.com/henryplatform/internal/entity"
	assistantDto "henryedu.com/henryplatform/internal/modules/assistant/dto"
	assistantService "henryedu.com/henryplatform/internal/modules/assistant/service"
	"henryedu.com/henryplatform/internal/modules/counter"
	"henryedu.com/henryplatform/internal/modules/presentation/dto"
	"henryedu.com/henryplatform/internal/modules/presentation/repository"
	"henryedu.com/henryplatform/pkg/apperror"
	"henryedu.com/henryplatform/pkg/storage"
)

const defaultDuration = "15 minutos"

type PresentationService interface {
	ListPresentations(ctx context.Context, caller authz.Caller) ([]*entity.Presentation, error)
	GetPresentation(ctx context.Context, caller authz.Caller, presentationID uuid.UUID) (*dto.PresentationView, error)
	CreatePresentation(ctx context.Context, caller authz.Caller, input dto.CreatePresentationInput, file *dto.DeckFile) (*dto.PresentationView, error)
	Generate(ctx context.Context, caller authz.Caller, presentationID uuid.UUID) (*dto.PresentationView, error)
	UpdatePresentation(ctx context.Context, caller authz.Caller, presentationID uuid.UUID, input dto.UpdatePresentationInput) (*dto.PresentationView, error)
	DeletePresentation(ctx context.Context, caller authz.Caller, presentationID uuid.UUID) error
}

type presentationService struct {
	repo           repository.PresentationRepository
	assistant      assistantService.AssistantService
	counterService counter.CounterService
	fileStorage    storage.FileStorage
}

func NewPresentationService(
	repo repository.PresentationRepository,
	assistant assistantService.AssistantService,
	counterService counter.CounterService,
	fileStorage storage.FileStorage,
) PresentationService {
	return &presentationService{
		repo:           repo,
		assistant:      assistant,
		counterService: counterService,
		fileStorage:    fileStorage,
	}
}

func (s *presentationService) ListPresentations(ctx context.Context, caller authz.Caller) ([]*entity.Presentation, error) {
	return s.repo.FindByAuthor(ctx, caller.ID)
}

func (s *presentationService) GetPresentation(ctx context.Context, caller authz.Caller, presentationID uuid.UUID) (*dto.PresentationView, error) {
	presentation, err := s.findPresentation(ctx, presentationID)
	if err != nil {
		return nil, err
	}

	if !authz.CanManagePresentation(caller, presentation) {
		return nil, apperror.ErrForbidden
	}

	if err := s.counterService.Bump(ctx, counter.PresentationViews, presentation.ID); err != nil {
		log.Printf("Failed to bump view count for %s: %v", presentation.ID, err)
	}

	return buildView(presentation), nil
}

// CreatePresentation routes the three source pipelines. The ai pipeline
// stores metadata only; slides arrive later through Generate.
func (s *presentationService) CreatePresentation(ctx context.Context, caller authz.Caller, input dto.CreatePresentationInput, file *dto.DeckFile) (*dto.PresentationView, error) {
	sourceType := entity.SourceType(strings.ToLower(input.SourceType))
	if !sourceType.Valid() {
		return nil, apperror.Invalidf("Tipo de origen inválido")
	}

	presentation := &entity.Presentation{
		Title:      strings.TrimSpace(input.Title),
		Topic:      strings.TrimSpace(input.Topic),
		Audience:   input.Audience,
		Duration:   input.Duration,
		Style:      "professional",
		Status:     entity.PresentationDraft,
		SourceType: sourceType,
		AuthorID:   caller.ID,
	}
	if input.Style != "" {
		presentation.Style = input.Style
	}

	switch sourceType {
	case entity.SourceAI:
		// Slides stay empty until the explicit generate call.

	case entity.SourceLink:
		if input.SourceURL == nil || strings.TrimSpace(*input.SourceURL) == "" {
			return nil, apperror.Invalidf("Las presentaciones de tipo enlace requieren una URL")
		}
		url := strings.TrimSpace(*input.SourceURL)
		presentation.SourceURL = &url
		presentation.Status = entity.PresentationCompleted

	case entity.SourceUpload:
		if file == nil {
			return nil, apperror.Invalidf("Se requiere un archivo de presentación")
		}
		ext := strings.ToLower(filepath.Ext(file.FileName))
		if ext != ".ppt" && ext != ".pptx" {
			return nil, apperror.Invalidf("Solo se permiten archivos .ppt o .pptx")
		}

		data, err := io.ReadAll(file.Reader)
		if err != nil {
			return nil, err
		}

		fileURL, err := s.fileStorage.UploadFile(ctx, bytes.NewReader(data), "presentations", file.FileName)
		if err != nil {
			return nil, err
		}
		presentation.SourceURL = &fileURL
		presentation.Status = entity.PresentationCompleted

		if ext == ".pptx" {
			if err := presentation.SetContent(ParseDeck(data)); err != nil {
				return nil, err
			}
		}
	}

	if err := s.repo.Create(ctx, presentation); err != nil {
		return nil, err
	}
	return buildView(presentation), nil
}

// Generate fills an ai-sourced presentation with template slides. Calling
// it again regenerates the deck.
func (s *presentationService) Generate(ctx context.Context, caller authz.Caller, presentationID uuid.UUID) (*dto.PresentationView, error) {
	presentation, err := s.findPresentation(ctx, presentationID)
	if err != nil {
		return nil, err
	}

	if !authz.CanManagePresentation(caller, presentation) {
		return nil, apperror.ErrForbidden
	}
	if presentation.SourceType != entity.SourceAI {
		return nil, apperror.Conflictf("Solo las presentaciones generadas por IA admiten esta operación")
	}

	duration := presentation.Duration
	if duration == "" {
		duration = defaultDuration
	}

	generated, err := s.assistant.GeneratePresentation(assistantDto.PresentationRequest{
		Title:    presentation.Title,
		Topic:    presentation.Topic,
		Duration: duration,
		Audience: presentation.Audience,
		Style:    presentation.Style,
	})
	if err != nil {
		return nil, err
	}

	if err := presentation.SetContent(entity.DeckContent{Slides: generated.Slides}); err != nil {
		return nil, err
	}
	presentation.Status = entity.PresentationCompleted

	if err := s.repo.Update(ctx, presentation); err != nil {
		return nil, err
	}
	return buildView(presentation), nil
}

func (s *presentationService) UpdatePresentation(ctx context.Context, caller authz.Caller, presentationID uuid.UUID, input dto.UpdatePresentationInput) (*dto.PresentationView, error) {
	presentation, err := s.findPresentation(ctx, presentationID)
	if err != nil {
		return nil, err
	}

	if !authz.CanManagePresentation(caller, presentation) {
		return nil, apperror.ErrForbidden
	}

	if input.Title != nil {
		presentation.Title = strings.TrimSpace(*input.Title)
	}
	if input.Topic != nil {
		presentation.Topic = strings.TrimSpace(*input.Topic)
	}
	if input.Audience != nil {
		presentation.Audience = *input.Audience
	}
	if input.Duration != nil {
		presentation.Duration = *input.Duration
	}
	if input.Style != nil {
		presentation.Style = *input.Style
	}

	if err := s.repo.Update(ctx, presentation); err != nil {
		return nil, err
	}
	return buildView(presentation), nil
}

func (s *presentationService) DeletePresentation(ctx context.Context, caller authz.Caller, presentationID uuid.UUID) error {
	presentation, err := s.findPresentation(ctx, presentationID)
	if err != nil {
		return err
	}

	if !authz.CanManagePresentation(caller, presentation) {
		return apperror.ErrForbidden
	}

	if presentation.SourceType == entity.SourceUpload && presentation.SourceURL != nil {
		_ = s.fileStorage.DeleteFile(ctx, *presentation.SourceURL)
	}

	return s.repo.Delete(ctx, presentationID)
}

func (s *presentationService) findPresentation(ctx context.Context, presentationID uuid.UUID) (*entity.Presentation, error) {
	presentation, err := s.repo.FindByID(ctx, presentationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}
	return presentation, nil
}

func buildView(presentation *entity.Presentation) *dto.PresentationView {
	return &dto.PresentationView{
		Presentation: presentation,
		Content:      presentation.GetContent(),
	}
}
