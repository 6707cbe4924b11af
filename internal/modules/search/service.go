// Package search keeps the Meilisearch indexes of the catalog in sync.
// Indexing is best effort: a nil client turns every call into a no-op so
// the platform runs without a search backend.
package search

import (
	"log"

	"github.com/meilisearch/meilisearch-go"
	"henryedu.com/henryplatform/internal/entity"
)

type SearchService interface {
	IndexClass(class *entity.Class, professorName string) error
	IndexMaterial(material *entity.Material, className string) error
	DeleteClass(id string) error
	DeleteMaterial(id string) error
}

type searchService struct {
	client meilisearch.ServiceManager
}

func NewSearchService(client meilisearch.ServiceManager) SearchService {
	s := &searchService{client: client}
	if client != nil {
		s.initIndexes()
	}
	return s
}

func (s *searchService) initIndexes() {
	classFilterable := []any{"subject", "semester", "status"}
	if _, err := s.client.Index("classes").UpdateFilterableAttributes(&classFilterable); err != nil {
		log.Printf("Failed to update classes filterable attributes: %v", err)
	}

	classSortable := []string{"created_at", "enrolled_count"}
	if _, err := s.client.Index("classes").UpdateSortableAttributes(&classSortable); err != nil {
		log.Printf("Failed to update classes sortable attributes: %v", err)
	}

	materialFilterable := []any{"type", "class_id", "is_public"}
	if _, err := s.client.Index("materials").UpdateFilterableAttributes(&materialFilterable); err != nil {
		log.Printf("Failed to update materials filterable attributes: %v", err)
	}

	materialSortable := []string{"created_at", "download_count"}
	if _, err := s.client.Index("materials").UpdateSortableAttributes(&materialSortable); err != nil {
		log.Printf("Failed to update materials sortable attributes: %v", err)
	}

	log.Println("Meilisearch indexes initialized")
}

type meiliClassDoc struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Subject       string `json:"subject"`
	Semester      string `json:"semester"`
	Status        string `json:"status"`
	ProfessorName string `json:"professor_name"`
	EnrolledCount int    `json:"enrolled_count"`
	CreatedAt     int64  `json:"created_at"`
}

type meiliMaterialDoc struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Type          string `json:"type"`
	ClassID       string `json:"class_id"`
	ClassName     string `json:"class_name"`
	IsPublic      bool   `json:"is_public"`
	DownloadCount int    `json:"download_count"`
	CreatedAt     int64  `json:"created_at"`
}

func (s *searchService) IndexClass(class *entity.Class, professorName string) error {
	if s.client == nil {
		return nil
	}

	doc := meiliClassDoc{
		ID:            class.ID.String(),
		Name:          class.Name,
		Description:   class.Description,
		Subject:       class.Subject,
		Semester:      class.Semester,
		Status:        string(class.Status),
		ProfessorName: professorName,
		EnrolledCount: class.EnrolledCount,
		CreatedAt:     class.CreatedAt.Unix(),
	}

	task, err := s.client.Index("classes").AddDocuments([]meiliClassDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed class %s, task id: %d", class.ID, task.TaskUID)
	return nil
}

func (s *searchService) IndexMaterial(material *entity.Material, className string) error {
	if s.client == nil {
		return nil
	}

	doc := meiliMaterialDoc{
		ID:            material.ID.String(),
		Name:          material.Name,
		Description:   material.Description,
		Type:          string(material.Type),
		ClassID:       material.ClassID.String(),
		ClassName:     className,
		IsPublic:      material.IsPublic,
		DownloadCount: material.DownloadCount,
		CreatedAt:     material.CreatedAt.Unix(),
	}

	task, err := s.client.Index("materials").AddDocuments([]meiliMaterialDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	log.Printf("Indexed material %s, task id: %d", material.ID, task.TaskUID)
	return nil
}

func (s *searchService) DeleteClass(id string) error {
	if s.client == nil {
		return nil
	}
	_, err := s.client.Index("classes").DeleteDocument(id)
	return err
}

func (s *searchService) DeleteMaterial(id string) error {
	if s.client == nil {
		return nil
	}
	_, err := s.client.Index("materials").DeleteDocument(id)
	return err
}

func strPtr(s string) *string {
	return &s
}
