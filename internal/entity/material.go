package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MaterialType string

const (
	MaterialPDF          MaterialType = "pdf"
	MaterialPresentation MaterialType = "presentation"
	MaterialVideo        MaterialType = "video"
	MaterialAudio        MaterialType = "audio"
	MaterialImage        MaterialType = "image"
	MaterialDocument     MaterialType = "document"
	MaterialLink         MaterialType = "link"
)

func (t MaterialType) Valid() bool {
	switch t {
	case MaterialPDF, MaterialPresentation, MaterialVideo, MaterialAudio,
		MaterialImage, MaterialDocument, MaterialLink:
		return true
	}
	return false
}

type Material struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string       `gorm:"size:200;not null" json:"name"`
	Description   string       `gorm:"type:text" json:"description"`
	Type          MaterialType `gorm:"size:50;not null" json:"type"`
	FileURL       *string      `gorm:"type:text" json:"file_url,omitempty"`
	URL           *string      `gorm:"size:500" json:"url,omitempty"`
	FileSize      *int64       `json:"file_size,omitempty"`
	MimeType      *string      `gorm:"size:100" json:"mime_type,omitempty"`
	IsPublic      bool         `gorm:"default:true" json:"is_public"`
	DownloadCount int          `gorm:"default:0" json:"download_count"`
	ClassID       uuid.UUID    `gorm:"type:uuid;not null;index;constraint:OnDelete:CASCADE" json:"class_id"`
	UploadedBy    uuid.UUID    `gorm:"type:uuid;not null" json:"uploaded_by"`
	CreatedAt     time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

func (m *Material) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Downloadable reports whether at least one source resolves.
func (m *Material) Downloadable() bool {
	return m.FileURL != nil || m.URL != nil
}

// DownloadURL returns the external URL when present, otherwise the stored file.
func (m *Material) DownloadURL() string {
	if m.URL != nil {
		return *m.URL
	}
	if m.FileURL != nil {
		return *m.FileURL
	}
	return ""
}
