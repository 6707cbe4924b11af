package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PresentationStatus string

const (
	PresentationDraft      PresentationStatus = "draft"
	PresentationGenerating PresentationStatus = "generating"
	PresentationCompleted  PresentationStatus = "completed"
)

type SourceType string

const (
	SourceAI     SourceType = "ai"
	SourceLink   SourceType = "link"
	SourceUpload SourceType = "upload"
)

func (t SourceType) Valid() bool {
	switch t {
	case SourceAI, SourceLink, SourceUpload:
		return true
	}
	return false
}

// Slide is one entry of a presentation's content blob.
type Slide struct {
	ID       int    `json:"id"`
	Type     string `json:"type"` // "title", "content", "conclusion"
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Content  string `json:"content"`
	Notes    string `json:"notes,omitempty"`
}

// DeckContent is the structured content blob of a presentation. It is
// written at creation and never left null afterwards.
type DeckContent struct {
	Slides []Slide `json:"slides"`
}

type Presentation struct {
	ID          uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string             `gorm:"size:200;not null" json:"title"`
	Topic       string             `gorm:"size:100;not null" json:"topic"`
	Audience    string             `gorm:"size:100" json:"audience"`
	Duration    string             `gorm:"size:20" json:"duration"`
	Style       string             `gorm:"size:50;default:professional" json:"style"`
	Status      PresentationStatus `gorm:"size:20;default:draft" json:"status"`
	SourceType  SourceType         `gorm:"size:20;default:ai" json:"source_type"`
	SourceURL   *string            `gorm:"size:500" json:"source_url,omitempty"`
	Content     string             `gorm:"type:jsonb;not null;default:'{\"slides\":[]}'" json:"-"`
	SlidesCount int                `gorm:"default:0" json:"slides_count"`
	ViewsCount  int                `gorm:"default:0" json:"views_count"`
	AuthorID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"author_id"`
	CreatedAt   time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Presentation) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Content == "" {
		p.Content = `{"slides":[]}`
	}
	return nil
}

// GetContent parses the content blob. A corrupt blob degrades to an empty deck.
func (p *Presentation) GetContent() DeckContent {
	var content DeckContent
	if err := json.Unmarshal([]byte(p.Content), &content); err != nil {
		return DeckContent{Slides: []Slide{}}
	}
	if content.Slides == nil {
		content.Slides = []Slide{}
	}
	return content
}

// SetContent stores the content blob and keeps slides_count in sync.
func (p *Presentation) SetContent(content DeckContent) error {
	if content.Slides == nil {
		content.Slides = []Slide{}
	}
	raw, err := json.Marshal(content)
	if err != nil {
		return err
	}
	p.Content = string(raw)
	p.SlidesCount = len(content.Slides)
	return nil
}
