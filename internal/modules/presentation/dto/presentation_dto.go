package dto

import (
	"io"

	"henryedu.com/henryplatform/internal/entity"
)

type CreatePresentationInput struct {
	Title      string  `form:"title" json:"title" binding:"required"`
	Topic      string  `form:"topic" json:"topic" binding:"required"`
	Audience   string  `form:"audience" json:"audience"`
	Duration   string  `form:"duration" json:"duration"`
	Style      string  `form:"style" json:"style"`
	SourceType string  `form:"source_type" json:"source_type" binding:"required"`
	SourceURL  *string `form:"source_url" json:"source_url"`
}

type UpdatePresentationInput struct {
	Title    *string `json:"title"`
	Topic    *string `json:"topic"`
	Audience *string `json:"audience"`
	Duration *string `json:"duration"`
	Style    *string `json:"style"`
}

// DeckFile carries an uploaded slide file into the service layer.
type DeckFile struct {
	Reader   io.Reader
	FileName string
}

// PresentationView exposes the content blob the entity keeps off its own
// JSON representation.
type PresentationView struct {
	*entity.Presentation
	Content entity.DeckContent `json:"content"`
}
