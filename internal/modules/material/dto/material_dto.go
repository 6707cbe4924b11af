package dto

import "io"

type CreateMaterialInput struct {
	Name        string  `form:"name" json:"name" binding:"required"`
	Description string  `form:"description" json:"description"`
	Type        string  `form:"type" json:"type" binding:"required"`
	ClassID     string  `form:"class_id" json:"class_id" binding:"required"`
	IsPublic    *bool   `form:"is_public" json:"is_public"`
	URL         *string `form:"url" json:"url"`
}

type UpdateMaterialInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
	IsPublic    *bool   `json:"is_public"`
	URL         *string `json:"url"`
}

// MaterialFile carries an uploaded file stream into the service layer.
type MaterialFile struct {
	Reader   io.Reader
	FileName string
	Size     int64
	MimeType string
}

type MaterialTypeInfo struct {
	Type        string   `json:"type"`
	Label       string   `json:"label"`
	Extensions  []string `json:"extensions"`
	Description string   `json:"description"`
}

type DownloadResult struct {
	URL  string `json:"download_url"`
	Name string `json:"name"`
}
