package dto

import (
	"time"

	"github.com/google/uuid"
)

type IngestTextRequest struct {
	Text string `json:"text" validate:"required"`
}

type IngestVideoRequest struct {
	Url string `json:"url" validate:"required,url"`
}

// Document uploads arrive as multipart form data ("file" field), so they
// have no request body struct.

type IngestMaterialResponse struct {
	SessionId  string    `json:"session_id"`
	MaterialId uuid.UUID `json:"material_id"`
	Kind       string    `json:"kind"`
	Filename   string    `json:"filename,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type MaterialStatusResponse struct {
	HasMaterial bool       `json:"has_material"`
	MaterialId  *uuid.UUID `json:"material_id,omitempty"`
	Kind        string     `json:"kind,omitempty"`
	Filename    string     `json:"filename,omitempty"`
	UploadedAt  *time.Time `json:"uploaded_at,omitempty"`
	HasStore    bool       `json:"has_store"`
}
