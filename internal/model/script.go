package model

import (
	"time"

	"github.com/google/uuid"
)

type Script struct {
	ID          uuid.UUID      `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Content     string         `json:"content"`
	Language    string         `json:"language"`
	Tags        []string       `json:"tags"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedBy   uuid.UUID      `json:"created_by"`
	UpdatedBy   uuid.UUID      `json:"updated_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ScriptFilter narrows and paginates script listings.
type ScriptFilter struct {
	Language string
	Tag      string
	Page     int
	Limit    int
}
