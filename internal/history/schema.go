package history

import (
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SessionSchema represents the sessions table
type SessionSchema struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	SessionID        string `bun:"session_id,pk" json:"session_id"`
	CreatedAt        int64  `bun:"created_at,notnull" json:"created_at"`
	Kind             string `bun:"kind,notnull" json:"kind"`
	InputImagePath   string `bun:"input_image_path,notnull" json:"input_image_path"`
	PreviewImagePath string `bun:"preview_image_path" json:"preview_image_path"`
}

// StyleAnalysisSchema represents the style_analyses table.
// session_id is the primary key, so a second analysis for the same session
// is rejected at the schema level.
type StyleAnalysisSchema struct {
	bun.BaseModel `bun:"table:style_analyses,alias:sa"`

	SessionID      string            `bun:"session_id,pk" json:"session_id"`
	ApparelPresent bool              `bun:"apparel_present,notnull" json:"apparel_present"`
	Details        []string          `bun:"details,type:jsonb" json:"details"`
	Suggestions    map[string]string `bun:"suggestions,type:jsonb" json:"suggestions"`
}

// GeneratedImageSchema represents the generated_images table
type GeneratedImageSchema struct {
	bun.BaseModel `bun:"table:generated_images,alias:gi"`

	ID           uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	SessionID    string    `bun:"session_id,notnull" json:"session_id"`
	Occasion     string    `bun:"occasion,notnull" json:"occasion"`
	ImagePath    string    `bun:"image_path" json:"image_path"`
	ErrorMessage string    `bun:"error_message" json:"error_message,omitempty"`
}

func sessionToSchema(session *Session) SessionSchema {
	return SessionSchema{
		SessionID:        session.SessionID,
		CreatedAt:        session.CreatedAt,
		Kind:             string(session.Kind),
		InputImagePath:   session.InputImagePath,
		PreviewImagePath: session.PreviewImagePath,
	}
}

func schemaToSession(schema SessionSchema) Session {
	return Session{
		SessionID:        schema.SessionID,
		CreatedAt:        schema.CreatedAt,
		Kind:             SessionKind(schema.Kind),
		InputImagePath:   schema.InputImagePath,
		PreviewImagePath: schema.PreviewImagePath,
	}
}

func analysisToSchema(analysis *StyleAnalysis) StyleAnalysisSchema {
	return StyleAnalysisSchema{
		SessionID:      analysis.SessionID,
		ApparelPresent: analysis.ApparelPresent,
		Details:        analysis.Details,
		Suggestions:    analysis.Suggestions,
	}
}

func schemaToAnalysis(schema StyleAnalysisSchema) *StyleAnalysis {
	return &StyleAnalysis{
		SessionID:      schema.SessionID,
		ApparelPresent: schema.ApparelPresent,
		Details:        schema.Details,
		Suggestions:    schema.Suggestions,
	}
}

func imageToSchema(image *GeneratedImage) GeneratedImageSchema {
	return GeneratedImageSchema{
		ID:           image.ID,
		SessionID:    image.SessionID,
		Occasion:     image.Occasion,
		ImagePath:    image.ImagePath,
		ErrorMessage: image.ErrorMessage,
	}
}

func schemaToImage(schema GeneratedImageSchema) GeneratedImage {
	return GeneratedImage{
		ID:           schema.ID,
		SessionID:    schema.SessionID,
		Occasion:     schema.Occasion,
		ImagePath:    schema.ImagePath,
		ErrorMessage: schema.ErrorMessage,
	}
}
