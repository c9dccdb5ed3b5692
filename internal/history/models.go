package history

import "github.com/google/uuid"

// SessionKind distinguishes the two request flavors the service supports.
type SessionKind string

const (
	SessionKindFullAnalysis SessionKind = "full-analysis"
	SessionKindSingleOutfit SessionKind = "single-outfit"
)

// Valid reports whether the kind is one of the supported session kinds.
func (k SessionKind) Valid() bool {
	return k == SessionKindFullAnalysis || k == SessionKindSingleOutfit
}

// Session represents one user-initiated styling request.
type Session struct {
	SessionID        string      `json:"session_id"`
	CreatedAt        int64       `json:"created_at"` // milliseconds since epoch, ordering key
	Kind             SessionKind `json:"kind"`
	InputImagePath   string      `json:"input_image_path"`
	PreviewImagePath string      `json:"preview_image_path,omitempty"`
}

// StyleAnalysis holds the model's judgement of the uploaded apparel.
// It exists only for full-analysis sessions, at most one per session.
type StyleAnalysis struct {
	SessionID      string            `json:"session_id"`
	ApparelPresent bool              `json:"apparel_present"`
	Details        []string          `json:"details"`
	Suggestions    map[string]string `json:"suggestions"`
}

// GeneratedImage records one rendered outfit for a session. An empty ImagePath
// records a generation failure without discarding the rest of the session.
type GeneratedImage struct {
	ID           uuid.UUID `json:"id"`
	SessionID    string    `json:"session_id"`
	Occasion     string    `json:"occasion"`
	ImagePath    string    `json:"image_path"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// SessionSummary is one entry of the history feed: the session with its
// generated images joined in.
type SessionSummary struct {
	Session
	Images []GeneratedImage `json:"images"`
}

// SessionDetail is the full record for one session. Analysis is nil for
// single-outfit sessions and for sessions whose analysis row is missing;
// callers treat that as "analysis unavailable", not as an error.
type SessionDetail struct {
	Session
	Analysis *StyleAnalysis   `json:"analysis,omitempty"`
	Images   []GeneratedImage `json:"images"`
}

// CreateSessionRequest carries the immutable fields of a new session.
// The session identifier is allocated by the service.
type CreateSessionRequest struct {
	Kind             SessionKind
	InputImagePath   string
	PreviewImagePath string
}
