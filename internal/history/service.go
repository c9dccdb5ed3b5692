package history

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// HistoryService implements the HistoryManager interface
type HistoryService struct {
	store HistoryStore
}

// NewHistoryService creates a new history service
func NewHistoryService(store HistoryStore) *HistoryService {
	return &HistoryService{store: store}
}

// CreateSession allocates a fresh session identifier, inserts the session row
// and returns the session. Identifiers are random, so concurrent callers never
// receive the same one.
func (s *HistoryService) CreateSession(ctx context.Context, req *CreateSessionRequest) (*Session, error) {
	if !req.Kind.Valid() {
		return nil, NewSessionValidationError("", "kind must be full-analysis or single-outfit")
	}
	if req.InputImagePath == "" {
		return nil, NewSessionValidationError("", "input_image_path is required")
	}

	session := &Session{
		SessionID:        "session-" + uuid.New().String(),
		CreatedAt:        time.Now().UnixMilli(),
		Kind:             req.Kind,
		InputImagePath:   req.InputImagePath,
		PreviewImagePath: req.PreviewImagePath,
	}

	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// AttachStyleAnalysis records the analysis for an existing full-analysis session
func (s *HistoryService) AttachStyleAnalysis(ctx context.Context, sessionID string, apparelPresent bool, details []string, suggestions map[string]string) error {
	if sessionID == "" {
		return NewSessionValidationError("", "session_id is required")
	}

	return s.store.AttachStyleAnalysis(ctx, &StyleAnalysis{
		SessionID:      sessionID,
		ApparelPresent: apparelPresent,
		Details:        details,
		Suggestions:    suggestions,
	})
}

// AttachGeneratedImage records one generated image for an existing session.
// An empty imagePath with a reason records a failed generation.
func (s *HistoryService) AttachGeneratedImage(ctx context.Context, sessionID, occasion, imagePath, errorMessage string) error {
	if sessionID == "" {
		return NewSessionValidationError("", "session_id is required")
	}
	if occasion == "" {
		return NewSessionValidationError(sessionID, "occasion is required")
	}

	return s.store.AttachGeneratedImage(ctx, &GeneratedImage{
		ID:           uuid.New(),
		SessionID:    sessionID,
		Occasion:     occasion,
		ImagePath:    imagePath,
		ErrorMessage: errorMessage,
	})
}

// ListSessions returns the history feed, newest first
func (s *HistoryService) ListSessions(ctx context.Context) ([]SessionSummary, error) {
	return s.store.ListSessions(ctx)
}

// GetSessionDetail returns the full record for one session
func (s *HistoryService) GetSessionDetail(ctx context.Context, sessionID string) (*SessionDetail, error) {
	if sessionID == "" {
		return nil, NewSessionValidationError("", "session_id is required")
	}
	return s.store.GetSessionDetail(ctx, sessionID)
}

// DeleteSession removes the session's rows and returns the file paths the
// caller should remove from disk.
func (s *HistoryService) DeleteSession(ctx context.Context, sessionID string) ([]string, error) {
	if sessionID == "" {
		return nil, NewSessionValidationError("", "session_id is required")
	}
	return s.store.DeleteSession(ctx, sessionID)
}

// ClearSessions removes every history row
func (s *HistoryService) ClearSessions(ctx context.Context) error {
	return s.store.ClearSessions(ctx)
}
