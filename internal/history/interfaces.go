package history

import "context"

// HistoryManager defines the interface for session history operations
type HistoryManager interface {
	CreateSession(ctx context.Context, req *CreateSessionRequest) (*Session, error)
	AttachStyleAnalysis(ctx context.Context, sessionID string, apparelPresent bool, details []string, suggestions map[string]string) error
	AttachGeneratedImage(ctx context.Context, sessionID, occasion, imagePath, errorMessage string) error
	ListSessions(ctx context.Context) ([]SessionSummary, error)
	GetSessionDetail(ctx context.Context, sessionID string) (*SessionDetail, error)
	DeleteSession(ctx context.Context, sessionID string) ([]string, error)
	ClearSessions(ctx context.Context) error
}

// HistoryStore defines the interface for session history storage operations
type HistoryStore interface {
	CreateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, sessionID string) (*Session, error)
	AttachStyleAnalysis(ctx context.Context, analysis *StyleAnalysis) error
	AttachGeneratedImage(ctx context.Context, image *GeneratedImage) error
	ListSessions(ctx context.Context) ([]SessionSummary, error)
	GetSessionDetail(ctx context.Context, sessionID string) (*SessionDetail, error)
	// DeleteSession removes the session and its child rows in one transaction
	// and returns the file paths the caller should remove from disk.
	DeleteSession(ctx context.Context, sessionID string) ([]string, error)
	ClearSessions(ctx context.Context) error
}
