package history

import (
	"context"
	"sort"
	"sync"
)

// InMemoryStore implements HistoryStore with in-memory storage. It backs unit
// tests and local development without a database; semantics match the
// PostgreSQL store.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	analyses map[string]*StyleAnalysis
	images   map[string][]GeneratedImage
}

// NewInMemoryStore creates a new in-memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]*Session),
		analyses: make(map[string]*StyleAnalysis),
		images:   make(map[string][]GeneratedImage),
	}
}

func (s *InMemoryStore) CreateSession(ctx context.Context, session *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.SessionID]; ok {
		return NewSessionAlreadyExistsError(session.SessionID, "session already exists")
	}

	copied := *session
	s.sessions[session.SessionID] = &copied
	return nil
}

func (s *InMemoryStore) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, NewSessionNotFoundError(sessionID)
	}

	copied := *session
	return &copied, nil
}

func (s *InMemoryStore) AttachStyleAnalysis(ctx context.Context, analysis *StyleAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[analysis.SessionID]; !ok {
		return NewSessionNotFoundError(analysis.SessionID)
	}
	if _, ok := s.analyses[analysis.SessionID]; ok {
		return NewSessionAlreadyExistsError(analysis.SessionID, "style analysis already attached")
	}

	copied := *analysis
	s.analyses[analysis.SessionID] = &copied
	return nil
}

func (s *InMemoryStore) AttachGeneratedImage(ctx context.Context, image *GeneratedImage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[image.SessionID]; !ok {
		return NewSessionNotFoundError(image.SessionID)
	}

	s.images[image.SessionID] = append(s.images[image.SessionID], *image)
	return nil
}

func (s *InMemoryStore) ListSessions(ctx context.Context) ([]SessionSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]SessionSummary, 0, len(s.sessions))
	for id, session := range s.sessions {
		summaries = append(summaries, SessionSummary{
			Session: *session,
			Images:  append([]GeneratedImage(nil), s.images[id]...),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].CreatedAt != summaries[j].CreatedAt {
			return summaries[i].CreatedAt > summaries[j].CreatedAt
		}
		return summaries[i].SessionID > summaries[j].SessionID
	})

	return summaries, nil
}

func (s *InMemoryStore) GetSessionDetail(ctx context.Context, sessionID string) (*SessionDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, NewSessionNotFoundError(sessionID)
	}

	detail := &SessionDetail{
		Session: *session,
		Images:  append([]GeneratedImage{}, s.images[sessionID]...),
	}
	if analysis, ok := s.analyses[sessionID]; ok {
		copied := *analysis
		detail.Analysis = &copied
	}

	return detail, nil
}

func (s *InMemoryStore) DeleteSession(ctx context.Context, sessionID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, NewSessionNotFoundError(sessionID)
	}

	var paths []string
	if session.InputImagePath != "" {
		paths = append(paths, session.InputImagePath)
	}
	for _, image := range s.images[sessionID] {
		if image.ImagePath != "" {
			paths = append(paths, image.ImagePath)
		}
	}

	delete(s.images, sessionID)
	delete(s.analyses, sessionID)
	delete(s.sessions, sessionID)

	return paths, nil
}

func (s *InMemoryStore) ClearSessions(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = make(map[string]*Session)
	s.analyses = make(map[string]*StyleAnalysis)
	s.images = make(map[string][]GeneratedImage)
	return nil
}
