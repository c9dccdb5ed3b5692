package history

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// PostgresStore implements HistoryStore with PostgreSQL storage
type PostgresStore struct {
	db *bun.DB
}

// NewPostgresStore creates a new PostgreSQL store
func NewPostgresStore(db *bun.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// CreateSession inserts one session row. Readers never see the session
// before this insert commits.
func (s *PostgresStore) CreateSession(ctx context.Context, session *Session) error {
	schema := sessionToSchema(session)

	_, err := s.db.NewInsert().
		Model(&schema).
		Exec(ctx)
	if err != nil {
		if isIntegrityViolation(err) {
			return NewSessionAlreadyExistsError(session.SessionID, "session already exists")
		}
		return NewSessionQueryError(session.SessionID, "failed to create session", err)
	}

	return nil
}

// GetSession retrieves a session by ID
func (s *PostgresStore) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	var schema SessionSchema
	err := s.db.NewSelect().
		Model(&schema).
		Where("session_id = ?", sessionID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewSessionNotFoundError(sessionID)
		}
		return nil, NewSessionQueryError(sessionID, "failed to get session", err)
	}

	session := schemaToSession(schema)
	return &session, nil
}

// AttachStyleAnalysis inserts the analysis row for an existing session.
// The session_id primary key rejects a second analysis for the same session.
func (s *PostgresStore) AttachStyleAnalysis(ctx context.Context, analysis *StyleAnalysis) error {
	if _, err := s.GetSession(ctx, analysis.SessionID); err != nil {
		return err
	}

	schema := analysisToSchema(analysis)
	_, err := s.db.NewInsert().
		Model(&schema).
		Exec(ctx)
	if err != nil {
		if isIntegrityViolation(err) {
			return NewSessionAlreadyExistsError(analysis.SessionID, "style analysis already attached")
		}
		return NewSessionQueryError(analysis.SessionID, "failed to attach style analysis", err)
	}

	return nil
}

// AttachGeneratedImage inserts one generated image row. An empty image path
// records a failed generation for its occasion.
func (s *PostgresStore) AttachGeneratedImage(ctx context.Context, image *GeneratedImage) error {
	if _, err := s.GetSession(ctx, image.SessionID); err != nil {
		return err
	}

	schema := imageToSchema(image)
	_, err := s.db.NewInsert().
		Model(&schema).
		Exec(ctx)
	if err != nil {
		return NewSessionQueryError(image.SessionID, "failed to attach generated image", err)
	}

	return nil
}

// ListSessions returns all sessions newest-first with their generated images
// joined in. No pagination.
func (s *PostgresStore) ListSessions(ctx context.Context) ([]SessionSummary, error) {
	var sessionSchemas []SessionSchema
	err := s.db.NewSelect().
		Model(&sessionSchemas).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, NewSessionQueryError("", "failed to list sessions", err)
	}

	var imageSchemas []GeneratedImageSchema
	err = s.db.NewSelect().
		Model(&imageSchemas).
		Scan(ctx)
	if err != nil {
		return nil, NewSessionQueryError("", "failed to list generated images", err)
	}

	imagesBySession := make(map[string][]GeneratedImage)
	for _, schema := range imageSchemas {
		imagesBySession[schema.SessionID] = append(imagesBySession[schema.SessionID], schemaToImage(schema))
	}

	summaries := make([]SessionSummary, 0, len(sessionSchemas))
	for _, schema := range sessionSchemas {
		summaries = append(summaries, SessionSummary{
			Session: schemaToSession(schema),
			Images:  imagesBySession[schema.SessionID],
		})
	}

	return summaries, nil
}

// GetSessionDetail returns the session plus its analysis and images. A missing
// analysis row is not an error; the detail just carries no analysis.
func (s *PostgresStore) GetSessionDetail(ctx context.Context, sessionID string) (*SessionDetail, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	detail := &SessionDetail{Session: *session, Images: []GeneratedImage{}}

	var analysisSchema StyleAnalysisSchema
	err = s.db.NewSelect().
		Model(&analysisSchema).
		Where("session_id = ?", sessionID).
		Scan(ctx)
	if err == nil {
		detail.Analysis = schemaToAnalysis(analysisSchema)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, NewSessionQueryError(sessionID, "failed to get style analysis", err)
	}

	var imageSchemas []GeneratedImageSchema
	err = s.db.NewSelect().
		Model(&imageSchemas).
		Where("session_id = ?", sessionID).
		Scan(ctx)
	if err != nil {
		return nil, NewSessionQueryError(sessionID, "failed to get generated images", err)
	}
	for _, schema := range imageSchemas {
		detail.Images = append(detail.Images, schemaToImage(schema))
	}

	return detail, nil
}

// DeleteSession removes the session and its child rows in one transaction,
// children first to satisfy referential order, and returns the file paths the
// caller should remove. The transaction commits regardless of whether file
// removal later succeeds; the database never references a deleted session.
func (s *PostgresStore) DeleteSession(ctx context.Context, sessionID string) ([]string, error) {
	var paths []string

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var sessionSchema SessionSchema
		err := tx.NewSelect().
			Model(&sessionSchema).
			Where("session_id = ?", sessionID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return NewSessionNotFoundError(sessionID)
			}
			return NewSessionQueryError(sessionID, "failed to get session", err)
		}

		if sessionSchema.InputImagePath != "" {
			paths = append(paths, sessionSchema.InputImagePath)
		}

		var imageSchemas []GeneratedImageSchema
		err = tx.NewSelect().
			Model(&imageSchemas).
			Where("session_id = ?", sessionID).
			Scan(ctx)
		if err != nil {
			return NewSessionQueryError(sessionID, "failed to get generated images", err)
		}
		for _, schema := range imageSchemas {
			if schema.ImagePath != "" {
				paths = append(paths, schema.ImagePath)
			}
		}

		if _, err := tx.NewDelete().
			Model((*GeneratedImageSchema)(nil)).
			Where("session_id = ?", sessionID).
			Exec(ctx); err != nil {
			return NewSessionQueryError(sessionID, "failed to delete generated images", err)
		}

		if _, err := tx.NewDelete().
			Model((*StyleAnalysisSchema)(nil)).
			Where("session_id = ?", sessionID).
			Exec(ctx); err != nil {
			return NewSessionQueryError(sessionID, "failed to delete style analysis", err)
		}

		if _, err := tx.NewDelete().
			Model((*SessionSchema)(nil)).
			Where("session_id = ?", sessionID).
			Exec(ctx); err != nil {
			return NewSessionQueryError(sessionID, "failed to delete session", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return paths, nil
}

// ClearSessions removes every history row, children first.
func (s *PostgresStore) ClearSessions(ctx context.Context) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, model := range []interface{}{
			(*GeneratedImageSchema)(nil),
			(*StyleAnalysisSchema)(nil),
			(*SessionSchema)(nil),
		} {
			if _, err := tx.NewDelete().
				Model(model).
				Where("TRUE").
				Exec(ctx); err != nil {
				return NewSessionQueryError("", "failed to clear sessions", err)
			}
		}
		return nil
	})
}

func isIntegrityViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.IntegrityViolation()
}
