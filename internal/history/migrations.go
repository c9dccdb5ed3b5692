package history

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// SessionIndexes are created after the tables exist. The history feed reads
// sessions newest-first, and both child tables are always filtered by session.
var SessionIndexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_sessions_created_at ON sessions (created_at DESC)",
	"CREATE INDEX IF NOT EXISTS idx_generated_images_session_id ON generated_images (session_id)",
}

// CreateTables creates all tables used by the history store
func CreateTables(ctx context.Context, db *bun.DB) error {
	models := []interface{}{
		(*SessionSchema)(nil),
		(*StyleAnalysisSchema)(nil),
		(*GeneratedImageSchema)(nil),
	}

	for _, model := range models {
		_, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create table for model %T: %w", model, err)
		}
	}

	return nil
}

// CreateIndexes creates the indexes for the history tables
func CreateIndexes(ctx context.Context, db *bun.DB) error {
	for _, indexSQL := range SessionIndexes {
		_, err := db.ExecContext(ctx, indexSQL)
		if err != nil {
			return fmt.Errorf("failed to create index with SQL %q: %w", indexSQL, err)
		}
	}

	return nil
}
