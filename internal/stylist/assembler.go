package stylist

import (
	"context"

	"go.uber.org/zap"

	"github.com/shuamamine/outfit-backend/internal/filestore"
	"github.com/shuamamine/outfit-backend/internal/history"
)

// Assembler turns the outputs of one completed request into a persisted
// session: file writes first, then the session row, then its child rows.
// Assembly is fail-forward: a failed occasion or a failed child-row write is
// recorded and logged, never fatal, so partial results stay visible.
type Assembler struct {
	files   *filestore.Store
	history history.HistoryManager
	logger  *zap.Logger
}

// NewAssembler creates a new session assembler
func NewAssembler(files *filestore.Store, historyService history.HistoryManager, logger *zap.Logger) *Assembler {
	return &Assembler{
		files:   files,
		history: historyService,
		logger:  logger,
	}
}

// storedOutcome is one occasion after its image hit disk (or failed to).
type storedOutcome struct {
	occasion string
	path     string
	reason   string
}

// AssembleFullSession persists a full-analysis request: input image, session
// row, style analysis, and one generated-image row per occasion. Failed
// occasions are recorded with an empty path and their reason.
func (a *Assembler) AssembleFullSession(ctx context.Context, input []byte, analysis *AnalysisResult, outcomes []OccasionOutcome) (*history.SessionDetail, error) {
	token := a.files.NewToken()

	inputPath, err := a.files.StoreUpload(input, string(history.SessionKindFullAnalysis), token)
	if err != nil {
		return nil, err
	}

	stored := a.storeOutcomes(outcomes, token)

	session, err := a.history.CreateSession(ctx, &history.CreateSessionRequest{
		Kind:             history.SessionKindFullAnalysis,
		InputImagePath:   inputPath,
		PreviewImagePath: previewPath(stored),
	})
	if err != nil {
		return nil, err
	}

	if err := a.history.AttachStyleAnalysis(ctx, session.SessionID, analysis.ApparelPresent, analysis.Details, analysis.Suggestions); err != nil {
		// fail-forward: the session survives without its analysis row
		a.logger.Error("failed to attach style analysis",
			zap.String("session_id", session.SessionID),
			zap.Error(err))
	}

	a.attachOutcomes(ctx, session.SessionID, stored)

	return a.history.GetSessionDetail(ctx, session.SessionID)
}

// AssembleSingleOutfit persists a single-outfit request: input image, session
// row, and one generated-image row (empty path when generation failed).
func (a *Assembler) AssembleSingleOutfit(ctx context.Context, input []byte, outcome OccasionOutcome) (*history.SessionDetail, error) {
	token := a.files.NewToken()

	inputPath, err := a.files.StoreUpload(input, string(history.SessionKindSingleOutfit), token)
	if err != nil {
		return nil, err
	}

	stored := a.storeOutcomes([]OccasionOutcome{outcome}, token)

	session, err := a.history.CreateSession(ctx, &history.CreateSessionRequest{
		Kind:             history.SessionKindSingleOutfit,
		InputImagePath:   inputPath,
		PreviewImagePath: previewPath(stored),
	})
	if err != nil {
		return nil, err
	}

	a.attachOutcomes(ctx, session.SessionID, stored)

	return a.history.GetSessionDetail(ctx, session.SessionID)
}

// storeOutcomes writes each successful occasion's image to the file store.
// A write failure downgrades that occasion to a recorded failure and the loop
// continues with its siblings.
func (a *Assembler) storeOutcomes(outcomes []OccasionOutcome, token string) []storedOutcome {
	stored := make([]storedOutcome, 0, len(outcomes))
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			stored = append(stored, storedOutcome{occasion: outcome.Occasion, reason: outcome.Err.Error()})
			continue
		}

		path, err := a.files.StoreGenerated(outcome.Image, outcome.Occasion, token)
		if err != nil {
			a.logger.Warn("failed to store generated image",
				zap.String("occasion", outcome.Occasion),
				zap.Error(err))
			stored = append(stored, storedOutcome{occasion: outcome.Occasion, reason: err.Error()})
			continue
		}

		stored = append(stored, storedOutcome{occasion: outcome.Occasion, path: path})
	}
	return stored
}

func (a *Assembler) attachOutcomes(ctx context.Context, sessionID string, stored []storedOutcome) {
	for _, so := range stored {
		if err := a.history.AttachGeneratedImage(ctx, sessionID, so.occasion, so.path, so.reason); err != nil {
			a.logger.Error("failed to attach generated image",
				zap.String("session_id", sessionID),
				zap.String("occasion", so.occasion),
				zap.Error(err))
		}
	}
}

// previewPath picks the representative image for the history feed: the party
// outfit when it rendered, otherwise the first rendered image.
func previewPath(stored []storedOutcome) string {
	preview := ""
	for _, so := range stored {
		if so.path == "" {
			continue
		}
		if so.occasion == OccasionParty {
			return so.path
		}
		if preview == "" {
			preview = so.path
		}
	}
	return preview
}
