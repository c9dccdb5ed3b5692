package stylist

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shuamamine/outfit-backend/internal/filestore"
	"github.com/shuamamine/outfit-backend/internal/history"
)

func newTestAssembler(t *testing.T) (*Assembler, *filestore.Store, history.HistoryManager) {
	t.Helper()

	files, err := filestore.New(filepath.Join(t.TempDir(), "history"), zap.NewNop())
	require.NoError(t, err)

	historyService := history.NewHistoryService(history.NewInMemoryStore())
	return NewAssembler(files, historyService, zap.NewNop()), files, historyService
}

func testAnalysis() *AnalysisResult {
	return &AnalysisResult{
		ApparelPresent: true,
		Details:        []string{"brown ribbed shirt"},
		Suggestions: map[string]string{
			OccasionParty:    "dark skirt with gold accessories",
			OccasionOffice:   "tailored beige trousers",
			OccasionVacation: "flowy linen skirt",
		},
	}
}

func TestAssembleFullSession(t *testing.T) {
	ctx := context.Background()
	assembler, files, _ := newTestAssembler(t)

	outcomes := []OccasionOutcome{
		{Occasion: OccasionParty, Image: []byte("party-image")},
		{Occasion: OccasionOffice, Image: []byte("office-image")},
		{Occasion: OccasionVacation, Image: []byte("vacation-image")},
	}

	detail, err := assembler.AssembleFullSession(ctx, []byte("input-image"), testAnalysis(), outcomes)
	require.NoError(t, err)

	assert.Equal(t, history.SessionKindFullAnalysis, detail.Kind)
	assert.True(t, files.Exists(detail.InputImagePath))

	require.NotNil(t, detail.Analysis)
	assert.True(t, detail.Analysis.ApparelPresent)

	require.Len(t, detail.Images, 3)
	for _, img := range detail.Images {
		assert.NotEmpty(t, img.ImagePath)
		assert.True(t, files.Exists(img.ImagePath))
		assert.Empty(t, img.ErrorMessage)
	}

	// party output is the preview
	assert.Contains(t, detail.PreviewImagePath, "output_party_")
}

func TestAssembleFullSessionFailForward(t *testing.T) {
	ctx := context.Background()
	assembler, files, _ := newTestAssembler(t)

	outcomes := []OccasionOutcome{
		{Occasion: OccasionParty, Err: NewGenerationError(OccasionParty, "model refused", nil)},
		{Occasion: OccasionOffice, Image: []byte("office-image")},
		{Occasion: OccasionVacation, Image: []byte("vacation-image")},
	}

	detail, err := assembler.AssembleFullSession(ctx, []byte("input-image"), testAnalysis(), outcomes)
	require.NoError(t, err)

	require.Len(t, detail.Images, 3)

	byOccasion := make(map[string]history.GeneratedImage)
	for _, img := range detail.Images {
		byOccasion[img.Occasion] = img
	}

	// the failed occasion is recorded with an empty path and its reason
	assert.Empty(t, byOccasion[OccasionParty].ImagePath)
	assert.Contains(t, byOccasion[OccasionParty].ErrorMessage, "model refused")

	// siblings are untouched by the failure
	assert.True(t, files.Exists(byOccasion[OccasionOffice].ImagePath))
	assert.True(t, files.Exists(byOccasion[OccasionVacation].ImagePath))

	// preview falls back to a rendered occasion
	assert.Contains(t, detail.PreviewImagePath, "output_office_")
}

func TestAssembleSingleOutfit(t *testing.T) {
	ctx := context.Background()
	assembler, files, _ := newTestAssembler(t)

	t.Run("Success", func(t *testing.T) {
		detail, err := assembler.AssembleSingleOutfit(ctx, []byte("input-image"), OccasionOutcome{
			Occasion: OccasionCustom,
			Image:    []byte("custom-image"),
		})
		require.NoError(t, err)

		assert.Equal(t, history.SessionKindSingleOutfit, detail.Kind)
		assert.Nil(t, detail.Analysis)
		require.Len(t, detail.Images, 1)
		assert.Equal(t, OccasionCustom, detail.Images[0].Occasion)
		assert.True(t, files.Exists(detail.Images[0].ImagePath))
		assert.Equal(t, detail.Images[0].ImagePath, detail.PreviewImagePath)
	})

	t.Run("GenerationFailureStillPersisted", func(t *testing.T) {
		detail, err := assembler.AssembleSingleOutfit(ctx, []byte("input-image"), OccasionOutcome{
			Occasion: OccasionCustom,
			Err:      NewGenerationError(OccasionCustom, "quota exceeded", nil),
		})
		require.NoError(t, err)

		assert.True(t, files.Exists(detail.InputImagePath))
		require.Len(t, detail.Images, 1)
		assert.Empty(t, detail.Images[0].ImagePath)
		assert.Contains(t, detail.Images[0].ErrorMessage, "quota exceeded")
		assert.Empty(t, detail.PreviewImagePath)
	})
}

func TestFileAndRowStoresAreDecoupled(t *testing.T) {
	ctx := context.Background()
	assembler, files, historyService := newTestAssembler(t)

	detail, err := assembler.AssembleFullSession(ctx, []byte("input-image"), testAnalysis(), []OccasionOutcome{
		{Occasion: OccasionParty, Image: []byte("party-image")},
	})
	require.NoError(t, err)

	require.NoError(t, files.ClearAll())

	// rows survive a file wipe; the referenced files just no longer resolve
	summaries, err := historyService.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, detail.SessionID, summaries[0].SessionID)

	assert.False(t, files.Exists(detail.InputImagePath))
	assert.False(t, files.Exists(detail.Images[0].ImagePath))
}
