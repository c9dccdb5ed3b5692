package history

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(id string, createdAt int64) *Session {
	return &Session{
		SessionID:      id,
		CreatedAt:      createdAt,
		Kind:           SessionKindFullAnalysis,
		InputImagePath: "input_" + id + ".jpg",
	}
}

func TestInMemoryStoreCreateAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	session := newTestSession("session-1", 1000)
	require.NoError(t, store.CreateSession(ctx, session))

	t.Run("GetSession", func(t *testing.T) {
		got, err := store.GetSession(ctx, "session-1")
		require.NoError(t, err)
		assert.Equal(t, "session-1", got.SessionID)
		assert.Equal(t, SessionKindFullAnalysis, got.Kind)
	})

	t.Run("DetailHasNoChildrenUntilAttached", func(t *testing.T) {
		detail, err := store.GetSessionDetail(ctx, "session-1")
		require.NoError(t, err)
		assert.Equal(t, "session-1", detail.SessionID)
		assert.Nil(t, detail.Analysis)
		assert.Empty(t, detail.Images)
	})

	t.Run("DuplicateSessionRejected", func(t *testing.T) {
		err := store.CreateSession(ctx, newTestSession("session-1", 2000))
		require.Error(t, err)
		assert.True(t, IsAlreadyExists(err))
	})

	t.Run("UnknownSessionNotFound", func(t *testing.T) {
		_, err := store.GetSession(ctx, "session-missing")
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})
}

func TestInMemoryStoreAttach(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	require.NoError(t, store.CreateSession(ctx, newTestSession("session-1", 1000)))

	analysis := &StyleAnalysis{
		SessionID:      "session-1",
		ApparelPresent: true,
		Details:        []string{"ribbed texture", "slim fit"},
		Suggestions:    map[string]string{"party": "pair with a dark skirt"},
	}

	t.Run("AttachAnalysis", func(t *testing.T) {
		require.NoError(t, store.AttachStyleAnalysis(ctx, analysis))

		detail, err := store.GetSessionDetail(ctx, "session-1")
		require.NoError(t, err)
		require.NotNil(t, detail.Analysis)
		assert.True(t, detail.Analysis.ApparelPresent)
		assert.Equal(t, []string{"ribbed texture", "slim fit"}, detail.Analysis.Details)
	})

	t.Run("SecondAnalysisRejected", func(t *testing.T) {
		err := store.AttachStyleAnalysis(ctx, analysis)
		require.Error(t, err)
		assert.True(t, IsAlreadyExists(err))
	})

	t.Run("AttachAnalysisToMissingSession", func(t *testing.T) {
		err := store.AttachStyleAnalysis(ctx, &StyleAnalysis{SessionID: "session-missing"})
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})

	t.Run("AttachImagesIncludingFailure", func(t *testing.T) {
		require.NoError(t, store.AttachGeneratedImage(ctx, &GeneratedImage{SessionID: "session-1", Occasion: "party", ImagePath: "output_party.jpg"}))
		require.NoError(t, store.AttachGeneratedImage(ctx, &GeneratedImage{SessionID: "session-1", Occasion: "office", ImagePath: "", ErrorMessage: "model timed out"}))

		detail, err := store.GetSessionDetail(ctx, "session-1")
		require.NoError(t, err)
		require.Len(t, detail.Images, 2)
		assert.Equal(t, "output_party.jpg", detail.Images[0].ImagePath)
		assert.Empty(t, detail.Images[1].ImagePath)
		assert.Equal(t, "model timed out", detail.Images[1].ErrorMessage)
	})

	t.Run("AttachImageToMissingSession", func(t *testing.T) {
		err := store.AttachGeneratedImage(ctx, &GeneratedImage{SessionID: "session-missing", Occasion: "party"})
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})
}

func TestInMemoryStoreListOrdering(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	// Insert out of chronological order; the feed must come back newest-first
	require.NoError(t, store.CreateSession(ctx, newTestSession("session-b", 2000)))
	require.NoError(t, store.CreateSession(ctx, newTestSession("session-c", 3000)))
	require.NoError(t, store.CreateSession(ctx, newTestSession("session-a", 1000)))

	summaries, err := store.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, "session-c", summaries[0].SessionID)
	assert.Equal(t, "session-b", summaries[1].SessionID)
	assert.Equal(t, "session-a", summaries[2].SessionID)
}

func TestInMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	require.NoError(t, store.CreateSession(ctx, newTestSession("session-1", 1000)))
	require.NoError(t, store.AttachStyleAnalysis(ctx, &StyleAnalysis{SessionID: "session-1", ApparelPresent: true}))
	require.NoError(t, store.AttachGeneratedImage(ctx, &GeneratedImage{SessionID: "session-1", Occasion: "party", ImagePath: "output_party.jpg"}))
	require.NoError(t, store.AttachGeneratedImage(ctx, &GeneratedImage{SessionID: "session-1", Occasion: "office", ImagePath: ""}))

	t.Run("ReturnsFilePaths", func(t *testing.T) {
		paths, err := store.DeleteSession(ctx, "session-1")
		require.NoError(t, err)
		// the failed office generation has no file to delete
		assert.ElementsMatch(t, []string{"input_session-1.jpg", "output_party.jpg"}, paths)
	})

	t.Run("GoneAfterDelete", func(t *testing.T) {
		_, err := store.GetSessionDetail(ctx, "session-1")
		require.Error(t, err)
		assert.True(t, IsNotFound(err))

		summaries, err := store.ListSessions(ctx)
		require.NoError(t, err)
		assert.Empty(t, summaries)
	})

	t.Run("DeleteMissingSession", func(t *testing.T) {
		require.NoError(t, store.CreateSession(ctx, newTestSession("session-2", 2000)))

		_, err := store.DeleteSession(ctx, "session-missing")
		require.Error(t, err)
		assert.True(t, IsNotFound(err))

		// nothing was mutated
		summaries, err := store.ListSessions(ctx)
		require.NoError(t, err)
		assert.Len(t, summaries, 1)
	})
}

func TestInMemoryStoreClear(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	require.NoError(t, store.CreateSession(ctx, newTestSession("session-1", 1000)))
	require.NoError(t, store.CreateSession(ctx, newTestSession("session-2", 2000)))

	require.NoError(t, store.ClearSessions(ctx))

	summaries, err := store.ListSessions(ctx)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}
