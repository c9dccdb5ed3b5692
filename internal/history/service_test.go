package history

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryServiceCreateSession(t *testing.T) {
	ctx := context.Background()
	service := NewHistoryService(NewInMemoryStore())

	t.Run("AllocatesIdentifierAndTimestamp", func(t *testing.T) {
		session, err := service.CreateSession(ctx, &CreateSessionRequest{
			Kind:           SessionKindFullAnalysis,
			InputImagePath: "input_a.jpg",
		})
		require.NoError(t, err)
		assert.Regexp(t, `^session-[0-9a-f-]{36}$`, session.SessionID)
		assert.Greater(t, session.CreatedAt, int64(0))

		detail, err := service.GetSessionDetail(ctx, session.SessionID)
		require.NoError(t, err)
		assert.Equal(t, session.SessionID, detail.SessionID)
	})

	t.Run("RejectsInvalidKind", func(t *testing.T) {
		_, err := service.CreateSession(ctx, &CreateSessionRequest{
			Kind:           SessionKind("banana"),
			InputImagePath: "input_a.jpg",
		})
		require.Error(t, err)
		assert.True(t, IsInvalidRequest(err))
	})

	t.Run("RejectsMissingInputPath", func(t *testing.T) {
		_, err := service.CreateSession(ctx, &CreateSessionRequest{Kind: SessionKindSingleOutfit})
		require.Error(t, err)
		assert.True(t, IsInvalidRequest(err))
	})
}

func TestHistoryServiceConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	service := NewHistoryService(NewInMemoryStore())

	const callers = 50

	var wg sync.WaitGroup
	ids := make(chan string, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			session, err := service.CreateSession(ctx, &CreateSessionRequest{
				Kind:           SessionKindFullAnalysis,
				InputImagePath: "input.jpg",
			})
			assert.NoError(t, err)
			if err == nil {
				ids <- session.SessionID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate session id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, callers)
}

func TestHistoryServiceAttachValidation(t *testing.T) {
	ctx := context.Background()
	service := NewHistoryService(NewInMemoryStore())

	session, err := service.CreateSession(ctx, &CreateSessionRequest{
		Kind:           SessionKindFullAnalysis,
		InputImagePath: "input.jpg",
	})
	require.NoError(t, err)

	t.Run("EmptySessionID", func(t *testing.T) {
		err := service.AttachStyleAnalysis(ctx, "", true, nil, nil)
		assert.True(t, IsInvalidRequest(err))
	})

	t.Run("EmptyOccasion", func(t *testing.T) {
		err := service.AttachGeneratedImage(ctx, session.SessionID, "", "out.jpg", "")
		assert.True(t, IsInvalidRequest(err))
	})

	t.Run("EmptyPathRecordsFailure", func(t *testing.T) {
		err := service.AttachGeneratedImage(ctx, session.SessionID, "party", "", "model refused")
		require.NoError(t, err)

		detail, err := service.GetSessionDetail(ctx, session.SessionID)
		require.NoError(t, err)
		require.Len(t, detail.Images, 1)
		assert.Equal(t, "model refused", detail.Images[0].ErrorMessage)
	})
}

func TestHistoryServiceDelete(t *testing.T) {
	ctx := context.Background()
	service := NewHistoryService(NewInMemoryStore())

	session, err := service.CreateSession(ctx, &CreateSessionRequest{
		Kind:           SessionKindSingleOutfit,
		InputImagePath: "input.jpg",
	})
	require.NoError(t, err)
	require.NoError(t, service.AttachGeneratedImage(ctx, session.SessionID, "custom", "out.jpg", ""))

	paths, err := service.DeleteSession(ctx, session.SessionID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"input.jpg", "out.jpg"}, paths)

	_, err = service.GetSessionDetail(ctx, session.SessionID)
	assert.True(t, IsNotFound(err))

	_, err = service.DeleteSession(ctx, session.SessionID)
	assert.True(t, IsNotFound(err))
}
