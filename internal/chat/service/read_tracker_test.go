package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	repomocks "github.com/PlayraLive/h-ai-sub006/internal/chat/repository/mocks"
	"github.com/PlayraLive/h-ai-sub006/internal/common"
)

func TestReadTracker_MarkRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	id := env.resolve(t, "alice", "bob", common.Direct())

	for i := 0; i < 3; i++ {
		_, err := env.delivery.Send(ctx, id, "alice", common.MessageText, text("ping"))
		require.NoError(t, err)
	}
	assert.Equal(t, 3, env.counts(t, id)["bob"])

	require.NoError(t, env.tracker.MarkRead(ctx, id, "bob"))
	require.NoError(t, env.tracker.MarkRead(ctx, id, "bob"))
	assert.Equal(t, map[string]int{"alice": 0, "bob": 0}, env.counts(t, id))

	assert.ErrorIs(t, env.tracker.MarkRead(ctx, id, "mallory"), common.ErrNotAParticipant)
	assert.ErrorIs(t, env.tracker.MarkRead(ctx, "nope", "bob"), common.ErrNotFound)
}

func TestReadTracker_MarkAllRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	direct := env.resolve(t, "alice", "bob", common.Direct())
	job := env.resolve(t, "alice", "carol", common.Job("job-1"))
	quiet := env.resolve(t, "alice", "dave", common.Direct())

	for _, id := range []string{direct, job, job} {
		_, err := env.delivery.Send(ctx, id, otherThan(t, env, id, "alice"), common.MessageText, text("hey"))
		require.NoError(t, err)
	}

	total, err := env.tracker.UnreadTotal(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	n, err := env.tracker.MarkAllRead(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	total, err = env.tracker.UnreadTotal(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Zero(t, env.counts(t, quiet)["alice"])

	n, err = env.tracker.MarkAllRead(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = env.tracker.MarkAllRead(ctx, "")
	assert.ErrorIs(t, err, common.ErrInvalidContext)
}

func TestReadTracker_MarkAllReadPartialFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	convs := repomocks.NewMockConversationRepository(ctrl)
	convs.EXPECT().UnreadConversationIDs(gomock.Any(), "alice").Return([]string{"c1", "c2", "c3"}, nil)
	convs.EXPECT().ResetUnread(gomock.Any(), "c1", "alice").Return(nil)
	convs.EXPECT().ResetUnread(gomock.Any(), "c2", "alice").
		Return(common.StoreUnavailable("conversations.ResetUnread", errors.New("lock wait timeout")))
	convs.EXPECT().ResetUnread(gomock.Any(), "c3", "alice").Return(nil)

	n, err := NewReadTracker(convs).MarkAllRead(context.Background(), "alice")
	assert.Equal(t, 2, n)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)
	assert.Contains(t, err.Error(), "c2")
}

func TestReadTracker_UnreadTotalSkipsArchived(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	live := env.resolve(t, "alice", "bob", common.Direct())
	retired := env.resolve(t, "alice", "carol", common.Job("job-1"))
	for _, id := range []string{live, retired, retired} {
		_, err := env.delivery.Send(ctx, id, otherThan(t, env, id, "alice"), common.MessageText, text("hey"))
		require.NoError(t, err)
	}

	total, err := env.tracker.UnreadTotal(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	require.NoError(t, env.resolver.Archive(ctx, retired, "carol"))

	total, err = env.tracker.UnreadTotal(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, 2, env.counts(t, retired)["alice"])
}

func TestReadTracker_UnreadTotalError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	convs := repomocks.NewMockConversationRepository(ctrl)
	convs.EXPECT().UnreadTotal(gomock.Any(), "alice").
		Return(int64(0), common.StoreUnavailable("conversations.UnreadTotal", errors.New("gone")))

	_, err := NewReadTracker(convs).UnreadTotal(context.Background(), "alice")
	assert.ErrorIs(t, err, common.ErrStoreUnavailable)
}

func otherThan(t *testing.T, env *testEnv, conversationID, userID string) string {
	t.Helper()
	conv, err := env.store.Conversations().ByID(context.Background(), conversationID)
	require.NoError(t, err)
	for _, p := range conv.ParticipantIDs() {
		if p != userID {
			return p
		}
	}
	t.Fatalf("no other participant in %s", conversationID)
	return ""
}
