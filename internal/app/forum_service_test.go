package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"rights-arcade/internal/app"
	"rights-arcade/internal/domain"
	"rights-arcade/internal/infra/memory"
)

func TestForumPostAndReply(t *testing.T) {
	ctx := context.Background()
	forum := app.NewForumService(memory.NewKVStore(), time.Hour)

	first, err := forum.Post(ctx, "p1", "  ", "Is school free for everyone?", 0)
	require.NoError(t, err)
	require.Equal(t, app.AnonymousAuthor, first.Author)

	second, err := forum.Post(ctx, "p1", "Asha", "Who can I call for help?", 0)
	require.NoError(t, err)
	require.Greater(t, second.ID, first.ID)

	reply, err := forum.Post(ctx, "p1", "Ravi", "Yes, up to age 14.", first.ID)
	require.NoError(t, err)
	_, err = forum.Post(ctx, "p1", "Asha", "Thanks!", reply.ID)
	require.NoError(t, err)

	msgs := forum.Messages(ctx, "p1")
	require.Len(t, msgs, 2)
	require.Len(t, msgs[0].Replies, 2, "replies to replies attach to the parent")
	require.NotNil(t, msgs[1].Replies)
	require.Empty(t, msgs[1].Replies)

	msgs[0].Replies[0].Text = "edited"
	require.Equal(t, "Yes, up to age 14.", forum.Messages(ctx, "p1")[0].Replies[0].Text)
}

func TestForumRejectsBadPosts(t *testing.T) {
	ctx := context.Background()
	forum := app.NewForumService(memory.NewKVStore(), time.Hour)

	_, err := forum.Post(ctx, "p1", "Asha", "   ", 0)
	require.ErrorIs(t, err, domain.ErrEmptyMessage)
	_, err = forum.Post(ctx, "p1", "Asha", "hello", 42)
	require.ErrorIs(t, err, domain.ErrMessageNotFound)
	require.Empty(t, forum.Messages(ctx, "p1"))
}

func TestForumWritesAfterDelay(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()
	forum := app.NewForumService(kv, 10*time.Millisecond)

	_, err := forum.Post(ctx, "p1", "Asha", "hello", 0)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, ok, _ := kv.Get(ctx, app.ProfileKey("p1", app.KeyForumMessages))
		return ok
	}, time.Second, 5*time.Millisecond)

	reloaded := app.NewForumService(kv, time.Hour)
	msgs := reloaded.Messages(ctx, "p1")
	require.Len(t, msgs, 1)
	require.Equal(t, "hello", msgs[0].Text)
}

func TestForumFlush(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore()
	forum := app.NewForumService(kv, time.Hour)

	posted, err := forum.Post(ctx, "p1", "Asha", "hello", 0)
	require.NoError(t, err)
	_, ok, _ := kv.Get(ctx, app.ProfileKey("p1", app.KeyForumMessages))
	require.False(t, ok)

	require.NoError(t, forum.Flush(ctx))
	_, ok, _ = kv.Get(ctx, app.ProfileKey("p1", app.KeyForumMessages))
	require.True(t, ok)

	reloaded := app.NewForumService(kv, time.Hour)
	next, err := reloaded.Post(ctx, "p1", "Ravi", "hi", posted.ID)
	require.NoError(t, err)
	require.Greater(t, next.ID, posted.ID)
}
