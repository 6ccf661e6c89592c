package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ybazarbay/bizhub/internal/model"
	"github.com/ybazarbay/bizhub/internal/store"
	"github.com/ybazarbay/bizhub/tests/testutil"
)

func seedNotification(id string, createdAt time.Time, read bool) model.Notification {
	return model.Notification{
		ID:            id,
		UserID:        "u-1",
		Type:          model.TypeComment,
		ActorID:       "u-2",
		ActorUsername: "dana",
		PostID:        "p-1",
		CommentID:     "c-1",
		Message:       "dana commented on your post",
		IsRead:        read,
		CreatedAt:     createdAt,
	}
}

func TestSQLiteStore_UpsertAndGet(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	n := seedNotification("n-1", base, false)
	n.Metadata = map[string]string{"origin": "feed"}
	require.NoError(t, s.UpsertNotifications(ctx, []model.Notification{n}))

	got, err := s.GetNotificationByID(ctx, "n-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, model.TypeComment, got.Type)
	assert.Equal(t, "dana", got.ActorUsername)
	assert.Equal(t, "p-1", got.PostID)
	assert.False(t, got.IsRead)
	assert.True(t, base.Equal(got.CreatedAt))
	assert.Equal(t, "feed", got.Metadata["origin"])
}

func TestSQLiteStore_GetNotificationByID_Unknown(t *testing.T) {
	s := testutil.NewTestStore(t)

	got, err := s.GetNotificationByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteStore_UpsertReplacesExisting(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.UpsertNotifications(ctx, []model.Notification{
		seedNotification("n-1", base, false),
	}))
	require.NoError(t, s.UpsertNotifications(ctx, []model.Notification{
		seedNotification("n-1", base, true),
	}))

	all, err := s.GetNotifications(ctx, store.NotificationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].IsRead)
}

func TestSQLiteStore_UpsertSkipsRecordsWithoutID(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.UpsertNotifications(ctx, []model.Notification{
		seedNotification("", base, false),
		seedNotification("n-1", base, false),
	}))

	all, err := s.GetNotifications(ctx, store.NotificationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "n-1", all[0].ID)
}

func TestSQLiteStore_GetNotificationsNewestFirst(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.UpsertNotifications(ctx, []model.Notification{
		seedNotification("old", base.Add(-time.Hour), false),
		seedNotification("new", base.Add(time.Hour), false),
		seedNotification("mid", base, false),
	}))

	all, err := s.GetNotifications(ctx, store.NotificationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "new", all[0].ID)
	assert.Equal(t, "mid", all[1].ID)
	assert.Equal(t, "old", all[2].ID)
}

func TestSQLiteStore_UnreadOnlyFilterAndLimit(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.UpsertNotifications(ctx, []model.Notification{
		seedNotification("n-1", base, true),
		seedNotification("n-2", base.Add(time.Minute), false),
		seedNotification("n-3", base.Add(2*time.Minute), false),
	}))

	unread, err := s.GetNotifications(ctx, store.NotificationFilter{UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, unread, 2)
	assert.Equal(t, "n-3", unread[0].ID)

	limited, err := s.GetNotifications(ctx, store.NotificationFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "n-3", limited[0].ID)
}

func TestSQLiteStore_MarkReadAndCount(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.UpsertNotifications(ctx, []model.Notification{
		seedNotification("n-1", base, false),
		seedNotification("n-2", base, false),
	}))

	count, err := s.CountUnread(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, s.MarkRead(ctx, "n-1"))

	count, err = s.CountUnread(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := s.GetNotificationByID(ctx, "n-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsRead)

	// Marking an unknown id is not an error.
	require.NoError(t, s.MarkRead(ctx, "missing"))
}

func TestSQLiteStore_MarkAllRead(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.UpsertNotifications(ctx, []model.Notification{
		seedNotification("n-1", base, false),
		seedNotification("n-2", base, false),
		seedNotification("n-3", base, true),
	}))

	require.NoError(t, s.MarkAllRead(ctx))

	count, err := s.CountUnread(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestSQLiteStore_Clear(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.UpsertNotifications(ctx, []model.Notification{
		seedNotification("n-1", base, false),
	}))
	require.NoError(t, s.Clear(ctx))

	all, err := s.GetNotifications(ctx, store.NotificationFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}
