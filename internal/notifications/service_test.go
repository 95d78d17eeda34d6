package notifications

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/growwithgreen/growwithgreen-backend/pkg/enums"
	pkgerrors "github.com/growwithgreen/growwithgreen-backend/pkg/errors"
)

func setupNotificationsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE TABLE IF NOT EXISTS notifications (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  kind TEXT NOT NULL DEFAULT 'info',
  title TEXT NOT NULL,
  body TEXT NOT NULL DEFAULT '',
  is_read BOOLEAN NOT NULL DEFAULT FALSE,
  order_id TEXT,
  created_at DATETIME
);`).Error)
	return db
}

func newNotificationsService(t *testing.T, db *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc
}

func TestNotifyAndList(t *testing.T) {
	db := setupNotificationsTestDB(t)
	svc := newNotificationsService(t, db)
	ctx := context.Background()
	userID := uuid.New()
	orderID := uuid.New()

	require.NoError(t, svc.Notify(ctx, userID, enums.NotificationKindOrder, "Order received", "We got your order.", &orderID))
	require.NoError(t, svc.Notify(ctx, userID, enums.NotificationKindDelivery, "Order shipped", "On its way.", &orderID))

	notifications, err := svc.List(ctx, userID, false, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, "Order shipped", notifications[0].Title)
	require.NotNil(t, notifications[0].OrderID)
	assert.Equal(t, orderID, *notifications[0].OrderID)
	assert.False(t, notifications[0].IsRead)
}

func TestNotifyUnknownKindFallsBackToInfo(t *testing.T) {
	db := setupNotificationsTestDB(t)
	svc := newNotificationsService(t, db)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, svc.Notify(ctx, userID, enums.NotificationKind("bogus"), "Heads up", "", nil))

	notifications, err := svc.List(ctx, userID, false, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, enums.NotificationKindInfo, notifications[0].Kind)
}

func TestMarkReadFlow(t *testing.T) {
	db := setupNotificationsTestDB(t)
	svc := newNotificationsService(t, db)
	ctx := context.Background()
	userID := uuid.New()

	require.NoError(t, svc.Notify(ctx, userID, enums.NotificationKindInfo, "First", "", nil))
	require.NoError(t, svc.Notify(ctx, userID, enums.NotificationKindInfo, "Second", "", nil))

	count, err := svc.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	notifications, err := svc.List(ctx, userID, true, 10)
	require.NoError(t, err)
	require.Len(t, notifications, 2)

	require.NoError(t, svc.MarkRead(ctx, userID, notifications[0].ID))

	count, err = svc.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// already read, and not visible to other users
	err = svc.MarkRead(ctx, userID, notifications[0].ID)
	var domainErr *pkgerrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, pkgerrors.CodeNotFound, domainErr.Code())

	err = svc.MarkRead(ctx, uuid.New(), notifications[1].ID)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, pkgerrors.CodeNotFound, domainErr.Code())
}

func TestMarkAllRead(t *testing.T) {
	db := setupNotificationsTestDB(t)
	svc := newNotificationsService(t, db)
	ctx := context.Background()
	userID := uuid.New()

	for _, title := range []string{"One", "Two", "Three"} {
		require.NoError(t, svc.Notify(ctx, userID, enums.NotificationKindInfo, title, "", nil))
	}

	touched, err := svc.MarkAllRead(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), touched)

	count, err := svc.UnreadCount(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, count)

	touched, err = svc.MarkAllRead(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, touched)
}
