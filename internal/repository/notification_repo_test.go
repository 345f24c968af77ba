package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mrhb33/Artivty/internal/database"
	"github.com/Mrhb33/Artivty/internal/domain"
)

func newNotificationRepo(t *testing.T) *NotificationRepository {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return NewNotificationRepository(db)
}

func TestUpsertDeviceToken_InsertsUnknownToken(t *testing.T) {
	repo := newNotificationRepo(t)
	ctx := context.Background()

	tok := &domain.DeviceToken{UserID: 1, Token: "tok-abc", DeviceType: "ios"}
	require.NoError(t, repo.UpsertDeviceToken(ctx, tok))
	assert.NotZero(t, tok.ID)

	got, err := repo.ListDeviceTokens(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "tok-abc", got[0].Token)
	assert.Equal(t, "ios", got[0].DeviceType)
}

func TestUpsertDeviceToken_ReassignsToCurrentOwner(t *testing.T) {
	repo := newNotificationRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertDeviceToken(ctx, &domain.DeviceToken{UserID: 1, Token: "tok-shared", DeviceType: "android"}))
	require.NoError(t, repo.UpsertDeviceToken(ctx, &domain.DeviceToken{UserID: 2, Token: "tok-shared", DeviceType: "android"}))

	old, err := repo.ListDeviceTokens(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, old)

	current, err := repo.ListDeviceTokens(ctx, 2)
	require.NoError(t, err)
	require.Len(t, current, 1)
	assert.Equal(t, "tok-shared", current[0].Token)
}

func TestDeleteDeviceToken_OnlyOwnersTokens(t *testing.T) {
	repo := newNotificationRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertDeviceToken(ctx, &domain.DeviceToken{UserID: 1, Token: "tok-del", DeviceType: "web"}))

	err := repo.DeleteDeviceToken(ctx, 2, "tok-del")
	assert.Error(t, err)

	require.NoError(t, repo.DeleteDeviceToken(ctx, 1, "tok-del"))
}
