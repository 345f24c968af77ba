package notification

import (
	"context"

	"github.com/Mrhb33/Artivty/internal/domain"
)

type Repository interface {
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Notification, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkAsRead(ctx context.Context, id, userID int64) error
	MarkAllAsRead(ctx context.Context, userID int64) error
	UpsertDeviceToken(ctx context.Context, t *domain.DeviceToken) error
	DeleteDeviceToken(ctx context.Context, userID int64, token string) error
	ListDeviceTokens(ctx context.Context, userID int64) ([]domain.DeviceToken, error)
}

// Sender delivers one push message to one device token. Implementations talk
// to a provider (FCM, APNs); the default just logs.
type Sender interface {
	Send(ctx context.Context, token, title, message string) error
}
