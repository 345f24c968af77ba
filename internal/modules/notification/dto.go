package notification

import "github.com/Mrhb33/Artivty/internal/domain"

type RegisterDeviceRequest struct {
	Token      string `json:"token" binding:"required"`
	DeviceType string `json:"device_type" binding:"required,oneof=ios android web"`
}

type RemoveDeviceRequest struct {
	Token string `json:"token" binding:"required"`
}

// NotificationPage is one page of a user's inbox plus the counters clients
// use to render badges.
type NotificationPage struct {
	Notifications []domain.Notification `json:"notifications"`
	Total         int64                 `json:"total"`
	UnreadCount   int64                 `json:"unread_count"`
}
