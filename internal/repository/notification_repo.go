package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Mrhb33/Artivty/internal/domain"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

type notificationModel struct {
	ID               int64     `gorm:"column:id;primaryKey"`
	UserID           int64     `gorm:"column:user_id;index"`
	Type             string    `gorm:"column:type"`
	Title            string    `gorm:"column:title"`
	Message          string    `gorm:"column:message"`
	RelatedRequestID *int64    `gorm:"column:related_request_id"`
	RelatedArtistID  *int64    `gorm:"column:related_artist_id"`
	IsRead           bool      `gorm:"column:is_read"`
	CreatedAt        time.Time `gorm:"column:created_at"`
}

func (notificationModel) TableName() string { return "notifications" }

func toDomainNotification(m notificationModel) *domain.Notification {
	return &domain.Notification{
		ID:               m.ID,
		UserID:           m.UserID,
		Type:             domain.NotificationType(m.Type),
		Title:            m.Title,
		Message:          m.Message,
		RelatedRequestID: m.RelatedRequestID,
		RelatedArtistID:  m.RelatedArtistID,
		IsRead:           m.IsRead,
		CreatedAt:        m.CreatedAt,
	}
}

func toNotificationModel(n *domain.Notification) notificationModel {
	return notificationModel{
		ID:               n.ID,
		UserID:           n.UserID,
		Type:             string(n.Type),
		Title:            n.Title,
		Message:          n.Message,
		RelatedRequestID: n.RelatedRequestID,
		RelatedArtistID:  n.RelatedArtistID,
		IsRead:           n.IsRead,
		CreatedAt:        n.CreatedAt,
	}
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var rows []notificationModel
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Notification, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainNotification(m))
	}
	return out, nil
}

func (r *NotificationRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkAsRead flips the read flag; the userID guard keeps recipients from
// touching each other's notifications.
func (r *NotificationRepository) MarkAsRead(ctx context.Context, id, userID int64) error {
	res := r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Model(&notificationModel{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

type deviceTokenModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	UserID     int64     `gorm:"column:user_id;index"`
	Token      string    `gorm:"column:token;uniqueIndex"`
	DeviceType *string   `gorm:"column:device_type"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (deviceTokenModel) TableName() string { return "device_tokens" }

// UpsertDeviceToken re-assigns an existing token to the registering user, so
// a device that switches accounts only ever pushes to its current owner.
func (r *NotificationRepository) UpsertDeviceToken(ctx context.Context, t *domain.DeviceToken) error {
	var existing deviceTokenModel
	err := r.db.WithContext(ctx).Where("token = ?", t.Token).First(&existing).Error
	if err == nil {
		return r.db.WithContext(ctx).
			Model(&deviceTokenModel{}).
			Where("id = ?", existing.ID).
			Updates(map[string]any{
				"user_id":     t.UserID,
				"device_type": nullable(t.DeviceType),
			}).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	m := deviceTokenModel{
		UserID:     t.UserID,
		Token:      t.Token,
		DeviceType: nullable(t.DeviceType),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	t.ID = m.ID
	t.CreatedAt = m.CreatedAt
	return nil
}

func (r *NotificationRepository) DeleteDeviceToken(ctx context.Context, userID int64, token string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		Delete(&deviceTokenModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *NotificationRepository) ListDeviceTokens(ctx context.Context, userID int64) ([]domain.DeviceToken, error) {
	var rows []deviceTokenModel
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.DeviceToken, 0, len(rows))
	for _, m := range rows {
		var deviceType string
		if m.DeviceType != nil {
			deviceType = *m.DeviceType
		}
		out = append(out, domain.DeviceToken{
			ID:         m.ID,
			UserID:     m.UserID,
			Token:      m.Token,
			DeviceType: deviceType,
			CreatedAt:  m.CreatedAt,
		})
	}
	return out, nil
}

func nullable(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
