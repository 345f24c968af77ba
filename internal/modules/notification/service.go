package notification

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/Mrhb33/Artivty/internal/domain"
)

type Service struct {
	repo   Repository
	sender Sender
}

func NewService(repo Repository, sender Sender) *Service {
	if sender == nil {
		sender = LogSender{}
	}
	return &Service{repo: repo, sender: sender}
}

func (s *Service) List(ctx context.Context, userID int64, limit, offset int) (*NotificationPage, error) {
	notifs, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &NotificationPage{Notifications: notifs, Total: total, UnreadCount: unread}, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *Service) MarkAsRead(ctx context.Context, userID, notificationID int64) error {
	err := s.repo.MarkAsRead(ctx, notificationID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *Service) RegisterDevice(ctx context.Context, userID int64, req RegisterDeviceRequest) error {
	return s.repo.UpsertDeviceToken(ctx, &domain.DeviceToken{
		UserID:     userID,
		Token:      req.Token,
		DeviceType: req.DeviceType,
	})
}

func (s *Service) RemoveDevice(ctx context.Context, userID int64, token string) error {
	return s.repo.DeleteDeviceToken(ctx, userID, token)
}

// PushToUser sends a push to every registered device of a user. It runs
// after the triggering transaction has committed, so delivery failures are
// logged and swallowed rather than propagated.
func (s *Service) PushToUser(ctx context.Context, userID int64, title, message string) {
	tokens, err := s.repo.ListDeviceTokens(ctx, userID)
	if err != nil {
		log.Printf("push: listing device tokens for user %d: %v", userID, err)
		return
	}
	for _, t := range tokens {
		if err := s.sender.Send(ctx, t.Token, title, message); err != nil {
			log.Printf("push: sending to user %d device %s: %v", userID, t.DeviceType, err)
		}
	}
}

// LogSender is the development push backend.
type LogSender struct{}

func (LogSender) Send(_ context.Context, token, title, message string) error {
	log.Printf("push: [%s] %s: %s", shorten(token), title, message)
	return nil
}

func shorten(token string) string {
	if len(token) > 8 {
		return token[:8] + "..."
	}
	return token
}
