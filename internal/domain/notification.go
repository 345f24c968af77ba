package domain

import "time"

type NotificationType string

const (
	NotifNewRequest       NotificationType = "new_request"
	NotifNewOffer         NotificationType = "new_offer"
	NotifOfferAccepted    NotificationType = "offer_accepted"
	NotifOfferRejected    NotificationType = "offer_rejected"
	NotifRequestCompleted NotificationType = "request_completed"
)

// Notification is append-only; IsRead is the only field that ever changes
// after creation, and only the recipient may flip it.
type Notification struct {
	ID               int64            `json:"id"`
	UserID           int64            `json:"user_id" gorm:"index"`
	Type             NotificationType `json:"type"`
	Title            string           `json:"title"`
	Message          string           `json:"message" gorm:"type:text"`
	RelatedRequestID *int64           `json:"related_request_id,omitempty"`
	RelatedArtistID  *int64           `json:"related_artist_id,omitempty"`
	IsRead           bool             `json:"is_read"`
	CreatedAt        time.Time        `json:"created_at"`
}

// DeviceToken identifies a push delivery target for a user. Delivery itself
// is a best-effort external concern and never part of a domain transaction.
type DeviceToken struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id" gorm:"index"`
	Token      string    `json:"token" gorm:"uniqueIndex"`
	DeviceType string    `json:"device_type,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
