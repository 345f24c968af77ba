package domain

import "time"

type OfferStatus string

const (
	OfferPending  OfferStatus = "pending"
	OfferAccepted OfferStatus = "accepted"
	OfferRejected OfferStatus = "rejected"
)

// Offer is an artist's bid against a request. At most one offer exists per
// (request, artist) pair, enforced by a unique index on those columns.
type Offer struct {
	ID           int64       `json:"id"`
	RequestID    int64       `json:"request_id" gorm:"uniqueIndex:idx_offers_request_artist"`
	ArtistID     int64       `json:"artist_id" gorm:"uniqueIndex:idx_offers_request_artist"`
	Price        float64     `json:"price" validate:"required,gt=0"`
	DeliveryDays int         `json:"delivery_days" validate:"required,gt=0"`
	Message      string      `json:"message,omitempty" gorm:"type:text"`
	Status       OfferStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
}
