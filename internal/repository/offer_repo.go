package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/Mrhb33/Artivty/internal/domain"
)

// ErrDuplicateOffer is returned when an artist already has an offer on the
// request; backed by the unique (request_id, artist_id) index so the race of
// two simultaneous submissions by the same artist still yields exactly one row.
var ErrDuplicateOffer = errors.New("offer already exists for this request and artist")

type OfferRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

type offerModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	RequestID    int64     `gorm:"column:request_id;uniqueIndex:idx_offers_request_artist"`
	ArtistID     int64     `gorm:"column:artist_id;uniqueIndex:idx_offers_request_artist"`
	Price        float64   `gorm:"column:price"`
	DeliveryDays int       `gorm:"column:delivery_days"`
	Message      *string   `gorm:"column:message"`
	Status       string    `gorm:"column:status"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (offerModel) TableName() string { return "offers" }

func toDomainOffer(m offerModel) *domain.Offer {
	var message string
	if m.Message != nil {
		message = *m.Message
	}

	return &domain.Offer{
		ID:           m.ID,
		RequestID:    m.RequestID,
		ArtistID:     m.ArtistID,
		Price:        m.Price,
		DeliveryDays: m.DeliveryDays,
		Message:      message,
		Status:       domain.OfferStatus(m.Status),
		CreatedAt:    m.CreatedAt,
	}
}

func toOfferModel(o *domain.Offer) offerModel {
	var message *string
	if o.Message != "" {
		v := o.Message
		message = &v
	}

	return offerModel{
		ID:           o.ID,
		RequestID:    o.RequestID,
		ArtistID:     o.ArtistID,
		Price:        o.Price,
		DeliveryDays: o.DeliveryDays,
		Message:      message,
		Status:       string(o.Status),
		CreatedAt:    o.CreatedAt,
	}
}

// Create persists the offer together with the notification built by the
// notify callback, so the customer's new-offer notification commits with the
// offer or not at all.
func (r *OfferRepository) Create(ctx context.Context, o *domain.Offer, notify func(created *domain.Offer) *domain.Notification) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := toOfferModel(o)
		if err := tx.Create(&m).Error; err != nil {
			return err
		}

		created := toDomainOffer(m)
		if notify != nil {
			if n := notify(created); n != nil {
				row := toNotificationModel(n)
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
		}

		*o = *created
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateOffer
		}
		return err
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// sqlite driver reports unique violations as plain errors
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (r *OfferRepository) GetByID(ctx context.Context, id int64) (*domain.Offer, error) {
	var m offerModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainOffer(m), nil
}

func (r *OfferRepository) ExistsByRequestAndArtist(ctx context.Context, requestID, artistID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&offerModel{}).
		Where("request_id = ? AND artist_id = ?", requestID, artistID).
		Count(&count).Error
	return count > 0, err
}

func (r *OfferRepository) CountByRequest(ctx context.Context, requestID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&offerModel{}).
		Where("request_id = ?", requestID).
		Count(&count).Error
	return count, err
}

// OfferWithArtist pairs an offer with the public artist fields the request
// owner sees when comparing bids.
type OfferWithArtist struct {
	ID                   int64     `gorm:"column:id" json:"id"`
	RequestID            int64     `gorm:"column:request_id" json:"request_id"`
	ArtistID             int64     `gorm:"column:artist_id" json:"artist_id"`
	Price                float64   `gorm:"column:price" json:"price"`
	DeliveryDays         int       `gorm:"column:delivery_days" json:"delivery_days"`
	Message              string    `gorm:"column:message" json:"message,omitempty"`
	Status               string    `gorm:"column:status" json:"status"`
	CreatedAt            time.Time `gorm:"column:created_at" json:"created_at"`
	ArtistName           string    `gorm:"column:artist_name" json:"artist_name"`
	ArtistUsername       string    `gorm:"column:artist_username" json:"artist_username,omitempty"`
	ArtistProfilePicture string    `gorm:"column:artist_profile_picture" json:"artist_profile_picture,omitempty"`
}

func (r *OfferRepository) ListByRequestWithArtist(ctx context.Context, requestID int64) ([]OfferWithArtist, error) {
	var rows []OfferWithArtist
	q := `
SELECT
  o.id,
  o.request_id,
  o.artist_id,
  o.price,
  o.delivery_days,
  COALESCE(o.message, '') AS message,
  o.status,
  o.created_at,
  u.name AS artist_name,
  COALESCE(u.username, '') AS artist_username,
  COALESCE(u.profile_picture_url, '') AS artist_profile_picture
FROM offers o
JOIN users u ON u.id = o.artist_id
WHERE o.request_id = ?
ORDER BY o.created_at
`
	tx := r.db.WithContext(ctx).Raw(q, requestID).Scan(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return rows, nil
}

func (r *OfferRepository) ListByArtist(ctx context.Context, artistID int64) ([]domain.Offer, error) {
	var rows []offerModel
	tx := r.db.WithContext(ctx).
		Where("artist_id = ?", artistID).
		Order("created_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Offer, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainOffer(m))
	}
	return out, nil
}

func (r *OfferRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&offerModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
