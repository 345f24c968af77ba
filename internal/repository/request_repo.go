package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Mrhb33/Artivty/internal/domain"
)

// ErrNotOpen is returned when a conditional status transition finds the
// request no longer in the expected state. Callers surface it as a conflict.
var ErrNotOpen = errors.New("request is not in the expected status")

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

type requestModel struct {
	ID               int64      `gorm:"column:id;primaryKey"`
	CustomerID       int64      `gorm:"column:customer_id;index"`
	SelectedArtistID *int64     `gorm:"column:selected_artist_id"`
	Title            string     `gorm:"column:title"`
	Description      string     `gorm:"column:description"`
	DimensionsWidth  *float64   `gorm:"column:dimensions_width"`
	DimensionsHeight *float64   `gorm:"column:dimensions_height"`
	DimensionsUnit   *string    `gorm:"column:dimensions_unit"`
	Style            *string    `gorm:"column:style"`
	Deadline         *time.Time `gorm:"column:deadline"`
	Status           string     `gorm:"column:status;index"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
}

func (requestModel) TableName() string { return "requests" }

type referenceImageModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	RequestID int64     `gorm:"column:request_id;index"`
	ImageURL  string    `gorm:"column:image_url"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (referenceImageModel) TableName() string { return "reference_images" }

func toDomainRequest(m requestModel) *domain.Request {
	var width, height float64
	var unit, style string
	if m.DimensionsWidth != nil {
		width = *m.DimensionsWidth
	}
	if m.DimensionsHeight != nil {
		height = *m.DimensionsHeight
	}
	if m.DimensionsUnit != nil {
		unit = *m.DimensionsUnit
	}
	if m.Style != nil {
		style = *m.Style
	}

	return &domain.Request{
		ID:               m.ID,
		CustomerID:       m.CustomerID,
		SelectedArtistID: m.SelectedArtistID,
		Title:            m.Title,
		Description:      m.Description,
		DimensionsWidth:  width,
		DimensionsHeight: height,
		DimensionsUnit:   unit,
		Style:            style,
		Deadline:         m.Deadline,
		Status:           domain.RequestStatus(m.Status),
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func toRequestModel(req *domain.Request) requestModel {
	var width, height *float64
	var unit, style *string
	if req.DimensionsWidth > 0 {
		v := req.DimensionsWidth
		width = &v
	}
	if req.DimensionsHeight > 0 {
		v := req.DimensionsHeight
		height = &v
	}
	if req.DimensionsUnit != "" {
		v := req.DimensionsUnit
		unit = &v
	}
	if req.Style != "" {
		v := req.Style
		style = &v
	}

	return requestModel{
		ID:               req.ID,
		CustomerID:       req.CustomerID,
		SelectedArtistID: req.SelectedArtistID,
		Title:            req.Title,
		Description:      req.Description,
		DimensionsWidth:  width,
		DimensionsHeight: height,
		DimensionsUnit:   unit,
		Style:            style,
		Deadline:         req.Deadline,
		Status:           string(req.Status),
		CreatedAt:        req.CreatedAt,
		UpdatedAt:        req.UpdatedAt,
	}
}

// CreateWithImages persists a request together with its reference images and
// its new-request notification fan-out as one transaction: either the request
// lands with every image and notification, or nothing is written.
func (r *RequestRepository) CreateWithImages(
	ctx context.Context,
	req *domain.Request,
	imageURLs []string,
	fanout func(created *domain.Request) []domain.Notification,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := toRequestModel(req)
		if err := tx.Create(&m).Error; err != nil {
			return err
		}

		for _, url := range imageURLs {
			img := referenceImageModel{RequestID: m.ID, ImageURL: url}
			if err := tx.Create(&img).Error; err != nil {
				return err
			}
		}

		created := toDomainRequest(m)
		if fanout != nil {
			if notifs := fanout(created); len(notifs) > 0 {
				if err := insertNotifications(tx, notifs); err != nil {
					return err
				}
			}
		}

		*req = *created
		return nil
	})
}

func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*domain.Request, error) {
	var m requestModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainRequest(m), nil
}

func (r *RequestRepository) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Request, error) {
	var rows []requestModel
	tx := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Request, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainRequest(m))
	}
	return out, nil
}

func (r *RequestRepository) ListOpen(ctx context.Context) ([]domain.Request, error) {
	var rows []requestModel
	tx := r.db.WithContext(ctx).
		Where("status = ?", string(domain.RequestOpen)).
		Order("created_at DESC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Request, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainRequest(m))
	}
	return out, nil
}

func (r *RequestRepository) ListImages(ctx context.Context, requestID int64) ([]domain.ReferenceImage, error) {
	var rows []referenceImageModel
	tx := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("id").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.ReferenceImage, 0, len(rows))
	for _, m := range rows {
		out = append(out, domain.ReferenceImage{
			ID:        m.ID,
			RequestID: m.RequestID,
			ImageURL:  m.ImageURL,
			CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}

// SelectionResult reports the outcome of a committed selection.
type SelectionResult struct {
	Request        *domain.Request
	AcceptedOffer  *domain.Offer
	RejectedOffers []domain.Offer
}

// SelectOffer runs the selection transaction. The commit point is the
// conditional update of the request row from open to selected; when that
// update touches zero rows another selection already won and ErrNotOpen is
// returned with nothing written. Otherwise the named offer is accepted, every
// other offer on the request is rejected, and the notifications built by the
// notify callback are persisted in the same transaction.
func (r *RequestRepository) SelectOffer(
	ctx context.Context,
	requestID, offerID int64,
	notify func(req *domain.Request, accepted *domain.Offer, rejected []domain.Offer) []domain.Notification,
) (*SelectionResult, error) {
	var result *SelectionResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var offer offerModel
		if err := tx.Where("id = ? AND request_id = ?", offerID, requestID).First(&offer).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		res := tx.Model(&requestModel{}).
			Where("id = ? AND status = ?", requestID, string(domain.RequestOpen)).
			Updates(map[string]any{
				"status":             string(domain.RequestSelected),
				"selected_artist_id": offer.ArtistID,
				"updated_at":         now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotOpen
		}

		if err := tx.Model(&offerModel{}).
			Where("id = ?", offer.ID).
			Update("status", string(domain.OfferAccepted)).Error; err != nil {
			return err
		}

		// losers are symmetric, one bulk update
		if err := tx.Model(&offerModel{}).
			Where("request_id = ? AND id != ?", requestID, offer.ID).
			Update("status", string(domain.OfferRejected)).Error; err != nil {
			return err
		}

		var m requestModel
		if err := tx.First(&m, requestID).Error; err != nil {
			return err
		}

		var losers []offerModel
		if err := tx.Where("request_id = ? AND id != ?", requestID, offer.ID).
			Order("id").
			Find(&losers).Error; err != nil {
			return err
		}

		offer.Status = string(domain.OfferAccepted)
		accepted := toDomainOffer(offer)
		rejected := make([]domain.Offer, 0, len(losers))
		for _, l := range losers {
			rejected = append(rejected, *toDomainOffer(l))
		}

		req := toDomainRequest(m)
		if notify != nil {
			if notifs := notify(req, accepted, rejected); len(notifs) > 0 {
				if err := insertNotifications(tx, notifs); err != nil {
					return err
				}
			}
		}

		result = &SelectionResult{
			Request:        req,
			AcceptedOffer:  accepted,
			RejectedOffers: rejected,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// TransitionStatus moves a request between two named states with the same
// conditional-update guard as SelectOffer, persisting any notifications the
// callback builds in the same transaction.
func (r *RequestRepository) TransitionStatus(
	ctx context.Context,
	requestID int64,
	from, to domain.RequestStatus,
	notify func(req *domain.Request) []domain.Notification,
) (*domain.Request, error) {
	var out *domain.Request

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&requestModel{}).
			Where("id = ? AND status = ?", requestID, string(from)).
			Updates(map[string]any{
				"status":     string(to),
				"updated_at": time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotOpen
		}

		var m requestModel
		if err := tx.First(&m, requestID).Error; err != nil {
			return err
		}

		req := toDomainRequest(m)
		if notify != nil {
			if notifs := notify(req); len(notifs) > 0 {
				if err := insertNotifications(tx, notifs); err != nil {
					return err
				}
			}
		}

		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Cancel moves an open request to cancelled and rejects any pending offers
// in the same transaction, persisting the notifications the callback builds.
func (r *RequestRepository) Cancel(
	ctx context.Context,
	requestID int64,
	notify func(req *domain.Request, rejected []domain.Offer) []domain.Notification,
) (*domain.Request, error) {
	var out *domain.Request

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&requestModel{}).
			Where("id = ? AND status = ?", requestID, string(domain.RequestOpen)).
			Updates(map[string]any{
				"status":     string(domain.RequestCancelled),
				"updated_at": time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotOpen
		}

		if err := tx.Model(&offerModel{}).
			Where("request_id = ? AND status = ?", requestID, string(domain.OfferPending)).
			Update("status", string(domain.OfferRejected)).Error; err != nil {
			return err
		}

		var m requestModel
		if err := tx.First(&m, requestID).Error; err != nil {
			return err
		}

		var losers []offerModel
		if err := tx.Where("request_id = ?", requestID).Order("id").Find(&losers).Error; err != nil {
			return err
		}

		rejected := make([]domain.Offer, 0, len(losers))
		for _, l := range losers {
			rejected = append(rejected, *toDomainOffer(l))
		}

		req := toDomainRequest(m)
		if notify != nil {
			if notifs := notify(req, rejected); len(notifs) > 0 {
				if err := insertNotifications(tx, notifs); err != nil {
					return err
				}
			}
		}

		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func insertNotifications(tx *gorm.DB, notifs []domain.Notification) error {
	rows := make([]notificationModel, 0, len(notifs))
	for _, n := range notifs {
		rows = append(rows, toNotificationModel(&n))
	}
	return tx.Create(&rows).Error
}
