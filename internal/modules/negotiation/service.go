package negotiation

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Mrhb33/Artivty/internal/domain"
	"github.com/Mrhb33/Artivty/internal/pkg/validator"
	"github.com/Mrhb33/Artivty/internal/repository"
)

// fanoutCap bounds the new-request notification snapshot so one request
// cannot write an unbounded number of rows in its creating transaction.
const fanoutCap = 500

type Service struct {
	requests    RequestRepository
	offers      OfferRepository
	users       UserReader
	eligibility EligibilityChecker
	push        Pusher
}

func NewService(
	requests RequestRepository,
	offers OfferRepository,
	users UserReader,
	eligibility EligibilityChecker,
	push Pusher,
) *Service {
	return &Service{
		requests:    requests,
		offers:      offers,
		users:       users,
		eligibility: eligibility,
		push:        push,
	}
}

// CreateRequest persists a customer's commission posting together with its
// reference images and the new-request fan-out to every currently eligible
// artist, as one transaction. The eligible-artist set is snapshotted at
// creation time.
func (s *Service) CreateRequest(ctx context.Context, customerID int64, req CreateRequestRequest) (*domain.Request, error) {
	actor, err := s.users.GetByID(ctx, customerID)
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	if actor.Role != domain.RoleCustomer {
		return nil, ErrForbidden
	}

	artistIDs, err := s.users.ListEligibleArtistIDs(ctx, fanoutCap)
	if err != nil {
		return nil, err
	}

	r := &domain.Request{
		CustomerID:       customerID,
		Title:            req.Title,
		Description:      req.Description,
		DimensionsWidth:  req.DimensionsWidth,
		DimensionsHeight: req.DimensionsHeight,
		DimensionsUnit:   req.DimensionsUnit,
		Style:            req.Style,
		Deadline:         req.Deadline,
		Status:           domain.RequestOpen,
	}
	if fields := validator.Validate(r); fields != nil {
		return nil, ErrValidation
	}

	err = s.requests.CreateWithImages(ctx, r, req.ReferenceImages, func(created *domain.Request) []domain.Notification {
		notifs := make([]domain.Notification, 0, len(artistIDs))
		for _, artistID := range artistIDs {
			notifs = append(notifs, domain.Notification{
				UserID:           artistID,
				Type:             domain.NotifNewRequest,
				Title:            "New Art Request",
				Message:          fmt.Sprintf("New request: %s", created.Title),
				RelatedRequestID: &created.ID,
			})
		}
		return notifs
	})
	if err != nil {
		return nil, err
	}

	if s.push != nil {
		for _, artistID := range artistIDs {
			s.push.PushToUser(ctx, artistID, "New Art Request", fmt.Sprintf("New request: %s", r.Title))
		}
	}

	return r, nil
}

func (s *Service) ListMyRequests(ctx context.Context, customerID int64) ([]RequestDetails, error) {
	rows, err := s.requests.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.withDetails(ctx, rows)
}

// ListOpenRequests is the artist-facing job board; only eligible artists may
// browse it, re-checked live rather than from the stored flag.
func (s *Service) ListOpenRequests(ctx context.Context, artistID int64) ([]RequestDetails, error) {
	actor, err := s.users.GetByID(ctx, artistID)
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	if actor.Role != domain.RoleArtist {
		return nil, ErrForbidden
	}
	eligible, err := s.eligibility.Check(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, ErrArtistNotEligible
	}

	rows, err := s.requests.ListOpen(ctx)
	if err != nil {
		return nil, err
	}
	return s.withDetails(ctx, rows)
}

// GetRequest is visible to the request owner, the selected artist and admins.
func (s *Service) GetRequest(ctx context.Context, actorID int64, actorRole string, requestID int64) (*RequestDetails, error) {
	r, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, s.mapNotFound(err)
	}

	isOwner := r.CustomerID == actorID
	isSelected := r.SelectedArtistID != nil && *r.SelectedArtistID == actorID
	if !isOwner && !isSelected && actorRole != string(domain.RoleAdmin) {
		return nil, ErrForbidden
	}

	details, err := s.withDetails(ctx, []domain.Request{*r})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// SubmitOffer lets an eligible artist bid on an open request. The duplicate
// guard is checked up front for a clean error and enforced by the unique
// index for the concurrent case.
func (s *Service) SubmitOffer(ctx context.Context, artistID, requestID int64, req CreateOfferRequest) (*domain.Offer, error) {
	actor, err := s.users.GetByID(ctx, artistID)
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	if actor.Role != domain.RoleArtist {
		return nil, ErrForbidden
	}
	eligible, err := s.eligibility.Check(ctx, actor)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, ErrArtistNotEligible
	}

	r, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	if r.Status != domain.RequestOpen {
		return nil, ErrRequestNotOpen
	}

	exists, err := s.offers.ExistsByRequestAndArtist(ctx, requestID, artistID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateOffer
	}

	o := &domain.Offer{
		RequestID:    requestID,
		ArtistID:     artistID,
		Price:        req.Price,
		DeliveryDays: req.DeliveryDays,
		Message:      req.Message,
		Status:       domain.OfferPending,
	}
	if fields := validator.Validate(o); fields != nil {
		return nil, ErrValidation
	}

	err = s.offers.Create(ctx, o, func(created *domain.Offer) *domain.Notification {
		return &domain.Notification{
			UserID:           r.CustomerID,
			Type:             domain.NotifNewOffer,
			Title:            "New Offer Received",
			Message:          fmt.Sprintf("New offer for '%s' from %s", r.Title, actor.Name),
			RelatedRequestID: &r.ID,
			RelatedArtistID:  &created.ArtistID,
		}
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateOffer) {
			return nil, ErrDuplicateOffer
		}
		return nil, err
	}

	if s.push != nil {
		s.push.PushToUser(ctx, r.CustomerID, "New Offer Received",
			fmt.Sprintf("New offer for '%s' from %s", r.Title, actor.Name))
	}

	return o, nil
}

// WithdrawOffer removes the author's own offer while the request is open.
func (s *Service) WithdrawOffer(ctx context.Context, artistID, offerID int64) error {
	o, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		return s.mapNotFound(err)
	}
	if o.ArtistID != artistID {
		return ErrForbidden
	}

	r, err := s.requests.GetByID(ctx, o.RequestID)
	if err != nil {
		return s.mapNotFound(err)
	}
	if r.Status != domain.RequestOpen {
		return ErrRequestNotOpen
	}

	return s.offers.Delete(ctx, offerID)
}

// ListOffersForRequest is owner-only: artists never see competing offers.
func (s *Service) ListOffersForRequest(ctx context.Context, actorID, requestID int64) ([]repository.OfferWithArtist, error) {
	r, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	if r.CustomerID != actorID {
		return nil, ErrForbidden
	}
	return s.offers.ListByRequestWithArtist(ctx, requestID)
}

func (s *Service) ListMyOffers(ctx context.Context, artistID int64) ([]domain.Offer, error) {
	actor, err := s.users.GetByID(ctx, artistID)
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	if actor.Role != domain.RoleArtist {
		return nil, ErrForbidden
	}
	return s.offers.ListByArtist(ctx, artistID)
}

// SelectOffer commits the owner's choice of winning offer. The repository
// transaction is the atomic unit: request open -> selected, winner accepted,
// every other offer rejected, all notifications written together. A
// concurrent selection loses on the conditional status update and surfaces
// as ErrRequestNotOpen.
func (s *Service) SelectOffer(ctx context.Context, customerID, requestID, offerID int64) (*repository.SelectionResult, error) {
	r, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	if r.CustomerID != customerID {
		return nil, ErrForbidden
	}
	if r.Status != domain.RequestOpen {
		return nil, ErrRequestNotOpen
	}

	result, err := s.requests.SelectOffer(ctx, requestID, offerID,
		func(req *domain.Request, accepted *domain.Offer, rejected []domain.Offer) []domain.Notification {
			notifs := make([]domain.Notification, 0, len(rejected)+1)
			notifs = append(notifs, domain.Notification{
				UserID:           accepted.ArtistID,
				Type:             domain.NotifOfferAccepted,
				Title:            "Offer Accepted!",
				Message:          fmt.Sprintf("Your offer for '%s' was accepted", req.Title),
				RelatedRequestID: &req.ID,
			})
			for _, loser := range rejected {
				notifs = append(notifs, domain.Notification{
					UserID:           loser.ArtistID,
					Type:             domain.NotifOfferRejected,
					Title:            "Offer Not Selected",
					Message:          fmt.Sprintf("Your offer for '%s' was not selected", req.Title),
					RelatedRequestID: &req.ID,
				})
			}
			return notifs
		})
	if err != nil {
		if errors.Is(err, repository.ErrNotOpen) {
			return nil, ErrRequestNotOpen
		}
		return nil, s.mapNotFound(err)
	}

	if s.push != nil {
		s.push.PushToUser(ctx, result.AcceptedOffer.ArtistID, "Offer Accepted!",
			fmt.Sprintf("Your offer for '%s' was accepted", result.Request.Title))
		for _, loser := range result.RejectedOffers {
			s.push.PushToUser(ctx, loser.ArtistID, "Offer Not Selected",
				fmt.Sprintf("Your offer for '%s' was not selected", result.Request.Title))
		}
	}

	return result, nil
}

// CompleteRequest moves an owner's request from selected to completed and
// notifies the selected artist.
func (s *Service) CompleteRequest(ctx context.Context, customerID, requestID int64) (*domain.Request, error) {
	r, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	if r.CustomerID != customerID {
		return nil, ErrForbidden
	}

	updated, err := s.requests.TransitionStatus(ctx, requestID, domain.RequestSelected, domain.RequestCompleted,
		func(req *domain.Request) []domain.Notification {
			if req.SelectedArtistID == nil {
				return nil
			}
			return []domain.Notification{{
				UserID:           *req.SelectedArtistID,
				Type:             domain.NotifRequestCompleted,
				Title:            "Request Completed",
				Message:          fmt.Sprintf("The request '%s' was marked as completed", req.Title),
				RelatedRequestID: &req.ID,
			}}
		})
	if err != nil {
		if errors.Is(err, repository.ErrNotOpen) {
			return nil, ErrRequestNotOpen
		}
		return nil, err
	}

	if s.push != nil && updated.SelectedArtistID != nil {
		s.push.PushToUser(ctx, *updated.SelectedArtistID, "Request Completed",
			fmt.Sprintf("The request '%s' was marked as completed", updated.Title))
	}

	return updated, nil
}

// CancelRequest moves an owner's open request to cancelled, rejecting any
// pending offers and notifying their authors.
func (s *Service) CancelRequest(ctx context.Context, customerID, requestID int64) (*domain.Request, error) {
	r, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	if r.CustomerID != customerID {
		return nil, ErrForbidden
	}

	var rejectedArtistIDs []int64
	updated, err := s.requests.Cancel(ctx, requestID,
		func(req *domain.Request, rejected []domain.Offer) []domain.Notification {
			rejectedArtistIDs = rejectedArtistIDs[:0]
			notifs := make([]domain.Notification, 0, len(rejected))
			for _, loser := range rejected {
				rejectedArtistIDs = append(rejectedArtistIDs, loser.ArtistID)
				notifs = append(notifs, domain.Notification{
					UserID:           loser.ArtistID,
					Type:             domain.NotifOfferRejected,
					Title:            "Request Cancelled",
					Message:          fmt.Sprintf("The request '%s' was cancelled by the customer", req.Title),
					RelatedRequestID: &req.ID,
				})
			}
			return notifs
		})
	if err != nil {
		if errors.Is(err, repository.ErrNotOpen) {
			return nil, ErrRequestNotOpen
		}
		return nil, err
	}

	if s.push != nil {
		for _, artistID := range rejectedArtistIDs {
			s.push.PushToUser(ctx, artistID, "Request Cancelled",
				fmt.Sprintf("The request '%s' was cancelled by the customer", updated.Title))
		}
	}

	return updated, nil
}

func (s *Service) withDetails(ctx context.Context, rows []domain.Request) ([]RequestDetails, error) {
	out := make([]RequestDetails, 0, len(rows))
	for _, r := range rows {
		count, err := s.offers.CountByRequest(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		images, err := s.requests.ListImages(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		urls := make([]string, 0, len(images))
		for _, img := range images {
			urls = append(urls, img.ImageURL)
		}
		out = append(out, RequestDetails{
			Request:            r,
			ReferenceImageURLs: urls,
			OffersCount:        count,
		})
	}
	return out, nil
}

func (s *Service) mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
