package negotiation

import (
	"context"

	"github.com/Mrhb33/Artivty/internal/domain"
	"github.com/Mrhb33/Artivty/internal/repository"
)

// RequestRepository is the slice of the request store the negotiation
// service uses. The transactional methods own the atomicity guarantees.
type RequestRepository interface {
	CreateWithImages(ctx context.Context, req *domain.Request, imageURLs []string,
		fanout func(created *domain.Request) []domain.Notification) error
	GetByID(ctx context.Context, id int64) (*domain.Request, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Request, error)
	ListOpen(ctx context.Context) ([]domain.Request, error)
	ListImages(ctx context.Context, requestID int64) ([]domain.ReferenceImage, error)
	SelectOffer(ctx context.Context, requestID, offerID int64,
		notify func(req *domain.Request, accepted *domain.Offer, rejected []domain.Offer) []domain.Notification) (*repository.SelectionResult, error)
	TransitionStatus(ctx context.Context, requestID int64, from, to domain.RequestStatus,
		notify func(req *domain.Request) []domain.Notification) (*domain.Request, error)
	Cancel(ctx context.Context, requestID int64,
		notify func(req *domain.Request, rejected []domain.Offer) []domain.Notification) (*domain.Request, error)
}

type OfferRepository interface {
	Create(ctx context.Context, o *domain.Offer,
		notify func(created *domain.Offer) *domain.Notification) error
	GetByID(ctx context.Context, id int64) (*domain.Offer, error)
	ExistsByRequestAndArtist(ctx context.Context, requestID, artistID int64) (bool, error)
	CountByRequest(ctx context.Context, requestID int64) (int64, error)
	ListByRequestWithArtist(ctx context.Context, requestID int64) ([]repository.OfferWithArtist, error)
	ListByArtist(ctx context.Context, artistID int64) ([]domain.Offer, error)
	Delete(ctx context.Context, id int64) error
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ListEligibleArtistIDs(ctx context.Context, limit int) ([]int64, error)
}

// EligibilityChecker re-evaluates artist eligibility at action time instead
// of trusting the stored flag.
type EligibilityChecker interface {
	Check(ctx context.Context, user *domain.User) (bool, error)
}

// Pusher delivers best-effort push notifications after a domain transaction
// has committed. Failures are the pusher's problem, never the caller's.
type Pusher interface {
	PushToUser(ctx context.Context, userID int64, title, message string)
}
