package negotiation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Mrhb33/Artivty/internal/domain"
	"github.com/Mrhb33/Artivty/internal/repository"
)

type mockRequestRepo struct {
	mock.Mock
	// notifications produced by the last transactional callback
	captured []domain.Notification
}

func (m *mockRequestRepo) CreateWithImages(ctx context.Context, req *domain.Request, imageURLs []string,
	fanout func(created *domain.Request) []domain.Notification) error {
	args := m.Called(ctx, req, imageURLs)
	if args.Error(0) == nil {
		req.ID = 1
		m.captured = fanout(req)
	}
	return args.Error(0)
}

func (m *mockRequestRepo) GetByID(ctx context.Context, id int64) (*domain.Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Request), args.Error(1)
}

func (m *mockRequestRepo) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Request, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]domain.Request), args.Error(1)
}

func (m *mockRequestRepo) ListOpen(ctx context.Context) ([]domain.Request, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Request), args.Error(1)
}

func (m *mockRequestRepo) ListImages(ctx context.Context, requestID int64) ([]domain.ReferenceImage, error) {
	args := m.Called(ctx, requestID)
	return args.Get(0).([]domain.ReferenceImage), args.Error(1)
}

func (m *mockRequestRepo) SelectOffer(ctx context.Context, requestID, offerID int64,
	notify func(req *domain.Request, accepted *domain.Offer, rejected []domain.Offer) []domain.Notification) (*repository.SelectionResult, error) {
	args := m.Called(ctx, requestID, offerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	result := args.Get(0).(*repository.SelectionResult)
	m.captured = notify(result.Request, result.AcceptedOffer, result.RejectedOffers)
	return result, args.Error(1)
}

func (m *mockRequestRepo) TransitionStatus(ctx context.Context, requestID int64, from, to domain.RequestStatus,
	notify func(req *domain.Request) []domain.Notification) (*domain.Request, error) {
	args := m.Called(ctx, requestID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	r := args.Get(0).(*domain.Request)
	m.captured = notify(r)
	return r, args.Error(1)
}

func (m *mockRequestRepo) Cancel(ctx context.Context, requestID int64,
	notify func(req *domain.Request, rejected []domain.Offer) []domain.Notification) (*domain.Request, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	r := args.Get(0).(*domain.Request)
	var rejected []domain.Offer
	if rej := args.Get(2); rej != nil {
		rejected = rej.([]domain.Offer)
	}
	m.captured = notify(r, rejected)
	return r, args.Error(1)
}

type mockOfferRepo struct {
	mock.Mock
	captured *domain.Notification
}

func (m *mockOfferRepo) Create(ctx context.Context, o *domain.Offer,
	notify func(created *domain.Offer) *domain.Notification) error {
	args := m.Called(ctx, o)
	if args.Error(0) == nil {
		o.ID = 1
		m.captured = notify(o)
	}
	return args.Error(0)
}

func (m *mockOfferRepo) GetByID(ctx context.Context, id int64) (*domain.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Offer), args.Error(1)
}

func (m *mockOfferRepo) ExistsByRequestAndArtist(ctx context.Context, requestID, artistID int64) (bool, error) {
	args := m.Called(ctx, requestID, artistID)
	return args.Bool(0), args.Error(1)
}

func (m *mockOfferRepo) CountByRequest(ctx context.Context, requestID int64) (int64, error) {
	args := m.Called(ctx, requestID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockOfferRepo) ListByRequestWithArtist(ctx context.Context, requestID int64) ([]repository.OfferWithArtist, error) {
	args := m.Called(ctx, requestID)
	return args.Get(0).([]repository.OfferWithArtist), args.Error(1)
}

func (m *mockOfferRepo) ListByArtist(ctx context.Context, artistID int64) ([]domain.Offer, error) {
	args := m.Called(ctx, artistID)
	return args.Get(0).([]domain.Offer), args.Error(1)
}

func (m *mockOfferRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockUserReader struct {
	mock.Mock
}

func (m *mockUserReader) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserReader) ListEligibleArtistIDs(ctx context.Context, limit int) ([]int64, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]int64), args.Error(1)
}

type mockEligibility struct {
	mock.Mock
}

func (m *mockEligibility) Check(ctx context.Context, user *domain.User) (bool, error) {
	args := m.Called(ctx, user)
	return args.Bool(0), args.Error(1)
}

type recordingPusher struct {
	sent []string
}

func (p *recordingPusher) PushToUser(ctx context.Context, userID int64, title, message string) {
	p.sent = append(p.sent, title)
}

type fixture struct {
	requests    *mockRequestRepo
	offers      *mockOfferRepo
	users       *mockUserReader
	eligibility *mockEligibility
	push        *recordingPusher
	svc         *Service
}

func newFixture() *fixture {
	f := &fixture{
		requests:    new(mockRequestRepo),
		offers:      new(mockOfferRepo),
		users:       new(mockUserReader),
		eligibility: new(mockEligibility),
		push:        &recordingPusher{},
	}
	f.svc = NewService(f.requests, f.offers, f.users, f.eligibility, f.push)
	return f
}

func customer(id int64) *domain.User {
	return &domain.User{ID: id, Role: domain.RoleCustomer, Name: "Cara Customer"}
}

func artist(id int64) *domain.User {
	return &domain.User{
		ID:                id,
		Role:              domain.RoleArtist,
		Name:              "Arn Artist",
		ProfilePictureURL: "https://cdn.example.com/p.png",
		Bio:               "Oil painter",
	}
}

func openRequest(id, customerID int64) *domain.Request {
	return &domain.Request{ID: id, CustomerID: customerID, Title: "Portrait of my dog", Status: domain.RequestOpen}
}

func TestCreateRequest_FansOutToEligibleArtists(t *testing.T) {
	f := newFixture()
	f.users.On("GetByID", mock.Anything, int64(10)).Return(customer(10), nil)
	f.users.On("ListEligibleArtistIDs", mock.Anything, fanoutCap).Return([]int64{21, 22, 23}, nil)
	f.requests.On("CreateWithImages", mock.Anything, mock.Anything, []string{"a.png"}).Return(nil)

	r, err := f.svc.CreateRequest(context.Background(), 10, CreateRequestRequest{
		Title:           "Portrait of my dog",
		Description:     "Golden retriever, oil on canvas",
		ReferenceImages: []string{"a.png"},
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RequestOpen, r.Status)
	require.Len(t, f.requests.captured, 3)
	for i, n := range f.requests.captured {
		assert.Equal(t, int64(21+i), n.UserID)
		assert.Equal(t, domain.NotifNewRequest, n.Type)
		require.NotNil(t, n.RelatedRequestID)
		assert.Equal(t, r.ID, *n.RelatedRequestID)
	}
	assert.Len(t, f.push.sent, 3)
}

func TestCreateRequest_ArtistCannotPost(t *testing.T) {
	f := newFixture()
	f.users.On("GetByID", mock.Anything, int64(21)).Return(artist(21), nil)

	_, err := f.svc.CreateRequest(context.Background(), 21, CreateRequestRequest{Title: "x", Description: "y"})

	assert.ErrorIs(t, err, ErrForbidden)
	f.requests.AssertNotCalled(t, "CreateWithImages", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitOffer_NotifiesCustomer(t *testing.T) {
	f := newFixture()
	f.users.On("GetByID", mock.Anything, int64(21)).Return(artist(21), nil)
	f.eligibility.On("Check", mock.Anything, mock.Anything).Return(true, nil)
	f.requests.On("GetByID", mock.Anything, int64(1)).Return(openRequest(1, 10), nil)
	f.offers.On("ExistsByRequestAndArtist", mock.Anything, int64(1), int64(21)).Return(false, nil)
	f.offers.On("Create", mock.Anything, mock.Anything).Return(nil)

	o, err := f.svc.SubmitOffer(context.Background(), 21, 1, CreateOfferRequest{Price: 250, DeliveryDays: 14})

	require.NoError(t, err)
	assert.Equal(t, domain.OfferPending, o.Status)
	require.NotNil(t, f.offers.captured)
	assert.Equal(t, int64(10), f.offers.captured.UserID)
	assert.Equal(t, domain.NotifNewOffer, f.offers.captured.Type)
	assert.Contains(t, f.offers.captured.Message, "Portrait of my dog")
	assert.Equal(t, []string{"New Offer Received"}, f.push.sent)
}

func TestSubmitOffer_IneligibleArtist(t *testing.T) {
	f := newFixture()
	f.users.On("GetByID", mock.Anything, int64(21)).Return(artist(21), nil)
	f.eligibility.On("Check", mock.Anything, mock.Anything).Return(false, nil)

	_, err := f.svc.SubmitOffer(context.Background(), 21, 1, CreateOfferRequest{Price: 250, DeliveryDays: 14})

	assert.ErrorIs(t, err, ErrArtistNotEligible)
}

func TestSubmitOffer_ClosedRequest(t *testing.T) {
	f := newFixture()
	f.users.On("GetByID", mock.Anything, int64(21)).Return(artist(21), nil)
	f.eligibility.On("Check", mock.Anything, mock.Anything).Return(true, nil)
	r := openRequest(1, 10)
	r.Status = domain.RequestSelected
	f.requests.On("GetByID", mock.Anything, int64(1)).Return(r, nil)

	_, err := f.svc.SubmitOffer(context.Background(), 21, 1, CreateOfferRequest{Price: 250, DeliveryDays: 14})

	assert.ErrorIs(t, err, ErrRequestNotOpen)
}

func TestSubmitOffer_DuplicatePreCheck(t *testing.T) {
	f := newFixture()
	f.users.On("GetByID", mock.Anything, int64(21)).Return(artist(21), nil)
	f.eligibility.On("Check", mock.Anything, mock.Anything).Return(true, nil)
	f.requests.On("GetByID", mock.Anything, int64(1)).Return(openRequest(1, 10), nil)
	f.offers.On("ExistsByRequestAndArtist", mock.Anything, int64(1), int64(21)).Return(true, nil)

	_, err := f.svc.SubmitOffer(context.Background(), 21, 1, CreateOfferRequest{Price: 250, DeliveryDays: 14})

	assert.ErrorIs(t, err, ErrDuplicateOffer)
	f.offers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitOffer_DuplicateRace(t *testing.T) {
	f := newFixture()
	f.users.On("GetByID", mock.Anything, int64(21)).Return(artist(21), nil)
	f.eligibility.On("Check", mock.Anything, mock.Anything).Return(true, nil)
	f.requests.On("GetByID", mock.Anything, int64(1)).Return(openRequest(1, 10), nil)
	f.offers.On("ExistsByRequestAndArtist", mock.Anything, int64(1), int64(21)).Return(false, nil)
	f.offers.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicateOffer)

	_, err := f.svc.SubmitOffer(context.Background(), 21, 1, CreateOfferRequest{Price: 250, DeliveryDays: 14})

	assert.ErrorIs(t, err, ErrDuplicateOffer)
}

func TestSelectOffer_AcceptsWinnerRejectsRest(t *testing.T) {
	f := newFixture()
	f.requests.On("GetByID", mock.Anything, int64(1)).Return(openRequest(1, 10), nil)

	selected := int64(21)
	result := &repository.SelectionResult{
		Request:       &domain.Request{ID: 1, CustomerID: 10, Title: "Portrait of my dog", Status: domain.RequestSelected, SelectedArtistID: &selected},
		AcceptedOffer: &domain.Offer{ID: 5, RequestID: 1, ArtistID: 21, Status: domain.OfferAccepted},
		RejectedOffers: []domain.Offer{
			{ID: 6, RequestID: 1, ArtistID: 22, Status: domain.OfferRejected},
			{ID: 7, RequestID: 1, ArtistID: 23, Status: domain.OfferRejected},
		},
	}
	f.requests.On("SelectOffer", mock.Anything, int64(1), int64(5)).Return(result, nil)

	got, err := f.svc.SelectOffer(context.Background(), 10, 1, 5)

	require.NoError(t, err)
	assert.Equal(t, domain.RequestSelected, got.Request.Status)
	require.Len(t, f.requests.captured, 3)
	assert.Equal(t, domain.NotifOfferAccepted, f.requests.captured[0].Type)
	assert.Equal(t, int64(21), f.requests.captured[0].UserID)
	assert.Equal(t, domain.NotifOfferRejected, f.requests.captured[1].Type)
	assert.Equal(t, domain.NotifOfferRejected, f.requests.captured[2].Type)
	assert.Equal(t, []string{"Offer Accepted!", "Offer Not Selected", "Offer Not Selected"}, f.push.sent)
}

func TestSelectOffer_NotOwner(t *testing.T) {
	f := newFixture()
	f.requests.On("GetByID", mock.Anything, int64(1)).Return(openRequest(1, 10), nil)

	_, err := f.svc.SelectOffer(context.Background(), 99, 1, 5)

	assert.ErrorIs(t, err, ErrForbidden)
	f.requests.AssertNotCalled(t, "SelectOffer", mock.Anything, mock.Anything, mock.Anything)
}

func TestSelectOffer_AlreadySelected(t *testing.T) {
	f := newFixture()
	r := openRequest(1, 10)
	r.Status = domain.RequestSelected
	f.requests.On("GetByID", mock.Anything, int64(1)).Return(r, nil)

	_, err := f.svc.SelectOffer(context.Background(), 10, 1, 5)

	assert.ErrorIs(t, err, ErrRequestNotOpen)
}

func TestSelectOffer_LosesRace(t *testing.T) {
	f := newFixture()
	f.requests.On("GetByID", mock.Anything, int64(1)).Return(openRequest(1, 10), nil)
	f.requests.On("SelectOffer", mock.Anything, int64(1), int64(5)).Return(nil, repository.ErrNotOpen)

	_, err := f.svc.SelectOffer(context.Background(), 10, 1, 5)

	assert.ErrorIs(t, err, ErrRequestNotOpen)
	assert.Empty(t, f.push.sent)
}

func TestSelectOffer_UnknownOffer(t *testing.T) {
	f := newFixture()
	f.requests.On("GetByID", mock.Anything, int64(1)).Return(openRequest(1, 10), nil)
	f.requests.On("SelectOffer", mock.Anything, int64(1), int64(404)).Return(nil, gorm.ErrRecordNotFound)

	_, err := f.svc.SelectOffer(context.Background(), 10, 1, 404)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWithdrawOffer_AuthorOnly(t *testing.T) {
	f := newFixture()
	f.offers.On("GetByID", mock.Anything, int64(5)).Return(&domain.Offer{ID: 5, RequestID: 1, ArtistID: 21}, nil)

	err := f.svc.WithdrawOffer(context.Background(), 99, 5)

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestWithdrawOffer_RequestNoLongerOpen(t *testing.T) {
	f := newFixture()
	f.offers.On("GetByID", mock.Anything, int64(5)).Return(&domain.Offer{ID: 5, RequestID: 1, ArtistID: 21}, nil)
	r := openRequest(1, 10)
	r.Status = domain.RequestSelected
	f.requests.On("GetByID", mock.Anything, int64(1)).Return(r, nil)

	err := f.svc.WithdrawOffer(context.Background(), 21, 5)

	assert.ErrorIs(t, err, ErrRequestNotOpen)
	f.offers.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestListOffersForRequest_OwnerOnly(t *testing.T) {
	f := newFixture()
	f.requests.On("GetByID", mock.Anything, int64(1)).Return(openRequest(1, 10), nil)

	_, err := f.svc.ListOffersForRequest(context.Background(), 21, 1)

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGetRequest_SelectedArtistCanView(t *testing.T) {
	f := newFixture()
	selected := int64(21)
	r := &domain.Request{ID: 1, CustomerID: 10, Title: "Portrait of my dog", Status: domain.RequestSelected, SelectedArtistID: &selected}
	f.requests.On("GetByID", mock.Anything, int64(1)).Return(r, nil)
	f.offers.On("CountByRequest", mock.Anything, int64(1)).Return(int64(3), nil)
	f.requests.On("ListImages", mock.Anything, int64(1)).Return([]domain.ReferenceImage{}, nil)

	details, err := f.svc.GetRequest(context.Background(), 21, string(domain.RoleArtist), 1)

	require.NoError(t, err)
	assert.Equal(t, int64(3), details.OffersCount)
}

func TestGetRequest_StrangerForbidden(t *testing.T) {
	f := newFixture()
	f.requests.On("GetByID", mock.Anything, int64(1)).Return(openRequest(1, 10), nil)

	_, err := f.svc.GetRequest(context.Background(), 55, string(domain.RoleArtist), 1)

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCancelRequest_RejectsPendingOffers(t *testing.T) {
	f := newFixture()
	f.requests.On("GetByID", mock.Anything, int64(1)).Return(openRequest(1, 10), nil)
	cancelled := openRequest(1, 10)
	cancelled.Status = domain.RequestCancelled
	rejected := []domain.Offer{{ID: 6, RequestID: 1, ArtistID: 22}, {ID: 7, RequestID: 1, ArtistID: 23}}
	f.requests.On("Cancel", mock.Anything, int64(1)).Return(cancelled, nil, rejected)

	r, err := f.svc.CancelRequest(context.Background(), 10, 1)

	require.NoError(t, err)
	assert.Equal(t, domain.RequestCancelled, r.Status)
	require.Len(t, f.requests.captured, 2)
	assert.Equal(t, domain.NotifOfferRejected, f.requests.captured[0].Type)
	assert.Equal(t, []string{"Request Cancelled", "Request Cancelled"}, f.push.sent)
}

func TestCompleteRequest_NotifiesSelectedArtist(t *testing.T) {
	f := newFixture()
	selected := int64(21)
	r := &domain.Request{ID: 1, CustomerID: 10, Title: "Portrait of my dog", Status: domain.RequestSelected, SelectedArtistID: &selected}
	f.requests.On("GetByID", mock.Anything, int64(1)).Return(r, nil)
	done := &domain.Request{ID: 1, CustomerID: 10, Title: "Portrait of my dog", Status: domain.RequestCompleted, SelectedArtistID: &selected}
	f.requests.On("TransitionStatus", mock.Anything, int64(1), domain.RequestSelected, domain.RequestCompleted).Return(done, nil)

	got, err := f.svc.CompleteRequest(context.Background(), 10, 1)

	require.NoError(t, err)
	assert.Equal(t, domain.RequestCompleted, got.Status)
	require.Len(t, f.requests.captured, 1)
	assert.Equal(t, domain.NotifRequestCompleted, f.requests.captured[0].Type)
	assert.Equal(t, []string{"Request Completed"}, f.push.sent)
}
