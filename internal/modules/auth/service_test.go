package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Mrhb33/Artivty/internal/domain"
	jwtsvc "github.com/Mrhb33/Artivty/internal/pkg/jwt"
	"github.com/Mrhb33/Artivty/internal/repository"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil {
		u.ID = 1
	}
	return args.Error(0)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) Search(ctx context.Context, f repository.SearchFilters) ([]domain.User, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.User), args.Error(1)
}

type mockCounter struct {
	mock.Mock
}

func (m *mockCounter) CountByArtist(ctx context.Context, artistID int64) (int64, error) {
	args := m.Called(ctx, artistID)
	return args.Get(0).(int64), args.Error(1)
}

type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) Recompute(ctx context.Context, userID int64) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func newTestService(users *mockUserRepo, counter *mockCounter, verifier *mockVerifier) *Service {
	return NewService(users, counter, verifier, jwtsvc.New("test-secret", 15*time.Minute, 24*time.Hour))
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestRegister_IssuesTokenPair(t *testing.T) {
	users := new(mockUserRepo)
	counter := new(mockCounter)
	svc := newTestService(users, counter, new(mockVerifier))

	users.On("ExistsByEmail", mock.Anything, "new@example.com").Return(false, nil)
	users.On("ExistsByUsername", mock.Anything, "newbie").Return(false, nil)
	users.On("Create", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "New@Example.com",
		Username: "newbie",
		Name:     "New User",
		Password: "hunter2hunter2",
		Role:     "customer",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.NotEqual(t, result.AccessToken, result.RefreshToken)
	assert.Equal(t, "new@example.com", result.User.Email)
	assert.Equal(t, domain.RoleCustomer, result.User.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := new(mockUserRepo)
	svc := newTestService(users, new(mockCounter), new(mockVerifier))

	users.On("ExistsByEmail", mock.Anything, "dup@example.com").Return(true, nil)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Email: "dup@example.com", Username: "dup", Name: "Dup", Password: "hunter2hunter2", Role: "artist",
	})

	assert.ErrorIs(t, err, ErrEmailTaken)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin_WrongPassword(t *testing.T) {
	users := new(mockUserRepo)
	svc := newTestService(users, new(mockCounter), new(mockVerifier))

	users.On("GetByEmail", mock.Anything, "a@example.com").Return(&domain.User{
		ID: 1, Email: "a@example.com", PasswordHash: hashOf(t, "correct-horse"), IsActive: true,
	}, nil)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "a@example.com", Password: "wrong"})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	users := new(mockUserRepo)
	svc := newTestService(users, new(mockCounter), new(mockVerifier))

	users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ghost@example.com", Password: "whatever"})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	users := new(mockUserRepo)
	svc := newTestService(users, new(mockCounter), new(mockVerifier))

	users.On("GetByEmail", mock.Anything, "a@example.com").Return(&domain.User{
		ID: 1, Email: "a@example.com", PasswordHash: hashOf(t, "correct-horse"), IsActive: false,
	}, nil)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "a@example.com", Password: "correct-horse"})

	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	users := new(mockUserRepo)
	jwt := jwtsvc.New("test-secret", 15*time.Minute, 24*time.Hour)
	svc := NewService(users, new(mockCounter), new(mockVerifier), jwt)

	access, _, err := jwt.GeneratePair(1, "customer")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), access)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefresh_ReissuesPair(t *testing.T) {
	users := new(mockUserRepo)
	jwt := jwtsvc.New("test-secret", 15*time.Minute, 24*time.Hour)
	svc := NewService(users, new(mockCounter), new(mockVerifier), jwt)

	_, refresh, err := jwt.GeneratePair(1, "customer")
	require.NoError(t, err)

	users.On("GetByID", mock.Anything, int64(1)).Return(&domain.User{
		ID: 1, Email: "a@example.com", Role: domain.RoleCustomer, IsActive: true,
	}, nil)

	result, err := svc.Refresh(context.Background(), refresh)

	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
}

func TestUpdateProfile_RecomputesVerification(t *testing.T) {
	users := new(mockUserRepo)
	counter := new(mockCounter)
	verifier := new(mockVerifier)
	svc := newTestService(users, counter, verifier)

	users.On("GetByID", mock.Anything, int64(2)).Return(&domain.User{
		ID: 2, Email: "art@example.com", Role: domain.RoleArtist, IsActive: true,
	}, nil)
	users.On("Update", mock.Anything, mock.Anything).Return(nil)
	verifier.On("Recompute", mock.Anything, int64(2)).Return(true, nil)
	counter.On("CountByArtist", mock.Anything, int64(2)).Return(int64(3), nil)

	bio := "Watercolor landscapes"
	pic := "https://cdn.example.com/me.png"
	p, err := svc.UpdateProfile(context.Background(), 2, UpdateProfileRequest{Bio: &bio, ProfilePictureURL: &pic})

	require.NoError(t, err)
	assert.True(t, p.IsArtistVerified)
	assert.Equal(t, int64(3), p.ArtworkCount)
	verifier.AssertExpectations(t)
}

func TestUpdateProfile_UsernameTaken(t *testing.T) {
	users := new(mockUserRepo)
	svc := newTestService(users, new(mockCounter), new(mockVerifier))

	users.On("GetByID", mock.Anything, int64(2)).Return(&domain.User{
		ID: 2, Username: "old", Role: domain.RoleCustomer, IsActive: true,
	}, nil)
	users.On("ExistsByUsername", mock.Anything, "taken").Return(true, nil)

	taken := "taken"
	_, err := svc.UpdateProfile(context.Background(), 2, UpdateProfileRequest{Username: &taken})

	assert.ErrorIs(t, err, ErrUsernameTaken)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestSearchUsers_ExcludesSelf(t *testing.T) {
	users := new(mockUserRepo)
	svc := newTestService(users, new(mockCounter), new(mockVerifier))

	users.On("Search", mock.Anything, repository.SearchFilters{
		Query: "arn", Role: "artist", EligibleOnly: true, ExcludeID: 7, Limit: 10,
	}).Return([]domain.User{{ID: 2}}, nil)

	got, err := svc.SearchUsers(context.Background(), 7, repository.SearchFilters{
		Query: "arn", Role: "artist", EligibleOnly: true, Limit: 10,
	})

	require.NoError(t, err)
	assert.Len(t, got, 1)
	users.AssertExpectations(t)
}
