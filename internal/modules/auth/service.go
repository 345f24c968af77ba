package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Mrhb33/Artivty/internal/domain"
	jwtsvc "github.com/Mrhb33/Artivty/internal/pkg/jwt"
	"github.com/Mrhb33/Artivty/internal/repository"
)

type Service struct {
	users    UserRepository
	artworks PortfolioCounter
	verifier Recomputer
	jwt      *jwtsvc.Service
}

func NewService(users UserRepository, artworks PortfolioCounter, verifier Recomputer, jwt *jwtsvc.Service) *Service {
	return &Service{users: users, artworks: artworks, verifier: verifier, jwt: jwt}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)

	taken, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	taken, err = s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Email:        email,
		Username:     username,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: string(hash),
		Role:         domain.UserRole(req.Role),
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// pre-checks lose races; the unique indexes are the authority
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return s.issue(ctx, u)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrUserInactive
	}

	return s.issue(ctx, u)
}

// Refresh exchanges a valid refresh token for a fresh access/refresh pair.
// The user is reloaded so a deactivated account cannot keep refreshing.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwt.ValidateToken(refreshToken, jwtsvc.KindRefresh)
	if err != nil {
		return nil, ErrInvalidToken
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !u.IsActive {
		return nil, ErrUserInactive
	}

	return s.issue(ctx, u)
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*Profile, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.profile(ctx, u)
}

// UpdateProfile applies the provided fields and re-derives artist
// verification, since picture and bio feed the eligibility predicate.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*Profile, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username != u.Username {
			taken, err := s.users.ExistsByUsername(ctx, username)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrUsernameTaken
			}
			u.Username = username
		}
	}
	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.ProfilePictureURL != nil {
		u.ProfilePictureURL = *req.ProfilePictureURL
	}
	if req.Bio != nil {
		u.Bio = *req.Bio
	}

	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	verified, err := s.verifier.Recompute(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.IsArtistVerified = verified

	return s.profile(ctx, u)
}

func (s *Service) SearchUsers(ctx context.Context, actorID int64, f repository.SearchFilters) ([]domain.User, error) {
	f.ExcludeID = actorID
	return s.users.Search(ctx, f)
}

func (s *Service) issue(ctx context.Context, u *domain.User) (*AuthResponse, error) {
	access, refresh, err := s.jwt.GeneratePair(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}
	p, err := s.profile(ctx, u)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: *p, AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) profile(ctx context.Context, u *domain.User) (*Profile, error) {
	var count int64
	if u.Role == domain.RoleArtist {
		var err error
		count, err = s.artworks.CountByArtist(ctx, u.ID)
		if err != nil {
			return nil, err
		}
	}
	return &Profile{
		ID:                u.ID,
		Email:             u.Email,
		Username:          u.Username,
		Name:              u.Name,
		Role:              u.Role,
		ProfilePictureURL: u.ProfilePictureURL,
		Bio:               u.Bio,
		IsArtistVerified:  u.IsArtistVerified,
		ArtworkCount:      count,
		CreatedAt:         u.CreatedAt,
	}, nil
}
