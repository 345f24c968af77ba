package verification

import (
	"context"

	"github.com/Mrhb33/Artivty/internal/domain"
)

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	SetArtistVerified(ctx context.Context, userID int64, verified bool) error
}

type PortfolioCounter interface {
	CountByArtist(ctx context.Context, artistID int64) (int64, error)
}

// Verifier owns the artist-verification flag. Every mutation that can change
// eligibility (artwork add/remove, profile edit) goes through Recompute; no
// other code path writes the flag.
type Verifier struct {
	users    UserStore
	artworks PortfolioCounter
}

func NewVerifier(users UserStore, artworks PortfolioCounter) *Verifier {
	return &Verifier{users: users, artworks: artworks}
}

// Recompute re-evaluates the eligibility predicate against the live portfolio
// count and persists the result when it changed. Returns the current value.
func (v *Verifier) Recompute(ctx context.Context, userID int64) (bool, error) {
	user, err := v.users.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}

	if user.Role != domain.RoleArtist {
		// non-artists are never verified; clear a stale flag if present
		if user.IsArtistVerified {
			if err := v.users.SetArtistVerified(ctx, userID, false); err != nil {
				return false, err
			}
		}
		return false, nil
	}

	count, err := v.artworks.CountByArtist(ctx, userID)
	if err != nil {
		return false, err
	}

	verified := domain.EligibleArtist(user, count)
	if verified != user.IsArtistVerified {
		if err := v.users.SetArtistVerified(ctx, userID, verified); err != nil {
			return false, err
		}
	}
	return verified, nil
}

// Check evaluates eligibility without persisting, for call sites that must
// re-check at action time rather than trust the stored flag.
func (v *Verifier) Check(ctx context.Context, user *domain.User) (bool, error) {
	if user.Role != domain.RoleArtist {
		return false, nil
	}
	count, err := v.artworks.CountByArtist(ctx, user.ID)
	if err != nil {
		return false, err
	}
	return domain.EligibleArtist(user, count), nil
}
