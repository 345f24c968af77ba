package auth

import (
	"context"

	"github.com/Mrhb33/Artivty/internal/domain"
	"github.com/Mrhb33/Artivty/internal/repository"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, u *domain.User) error
	Search(ctx context.Context, f repository.SearchFilters) ([]domain.User, error)
}

type PortfolioCounter interface {
	CountByArtist(ctx context.Context, artistID int64) (int64, error)
}

// Recomputer re-derives the artist-verification flag after a profile change.
type Recomputer interface {
	Recompute(ctx context.Context, userID int64) (bool, error)
}
