package portfolio

import (
	"context"

	"github.com/Mrhb33/Artivty/internal/domain"
)

type ArtworkRepository interface {
	Create(ctx context.Context, a *domain.Artwork) error
	GetByID(ctx context.Context, id int64) (*domain.Artwork, error)
	Update(ctx context.Context, a *domain.Artwork) error
	Delete(ctx context.Context, id int64) error
	CountByArtist(ctx context.Context, artistID int64) (int64, error)
	ListByArtist(ctx context.Context, artistID int64, limit, offset int) ([]domain.Artwork, error)
	ListFeed(ctx context.Context, limit, offset int) ([]domain.Artwork, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// Recomputer re-derives artist verification after the portfolio changes size.
type Recomputer interface {
	Recompute(ctx context.Context, userID int64) (bool, error)
}
