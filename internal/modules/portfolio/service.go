package portfolio

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Mrhb33/Artivty/internal/domain"
)

type Service struct {
	artworks ArtworkRepository
	users    UserReader
	verifier Recomputer
}

func NewService(artworks ArtworkRepository, users UserReader, verifier Recomputer) *Service {
	return &Service{artworks: artworks, users: users, verifier: verifier}
}

// AddArtwork appends to an artist's portfolio and re-derives verification,
// since crossing the portfolio threshold can flip the flag.
func (s *Service) AddArtwork(ctx context.Context, artistID int64, req CreateArtworkRequest) (*ArtworkResult, error) {
	actor, err := s.users.GetByID(ctx, artistID)
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	if actor.Role != domain.RoleArtist {
		return nil, ErrArtistsOnly
	}

	a := &domain.Artwork{
		ArtistID:    artistID,
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		StyleTags:   req.StyleTags,
	}
	if err := s.artworks.Create(ctx, a); err != nil {
		return nil, err
	}

	return s.result(ctx, artistID, a)
}

func (s *Service) UpdateArtwork(ctx context.Context, artistID, artworkID int64, req UpdateArtworkRequest) (*domain.Artwork, error) {
	a, err := s.artworks.GetByID(ctx, artworkID)
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	if a.ArtistID != artistID {
		return nil, ErrForbidden
	}

	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Description != nil {
		a.Description = *req.Description
	}
	if req.StyleTags != nil {
		a.StyleTags = *req.StyleTags
	}

	if err := s.artworks.Update(ctx, a); err != nil {
		return nil, s.mapNotFound(err)
	}
	return a, nil
}

// RemoveArtwork deletes a portfolio entry and re-derives verification, which
// may drop the artist below the threshold.
func (s *Service) RemoveArtwork(ctx context.Context, artistID, artworkID int64) (*ArtworkResult, error) {
	a, err := s.artworks.GetByID(ctx, artworkID)
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	if a.ArtistID != artistID {
		return nil, ErrForbidden
	}

	if err := s.artworks.Delete(ctx, artworkID); err != nil {
		return nil, s.mapNotFound(err)
	}

	return s.result(ctx, artistID, nil)
}

func (s *Service) ListByArtist(ctx context.Context, artistID int64, limit, offset int) (*ArtworkPage, error) {
	artworks, err := s.artworks.ListByArtist(ctx, artistID, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.artworks.CountByArtist(ctx, artistID)
	if err != nil {
		return nil, err
	}
	return &ArtworkPage{Artworks: artworks, Total: total}, nil
}

// ListFeed returns recent artworks from verified artists for customer
// discovery.
func (s *Service) ListFeed(ctx context.Context, limit, offset int) ([]domain.Artwork, error) {
	return s.artworks.ListFeed(ctx, limit, offset)
}

func (s *Service) result(ctx context.Context, artistID int64, a *domain.Artwork) (*ArtworkResult, error) {
	verified, err := s.verifier.Recompute(ctx, artistID)
	if err != nil {
		return nil, err
	}
	count, err := s.artworks.CountByArtist(ctx, artistID)
	if err != nil {
		return nil, err
	}
	return &ArtworkResult{Artwork: a, ArtworkCount: count, Verified: verified}, nil
}

func (s *Service) mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
