package portfolio

import "github.com/Mrhb33/Artivty/internal/domain"

type CreateArtworkRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url" binding:"required,url"`
	StyleTags   string `json:"style_tags"`
}

type UpdateArtworkRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	StyleTags   *string `json:"style_tags"`
}

// ArtworkResult carries an artwork plus the verification state the mutation
// left the artist in, so clients can show "2 of 3 artworks" progress.
type ArtworkResult struct {
	Artwork      *domain.Artwork `json:"artwork"`
	ArtworkCount int64           `json:"artwork_count"`
	Verified     bool            `json:"is_artist_verified"`
}

type ArtworkPage struct {
	Artworks []domain.Artwork `json:"artworks"`
	Total    int64            `json:"total"`
}
