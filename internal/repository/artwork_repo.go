package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Mrhb33/Artivty/internal/domain"
)

type ArtworkRepository struct {
	db *gorm.DB
}

func NewArtworkRepository(db *gorm.DB) *ArtworkRepository {
	return &ArtworkRepository{db: db}
}

type artworkModel struct {
	ID          int64     `gorm:"column:id;primaryKey"`
	ArtistID    int64     `gorm:"column:artist_id;index"`
	Title       *string   `gorm:"column:title"`
	Description *string   `gorm:"column:description"`
	ImageURL    string    `gorm:"column:image_url"`
	StyleTags   *string   `gorm:"column:style_tags"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (artworkModel) TableName() string { return "artworks" }

func toDomainArtwork(m artworkModel) *domain.Artwork {
	var title, description, tags string
	if m.Title != nil {
		title = *m.Title
	}
	if m.Description != nil {
		description = *m.Description
	}
	if m.StyleTags != nil {
		tags = *m.StyleTags
	}

	return &domain.Artwork{
		ID:          m.ID,
		ArtistID:    m.ArtistID,
		Title:       title,
		Description: description,
		ImageURL:    m.ImageURL,
		StyleTags:   tags,
		CreatedAt:   m.CreatedAt,
	}
}

func toArtworkModel(a *domain.Artwork) artworkModel {
	var title, description, tags *string
	if a.Title != "" {
		v := a.Title
		title = &v
	}
	if a.Description != "" {
		v := a.Description
		description = &v
	}
	if a.StyleTags != "" {
		v := a.StyleTags
		tags = &v
	}

	return artworkModel{
		ID:          a.ID,
		ArtistID:    a.ArtistID,
		Title:       title,
		Description: description,
		ImageURL:    a.ImageURL,
		StyleTags:   tags,
		CreatedAt:   a.CreatedAt,
	}
}

func (r *ArtworkRepository) Create(ctx context.Context, a *domain.Artwork) error {
	m := toArtworkModel(a)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	*a = *toDomainArtwork(m)
	return nil
}

func (r *ArtworkRepository) GetByID(ctx context.Context, id int64) (*domain.Artwork, error) {
	var m artworkModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainArtwork(m), nil
}

func (r *ArtworkRepository) Update(ctx context.Context, a *domain.Artwork) error {
	m := toArtworkModel(a)
	tx := r.db.WithContext(ctx).
		Model(&artworkModel{}).
		Where("id = ?", a.ID).
		Select("title", "description", "image_url", "style_tags").
		Updates(&m)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ArtworkRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&artworkModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByArtist feeds the verification rule; it must reflect the real
// portfolio size after every mutation.
func (r *ArtworkRepository) CountByArtist(ctx context.Context, artistID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&artworkModel{}).
		Where("artist_id = ?", artistID).
		Count(&count).Error
	return count, err
}

func (r *ArtworkRepository) ListByArtist(ctx context.Context, artistID int64, limit, offset int) ([]domain.Artwork, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var rows []artworkModel
	tx := r.db.WithContext(ctx).
		Where("artist_id = ?", artistID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Artwork, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainArtwork(m))
	}
	return out, nil
}

// ListFeed returns artworks by verified artists for the home feed.
func (r *ArtworkRepository) ListFeed(ctx context.Context, limit, offset int) ([]domain.Artwork, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var rows []artworkModel
	tx := r.db.WithContext(ctx).
		Table("artworks").
		Joins("JOIN users ON users.id = artworks.artist_id").
		Where("users.is_artist_verified = ?", true).
		Order("artworks.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}

	out := make([]domain.Artwork, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainArtwork(m))
	}
	return out, nil
}
