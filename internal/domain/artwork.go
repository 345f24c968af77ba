package domain

import "time"

type Artwork struct {
	ID          int64     `json:"id"`
	ArtistID    int64     `json:"artist_id"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	ImageURL    string    `json:"image_url" validate:"required"`
	StyleTags   string    `json:"style_tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
