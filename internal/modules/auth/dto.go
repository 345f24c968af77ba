package auth

import (
	"time"

	"github.com/Mrhb33/Artivty/internal/domain"
)

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=3,max=30"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=customer artist"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type UpdateProfileRequest struct {
	Name              *string `json:"name"`
	Username          *string `json:"username"`
	ProfilePictureURL *string `json:"profile_picture_url"`
	Bio               *string `json:"bio"`
}

// Profile is the client-facing view of a user, including the live portfolio
// size an artist needs to track toward verification.
type Profile struct {
	ID                int64           `json:"id"`
	Email             string          `json:"email"`
	Username          string          `json:"username"`
	Name              string          `json:"name"`
	Role              domain.UserRole `json:"role"`
	ProfilePictureURL string          `json:"profile_picture_url,omitempty"`
	Bio               string          `json:"bio,omitempty"`
	IsArtistVerified  bool            `json:"is_artist_verified"`
	ArtworkCount      int64           `json:"artwork_count"`
	CreatedAt         time.Time       `json:"created_at"`
}

type AuthResponse struct {
	User         Profile `json:"user"`
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
}
