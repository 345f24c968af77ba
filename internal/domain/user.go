package domain

import (
	"strings"
	"time"
)

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleArtist   UserRole = "artist"
	RoleAdmin    UserRole = "admin"
)

// MinPortfolioForVerification is the number of portfolio artworks an artist
// needs, together with a complete profile, to count as verified.
const MinPortfolioForVerification = 3

type User struct {
	ID                int64     `json:"id"`
	Email             string    `json:"email" validate:"required,email" gorm:"uniqueIndex:idx_users_email"`
	Username          string    `json:"username,omitempty" gorm:"uniqueIndex:idx_users_username"`
	Name              string    `json:"name"`
	PasswordHash      string    `json:"-"`
	Role              UserRole  `json:"role"`
	IsActive          bool      `json:"is_active"`
	ProfilePictureURL string    `json:"profile_picture_url,omitempty"`
	Bio               string    `json:"bio,omitempty"`
	IsArtistVerified  bool      `json:"is_artist_verified"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// HasCompleteProfile reports whether the profile fields required for artist
// verification are filled in.
func (u *User) HasCompleteProfile() bool {
	return u.ProfilePictureURL != "" && strings.TrimSpace(u.Bio) != ""
}

// EligibleArtist is the verification predicate: artist role, enough portfolio
// entries and a complete profile. It is the only thing allowed to decide the
// IsArtistVerified flag.
func EligibleArtist(u *User, portfolioCount int64) bool {
	return u.Role == RoleArtist &&
		portfolioCount >= MinPortfolioForVerification &&
		u.HasCompleteProfile()
}
