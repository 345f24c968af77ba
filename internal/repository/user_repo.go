package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Mrhb33/Artivty/internal/domain"
)

var (
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateUsername = errors.New("username already exists")
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID                int64     `gorm:"column:id;primaryKey"`
	Email             string    `gorm:"column:email;uniqueIndex:idx_users_email"`
	Username          *string   `gorm:"column:username;uniqueIndex:idx_users_username"`
	Name              string    `gorm:"column:name"`
	PasswordHash      string    `gorm:"column:password_hash"`
	Role              string    `gorm:"column:role"`
	IsActive          bool      `gorm:"column:is_active"`
	ProfilePictureURL *string   `gorm:"column:profile_picture_url"`
	Bio               *string   `gorm:"column:bio"`
	IsArtistVerified  bool      `gorm:"column:is_artist_verified"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

func toDomainUser(m userModel) *domain.User {
	var username, picture, bio string
	if m.Username != nil {
		username = *m.Username
	}
	if m.ProfilePictureURL != nil {
		picture = *m.ProfilePictureURL
	}
	if m.Bio != nil {
		bio = *m.Bio
	}

	return &domain.User{
		ID:                m.ID,
		Email:             m.Email,
		Username:          username,
		Name:              m.Name,
		PasswordHash:      m.PasswordHash,
		Role:              domain.UserRole(m.Role),
		IsActive:          m.IsActive,
		ProfilePictureURL: picture,
		Bio:               bio,
		IsArtistVerified:  m.IsArtistVerified,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toUserModel(u *domain.User) userModel {
	email := strings.TrimSpace(strings.ToLower(u.Email))

	var username, picture, bio *string
	if u.Username != "" {
		v := u.Username
		username = &v
	}
	if u.ProfilePictureURL != "" {
		v := u.ProfilePictureURL
		picture = &v
	}
	if u.Bio != "" {
		v := u.Bio
		bio = &v
	}

	return userModel{
		ID:                u.ID,
		Email:             email,
		Username:          username,
		Name:              u.Name,
		PasswordHash:      u.PasswordHash,
		Role:              string(u.Role),
		IsActive:          u.IsActive,
		ProfilePictureURL: picture,
		Bio:               bio,
		IsArtistVerified:  u.IsArtistVerified,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	tx := r.db.WithContext(ctx).Create(&m)
	if tx.Error != nil {
		return mapUserUniqueViolation(tx.Error)
	}
	*u = *toDomainUser(m)
	return nil
}

// mapUserUniqueViolation translates schema-level uniqueness failures on the
// email/username indexes into sentinel errors. The index names carry the
// column, so both the sqlite and the postgres message identify which one hit.
func mapUserUniqueViolation(err error) error {
	if !isUniqueViolation(err) {
		return err
	}
	if strings.Contains(err.Error(), "username") {
		return ErrDuplicateUsername
	}
	return ErrDuplicateEmail
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("LOWER(username) = ?", strings.ToLower(strings.TrimSpace(username))).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	m := toUserModel(u)
	m.UpdatedAt = time.Now().UTC()
	tx := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("id = ?", u.ID).
		Select("email", "username", "name", "role", "is_active",
			"profile_picture_url", "bio", "updated_at").
		Updates(&m)
	if tx.Error != nil {
		return mapUserUniqueViolation(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	u.UpdatedAt = m.UpdatedAt
	return nil
}

// SetArtistVerified persists the recomputed verification flag. This is the
// only writer of that column.
func (r *UserRepository) SetArtistVerified(ctx context.Context, userID int64, verified bool) error {
	return r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"is_artist_verified": verified,
			"updated_at":         time.Now().UTC(),
		}).Error
}

type SearchFilters struct {
	Query        string
	Role         string
	EligibleOnly bool
	ExcludeID    int64
	Limit        int
}

func (r *UserRepository) Search(ctx context.Context, f SearchFilters) ([]domain.User, error) {
	if f.Limit <= 0 || f.Limit > 50 {
		f.Limit = 50
	}

	q := r.db.WithContext(ctx).Model(&userModel{})

	if f.Query != "" {
		pattern := "%" + strings.ToLower(f.Query) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(username) LIKE ?", pattern, pattern)
	}
	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.EligibleOnly {
		q = q.Where("role = ? AND is_artist_verified = ?", string(domain.RoleArtist), true)
	}
	if f.ExcludeID > 0 {
		q = q.Where("id != ?", f.ExcludeID)
	}

	var rows []userModel
	if err := q.Limit(f.Limit).Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.User, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainUser(m))
	}
	return out, nil
}

// ListEligibleArtistIDs snapshots the ids of currently verified artists with
// complete profiles, capped so the new-request fan-out stays bounded.
func (r *UserRepository) ListEligibleArtistIDs(ctx context.Context, limit int) ([]int64, error) {
	if limit <= 0 {
		limit = 500
	}
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("role = ?", string(domain.RoleArtist)).
		Where("is_artist_verified = ?", true).
		Where("profile_picture_url IS NOT NULL").
		Where("bio IS NOT NULL AND TRIM(bio) != ''").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
