package accounts

import (
	"time"

	"github.com/uptrace/bun"
)

// Account is the protected entity. Login, nickname, and email are globally
// unique when set; the password hash never leaves the storage layer.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:acc"`

	ID            int64      `bun:"id,pk,autoincrement" json:"id"`
	Login         string     `bun:"login,notnull,unique" json:"login"`
	Nickname      string     `bun:"nickname,notnull,unique" json:"nickname"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Role          Role       `bun:"role,notnull" json:"role"`
	Bio           *string    `bun:"bio,nullzero" json:"bio,omitempty"`
	Email         *string    `bun:"email,unique,nullzero" json:"email,omitempty"`
	IsActive      bool       `bun:"is_active,notnull" json:"is_active"`
	EmailVerified bool       `bun:"is_email_verified,notnull" json:"is_email_verified"`
	LastLoginAt   *time.Time `bun:"last_login,nullzero" json:"last_login,omitempty"`
	CreatedAt     time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// DisplayName is the name shown for the account.
func (a *Account) DisplayName() string {
	if a.Nickname != "" {
		return a.Nickname
	}
	return a.Login
}

// IsAdmin reports whether the account holds admin or super admin role.
func (a *Account) IsAdmin() bool {
	return a.Role.IsAtLeast(RoleAdmin)
}

// IsModerator reports whether the account holds moderator role or higher.
func (a *Account) IsModerator() bool {
	return a.Role.IsAtLeast(RoleModerator)
}

// PublicAccount is the projection returned by every workflow. It carries the
// public fields only.
type PublicAccount struct {
	ID            int64      `json:"id"`
	Login         string     `json:"login"`
	Nickname      string     `json:"nickname"`
	Role          Role       `json:"role"`
	Bio           *string    `json:"bio,omitempty"`
	Email         *string    `json:"email,omitempty"`
	IsActive      bool       `json:"is_active"`
	EmailVerified bool       `json:"is_email_verified"`
	LastLoginAt   *time.Time `json:"last_login,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewPublicAccount projects an account for external consumption.
func NewPublicAccount(a *Account) *PublicAccount {
	if a == nil {
		return nil
	}
	return &PublicAccount{
		ID:            a.ID,
		Login:         a.Login,
		Nickname:      a.Nickname,
		Role:          a.Role,
		Bio:           a.Bio,
		Email:         a.Email,
		IsActive:      a.IsActive,
		EmailVerified: a.EmailVerified,
		LastLoginAt:   a.LastLoginAt,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// TokenPair is the login output: the account projection plus one access and
// one refresh token.
type TokenPair struct {
	Account      *PublicAccount `json:"account"`
	AccessToken  string         `json:"access_token"`
	RefreshToken string         `json:"refresh_token"`
}
