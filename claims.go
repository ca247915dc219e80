package accounts

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind tags a token as access or refresh so one can never be replayed
// as the other.
type TokenKind string

const (
	// TokenKindAccess is the short-lived kind carrying a login/role snapshot.
	TokenKindAccess TokenKind = "access"
	// TokenKindRefresh is the long-lived kind carrying only the subject.
	TokenKindRefresh TokenKind = "refresh"
)

// SessionClaims is the decoded, verified content of a token. For access
// tokens Login and AccountRole snapshot the account at issuance; they go
// stale after a role change until the token is re-issued.
type SessionClaims struct {
	jwt.RegisteredClaims
	Kind        TokenKind `json:"kind"`
	Login       string    `json:"login,omitempty"`
	AccountRole Role      `json:"role,omitempty"`
}

// AccountID parses the subject claim back into the account id.
func (c *SessionClaims) AccountID() (int64, error) {
	id, err := strconv.ParseInt(c.RegisteredClaims.Subject, 10, 64)
	if err != nil {
		return 0, ErrTokenMalformed
	}
	return id, nil
}

// Role returns the role snapshot; empty for refresh tokens.
func (c *SessionClaims) Role() Role {
	return c.AccountRole
}

// Expires returns the expiration time
func (c *SessionClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedTime returns the issued at time
func (c *SessionClaims) IssuedTime() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}
