package accounts

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// DefaultAccessTTL bounds the blast radius of a leaked access token.
const DefaultAccessTTL = 30 * time.Minute

// DefaultRefreshTTL keeps sessions alive without re-authentication.
const DefaultRefreshTTL = 7 * 24 * time.Hour

// TokenService issues and verifies the two token kinds. The signing key and
// TTLs are process-wide configuration, set once and read concurrently by
// every request handler.
type TokenService struct {
	signingKey []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	issuer     string
	logger     Logger
	now        func() time.Time
}

// TokenServiceOption customizes TokenService construction.
type TokenServiceOption func(*TokenService)

// WithTokenClock injects a custom clock (useful for tests).
func WithTokenClock(clock func() time.Time) TokenServiceOption {
	return func(ts *TokenService) {
		if clock != nil {
			ts.now = clock
		}
	}
}

// WithTokenLogger overrides the default logger.
func WithTokenLogger(logger Logger) TokenServiceOption {
	return func(ts *TokenService) {
		if logger != nil {
			ts.logger = logger
		}
	}
}

// NewTokenService creates a new TokenService instance. Zero TTLs fall back
// to the package defaults.
func NewTokenService(signingKey []byte, accessTTL, refreshTTL time.Duration, issuer string, opts ...TokenServiceOption) *TokenService {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}

	ts := &TokenService{
		signingKey: signingKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		issuer:     issuer,
		logger:     defLogger{},
		now:        time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(ts)
		}
	}

	return ts
}

// IssueAccess mints an access token embedding the account id plus a login
// and role snapshot taken at issuance time.
func (ts *TokenService) IssueAccess(account *Account) (string, error) {
	if account == nil {
		return "", goerrors.New("account must not be nil", goerrors.CategoryBadInput)
	}

	claims := ts.newClaims(account.ID, TokenKindAccess, ts.accessTTL)
	claims.Login = account.Login
	claims.AccountRole = account.Role

	return ts.signClaims(claims)
}

// IssueRefresh mints a refresh token carrying only the subject. Login and
// role are re-fetched from storage on use so they always reflect current
// state.
func (ts *TokenService) IssueRefresh(account *Account) (string, error) {
	if account == nil {
		return "", goerrors.New("account must not be nil", goerrors.CategoryBadInput)
	}

	return ts.signClaims(ts.newClaims(account.ID, TokenKindRefresh, ts.refreshTTL))
}

// Verify parses and validates a token string, enforcing the expected kind.
// It fails with ErrTokenMalformed for signature or structure problems,
// ErrTokenExpired once the embedded expiry is past, and ErrWrongTokenKind
// when the kind tag does not match.
func (ts *TokenService) Verify(tokenString string, kind TokenKind) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService verify encountered unexpected signing method: %v", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	})

	if err != nil {
		if goerrors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, goerrors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).WithTextCode(ErrTokenMalformed.TextCode)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		ts.logger.Error("TokenService verify could not decode claims")
		return nil, ErrTokenMalformed
	}

	if claims.Kind != kind {
		return nil, ErrWrongTokenKind
	}

	return claims, nil
}

func (ts *TokenService) newClaims(accountID int64, kind TokenKind, ttl time.Duration) *SessionClaims {
	now := ts.now()

	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   strconv.FormatInt(accountID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Kind: kind,
	}

	ensureTokenID(&claims.RegisteredClaims)

	return claims
}

func (ts *TokenService) signClaims(claims *SessionClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}
