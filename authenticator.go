package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Authenticator composes the credential hasher, the token service, and the
// account store into the login and refresh workflows.
type Authenticator struct {
	repo   RepositoryManager
	tokens *TokenService
	logger Logger
	now    func() time.Time
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(repo RepositoryManager, tokens *TokenService) *Authenticator {
	return &Authenticator{
		repo:   repo,
		tokens: tokens,
		logger: defLogger{},
		now:    time.Now,
	}
}

func (a *Authenticator) WithLogger(logger Logger) *Authenticator {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// WithClock injects a custom clock (useful for tests).
func (a *Authenticator) WithClock(clock func() time.Time) *Authenticator {
	if clock != nil {
		a.now = clock
	}
	return a
}

// TokenService returns the TokenService instance used by this Authenticator
func (a *Authenticator) TokenService() *TokenService {
	return a.tokens
}

// Login verifies the credentials, requires an active account, records the
// login time, and issues one access plus one refresh token.
func (a *Authenticator) Login(ctx context.Context, login, password string) (*TokenPair, error) {
	account, err := a.repo.Accounts().GetByLogin(ctx, login)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, err
		}
		a.logger.Error("Login account lookup error", "error", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load account during login")
	}

	if err := ComparePasswordAndHash(password, account.PasswordHash); err != nil {
		a.logger.Info("Login rejected bad credentials", "login", login)
		return nil, ErrMismatchedHashAndPassword
	}

	if !account.IsActive {
		return nil, ErrAccountDeactivated
	}

	now := a.now()
	err = a.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		account.LastLoginAt = &now
		account.UpdatedAt = now

		updated, err := a.repo.Accounts().UpdateTx(ctx, tx, account)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to record login time").
				WithMetadata(map[string]any{
					"account_id": account.ID,
				})
		}
		account = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	access, err := a.tokens.IssueAccess(account)
	if err != nil {
		return nil, err
	}

	refresh, err := a.tokens.IssueRefresh(account)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		Account:      NewPublicAccount(account),
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// Refresh verifies a refresh token, re-fetches the account so role and
// activity reflect current state, and issues a new access token only.
func (a *Authenticator) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := a.tokens.Verify(refreshToken, TokenKindRefresh)
	if err != nil {
		return "", err
	}

	id, err := claims.AccountID()
	if err != nil {
		return "", err
	}

	account, err := a.repo.Accounts().GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	if !account.IsActive {
		return "", ErrAccountDeactivated
	}

	return a.tokens.IssueAccess(account)
}

// VerifyAccess resolves a bearer token to its claims.
func (a *Authenticator) VerifyAccess(token string) (*SessionClaims, error) {
	return a.tokens.Verify(token, TokenKindAccess)
}

// AccountFromClaims loads the account behind verified claims.
func (a *Authenticator) AccountFromClaims(ctx context.Context, claims *SessionClaims) (*Account, error) {
	if claims == nil {
		return nil, ErrTokenMalformed
	}

	id, err := claims.AccountID()
	if err != nil {
		return nil, err
	}

	return a.repo.Accounts().GetByID(ctx, id)
}
