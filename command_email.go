package accounts

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// EmailHandler covers the self-service email lifecycle: set, verify, and
// delete. Setting an address always resets the verified flag; verification
// is a boolean flip, no delivery happens here.
type EmailHandler struct {
	repo   RepositoryManager
	logger Logger
	now    func() time.Time
}

func NewEmailHandler(repo RepositoryManager) *EmailHandler {
	return &EmailHandler{
		repo:   repo,
		logger: defLogger{},
		now:    time.Now,
	}
}

func (h *EmailHandler) WithLogger(logger Logger) *EmailHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// WithClock injects a custom clock (useful for tests).
func (h *EmailHandler) WithClock(clock func() time.Time) *EmailHandler {
	if clock != nil {
		h.now = clock
	}
	return h
}

// Set stores a new address after an RFC-shape check and resets the
// verified flag, even when it was previously true.
func (h *EmailHandler) Set(ctx context.Context, actorID int64, email string) (*PublicAccount, error) {
	if !IsValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	return h.mutate(ctx, actorID, "failed to set email", func(account *Account) error {
		addr := email
		account.Email = &addr
		account.EmailVerified = false
		return nil
	})
}

// Verify flips the verified flag. Verifying an already verified address is
// a no-op success.
func (h *EmailHandler) Verify(ctx context.Context, actorID int64) (*PublicAccount, error) {
	return h.mutate(ctx, actorID, "failed to verify email", func(account *Account) error {
		if account.Email == nil {
			return ErrEmailMissing
		}

		if account.EmailVerified {
			return errNoop
		}

		account.EmailVerified = true
		return nil
	})
}

// Delete clears the address and the verified flag.
func (h *EmailHandler) Delete(ctx context.Context, actorID int64) (*PublicAccount, error) {
	return h.mutate(ctx, actorID, "failed to delete email", func(account *Account) error {
		if account.Email == nil {
			return ErrEmailMissing
		}

		account.Email = nil
		account.EmailVerified = false
		return nil
	})
}

// errNoop signals that the account already holds the requested state and no
// write should happen. Never escapes this file.
var errNoop = goerrors.New("no-op", goerrors.CategoryOperation)

func (h *EmailHandler) mutate(ctx context.Context, actorID int64, opContext string, change func(*Account) error) (*PublicAccount, error) {
	var account *Account

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		if account, err = h.repo.Accounts().GetByIDTx(ctx, tx, actorID); err != nil {
			return err
		}

		if !account.IsActive {
			return ErrAccountDeactivated
		}

		if err := change(account); err != nil {
			if goerrors.Is(err, errNoop) {
				return nil
			}
			return err
		}

		account.UpdatedAt = h.now()

		// Unique violations and other rich store errors pass through so
		// the conflict category reaches the caller.
		if account, err = h.repo.Accounts().UpdateTx(ctx, tx, account); err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return richErr
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, opContext).
				WithMetadata(map[string]any{
					"account_id": actorID,
				})
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return NewPublicAccount(account), nil
}
