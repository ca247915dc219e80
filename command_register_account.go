package accounts

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// RegisterAccountMessage carries a registration request.
type RegisterAccountMessage struct {
	Login    string `json:"login"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

func (m RegisterAccountMessage) Type() string { return "account.register" }

// Validate will run validation rules
func (m RegisterAccountMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(
			&m.Nickname,
			validation.Required,
			validation.RuneLength(2, 30),
			validation.Match(nicknameRx).Error("must contain only letters, spaces, and hyphens"),
		),
		validation.Field(
			&m.Login,
			validation.Required,
			validation.RuneLength(6, 60),
		),
		validation.Field(
			&m.Password,
			validation.Required,
			validation.RuneLength(4, 20),
		),
	)
}

// RegisterAccountHandler creates new accounts with role user, active, and
// an unverified email.
type RegisterAccountHandler struct {
	repo   RepositoryManager
	logger Logger
}

func NewRegisterAccountHandler(repo RepositoryManager) *RegisterAccountHandler {
	return &RegisterAccountHandler{
		repo:   repo,
		logger: defLogger{},
	}
}

func (h *RegisterAccountHandler) WithLogger(logger Logger) *RegisterAccountHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *RegisterAccountHandler) Execute(ctx context.Context, msg RegisterAccountMessage) (*PublicAccount, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during account registration",
		)
	default:
		return h.execute(ctx, msg)
	}
}

func (h *RegisterAccountHandler) execute(ctx context.Context, msg RegisterAccountMessage) (*PublicAccount, error) {
	if err := msg.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration payload").
			WithCode(goerrors.CodeBadRequest)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	account := &Account{}

	err := h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if taken, err := h.repo.Accounts().ExistsByLoginTx(ctx, tx, msg.Login); err != nil {
			return err
		} else if taken {
			return ErrLoginTaken
		}

		if taken, err := h.repo.Accounts().ExistsByNicknameTx(ctx, tx, msg.Nickname); err != nil {
			return err
		} else if taken {
			return ErrNicknameTaken
		}

		hash, err := HashPassword(msg.Password)
		if err != nil {
			var richErr *goerrors.Error
			if goerrors.As(err, &richErr) {
				return richErr
			}
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
		}

		account.Login = msg.Login
		account.Nickname = msg.Nickname
		account.PasswordHash = hash
		account.Role = RoleUser
		account.IsActive = true
		account.EmailVerified = false

		if account, err = h.repo.Accounts().CreateTx(ctx, tx, account); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}

		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "account registration transaction failed")
	}

	return NewPublicAccount(account), nil
}
