package accounts

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// seedAccountData describes one default account created at bootstrap. Seeds
// are inserted directly, not through registration, so their logins may be
// shorter than the registration minimum.
type seedAccountData struct {
	Login         string
	Password      string
	Nickname      string
	Email         string
	Role          Role
	EmailVerified bool
	Bio           string
}

var defaultAccounts = []seedAccountData{
	{
		Login:         "Guest",
		Password:      "guest",
		Nickname:      "Гость",
		Email:         "guest@example.com",
		Role:          RoleGuest,
		EmailVerified: false,
		Bio:           "Гостевой аккаунт для демонстрации",
	},
	{
		Login:         "User",
		Password:      "User",
		Nickname:      "ОбычныйПользователь",
		Email:         "user@example.com",
		Role:          RoleUser,
		EmailVerified: true,
		Bio:           "Обычный пользователь системы",
	},
	{
		Login:         "Moderator",
		Password:      "moderator",
		Nickname:      "Модератор",
		Email:         "moderator@example.com",
		Role:          RoleModerator,
		EmailVerified: true,
		Bio:           "Аккаунт модератора",
	},
	{
		Login:         "Admin",
		Password:      "admin",
		Nickname:      "Администратор",
		Email:         "admin@example.com",
		Role:          RoleAdmin,
		EmailVerified: true,
		Bio:           "Аккаунт администратора",
	},
	{
		Login:         "SuperAdmin",
		Password:      "superadmin",
		Nickname:      "СуперАдмин",
		Email:         "superadmin@example.com",
		Role:          RoleSuperAdmin,
		EmailVerified: true,
		Bio:           "Аккаунт супер администратора",
	},
}

// SeedDefaultAccounts creates one default account per role so a fresh
// database is usable immediately. Accounts whose login already exists are
// skipped, making the call idempotent across restarts.
func SeedDefaultAccounts(ctx context.Context, repo RepositoryManager, logger Logger) error {
	if logger == nil {
		logger = defLogger{}
	}

	return repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, seed := range defaultAccounts {
			exists, err := repo.Accounts().ExistsByLoginTx(ctx, tx, seed.Login)
			if err != nil {
				return err
			}
			if exists {
				continue
			}

			hash, err := HashPassword(seed.Password)
			if err != nil {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash seed password").
					WithMetadata(map[string]any{
						"login": seed.Login,
					})
			}

			bio := seed.Bio
			email := seed.Email
			account := &Account{
				Login:         seed.Login,
				Nickname:      seed.Nickname,
				PasswordHash:  hash,
				Role:          seed.Role,
				Bio:           &bio,
				Email:         &email,
				IsActive:      true,
				EmailVerified: seed.EmailVerified,
			}

			if _, err := repo.Accounts().CreateTx(ctx, tx, account); err != nil {
				return err
			}

			logger.Info("seeded default account", "login", seed.Login, "role", seed.Role)
		}

		return nil
	})
}
