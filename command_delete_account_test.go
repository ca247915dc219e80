package accounts_test

import (
	"context"
	"testing"

	accounts "github.com/goliatone/go-accounts"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteAccount(t *testing.T) {
	t.Run("admin deletes a user", func(t *testing.T) {
		repo := newMemoryRepo()
		admin := seedAccount(t, repo, func(a *accounts.Account) {
			a.Login = "admin-login"
			a.Nickname = "Admin Nickname"
			a.Role = accounts.RoleAdmin
		})
		target := seedAccount(t, repo, nil)
		handler := accounts.NewDeleteAccountHandler(repo)

		err := handler.Execute(context.Background(), accounts.DeleteAccountMessage{
			ActorID:  admin.ID,
			TargetID: target.ID,
		})
		require.NoError(t, err)

		_, err = repo.Accounts().GetByID(context.Background(), target.ID)
		require.Error(t, err)
		assert.True(t, goerrors.IsNotFound(err))
	})

	t.Run("moderator deletes a user", func(t *testing.T) {
		repo := newMemoryRepo()
		moderator := seedAccount(t, repo, func(a *accounts.Account) {
			a.Login = "moderator-login"
			a.Nickname = "Moderator Nickname"
			a.Role = accounts.RoleModerator
		})
		target := seedAccount(t, repo, nil)
		handler := accounts.NewDeleteAccountHandler(repo)

		err := handler.Execute(context.Background(), accounts.DeleteAccountMessage{
			ActorID:  moderator.ID,
			TargetID: target.ID,
		})
		require.NoError(t, err)
	})

	t.Run("moderator cannot delete an admin", func(t *testing.T) {
		repo := newMemoryRepo()
		moderator := seedAccount(t, repo, func(a *accounts.Account) {
			a.Login = "moderator-login"
			a.Nickname = "Moderator Nickname"
			a.Role = accounts.RoleModerator
		})
		admin := seedAccount(t, repo, func(a *accounts.Account) {
			a.Role = accounts.RoleAdmin
		})
		handler := accounts.NewDeleteAccountHandler(repo)

		err := handler.Execute(context.Background(), accounts.DeleteAccountMessage{
			ActorID:  moderator.ID,
			TargetID: admin.ID,
		})
		assert.ErrorIs(t, err, accounts.ErrModeratorTargetsPeer)

		_, err = repo.Accounts().GetByID(context.Background(), admin.ID)
		assert.NoError(t, err, "target must survive a rejected delete")
	})

	t.Run("regular user cannot delete accounts", func(t *testing.T) {
		repo := newMemoryRepo()
		user := seedAccount(t, repo, nil)
		target := seedAccount(t, repo, func(a *accounts.Account) {
			a.Login = "target-login"
			a.Nickname = "Target Nickname"
		})
		handler := accounts.NewDeleteAccountHandler(repo)

		err := handler.Execute(context.Background(), accounts.DeleteAccountMessage{
			ActorID:  user.ID,
			TargetID: target.ID,
		})
		assert.ErrorIs(t, err, accounts.ErrInsufficientRole)
	})

	t.Run("rejects self targeting", func(t *testing.T) {
		repo := newMemoryRepo()
		admin := seedAccount(t, repo, func(a *accounts.Account) {
			a.Role = accounts.RoleAdmin
		})
		handler := accounts.NewDeleteAccountHandler(repo)

		err := handler.Execute(context.Background(), accounts.DeleteAccountMessage{
			ActorID:  admin.ID,
			TargetID: admin.ID,
		})
		assert.ErrorIs(t, err, accounts.ErrSelfTarget)
	})

	t.Run("rejects a missing target", func(t *testing.T) {
		repo := newMemoryRepo()
		admin := seedAccount(t, repo, func(a *accounts.Account) {
			a.Role = accounts.RoleAdmin
		})
		handler := accounts.NewDeleteAccountHandler(repo)

		err := handler.Execute(context.Background(), accounts.DeleteAccountMessage{
			ActorID:  admin.ID,
			TargetID: admin.ID + 100,
		})
		assert.ErrorIs(t, err, accounts.ErrAccountNotFound)
	})
}
