package accounts_test

import (
	"testing"
	"time"

	accounts "github.com/goliatone/go-accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		t.Setenv("ACCOUNTS_SIGNING_KEY", "test-key")

		cfg, err := accounts.LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "test-key", cfg.SigningKey)
		assert.Equal(t, "go-accounts", cfg.Issuer)
		assert.Equal(t, 30*time.Minute, cfg.AccessTTL)
		assert.Equal(t, 168*time.Hour, cfg.RefreshTTL)
		assert.Equal(t, ":8080", cfg.HTTPAddr)
		assert.False(t, cfg.Debug)
	})

	t.Run("reads overrides", func(t *testing.T) {
		t.Setenv("ACCOUNTS_SIGNING_KEY", "test-key")
		t.Setenv("ACCOUNTS_ISSUER", "my-issuer")
		t.Setenv("ACCOUNTS_ACCESS_TTL", "15m")
		t.Setenv("ACCOUNTS_REFRESH_TTL", "72h")
		t.Setenv("ACCOUNTS_DEBUG", "true")

		cfg, err := accounts.LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "my-issuer", cfg.Issuer)
		assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
		assert.Equal(t, 72*time.Hour, cfg.RefreshTTL)
		assert.True(t, cfg.Debug)
	})

	t.Run("requires the signing key", func(t *testing.T) {
		t.Setenv("ACCOUNTS_SIGNING_KEY", "")

		_, err := accounts.LoadConfig()
		assert.Error(t, err)
	})
}

func TestNewTokenServiceFromConfig(t *testing.T) {
	t.Setenv("ACCOUNTS_SIGNING_KEY", "test-key")
	t.Setenv("ACCOUNTS_ISSUER", "my-issuer")

	cfg, err := accounts.LoadConfig()
	require.NoError(t, err)

	svc := accounts.NewTokenServiceFromConfig(cfg)

	token, err := svc.IssueAccess(&accounts.Account{ID: 1, Login: "some-login", Role: accounts.RoleUser})
	require.NoError(t, err)

	claims, err := svc.Verify(token, accounts.TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, "my-issuer", claims.Issuer)
}
