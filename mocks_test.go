package accounts_test

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	accounts "github.com/goliatone/go-accounts"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// memoryStore is an in-memory accounts.Accounts used by the workflow and
// controller tests. Tx arguments are accepted and ignored.
type memoryStore struct {
	mu   sync.Mutex
	seq  int64
	rows map[int64]*accounts.Account
}

func newMemoryStore() *memoryStore {
	return &memoryStore{rows: map[int64]*accounts.Account{}}
}

func storeNotFound() error {
	return goerrors.New("account not found", goerrors.CategoryNotFound).
		WithTextCode(accounts.TextCodeAccountNotFound).
		WithCode(goerrors.CodeNotFound)
}

func storeConflict(column string) error {
	return goerrors.New("UNIQUE constraint failed: accounts."+column, goerrors.CategoryConflict).
		WithTextCode(accounts.TextCodeDuplicateValue).
		WithCode(goerrors.CodeConflict)
}

// uniqueViolation mirrors the unique indexes on the accounts table.
func (s *memoryStore) uniqueViolation(record *accounts.Account) error {
	for _, row := range s.rows {
		if row.ID == record.ID {
			continue
		}
		if row.Login == record.Login {
			return storeConflict("login")
		}
		if row.Nickname == record.Nickname {
			return storeConflict("nickname")
		}
		if row.Email != nil && record.Email != nil && *row.Email == *record.Email {
			return storeConflict("email")
		}
	}
	return nil
}

func cloneAccount(a *accounts.Account) *accounts.Account {
	dup := *a
	if a.Bio != nil {
		bio := *a.Bio
		dup.Bio = &bio
	}
	if a.Email != nil {
		email := *a.Email
		dup.Email = &email
	}
	if a.LastLoginAt != nil {
		at := *a.LastLoginAt
		dup.LastLoginAt = &at
	}
	return &dup
}

func (s *memoryStore) GetByID(ctx context.Context, id int64) (*accounts.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if row, ok := s.rows[id]; ok {
		return cloneAccount(row), nil
	}
	return nil, storeNotFound()
}

func (s *memoryStore) GetByIDTx(ctx context.Context, tx bun.IDB, id int64) (*accounts.Account, error) {
	return s.GetByID(ctx, id)
}

func (s *memoryStore) GetByLogin(ctx context.Context, login string) (*accounts.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range s.rows {
		if row.Login == login {
			return cloneAccount(row), nil
		}
	}
	return nil, storeNotFound()
}

func (s *memoryStore) GetByLoginTx(ctx context.Context, tx bun.IDB, login string) (*accounts.Account, error) {
	return s.GetByLogin(ctx, login)
}

func (s *memoryStore) GetByNickname(ctx context.Context, nickname string) (*accounts.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range s.rows {
		if row.Nickname == nickname {
			return cloneAccount(row), nil
		}
	}
	return nil, storeNotFound()
}

func (s *memoryStore) GetByNicknameTx(ctx context.Context, tx bun.IDB, nickname string) (*accounts.Account, error) {
	return s.GetByNickname(ctx, nickname)
}

func (s *memoryStore) List(ctx context.Context) ([]*accounts.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*accounts.Account, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, cloneAccount(row))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (s *memoryStore) ListTx(ctx context.Context, tx bun.IDB) ([]*accounts.Account, error) {
	return s.List(ctx)
}

func (s *memoryStore) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range s.rows {
		if row.Login == login {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryStore) ExistsByLoginTx(ctx context.Context, tx bun.IDB, login string) (bool, error) {
	return s.ExistsByLogin(ctx, login)
}

func (s *memoryStore) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range s.rows {
		if row.Nickname == nickname {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryStore) ExistsByNicknameTx(ctx context.Context, tx bun.IDB, nickname string) (bool, error) {
	return s.ExistsByNickname(ctx, nickname)
}

func (s *memoryStore) Create(ctx context.Context, record *accounts.Account) (*accounts.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.uniqueViolation(record); err != nil {
		return nil, err
	}

	s.seq++
	record.ID = s.seq
	now := time.Now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = now
	}
	if record.Role == "" {
		record.Role = accounts.RoleUser
	}

	s.rows[record.ID] = cloneAccount(record)
	return cloneAccount(record), nil
}

func (s *memoryStore) CreateTx(ctx context.Context, tx bun.IDB, record *accounts.Account) (*accounts.Account, error) {
	return s.Create(ctx, record)
}

func (s *memoryStore) Update(ctx context.Context, record *accounts.Account) (*accounts.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[record.ID]; !ok {
		return nil, storeNotFound()
	}

	if err := s.uniqueViolation(record); err != nil {
		return nil, err
	}

	s.rows[record.ID] = cloneAccount(record)
	return cloneAccount(record), nil
}

func (s *memoryStore) UpdateTx(ctx context.Context, tx bun.IDB, record *accounts.Account) (*accounts.Account, error) {
	return s.Update(ctx, record)
}

func (s *memoryStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[id]; !ok {
		return storeNotFound()
	}

	delete(s.rows, id)
	return nil
}

func (s *memoryStore) DeleteTx(ctx context.Context, tx bun.IDB, id int64) error {
	return s.Delete(ctx, id)
}

var _ accounts.Accounts = (*memoryStore)(nil)

// memoryRepo is an in-memory accounts.RepositoryManager. RunInTx simply
// invokes the callback; rollback semantics are covered by the Bun-backed
// implementation, not here.
type memoryRepo struct {
	store *memoryStore
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{store: newMemoryStore()}
}

func (m *memoryRepo) Validate() error {
	return nil
}

func (m *memoryRepo) MustValidate() {}

func (m *memoryRepo) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}

func (m *memoryRepo) Accounts() accounts.Accounts {
	return m.store
}

var _ accounts.RepositoryManager = (*memoryRepo)(nil)

// seedAccount inserts an account with sane defaults, returning the stored
// copy.
func seedAccount(t *testing.T, repo *memoryRepo, overrides func(*accounts.Account)) *accounts.Account {
	t.Helper()

	account := &accounts.Account{
		Login:    "some-login",
		Nickname: "Some Nickname",
		Role:     accounts.RoleUser,
		IsActive: true,
	}

	if overrides != nil {
		overrides(account)
	}

	created, err := repo.store.Create(context.Background(), account)
	require.NoError(t, err)

	return created
}

// seedWithPassword seeds an account whose password hash verifies against
// the given cleartext.
func seedWithPassword(t *testing.T, repo *memoryRepo, password string, overrides func(*accounts.Account)) *accounts.Account {
	t.Helper()

	hash, err := accounts.HashPassword(password)
	require.NoError(t, err)

	return seedAccount(t, repo, func(a *accounts.Account) {
		a.PasswordHash = hash
		if overrides != nil {
			overrides(a)
		}
	})
}
