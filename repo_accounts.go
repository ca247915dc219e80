package accounts

import (
	"context"
	"database/sql"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Accounts is the account store. Every method has a Tx variant so mutation
// workflows can run under RepositoryManager.RunInTx. Absent records surface
// as a NotFound error, distinguishable from real failures through
// goerrors.IsNotFound.
type Accounts interface {
	GetByID(ctx context.Context, id int64) (*Account, error)
	GetByIDTx(ctx context.Context, tx bun.IDB, id int64) (*Account, error)
	GetByLogin(ctx context.Context, login string) (*Account, error)
	GetByLoginTx(ctx context.Context, tx bun.IDB, login string) (*Account, error)
	GetByNickname(ctx context.Context, nickname string) (*Account, error)
	GetByNicknameTx(ctx context.Context, tx bun.IDB, nickname string) (*Account, error)

	List(ctx context.Context) ([]*Account, error)
	ListTx(ctx context.Context, tx bun.IDB) ([]*Account, error)

	ExistsByLogin(ctx context.Context, login string) (bool, error)
	ExistsByLoginTx(ctx context.Context, tx bun.IDB, login string) (bool, error)
	ExistsByNickname(ctx context.Context, nickname string) (bool, error)
	ExistsByNicknameTx(ctx context.Context, tx bun.IDB, nickname string) (bool, error)

	Create(ctx context.Context, record *Account) (*Account, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Account) (*Account, error)
	Update(ctx context.Context, record *Account) (*Account, error)
	UpdateTx(ctx context.Context, tx bun.IDB, record *Account) (*Account, error)
	Delete(ctx context.Context, id int64) error
	DeleteTx(ctx context.Context, tx bun.IDB, id int64) error
}

type accountsRepo struct {
	db *bun.DB
}

var _ Accounts = (*accountsRepo)(nil)

// NewAccountsRepository builds the Bun-backed account store.
func NewAccountsRepository(db *bun.DB) Accounts {
	return &accountsRepo{db: db}
}

func (a *accountsRepo) GetByID(ctx context.Context, id int64) (*Account, error) {
	return a.GetByIDTx(ctx, a.db, id)
}

func (a *accountsRepo) GetByIDTx(ctx context.Context, tx bun.IDB, id int64) (*Account, error) {
	return a.getBy(ctx, tx, "id", id)
}

func (a *accountsRepo) GetByLogin(ctx context.Context, login string) (*Account, error) {
	return a.GetByLoginTx(ctx, a.db, login)
}

func (a *accountsRepo) GetByLoginTx(ctx context.Context, tx bun.IDB, login string) (*Account, error) {
	return a.getBy(ctx, tx, "login", login)
}

func (a *accountsRepo) GetByNickname(ctx context.Context, nickname string) (*Account, error) {
	return a.GetByNicknameTx(ctx, a.db, nickname)
}

func (a *accountsRepo) GetByNicknameTx(ctx context.Context, tx bun.IDB, nickname string) (*Account, error) {
	return a.getBy(ctx, tx, "nickname", nickname)
}

func (a *accountsRepo) getBy(ctx context.Context, tx bun.IDB, column string, value any) (*Account, error) {
	record := &Account{}

	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias."+column+" = ?", value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return nil, recordNotFound(column, value)
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load account")
	}

	return record, nil
}

func (a *accountsRepo) List(ctx context.Context) ([]*Account, error) {
	return a.ListTx(ctx, a.db)
}

func (a *accountsRepo) ListTx(ctx context.Context, tx bun.IDB) ([]*Account, error) {
	var records []*Account

	err := tx.NewSelect().
		Model(&records).
		Order("acc.id ASC").
		Scan(ctx)

	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list accounts")
	}

	return records, nil
}

func (a *accountsRepo) ExistsByLogin(ctx context.Context, login string) (bool, error) {
	return a.ExistsByLoginTx(ctx, a.db, login)
}

func (a *accountsRepo) ExistsByLoginTx(ctx context.Context, tx bun.IDB, login string) (bool, error) {
	return a.existsBy(ctx, tx, "login", login)
}

func (a *accountsRepo) ExistsByNickname(ctx context.Context, nickname string) (bool, error) {
	return a.ExistsByNicknameTx(ctx, a.db, nickname)
}

func (a *accountsRepo) ExistsByNicknameTx(ctx context.Context, tx bun.IDB, nickname string) (bool, error) {
	return a.existsBy(ctx, tx, "nickname", nickname)
}

func (a *accountsRepo) existsBy(ctx context.Context, tx bun.IDB, column string, value any) (bool, error) {
	exists, err := tx.NewSelect().
		Model((*Account)(nil)).
		Where("?TableAlias."+column+" = ?", value).
		Exists(ctx)

	if err != nil {
		return false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check account existence")
	}

	return exists, nil
}

func (a *accountsRepo) Create(ctx context.Context, record *Account) (*Account, error) {
	return a.CreateTx(ctx, a.db, record)
}

func (a *accountsRepo) CreateTx(ctx context.Context, tx bun.IDB, record *Account) (*Account, error) {
	prepareAccountDefaults(record)

	_, err := tx.NewInsert().
		Model(record).
		Returning("*").
		Exec(ctx)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, uniqueConflict(err, "could not create account")
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create account")
	}

	return record, nil
}

func (a *accountsRepo) Update(ctx context.Context, record *Account) (*Account, error) {
	return a.UpdateTx(ctx, a.db, record)
}

func (a *accountsRepo) UpdateTx(ctx context.Context, tx bun.IDB, record *Account) (*Account, error) {
	res, err := tx.NewUpdate().
		Model(record).
		WherePK().
		Returning("*").
		Exec(ctx)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, uniqueConflict(err, "could not update account")
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not update account")
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, recordNotFound("id", record.ID)
	}

	return record, nil
}

func (a *accountsRepo) Delete(ctx context.Context, id int64) error {
	return a.DeleteTx(ctx, a.db, id)
}

func (a *accountsRepo) DeleteTx(ctx context.Context, tx bun.IDB, id int64) error {
	res, err := tx.NewDelete().
		Model((*Account)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)

	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "could not delete account")
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return recordNotFound("id", id)
	}

	return nil
}

func prepareAccountDefaults(record *Account) {
	if record == nil {
		return
	}

	if record.Role == "" {
		record.Role = RoleUser
	}
}

// isUniqueViolation matches the sqlite unique-constraint failure; both the
// cgo and the modernc drivers include this phrase in the error text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func uniqueConflict(err error, msg string) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryConflict, msg).
		WithTextCode(TextCodeDuplicateValue).
		WithCode(goerrors.CodeConflict)
}

func recordNotFound(column string, value any) *goerrors.Error {
	return goerrors.New("account not found", goerrors.CategoryNotFound).
		WithTextCode(TextCodeAccountNotFound).
		WithCode(goerrors.CodeNotFound).
		WithMetadata(map[string]any{
			column: value,
		})
}
