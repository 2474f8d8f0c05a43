package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tadika/core/auth"
)

type accountRow struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	LastSignIn   null.Time `db:"last_sign_in"`
}

func (r accountRow) account() auth.Account {
	return auth.Account{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
		LastSignIn:   r.LastSignIn.Time.UTC(),
	}
}

var accountColumns = []string{"id", "email", "password_hash", "created_at", "updated_at", "last_sign_in"}

type accountRepository struct {
	db *sqlx.DB
}

var _ auth.AccountRepository = (*accountRepository)(nil)

func NewAccountRepository(db *sqlx.DB) auth.AccountRepository {
	return &accountRepository{db: db}
}

func (repo *accountRepository) CreateAccount(ctx context.Context, acc auth.Account) (auth.Account, error) {
	acc.ID = newID(acc.ID)
	_, err := exec(ctx, repo.db, psql.Insert("identities").
		Columns(accountColumns...).
		Values(acc.ID, acc.Email, acc.PasswordHash, acc.CreatedAt, acc.UpdatedAt, null.NewTime(acc.LastSignIn, !acc.LastSignIn.IsZero())))
	if isUniqueViolation(err) {
		return auth.Account{}, auth.ErrEmailExists
	} else if err != nil {
		return auth.Account{}, errors.Wrap(err, "inserting account")
	}
	return acc, nil
}

func (repo *accountRepository) getBy(ctx context.Context, where sq.Eq) (auth.Account, error) {
	var row accountRow
	err := get(ctx, repo.db, &row, psql.Select(accountColumns...).From("identities").Where(where))
	if err == sql.ErrNoRows {
		return auth.Account{}, auth.ErrAccountNotFound
	} else if err != nil {
		return auth.Account{}, errors.Wrap(err, "selecting account")
	}
	return row.account(), nil
}

func (repo *accountRepository) GetAccountByID(ctx context.Context, id string) (auth.Account, error) {
	return repo.getBy(ctx, sq.Eq{"id": id})
}

func (repo *accountRepository) GetAccountByEmail(ctx context.Context, email string) (auth.Account, error) {
	return repo.getBy(ctx, sq.Eq{"email": email})
}

func (repo *accountRepository) UpdateAccount(ctx context.Context, acc auth.Account) (auth.Account, error) {
	// only save set fields
	qry := psql.Update("identities").Where(sq.Eq{"id": acc.ID})
	set := false
	if acc.PasswordHash != nil {
		qry, set = qry.Set("password_hash", acc.PasswordHash), true
	}
	if !acc.LastSignIn.IsZero() {
		qry, set = qry.Set("last_sign_in", acc.LastSignIn), true
	}
	if !acc.UpdatedAt.IsZero() {
		qry, set = qry.Set("updated_at", acc.UpdatedAt), true
	}
	if set {
		res, err := exec(ctx, repo.db, qry)
		if err != nil {
			return auth.Account{}, errors.Wrap(err, "updating account")
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return auth.Account{}, auth.ErrAccountNotFound
		}
	}
	return repo.GetAccountByID(ctx, acc.ID)
}
