package inmemdb

import (
	"context"

	"github.com/trezcool/tadika/core/auth"
)

type accountRepository struct {
	db *DB
}

var _ auth.AccountRepository = (*accountRepository)(nil)

func NewAccountRepository(db *DB) auth.AccountRepository {
	return &accountRepository{db: db}
}

func (repo *accountRepository) CreateAccount(_ context.Context, acc auth.Account) (auth.Account, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, a := range repo.db.accounts {
		if a.Email == acc.Email {
			return auth.Account{}, auth.ErrEmailExists
		}
	}
	if acc.ID == "" {
		acc.ID = newID()
	}
	repo.db.accounts[acc.ID] = &acc
	return acc, nil
}

func (repo *accountRepository) GetAccountByID(_ context.Context, id string) (auth.Account, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if acc, ok := repo.db.accounts[id]; ok {
		return *acc, nil
	}
	return auth.Account{}, auth.ErrAccountNotFound
}

func (repo *accountRepository) GetAccountByEmail(_ context.Context, email string) (auth.Account, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, acc := range repo.db.accounts {
		if acc.Email == email {
			return *acc, nil
		}
	}
	return auth.Account{}, auth.ErrAccountNotFound
}

func (repo *accountRepository) UpdateAccount(_ context.Context, acc auth.Account) (auth.Account, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	// only save set fields
	orig, ok := repo.db.accounts[acc.ID]
	if !ok {
		return auth.Account{}, auth.ErrAccountNotFound
	}
	if acc.PasswordHash != nil {
		orig.PasswordHash = acc.PasswordHash
	}
	if !acc.LastSignIn.IsZero() {
		orig.LastSignIn = acc.LastSignIn
	}
	if !acc.UpdatedAt.IsZero() {
		orig.UpdatedAt = acc.UpdatedAt
	}
	return *orig, nil
}
