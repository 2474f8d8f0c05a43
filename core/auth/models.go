package auth

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/tadika/core"
	"github.com/trezcool/tadika/core/profile"
)

var (
	// repository errors
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailExists     = errors.New("an account with this email already exists")
)

type (
	// Provider is the authentication collaborator.
	Provider interface {
		SignUp(ctx context.Context, creds Credentials) (profile.Identity, error)
		SignIn(ctx context.Context, email, password string) (Session, error)
		SignOut(ctx context.Context, token string) error
		// Resolve returns the Identity a live token was issued to.
		Resolve(ctx context.Context, token string) (profile.Identity, error)
	}

	AccountRepository interface {
		CreateAccount(ctx context.Context, acc Account) (Account, error)
		GetAccountByID(ctx context.Context, id string) (Account, error)
		GetAccountByEmail(ctx context.Context, email string) (Account, error)
		UpdateAccount(ctx context.Context, acc Account) (Account, error)
	}

	// RevocationStore remembers signed-out tokens (by jti) until they expire.
	RevocationStore interface {
		Revoke(ctx context.Context, jti string, until time.Time) error
		IsRevoked(ctx context.Context, jti string) (bool, error)
	}
)

// Account is the stored identity record.
type Account struct {
	ID           string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time // UTC
	UpdatedAt    time.Time // UTC
	LastSignIn   time.Time // UTC
}

func (a *Account) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = hash
	return nil
}

func (a *Account) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(pwd))
}

func (a Account) Identity() profile.Identity {
	return profile.Identity{ID: a.ID, Email: a.Email}
}

type Credentials struct {
	Email    string
	Password string
}

// Session is a signed-in Identity with its bearer token.
type Session struct {
	Identity  profile.Identity `json:"identity"`
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
}

// Registration contains information needed for a parent to sign up.
type Registration struct {
	FullName string `json:"full_name" form:"full_name" validate:"required,notblank"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
	Phone    string `json:"phone" form:"phone" validate:"omitempty,phone"`
}

func (r *Registration) Validate(validate *validator.Validate) error {
	r.FullName = core.CleanString(r.FullName)
	r.Email = core.CleanString(r.Email, true /* lower */)
	r.Phone = core.CleanString(r.Phone)
	return validate.Struct(r)
}

func (r Registration) Credentials() Credentials {
	return Credentials{Email: r.Email, Password: r.Password}
}

type SignInRequest struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (r *SignInRequest) Validate(validate *validator.Validate) error {
	r.Email = core.CleanString(r.Email, true /* lower */)
	return validate.Struct(r)
}
