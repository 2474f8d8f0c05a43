package auth

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/tadika/core"
	"github.com/trezcool/tadika/core/profile"
)

// LocalProvider authenticates against the accounts table and issues HS256 tokens.
type LocalProvider struct {
	accounts    AccountRepository
	revocations RevocationStore
	key         []byte
	issuer      string
	ttl         time.Duration
	now         core.Clock
}

var _ Provider = (*LocalProvider)(nil)

func NewLocalProvider(conf *core.Config, accounts AccountRepository, revocations RevocationStore) *LocalProvider {
	return &LocalProvider{
		accounts:    accounts,
		revocations: revocations,
		key:         []byte(conf.SecretKey),
		issuer:      conf.Auth.TokenIssuer,
		ttl:         conf.Auth.TokenExpiration,
		now:         time.Now,
	}
}

// WithClock swaps the clock used to issue and expire tokens.
func (p *LocalProvider) WithClock(now core.Clock) *LocalProvider {
	p.now = now
	return p
}

func (p *LocalProvider) SignUp(ctx context.Context, creds Credentials) (profile.Identity, error) {
	email := core.CleanString(creds.Email, true /* lower */)
	if _, err := p.accounts.GetAccountByEmail(ctx, email); err == nil {
		return profile.Identity{}, ErrUserExists
	} else if err != ErrAccountNotFound {
		return profile.Identity{}, Unavailable(errors.Wrap(err, "finding account by email"))
	}

	now := p.now().UTC()
	acc := Account{Email: email, CreatedAt: now, UpdatedAt: now}
	if err := acc.SetPassword(creds.Password); err != nil {
		return profile.Identity{}, errors.Wrap(err, "hashing password")
	}
	acc, err := p.accounts.CreateAccount(ctx, acc)
	if err != nil {
		if err == ErrEmailExists {
			return profile.Identity{}, ErrUserExists
		}
		return profile.Identity{}, Unavailable(errors.Wrap(err, "creating account"))
	}
	return acc.Identity(), nil
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (Session, error) {
	acc, err := p.accounts.GetAccountByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		if err == ErrAccountNotFound {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, Unavailable(errors.Wrap(err, "finding account by email"))
	}
	if err = acc.CheckPassword(password); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	now := p.now()
	acc.LastSignIn = now.UTC()
	if _, err = p.accounts.UpdateAccount(ctx, acc); err != nil {
		return Session{}, Unavailable(errors.Wrap(err, "setting lastSignIn"))
	}

	claims := newClaims(acc.Identity(), p.issuer, now, p.ttl)
	token, err := GenerateToken(claims, p.key)
	if err != nil {
		return Session{}, err
	}
	return Session{
		Identity:  acc.Identity(),
		Token:     token,
		ExpiresAt: claims.ExpiresAtTime(),
	}, nil
}

// SignOut revokes the token until it would have expired anyway.
// Signing out an invalid or expired token is a no-op.
func (p *LocalProvider) SignOut(ctx context.Context, token string) error {
	claims, err := p.parse(token)
	if err != nil {
		return nil
	}
	if err := p.revocations.Revoke(ctx, claims.Id, claims.ExpiresAtTime()); err != nil {
		return Unavailable(errors.Wrap(err, "revoking token"))
	}
	return nil
}

func (p *LocalProvider) Resolve(ctx context.Context, token string) (profile.Identity, error) {
	claims, err := p.parse(token)
	if err != nil {
		return profile.Identity{}, err
	}
	revoked, err := p.revocations.IsRevoked(ctx, claims.Id)
	if err != nil {
		return profile.Identity{}, Unavailable(errors.Wrap(err, "checking token revocation"))
	}
	if revoked {
		return profile.Identity{}, ErrSessionExpired
	}
	return claims.Identity(), nil
}

// SetPassword replaces the password of the account registered with `email`.
func (p *LocalProvider) SetPassword(ctx context.Context, email, password string) error {
	acc, err := p.accounts.GetAccountByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return errors.Wrap(err, "finding account by email")
	}
	if err = acc.SetPassword(password); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	acc.UpdatedAt = p.now().UTC()
	_, err = p.accounts.UpdateAccount(ctx, acc)
	return errors.Wrap(err, "updating account")
}

func (p *LocalProvider) parse(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrSessionExpired
	}
	claims, err := ParseToken(token, p.key)
	if err != nil {
		return nil, err
	}
	// jwt-go validates `exp` against the wall clock; honour the injected clock too.
	if !p.now().Before(claims.ExpiresAtTime()) {
		return nil, ErrSessionExpired
	}
	return claims, nil
}
