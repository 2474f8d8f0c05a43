package auth

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/tadika/core/profile"
)

var signingMethod = jwt.SigningMethodHS256

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Email string `json:"email,omitempty"`
}

func (c Claims) Identity() profile.Identity {
	return profile.Identity{ID: c.Subject, Email: c.Email}
}

func (c Claims) ExpiresAtTime() time.Time {
	return time.Unix(c.ExpiresAt, 0).UTC()
}

func newClaims(ident profile.Identity, issuer string, now time.Time, ttl time.Duration) *Claims {
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.New().String(),
			Issuer:    issuer,
			Subject:   ident.ID,
			ExpiresAt: now.Add(ttl).Unix(),
			IssuedAt:  now.Unix(),
		},
		Email: ident.Email,
	}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(claims *Claims, key []byte) (string, error) {
	token := jwt.NewWithClaims(signingMethod, claims)
	ss, err := token.SignedString(key)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// ParseToken verifies the signature and the expiry of `tokenStr`.
func ParseToken(tokenStr string, key []byte) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != signingMethod.Alg() {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return key, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrSessionExpired
	}
	return claims, nil
}
