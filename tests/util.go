package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/tadika/core"
	"github.com/trezcool/tadika/core/auth"
	"github.com/trezcool/tadika/core/childcare"
	"github.com/trezcool/tadika/core/profile"
)

// NewValidator returns a validator with every custom tag and translation registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	enLocale := en.New()
	translator, _ := ut.New(enLocale, enLocale).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	profile.InitValidators(validate, translator)
	auth.InitValidators(validate, translator)
	childcare.InitValidators(validate, translator)
	return validate, translator
}

// FixedClock always returns t.
func FixedClock(t time.Time) core.Clock {
	return func() time.Time { return t }
}

// CreateUser signs up an account through `provider` and stores its profile.
func CreateUser(
	t *testing.T,
	provider auth.Provider,
	profiles profile.Repository,
	name, email, pwd string,
	role profile.Role,
	createdAt ...time.Time,
) profile.Profile {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	ctx := context.Background()
	ident, err := provider.SignUp(ctx, auth.Credentials{Email: email, Password: pwd})
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	prof, err := profiles.CreateProfile(ctx, profile.Profile{
		ID:                 ident.ID,
		FullName:           name,
		Role:               role,
		LanguagePreference: profile.DefaultLanguage,
		CreatedAt:          tstamp,
		UpdatedAt:          tstamp,
	})
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return prof
}

// MapStorage is a map-backed session.ClientStorage.
type MapStorage map[string]string

func (s MapStorage) Get(key string) (string, bool) {
	val, ok := s[key]
	return val, ok
}

func (s MapStorage) Set(key, value string) { s[key] = value }

func (s MapStorage) Delete(key string) { delete(s, key) }
