// Package onboarding creates the account and profile of new users.
package onboarding

import (
	"context"
	"net/mail"

	"github.com/go-playground/validator/v10"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/tadika/core"
	"github.com/trezcool/tadika/core/auth"
	"github.com/trezcool/tadika/core/profile"
)

const welcomeTemplate = "welcome"

// NewUser contains information needed by staff to create a user of any role.
type NewUser struct {
	FullName string `json:"full_name" validate:"required,notblank"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,role"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.FullName = core.CleanString(nu.FullName)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Role = core.CleanString(nu.Role, true /* lower */)
	return validate.Struct(nu)
}

type Service struct {
	provider auth.Provider
	profiles *profile.Service
	mailer   core.EmailService
	validate *validator.Validate
}

func NewService(
	provider auth.Provider,
	profiles *profile.Service,
	mailer core.EmailService,
	validate *validator.Validate,
) *Service {
	vala.BeginValidation().Validate(
		core.IsNotNil(provider, "provider"),
		core.IsNotNil(profiles, "profiles"),
		core.IsNotNil(mailer, "mailer"),
		core.IsNotNil(validate, "validate"),
	).CheckAndPanic()

	return &Service{provider: provider, profiles: profiles, mailer: mailer, validate: validate}
}

// Register signs up a parent and sends them the welcome email.
func (svc *Service) Register(ctx context.Context, reg auth.Registration) (profile.Profile, error) {
	if err := reg.Validate(svc.validate); err != nil {
		return profile.Profile{}, err
	}
	prof, err := svc.create(ctx, reg.Credentials(), profile.NewProfile{
		FullName: reg.FullName,
		Role:     profile.RoleParent,
		Phone:    reg.Phone,
	})
	if err != nil {
		return profile.Profile{}, err
	}

	svc.mailer.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: prof.FullName, Address: reg.Email}},
		Subject:      "Welcome to Tadika",
		TemplateName: welcomeTemplate,
		TemplateData: map[string]string{"FullName": prof.FullName, "Email": reg.Email},
	})
	return prof, nil
}

// CreateUser creates a user of any role, skipping the sign up password policy.
func (svc *Service) CreateUser(ctx context.Context, nu NewUser) (profile.Profile, error) {
	if err := nu.Validate(svc.validate); err != nil {
		return profile.Profile{}, err
	}
	return svc.create(ctx, auth.Credentials{Email: nu.Email, Password: nu.Password}, profile.NewProfile{
		FullName: nu.FullName,
		Role:     profile.Role(nu.Role),
	})
}

func (svc *Service) create(ctx context.Context, creds auth.Credentials, np profile.NewProfile) (profile.Profile, error) {
	ident, err := svc.provider.SignUp(ctx, creds)
	if err != nil {
		return profile.Profile{}, err
	}
	np.ID = ident.ID
	prof, err := svc.profiles.Create(ctx, np)
	if err != nil {
		return profile.Profile{}, errors.Wrap(err, "creating profile")
	}
	return prof, nil
}
