package profile

import (
	"context"
	"errors"
	"time"
)

var (
	// errors
	ErrNotFound            = errors.New("profile not found")
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

type (
	Repository interface {
		CreateProfile(ctx context.Context, prof Profile) (Profile, error)
		GetProfile(ctx context.Context, id string) (Profile, error)
		UpdateProfile(ctx context.Context, prof Profile) (Profile, error)
		// CountProfiles applies AND operation on available QueryFilter fields.
		CountProfiles(ctx context.Context, filter QueryFilter) (int, error)
		QueryProfiles(ctx context.Context, filter QueryFilter) ([]Profile, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create stores a new Profile. `np` must have been validated.
func (svc *Service) Create(ctx context.Context, np NewProfile) (Profile, error) {
	lang := Language(np.Language)
	if !lang.IsValid() {
		lang = DefaultLanguage
	}
	now := time.Now().UTC()
	return svc.repo.CreateProfile(ctx, Profile{
		ID:                 np.ID,
		FullName:           np.FullName,
		Role:               np.Role,
		LanguagePreference: lang,
		Phone:              np.Phone,
		CreatedAt:          now,
		UpdatedAt:          now,
	})
}

func (svc *Service) Get(ctx context.Context, id string) (Profile, error) {
	return svc.repo.GetProfile(ctx, id)
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Profile, error) {
	return svc.repo.QueryProfiles(ctx, filter)
}

func (svc *Service) SetLanguage(ctx context.Context, id string, lang Language) (Profile, error) {
	if !lang.IsValid() {
		return Profile{}, ErrUnsupportedLanguage
	}
	prof, err := svc.repo.GetProfile(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	prof.LanguagePreference = lang
	prof.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateProfile(ctx, prof)
}

func (svc *Service) SetPhone(ctx context.Context, id, phone string) (Profile, error) {
	prof, err := svc.repo.GetProfile(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	prof.Phone = phone
	prof.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateProfile(ctx, prof)
}

func (svc *Service) CountByRole(ctx context.Context, role Role) (int, error) {
	return svc.repo.CountProfiles(ctx, QueryFilter{Roles: []Role{role}})
}
