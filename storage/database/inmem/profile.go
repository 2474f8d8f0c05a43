package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/tadika/core/profile"
)

type profileRepository struct {
	db *DB
}

var _ profile.Repository = (*profileRepository)(nil)

func NewProfileRepository(db *DB) profile.Repository {
	return &profileRepository{db: db}
}

func (repo *profileRepository) filter(filter profile.QueryFilter) []profile.Profile {
	res := make([]profile.Profile, 0)
	for _, prof := range repo.db.profiles {
		if len(filter.IDs) > 0 && !contains(filter.IDs, prof.ID) {
			continue
		}
		if len(filter.Roles) > 0 && !hasRole(filter.Roles, prof.Role) {
			continue
		}
		res = append(res, *prof)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res
}

func hasRole(roles []profile.Role, role profile.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func (repo *profileRepository) CreateProfile(_ context.Context, prof profile.Profile) (profile.Profile, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.profiles[prof.ID] = &prof
	return prof, nil
}

func (repo *profileRepository) GetProfile(_ context.Context, id string) (profile.Profile, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if prof, ok := repo.db.profiles[id]; ok {
		return *prof, nil
	}
	return profile.Profile{}, profile.ErrNotFound
}

func (repo *profileRepository) UpdateProfile(_ context.Context, prof profile.Profile) (profile.Profile, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	orig, ok := repo.db.profiles[prof.ID]
	if !ok {
		return profile.Profile{}, profile.ErrNotFound
	}
	orig.FullName = prof.FullName
	orig.Phone = prof.Phone
	orig.LanguagePreference = prof.LanguagePreference
	orig.UpdatedAt = prof.UpdatedAt
	return *orig, nil
}

func (repo *profileRepository) CountProfiles(_ context.Context, filter profile.QueryFilter) (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return len(repo.filter(filter)), nil
}

func (repo *profileRepository) QueryProfiles(_ context.Context, filter profile.QueryFilter) ([]profile.Profile, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()
	return repo.filter(filter), nil
}
