package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tadika/core/profile"
)

type profileRow struct {
	ID                 string      `db:"id"`
	FullName           string      `db:"full_name"`
	Role               string      `db:"role"`
	LanguagePreference string      `db:"language_preference"`
	Phone              null.String `db:"phone"`
	CreatedAt          time.Time   `db:"created_at"`
	UpdatedAt          time.Time   `db:"updated_at"`
}

func (r profileRow) profile() profile.Profile {
	return profile.Profile{
		ID:                 r.ID,
		FullName:           r.FullName,
		Role:               profile.Role(r.Role),
		LanguagePreference: profile.Language(r.LanguagePreference),
		Phone:              r.Phone.String,
		CreatedAt:          r.CreatedAt.UTC(),
		UpdatedAt:          r.UpdatedAt.UTC(),
	}
}

var profileColumns = []string{"id", "full_name", "role", "language_preference", "phone", "created_at", "updated_at"}

type profileRepository struct {
	db *sqlx.DB
}

var _ profile.Repository = (*profileRepository)(nil)

func NewProfileRepository(db *sqlx.DB) profile.Repository {
	return &profileRepository{db: db}
}

func nullString(s string) null.String {
	return null.NewString(s, s != "")
}

func (repo *profileRepository) CreateProfile(ctx context.Context, prof profile.Profile) (profile.Profile, error) {
	_, err := exec(ctx, repo.db, psql.Insert("profiles").
		Columns(profileColumns...).
		Values(prof.ID, prof.FullName, string(prof.Role), string(prof.LanguagePreference),
			nullString(prof.Phone), prof.CreatedAt, prof.UpdatedAt))
	if err != nil {
		return profile.Profile{}, errors.Wrap(err, "inserting profile")
	}
	return prof, nil
}

func (repo *profileRepository) GetProfile(ctx context.Context, id string) (profile.Profile, error) {
	var row profileRow
	err := get(ctx, repo.db, &row, psql.Select(profileColumns...).From("profiles").Where(sq.Eq{"id": id}))
	if err == sql.ErrNoRows {
		return profile.Profile{}, profile.ErrNotFound
	} else if err != nil {
		return profile.Profile{}, errors.Wrap(err, "selecting profile")
	}
	return row.profile(), nil
}

func (repo *profileRepository) UpdateProfile(ctx context.Context, prof profile.Profile) (profile.Profile, error) {
	res, err := exec(ctx, repo.db, psql.Update("profiles").
		Set("full_name", prof.FullName).
		Set("phone", nullString(prof.Phone)).
		Set("language_preference", string(prof.LanguagePreference)).
		Set("updated_at", prof.UpdatedAt).
		Where(sq.Eq{"id": prof.ID}))
	if err != nil {
		return profile.Profile{}, errors.Wrap(err, "updating profile")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return profile.Profile{}, profile.ErrNotFound
	}
	return repo.GetProfile(ctx, prof.ID)
}

func filterProfiles(qry sq.SelectBuilder, filter profile.QueryFilter) sq.SelectBuilder {
	if len(filter.IDs) > 0 {
		qry = qry.Where(sq.Eq{"id": filter.IDs})
	}
	if len(filter.Roles) > 0 {
		roles := make([]string, len(filter.Roles))
		for i, r := range filter.Roles {
			roles[i] = string(r)
		}
		qry = qry.Where(sq.Eq{"role": roles})
	}
	return qry
}

func (repo *profileRepository) CountProfiles(ctx context.Context, filter profile.QueryFilter) (int, error) {
	n, err := count(ctx, repo.db, filterProfiles(psql.Select("count(*)").From("profiles"), filter))
	return n, errors.Wrap(err, "counting profiles")
}

func (repo *profileRepository) QueryProfiles(ctx context.Context, filter profile.QueryFilter) ([]profile.Profile, error) {
	var rows []profileRow
	qry := filterProfiles(psql.Select(profileColumns...).From("profiles"), filter).OrderBy("created_at ASC")
	if err := selectAll(ctx, repo.db, &rows, qry); err != nil {
		return nil, errors.Wrap(err, "selecting profiles")
	}
	profs := make([]profile.Profile, len(rows))
	for i, row := range rows {
		profs[i] = row.profile()
	}
	return profs, nil
}
