package sqlxrepos

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tadika/core"
	"github.com/trezcool/tadika/core/profile"
)

func TestClosedDBIsShutdown(t *testing.T) {
	ctx := context.Background()
	// sql.Open does not connect, so no server is needed
	db, err := sqlx.Open("postgres", "postgres://tadika@localhost:1/tadika?sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	repo := NewProfileRepository(db)
	_, err = repo.GetProfile(ctx, "any")
	assert.True(t, core.IsShutdown(err), "got %v", err)

	_, err = repo.CountProfiles(ctx, profile.QueryFilter{})
	assert.True(t, core.IsShutdown(err), "got %v", err)

	_, err = NewChildcareRepository(db).CountChildren(ctx)
	assert.True(t, core.IsShutdown(err), "got %v", err)
}

func TestDBError(t *testing.T) {
	assert.NoError(t, dbError(nil))
	other := assert.AnError
	assert.Equal(t, other, dbError(other))
}
