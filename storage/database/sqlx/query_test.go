package sqlxrepos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/tadika/core"
	"github.com/trezcool/tadika/core/childcare"
	"github.com/trezcool/tadika/core/profile"
)

func TestFilterEnrollments(t *testing.T) {
	tests := []struct {
		name     string
		filter   childcare.EnrollmentFilter
		wantSQL  string
		wantArgs []interface{}
	}{
		{
			name:    "no filter",
			wantSQL: "SELECT count(*) FROM class_enrollments e",
		},
		{
			name:     "class and status",
			filter:   childcare.EnrollmentFilter{ClassIDs: []string{"c1"}, Status: childcare.EnrollmentActive},
			wantSQL:  "SELECT count(*) FROM class_enrollments e WHERE e.class_id IN ($1) AND e.status = $2",
			wantArgs: []interface{}{"c1", "active"},
		},
		{
			name:    "empty ids match nothing",
			filter:  childcare.EnrollmentFilter{ChildIDs: []string{}},
			wantSQL: "SELECT count(*) FROM class_enrollments e WHERE (1=0)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := filterEnrollments(psql.Select("count(*)").From("class_enrollments e"), tt.filter).ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, query)
			if tt.wantArgs == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}

func TestFilterAttendance_DateLiteral(t *testing.T) {
	kl := time.FixedZone("MYT", 8*60*60)
	day := time.Date(2024, time.March, 12, 0, 0, 0, 0, kl)

	query, args, err := filterAttendance(psql.Select("count(*)").From("attendance"), childcare.AttendanceFilter{Date: day}).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT count(*) FROM attendance WHERE date = $1", query)
	assert.Equal(t, []interface{}{"2024-03-12"}, args)
}

func TestFilterProfiles(t *testing.T) {
	query, args, err := filterProfiles(
		psql.Select("count(*)").From("profiles"),
		profile.QueryFilter{Roles: []profile.Role{profile.RoleTeacher}},
	).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT count(*) FROM profiles WHERE role IN ($1)", query)
	assert.Equal(t, []interface{}{"teacher"}, args)
}

func TestOrderByAndLimit(t *testing.T) {
	qry := limit(orderBy(psql.Select("id").From("activities a"), "a.", nil), 5)
	query, _, err := qry.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM activities a ORDER BY a.created_at DESC LIMIT 5", query)

	qry = limit(orderBy(psql.Select("id").From("announcements"), "", []core.DBOrdering{{Field: "title", Ascending: true}}), 0)
	query, _, err = qry.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM announcements ORDER BY title ASC", query)
}
