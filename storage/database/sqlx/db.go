// Package sqlxrepos implements the repositories on PostgreSQL with sqlx and squirrel.
package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/tadika/core"
)

// uniqueViolation is the PostgreSQL error code of a unique constraint violation.
const uniqueViolation = "23505"

const dateLayout = "2006-01-02"

// errDBClosed is the message of the unexported error database/sql returns once the pool is closed.
const errDBClosed = "sql: database is closed"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func isUniqueViolation(err error) bool {
	pqErr, ok := errors.Cause(err).(*pq.Error)
	return ok && pqErr.Code == uniqueViolation
}

// sqlDate renders t as a DATE literal so the server timezone cannot shift the day.
func sqlDate(t time.Time) string {
	return t.Format(dateLayout)
}

func orderBy(qry sq.SelectBuilder, prefix string, ordering []core.DBOrdering) sq.SelectBuilder {
	if len(ordering) == 0 {
		ordering = core.NewestFirst
	}
	for _, ord := range ordering {
		qry = qry.OrderBy(prefix + ord.String())
	}
	return qry
}

func limit(qry sq.SelectBuilder, lim int) sq.SelectBuilder {
	if lim > 0 {
		return qry.Limit(uint64(lim))
	}
	return qry
}

// restrict adds `col IN ids` when ids is non-nil; an empty slice renders as (1=0).
func restrict(qry sq.SelectBuilder, col string, ids []string) sq.SelectBuilder {
	if ids == nil {
		return qry
	}
	return qry.Where(sq.Eq{col: ids})
}

// dbError turns a closed pool into a shutdown error: the API cannot serve without its database.
func dbError(err error) error {
	if err != nil && err.Error() == errDBClosed {
		return core.NewShutdownError(err.Error())
	}
	return err
}

func get(ctx context.Context, db *sqlx.DB, dest interface{}, qry sq.Sqlizer) error {
	query, args, err := qry.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	return dbError(db.GetContext(ctx, dest, query, args...))
}

func selectAll(ctx context.Context, db *sqlx.DB, dest interface{}, qry sq.Sqlizer) error {
	query, args, err := qry.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	return dbError(db.SelectContext(ctx, dest, query, args...))
}

func exec(ctx context.Context, db *sqlx.DB, qry sq.Sqlizer) (sql.Result, error) {
	query, args, err := qry.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	res, err := db.ExecContext(ctx, query, args...)
	return res, dbError(err)
}

func count(ctx context.Context, db *sqlx.DB, qry sq.SelectBuilder) (int, error) {
	var n int
	if err := get(ctx, db, &n, qry); err != nil {
		return 0, err
	}
	return n, nil
}

func newID(id string) string {
	if id == "" {
		return uuid.New().String()
	}
	return id
}
