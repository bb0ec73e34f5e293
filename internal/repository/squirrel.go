package repository

import (
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mtlprog/taskdesk/internal/domain"
)

// psql is the shared Squirrel statement builder configured for PostgreSQL dollar placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgreSQL error codes.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Foreign keys referencing users and tasks, as named by PostgreSQL defaults.
var foreignKeyErrors = map[string]error{
	"assignments_task_id_fkey": domain.ErrTaskNotFound,
	"assignments_user_id_fkey": domain.ErrUserNotFound,
	"comments_task_id_fkey":    domain.ErrTaskNotFound,
	"comments_user_id_fkey":    domain.ErrUserNotFound,
}

// validID reports whether id can match a UUID primary key. Lookups by an
// unparseable id report not found instead of a cast error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}

// foreignKeyError translates a violated reference into the matching
// not-found error. It returns nil for any other error.
func foreignKeyError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != codeForeignKeyViolation {
		return nil
	}
	return foreignKeyErrors[pgErr.ConstraintName]
}
