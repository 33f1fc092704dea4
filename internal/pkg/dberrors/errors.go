package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes
const (
	codeUniqueViolation = "23505"
)

// Constraint names declared in migrations
const (
	ConstraintAlumniEmail        = "alumni_email_lower_key"
	ConstraintAlumniMembershipID = "alumni_ehsas_id_key"
	ConstraintAdminEmail         = "admins_email_key"
)

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation && pgErr.ConstraintName == constraintName
}
