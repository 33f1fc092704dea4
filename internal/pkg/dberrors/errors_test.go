package dberrors

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateConstraintError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: ConstraintAlumniEmail}
	wrapped := fmt.Errorf("insert alumni: %w", pgErr)

	assert.True(t, IsDuplicateConstraintError(wrapped, ConstraintAlumniEmail))
	assert.False(t, IsDuplicateConstraintError(wrapped, ConstraintAlumniMembershipID))
	assert.False(t, IsDuplicateConstraintError(&pgconn.PgError{Code: "23503", ConstraintName: ConstraintAlumniEmail}, ConstraintAlumniEmail))
}
