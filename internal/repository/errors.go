package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes the services care about
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// IsNotFound reports whether err means the row does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsForeignKeyError reports whether err is a foreign-key violation
func IsForeignKeyError(err error) bool {
	return pgCode(err) == pgForeignKeyViolation || errors.Is(err, gorm.ErrForeignKeyViolated)
}

// IsDuplicateKeyError reports whether err is a unique-constraint violation.
// When constraintName is not empty the violated constraint must match it.
func IsDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation && (constraintName == "" || pgErr.ConstraintName == constraintName)
	}
	return constraintName == "" && errors.Is(err, gorm.ErrDuplicatedKey)
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
