package persistence

import (
	"errors"
	"strings"

	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// translateError maps driver errors to domain errors. Record-not-found becomes
// notFound; unique violations become ErrUniqueConstraint, or ErrUniqueEmail when
// the violated key is a user email.
func translateError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	if constraint, ok := uniqueViolation(err); ok {
		if strings.Contains(constraint, "email") {
			return shared.ErrUniqueEmail
		}
		return shared.ErrUniqueConstraint
	}
	return err
}

// uniqueViolation reports whether err is a unique-key failure and, when the
// driver exposes it, the violated constraint or column list.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName, true
	}
	msg := err.Error()
	if i := strings.Index(msg, "UNIQUE constraint failed:"); i >= 0 {
		return msg[i+len("UNIQUE constraint failed:"):], true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", true
	}
	return "", false
}

// IsUniqueViolation reports whether err is a unique-key failure.
func IsUniqueViolation(err error) bool {
	_, ok := uniqueViolation(err)
	return ok
}
