package gormstore

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ErrDuplicateID is returned when an insert reuses an existing primary key.
var ErrDuplicateID = errors.New("duplicate id")

func isUniqueConstraintViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	// the sqlite driver does not translate constraint errors
	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "unique constraint failed")
}

func isNotNullConstraintViolation(err error) bool {
	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "not null") ||
		strings.Contains(errMsg, "null value") ||
		strings.Contains(errMsg, "23502") // PostgreSQL not_null_violation
}

// translateWriteError maps constraint failures to repository-level errors
func translateWriteError(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case isUniqueConstraintViolation(err):
		return errors.Wrap(ErrDuplicateID, msg)
	case isNotNullConstraintViolation(err):
		return errors.Wrapf(err, "%s: missing required column", msg)
	default:
		return errors.Wrap(err, msg)
	}
}
