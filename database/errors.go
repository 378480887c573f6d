package database

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/kbukum/container/errors"
)

var connectionErrorPatterns = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"i/o timeout",
	"no route to host",
	"driver: bad connection",
	"database is closed",
	"database is locked",
}

// IsConnectionError reports whether err looks like a lost or refused
// connection rather than a bad statement.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range connectionErrorPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// FromDatabase translates a GORM or driver error into an AppError.
func FromDatabase(err error, resource string) *apperrors.AppError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NotFound(resource, "").WithCause(err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.AlreadyExists(resource).WithCause(err)
	case IsConnectionError(err):
		return apperrors.New(apperrors.ErrCodeDatabaseError,
			fmt.Sprintf("Database unavailable while processing %s.", resource),
			http.StatusServiceUnavailable).WithCause(err)
	}
	return apperrors.DatabaseError(err)
}
