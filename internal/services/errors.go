package services

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// isUniqueConstraintError reports whether err is a uniqueness violation.
// Postgres and MySQL surface typed driver errors; the SQLite driver only
// returns plain error strings, so those are matched by message.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr != nil && pgErr.Code == "23505" {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr != nil && myErr.Number == 1062 {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unique constraint failed") {
		return true
	}
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
