package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/Spok95/vocab-scale/internal/apperr"
)

// classify maps driver errors onto the apperr taxonomy, keeping the original in the chain.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", apperr.ErrNotFound, err)
	}
	if code, constraint, ok := pgCode(err); ok {
		switch {
		case code == "23505":
			return fmt.Errorf("%w: %w", apperr.Invalid(constraintField(constraint), "already exists"), err)
		case code == "23514", code == "23502", code == "22P02", code == "22003":
			return fmt.Errorf("%w: %w", apperr.Invalid(constraintField(constraint), "out of range"), err)
		case strings.HasPrefix(code, "08"), code == "57P01", code == "57P03":
			return fmt.Errorf("%w: %w", apperr.ErrStorageUnavailable, err)
		}
		return err
	}
	if isConnErr(err) {
		return fmt.Errorf("%w: %w", apperr.ErrStorageUnavailable, err)
	}
	return err
}

// pgCode reads the SQLSTATE from either driver.
func pgCode(err error) (code, constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint, true
	}
	return "", "", false
}

func isConnErr(err error) bool {
	var connErr *pgconn.ConnectError
	var netErr net.Error
	return errors.As(err, &connErr) ||
		errors.As(err, &netErr) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded)
}

func constraintField(name string) string {
	switch name {
	case "users_username_key":
		return "username"
	case "questions_word_key":
		return "word"
	case "users_user_level_check":
		return "role"
	case "":
		return "value"
	}
	return name
}
