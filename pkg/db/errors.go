package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/mongo"
)

const pgUniqueViolation = "23505"

// ErrInvalidID is returned by stores when an identifier has the right shape
// for routing but cannot be decoded into a store key.
var ErrInvalidID = errors.New("invalid object id")

// IsUniqueViolation reports whether err is a uniqueness constraint failure from
// any supported store: a mongo duplicate key, a Postgres 23505 or a sqlite
// UNIQUE failure. When constraintName is provided, the helper additionally
// requires the constraint text to appear in the error.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" && !strings.Contains(msg, constraintName) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}
