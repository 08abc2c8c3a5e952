package database

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	mysqlDuplicateEntry    = 1062
	mysqlRowIsReferenced   = 1451
	mysqlNoReferencedRow   = 1452
	mysqlRowIsReferencedV2 = 1217
)

// UniqueViolation reports whether err is a unique constraint violation raised by
// PostgreSQL or MySQL and returns the name of the violated constraint (or index).
func UniqueViolation(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if string(pqErr.Code) == pgUniqueViolation {
			return pqErr.Constraint, true
		}
		return "", false
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		if myErr.Number == mysqlDuplicateEntry {
			return mysqlKeyName(myErr.Message), true
		}
		return "", false
	}

	return "", false
}

// IsForeignKeyViolation reports whether err is a foreign key violation, either
// because a referenced row is missing or because a referencing row still exists.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgForeignKeyViolation
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlRowIsReferenced, mysqlRowIsReferencedV2, mysqlNoReferencedRow:
			return true
		}
	}

	return false
}

// mysqlKeyName extracts the index name from a MySQL duplicate entry message,
// e.g. "Duplicate entry 'a@b.com' for key 'identities.uq_identities_email'".
func mysqlKeyName(message string) string {
	const marker = "for key '"
	idx := strings.LastIndex(message, marker)
	if idx < 0 {
		return ""
	}
	key := strings.TrimSuffix(message[idx+len(marker):], "'")
	if dot := strings.LastIndex(key, "."); dot >= 0 {
		key = key[dot+1:]
	}
	return key
}
