package database

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// UniqueViolation reports whether err is a PostgreSQL unique violation and
// returns the column derived from the constraint name (<table>_<column>_key).
func UniqueViolation(err error) (string, bool) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != codeUniqueViolation {
		return "", false
	}
	return constraintColumn(pqErr.Table, pqErr.Constraint), true
}

// IsForeignKeyViolation reports whether err is a PostgreSQL foreign key violation.
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == codeForeignKeyViolation
}

func constraintColumn(table, constraint string) string {
	column := strings.TrimSuffix(constraint, "_key")
	if table != "" {
		column = strings.TrimPrefix(column, table+"_")
	}
	return column
}
