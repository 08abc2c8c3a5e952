// Package query composes optional listing predicates into SQL filters.
//
// Every listing in the service follows one rule: a record is returned when all
// supplied predicates hold, and an absent predicate contributes no constraint.
// Repositories describe their filters as a list of Predicates and render them
// for their dialect with Where.
package query

import (
	"fmt"
	"strings"
)

// Dialect identifies the placeholder syntax used when rendering predicates.
type Dialect int

const (
	// Postgres renders numbered placeholders ($1, $2, ...).
	Postgres Dialect = iota
	// MySQL renders positional placeholders (?).
	MySQL
)

// DialectFor returns the Dialect matching a database/sql driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "postgres":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	default:
		return 0, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// Predicate is a single named, optional constraint on a column.
type Predicate struct {
	column  string
	value   any
	fold    bool
	present bool
}

// Present reports whether the predicate constrains the result.
func (p Predicate) Present() bool {
	return p.present
}

// Column returns the constrained column name.
func (p Predicate) Column() string {
	return p.column
}

// Eq matches rows whose column equals value exactly.
func Eq(column string, value any) Predicate {
	return Predicate{column: column, value: value, present: true}
}

// EqFold matches rows whose column equals value ignoring case.
func EqFold(column string, value string) Predicate {
	return Predicate{column: column, value: strings.ToUpper(value), fold: true, present: true}
}

// Optional returns Eq(column, convert(*value)) when value is non-nil, and an
// absent predicate otherwise.
func Optional[T any](column string, value *T, convert func(T) any) Predicate {
	if value == nil {
		return Predicate{column: column}
	}
	return Eq(column, convert(*value))
}

// OptionalFold is the case-insensitive variant of Optional for string values.
func OptionalFold[T ~string](column string, value *T) Predicate {
	if value == nil {
		return Predicate{column: column}
	}
	return EqFold(column, string(*value))
}

// Where renders the present predicates as an AND-composed WHERE clause.
// Placeholders are numbered starting at argOffset+1 for the Postgres dialect.
// It returns an empty clause and no arguments when no predicate is present.
func Where(dialect Dialect, argOffset int, predicates ...Predicate) (string, []any) {
	conditions := make([]string, 0, len(predicates))
	args := make([]any, 0, len(predicates))

	for _, p := range predicates {
		if !p.present {
			continue
		}

		args = append(args, p.value)
		placeholder := dialect.placeholder(argOffset + len(args))

		if p.fold {
			conditions = append(conditions, fmt.Sprintf("UPPER(%s) = %s", p.column, placeholder))
			continue
		}
		conditions = append(conditions, fmt.Sprintf("%s = %s", p.column, placeholder))
	}

	if len(conditions) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (d Dialect) placeholder(n int) string {
	if d == MySQL {
		return "?"
	}
	return fmt.Sprintf("$%d", n)
}
