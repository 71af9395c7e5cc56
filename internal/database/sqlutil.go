package database

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// erDupEntry is MariaDB's ER_DUP_ENTRY error number.
const erDupEntry = 1062

// IsDuplicateEntry reports whether err is a unique constraint violation.
func IsDuplicateEntry(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == erDupEntry
	}
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}

// Placeholders returns "?, ?, ?" for n parameters.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// StringArgs converts ids into a []any for variadic query arguments.
func StringArgs(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// likeEscaper escapes LIKE wildcards so user input matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds a case-insensitive substring LIKE pattern for query.
// Callers compare against LOWER(column).
func ContainsPattern(query string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
}
